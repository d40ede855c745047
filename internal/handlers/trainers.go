package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	msgTrainersFailed = "Failed to load trainers."
	msgTrainerFailed  = "Failed to load trainer profile."
	msgReviewAdded    = "Review added successfully!"
	msgReviewFailed   = "Failed to add review."
)

// TrainerHandler serves the public trainer pages and member reviews
type TrainerHandler struct {
	pages *Pages
}

// NewTrainerHandler creates a trainer handler
func NewTrainerHandler(p *Pages) *TrainerHandler {
	return &TrainerHandler{pages: p}
}

// List renders the trainer directory
func (h *TrainerHandler) List(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	view := pages.TrainersView{}
	view.Trainers, err = client.Trainers(c.Request().Context())
	if err != nil {
		slog.Error("failed to load trainers", "error", err)
		failure(c, err, msgTrainersFailed)
		view.LoadFailed = true
	}
	return h.pages.Page(c, http.StatusOK, "Trainers", pages.Trainers(view))
}

// Profile renders one trainer with their reviews, fetched in parallel
func (h *TrainerHandler) Profile(c echo.Context) error {
	id := c.Param("id")
	client, err := sessionClient(c)
	if err != nil {
		return err
	}

	var (
		trainer    *types.Trainer
		reviews    []types.Review
		reviewsErr error
	)
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		trainer, err = client.Trainer(ctx, id)
		return err
	})
	g.Go(func() error {
		reviews, reviewsErr = client.Reviews(ctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			notify(c, msgTrainerFailed, true)
			return h.pages.NotFound(c)
		}
		slog.Error("failed to load trainer profile", "trainer_id", id, "error", err)
		failure(c, err, msgTrainerFailed)
		return seeOther(c, "/trainers")
	}

	view := pages.TrainerProfileView{Trainer: *trainer, Reviews: reviews}
	if reviewsErr != nil {
		slog.Warn("failed to load trainer reviews", "trainer_id", id, "error", reviewsErr)
		view.ReviewsFailed = true
	}
	user, ok := auth.GetUser(c)
	view.CanReview = ok && !user.IsTrainer() && reviewsErr == nil && !hasReviewed(reviews, user.ID)
	return h.pages.Page(c, http.StatusOK, trainer.Name, pages.TrainerProfile(view))
}

func hasReviewed(reviews []types.Review, userID string) bool {
	for _, r := range reviews {
		if r.AuthorID() == userID {
			return true
		}
	}
	return false
}

// AddReview posts the member's rating of the trainer
func (h *TrainerHandler) AddReview(c echo.Context) error {
	id := c.Param("id")
	back := "/trainers/" + id

	var in types.ReviewInput
	if err := c.Bind(&in); err != nil {
		notify(c, "Please select a rating.", true)
		return seeOther(c, back)
	}
	if err := in.Validate(); err != nil {
		showValidation(c, err)
		return seeOther(c, back)
	}
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.AddReview(c.Request().Context(), id, in)
	if err != nil {
		failure(c, err, msgReviewFailed)
		return seeOther(c, back)
	}
	notify(c, ack.Or(msgReviewAdded), false)
	return seeOther(c, back)
}
