package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

const (
	msgFeedbackSent    = "Feedback submitted successfully!"
	msgFeedbackFailed  = "Failed to submit feedback."
	msgFeedbackLoadErr = "Failed to load feedback."
)

// FeedbackHandler serves the feedback form and history
type FeedbackHandler struct {
	pages *Pages
}

// NewFeedbackHandler creates a feedback handler
func NewFeedbackHandler(p *Pages) *FeedbackHandler {
	return &FeedbackHandler{pages: p}
}

// Show renders an empty feedback form
func (h *FeedbackHandler) Show(c echo.Context) error {
	return h.pages.Page(c, http.StatusOK, "Feedback", pages.Feedback(types.FeedbackInput{}))
}

// Submit posts general app feedback. The form is cleared only on success.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var in types.FeedbackInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	in.Type = types.FeedbackApp
	in.Trainer, in.Class = "", ""
	if err := in.Validate(); err != nil {
		showValidation(c, err)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Feedback", pages.Feedback(in))
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.SubmitFeedback(c.Request().Context(), in)
	if err != nil {
		failure(c, err, msgFeedbackFailed)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Feedback", pages.Feedback(in))
	}
	notify(c, ack.Or(msgFeedbackSent), false)
	return seeOther(c, "/feedback")
}

// History lists feedback, narrowed by the trainerId and type query parameters
func (h *FeedbackHandler) History(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	filter := types.FeedbackFilter{
		TrainerID: c.QueryParam("trainerId"),
		Type:      c.QueryParam("type"),
	}
	view := pages.FeedbackHistoryView{}
	view.Items, err = client.Feedback(c.Request().Context(), filter)
	if err != nil {
		slog.Error("failed to load feedback", "error", err)
		failure(c, err, msgFeedbackLoadErr)
		view.LoadFailed = true
	}
	return h.pages.Page(c, http.StatusOK, "Feedback History", pages.FeedbackHistory(view))
}
