package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/guard"
	"github.com/fitnesshub/web/internal/handlers"
	"github.com/fitnesshub/web/internal/jobs"
	"github.com/fitnesshub/web/internal/middleware"
	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
)

type Service struct {
	config   *Config
	tokens   session.TokenStore
	sessions *session.Manager
	registry *auth.Registry
	guard    *guard.Guard
	reaper   *jobs.SessionReaper

	pages           *handlers.Pages
	authHandler     *handlers.AuthHandler
	classHandler    *handlers.ClassHandler
	bookingHandler  *handlers.BookingHandler
	trainerHandler  *handlers.TrainerHandler
	profileHandler  *handlers.ProfileHandler
	feedbackHandler *handlers.FeedbackHandler
	messageHandler  *handlers.MessageHandler
	paymentHandler  *handlers.PaymentHandler
}

// New wires the session machinery and handlers around the backend client
func New(config *Config, tokens session.TokenStore, opts ...api.Option) (*Service, error) {
	logger := slog.Default()
	client, err := api.New(config.API.BaseURL, append([]api.Option{
		api.WithTimeout(config.API.Timeout),
		api.WithLogger(logger),
	}, opts...)...)
	if err != nil {
		return nil, err
	}

	registry := auth.NewRegistry(client, tokens, auth.RegistryOptions{
		NoticeTTL:     config.NoticeTTL,
		VerifyTimeout: config.API.Timeout,
		Logger:        logger,
	})

	// tokens persisted in SQLite need explicit pruning; memory and redis expire on their own
	var pruner jobs.ExpiredTokenPruner
	if p, ok := tokens.(jobs.ExpiredTokenPruner); ok {
		pruner = p
	}

	sessions := session.NewManager(config.Session.Secret, session.Options{
		MaxAge: int(config.Session.MaxAge.Seconds()),
		Secure: config.IsProduction(),
	})

	pages := handlers.NewPages(config.BaseURL, logger)
	loc := config.Location()

	return &Service{
		config: config,
		tokens: tokens,
		sessions: sessions,
		registry: registry,
		guard:    guard.New(pages.Loading, logger),
		reaper:   jobs.NewSessionReaper(registry, pruner, config.Session.IdleTTL, jobs.DefaultReapInterval),

		pages:           pages,
		authHandler:     handlers.NewAuthHandler(pages, auth.NewRotator(sessions, registry)),
		classHandler:    handlers.NewClassHandler(pages, loc),
		bookingHandler:  handlers.NewBookingHandler(pages, loc),
		trainerHandler:  handlers.NewTrainerHandler(pages),
		profileHandler:  handlers.NewProfileHandler(pages),
		feedbackHandler: handlers.NewFeedbackHandler(pages),
		messageHandler:  handlers.NewMessageHandler(),
		paymentHandler:  handlers.NewPaymentHandler(config.Stripe.PublishableKey),
	}, nil
}

// Start launches the background jobs
func (s *Service) Start(ctx context.Context) {
	s.reaper.Start(ctx)
}

// Stop halts the background jobs
func (s *Service) Stop() {
	s.reaper.Stop()
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = s.pages.ErrorHandler(e)

	// Static files and health checks never touch a browser session
	e.Static("/public", "public")
	e.GET("/health", s.handleHealth)

	// Middleware is attached per route: an echo group with middleware would
	// install its own catch-all and shadow the not-found page.
	withSession := middleware.LoadSession(s.sessions, s.registry, s.config.ReconcileWait)
	guest := []echo.MiddlewareFunc{withSession, s.guard.GuestOnly()}
	signedIn := []echo.MiddlewareFunc{withSession, s.guard.Require()}
	member := []echo.MiddlewareFunc{withSession, s.guard.Require(types.RoleUser)}
	trainer := []echo.MiddlewareFunc{withSession, s.guard.Require(types.RoleTrainer)}

	// Public pages
	e.GET("/", s.pages.Home, withSession)
	e.GET("/trainers", s.trainerHandler.List, withSession)
	e.GET("/trainers/:id", s.trainerHandler.Profile, withSession)

	// Auth
	e.GET("/login", s.authHandler.ShowLogin, guest...)
	e.POST("/login", s.authHandler.Login, guest...)
	e.GET("/register", s.authHandler.ShowRegister, guest...)
	e.POST("/register", s.authHandler.Register, guest...)
	e.POST("/logout", s.authHandler.Logout, withSession)

	// Banner
	e.POST("/messages/dismiss", s.messageHandler.Dismiss, withSession)
	e.GET("/messages/stream", s.messageHandler.Stream, withSession)

	// Signed-in pages
	e.GET("/dashboard", s.pages.Dashboard, signedIn...)
	e.GET("/classes", s.classHandler.List, signedIn...)
	e.GET("/feedback", s.feedbackHandler.Show, signedIn...)
	e.POST("/feedback", s.feedbackHandler.Submit, signedIn...)
	e.GET("/feedback/history", s.feedbackHandler.History, signedIn...)

	// Booking buttons answer guests and trainers with a message instead of a redirect
	e.POST("/classes/:id/book", s.classHandler.Book, withSession)
	e.POST("/classes/:id/cancel", s.classHandler.Cancel, withSession)

	// Members
	e.GET("/my-bookings", s.bookingHandler.List, member...)
	e.POST("/my-bookings/:id/cancel", s.bookingHandler.Cancel, member...)
	e.POST("/my-bookings/:id/reschedule", s.bookingHandler.Reschedule, member...)
	e.GET("/my-bookings/:id/pass.pdf", s.bookingHandler.PassPDF, member...)
	e.GET("/my-bookings/:id/pass.png", s.bookingHandler.PassPNG, member...)
	e.POST("/trainers/:id/reviews", s.trainerHandler.AddReview, member...)

	// Trainers
	e.GET("/add-class", s.classHandler.ShowAdd, trainer...)
	e.POST("/add-class", s.classHandler.Add, trainer...)
	e.GET("/my-classes", s.classHandler.Mine, trainer...)
	e.POST("/my-classes/:id", s.classHandler.Update, trainer...)
	e.POST("/my-classes/:id/delete", s.classHandler.Delete, trainer...)
	e.GET("/trainer/edit-profile", s.profileHandler.Show, trainer...)
	e.POST("/trainer/edit-profile", s.profileHandler.Update, trainer...)
	e.POST("/trainer/edit-profile/upload", s.profileHandler.Upload, trainer...)

	// Payment API
	e.POST("/api/payments/intent", s.paymentHandler.CreatePaymentIntent, signedIn...)
	e.POST("/api/payments/confirm", s.paymentHandler.ConfirmPayment, signedIn...)

	e.RouteNotFound("/*", s.pages.NotFound, withSession)
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.config.Environment,
		"token_store": s.config.TokenStore,
		"sessions":    s.registry.Len(),
	})
}
