package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/guard"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

const (
	msgStillRestoring  = "Still restoring your session. Please try again."
	msgLoginToBook     = "Please log in to book a class."
	msgTrainerNoBook   = "Trainers cannot book classes."
	msgLoginToCancel   = "Please log in to cancel a booking."
	msgTrainerNoCancel = "Trainers cannot cancel member bookings."
	msgBooked          = "Class booked successfully!"
	msgBookFailed      = "Failed to book class."
	msgBookingCanceled = "Booking cancelled successfully!"
	msgCancelFailed    = "Failed to cancel booking."
	msgClassesFailed   = "Failed to load classes."
	msgTrainersOnly    = "Only trainers can add classes."
	msgClassAdded      = "Class added successfully!"
	msgClassAddFailed  = "Failed to add class."
	msgClassUpdated    = "Class updated successfully!"
	msgClassUpdFailed  = "Failed to update class."
	msgClassDeleted    = "Class deleted successfully!"
	msgClassDelFailed  = "Failed to delete class."
	msgScheduleFailed  = "Failed to process class date/time for booking."
)

// ClassHandler serves the class listing, booking actions and trainer class management
type ClassHandler struct {
	pages *Pages
	loc   *time.Location
}

// NewClassHandler creates a class handler. Class dates and times are read in loc.
func NewClassHandler(p *Pages, loc *time.Location) *ClassHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ClassHandler{pages: p, loc: loc}
}

// List renders every class with the viewer's book or cancel action
func (h *ClassHandler) List(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	view := pages.ClassesView{}
	classes, err := client.Classes(c.Request().Context())
	if err != nil {
		slog.Error("failed to load classes", "error", err)
		failure(c, err, msgClassesFailed)
		view.LoadFailed = true
		return h.pages.Page(c, http.StatusOK, "Classes", pages.Classes(view))
	}

	user, signedIn := auth.GetUser(c)
	for _, cl := range classes {
		card := pages.ClassCard{Class: cl, SignedIn: signedIn}
		if signedIn {
			card.Trainer = user.IsTrainer()
			card.Booked = cl.IsBookedBy(user.ID)
		}
		view.Classes = append(view.Classes, card)
	}
	return h.pages.Page(c, http.StatusOK, "Classes", pages.Classes(view))
}

// bookingForm is the schedule carried by the book button
type bookingForm struct {
	Date      string `form:"date"`
	StartTime string `form:"startTime"`
	Trainer   string `form:"trainer"`
}

// Book reserves a spot in the class for the signed-in member
func (h *ClassHandler) Book(c echo.Context) error {
	if restoring(c) {
		notify(c, msgStillRestoring, true)
		return seeOther(c, "/classes")
	}
	user, ok := auth.GetUser(c)
	if !ok {
		notify(c, msgLoginToBook, true)
		return seeOther(c, guard.LoginPath)
	}
	if user.IsTrainer() {
		notify(c, msgTrainerNoBook, true)
		return seeOther(c, "/classes")
	}

	var form bookingForm
	if err := c.Bind(&form); err != nil {
		notify(c, msgScheduleFailed, true)
		return seeOther(c, "/classes")
	}
	class := types.Class{ID: c.Param("id"), Date: form.Date, StartTime: form.StartTime}
	at, err := class.StartsAt(h.loc)
	switch {
	case errors.Is(err, types.ErrIncompleteSchedule):
		notify(c, "Class date or time information is incomplete.", true)
		return seeOther(c, "/classes")
	case err != nil:
		notify(c, "Invalid class date or time format.", true)
		return seeOther(c, "/classes")
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.BookClass(c.Request().Context(), types.BookingRequest{
		Class:       class.ID,
		BookingDate: at.UTC(),
		Trainer:     form.Trainer,
	})
	if err != nil {
		slog.Info("booking rejected", "class_id", class.ID, "user_id", user.ID, "error", err)
		failure(c, err, msgBookFailed)
		return seeOther(c, "/classes")
	}
	notify(c, ack.Or(msgBooked), false)
	return seeOther(c, "/classes")
}

// Cancel withdraws the member from the class. The backend resolves the booking
// from the class id.
func (h *ClassHandler) Cancel(c echo.Context) error {
	if restoring(c) {
		notify(c, msgStillRestoring, true)
		return seeOther(c, "/classes")
	}
	user, ok := auth.GetUser(c)
	if !ok {
		notify(c, msgLoginToCancel, true)
		return seeOther(c, guard.LoginPath)
	}
	if user.IsTrainer() {
		notify(c, msgTrainerNoCancel, true)
		return seeOther(c, "/classes")
	}
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		failure(c, err, msgCancelFailed)
		return seeOther(c, "/classes")
	}
	notify(c, ack.Or(msgBookingCanceled), false)
	return seeOther(c, "/classes")
}

// restoring reports whether the session's token is still being verified. Such
// a browser is neither a guest nor signed in yet.
func restoring(c echo.Context) bool {
	st, ok := auth.GetState(c)
	return ok && st.Phase() == auth.PhaseLoading
}

// ShowAdd renders the new class form
func (h *ClassHandler) ShowAdd(c echo.Context) error {
	return h.pages.Page(c, http.StatusOK, "Add Class", pages.AddClass(types.ClassInput{}))
}

// Add creates a class taught by the signed-in trainer
func (h *ClassHandler) Add(c echo.Context) error {
	user, ok := auth.GetUser(c)
	if !ok || !user.IsTrainer() {
		notify(c, msgTrainersOnly, true)
		return seeOther(c, guard.DashboardPath)
	}

	var in types.ClassInput
	if err := c.Bind(&in); err != nil {
		notify(c, "Please check the class details.", true)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Add Class", pages.AddClass(in))
	}
	if err := in.Validate(); err != nil {
		showValidation(c, err)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Add Class", pages.AddClass(in))
	}
	in.Trainer = user.ID

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	res, err := client.CreateClass(c.Request().Context(), in)
	if err != nil {
		failure(c, err, msgClassAddFailed)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Add Class", pages.AddClass(in))
	}
	notify(c, res.Or(msgClassAdded), false)
	return seeOther(c, guard.DashboardPath)
}

// Mine lists the classes taught by the signed-in trainer
func (h *ClassHandler) Mine(c echo.Context) error {
	user, _ := auth.GetUser(c)
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	view := pages.MyClassesView{}
	view.Classes, err = client.TrainerClasses(c.Request().Context(), user.ID)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		slog.Error("failed to load trainer classes", "trainer_id", user.ID, "error", err)
		failure(c, err, msgClassesFailed)
		view.LoadFailed = true
	}
	return h.pages.Page(c, http.StatusOK, "My Classes", pages.MyClasses(view))
}

// Update saves edits to one of the trainer's classes
func (h *ClassHandler) Update(c echo.Context) error {
	user, _ := auth.GetUser(c)
	var in types.ClassInput
	if err := c.Bind(&in); err != nil {
		notify(c, "Please check the class details.", true)
		return seeOther(c, "/my-classes")
	}
	if err := in.Validate(); err != nil {
		showValidation(c, err)
		return seeOther(c, "/my-classes")
	}
	in.Trainer = user.ID

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	res, err := client.UpdateClass(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		failure(c, err, msgClassUpdFailed)
		return seeOther(c, "/my-classes")
	}
	notify(c, res.Or(msgClassUpdated), false)
	return seeOther(c, "/my-classes")
}

// Delete removes one of the trainer's classes
func (h *ClassHandler) Delete(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.DeleteClass(c.Request().Context(), c.Param("id"))
	if err != nil {
		failure(c, err, msgClassDelFailed)
		return seeOther(c, "/my-classes")
	}
	notify(c, ack.Or(msgClassDeleted), false)
	return seeOther(c, "/my-classes")
}
