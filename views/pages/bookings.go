package pages

import (
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/helpers"
)

// MyBookingsView is the member's booking list
type MyBookingsView struct {
	Bookings   []types.Booking
	LoadFailed bool
}

func bookingTitle(b types.Booking) string {
	if b.Class.Doc != nil {
		return b.Class.Doc.Title
	}
	return "Class unavailable"
}

func bookingWhen(b types.Booking) string {
	when := helpers.FormatDateTime(b.BookingDate)
	if name := b.TrainerName(); name != "" {
		when += " with " + name
	}
	return when
}

func statusClass(b types.Booking) string {
	if b.IsConfirmed() {
		return "mt-2 inline-block rounded-full bg-green-100 px-2 py-0.5 text-xs font-medium text-green-800"
	}
	return "mt-2 inline-block rounded-full bg-red-100 px-2 py-0.5 text-xs font-medium text-red-800"
}

func passURL(b types.Booking, ext string) string {
	return "/my-bookings/" + b.ID + "/pass." + ext
}
