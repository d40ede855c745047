package types

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	classDateLayout = "2006-01-02"
	classTimeLayout = "15:04"
)

// ClassTypes are the class categories offered in the add-class form
var ClassTypes = []string{"Yoga", "Cardio", "Strength", "Pilates", "Zumba"}

var (
	ErrIncompleteSchedule = errors.New("class date or time information is incomplete")
	ErrInvalidSchedule    = errors.New("invalid class date or time format")
)

// Class is a scheduled fitness class
type Class struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Duration    int       `json:"duration"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Trainer     Ref[User] `json:"trainer"`
	BookedBy    []string  `json:"bookedBy,omitempty"`
}

// StartsAt combines the class date and start time into a single instant in loc
func (c *Class) StartsAt(loc *time.Location) (time.Time, error) {
	if c.Date == "" || c.StartTime == "" {
		return time.Time{}, ErrIncompleteSchedule
	}
	date := c.Date
	// Some records carry a full timestamp in the date field
	if len(date) > len(classDateLayout) {
		date = date[:len(classDateLayout)]
	}
	t, err := time.ParseInLocation(classDateLayout+" "+classTimeLayout, date+" "+c.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return t, nil
}

// IsBookedBy reports whether the given user id appears in the class roster
func (c *Class) IsBookedBy(userID string) bool {
	return userID != "" && slices.Contains(c.BookedBy, userID)
}

// TrainerName returns the populated trainer name, if any
func (c *Class) TrainerName() string {
	if c.Trainer.Doc != nil {
		return c.Trainer.Doc.Name
	}
	return ""
}

// SpotsLeft returns the remaining capacity, never negative
func (c *Class) SpotsLeft() int {
	return max(c.Capacity-len(c.BookedBy), 0)
}

// Booking statuses reported by the backend
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a member's reservation of a class
type Booking struct {
	ID          string     `json:"_id"`
	Class       Ref[Class] `json:"class"`
	Trainer     Ref[User]  `json:"trainer"`
	User        Ref[User]  `json:"user"`
	BookingDate time.Time  `json:"bookingDate"`
	Status      string     `json:"status"`
}

// IsConfirmed reports whether the booking is still active
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingConfirmed
}

// TrainerName prefers the trainer populated on the class, then the booking's own
func (b *Booking) TrainerName() string {
	if b.Class.Doc != nil {
		if name := b.Class.Doc.TrainerName(); name != "" {
			return name
		}
	}
	if b.Trainer.Doc != nil {
		return b.Trainer.Doc.Name
	}
	return ""
}
