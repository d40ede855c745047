package pages

import (
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/helpers"
)

// ClassCard is one class as seen by the current viewer
type ClassCard struct {
	Class types.Class
	// Booked is set when the viewer is on the class roster
	Booked   bool
	SignedIn bool
	Trainer  bool
}

// ClassesView is the class listing
type ClassesView struct {
	Classes    []ClassCard
	LoadFailed bool
}

// MyClassesView lists the classes a trainer teaches
type MyClassesView struct {
	Classes    []types.Class
	LoadFailed bool
}

type fact struct {
	Name  string
	Value string
}

func classFacts(c types.Class) []fact {
	facts := []fact{
		{"Date", helpers.FormatClassDate(c.Date)},
		{"Time", c.StartTime + " - " + c.EndTime},
		{"Duration", helpers.FormatInt(c.Duration) + " min"},
		{"Price", helpers.FormatPrice(c.Price)},
		{"Spots left", helpers.FormatInt(c.SpotsLeft()) + " of " + helpers.FormatInt(c.Capacity)},
	}
	if name := c.TrainerName(); name != "" {
		facts = append(facts, fact{"Trainer", name})
	}
	return facts
}

// full reports a capped class with no free spot
func full(c types.Class) bool {
	return c.Capacity > 0 && c.SpotsLeft() == 0
}

func classTypeOptions() []option {
	opts := []option{{Value: "", Label: "Select a type"}}
	for _, t := range types.ClassTypes {
		opts = append(opts, option{Value: t, Label: t})
	}
	return opts
}

func numberValue(n int) string {
	if n == 0 {
		return ""
	}
	return helpers.FormatInt(n)
}

func priceValue(p float64) string {
	if p == 0 {
		return "0"
	}
	return helpers.FormatDecimal(p)
}

// InputFor pre-fills the edit form of a class
func InputFor(c types.Class) types.ClassInput {
	date := c.Date
	if len(date) > 10 {
		date = date[:10]
	}
	return types.ClassInput{
		Title:       c.Title,
		Description: c.Description,
		Type:        c.Type,
		Date:        date,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Duration:    c.Duration,
		Price:       c.Price,
		Capacity:    c.Capacity,
	}
}
