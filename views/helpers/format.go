package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatInt formats an integer as a string
func FormatInt(n int) string {
	return fmt.Sprintf("%d", n)
}

// FormatPrice formats a class price in dollars (e.g., 15 -> "$15.00")
func FormatPrice(price float64) string {
	if price == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", price)
}

// FormatDecimal formats a number without trailing zeros, for form values
func FormatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatDate formats a time.Time as "Jan 2, 2006"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime formats a time.Time as "Jan 2, 2006 3:04 PM"
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// FormatDateTimeInput formats a time for a datetime-local input
func FormatDateTimeInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

// FormatClassDate renders a class's YYYY-MM-DD date as "Mon, Jan 2"; unparseable
// values come back unchanged.
func FormatClassDate(date string) string {
	if len(date) > 10 {
		date = date[:10]
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}

// FormatRating formats an average rating with one decimal
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

// Stars renders a 1..5 rating as filled and empty stars
func Stars(rating float64) string {
	full := int(rating + 0.5)
	full = min(max(full, 0), 5)
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// JoinList renders a string slice for display, with a placeholder when empty
func JoinList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
