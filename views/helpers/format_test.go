package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Free", FormatPrice(0))
	assert.Equal(t, "$15.00", FormatPrice(15))
	assert.Equal(t, "$9.99", FormatPrice(9.99))
}

func TestFormatClassDate(t *testing.T) {
	assert.Equal(t, "Mon, Mar 2", FormatClassDate("2026-03-02"))
	assert.Equal(t, "Mon, Mar 2", FormatClassDate("2026-03-02T00:00:00.000Z"))
	assert.Equal(t, "soon", FormatClassDate("soon"))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★☆", Stars(4.4))
	assert.Equal(t, "★★★★★", Stars(4.6))
	assert.Equal(t, "★★★★★", Stars(9))
}

func TestFormatDateTimeInput(t *testing.T) {
	assert.Equal(t, "", FormatDateTimeInput(time.Time{}))
	assert.Equal(t, "2026-03-02T07:30", FormatDateTimeInput(time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "Not specified", JoinList(nil, "Not specified"))
	assert.Equal(t, "HIIT, Yoga", JoinList([]string{"HIIT", "Yoga"}, ""))
}

func TestButton_MergesConflicts(t *testing.T) {
	classes := Button(ButtonPrimary, "px-8")
	assert.Contains(t, classes, "px-8")
	assert.NotContains(t, classes, "px-4")
}
