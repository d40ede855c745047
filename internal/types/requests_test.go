package types

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationField(t *testing.T, err error) string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected a validation error, got %v", err)
	return ve.Field
}

func TestClassInput_Validate(t *testing.T) {
	valid := func() ClassInput {
		return ClassInput{
			Title:       " Evening Flow ",
			Description: "Slow vinyasa",
			Type:        "Yoga",
			Date:        "2026-04-10",
			StartTime:   "18:00",
			EndTime:     "19:00",
			Duration:    60,
			Capacity:    12,
		}
	}

	t.Run("valid input is trimmed", func(t *testing.T) {
		in := valid()
		require.NoError(t, in.Validate())
		assert.Equal(t, "Evening Flow", in.Title)
	})

	tests := []struct {
		name  string
		edit  func(*ClassInput)
		field string
	}{
		{"blank title", func(in *ClassInput) { in.Title = "  " }, "title"},
		{"unknown type", func(in *ClassInput) { in.Type = "Boxing" }, "type"},
		{"missing end time", func(in *ClassInput) { in.EndTime = "" }, "date"},
		{"zero duration", func(in *ClassInput) { in.Duration = 0 }, "duration"},
		{"no capacity", func(in *ClassInput) { in.Capacity = 0 }, "capacity"},
		{"negative price", func(in *ClassInput) { in.Price = -1 }, "price"},
		{"bad date", func(in *ClassInput) { in.Date = "10/04/2026" }, "date"},
		{"bad end time", func(in *ClassInput) { in.EndTime = "7pm" }, "endTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.edit(&in)
			assert.Equal(t, tt.field, validationField(t, in.Validate()))
		})
	}
}

func TestRegistration_Validate(t *testing.T) {
	reg := Registration{Name: "Ada", Email: "not-an-email", Password: "x", Role: RoleUser}
	assert.Equal(t, "email", validationField(t, reg.Validate()))

	reg.Email = "ada@example.com"
	reg.Role = "admin"
	assert.Equal(t, "role", validationField(t, reg.Validate()))

	reg.Role = ""
	require.NoError(t, reg.Validate())
	assert.Equal(t, RoleUser, reg.Role)
}

func TestParseReschedule(t *testing.T) {
	loc := time.FixedZone("UTC+1", 60*60)

	got, err := ParseReschedule("2026-05-01T10:15", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01T09:15:00Z", got.UTC().Format(time.RFC3339))

	_, err = ParseReschedule("2026-05-01 10:15", loc)
	assert.Equal(t, "bookingDate", validationField(t, err))

	_, err = ParseReschedule("  ", loc)
	assert.EqualError(t, err, "Please choose a new date and time.")
}

func TestReviewInput_Validate(t *testing.T) {
	assert.Equal(t, "rating", validationField(t, (&ReviewInput{Rating: 6}).Validate()))
	assert.Equal(t, "comment", validationField(t, (&ReviewInput{Rating: 5, Comment: strings.Repeat("é", MaxReviewLength+1)}).Validate()))
	assert.NoError(t, (&ReviewInput{Rating: 1, Comment: strings.Repeat("é", MaxReviewLength)}).Validate())
}

func TestFeedbackInput_Validate(t *testing.T) {
	in := FeedbackInput{Comment: "  Great app  "}
	require.NoError(t, in.Validate())
	assert.Equal(t, FeedbackApp, in.Type)
	assert.Equal(t, "Great app", in.Comment)

	in = FeedbackInput{Comment: "hi", Type: "spam"}
	assert.Equal(t, "type", validationField(t, in.Validate()))
}

func TestProfileForm_Update(t *testing.T) {
	form := ProfileForm{Qualifications: "NASM, , ACE ", Bio: "Coach"}
	update, err := form.Update()
	require.NoError(t, err)
	assert.Equal(t, []string{"NASM", "ACE"}, update.Qualifications)
	assert.Equal(t, []string{}, update.Expertise)

	form.Bio = strings.Repeat("b", MaxBioLength+1)
	_, err = form.Update()
	assert.Equal(t, "bio", validationField(t, err))

	assert.Equal(t, "A, B", ProfileFormFor(&User{Qualifications: []string{"A", "B"}}).Qualifications)
	assert.Equal(t, ProfileForm{}, ProfileFormFor(nil))
}
