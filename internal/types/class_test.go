package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClass_StartsAt(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	tests := []struct {
		name    string
		class   Class
		want    time.Time
		wantErr error
	}{
		{
			name:  "date and time",
			class: Class{Date: "2026-03-01", StartTime: "09:30"},
			want:  time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "timestamp in date field",
			class: Class{Date: "2026-03-01T00:00:00.000Z", StartTime: "18:05"},
			want:  time.Date(2026, 3, 1, 23, 5, 0, 0, time.UTC),
		},
		{
			name:    "missing time",
			class:   Class{Date: "2026-03-01"},
			wantErr: ErrIncompleteSchedule,
		},
		{
			name:    "garbage",
			class:   Class{Date: "March 1st", StartTime: "9am"},
			wantErr: ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.class.StartsAt(loc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got.UTC())
		})
	}
}

func TestClass_Roster(t *testing.T) {
	c := Class{Capacity: 2, BookedBy: []string{"u1", "u2", "u3"}}

	assert.True(t, c.IsBookedBy("u2"))
	assert.False(t, c.IsBookedBy("u9"))
	assert.False(t, c.IsBookedBy(""))
	assert.Equal(t, 0, c.SpotsLeft())
}

func TestBooking_TrainerName(t *testing.T) {
	var b Booking
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "b1",
		"status": "confirmed",
		"bookingDate": "2026-03-01T14:30:00Z",
		"class": {"_id": "c1", "title": "Yoga", "trainer": {"_id": "t1", "name": "Grace"}},
		"trainer": {"_id": "t2", "name": "Someone Else"}
	}`), &b))

	assert.True(t, b.IsConfirmed())
	assert.Equal(t, "Grace", b.TrainerName())

	b.Class = RefTo[Class]("c1")
	assert.Equal(t, "Someone Else", b.TrainerName())
}
