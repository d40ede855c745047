package pass

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking() types.Booking {
	return types.Booking{
		ID: "66a1b2c3d4e5f60718293a4b",
		Class: types.Ref[types.Class]{ID: "c1", Doc: &types.Class{
			ID:      "c1",
			Title:   "Sunrise Vinyasa Flow",
			Type:    "Yoga",
			Trainer: types.Ref[types.User]{ID: "t1", Doc: &types.User{ID: "t1", Name: "Kim Lee"}},
		}},
		BookingDate: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
		Status:      types.BookingConfirmed,
	}
}

func TestDetailsFor(t *testing.T) {
	d, err := DetailsFor(sampleBooking(), &types.User{Name: "Ada"}, "https://fit.example.com/")
	require.NoError(t, err)

	assert.Equal(t, "Sunrise Vinyasa Flow", d.ClassTitle)
	assert.Equal(t, "Kim Lee", d.TrainerName)
	assert.Equal(t, "Ada", d.MemberName)
	assert.Equal(t, "https://fit.example.com/my-bookings?booking=66a1b2c3d4e5f60718293a4b", d.VerifyURL)

	unpopulated := sampleBooking()
	unpopulated.Class = types.RefTo[types.Class]("c1")
	_, err = DetailsFor(unpopulated, nil, "")
	assert.ErrorIs(t, err, ErrMissingClass)
}

func TestRenderPNG(t *testing.T) {
	d, err := DetailsFor(sampleBooking(), &types.User{Name: "Ada"}, "https://fit.example.com")
	require.NoError(t, err)

	data, err := RenderPNG(d)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, width, img.Bounds().Dx())
	assert.Equal(t, height, img.Bounds().Dy())
}

func TestRenderPDF(t *testing.T) {
	d, err := DetailsFor(sampleBooking(), nil, "https://fit.example.com")
	require.NoError(t, err)

	data, err := RenderPDF(d)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestFormatPartialID(t *testing.T) {
	assert.Equal(t, "66a1...3a4b", formatPartialID("66a1b2c3d4e5f60718293a4b"))
	assert.Equal(t, "short", formatPartialID("short"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Yoga", truncateText("Yoga", 10))
	assert.Equal(t, "Abcdefg...", truncateText("Abcdefghijklmnop", 10))
}
