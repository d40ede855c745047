package handlers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassList(t *testing.T) {
	b := newBackend(t)
	member := fakeUser(types.RoleUser)
	b.on(http.MethodGet, "/api/classes", http.StatusOK, []map[string]any{
		{"_id": "c1", "title": "Sunrise Yoga", "type": "Yoga", "date": "2026-03-01", "startTime": "09:30", "endTime": "10:30", "capacity": 10, "bookedBy": []string{member.ID}},
		{"_id": "c2", "title": "Power Hour", "type": "Strength", "date": "2026-03-02", "startTime": "18:00", "endTime": "19:00", "capacity": 8},
	})
	h := NewClassHandler(testPages(), time.UTC)

	t.Run("member sees cancel on booked classes and book elsewhere", func(t *testing.T) {
		entry := newSession(t, b, member)
		c, rec := newRequest(entry, http.MethodGet, "/classes", nil)

		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Sunrise Yoga")
		assert.Contains(t, body, `action="/classes/c1/cancel"`)
		assert.NotContains(t, body, `action="/classes/c1/book"`)
		assert.Contains(t, body, `action="/classes/c2/book"`)
	})

	t.Run("guest is asked to log in", func(t *testing.T) {
		entry := newSession(t, b, nil)
		c, rec := newRequest(entry, http.MethodGet, "/classes", nil)

		require.NoError(t, h.List(c))
		body := rec.Body.String()
		assert.Contains(t, body, "Log in to book")
		assert.NotContains(t, body, `action="/classes/c2/book"`)
	})

	t.Run("trainer cannot book", func(t *testing.T) {
		entry := newSession(t, b, fakeUser(types.RoleTrainer))
		c, rec := newRequest(entry, http.MethodGet, "/classes", nil)

		require.NoError(t, h.List(c))
		assert.NotContains(t, rec.Body.String(), `action="/classes/c2/book"`)
	})
}

func TestClassList_LoadFailure(t *testing.T) {
	b := newBackend(t)
	b.on(http.MethodGet, "/api/classes", http.StatusInternalServerError, map[string]string{"message": "database unavailable"})
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, rec := newRequest(entry, http.MethodGet, "/classes", nil)

	require.NoError(t, NewClassHandler(testPages(), time.UTC).List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	n := currentNotice(t, entry)
	assert.True(t, n.IsError)
	assert.Equal(t, "database unavailable", n.Text)
	assert.Contains(t, rec.Body.String(), "database unavailable")
}

func TestBook(t *testing.T) {
	schedule := url.Values{"date": {"2026-03-01"}, "startTime": {"09:30"}, "trainer": {"t1"}}

	tests := []struct {
		name     string
		user     *types.User
		form     url.Values
		location string
		notice   string
	}{
		{
			name:     "guest is sent to login",
			form:     schedule,
			location: "/login",
			notice:   msgLoginToBook,
		},
		{
			name:     "trainer is refused",
			user:     fakeUser(types.RoleTrainer),
			form:     schedule,
			location: "/classes",
			notice:   msgTrainerNoBook,
		},
		{
			name:     "missing date",
			user:     fakeUser(types.RoleUser),
			form:     url.Values{"startTime": {"09:30"}},
			location: "/classes",
			notice:   "Class date or time information is incomplete.",
		},
		{
			name:     "malformed time",
			user:     fakeUser(types.RoleUser),
			form:     url.Values{"date": {"2026-03-01"}, "startTime": {"9.30am"}},
			location: "/classes",
			notice:   "Invalid class date or time format.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			entry := newSession(t, b, tt.user)
			c, rec := newRequest(entry, http.MethodPost, "/classes/c1/book", tt.form, "c1")

			require.NoError(t, NewClassHandler(testPages(), time.UTC).Book(c))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			n := currentNotice(t, entry)
			assert.True(t, n.IsError)
			assert.Equal(t, tt.notice, n.Text)
			assert.Zero(t, b.calls(http.MethodPost, "/api/bookings"))
		})
	}
}

func TestBook_SendsStartInUTC(t *testing.T) {
	b := newBackend(t)
	b.on(http.MethodPost, "/api/bookings", http.StatusCreated, map[string]string{})
	entry := newSession(t, b, fakeUser(types.RoleUser))
	form := url.Values{"date": {"2026-03-01"}, "startTime": {"09:30"}, "trainer": {"t1"}}
	c, rec := newRequest(entry, http.MethodPost, "/classes/c1/book", form, "c1")

	h := NewClassHandler(testPages(), time.FixedZone("UTC+2", 2*60*60))
	require.NoError(t, h.Book(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/classes", rec.Header().Get("Location"))

	var sent map[string]string
	b.received(t, http.MethodPost, "/api/bookings", &sent)
	assert.Equal(t, "c1", sent["class"])
	assert.Equal(t, "t1", sent["trainer"])
	assert.Equal(t, "2026-03-01T07:30:00Z", sent["bookingDate"])

	n := currentNotice(t, entry)
	assert.False(t, n.IsError)
	assert.Equal(t, msgBooked, n.Text)
}

func TestBook_ShowsServerMessage(t *testing.T) {
	b := newBackend(t)
	b.on(http.MethodPost, "/api/bookings", http.StatusBadRequest, map[string]string{"message": "Class is full"})
	entry := newSession(t, b, fakeUser(types.RoleUser))
	form := url.Values{"date": {"2026-03-01"}, "startTime": {"09:30"}}
	c, _ := newRequest(entry, http.MethodPost, "/classes/c1/book", form, "c1")

	require.NoError(t, NewClassHandler(testPages(), time.UTC).Book(c))

	n := currentNotice(t, entry)
	assert.True(t, n.IsError)
	assert.Equal(t, "Class is full", n.Text)
}

func TestBookAndCancel_WhileRestoring(t *testing.T) {
	for _, action := range []string{"book", "cancel"} {
		t.Run(action, func(t *testing.T) {
			b := newBackend(t)
			entry := newSession(t, b, nil)
			form := url.Values{"date": {"2026-03-01"}, "startTime": {"09:30"}}
			c, rec := newRequest(entry, http.MethodPost, "/classes/c1/"+action, form, "c1")
			// a persisted token whose profile fetch has not come back yet
			c.Set(auth.StateKey, auth.State{Token: "tok", Loading: true})

			h := NewClassHandler(testPages(), time.UTC)
			if action == "book" {
				require.NoError(t, h.Book(c))
			} else {
				require.NoError(t, h.Cancel(c))
			}

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/classes", rec.Header().Get("Location"))
			assert.Equal(t, msgStillRestoring, currentNotice(t, entry).Text)
			assert.Zero(t, b.calls(http.MethodPost, "/api/bookings"))
			assert.Zero(t, b.calls(http.MethodPut, "/api/bookings/c1/cancel"))
		})
	}
}

func TestCancelClassBooking(t *testing.T) {
	b := newBackend(t)
	b.on(http.MethodPut, "/api/bookings/c1/cancel", http.StatusOK, map[string]string{"message": "Booking cancelled"})
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, rec := newRequest(entry, http.MethodPost, "/classes/c1/cancel", url.Values{}, "c1")

	require.NoError(t, NewClassHandler(testPages(), time.UTC).Cancel(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, b.calls(http.MethodPut, "/api/bookings/c1/cancel"))
	assert.Equal(t, "Booking cancelled", currentNotice(t, entry).Text)
}

func TestAddClass(t *testing.T) {
	valid := url.Values{
		"title":       {"Evening Flow"},
		"description": {"Slow vinyasa"},
		"type":        {"Yoga"},
		"date":        {"2026-04-10"},
		"startTime":   {"18:00"},
		"endTime":     {"19:00"},
		"duration":    {"60"},
		"price":       {"12.5"},
		"capacity":    {"15"},
	}

	t.Run("validation failure re-renders the form", func(t *testing.T) {
		b := newBackend(t)
		entry := newSession(t, b, fakeUser(types.RoleTrainer))
		form := url.Values{}
		for k, v := range valid {
			form[k] = v
		}
		form.Del("title")
		c, rec := newRequest(entry, http.MethodPost, "/add-class", form)

		require.NoError(t, NewClassHandler(testPages(), time.UTC).Add(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Slow vinyasa")
		assert.Equal(t, "Please enter a class title.", currentNotice(t, entry).Text)
		assert.Zero(t, b.calls(http.MethodPost, "/api/classes"))
	})

	t.Run("creates the class for the signed-in trainer", func(t *testing.T) {
		b := newBackend(t)
		b.on(http.MethodPost, "/api/classes", http.StatusCreated, map[string]any{"message": "", "class": map[string]string{"_id": "new"}})
		trainer := fakeUser(types.RoleTrainer)
		entry := newSession(t, b, trainer)
		c, rec := newRequest(entry, http.MethodPost, "/add-class", valid)

		require.NoError(t, NewClassHandler(testPages(), time.UTC).Add(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		var sent types.ClassInput
		b.received(t, http.MethodPost, "/api/classes", &sent)
		assert.Equal(t, trainer.ID, sent.Trainer)
		assert.Equal(t, "Evening Flow", sent.Title)
		assert.Equal(t, 12.5, sent.Price)
		assert.Equal(t, msgClassAdded, currentNotice(t, entry).Text)
	})

	t.Run("members are refused", func(t *testing.T) {
		b := newBackend(t)
		entry := newSession(t, b, fakeUser(types.RoleUser))
		c, rec := newRequest(entry, http.MethodPost, "/add-class", valid)

		require.NoError(t, NewClassHandler(testPages(), time.UTC).Add(c))

		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		assert.Equal(t, msgTrainersOnly, currentNotice(t, entry).Text)
	})
}

func TestMyClasses_NoClassesYet(t *testing.T) {
	b := newBackend(t)
	trainer := fakeUser(types.RoleTrainer)
	entry := newSession(t, b, trainer)
	c, rec := newRequest(entry, http.MethodGet, "/my-classes", nil)

	require.NoError(t, NewClassHandler(testPages(), time.UTC).Mine(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are not teaching any classes yet.")
	_, shown := entry.Notices.Current()
	assert.False(t, shown)
}
