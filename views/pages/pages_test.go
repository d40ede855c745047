package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		html := render(t, Dashboard(&types.User{Name: "Ada", Role: types.RoleUser}))
		assert.Contains(t, html, "Welcome, Ada!")
		assert.Contains(t, html, `<button type="button" disabled`)
		assert.Contains(t, html, `href="/my-bookings"`)
		assert.NotContains(t, html, `href="/add-class"`)
		assert.Contains(t, html, "Coming soon")
	})

	t.Run("trainer", func(t *testing.T) {
		html := render(t, Dashboard(&types.User{Name: "Grace", Role: types.RoleTrainer}))
		assert.Contains(t, html, `href="/add-class"`)
		assert.Contains(t, html, `href="/my-classes"`)
		assert.NotContains(t, html, `href="/my-bookings"`)
	})
}

func TestClasses_EscapesContent(t *testing.T) {
	html := render(t, Classes(ClassesView{Classes: []ClassCard{{
		Class:    types.Class{ID: "c1", Title: "<script>alert(1)</script>", Date: "2026-03-01", StartTime: "09:30"},
		SignedIn: true,
	}}}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `name="date" value="2026-03-01"`)
}

func TestClasses_Empty(t *testing.T) {
	assert.Contains(t, render(t, Classes(ClassesView{})), "No classes available.")
	assert.Contains(t, render(t, Classes(ClassesView{LoadFailed: true})), "Classes could not be loaded.")
}

func TestFeedback_CharacterCounter(t *testing.T) {
	html := render(t, Feedback(types.FeedbackInput{Comment: "héllo"}))
	assert.Contains(t, html, "5/500 characters")
	assert.Contains(t, html, `maxlength="500"`)
}

func TestNotFound(t *testing.T) {
	html := render(t, NotFound())
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "Page Not Found")
}

func TestRegister_DefaultsToMemberRole(t *testing.T) {
	html := render(t, Register(types.Registration{Name: "Ada"}))
	assert.Contains(t, html, `<option value="user" selected>`)
	assert.Contains(t, html, `<option value="trainer">`)
	assert.Contains(t, html, `value="Ada"`)
	assert.Contains(t, html, `autocomplete="new-password"`)
}

func TestTrainerProfile_ReviewForm(t *testing.T) {
	v := TrainerProfileView{
		Trainer: types.Trainer{User: types.User{ID: "t1", Name: "Grace"}},
		Form:    types.ReviewInput{Rating: 4, Comment: "Tough but fair"},
	}
	assert.NotContains(t, render(t, TrainerProfile(v)), `action="/trainers/t1/reviews"`)

	v.CanReview = true
	html := render(t, TrainerProfile(v))
	assert.Contains(t, html, `action="/trainers/t1/reviews"`)
	assert.Contains(t, html, `<option value="4" selected>`)
	assert.Contains(t, html, "Tough but fair</textarea>")
	assert.Contains(t, html, "No reviews yet.")
}

func TestBookForm_DisabledWhenFull(t *testing.T) {
	class := types.Class{ID: "c1", Capacity: 1, BookedBy: []string{"u1"}}
	html := render(t, Classes(ClassesView{Classes: []ClassCard{{Class: class, SignedIn: true}}}))
	assert.Contains(t, html, " disabled>Book Class</button>")
}
