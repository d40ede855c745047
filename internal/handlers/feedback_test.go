package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	t.Run("blank comment", func(t *testing.T) {
		b := newBackend(t)
		entry := newSession(t, b, fakeUser(types.RoleUser))
		c, rec := newRequest(entry, http.MethodPost, "/feedback", url.Values{"comment": {"   "}})

		require.NoError(t, NewFeedbackHandler(testPages()).Submit(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Please enter your feedback.", currentNotice(t, entry).Text)
		assert.Zero(t, b.calls(http.MethodPost, "/api/feedback"))
	})

	t.Run("too long", func(t *testing.T) {
		b := newBackend(t)
		entry := newSession(t, b, fakeUser(types.RoleUser))
		long := strings.Repeat("a", types.MaxFeedbackLength+1)
		c, rec := newRequest(entry, http.MethodPost, "/feedback", url.Values{"comment": {long}})

		require.NoError(t, NewFeedbackHandler(testPages()).Submit(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Feedback must be 500 characters or fewer.", currentNotice(t, entry).Text)
	})

	t.Run("always sent as app feedback", func(t *testing.T) {
		b := newBackend(t)
		b.on(http.MethodPost, "/api/feedback", http.StatusCreated, map[string]string{"message": "Thanks!"})
		entry := newSession(t, b, fakeUser(types.RoleUser))
		form := url.Values{"comment": {"Love the app"}, "type": {"trainer"}, "trainer": {"t1"}}
		c, rec := newRequest(entry, http.MethodPost, "/feedback", form)

		require.NoError(t, NewFeedbackHandler(testPages()).Submit(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/feedback", rec.Header().Get("Location"))

		var sent types.FeedbackInput
		b.received(t, http.MethodPost, "/api/feedback", &sent)
		assert.Equal(t, types.FeedbackInput{Comment: "Love the app", Type: types.FeedbackApp}, sent)
		assert.Equal(t, "Thanks!", currentNotice(t, entry).Text)
	})
}

func TestFeedbackHistory(t *testing.T) {
	b := newBackend(t)
	queries := make(chan url.Values, 1)
	b.handle(http.MethodGet, "/api/feedback", func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"_id": "f1", "comment": "Great trainer", "type": "trainer", "trainer": map[string]string{"_id": "t1", "name": "Grace Hopper"}},
		}})
	})
	entry := newSession(t, b, fakeUser(types.RoleTrainer))
	c, rec := newRequest(entry, http.MethodGet, "/feedback/history?trainerId=t1&type=trainer", nil)

	require.NoError(t, NewFeedbackHandler(testPages()).History(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	query := <-queries
	assert.Equal(t, "t1", query.Get("trainerId"))
	assert.Equal(t, "trainer", query.Get("type"))
	assert.Contains(t, rec.Body.String(), "Great trainer")
	assert.Contains(t, rec.Body.String(), "Grace Hopper")
}
