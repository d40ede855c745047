package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoContext() echo.Context {
	e := echo.New()
	return e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
}

func TestGetState_NotFound(t *testing.T) {
	c := newEchoContext()

	_, ok := GetState(c)
	assert.False(t, ok)
	assert.False(t, IsAuthenticated(c))

	user, ok := GetUser(c)
	assert.False(t, ok)
	assert.Nil(t, user)

	_, ok = GetEntry(c)
	assert.False(t, ok)
}

func TestGetState_WrongKey(t *testing.T) {
	c := newEchoContext()
	c.Set("user", &types.User{ID: "u1"})

	_, ok := GetUser(c)
	assert.False(t, ok, "only the session middleware's key counts")
}

func TestGetUser_Authenticated(t *testing.T) {
	c := newEchoContext()
	user := &types.User{ID: ulid.Make().String(), Email: "test@example.com", Role: types.RoleTrainer}
	c.Set(StateKey, State{Token: "tok", User: user})

	got, ok := GetUser(c)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)

	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, user.ID, id)

	actx := GetAuthContext(c)
	assert.True(t, actx.IsAuthenticated)
	assert.True(t, actx.IsTrainer())
}

func TestGetAuthContext_Loading(t *testing.T) {
	c := newEchoContext()
	c.Set(StateKey, State{Token: "tok", Loading: true})

	actx := GetAuthContext(c)
	assert.False(t, actx.IsAuthenticated)
	assert.True(t, actx.Loading)
	assert.Nil(t, actx.User)
	assert.False(t, actx.IsTrainer())
}

func TestSetEntry_RefreshState(t *testing.T) {
	c := newEchoContext()
	notices := flash.New(time.Hour)
	defer notices.Close()

	entry := &Entry{
		ID:      "sid",
		Notices: notices,
		Store:   NewStore("sid", nil, session.NewMemoryTokenStore(0), notices),
	}
	SetEntry(c, entry)

	got, ok := GetEntry(c)
	require.True(t, ok)
	assert.Same(t, entry, got)

	ch, ok := Notices(c)
	require.True(t, ok)
	assert.Same(t, notices, ch)

	entry.Store.Logout(c.Request().Context())
	st := RefreshState(c)
	assert.Equal(t, PhaseUnauthenticated, st.Phase())
}
