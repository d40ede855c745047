package auth

import (
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
)

// Context holds authentication data to be passed to templates
type Context struct {
	IsAuthenticated bool
	Loading         bool
	User            *types.User
}

// IsTrainer reports whether the signed-in user is a trainer
func (a *Context) IsTrainer() bool {
	return a != nil && a.IsAuthenticated && a.User.IsTrainer()
}

// GetAuthContext returns authentication context for templates. It reads the
// state captured by the session middleware, so every view in one request sees
// the same snapshot.
func GetAuthContext(c echo.Context) *Context {
	st, ok := GetState(c)
	if !ok {
		return &Context{}
	}
	ctx := &Context{
		IsAuthenticated: st.IsAuthenticated(),
		Loading:         st.Loading,
	}
	if ctx.IsAuthenticated {
		ctx.User = st.User
	}
	return ctx
}
