package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
)

const ctxUserKey = "currentUser"

// SessionResolver resolves a session credential to an authenticated user.
// Satisfied by application.AuthService.
type SessionResolver interface {
	ResolveSession(ctx context.Context, credential string) (*entity.User, error)
}

// Session re-verifies the session cookie on every request. On any failure --
// missing cookie, bad token, unknown user -- the client is redirected to the
// login entry point; protected handlers never see the request.
func Session(resolver SessionResolver, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, _ := c.Cookie(helpers.SessionCookie)
		u, err := resolver.ResolveSession(c.Request.Context(), credential)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user the Session middleware authenticated.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
