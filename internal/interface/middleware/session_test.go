package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoslab/pedidos-api/internal/application"
	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
)

type stubResolver struct {
	user *entity.User
}

func (r *stubResolver) ResolveSession(_ context.Context, credential string) (*entity.User, error) {
	if credential == "valid" && r.user != nil {
		return r.user, nil
	}
	return nil, application.ErrInvalidCredentials
}

func newSessionRouter(resolver SessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Session(resolver, "/login"), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no user in context")
			return
		}
		c.String(http.StatusOK, u.Email)
	})
	return r
}

func TestSessionMissingCookieRedirects(t *testing.T) {
	t.Parallel()
	r := newSessionRouter(&stubResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionInvalidCookieRedirects(t *testing.T) {
	t.Parallel()
	r := newSessionRouter(&stubResolver{user: &entity.User{ID: 1, Email: "u@test.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "garbage"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSessionValidCookiePasses(t *testing.T) {
	t.Parallel()
	r := newSessionRouter(&stubResolver{user: &entity.User{ID: 1, Email: "u@test.com"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "valid"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u@test.com", w.Body.String())
}
