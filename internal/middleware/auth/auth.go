package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shopfront/internal/service"
	"shopfront/internal/tokens"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

type Middleware struct {
	Secret []byte
}

// RequireUser verifies the session cookie and attaches identity to the
// request context. A missing cookie and an invalid token get the same
// answer: JSON 401 for API calls, a redirect to /login for pages.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.verify(c)
		if err != nil {
			return unauthenticated(c)
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAdmin composes RequireUser with a role check. An
// authenticated non-admin gets 403, which is distinct from the 401 for
// a missing identity.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireUser(func(c echo.Context) error {
		if c.Get(ContextRole) != service.RoleAdmin {
			return forbidden(c)
		}
		return next(c)
	})
}

func (m *Middleware) verify(c echo.Context) (*tokens.SessionClaims, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil, err
	}
	return tokens.Parse(cookie.Value, m.Secret)
}

func setUserContext(c echo.Context, claims *tokens.SessionClaims) {
	if id, err := claims.UserID(); err == nil {
		c.Set(ContextUserID, id)
	}
	c.Set(ContextRole, claims.Role)
}

// WantsHTML reports whether the client is a browser navigation rather
// than an API caller.
func WantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

func unauthenticated(c echo.Context) error {
	if WantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

func forbidden(c echo.Context) error {
	if WantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return echo.NewHTTPError(http.StatusForbidden, "admin access required")
}
