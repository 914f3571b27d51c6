package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shopfront/internal/logging"
	authmw "shopfront/internal/middleware/auth"
	"shopfront/internal/service"
	"shopfront/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register failed", "status", 400, "reason", "invalid body", "error", err)
		return h.fail(c, "register.html", echo.NewHTTPError(http.StatusBadRequest, "invalid body"))
	}

	session, err := h.Svc.Register(ctx, req)
	if err != nil {
		return h.fail(c, "register.html", mapError(err))
	}

	h.setSessionCookie(c, session)
	l.Info("register success", "user_id", session.UserID)

	if authmw.WantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Token:   session.Token,
		Role:    session.Role,
		IsAdmin: session.IsAdmin(),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login failed", "status", 400, "reason", "invalid body", "error", err)
		return h.fail(c, "login.html", echo.NewHTTPError(http.StatusBadRequest, "invalid body"))
	}

	session, err := h.Svc.Login(ctx, req)
	if err != nil {
		return h.fail(c, "login.html", mapError(err))
	}

	h.setSessionCookie(c, session)
	l.Info("login success", "user_id", session.UserID)

	if authmw.WantsHTML(c) {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.JSON(http.StatusOK, transport.AuthResponse{
		Token:   session.Token,
		Role:    session.Role,
		IsAdmin: session.IsAdmin(),
	})
}

// Logout only clears the cookie. The server keeps no session state, so
// the token itself simply ages out.
func (h *AuthHTTP) Logout(c echo.Context) error {
	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(authmw.CookieName, "", "/", expired, h.SecureCookie))

	if authmw.WantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) setSessionCookie(c echo.Context, session *service.Session) {
	c.SetCookie(CreateCookie(authmw.CookieName, session.Token, "/", session.ExpiresAt, h.SecureCookie))
}

// fail re-renders the originating form with an inline error for
// browser requests and returns the structured error for API calls.
func (h *AuthHTTP) fail(c echo.Context, page string, httpErr *echo.HTTPError) error {
	if authmw.WantsHTML(c) {
		return c.Render(httpErr.Code, page, echo.Map{"Error": httpErr.Message})
	}
	return httpErr
}
