package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopfront/internal/logging"
	authmw "shopfront/internal/middleware/auth"
	"shopfront/internal/service"
)

const recentProducts = 10

// ViewHTTP serves the server-rendered admin pages. Auth gating happens
// in the route table, not here.
type ViewHTTP struct {
	Svc *service.ProductService
}

func (h *ViewHTTP) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login")
}

func (h *ViewHTTP) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{"Error": nil})
}

func (h *ViewHTTP) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", echo.Map{"Error": nil})
}

func (h *ViewHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "views.dashboard")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	_, products, err := h.Svc.List(ctx, 0, recentProducts)
	if err != nil {
		l.Error("recent products failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"Role":     c.Get(authmw.ContextRole),
		"Stats":    stats,
		"Products": products,
	})
}

func (h *ViewHTTP) ProductsPage(c echo.Context) error {
	ctx := c.Request().Context()

	// Limit -1 lets the store return the full catalog.
	_, products, err := h.Svc.List(ctx, 0, -1)
	if err != nil {
		logging.FromContext(ctx).Error("products page failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.Render(http.StatusOK, "products.html", echo.Map{
		"Role":     c.Get(authmw.ContextRole),
		"Products": products,
	})
}

func (h *ViewHTTP) AddProductPage(c echo.Context) error {
	return c.Render(http.StatusOK, "product_form.html", echo.Map{
		"Role":    c.Get(authmw.ContextRole),
		"Product": nil,
	})
}

func (h *ViewHTTP) EditProductPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return mapError(err)
	}

	return c.Render(http.StatusOK, "product_form.html", echo.Map{
		"Role":    c.Get(authmw.ContextRole),
		"Product": prod,
	})
}
