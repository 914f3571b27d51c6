package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "shopfront/internal/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Product *ProductHTTP
	Views   *ViewHTTP
	Health  *HealthHTTP
	AuthMW  *authmw.Middleware

	StaticDir string
}

func Register(e *echo.Echo, d *Deps) {
	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
	}

	// Browser pages.
	e.GET("/", d.Views.Root)
	e.GET("/login", d.Views.LoginPage)
	e.GET("/register", d.Views.RegisterPage)
	e.GET("/dashboard", d.Views.Dashboard, d.AuthMW.RequireUser)
	e.GET("/products", d.Views.ProductsPage, d.AuthMW.RequireUser)
	e.GET("/products/add", d.Views.AddProductPage, d.AuthMW.RequireAdmin)
	e.GET("/products/edit/:id", d.Views.EditProductPage, d.AuthMW.RequireAdmin)

	api := e.Group("/api")
	api.GET("/health", d.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	products := api.Group("/products")
	products.GET("", d.Product.GetProducts)
	products.GET("/search", d.Product.SearchProducts)
	products.GET("/:id", d.Product.GetProduct)

	admin := products.Group("", d.AuthMW.RequireAdmin)
	admin.POST("", d.Product.CreateProduct)
	admin.PUT("/:id", d.Product.UpdateProduct)
	admin.DELETE("/:id", d.Product.DeleteProduct)
}
