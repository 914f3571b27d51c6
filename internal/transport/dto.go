package transport

import "shopfront/internal/models"

type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role"     form:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Description   string  `json:"description"`
	InStock       bool    `json:"in_stock"`
	IsFeatured    bool    `json:"is_featured"`
	IsNew         bool    `json:"is_new"`
	IsOnSale      bool    `json:"is_on_sale"`
	IsPopular     bool    `json:"is_popular"`
}

// PatchProductRequest carries partial updates. Pointer fields separate
// "not supplied" from an explicit zero value, so a flag can be cleared
// to false without a truthy fallback reviving the old value.
type PatchProductRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discount_price"`
	Description   *string  `json:"description"`
	InStock       *bool    `json:"in_stock"`
	IsFeatured    *bool    `json:"is_featured"`
	IsNew         *bool    `json:"is_new"`
	IsOnSale      *bool    `json:"is_on_sale"`
	IsPopular     *bool    `json:"is_popular"`

	// Set by the upload step, never bound from the request body.
	CoverImage *string  `json:"-"`
	GalleryAdd []string `json:"-"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductList struct {
	Data []models.Product `json:"data"`
	Meta ListMeta         `json:"meta"`
}

type DashboardStats struct {
	TotalProducts      int64 `json:"total_products"`
	FeaturedProducts   int64 `json:"featured_products"`
	OnSaleProducts     int64 `json:"on_sale_products"`
	OutOfStockProducts int64 `json:"out_of_stock_products"`
}
