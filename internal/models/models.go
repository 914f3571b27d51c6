package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Category      string    `gorm:"not null"                 json:"category"`
	Price         float64   `gorm:"not null"                 json:"price"`
	DiscountPrice float64   `json:"discount_price"`
	Description   string    `gorm:"not null"                 json:"description"`
	CoverImage    string    `gorm:"not null"                 json:"cover_image"`
	GalleryImages []string  `gorm:"serializer:json"          json:"gallery_images"`
	InStock       bool      `gorm:"default:true"             json:"in_stock"`
	IsFeatured    bool      `json:"is_featured"`
	IsNew         bool      `json:"is_new"`
	IsOnSale      bool      `json:"is_on_sale"`
	IsPopular     bool      `json:"is_popular"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
