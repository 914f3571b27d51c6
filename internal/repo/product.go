package repo

import (
	"context"

	"gorm.io/gorm"

	"shopfront/internal/models"
	"shopfront/internal/transport"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Products lists newest-first.
func (r *GormRepo) Products(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		prod.DiscountPrice = *req.DiscountPrice
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.InStock != nil {
		prod.InStock = *req.InStock
	}
	if req.IsFeatured != nil {
		prod.IsFeatured = *req.IsFeatured
	}
	if req.IsNew != nil {
		prod.IsNew = *req.IsNew
	}
	if req.IsOnSale != nil {
		prod.IsOnSale = *req.IsOnSale
	}
	if req.IsPopular != nil {
		prod.IsPopular = *req.IsPopular
	}
	if req.CoverImage != nil {
		prod.CoverImage = *req.CoverImage
	}
	// New gallery uploads append; replacing the list would orphan
	// assets that nothing deletes.
	if len(req.GalleryAdd) > 0 {
		prod.GalleryImages = append(prod.GalleryImages, req.GalleryAdd...)
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}

	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *GormRepo) ProductStats(ctx context.Context) (*transport.DashboardStats, error) {
	stats := transport.DashboardStats{}
	db := r.DB.WithContext(ctx).Model(&models.Product{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("is_featured = ?", true).Count(&stats.FeaturedProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("is_on_sale = ?", true).Count(&stats.OnSaleProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("in_stock = ?", false).Count(&stats.OutOfStockProducts).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
