package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shopfront/internal/events"
	"shopfront/internal/logging"
	"shopfront/internal/models"
	"shopfront/internal/repo"
	"shopfront/internal/search"
	"shopfront/internal/transport"
	"shopfront/internal/upload"
)

const assetFolder = "products"

type ProductService struct {
	Repo     *repo.GormRepo
	Assets   upload.AssetHost
	Producer *events.Producer
	Search   *search.Index
}

// ImageFiles holds staged local copies of uploaded images. The HTTP
// layer owns the temp files and removes them on every exit path.
type ImageFiles struct {
	Cover   string
	Gallery []string
}

func (s *ProductService) Create(ctx context.Context, req transport.CreateProductRequest, files ImageFiles) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	if files.Cover == "" {
		return nil, fmt.Errorf("%w: cover image is required", ErrValidation)
	}

	cover, gallery, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Description:   strings.TrimSpace(req.Description),
		CoverImage:    cover.URL,
		GalleryImages: assetURLs(gallery),
		InStock:       req.InStock,
		IsFeatured:    req.IsFeatured,
		IsNew:         req.IsNew,
		IsOnSale:      req.IsOnSale,
		IsPopular:     req.IsPopular,
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		l.Error("create failed", "error", err)
		s.destroyAll(ctx, append(gallery, *cover))
		return nil, err
	}

	s.index(ctx, prod)
	s.publish(ctx, map[string]interface{}{
		"type":       "product_created",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return prod, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return prod, nil
}

func (s *ProductService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.Products(ctx, offset, limit)
}

func (s *ProductService) Patch(ctx context.Context, id uint, req transport.PatchProductRequest, files ImageFiles) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.patch", "id", id)

	if err := validatePatch(req); err != nil {
		return nil, err
	}

	var uploaded []upload.Asset
	if files.Cover != "" || len(files.Gallery) > 0 {
		// Confirm the target exists before pushing anything to the
		// host; nothing deletes an asset the store never referenced.
		if _, err := s.Repo.ProductByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
			}
			return nil, err
		}

		cover, gallery, err := s.uploadAll(ctx, files)
		if err != nil {
			return nil, err
		}
		if cover != nil {
			req.CoverImage = &cover.URL
			uploaded = append(uploaded, *cover)
		}
		uploaded = append(uploaded, gallery...)
		req.GalleryAdd = assetURLs(gallery)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		s.destroyAll(ctx, uploaded)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		l.Error("patch failed", "error", err)
		return nil, err
	}

	s.index(ctx, prod)
	s.publish(ctx, map[string]interface{}{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return prod, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "product.delete", "id", id)

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	// Uploaded assets are intentionally left on the host: the store
	// keeps URLs, not public ids, so there is nothing to destroy by.
	l.Debug("assets not cascaded")

	if err := s.Search.RemoveProduct(ctx, id); err != nil {
		l.Error("search remove failed", "error", err)
	}
	s.publish(ctx, map[string]interface{}{
		"type":       "product_deleted",
		"product_id": id,
	})

	return nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	return s.Search.Search(ctx, query, from, size)
}

func (s *ProductService) Stats(ctx context.Context) (*transport.DashboardStats, error) {
	return s.Repo.ProductStats(ctx)
}

// uploadAll pushes the cover first, then every gallery file. Any
// failure destroys whatever already made it to the host before the
// error surfaces; a failed destroy is logged and never masks the
// upload error.
func (s *ProductService) uploadAll(ctx context.Context, files ImageFiles) (*upload.Asset, []upload.Asset, error) {
	if s.Assets == nil {
		return nil, nil, fmt.Errorf("%w: asset host is not configured", ErrUpload)
	}

	var uploaded []upload.Asset

	var cover *upload.Asset
	if files.Cover != "" {
		a, err := s.Assets.Upload(ctx, files.Cover, assetFolder)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: cover: %v", ErrUpload, err)
		}
		cover = a
		uploaded = append(uploaded, *a)
	}

	gallery := make([]upload.Asset, 0, len(files.Gallery))
	for _, path := range files.Gallery {
		a, err := s.Assets.Upload(ctx, path, assetFolder)
		if err != nil {
			s.destroyAll(ctx, uploaded)
			return nil, nil, fmt.Errorf("%w: gallery: %v", ErrUpload, err)
		}
		gallery = append(gallery, *a)
		uploaded = append(uploaded, *a)
	}

	return cover, gallery, nil
}

func (s *ProductService) destroyAll(ctx context.Context, assets []upload.Asset) {
	l := logging.FromContext(ctx)
	for _, a := range assets {
		if err := s.Assets.Destroy(ctx, a.PublicID); err != nil {
			l.Error("asset cleanup failed", "public_id", a.PublicID, "error", err)
		}
	}
}

func (s *ProductService) index(ctx context.Context, prod *models.Product) {
	if err := s.Search.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("search index failed", "id", prod.ID, "error", err)
	}
}

func (s *ProductService) publish(ctx context.Context, event map[string]interface{}) {
	if err := s.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "event", event["type"], "error", err)
	}
}

func validateCreate(req transport.CreateProductRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(req.Category) == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	case strings.TrimSpace(req.Description) == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case req.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	case req.DiscountPrice < 0:
		return fmt.Errorf("%w: discount price cannot be negative", ErrValidation)
	}
	return nil
}

func validatePatch(req transport.PatchProductRequest) error {
	switch {
	case req.Name != nil && strings.TrimSpace(*req.Name) == "":
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	case req.Category != nil && strings.TrimSpace(*req.Category) == "":
		return fmt.Errorf("%w: category cannot be empty", ErrValidation)
	case req.Description != nil && strings.TrimSpace(*req.Description) == "":
		return fmt.Errorf("%w: description cannot be empty", ErrValidation)
	case req.Price != nil && *req.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	case req.DiscountPrice != nil && *req.DiscountPrice < 0:
		return fmt.Errorf("%w: discount price cannot be negative", ErrValidation)
	}
	return nil
}

func assetURLs(assets []upload.Asset) []string {
	if len(assets) == 0 {
		return nil
	}
	urls := make([]string, len(assets))
	for i, a := range assets {
		urls[i] = a.URL
	}
	return urls
}
