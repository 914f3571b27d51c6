package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/models"
	"shopfront/internal/transport"
	"shopfront/internal/upload"
)

// fakeAssetHost records uploads and destroys. failAt makes the n-th
// upload (1-based) fail.
type fakeAssetHost struct {
	mu         sync.Mutex
	uploads    []upload.Asset
	destroyed  []string
	failAt     int
	destroyErr error
}

func (f *fakeAssetHost) Upload(ctx context.Context, localPath, folder string) (*upload.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.uploads) + 1
	if f.failAt != 0 && n >= f.failAt {
		return nil, errors.New("simulated host failure")
	}

	a := upload.Asset{
		URL:      fmt.Sprintf("https://cdn.test/%s/img-%d.jpg", folder, n),
		PublicID: fmt.Sprintf("asset-%d", n),
	}
	f.uploads = append(f.uploads, a)
	return &a, nil
}

func (f *fakeAssetHost) Destroy(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func newTestProductService(t *testing.T) (*ProductService, *fakeAssetHost) {
	t.Helper()
	host := &fakeAssetHost{}
	return &ProductService{
		Repo:   newTestRepo(t),
		Assets: host,
	}, host
}

func validCreateRequest() transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:        "Leather Satchel",
		Category:    "bags",
		Price:       10.00,
		Description: "Hand-stitched leather satchel",
		InStock:     true,
	}
}

func (s *ProductService) productCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.Repo.DB.Model(&models.Product{}).Count(&count).Error)
	return count
}

func TestProductService_CreateValidation(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*transport.CreateProductRequest)
	}{
		{name: "missing name", mutate: func(r *transport.CreateProductRequest) { r.Name = "" }},
		{name: "missing category", mutate: func(r *transport.CreateProductRequest) { r.Category = "" }},
		{name: "missing description", mutate: func(r *transport.CreateProductRequest) { r.Description = "" }},
		{name: "zero price", mutate: func(r *transport.CreateProductRequest) { r.Price = 0 }},
		{name: "negative price", mutate: func(r *transport.CreateProductRequest) { r.Price = -1 }},
		{name: "negative discount", mutate: func(r *transport.CreateProductRequest) { r.DiscountPrice = -5 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.Create(ctx, req, ImageFiles{Cover: "cover.jpg"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Validation rejects before any host or store side effect.
	assert.Empty(t, host.uploads)
	assert.EqualValues(t, 0, svc.productCount(t))
}

func TestProductService_CreateRequiresCover(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)

	_, err := svc.Create(context.Background(), validCreateRequest(), ImageFiles{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, host.uploads)
}

func TestProductService_CreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.DiscountPrice = 7.50
	req.IsFeatured = true

	created, err := svc.Create(ctx, req, ImageFiles{
		Cover:   "cover.jpg",
		Gallery: []string{"g1.jpg", "g2.jpg"},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, host.uploads, 3)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, req.Name, got.Name)
	assert.Equal(t, req.Category, got.Category)
	assert.Equal(t, 10.00, got.Price)
	assert.Equal(t, 7.50, got.DiscountPrice)
	assert.Equal(t, host.uploads[0].URL, got.CoverImage)
	assert.Equal(t, []string{host.uploads[1].URL, host.uploads[2].URL}, got.GalleryImages)
	assert.True(t, got.InStock)
	assert.True(t, got.IsFeatured)
	assert.False(t, got.IsOnSale)
}

func TestProductService_GalleryFailureDestroysCover(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)
	host.failAt = 2 // cover succeeds, first gallery upload fails

	_, err := svc.Create(context.Background(), validCreateRequest(), ImageFiles{
		Cover:   "cover.jpg",
		Gallery: []string{"g1.jpg"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpload)

	// The already-uploaded cover asset was compensated away and no
	// product was persisted.
	assert.Equal(t, []string{"asset-1"}, host.destroyed)
	assert.EqualValues(t, 0, svc.productCount(t))
}

func TestProductService_CleanupFailureDoesNotMaskUploadError(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)
	host.failAt = 2
	host.destroyErr = errors.New("destroy also broke")

	_, err := svc.Create(context.Background(), validCreateRequest(), ImageFiles{
		Cover:   "cover.jpg",
		Gallery: []string{"g1.jpg"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpload)
	assert.NotContains(t, err.Error(), "destroy also broke")
}

func TestProductService_PatchExplicitFalseSticks(t *testing.T) {
	t.Parallel()

	svc, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, func() transport.CreateProductRequest {
		r := validCreateRequest()
		r.IsFeatured = true
		r.IsOnSale = true
		return r
	}(), ImageFiles{Cover: "cover.jpg"})
	require.NoError(t, err)

	notFeatured := false
	patched, err := svc.Patch(ctx, created.ID, transport.PatchProductRequest{
		IsFeatured: &notFeatured,
	}, ImageFiles{})
	require.NoError(t, err)

	assert.False(t, patched.IsFeatured)
	// Unsupplied fields keep their prior values.
	assert.True(t, patched.IsOnSale)
	assert.Equal(t, created.Name, patched.Name)
	assert.Equal(t, created.Price, patched.Price)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFeatured)
}

func TestProductService_PatchAppendsGallery(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), ImageFiles{
		Cover:   "cover.jpg",
		Gallery: []string{"g1.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, created.GalleryImages, 1)

	patched, err := svc.Patch(ctx, created.ID, transport.PatchProductRequest{}, ImageFiles{
		Gallery: []string{"g2.jpg"},
	})
	require.NoError(t, err)

	require.Len(t, patched.GalleryImages, 2)
	assert.Equal(t, created.GalleryImages[0], patched.GalleryImages[0])
	assert.Equal(t, host.uploads[2].URL, patched.GalleryImages[1])
}

func TestProductService_PatchMissingProductUploadsNothing(t *testing.T) {
	t.Parallel()

	svc, host := newTestProductService(t)

	_, err := svc.Patch(context.Background(), 4242, transport.PatchProductRequest{}, ImageFiles{
		Cover:   "cover.jpg",
		Gallery: []string{"g1.jpg"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// The missing target was detected before any host traffic, so no
	// asset could be orphaned.
	assert.Empty(t, host.uploads)
	assert.Empty(t, host.destroyed)
}

func TestProductService_PatchValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateRequest(), ImageFiles{Cover: "cover.jpg"})
	require.NoError(t, err)

	empty := ""
	zero := 0.0
	tests := []struct {
		name string
		req  transport.PatchProductRequest
	}{
		{name: "empty name", req: transport.PatchProductRequest{Name: &empty}},
		{name: "zero price", req: transport.PatchProductRequest{Price: &zero}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Patch(ctx, created.ID, tt.req, ImageFiles{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductService_GetAndDeleteNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestProductService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 4242)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, 4242)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_ListNewestFirst(t *testing.T) {
	t.Parallel()

	svc, _ := newTestProductService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		prod := models.Product{
			Name:        fmt.Sprintf("product-%d", i),
			Category:    "misc",
			Price:       1,
			Description: "d",
			CoverImage:  "https://cdn.test/cover.jpg",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, svc.Repo.DB.Create(&prod).Error)
	}

	total, items, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "product-2", items[0].Name)
	assert.Equal(t, "product-1", items[1].Name)
	assert.Equal(t, "product-0", items[2].Name)
}
