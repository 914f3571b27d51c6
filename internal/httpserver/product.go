package httpserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"shopfront/internal/logging"
	"shopfront/internal/service"
	"shopfront/internal/transport"
	"shopfront/internal/util"
)

const (
	coverField   = "coverImage"
	galleryField = "galleryImages"
	maxGallery   = 5
)

var errTooManyGallery = fmt.Errorf("at most %d gallery images per request", maxGallery)

func uploadStatus(err error) *echo.HTTPError {
	if errors.Is(err, errTooManyGallery) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, "bad upload")
}

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c.Param("id"))
	if err != nil {
		// A malformed id reads the same as a missing product.
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("list failed", "error", err)
		return mapError(err)
	}

	return c.JSON(http.StatusOK, transport.ProductList{
		Data: items,
		Meta: transport.ListMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := h.Svc.SearchProducts(ctx, q, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	req := transport.CreateProductRequest{
		Name:          c.FormValue("name"),
		Category:      c.FormValue("category"),
		Price:         formFloat(c, "price"),
		DiscountPrice: formFloat(c, "discount_price"),
		Description:   c.FormValue("description"),
		InStock:       formBool(c, "in_stock"),
		IsFeatured:    formBool(c, "is_featured"),
		IsNew:         formBool(c, "is_new"),
		IsOnSale:      formBool(c, "is_on_sale"),
		IsPopular:     formBool(c, "is_popular"),
	}

	files, cleanup, err := h.stageImages(c)
	if err != nil {
		l.Warn("create failed", "status", 400, "reason", "bad upload", "error", err)
		return uploadStatus(err)
	}
	defer cleanup()

	prod, err := h.Svc.Create(ctx, req, files)
	if err != nil {
		return mapError(err)
	}

	l.Info("create success", "id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var req transport.PatchProductRequest
	var files service.ImageFiles
	cleanup := func() {}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&req); err != nil {
			l.Warn("update failed", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
	} else {
		req = patchFromForm(c)
		files, cleanup, err = h.stageImages(c)
		if err != nil {
			l.Warn("update failed", "status", 400, "reason", "bad upload", "error", err)
			return uploadStatus(err)
		}
	}
	defer cleanup()

	prod, err := h.Svc.Patch(ctx, id, req, files)
	if err != nil {
		return mapError(err)
	}

	l.Info("update success", "id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	l.Info("delete success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

// stageImages copies uploaded files to local temp paths for the
// service layer. The returned cleanup removes every staged file and
// must run on all exit paths, whatever the upload outcome.
func (h *ProductHTTP) stageImages(c echo.Context) (service.ImageFiles, func(), error) {
	var files service.ImageFiles
	var staged []string

	cleanup := func() {
		for _, p := range staged {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				logging.FromContext(c.Request().Context()).Error("temp file cleanup failed", "path", p, "error", err)
			}
		}
	}

	if fh, err := c.FormFile(coverField); err == nil {
		path, err := stageFile(fh)
		if err != nil {
			cleanup()
			return files, func() {}, err
		}
		staged = append(staged, path)
		files.Cover = path
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		gallery := form.File[galleryField]
		if len(gallery) > maxGallery {
			cleanup()
			return service.ImageFiles{}, func() {}, errTooManyGallery
		}
		for _, fh := range gallery {
			path, err := stageFile(fh)
			if err != nil {
				cleanup()
				return service.ImageFiles{}, func() {}, err
			}
			staged = append(staged, path)
			files.Gallery = append(files.Gallery, path)
		}
	}

	return files, cleanup, nil
}

func stageFile(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "shopfront-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return dst.Name(), nil
}

// patchFromForm builds a partial update from a multipart form. Only
// keys actually present in the form become non-nil, so an omitted
// checkbox is "keep the old value" while an explicit "false" clears.
func patchFromForm(c echo.Context) transport.PatchProductRequest {
	var req transport.PatchProductRequest

	req.Name = formStringPtr(c, "name")
	req.Category = formStringPtr(c, "category")
	req.Description = formStringPtr(c, "description")
	req.Price = formFloatPtr(c, "price")
	req.DiscountPrice = formFloatPtr(c, "discount_price")
	req.InStock = formBoolPtr(c, "in_stock")
	req.IsFeatured = formBoolPtr(c, "is_featured")
	req.IsNew = formBoolPtr(c, "is_new")
	req.IsOnSale = formBoolPtr(c, "is_on_sale")
	req.IsPopular = formBoolPtr(c, "is_popular")

	return req
}

func formHas(c echo.Context, key string) bool {
	form, err := c.FormParams()
	if err != nil {
		return false
	}
	_, ok := form[key]
	return ok
}

func formStringPtr(c echo.Context, key string) *string {
	if !formHas(c, key) {
		return nil
	}
	v := c.FormValue(key)
	return &v
}

func formFloatPtr(c echo.Context, key string) *float64 {
	if !formHas(c, key) {
		return nil
	}
	v := formFloat(c, key)
	return &v
}

func formBoolPtr(c echo.Context, key string) *bool {
	if !formHas(c, key) {
		return nil
	}
	v := formBool(c, key)
	return &v
}

func formFloat(c echo.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.FormValue(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func formBool(c echo.Context, key string) bool {
	switch strings.ToLower(c.FormValue(key)) {
	case "true", "1", "on":
		return true
	}
	return false
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
