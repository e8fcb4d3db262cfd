package siteapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spicemart/spicesite/internal/repository"
	"go.uber.org/zap"
)

// registerProductRoutes registers the read-only catalog endpoints
func (a *API) registerProductRoutes(r Router) {
	r.ApiGET("/products", a.listProducts)
	r.ApiGET("/products/:id", a.getProduct)
}

func (a *API) listProducts(c echo.Context) error {
	products, err := a.store.ListProducts(c.Request().Context())
	if err != nil {
		zap.L().Error("siteapi: list products failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to query products")
	}
	return ok(c, products)
}

func (a *API) getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	// well-formed integers that cannot name a stored row are simply absent
	if errors.Is(err, strconv.ErrRange) || (err == nil && id <= 0) {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID")
	}

	p, err := a.store.GetProduct(c.Request().Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "Product not found")
	case err != nil:
		zap.L().Error("siteapi: get product failed", zap.Int64("id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to query product")
	}
	return ok(c, p)
}
