package handler

// CatalogHandler proxies the lab backend's test and package catalogue.
// Query parameters (search, category, page, limit) are passed through
// untouched; responses are good candidates for the Redis response cache.

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/upstream"
)

type CatalogHandler struct {
	Catalog upstream.Catalog
	Log     *zap.Logger
}

func NewCatalogHandler(catalog upstream.Catalog, log *zap.Logger) *CatalogHandler {
	if catalog == nil {
		panic("handler: nil catalog client")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{Catalog: catalog, Log: log}
}

// Tests handles GET /v1/tests.
func (h *CatalogHandler) Tests(c echo.Context) error {
	page, err := h.Catalog.Tests(c.Request().Context(), c.QueryParams())
	if err != nil {
		h.Log.Error("could not fetch tests", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not fetch tests"})
	}
	return c.JSON(http.StatusOK, page)
}

// Packages handles GET /v1/packages.
func (h *CatalogHandler) Packages(c echo.Context) error {
	page, err := h.Catalog.Packages(c.Request().Context(), c.QueryParams())
	if err != nil {
		h.Log.Error("could not fetch packages", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not fetch packages"})
	}
	return c.JSON(http.StatusOK, page)
}
