package handler

// CartHandler exposes the per-user cart. The cart holds the tests and
// packages a booking will be submitted with; its contents live in Redis
// keyed by user, so they survive across sessions and devices.

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/model"
	"github.com/labcare/booking-gateway/internal/store"
)

type CartHandler struct {
	Carts store.CartStore
	Log   *zap.Logger
}

func NewCartHandler(carts store.CartStore, log *zap.Logger) *CartHandler {
	if carts == nil {
		panic("handler: nil cart store")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CartHandler{Carts: carts, Log: log}
}

// List handles GET /v1/cart.
func (h *CartHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Carts.Items(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("could not read cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read cart"})
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": model.CartTotal(items),
	})
}

// Add handles POST /v1/cart/items. The body is a single cart item; adding
// an item that is already present is a no-op.
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var item model.CartItem
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item"})
	}
	if item.Name == "" || (item.Type != model.ItemTypeTest && item.Type != model.ItemTypePackage) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart item needs a name and a valid type"})
	}
	if err := h.Carts.Add(c.Request().Context(), userID, item); err != nil {
		h.Log.Error("could not add cart item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update cart"})
	}
	return h.List(c)
}

// Remove handles DELETE /v1/cart/items/:id.
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Carts.Remove(c.Request().Context(), userID, id); err != nil {
		h.Log.Error("could not remove cart item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update cart"})
	}
	return h.List(c)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Carts.Clear(c.Request().Context(), userID); err != nil {
		h.Log.Error("could not clear cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update cart"})
	}
	return c.NoContent(http.StatusNoContent)
}
