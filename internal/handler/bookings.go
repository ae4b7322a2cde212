package handler

// BookingHistoryHandler serves the local booking-history ledger the
// gateway writes on every confirmed booking.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/model"
	"github.com/labcare/booking-gateway/internal/repository"
)

type BookingHistoryHandler struct {
	Bookings *repository.BookingRepo
	Log      *zap.Logger
}

func NewBookingHistoryHandler(repo *repository.BookingRepo, log *zap.Logger) *BookingHistoryHandler {
	if repo == nil {
		panic("handler: nil booking repository")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHistoryHandler{Bookings: repo, Log: log}
}

// GetBooking handles GET /v1/bookings/my/:id.
func (h *BookingHistoryHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, err := h.Bookings.GetByUser(c.Request().Context(), userID, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		h.Log.Error("could not get booking", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not get booking"})
	}
	return c.JSON(http.StatusOK, b)
}

// MyBookings handles GET /v1/bookings/my?page=&limit=&status=.
func (h *BookingHistoryHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := c.QueryParam("status")

	bookings, total, err := h.Bookings.ListByUser(c.Request().Context(), userID, status, page, limit)
	if err != nil {
		h.Log.Error("could not list bookings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": bookings,
		"pagination": model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	})
}
