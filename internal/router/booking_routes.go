package router

import (
	"github.com/labstack/echo/v4"

	"github.com/labcare/booking-gateway/internal/handler"
	"github.com/labcare/booking-gateway/internal/middleware"
)

// RegisterBooking registers the booking wizard, cart and history endpoints
// under /v1.  Every route requires a valid bearer token; the same token is
// forwarded to the lab backend on submission, so the gateway never holds
// credentials of its own.
func RegisterBooking(e *echo.Echo, w *handler.WizardHandler, cart *handler.CartHandler, hist *handler.BookingHistoryHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Wizard session lifecycle.  A session is one walk through the
	// three-step booking flow; its draft lives in Redis until it is
	// confirmed, cancelled or expires.
	g.POST("/booking/session", w.StartSession)
	g.GET("/booking/session/:sessionID", w.GetSession)
	g.PATCH("/booking/session/:sessionID", w.PatchDraft)
	g.DELETE("/booking/session/:sessionID", w.Cancel)

	// Step navigation.  Next refuses to advance while the current step's
	// fields are incomplete; Back always succeeds until the first step.
	g.POST("/booking/session/:sessionID/next", w.Next)
	g.POST("/booking/session/:sessionID/back", w.Back)

	// Location and prescription attachments for the draft.
	g.POST("/booking/session/:sessionID/location", w.ReportLocation)
	g.PUT("/booking/session/:sessionID/location", w.ManualLocation)
	g.POST("/booking/session/:sessionID/prescription", w.UploadPrescription)

	// Confirm submits the booking upstream exactly once per session.
	g.POST("/booking/session/:sessionID/confirm", w.Confirm)

	// Cart endpoints.
	g.GET("/cart", cart.List)
	g.POST("/cart/items", cart.Add)
	g.DELETE("/cart/items/:id", cart.Remove)
	g.DELETE("/cart", cart.Clear)

	// Local booking history written on every confirmed booking.
	g.GET("/bookings/my", hist.MyBookings)
	g.GET("/bookings/my/:id", hist.GetBooking)
}

// RegisterCatalog registers the catalog proxy endpoints.  They sit behind
// the Redis response cache because the upstream test and package listings
// change rarely, and they skip JWT so clients can browse before signing in.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cacheMW != nil {
		g.Use(cacheMW)
	}
	g.GET("/tests", cat.Tests)
	g.GET("/packages", cat.Packages)
}
