package handler

// The confirm endpoint: the terminal operation of the wizard. It enforces
// the submission precondition, guards against concurrent confirms on the
// same session, performs the single upstream POST, and reconciles local
// state (history record, event, cart, session) only on success. On any
// failure the draft and cart are left untouched so the user can retry.

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/booking"
	"github.com/labcare/booking-gateway/internal/model"
	"github.com/labcare/booking-gateway/internal/queue"
	"github.com/labcare/booking-gateway/internal/store"
	"github.com/labcare/booking-gateway/internal/upstream"
)

// Confirm handles POST /v1/booking/session/:sessionID/confirm. An optional
// body may carry a final payment mode override, matching the confirm-step
// selector in the clients.
func (h *WizardHandler) Confirm(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	ctx := c.Request().Context()

	if sess.Step != booking.StepConfirm {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not at the confirm step"})
	}

	var body struct {
		PaymentMode string `json:"paymentMode"`
	}
	// The body is optional; binding errors on an empty body are ignored.
	if err := c.Bind(&body); err == nil && body.PaymentMode != "" {
		sess.Draft.PaymentMode = body.PaymentMode
	}

	cart, err := h.Carts.Items(ctx, sess.UserID)
	if err != nil {
		h.Log.Error("could not read cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read cart"})
	}
	if !booking.Step3Valid(sess.Draft, cart) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not ready for submission"})
	}

	// One submission per session at a time; a duplicate tap gets a 409
	// instead of a second upstream request.
	locked, err := h.Drafts.TryLockSubmit(ctx, sess.SessionID)
	if err != nil {
		h.Log.Error("could not acquire submission lock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not submit booking"})
	}
	if !locked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress"})
	}

	conf, err := h.Upstream.Submit(ctx, upstream.Submission{
		Draft:          sess.Draft,
		Cart:           cart,
		AuthToken:      bearerToken(c),
		IdempotencyKey: sess.SessionID,
	})
	if err != nil {
		// The draft and cart stay as they are; release the lock for retry.
		if unlockErr := h.Drafts.UnlockSubmit(ctx, sess.SessionID); unlockErr != nil {
			h.Log.Warn("could not release submission lock", zap.Error(unlockErr))
		}
		return h.submissionFailure(c, err)
	}

	record := h.recordBooking(ctx, sess, cart, conf)
	h.publishConfirmed(ctx, record)

	// Reconcile local state only after the upstream accepted the booking.
	if err := h.Carts.Clear(ctx, sess.UserID); err != nil {
		h.Log.Warn("could not clear cart after booking", zap.Error(err))
	}
	if err := h.Drafts.Delete(ctx, sess.SessionID); err != nil {
		h.Log.Warn("could not delete booking session", zap.Error(err))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking":  record,
		"redirect": "/home",
	})
}

// submissionFailure maps a pipeline error onto an HTTP response carrying
// the user-facing message.
func (h *WizardHandler) submissionFailure(c echo.Context, err error) error {
	if errors.Is(err, upstream.ErrNotSubmittable) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not ready for submission"})
	}
	var se *upstream.SubmissionError
	if errors.As(err, &se) {
		switch se.Kind {
		case upstream.KindTimeout:
			return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": se.Message})
		case upstream.KindServerRejected:
			status := se.Status
			if status < 400 || status > 599 {
				status = http.StatusBadGateway
			}
			return c.JSON(status, echo.Map{"error": se.Message})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": se.Message})
		}
	}
	h.Log.Error("booking submission failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking submission failed"})
}

// recordBooking writes the confirmed booking into the local history ledger.
// Recording is best effort: the upstream already accepted the booking, so a
// ledger failure is logged, not surfaced.
func (h *WizardHandler) recordBooking(ctx context.Context, sess *store.DraftSession, cart []model.CartItem, conf *model.BookingConfirmation) *model.Booking {
	record := &model.Booking{
		UserID:        sess.UserID,
		Name:          sess.Draft.Name,
		Date:          sess.Draft.Date,
		TimeSlot:      sess.Draft.TimeSlot,
		Status:        model.BookingStatusConfirmed,
		PaymentMode:   sess.Draft.PaymentMode,
		PaymentStatus: "UNPAID",
		TotalAmount:   model.CartTotal(cart),
		CreatedAt:     time.Now().UTC(),
	}
	if conf != nil {
		record.UpstreamID = conf.ID
		if conf.Status != "" {
			record.Status = conf.Status
		}
		if conf.PaymentStatus != "" {
			record.PaymentStatus = conf.PaymentStatus
		}
	}
	for _, it := range cart {
		item := model.BookingItem{Type: it.Type, Name: it.Name, Price: it.Price}
		id := it.ID
		switch it.Type {
		case model.ItemTypeTest:
			item.TestID = &id
		case model.ItemTypePackage:
			item.PackageID = &id
		}
		record.Items = append(record.Items, item)
	}

	if h.Recorder != nil {
		if err := h.Recorder.CreateWithItems(ctx, record); err != nil {
			h.Log.Warn("could not record booking history", zap.Error(err))
		}
	}
	return record
}

// publishConfirmed emits the booking.confirmed event. Best effort as well.
func (h *WizardHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	names := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		names = append(names, it.Name)
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UpstreamID:  b.UpstreamID,
		UserID:      b.UserID,
		PatientName: b.Name,
		Date:        b.Date,
		TimeSlot:    b.TimeSlot,
		PaymentMode: b.PaymentMode,
		ItemNames:   names,
		TotalAmount: b.TotalAmount,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Publish(ctx, ev); err != nil {
		h.Log.Warn("could not publish booking.confirmed", zap.Error(err))
	}
}
