// Package handler exposes HTTP handlers for the booking gateway. This file
// defines the wizard surface: one draft session per run of the three-step
// booking flow, patched field by field, advanced step by step, and finally
// submitted to the upstream lab backend. A step whose required fields are
// incomplete simply refuses to advance; that is an affordance for the
// client's "Next" control, not an error condition.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/booking"
	"github.com/labcare/booking-gateway/internal/model"
	"github.com/labcare/booking-gateway/internal/queue"
	"github.com/labcare/booking-gateway/internal/store"
	"github.com/labcare/booking-gateway/internal/upstream"
)

// BookingRecorder persists a booking into the local history ledger after
// the upstream accepted it. Split out so wizard tests can run without MySQL.
type BookingRecorder interface {
	CreateWithItems(ctx context.Context, b *model.Booking) error
}

// EventPublisher pushes a booking.confirmed event to the broker. Publishing
// is best effort; a broker outage never un-confirms a booking.
type EventPublisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// WizardHandler drives the booking wizard. All flow state lives in the
// draft store; the handler itself is stateless and safe for concurrent use.
type WizardHandler struct {
	Drafts    store.DraftStore
	Carts     store.CartStore
	Upstream  upstream.Submitter
	Catalog   upstream.Catalog // used for booking-for-self prefill
	Recorder  BookingRecorder  // nil disables history recording
	Publish   EventPublisher   // nil disables event publishing
	UploadDir string           // where prescription uploads are stored
	Log       *zap.Logger
}

// NewWizardHandler constructs a WizardHandler. Drafts, Carts and Upstream
// are mandatory; Catalog, Recorder and Publish may be nil to disable the
// corresponding side features.
func NewWizardHandler(drafts store.DraftStore, carts store.CartStore, up upstream.Submitter, catalog upstream.Catalog, rec BookingRecorder, pub EventPublisher, log *zap.Logger) *WizardHandler {
	if drafts == nil || carts == nil || up == nil {
		panic("nil dependency passed to NewWizardHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WizardHandler{
		Drafts:    drafts,
		Carts:     carts,
		Upstream:  up,
		Catalog:   catalog,
		Recorder:  rec,
		Publish:   pub,
		UploadDir: "uploads",
		Log:       log,
	}
}

// sessionView is the wizard state returned from every session endpoint. The
// validity flags mirror the per-step predicates so clients can enable or
// disable their "Next" control without re-implementing the rules.
type sessionView struct {
	SessionID  string             `json:"sessionId"`
	Step       int                `json:"step"`
	StepLabel  string             `json:"stepLabel"`
	Draft      model.BookingDraft `json:"draft"`
	Step1Valid bool               `json:"step1Valid"`
	Step2Valid bool               `json:"step2Valid"`
	Step3Valid bool               `json:"step3Valid"`
}

func (h *WizardHandler) view(ctx context.Context, sess *store.DraftSession) sessionView {
	cart, err := h.Carts.Items(ctx, sess.UserID)
	if err != nil {
		// Step3Valid degrades to false when the cart cannot be read; the
		// submission precondition re-checks it anyway.
		h.Log.Warn("could not read cart for session view", zap.Error(err))
		cart = nil
	}
	return sessionView{
		SessionID:  sess.SessionID,
		Step:       int(sess.Step),
		StepLabel:  sess.Step.String(),
		Draft:      sess.Draft,
		Step1Valid: booking.Step1Valid(sess.Draft),
		Step2Valid: booking.Step2Valid(sess.Draft),
		Step3Valid: booking.Step3Valid(sess.Draft, cart),
	}
}

// StartSession handles POST /v1/booking/session. It creates a fresh draft
// session at the details step. With ?prefill=self the current user's
// identity is fetched from the upstream and the name, mobile and age fields
// are prefilled, matching the "book for self" toggle in the clients.
func (h *WizardHandler) StartSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	sess, err := h.Drafts.Create(ctx, userID)
	if err != nil {
		h.Log.Error("could not create booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start booking session"})
	}

	if c.QueryParam("prefill") == "self" && h.Catalog != nil {
		if user, err := h.Catalog.CurrentUser(ctx, bearerToken(c)); err == nil && user != nil {
			sess.Draft.Name = user.Name
			sess.Draft.Mobile = user.Mobile
			if age := ageFromDOB(user.DOB); age != "" {
				sess.Draft.Age = age
			}
			if err := h.Drafts.Save(ctx, sess); err != nil {
				h.Log.Warn("could not save prefilled session", zap.Error(err))
			}
		} else if err != nil {
			// Prefill is a convenience; the wizard starts empty on failure.
			h.Log.Warn("current-user prefill failed", zap.Error(err))
		}
	}

	return c.JSON(http.StatusCreated, h.view(ctx, sess))
}

// GetSession handles GET /v1/booking/session/:sessionID.
func (h *WizardHandler) GetSession(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	return c.JSON(http.StatusOK, h.view(c.Request().Context(), sess))
}

// PatchDraft handles PATCH /v1/booking/session/:sessionID. The body is a
// partial draft; supplied fields overwrite, omitted fields are untouched.
// No validation is applied here: patching never fails on content, it only
// moves the validity flags the client reads back.
func (h *WizardHandler) PatchDraft(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	var patch model.DraftPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sess.Draft.Apply(patch)
	ctx := c.Request().Context()
	if err := h.Drafts.Save(ctx, sess); err != nil {
		h.Log.Error("could not save booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
	}
	return c.JSON(http.StatusOK, h.view(ctx, sess))
}

// Next handles POST /v1/booking/session/:sessionID/next. The transition is
// gated by the current step's predicate; when the step is incomplete the
// response reports advanced=false with an unchanged step instead of an
// error, mirroring a disabled "Next" button.
func (h *WizardHandler) Next(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	ctx := c.Request().Context()
	next, advanced := booking.Next(sess.Step, sess.Draft)
	if advanced {
		sess.Step = next
		if err := h.Drafts.Save(ctx, sess); err != nil {
			h.Log.Error("could not save booking session", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"advanced": advanced, "session": h.view(ctx, sess)})
}

// Back handles POST /v1/booking/session/:sessionID/back. Going back is
// unconditional and clamps at the first step.
func (h *WizardHandler) Back(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	ctx := c.Request().Context()
	prev, moved := booking.Back(sess.Step)
	if moved {
		sess.Step = prev
		if err := h.Drafts.Save(ctx, sess); err != nil {
			h.Log.Error("could not save booking session", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"moved": moved, "session": h.view(ctx, sess)})
}

// Cancel handles DELETE /v1/booking/session/:sessionID. The draft is
// discarded; the cart is untouched.
func (h *WizardHandler) Cancel(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	if err := h.Drafts.Delete(c.Request().Context(), sess.SessionID); err != nil {
		h.Log.Error("could not delete booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking session"})
	}
	return c.NoContent(http.StatusNoContent)
}

// loadSession fetches the session named in the path and checks ownership.
// On failure it writes the response itself and returns a nil session with
// the already-written error.
func (h *WizardHandler) loadSession(c echo.Context) (*store.DraftSession, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sess, err := h.Drafts.Get(c.Request().Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found or expired"})
		}
		h.Log.Error("could not load booking session", zap.Error(err))
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking session"})
	}
	if sess.UserID != userID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return sess, nil
}

// ageFromDOB derives a whole-year age from an ISO date of birth, using the
// same 365.25-day year the clients use. Returns "" when dob is absent or
// unparseable.
func ageFromDOB(dob string) string {
	if dob == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return ""
	}
	years := int(time.Since(t).Hours() / (24 * 365.25))
	if years < 0 {
		return ""
	}
	return strconv.Itoa(years)
}
