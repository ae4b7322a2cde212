package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labcare/booking-gateway/internal/booking"
	"github.com/labcare/booking-gateway/internal/model"
	"github.com/labcare/booking-gateway/internal/store"
	"github.com/labcare/booking-gateway/internal/upstream"
)

// readySession walks a fixture to the confirm step with a filled draft and
// one cart item, returning the session ID.
func readySession(t *testing.T, f *wizardFixture) string {
	t.Helper()
	id := startSession(t, f)
	fillDetails(t, f, id)
	advance(t, f, id)
	fillSchedule(t, f, id)
	advance(t, f, id)
	f.carts.Add(context.Background(), testUserID,
		model.CartItem{ID: 12, Name: "CBC", Price: 500, Type: model.ItemTypeTest})
	return id
}

func confirm(t *testing.T, f *wizardFixture, id, body string) *struct {
	code int
	body map[string]json.RawMessage
} {
	t.Helper()
	c, rec := request(http.MethodPost, "/v1/booking/session/"+id+"/confirm", body, id)
	if err := f.h.Confirm(c); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	out := &struct {
		code int
		body map[string]json.RawMessage
	}{code: rec.Code}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out.body); err != nil {
			t.Fatalf("decode confirm response: %v", err)
		}
	}
	return out
}

func TestConfirm_SubmitsAndTearsDown(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusCreated {
		t.Fatalf("status = %d: %v", resp.code, resp.body)
	}
	if f.upstream.calls != 1 {
		t.Fatalf("upstream called %d times, want exactly once", f.upstream.calls)
	}
	if f.upstream.last.IdempotencyKey != id {
		t.Errorf("idempotency key = %q, want the session id", f.upstream.last.IdempotencyKey)
	}
	if f.upstream.last.AuthToken != "tok-123" {
		t.Errorf("auth token = %q", f.upstream.last.AuthToken)
	}

	// Local teardown: cart cleared, session gone, history written, event out.
	if items, _ := f.carts.Items(context.Background(), testUserID); len(items) != 0 {
		t.Error("expected cart to be cleared after success")
	}
	if _, err := f.drafts.Get(context.Background(), id); err != store.ErrSessionNotFound {
		t.Error("expected session to be deleted after success")
	}
	if len(f.recorder.bookings) != 1 {
		t.Fatalf("recorded %d bookings, want 1", len(f.recorder.bookings))
	}
	if b := f.recorder.bookings[0]; b.UpstreamID != "bk_901" || b.TotalAmount != 500 {
		t.Errorf("recorded booking = %+v", b)
	}
	if len(f.events) != 1 || f.events[0].PatientName != "Anshu Sah" {
		t.Errorf("events = %+v", f.events)
	}
}

func TestConfirm_PaymentModeOverride(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)

	resp := confirm(t, f, id, `{"paymentMode":"ESEWA"}`)
	if resp.code != http.StatusCreated {
		t.Fatalf("status = %d", resp.code)
	}
	if f.upstream.last.Draft.PaymentMode != model.PaymentESewa {
		t.Errorf("payment mode = %q, want ESEWA", f.upstream.last.Draft.PaymentMode)
	}
}

func TestConfirm_RequiresConfirmStep(t *testing.T) {
	f := newWizardFixture()
	id := startSession(t, f)

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusConflict {
		t.Errorf("status = %d, want 409 before reaching the confirm step", resp.code)
	}
	if f.upstream.calls != 0 {
		t.Error("upstream must not be called before the confirm step")
	}
}

func TestConfirm_EmptyCartBlocksSubmission(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)
	f.carts.Clear(context.Background(), testUserID)

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusConflict {
		t.Errorf("status = %d, want 409 with an empty cart", resp.code)
	}
	if f.upstream.calls != 0 {
		t.Error("an empty cart must never reach the upstream")
	}
}

func TestConfirm_InFlightGuard(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)

	// Simulate a submission already holding the lock.
	f.drafts.TryLockSubmit(context.Background(), id)

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusConflict {
		t.Errorf("status = %d, want 409 while a submission is in flight", resp.code)
	}
	if f.upstream.calls != 0 {
		t.Error("a locked session must not submit again")
	}
}

func TestConfirm_UpstreamRejectionKeepsState(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)
	f.upstream.err = &upstream.SubmissionError{
		Kind:    upstream.KindServerRejected,
		Status:  http.StatusUnprocessableEntity,
		Message: "Slot no longer available",
	}

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want the upstream status", resp.code)
	}
	var msg string
	json.Unmarshal(resp.body["error"], &msg)
	if msg != "Slot no longer available" {
		t.Errorf("error = %q", msg)
	}

	// Draft and cart survive; the lock is released for a retry.
	sess, err := f.drafts.Get(context.Background(), id)
	if err != nil || sess.Step != booking.StepConfirm {
		t.Error("expected the session to survive a rejection")
	}
	if items, _ := f.carts.Items(context.Background(), testUserID); len(items) != 1 {
		t.Error("expected the cart to survive a rejection")
	}
	if f.drafts.locks[id] {
		t.Error("expected the submission lock to be released after failure")
	}
	if len(f.recorder.bookings) != 0 || len(f.events) != 0 {
		t.Error("nothing may be recorded or published on failure")
	}
}

func TestConfirm_TimeoutMapsTo504(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)
	f.upstream.err = &upstream.SubmissionError{Kind: upstream.KindTimeout, Message: "booking submission failed"}

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", resp.code)
	}
}

func TestConfirm_NetworkFailureMapsTo502(t *testing.T) {
	f := newWizardFixture()
	id := readySession(t, f)
	f.upstream.err = &upstream.SubmissionError{Kind: upstream.KindNetworkFailure, Message: "booking submission failed"}

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.code)
	}
}

func TestConfirm_RecorderFailureDoesNotFailBooking(t *testing.T) {
	// The upstream accepted the booking; a ledger outage must not turn
	// that into a user-visible failure.
	f := newWizardFixture()
	id := readySession(t, f)
	f.recorder.err = context.DeadlineExceeded

	resp := confirm(t, f, id, "")
	if resp.code != http.StatusCreated {
		t.Errorf("status = %d, want 201 despite the ledger failure", resp.code)
	}
}
