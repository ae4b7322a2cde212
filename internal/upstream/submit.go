package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/booking"
	"github.com/labcare/booking-gateway/internal/model"
)

// Submission bundles everything the pipeline needs for one attempt: the
// completed draft, the cart contents, the caller's bearer token and the
// idempotency key (the wizard session ID) forwarded so the upstream can
// deduplicate a resubmission after a timeout.
type Submission struct {
	Draft          model.BookingDraft
	Cart           []model.CartItem
	AuthToken      string
	IdempotencyKey string
}

// Submitter is the submission pipeline's contract, split out so handler
// tests can run against a fake upstream.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*model.BookingConfirmation, error)
}

// Submit performs the all-or-nothing booking submission: precondition
// check, multipart assembly, a single POST, and classification of the
// outcome. Cart clearing and session teardown are the caller's job and
// must happen only on success.
func (c *Client) Submit(ctx context.Context, sub Submission) (*model.BookingConfirmation, error) {
	if !booking.Step3Valid(sub.Draft, sub.Cart) {
		return nil, ErrNotSubmittable
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := writeBookingForm(w, sub.Draft, sub.Cart, c.OpenFile); err != nil {
		return nil, fmt.Errorf("build booking form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize booking form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bookings", &body)
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if sub.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+sub.AuthToken)
	}
	if sub.IdempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", sub.IdempotencyKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		kind := KindNetworkFailure
		if errors.Is(err, context.DeadlineExceeded) || isTimeoutErr(err) {
			kind = KindTimeout
		}
		c.Log.Error("booking submission failed", zap.String("kind", kind), zap.Error(err))
		return nil, &SubmissionError{Kind: kind, Message: "booking submission failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := rejectionMessage(resp.Body)
		c.Log.Warn("booking rejected by upstream",
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, &SubmissionError{Kind: KindServerRejected, Status: resp.StatusCode, Message: msg}
	}

	var conf model.BookingConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		// A 2xx with an undecodable body still means the booking was created;
		// return an empty confirmation rather than failing the whole flow.
		c.Log.Warn("could not decode booking confirmation", zap.Error(err))
		conf = model.BookingConfirmation{}
	}
	return &conf, nil
}

// writeBookingForm appends every part of the booking payload to w: the
// optional prescription file, the scalar draft fields (stringified), and
// one indexed entry per cart item discriminated by type.
func writeBookingForm(w *multipart.Writer, d model.BookingDraft, cart []model.CartItem, open func(string) (io.ReadCloser, error)) error {
	if d.HasPrescription && d.PrescriptionFile != nil {
		if err := writePrescription(w, *d.PrescriptionFile, open); err != nil {
			return err
		}
	}

	var lat, lng string
	if d.Location != nil {
		lat = strconv.FormatFloat(d.Location.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(d.Location.Longitude, 'f', -1, 64)
	} else {
		lat, lng = "0", "0"
	}

	fields := []struct{ key, val string }{
		{"name", d.Name},
		{"age", d.Age},
		{"gender", d.Gender},
		{"mobile", d.Mobile},
		{"address", d.Address},
		{"latitude", lat},
		{"longitude", lng},
		{"date", d.Date},
		{"timeSlot", d.TimeSlot},
		{"prcDoctor", d.PRCDoctor},
		{"paymentMode", d.PaymentMode},
	}
	for _, f := range fields {
		if err := w.WriteField(f.key, f.val); err != nil {
			return err
		}
	}

	for i, item := range cart {
		prefix := fmt.Sprintf("items[%d]", i)
		if err := w.WriteField(prefix+"[type]", item.Type); err != nil {
			return err
		}
		if err := w.WriteField(prefix+"[name]", item.Name); err != nil {
			return err
		}
		if err := w.WriteField(prefix+"[price]", strconv.FormatFloat(item.Price, 'f', -1, 64)); err != nil {
			return err
		}
		switch item.Type {
		case model.ItemTypeTest:
			if err := w.WriteField(prefix+"[testId]", strconv.Itoa(item.ID)); err != nil {
				return err
			}
		case model.ItemTypePackage:
			if err := w.WriteField(prefix+"[packageId]", strconv.Itoa(item.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writePrescription streams the stored file into a "file" part carrying the
// declared filename and MIME type, falling back to octet-stream when the
// client never declared one.
func writePrescription(w *multipart.Writer, f model.PrescriptionFile, open func(string) (io.ReadCloser, error)) error {
	src, err := open(f.URI)
	if err != nil {
		return fmt.Errorf("open prescription %q: %w", f.URI, err)
	}
	defer src.Close()

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	hdr.Set("Content-Type", mimeType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy prescription content: %w", err)
	}
	return nil
}

// rejectionMessage extracts the human-readable message from an upstream
// error payload, or falls back to a generic one.
func rejectionMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "Booking failed"
}

// isTimeoutErr reports whether a transport error is a timeout, covering
// net.Error style timeouts wrapped by the http client.
func isTimeoutErr(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
