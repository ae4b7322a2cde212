package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/model"
)

func testDraft() model.BookingDraft {
	d := model.NewBookingDraft()
	d.Name = "Anshu Sah"
	d.Age = "24"
	d.Gender = model.GenderMale
	d.Mobile = "9800000001"
	d.Address = "Janakpur-4, Dhanusha"
	d.Location = &model.Location{Latitude: 26.7288, Longitude: 85.9266}
	d.Date = "2026-09-15"
	d.TimeSlot = model.TimeSlots[0]
	return d
}

func testCart() []model.CartItem {
	return []model.CartItem{
		{ID: 12, Name: "CBC", Price: 500, Type: model.ItemTypeTest},
		{ID: 3, Name: "Full Body Checkup", Price: 4500, Type: model.ItemTypePackage},
	}
}

func testClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	c := NewClient(srvURL, zap.NewNop())
	c.OpenFile = func(uri string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("rx-bytes")), nil
	}
	return c
}

func TestSubmit_RefusesIncompleteSubmission(t *testing.T) {
	c := testClient(t, "http://unused.invalid")

	_, err := c.Submit(context.Background(), Submission{Draft: testDraft(), Cart: nil})
	if !errors.Is(err, ErrNotSubmittable) {
		t.Fatalf("expected ErrNotSubmittable for empty cart, got %v", err)
	}

	d := testDraft()
	d.Date = ""
	_, err = c.Submit(context.Background(), Submission{Draft: d, Cart: testCart()})
	if !errors.Is(err, ErrNotSubmittable) {
		t.Fatalf("expected ErrNotSubmittable for missing date, got %v", err)
	}
}

func TestSubmit_PostsMultipartPayload(t *testing.T) {
	var (
		gotPath   string
		gotAuth   string
		gotIdem   string
		gotFields map[string]string
		gotFile   []byte
		fileName  string
		fileMime  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		if fhs := r.MultipartForm.File["file"]; len(fhs) == 1 {
			fileName = fhs[0].Filename
			fileMime = fhs[0].Header.Get("Content-Type")
			f, _ := fhs[0].Open()
			gotFile, _ = io.ReadAll(f)
			f.Close()
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"bk_901","status":"CONFIRMED","paymentStatus":"UNPAID","message":"Booking created"}`)
	}))
	defer srv.Close()

	d := testDraft()
	d.HasPrescription = true
	d.PrescriptionFile = &model.PrescriptionFile{URI: "uploads/rx.pdf", Name: "rx.pdf", MimeType: "application/pdf"}
	d.PRCDoctor = model.PRCDoctors[0]

	c := testClient(t, srv.URL)
	conf, err := c.Submit(context.Background(), Submission{
		Draft:          d,
		Cart:           testCart(),
		AuthToken:      "tok-123",
		IdempotencyKey: "sess-abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/bookings" {
		t.Errorf("posted to %q, want /bookings", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotIdem != "sess-abc" {
		t.Errorf("X-Idempotency-Key = %q", gotIdem)
	}

	want := map[string]string{
		"name":                "Anshu Sah",
		"age":                 "24",
		"gender":              "Male",
		"mobile":              "9800000001",
		"address":             "Janakpur-4, Dhanusha",
		"latitude":            "26.7288",
		"longitude":           "85.9266",
		"date":                "2026-09-15",
		"timeSlot":            "12:00 - 13:00",
		"prcDoctor":           "Dr. S. Yadav",
		"paymentMode":         "Pay Later",
		"items[0][type]":      "test",
		"items[0][name]":      "CBC",
		"items[0][price]":     "500",
		"items[0][testId]":    "12",
		"items[1][type]":      "package",
		"items[1][name]":      "Full Body Checkup",
		"items[1][price]":     "4500",
		"items[1][packageId]": "3",
	}
	for k, v := range want {
		if gotFields[k] != v {
			t.Errorf("field %s = %q, want %q", k, gotFields[k], v)
		}
	}
	if _, ok := gotFields["items[0][packageId]"]; ok {
		t.Error("test item must not carry a packageId field")
	}
	if _, ok := gotFields["items[1][testId]"]; ok {
		t.Error("package item must not carry a testId field")
	}

	if fileName != "rx.pdf" || fileMime != "application/pdf" {
		t.Errorf("file part name=%q mime=%q", fileName, fileMime)
	}
	if !bytes.Equal(gotFile, []byte("rx-bytes")) {
		t.Errorf("file content = %q", gotFile)
	}

	if conf.ID != "bk_901" || conf.Status != "CONFIRMED" {
		t.Errorf("confirmation = %+v", conf)
	}
}

func TestSubmit_ZeroCoordinatesWhenLocationMissing(t *testing.T) {
	// Step 3 does not require the location, so the payload falls back to
	// "0"/"0" the way the confirm screen always has.
	var lat, lng string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		lat = r.FormValue("latitude")
		lng = r.FormValue("longitude")
		io.WriteString(w, `{"id":"bk_1"}`)
	}))
	defer srv.Close()

	d := testDraft()
	d.Location = nil
	if _, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: d, Cart: testCart()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != "0" || lng != "0" {
		t.Errorf("latitude=%q longitude=%q, want 0/0", lat, lng)
	}
}

func TestSubmit_NoFilePartWithoutPrescription(t *testing.T) {
	var hadFile bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		hadFile = len(r.MultipartForm.File["file"]) > 0
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	if _, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hadFile {
		t.Error("expected no file part when no prescription was attached")
	}
}

func TestSubmit_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"Slot no longer available"}`)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()})
	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if se.Kind != KindServerRejected || se.Status != http.StatusUnprocessableEntity {
		t.Errorf("kind=%q status=%d", se.Kind, se.Status)
	}
	if se.Message != "Slot no longer available" {
		t.Errorf("message = %q", se.Message)
	}
}

func TestSubmit_RejectionFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()})
	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if se.Message != "Booking failed" {
		t.Errorf("message = %q, want the fallback", se.Message)
	}
}

func TestSubmit_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	c.HTTP.Timeout = 20 * time.Millisecond

	_, err := c.Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()})
	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if se.Kind != KindTimeout {
		t.Errorf("kind = %q, want %q", se.Kind, KindTimeout)
	}
	if !IsTimeout(err) {
		t.Error("IsTimeout should report true")
	}
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()})
	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if se.Kind != KindNetworkFailure {
		t.Errorf("kind = %q, want %q", se.Kind, KindNetworkFailure)
	}
}

func TestSubmit_EmptyBodyOnSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	conf, err := testClient(t, srv.URL).Submit(context.Background(), Submission{Draft: testDraft(), Cart: testCart()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf == nil || conf.ID != "" {
		t.Errorf("expected empty confirmation, got %+v", conf)
	}
}
