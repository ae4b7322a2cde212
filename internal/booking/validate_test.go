package booking

import (
	"testing"

	"github.com/labcare/booking-gateway/internal/model"
)

// completeDraft returns a draft that satisfies every step predicate.
func completeDraft() model.BookingDraft {
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

func oneCartItem() []model.CartItem {
	return []model.CartItem{{ID: 12, Name: "CBC", Price: 500, Type: model.ItemTypeTest}}
}

func TestStep1Valid_Complete(t *testing.T) {
	if !Step1Valid(completeDraft()) {
		t.Error("expected complete details step to be valid")
	}
}

func TestStep1Valid_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.BookingDraft)
	}{
		{"empty name", func(d *model.BookingDraft) { d.Name = "" }},
		{"empty age", func(d *model.BookingDraft) { d.Age = "" }},
		{"unset gender", func(d *model.BookingDraft) { d.Gender = model.GenderUnset }},
		{"empty mobile", func(d *model.BookingDraft) { d.Mobile = "" }},
		{"empty address", func(d *model.BookingDraft) { d.Address = "" }},
		{"no location", func(d *model.BookingDraft) { d.Location = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := completeDraft()
			tc.mutate(&d)
			if Step1Valid(d) {
				t.Errorf("expected %s to fail step 1 validation", tc.name)
			}
		})
	}
}

func TestStep2Valid_Complete(t *testing.T) {
	if !Step2Valid(completeDraft()) {
		t.Error("expected complete schedule step to be valid")
	}
}

func TestStep2Valid_MissingDateOrSlot(t *testing.T) {
	d := completeDraft()
	d.Date = ""
	if Step2Valid(d) {
		t.Error("expected missing date to fail step 2 validation")
	}
	d = completeDraft()
	d.TimeSlot = ""
	if Step2Valid(d) {
		t.Error("expected missing time slot to fail step 2 validation")
	}
}

func TestStep2Valid_PrescriptionDeclaredButMissing(t *testing.T) {
	d := completeDraft()
	d.HasPrescription = true
	if Step2Valid(d) {
		t.Error("expected declared-but-missing prescription to fail step 2 validation")
	}
	d.PrescriptionFile = &model.PrescriptionFile{URI: "uploads/rx.pdf", Name: "rx.pdf", MimeType: "application/pdf"}
	if !Step2Valid(d) {
		t.Error("expected attached prescription to pass step 2 validation")
	}
}

func TestStep2Valid_PRCDoctor(t *testing.T) {
	d := completeDraft()
	d.PRCDoctor = "Dr. Nobody"
	if Step2Valid(d) {
		t.Error("expected unknown doctor to fail step 2 validation")
	}
	d.PRCDoctor = model.PRCDoctors[1]
	if !Step2Valid(d) {
		t.Error("expected recognized doctor to pass step 2 validation")
	}
	d.PRCDoctor = ""
	if !Step2Valid(d) {
		t.Error("expected no consultation request to pass step 2 validation")
	}
}

func TestStep3Valid(t *testing.T) {
	d := completeDraft()
	if !Step3Valid(d, oneCartItem()) {
		t.Error("expected complete draft with cart item to be submittable")
	}
	if Step3Valid(d, nil) {
		t.Error("expected empty cart to block submission")
	}
	d.Date = ""
	if Step3Valid(d, oneCartItem()) {
		t.Error("expected missing date to block submission")
	}
}

func TestRecognizedDoctor(t *testing.T) {
	for _, doc := range model.PRCDoctors {
		if !RecognizedDoctor(doc) {
			t.Errorf("expected %q to be recognized", doc)
		}
	}
	if RecognizedDoctor("Dr. Strange") {
		t.Error("expected unknown doctor to be rejected")
	}
}

func TestRecognizedTimeSlot(t *testing.T) {
	for _, slot := range model.TimeSlots {
		if !RecognizedTimeSlot(slot) {
			t.Errorf("expected %q to be recognized", slot)
		}
	}
	if RecognizedTimeSlot("16:00 - 17:00") {
		t.Error("expected unknown slot to be rejected")
	}
}
