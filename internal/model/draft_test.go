package model

import "testing"

func strp(s string) *string { return &s }

func TestNewBookingDraft_DefaultsPaymentMode(t *testing.T) {
	d := NewBookingDraft()
	if d.PaymentMode != PaymentPayLater {
		t.Errorf("expected default payment mode %q, got %q", PaymentPayLater, d.PaymentMode)
	}
}

func TestApply_OverwritesOnlyProvidedFields(t *testing.T) {
	d := NewBookingDraft()
	d.Name = "Anshu Sah"
	d.Mobile = "9800000001"

	d.Apply(DraftPatch{
		Address: strp("Janakpur-4, Dhanusha"),
		Date:    strp("2026-09-15"),
	})

	if d.Name != "Anshu Sah" || d.Mobile != "9800000001" {
		t.Error("expected untouched fields to survive the patch")
	}
	if d.Address != "Janakpur-4, Dhanusha" || d.Date != "2026-09-15" {
		t.Error("expected patched fields to be overwritten")
	}
}

func TestApply_EmptyStringOverwrites(t *testing.T) {
	// A present-but-empty field clears the value; only nil means "leave it".
	d := NewBookingDraft()
	d.TimeSlot = TimeSlots[0]
	d.Apply(DraftPatch{TimeSlot: strp("")})
	if d.TimeSlot != "" {
		t.Errorf("expected time slot to be cleared, got %q", d.TimeSlot)
	}
}

func TestApply_CopiesPointerValues(t *testing.T) {
	loc := Location{Latitude: 26.7288, Longitude: 85.9266}
	var d BookingDraft
	d.Apply(DraftPatch{Location: &loc})

	loc.Latitude = 0
	if d.Location.Latitude != 26.7288 {
		t.Error("expected the draft to hold its own copy of the location")
	}

	file := PrescriptionFile{URI: "uploads/rx.pdf", Name: "rx.pdf", MimeType: "application/pdf"}
	d.Apply(DraftPatch{PrescriptionFile: &file})
	file.Name = "other.pdf"
	if d.PrescriptionFile.Name != "rx.pdf" {
		t.Error("expected the draft to hold its own copy of the prescription file")
	}
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{ID: 1, Name: "CBC", Price: 500, Type: ItemTypeTest},
		{ID: 7, Name: "Full Body Checkup", Price: 4500, Type: ItemTypePackage},
	}
	if got := CartTotal(items); got != 5000 {
		t.Errorf("CartTotal = %v, want 5000", got)
	}
	if got := CartTotal(nil); got != 0 {
		t.Errorf("CartTotal(nil) = %v, want 0", got)
	}
}
