// Package booking contains the core of the booking wizard: the ordered step
// machine that sequences the flow and the pure predicates that gate forward
// navigation. Nothing in this package performs I/O; drafts come in, booleans
// come out. A failing predicate is never an error condition, it is only a
// disabled "Next" affordance for the caller to render.
package booking

import "github.com/labcare/booking-gateway/internal/model"

// Step1Valid reports whether the details step is complete: patient name,
// age, gender, mobile and address are all non-empty and a location pin has
// been captured.
func Step1Valid(d model.BookingDraft) bool {
	return d.Name != "" &&
		d.Age != "" &&
		d.Gender != model.GenderUnset &&
		d.Mobile != "" &&
		d.Address != "" &&
		d.Location != nil
}

// Step2Valid reports whether the schedule step is complete. A date and a
// time slot must be chosen; when a prescription was declared, the file must
// actually have been attached; and when a post-report consultation was
// requested, the doctor must be one of the recognized names.
func Step2Valid(d model.BookingDraft) bool {
	if d.Date == "" || d.TimeSlot == "" {
		return false
	}
	if d.HasPrescription && d.PrescriptionFile == nil {
		return false
	}
	if d.PRCDoctor != "" && !RecognizedDoctor(d.PRCDoctor) {
		return false
	}
	return true
}

// Step3Valid reports whether the booking may be submitted: the summary
// fields are present and the cart holds at least one item. The submission
// pipeline re-checks this as its precondition, so an empty cart can never
// reach the upstream.
func Step3Valid(d model.BookingDraft, cart []model.CartItem) bool {
	return d.Name != "" &&
		d.Date != "" &&
		d.TimeSlot != "" &&
		d.Address != "" &&
		len(cart) > 0
}

// RecognizedDoctor reports whether name is on the fixed post-report
// consultation list.
func RecognizedDoctor(name string) bool {
	for _, doc := range model.PRCDoctors {
		if doc == name {
			return true
		}
	}
	return false
}

// RecognizedTimeSlot reports whether slot is one of the fixed collection
// windows offered by the lab.
func RecognizedTimeSlot(slot string) bool {
	for _, s := range model.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
