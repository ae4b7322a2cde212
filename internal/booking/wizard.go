package booking

import "github.com/labcare/booking-gateway/internal/model"

// Step identifies one page of the three-stage wizard. Steps are a fixed,
// ordered sequence; transitions move strictly one step at a time.
type Step int

const (
	StepDetails  Step = 0 // personal details and location
	StepSchedule Step = 1 // date, time slot, prescription, consultation
	StepConfirm  Step = 2 // summary, payment mode, submission
)

// String returns the label clients render in the stepper header.
func (s Step) String() string {
	switch s {
	case StepDetails:
		return "Details"
	case StepSchedule:
		return "Schedule"
	case StepConfirm:
		return "Confirm"
	}
	return "Unknown"
}

// Valid reports whether s is within the wizard's fixed range.
func (s Step) Valid() bool { return s >= StepDetails && s <= StepConfirm }

// Next computes the step after current, gated by the validation predicate of
// the step being left. It returns the new step and whether the transition
// was taken. At the final step, or when the current step's required fields
// are incomplete, the step is returned unchanged with ok=false. A refused
// transition is not an error; it mirrors a disabled "Next" control.
func Next(current Step, d model.BookingDraft) (Step, bool) {
	if current >= StepConfirm {
		return current, false
	}
	switch current {
	case StepDetails:
		if !Step1Valid(d) {
			return current, false
		}
	case StepSchedule:
		if !Step2Valid(d) {
			return current, false
		}
	}
	return current + 1, true
}

// Back computes the step before current. Going back is unconditional; it is
// a no-op at the first step.
func Back(current Step) (Step, bool) {
	if current <= StepDetails {
		return current, false
	}
	return current - 1, true
}
