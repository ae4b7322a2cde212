package booking

import (
	"testing"
)

func TestNext_AdvancesWhenValid(t *testing.T) {
	d := completeDraft()

	step, ok := Next(StepDetails, d)
	if !ok || step != StepSchedule {
		t.Fatalf("expected Details -> Schedule, got step=%v ok=%v", step, ok)
	}
	step, ok = Next(StepSchedule, d)
	if !ok || step != StepConfirm {
		t.Fatalf("expected Schedule -> Confirm, got step=%v ok=%v", step, ok)
	}
}

func TestNext_RefusesIncompleteStep(t *testing.T) {
	d := completeDraft()
	d.Location = nil

	step, ok := Next(StepDetails, d)
	if ok {
		t.Error("expected Next to refuse with incomplete details")
	}
	if step != StepDetails {
		t.Errorf("expected step to stay at Details, got %v", step)
	}

	d = completeDraft()
	d.TimeSlot = ""
	step, ok = Next(StepSchedule, d)
	if ok || step != StepSchedule {
		t.Errorf("expected Next to refuse with incomplete schedule, got step=%v ok=%v", step, ok)
	}
}

func TestNext_ClampsAtConfirm(t *testing.T) {
	step, ok := Next(StepConfirm, completeDraft())
	if ok {
		t.Error("expected no transition past the confirm step")
	}
	if step != StepConfirm {
		t.Errorf("expected step to stay at Confirm, got %v", step)
	}
}

func TestBack_AlwaysAllowedUntilFirstStep(t *testing.T) {
	step, ok := Back(StepConfirm)
	if !ok || step != StepSchedule {
		t.Fatalf("expected Confirm -> Schedule, got step=%v ok=%v", step, ok)
	}
	step, ok = Back(StepSchedule)
	if !ok || step != StepDetails {
		t.Fatalf("expected Schedule -> Details, got step=%v ok=%v", step, ok)
	}
	step, ok = Back(StepDetails)
	if ok || step != StepDetails {
		t.Errorf("expected Back to be a no-op at Details, got step=%v ok=%v", step, ok)
	}
}

func TestBack_NeverGated(t *testing.T) {
	// Back ignores draft completeness entirely; an empty draft can still
	// navigate backwards.
	if _, ok := Back(StepConfirm); !ok {
		t.Error("expected Back to succeed regardless of draft state")
	}
}

func TestStepString(t *testing.T) {
	labels := map[Step]string{
		StepDetails:  "Details",
		StepSchedule: "Schedule",
		StepConfirm:  "Confirm",
		Step(9):      "Unknown",
	}
	for step, want := range labels {
		if got := step.String(); got != want {
			t.Errorf("Step(%d).String() = %q, want %q", step, got, want)
		}
	}
}

func TestStepValid(t *testing.T) {
	for s := StepDetails; s <= StepConfirm; s++ {
		if !s.Valid() {
			t.Errorf("expected step %v to be valid", s)
		}
	}
	if Step(-1).Valid() || Step(3).Valid() {
		t.Error("expected out-of-range steps to be invalid")
	}
}
