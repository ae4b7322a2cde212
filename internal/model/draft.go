package model

// This file defines the booking draft aggregate: the in-progress, not yet
// submitted record of a lab test/package booking. The draft is collected
// across the three wizard steps (Details, Schedule, Confirm) and is owned
// exclusively by the booking flow. It carries no validation of its own;
// per-step predicates live in the booking package and the draft store is
// intentionally dumb.

// Gender values accepted by the upstream lab API. The empty string means
// the field has not been chosen yet.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOthers = "Others"
	GenderUnset  = ""
)

// Payment modes selectable on the confirm step. PaymentPayLater is the
// default; the gateway only records the chosen mode, it never processes
// a payment itself.
const (
	PaymentPayLater     = "Pay Later"
	PaymentESewa        = "ESEWA"
	PaymentKhalti       = "KHALTI"
	PaymentBankTransfer = "BANK_TRANSFER"
)

// TimeSlots is the fixed set of collection appointment windows offered by
// the lab. A draft's TimeSlot must be one of these before the schedule
// step can be left.
var TimeSlots = []string{
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
}

// PRCDoctors is the fixed list of doctors available for a post-report
// consultation. A draft's PRCDoctor is either empty (no consultation
// requested) or one of these names.
var PRCDoctors = []string{
	"Dr. S. Yadav",
	"Dr. R. Jha",
	"Dr. A. Mishra",
}

// Location is a geographic pin for sample collection, either acquired from
// the client device or set manually on a map. No bounds or geocoding
// validation is performed on manual pins.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PrescriptionFile describes an uploaded prescription attachment. URI points
// at the stored copy on the gateway; Name and MimeType are the values the
// client declared when uploading.
type PrescriptionFile struct {
	URI      string `json:"uri"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// BookingDraft holds all fields collected across the wizard steps.
//
// Fields:
//  Name             – patient name; required, non-empty.
//  Age              – derived from date of birth when booking for self,
//                     otherwise free text; required.
//  Gender           – one of the Gender* constants; required before submission.
//  Mobile           – contact number; required.
//  Address          – free-text collection address; required.
//  Location         – geographic pin; required before leaving step 1.
//  Date             – ISO 8601 calendar date; required before leaving step 2.
//  TimeSlot         – one of TimeSlots; required before leaving step 2.
//  HasPrescription  – when true, PrescriptionFile becomes required.
//  PrescriptionFile – uploaded prescription, nil when none.
//  PRCDoctor        – empty, or one of PRCDoctors when a post-report
//                     consultation was requested.
//  PaymentMode      – one of the Payment* constants; defaults to Pay Later.
type BookingDraft struct {
	Name             string            `json:"name"`
	Age              string            `json:"age"`
	Gender           string            `json:"gender"`
	Mobile           string            `json:"mobile"`
	Address          string            `json:"address"`
	Location         *Location         `json:"location"`
	Date             string            `json:"date"`
	TimeSlot         string            `json:"timeSlot"`
	HasPrescription  bool              `json:"hasPrescription"`
	PrescriptionFile *PrescriptionFile `json:"prescriptionFile"`
	PRCDoctor        string            `json:"prcDoctor"`
	PaymentMode      string            `json:"paymentMode"`
}

// NewBookingDraft returns an empty draft with the payment mode defaulted.
func NewBookingDraft() BookingDraft {
	return BookingDraft{PaymentMode: PaymentPayLater}
}

// DraftPatch is a partial draft used by the patch operation. Nil fields are
// left untouched; non-nil fields overwrite the current value. Every wizard
// step writes into the draft through this one operation.
type DraftPatch struct {
	Name             *string           `json:"name,omitempty"`
	Age              *string           `json:"age,omitempty"`
	Gender           *string           `json:"gender,omitempty"`
	Mobile           *string           `json:"mobile,omitempty"`
	Address          *string           `json:"address,omitempty"`
	Location         *Location         `json:"location,omitempty"`
	Date             *string           `json:"date,omitempty"`
	TimeSlot         *string           `json:"timeSlot,omitempty"`
	HasPrescription  *bool             `json:"hasPrescription,omitempty"`
	PrescriptionFile *PrescriptionFile `json:"prescriptionFile,omitempty"`
	PRCDoctor        *string           `json:"prcDoctor,omitempty"`
	PaymentMode      *string           `json:"paymentMode,omitempty"`
}

// Apply shallow-merges the patch into the draft. There is deliberately no
// field validation here; the store stays dumb and the step predicates gate
// navigation instead.
func (d *BookingDraft) Apply(p DraftPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Age != nil {
		d.Age = *p.Age
	}
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	if p.Mobile != nil {
		d.Mobile = *p.Mobile
	}
	if p.Address != nil {
		d.Address = *p.Address
	}
	if p.Location != nil {
		loc := *p.Location
		d.Location = &loc
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.TimeSlot != nil {
		d.TimeSlot = *p.TimeSlot
	}
	if p.HasPrescription != nil {
		d.HasPrescription = *p.HasPrescription
	}
	if p.PrescriptionFile != nil {
		f := *p.PrescriptionFile
		d.PrescriptionFile = &f
	}
	if p.PRCDoctor != nil {
		d.PRCDoctor = *p.PRCDoctor
	}
	if p.PaymentMode != nil {
		d.PaymentMode = *p.PaymentMode
	}
}
