// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after the upstream lab backend accepts
// a booking submission. It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// gateway's history store.
type BookingConfirmedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	UpstreamID  string   `json:"upstream_id,omitempty"`
	UserID      uint64   `json:"user_id"`
	PatientName string   `json:"patient_name"`
	Date        string   `json:"date"`
	TimeSlot    string   `json:"time_slot"`
	PaymentMode string   `json:"payment_mode"`
	ItemNames   []string `json:"items"`
	TotalAmount float64  `json:"total_amount"`
	ConfirmedAt string   `json:"confirmed_at"`
}
