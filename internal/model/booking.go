package model

import "time"

// Booking statuses recorded in the local history store. The upstream lab
// backend is the source of truth for a booking's lifecycle; the gateway
// records what it submitted and the status reported back at creation.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
)

// Booking is a confirmed booking as recorded in the `bookings` table after
// a successful submission. It mirrors the listing shape the clients render
// in their booking history.
//
// Fields:
//  ID            – local primary key.
//  UserID        – gateway user who submitted the booking.
//  UpstreamID    – identifier assigned by the lab backend, if reported.
//  Name          – patient name at submission time.
//  Date          – appointment date (YYYY-MM-DD).
//  TimeSlot      – collection window, e.g. "12:00 - 13:00".
//  Status        – BookingStatusPending or BookingStatusConfirmed.
//  PaymentMode   – payment mode selected on the confirm step.
//  PaymentStatus – payment state reported by the upstream, "UNPAID" default.
//  TotalAmount   – sum of item prices at submission time.
//  CreatedAt     – timestamp of local record creation.
//  Items         – the submitted cart items.
type Booking struct {
	ID            uint64        `json:"id"`
	UserID        uint64        `json:"-"`
	UpstreamID    string        `json:"upstreamId,omitempty"`
	Name          string        `json:"name"`
	Date          string        `json:"date"`
	TimeSlot      string        `json:"timeSlot"`
	Status        string        `json:"status"`
	PaymentMode   string        `json:"paymentMode"`
	PaymentStatus string        `json:"paymentStatus"`
	TotalAmount   float64       `json:"totalAmount"`
	CreatedAt     time.Time     `json:"createdAt"`
	Items         []BookingItem `json:"items"`
}

// BookingItem is one line of a recorded booking, stored in the
// `booking_items` table. Exactly one of TestID/PackageID is set,
// depending on Type.
type BookingItem struct {
	ID        uint64  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	TestID    *int    `json:"testId,omitempty"`
	PackageID *int    `json:"packageId,omitempty"`
}

// BookingConfirmation is the success payload returned by the upstream
// booking-creation endpoint. Only the fields the gateway acts on are
// decoded; anything else the upstream returns is ignored.
type BookingConfirmation struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Message       string `json:"message"`
}
