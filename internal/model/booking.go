package model

import "time"

// Booking status values.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
)

// Booking is a decoration booking request submitted from the BookNow page.
type Booking struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Service   string     `json:"service"`
	EventDate string     `json:"eventDate"`
	Budget    Flex       `json:"budget"`
	Message   string     `json:"message"`
	Status    string     `json:"status,omitempty"` // "pending" | "approved"
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (b Booking) RecordID() string { return b.ID }

// IsPending reports whether the booking can still be approved.
func (b Booking) IsPending() bool {
	return b.Status == "" || b.Status == BookingPending
}

// BookingReceipt is what the backend returns for a new booking.
type BookingReceipt struct {
	BookingID string `json:"bookingId"`
}

// BookingServices lists the occasions offered on the booking form.
var BookingServices = []string{"Wedding", "Birthday", "Corporate", "Engagement", "Baby Shower"}
