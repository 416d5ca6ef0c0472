package model

import "time"

// Contact is an inquiry left through the contact form.
type Contact struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	EmailSent bool       `json:"emailSent"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (c Contact) RecordID() string { return c.ID }

// UnreadCount returns how many inquiries have not been marked as read.
func UnreadCount(contacts []Contact) int {
	n := 0
	for _, c := range contacts {
		if !c.Read {
			n++
		}
	}
	return n
}
