package model

import "strings"

// Service is a decoration package shown on the Services page.
type Service struct {
	ID              string `json:"_id,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Rating          Flex   `json:"rating"`
	Reviews         Flex   `json:"reviews"`
	Duration        string `json:"duration"`
	GuestCapacity   string `json:"guestCapacity"`
	PriceOriginal   Flex   `json:"priceOriginal"`
	PriceDiscounted Flex   `json:"priceDiscounted"`
}

func (s Service) RecordID() string { return s.ID }

// ShortID returns the last eight characters of the id, upper-cased, as
// shown on the admin service cards.
func (s Service) ShortID() string {
	id := s.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}
