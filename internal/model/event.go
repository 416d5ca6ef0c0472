package model

// Event is a gallery entry: a past decoration with a photo.
type Event struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	IsFeatured  bool   `json:"isFeatured"`
}

func (e Event) RecordID() string { return e.ID }

// PlaceholderImage is shown when an event has no image.
const PlaceholderImage = "https://via.placeholder.com/400x300/FAF9F6/1A1A1A?text=Event+Image"

// ImageUpload is an image file received from the admin form and relayed
// to the backend as the "image" multipart part.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EventInput is the multipart payload for creating or updating an event.
// Image may be nil on update, in which case the backend keeps the old one.
type EventInput struct {
	Name        string
	Description string
	Image       *ImageUpload
}
