package service

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ErrNotConfirmed is returned by deletes that were not confirmed by the
// admin. No backend call is made.
var ErrNotConfirmed = errors.New("delete not confirmed")

// ValidationError is input rejected before any backend call. Message is
// safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// objectIDCheck accepts only 24-hex Mongo ObjectIDs.
func objectIDCheck(msg string) func(string) error {
	return func(id string) error {
		if !primitive.IsValidObjectID(id) {
			return invalid("id", msg)
		}
		return nil
	}
}

// pathIDCheck accepts any id that can be used as a single path segment.
func pathIDCheck(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id", "Missing record ID")
	}
	if strings.Contains(id, "/") {
		return invalid("id", "Invalid record ID")
	}
	return nil
}

// userMessage returns the text to show for err.
func userMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}
