package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates the UUIDv7 timestamp is too far in the future
	ErrFutureTimestamp = errors.New("UUID timestamp is too far in the future")
)

// MaxFutureMinutes is how far ahead of the server clock a client-minted
// record id may be stamped
const MaxFutureMinutes = 1

// NewID mints a time-ordered record id
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// ValidateUUIDv7 checks a client-supplied record id. Ids stamped in the past
// are fine, since entries are often logged after the fact.
func ValidateUUIDv7(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	sec, nsec := parsed.Time().UnixTime()
	timestamp := time.Unix(sec, nsec)

	maxAllowed := time.Now().Add(time.Duration(MaxFutureMinutes) * time.Minute)
	if timestamp.After(maxAllowed) {
		return fmt.Errorf("%w: %v is more than %d minute(s) ahead",
			ErrFutureTimestamp, timestamp.Format(time.RFC3339), MaxFutureMinutes)
	}

	return nil
}
