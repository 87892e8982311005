package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputKind is returned when an entity is built from something other than a mapping.
	ErrInvalidInputKind = errors.New("attributes must be a key/value mapping")
	// ErrInvalidAttributeName is returned when a scalar key is not a legal field identifier.
	ErrInvalidAttributeName = errors.New("invalid attribute name")
	// ErrMalformedScoreDirective is returned when a score key is valid but its value cannot be parsed.
	ErrMalformedScoreDirective = errors.New("malformed score directive")
	// ErrMissingID is returned when commands are requested for an entity without an id.
	ErrMissingID = errors.New("entity has no id")
)

// AttributeError reports the attribute that failed classification.
type AttributeError struct {
	Key string
	Err error
}

func (e *AttributeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("attribute %q: %v", e.Key, e.Err)
}

func (e *AttributeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func attributeError(key string, err error) error {
	return &AttributeError{Key: key, Err: err}
}
