package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationKind identifies which search parameter check failed.
type ValidationKind string

const (
	MissingParameter    ValidationKind = "missing_parameter"
	NotANumber          ValidationKind = "not_a_number"
	LatitudeOutOfRange  ValidationKind = "latitude_out_of_range"
	LongitudeOutOfRange ValidationKind = "longitude_out_of_range"
	NonPositiveRadius   ValidationKind = "non_positive_radius"
)

// ValidationError reports the first failed check on search parameters.
type ValidationError struct {
	Kind     ValidationKind
	Message  string
	Required []string
	Example  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FieldErrors maps request fields to a validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}
