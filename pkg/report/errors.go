package report

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownField is returned when a header field name is not recognised.
	ErrUnknownField = errors.New("report: unknown field")
	// ErrUnknownTopic is returned when a topic is not part of the catalog.
	ErrUnknownTopic = errors.New("report: unknown topic")
)

// ValidationError lists the header fields that must be filled before the
// documents can be generated.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	labels := make([]string, 0, len(e.Missing))
	for _, field := range e.Missing {
		labels = append(labels, field.Label())
	}
	return "report: missing required fields: " + strings.Join(labels, ", ")
}
