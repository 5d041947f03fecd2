// Package mode defines the runtime data-source mode of the loader.
package mode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by Parse for unrecognized input.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects where resources are read from.
type Mode int

const (
	// Production reads pre-exported JSON files from the static tree.
	Production Mode = iota
	// Development reads from the live local service.
	Development
)

// String returns the canonical lower-case name.
func (m Mode) String() string {
	switch m {
	case Development:
		return "development"
	case Production:
		return "production"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// IsDevelopment reports whether m points at the live service.
func (m Mode) IsDevelopment() bool { return m == Development }

// Parse accepts development/dev and production/prod (case-insensitive).
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return Development, nil
	case "production", "prod":
		return Production, nil
	default:
		return Production, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
