package water

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the water feature level. Each level includes the ones below it.
type Mode int

const (
	ModeSimple     Mode = iota // no mirror passes
	ModeReflective             // reflection pass
	ModeRefractive             // reflection and refraction passes
)

// ErrUnknownMode is returned when parsing an unrecognised mode name.
var ErrUnknownMode = errors.New("unknown water mode")

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeReflective:
		return "reflective"
	case ModeRefractive:
		return "refractive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name. "none" is accepted as an alias for simple.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "none":
		return ModeSimple, nil
	case "reflective":
		return ModeReflective, nil
	case "refractive":
		return ModeRefractive, nil
	default:
		return ModeSimple, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < ModeSimple || m > ModeRefractive {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
