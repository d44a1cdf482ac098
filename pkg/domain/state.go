package domain

import (
	"fmt"
	"strings"
)

// State is the three-valued check state of a tree node.
// Uninitialized is a construction-time sentinel replaced by the first downward pass.
type State int8

const (
	Uninitialized State = -1
	Unchecked     State = 0
	Checked       State = 1
	Mixed         State = 2
)

var stateNames = map[State]string{
	Uninitialized: "uninitialized",
	Unchecked:     "unchecked",
	Checked:       "checked",
	Mixed:         "mixed",
}

// StateFor maps a node's boolean check flag to the state a direct toggle produces.
func StateFor(checked bool) State {
	if checked {
		return Checked
	}
	return Unchecked
}

// ParseState converts a state name (case-insensitive) or glyph index into a State.
func ParseState(s string) (State, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	for st, name := range stateNames {
		if clean == name || clean == fmt.Sprintf("%d", int8(st)) {
			return st, nil
		}
	}
	return Uninitialized, fmt.Errorf("%w: %q", ErrInvalidState, s)
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int8(s))
}

// IsValid reports whether s is one of the four declared states.
func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// GlyphIndex returns the display glyph index (0=unchecked, 1=checked, 2=mixed).
// It returns false for Uninitialized, which has no glyph.
func (s State) GlyphIndex() (int, bool) {
	switch s {
	case Unchecked, Checked, Mixed:
		return int(s), true
	default:
		return -1, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidState, int8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Tally is the partition of a parent's immediate children by state.
type Tally struct {
	Unchecked int `json:"unchecked"`
	Checked   int `json:"checked"`
	Mixed     int `json:"mixed"`
}
