package domain

import (
	"fmt"
	"strings"
)

// Style selects how a parent's own checked flag reacts to its children.
type Style int

const (
	// StyleStandard never touches a parent's checked flag during upward propagation.
	// A uniformly checked parent that was not itself checked resolves to Mixed.
	StyleStandard Style = iota
	// StyleInstaller forces the parent's checked flag to match child uniformity
	// before resolving its state.
	StyleInstaller
)

func (s Style) String() string {
	switch s {
	case StyleStandard:
		return "standard"
	case StyleInstaller:
		return "installer"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle converts "standard" or "installer" (case-insensitive) into a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return StyleStandard, nil
	case "installer":
		return StyleInstaller, nil
	default:
		return StyleStandard, fmt.Errorf("%w: %q", ErrInvalidStyle, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if s != StyleStandard && s != StyleInstaller {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStyle, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
