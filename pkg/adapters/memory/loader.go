package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/tristate/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Loader implements ports.OutlineLoader using an in-memory map.
type Loader struct {
	outlines map[string]domain.Outline
}

// NewLoader creates a new Loader with the provided outlines keyed by ID.
func NewLoader(data map[string]domain.Outline) *Loader {
	outlines := make(map[string]domain.Outline, len(data))
	for k, v := range data {
		outlines[k] = v
	}
	return &Loader{outlines: outlines}
}

// Load retrieves an outline by ID.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Outline, error) {
	o, ok := l.outlines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutlineNotFound, id)
	}
	return &o, nil
}

// List returns all available outline IDs.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.outlines))
	for k := range l.outlines {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

// DecodeOutline converts a generic map (decoded JSON, MCP arguments, YAML) into an Outline.
// Unknown keys are rejected so typos in payloads surface as errors.
func DecodeOutline(raw map[string]any) (*domain.Outline, error) {
	var o domain.Outline
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &o,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build outline decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}
	if err := Validate(o); err != nil {
		return nil, err
	}
	return &o, nil
}
