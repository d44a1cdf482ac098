package memory_test

import (
	"testing"

	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	contract "github.com/aretw0/tristate/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Contract(t *testing.T) {
	data := map[string]domain.Outline{
		"library": sampleOutline(),
		"single":  {Label: "Only"},
	}

	loader := memory.NewLoader(data)

	contract.OutlineLoaderContractTest(t, loader, data)
}

func TestDecodeOutline(t *testing.T) {
	raw := map[string]any{
		"label": "Root",
		"children": []any{
			map[string]any{"label": "A", "id": "a"},
			map[string]any{"label": "B", "children": []any{
				map[string]any{"label": "B1"},
			}},
		},
	}

	o, err := memory.DecodeOutline(raw)
	require.NoError(t, err)
	assert.Equal(t, "Root", o.Label)
	require.Len(t, o.Children, 2)
	assert.Equal(t, "a", o.Children[0].ID)
	assert.Equal(t, "B1", o.Children[1].Children[0].Label)
	assert.Equal(t, 4, o.Count())
}

func TestDecodeOutline_RejectsUnknownKeys(t *testing.T) {
	_, err := memory.DecodeOutline(map[string]any{"label": "Root", "chilren": []any{}})
	assert.Error(t, err)

	_, err = memory.DecodeOutline(map[string]any{})
	assert.ErrorIs(t, err, domain.ErrEmptyOutline)
}

func TestDecodeOutline_Validates(t *testing.T) {
	o, err := memory.DecodeOutline(map[string]any{"id": "solo"})
	require.NoError(t, err)
	assert.Equal(t, 1, o.Count())

	_, err = memory.DecodeOutline(map[string]any{
		"id": "root",
		"children": []any{
			map[string]any{"id": "x", "label": "a"},
			map[string]any{"id": "x", "label": "b"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateNodeID)
}
