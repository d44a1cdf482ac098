package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Extensions lists the outline file extensions the loader recognizes, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.OutlineLoader over plain YAML/JSON files.
// Root is either a single outline file or a directory searched recursively.
type Loader struct {
	root   string
	single bool
}

// New creates a Loader rooted at path.
func New(path string) (*Loader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open outline source: %w", err)
	}
	if !info.IsDir() && !isOutlineFile(abs) {
		return nil, fmt.Errorf("unsupported outline file %q (want one of %s)", path, strings.Join(Extensions, ", "))
	}
	return &Loader{root: abs, single: !info.IsDir()}, nil
}

// Load reads and parses the outline with the given ID.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Outline, error) {
	path, err := l.locate(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outline %s: %w", id, err)
	}
	o, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("outline %s: %w", id, err)
	}
	return o, nil
}

// List returns the IDs of every outline file: the path relative to the root,
// slash-separated, without extension.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	if l.single {
		return []string{idFor(filepath.Base(l.root))}, nil
	}

	seen := make(map[string]string)
	var ids []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isOutlineFile(path) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		id := idFor(rel)
		if existing, ok := seen[id]; ok {
			return fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, rel)
		}
		seen[id] = rel
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list outlines: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *Loader) locate(id string) (string, error) {
	if l.single {
		if id != idFor(filepath.Base(l.root)) {
			return "", fmt.Errorf("%w: %s", domain.ErrOutlineNotFound, id)
		}
		return l.root, nil
	}

	base := filepath.Join(l.root, filepath.FromSlash(id))
	if !strings.HasPrefix(base, l.root) {
		return "", fmt.Errorf("%w: %s", domain.ErrOutlineNotFound, id)
	}
	for _, ext := range Extensions {
		if info, err := os.Stat(base + ext); err == nil && !info.IsDir() {
			return base + ext, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrOutlineNotFound, id)
}

// Parse decodes an outline document. ext selects JSON (".json"); anything else is
// read as YAML.
func Parse(data []byte, ext string) (*domain.Outline, error) {
	var o domain.Outline
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("failed to parse json outline: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("failed to parse yaml outline: %w", err)
		}
	}
	if err := memory.Validate(o); err != nil {
		return nil, err
	}
	return &o, nil
}

func isOutlineFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func idFor(rel string) string {
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}
