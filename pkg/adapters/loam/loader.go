package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/tristate/pkg/adapters/memory"
	"github.com/aretw0/tristate/pkg/domain"
)

// Loader adapts a Loam document repository to ports.OutlineLoader.
type Loader struct {
	Repo *loam.TypedRepository[OutlineMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[OutlineMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Load returns the outline whose normalized ID matches id.
// Documents are matched on the ID they declare, falling back to their file name, with
// extensions stripped, so "library", "library.md" and "library.yaml" all resolve alike.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Outline, error) {
	want := trimExtension(id)

	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	for _, doc := range docs {
		if documentID(doc.ID, doc.Data) != want {
			continue
		}
		o := &domain.Outline{
			ID:       want,
			Label:    doc.Data.Label,
			Children: doc.Data.Children,
		}
		if o.Label == "" {
			o.Label = labelFromContent(doc.Content)
		}
		if err := memory.Validate(*o); err != nil {
			return nil, fmt.Errorf("outline %s: %w", want, err)
		}
		return o, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrOutlineNotFound, id)
}

// List lists all outlines in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		id := documentID(doc.ID, doc.Data)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func documentID(docID string, meta OutlineMetadata) string {
	if meta.ID != "" {
		return trimExtension(meta.ID)
	}
	return trimExtension(docID)
}

// labelFromContent uses the first non-empty body line of a markdown document,
// without heading markers, as the root label.
func labelFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
