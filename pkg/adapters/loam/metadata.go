package loam

import (
	"github.com/aretw0/tristate/pkg/domain"
)

// OutlineMetadata is the document shape of an outline stored in a Loam repository.
// For markdown documents it is the frontmatter; JSON and YAML documents carry it whole.
// It uses "mapstructure" tags because Loam decodes document data through them.
type OutlineMetadata struct {
	ID       string           `json:"id" mapstructure:"id"`
	Label    string           `json:"label" mapstructure:"label"`
	Children []domain.Outline `json:"children" mapstructure:"children"`
}
