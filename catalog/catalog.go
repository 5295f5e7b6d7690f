package catalog

import (
	"time"

	"github.com/venicegeo/bf-scene-composer/model"
)

// SearchInput is the filter set every catalog gateway must support:
// geometry intersection, datetime-range overlap, collection equality,
// and a cloud cover ceiling.
type SearchInput struct {
	Intersects      interface{} // a parsed GeoJSON geometry
	MinAcquiredDate time.Time
	MaxAcquiredDate time.Time
	Collection      string
	MaxCloudCover   float64 // percent; zero means no cloud filter
}

// Gateway produces scene records matching a search. Implementations wrap
// a remote catalog service or a local index; they are injected into
// consumers so tests can substitute an in-memory catalog.
type Gateway interface {
	SearchScenes(input SearchInput) ([]model.Scene, error)
}

// AssetSigner converts a scene's asset references into retrievable ones,
// e.g. by appending a shared-access token
type AssetSigner interface {
	SignScene(scene model.Scene) (model.Scene, error)
}

// NoopSigner is an AssetSigner for catalogs whose assets need no signing
type NoopSigner struct{}

// SignScene returns the scene unchanged
func (NoopSigner) SignScene(scene model.Scene) (model.Scene, error) {
	return scene, nil
}
