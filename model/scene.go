package model

import (
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// AssetRef is a retrievable reference to one band asset of a scene
type AssetRef struct {
	HREF string
	Type string
}

// Scene is a single candidate satellite observation: a footprint, a capture
// timestamp, a cloud cover percentage, and per-band asset references.
// Scenes are immutable once produced by a catalog gateway.
type Scene struct {
	ID           string
	Collection   string
	Geometry     interface{}
	CloudCover   float64
	AcquiredDate time.Time
	FileFormat   SceneFileFormat
	Assets       map[string]AssetRef
}

// Asset returns the asset reference for a band, if the scene carries it
func (s Scene) Asset(band string) (AssetRef, bool) {
	ref, ok := s.Assets[band]
	return ref, ok
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (s Scene) GeoJSONFeature() (*geojson.Feature, error) {
	bands := make(map[string]string, len(s.Assets))
	for band, ref := range s.Assets {
		bands[band] = ref.HREF
	}
	f := geojson.NewFeature(s.Geometry, s.ID, map[string]interface{}{
		"collection":   s.Collection,
		"cloudCover":   s.CloudCover,
		"acquiredDate": s.AcquiredDate.Format(StandardTimeLayout),
		"bands":        bands,
	})
	f.Bbox = f.ForceBbox()
	return f, nil
}
