package model

import (
	"github.com/venicegeo/geojson-go/geojson"
)

// CoverageData is a mixin containing selection coverage accounting for a
// scene chosen by the coverage selector
type CoverageData struct {
	Gain  float64
	Total float64
}

// Apply implements the GeoJSONFeatureMixin interface
func (cd CoverageData) Apply(feature *geojson.Feature) error {
	feature.Properties["coverageGain"] = cd.Gain
	feature.Properties["coverageTotal"] = cd.Total
	return nil
}

// SelectedSceneResult is a scene chosen by the coverage selector, together
// with its coverage accounting
type SelectedSceneResult struct {
	Scene
	CoverageData
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (result SelectedSceneResult) GeoJSONFeature() (*geojson.Feature, error) {
	feature, err := result.Scene.GeoJSONFeature()
	if err != nil {
		return nil, err
	}

	if err = result.CoverageData.Apply(feature); err != nil {
		return nil, err
	}

	return feature, nil
}

// MultiSceneResult is a container type for bundling multiple results
// together, e.g. as results from a search endpoint
type MultiSceneResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (result MultiSceneResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	var err error
	features := make([]*geojson.Feature, len(result.FeatureCreators))
	for i, creator := range result.FeatureCreators {
		features[i], err = creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
	}

	return geojson.NewFeatureCollection(features), nil
}
