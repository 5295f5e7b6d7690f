// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aoi loads areas of interest from GeoJSON vector files and
// prepares the buffered, attribute-filtered clip geometries each
// processing run needs.
package aoi

import (
	"fmt"
	"os"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/geometry"
)

const (
	// DefaultLineIDProperty is the attribute naming the power line an
	// AOI feature belongs to.
	DefaultLineIDProperty = "ID_Linea"
	// DefaultFilterProperty is the clip file attribute matched against
	// the line identifier.
	DefaultFilterProperty = "UBITEC"
	// DefaultBufferDistance is the clip geometry buffer in meters,
	// applied in a metric projection.
	DefaultBufferDistance = 100.0
)

// AreaOfInterest is one line's processing target: its footprint in
// EPSG:4326 plus the clip geometries the outputs are cropped to.
type AreaOfInterest struct {
	Index          int
	LineID         string
	Geometry       interface{}
	Footprint      geometry.Multi
	ClipGeometries []geometry.Multi
}

// BufferFunc expands a GeoJSON geometry by a metric distance.
type BufferFunc func(geometryObject interface{}, distance float64) (interface{}, error)

// Loader reads AOI features and clip geometries from GeoJSON files.
// Zero values for the property names and buffer distance fall back to
// the defaults above; a nil Buffer falls back to the GDAL-backed
// BufferGeometry.
type Loader struct {
	AOIFile        string
	ClipFile       string
	BufferDistance float64
	LineIDProperty string
	FilterProperty string
	Buffer         BufferFunc
}

var bufferGeometryFunc BufferFunc = BufferGeometry

// Load assembles the AreaOfInterest at the given feature index of the
// AOI file. Any failure here is a setup failure: the caller abandons
// the whole run for this AOI.
func (l Loader) Load(index int) (AreaOfInterest, error) {
	aoiFeatures, err := loadFeatureCollection(l.AOIFile)
	if err != nil {
		return AreaOfInterest{}, err
	}
	if index < 0 || index >= len(aoiFeatures.Features) {
		return AreaOfInterest{}, fmt.Errorf("%s has %d features, no index %d", l.AOIFile, len(aoiFeatures.Features), index)
	}

	feature := aoiFeatures.Features[index]
	footprint, err := geometry.FromGeoJSON(feature.Geometry)
	if err != nil {
		return AreaOfInterest{}, fmt.Errorf("feature %d of %s: %v", index, l.AOIFile, err)
	}

	lineIDProperty := l.LineIDProperty
	if lineIDProperty == "" {
		lineIDProperty = DefaultLineIDProperty
	}
	lineID, ok := nestedProperty(feature, lineIDProperty)
	if !ok || lineID == "" {
		return AreaOfInterest{}, fmt.Errorf("feature %d of %s carries no %s attribute", index, l.AOIFile, lineIDProperty)
	}

	clipGeometries, err := l.clipGeometriesFor(lineID)
	if err != nil {
		return AreaOfInterest{}, err
	}

	return AreaOfInterest{
		Index:          index,
		LineID:         lineID,
		Geometry:       feature.Geometry,
		Footprint:      footprint,
		ClipGeometries: clipGeometries,
	}, nil
}

// clipGeometriesFor buffers every clip feature whose filter attribute
// equals the line identifier. At least one of them must come out
// non-empty.
func (l Loader) clipGeometriesFor(lineID string) ([]geometry.Multi, error) {
	clipFeatures, err := loadFeatureCollection(l.ClipFile)
	if err != nil {
		return nil, err
	}

	filterProperty := l.FilterProperty
	if filterProperty == "" {
		filterProperty = DefaultFilterProperty
	}
	accessor, err := resolveAccessor(clipFeatures.Features, filterProperty)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", l.ClipFile, err)
	}

	distance := l.BufferDistance
	if distance == 0 {
		distance = DefaultBufferDistance
	}
	buffer := l.Buffer
	if buffer == nil {
		buffer = bufferGeometryFunc
	}

	var geometries []geometry.Multi
	for i, feature := range clipFeatures.Features {
		if value, ok := accessor(feature); !ok || value != lineID {
			continue
		}
		buffered, err := buffer(feature.Geometry, distance)
		if err != nil {
			return nil, fmt.Errorf("buffering clip feature %d for line %s: %v", i, lineID, err)
		}
		multi, err := geometry.FromGeoJSON(buffered)
		if err != nil {
			return nil, fmt.Errorf("clip feature %d for line %s: %v", i, lineID, err)
		}
		if !multi.IsEmpty() {
			geometries = append(geometries, multi)
		}
	}
	if len(geometries) == 0 {
		return nil, fmt.Errorf("no clip geometries in %s match %s=%s", l.ClipFile, filterProperty, lineID)
	}
	return geometries, nil
}

func loadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := geojson.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	collection, ok := parsed.(*geojson.FeatureCollection)
	if !ok {
		return nil, fmt.Errorf("%s does not contain a GeoJSON feature collection", path)
	}
	return collection, nil
}
