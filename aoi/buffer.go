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

package aoi

import (
	"encoding/json"
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/geometry"
)

const (
	webMercatorEPSG = 3857
	wgs84EPSG       = 4326
	bufferSegments  = 30
)

// BufferGeometry expands a WGS84 GeoJSON geometry by a distance in
// meters. The buffer is applied in web mercator so the distance is
// metric, then the result is brought back to WGS84.
func BufferGeometry(geometryObject interface{}, distance float64) (interface{}, error) {
	encoded, err := json.Marshal(geometryObject)
	if err != nil {
		return nil, err
	}

	source, err := godal.NewGeometryFromGeoJSON(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("reading geometry: %v", err)
	}
	defer source.Close()

	webMercator, err := godal.NewSpatialRefFromEPSG(webMercatorEPSG)
	if err != nil {
		return nil, err
	}
	defer webMercator.Close()
	wgs84, err := godal.NewSpatialRefFromEPSG(wgs84EPSG)
	if err != nil {
		return nil, err
	}
	defer wgs84.Close()

	if err = source.Reproject(webMercator); err != nil {
		return nil, fmt.Errorf("projecting geometry to web mercator: %v", err)
	}
	buffered, err := source.Buffer(distance, bufferSegments)
	if err != nil {
		return nil, fmt.Errorf("buffering geometry by %gm: %v", distance, err)
	}
	defer buffered.Close()
	if err = buffered.Reproject(wgs84); err != nil {
		return nil, fmt.Errorf("projecting buffered geometry to WGS84: %v", err)
	}

	out, err := buffered.GeoJSON()
	if err != nil {
		return nil, err
	}
	return geojson.Parse([]byte(out))
}

// Reprojector converts clip geometries from WGS84 into a raster's
// spatial reference so clipping happens in the raster's own system.
type Reprojector interface {
	Reproject(geometries []geometry.Multi, toProjection string) ([]geometry.Multi, error)
}

// GDALReprojector implements Reprojector through GDAL spatial
// references.
type GDALReprojector struct{}

// Reproject implements the Reprojector interface. An empty target
// projection means the raster carries no reference and the geometries
// pass through unchanged.
func (GDALReprojector) Reproject(geometries []geometry.Multi, toProjection string) ([]geometry.Multi, error) {
	if toProjection == "" {
		return geometries, nil
	}

	target, err := godal.NewSpatialRefFromWKT(toProjection)
	if err != nil {
		return nil, fmt.Errorf("parsing raster projection: %v", err)
	}
	defer target.Close()

	projected := make([]geometry.Multi, 0, len(geometries))
	for i, multi := range geometries {
		encoded, err := json.Marshal(multi.Polygon())
		if err != nil {
			return nil, err
		}
		source, err := godal.NewGeometryFromGeoJSON(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("reading clip geometry %d: %v", i, err)
		}
		if err = source.Reproject(target); err != nil {
			source.Close()
			return nil, fmt.Errorf("reprojecting clip geometry %d: %v", i, err)
		}
		out, err := source.GeoJSON()
		source.Close()
		if err != nil {
			return nil, err
		}
		parsed, err := geojson.Parse([]byte(out))
		if err != nil {
			return nil, err
		}
		result, err := geometry.FromGeoJSON(parsed)
		if err != nil {
			return nil, err
		}
		projected = append(projected, result)
	}
	return projected, nil
}

// IdentityReprojector is a Reprojector that leaves geometries alone.
// Useful when rasters and geometries are known to share a system.
type IdentityReprojector struct{}

// Reproject implements the Reprojector interface.
func (IdentityReprojector) Reproject(geometries []geometry.Multi, toProjection string) ([]geometry.Multi, error) {
	return geometries, nil
}
