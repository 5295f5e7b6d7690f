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

package geometry

import (
	"fmt"
	"math"

	"github.com/engelsjk/polygol"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/venicegeo/geojson-go/geojson"
)

// Multi is a multipolygon in GeoJSON coordinate layout:
// polygons, each a set of rings, each a list of [x, y] positions.
// Single polygons are represented as a one-element Multi.
type Multi [][][][]float64

// FromGeoJSON normalizes a parsed GeoJSON geometry into a Multi
func FromGeoJSON(geometry interface{}) (Multi, error) {
	switch g := geometry.(type) {
	case *geojson.Polygon:
		return Multi{g.Coordinates}, nil
	case geojson.Polygon:
		return Multi{g.Coordinates}, nil
	case *geojson.MultiPolygon:
		return Multi(g.Coordinates), nil
	case geojson.MultiPolygon:
		return Multi(g.Coordinates), nil
	case Multi:
		return g, nil
	case [][][]float64:
		return Multi{g}, nil
	case [][][][]float64:
		return Multi(g), nil
	}
	return nil, fmt.Errorf("unsupported geometry type %T", geometry)
}

// Polygon returns a geojson-go geometry for the Multi, collapsing a
// single-polygon Multi to a plain Polygon
func (m Multi) Polygon() interface{} {
	if len(m) == 1 {
		return geojson.NewPolygon(m[0])
	}
	return geojson.NewMultiPolygon(m)
}

// Orb converts the Multi to an orb multipolygon for planar measures
func (m Multi) Orb() orb.MultiPolygon {
	multi := make(orb.MultiPolygon, len(m))
	for i, polygon := range m {
		rings := make(orb.Polygon, len(polygon))
		for j, ring := range polygon {
			points := make(orb.Ring, len(ring))
			for k, position := range ring {
				points[k] = orb.Point{position[0], position[1]}
			}
			rings[j] = points
		}
		multi[i] = rings
	}
	return multi
}

// IsEmpty reports whether the Multi contains no polygons
func (m Multi) IsEmpty() bool {
	return len(m) == 0
}

// Area returns the planar area of the Multi in squared coordinate units
func Area(m Multi) float64 {
	return math.Abs(planar.Area(m.Orb()))
}

// Intersection returns the region common to both geometries
func Intersection(a, b Multi) (Multi, error) {
	result, err := polygol.Intersection(polygol.Geom(a), polygol.Geom(b))
	if err != nil {
		return nil, err
	}
	return Multi(result), nil
}

// Union returns the combined region of both geometries
func Union(a, b Multi) (Multi, error) {
	result, err := polygol.Union(polygol.Geom(a), polygol.Geom(b))
	if err != nil {
		return nil, err
	}
	return Multi(result), nil
}

// Contains reports whether outer fully contains inner: the part of inner
// outside outer must be negligible relative to inner itself
func Contains(outer, inner Multi) (bool, error) {
	innerArea := Area(inner)
	if innerArea == 0 {
		return false, nil
	}
	outside, err := polygol.Difference(polygol.Geom(inner), polygol.Geom(outer))
	if err != nil {
		return false, err
	}
	return Area(Multi(outside)) < innerArea*1e-9, nil
}

// ContainsPoint reports whether the point (x, y) falls inside the Multi
func ContainsPoint(m orb.MultiPolygon, x, y float64) bool {
	return planar.MultiPolygonContains(m, orb.Point{x, y})
}

// Bounds returns the axis-aligned bounding box of the Multi as
// (minX, minY, maxX, maxY)
func Bounds(m Multi) (minX, minY, maxX, maxY float64) {
	bound := m.Orb().Bound()
	return bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]
}
