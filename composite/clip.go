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

package composite

import (
	"errors"
	"math"

	"github.com/paulmach/orb"

	"github.com/venicegeo/bf-scene-composer/geometry"
	"github.com/venicegeo/bf-scene-composer/raster"
)

// ErrEmptyResult indicates that clipping left no usable pixels, either
// because the clip geometries fall outside the grid or because every
// pixel inside them is nodata.
var ErrEmptyResult = errors.New("clip produced no data")

// Clip crops a band stack to the minimal pixel window covering the clip
// geometries and masks pixels whose centers fall outside all of them
// with the stack's nodata value. The clip geometries must be in the
// stack's coordinate reference system.
func Clip(stack raster.BandStack, clipGeoms []geometry.Multi) (raster.BandStack, error) {
	if len(clipGeoms) == 0 {
		return raster.BandStack{}, ErrEmptyResult
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	orbGeoms := make([]orb.MultiPolygon, 0, len(clipGeoms))
	for _, geom := range clipGeoms {
		if geom.IsEmpty() {
			continue
		}
		gMinX, gMinY, gMaxX, gMaxY := geometry.Bounds(geom)
		minX, minY = math.Min(minX, gMinX), math.Min(minY, gMinY)
		maxX, maxY = math.Max(maxX, gMaxX), math.Max(maxY, gMaxY)
		orbGeoms = append(orbGeoms, geom.Orb())
	}
	if len(orbGeoms) == 0 {
		return raster.BandStack{}, ErrEmptyResult
	}

	window, err := stack.WindowFor(minX, minY, maxX, maxY)
	if err != nil {
		return raster.BandStack{}, err
	}
	if window.Empty() {
		return raster.BandStack{}, ErrEmptyResult
	}

	clipped := raster.BandStack{
		Metadata: stack.Shifted(window),
		Bands:    make([][]float64, len(stack.Bands)),
	}
	for i := range clipped.Bands {
		clipped.Bands[i] = make([]float64, window.Width*window.Height)
	}

	usable := false
	for row := 0; row < window.Height; row++ {
		for col := 0; col < window.Width; col++ {
			srcIdx := (window.Row+row)*stack.Width + window.Col + col
			dstIdx := row*window.Width + col
			if !insideAny(orbGeoms, stack.PixelCenter(window.Col+col, window.Row+row)) {
				for i := range clipped.Bands {
					clipped.Bands[i][dstIdx] = stack.NoData
				}
				continue
			}
			for i := range clipped.Bands {
				value := stack.Bands[i][srcIdx]
				clipped.Bands[i][dstIdx] = value
				if value != stack.NoData {
					usable = true
				}
			}
		}
	}
	if !usable {
		return raster.BandStack{}, ErrEmptyResult
	}
	return clipped, nil
}

func insideAny(geoms []orb.MultiPolygon, x, y float64) bool {
	for _, geom := range geoms {
		if geometry.ContainsPoint(geom, x, y) {
			return true
		}
	}
	return false
}
