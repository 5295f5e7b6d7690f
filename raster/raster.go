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

// Package raster defines the in-memory representation of gridded scene
// data and the capability interfaces through which it is read and
// written. The GDAL-backed implementations live in this package as well,
// so everything above it can be tested against the in-memory ones.
package raster

import (
	"context"
	"fmt"
)

// Metadata describes the georeferencing of a band grid. Transform is the
// usual six-element affine geotransform: x = t[0] + col*t[1] + row*t[2],
// y = t[3] + col*t[4] + row*t[5].
type Metadata struct {
	Width      int
	Height     int
	Transform  [6]float64
	Projection string
	NoData     float64
}

// BandStack is a set of equally shaped band grids sharing one Metadata.
// Bands are stored band-major; each band is row-major of length
// Width*Height.
type BandStack struct {
	Metadata
	Bands [][]float64
}

// Source reads a single band grid from an asset reference.
type Source interface {
	ReadBand(ctx context.Context, href string) (Metadata, []float64, error)
}

// Sink persists a band stack to a named file.
type Sink interface {
	WriteStack(ctx context.Context, path string, stack BandStack) error
}

// Window is a rectangular pixel region of a grid.
type Window struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// PixelOrigin returns the geographic coordinate of the upper-left corner
// of pixel (col, row).
func (m Metadata) PixelOrigin(col, row int) (x, y float64) {
	x = m.Transform[0] + float64(col)*m.Transform[1] + float64(row)*m.Transform[2]
	y = m.Transform[3] + float64(col)*m.Transform[4] + float64(row)*m.Transform[5]
	return
}

// PixelCenter returns the geographic coordinate of the center of pixel
// (col, row).
func (m Metadata) PixelCenter(col, row int) (x, y float64) {
	x = m.Transform[0] + (float64(col)+0.5)*m.Transform[1] + (float64(row)+0.5)*m.Transform[2]
	y = m.Transform[3] + (float64(col)+0.5)*m.Transform[4] + (float64(row)+0.5)*m.Transform[5]
	return
}

// WindowFor returns the pixel window covering the geographic bounds
// [minX, maxX] x [minY, maxY], clamped to the grid. Only north-up grids
// (no rotation terms) are supported.
func (m Metadata) WindowFor(minX, minY, maxX, maxY float64) (Window, error) {
	if m.Transform[2] != 0 || m.Transform[4] != 0 {
		return Window{}, fmt.Errorf("rotated geotransform %v is not supported", m.Transform)
	}
	colMin := int((minX - m.Transform[0]) / m.Transform[1])
	colMax := int((maxX-m.Transform[0])/m.Transform[1]) + 1
	// Pixel height is negative for north-up grids, so maxY maps to the
	// smaller row index.
	rowMin := int((maxY - m.Transform[3]) / m.Transform[5])
	rowMax := int((minY-m.Transform[3])/m.Transform[5]) + 1
	if colMin < 0 {
		colMin = 0
	}
	if rowMin < 0 {
		rowMin = 0
	}
	if colMax > m.Width {
		colMax = m.Width
	}
	if rowMax > m.Height {
		rowMax = m.Height
	}
	return Window{Col: colMin, Row: rowMin, Width: colMax - colMin, Height: rowMax - rowMin}, nil
}

// Shifted returns a copy of the metadata resized to the window, with the
// transform origin moved to the window's upper-left pixel.
func (m Metadata) Shifted(w Window) Metadata {
	shifted := m
	shifted.Width = w.Width
	shifted.Height = w.Height
	shifted.Transform[0], shifted.Transform[3] = m.PixelOrigin(w.Col, w.Row)
	return shifted
}

// SameShape reports whether two metadata describe grids of identical
// dimensions.
func (m Metadata) SameShape(other Metadata) bool {
	return m.Width == other.Width && m.Height == other.Height
}
