package raster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

var northUp = Metadata{
	Width:     100,
	Height:    100,
	Transform: [6]float64{500000, 10, 0, 4000000, 0, -10},
	NoData:    0,
}

func TestPixelOriginAndCenter(t *testing.T) {
	x, y := northUp.PixelOrigin(0, 0)
	assert.Equal(t, 500000.0, x)
	assert.Equal(t, 4000000.0, y)

	x, y = northUp.PixelCenter(2, 3)
	assert.Equal(t, 500025.0, x)
	assert.Equal(t, 3999965.0, y)
}

func TestWindowFor(t *testing.T) {
	window, err := northUp.WindowFor(500100, 3999500, 500300, 3999800)
	assert.Nil(t, err)
	assert.Equal(t, 10, window.Col)
	assert.Equal(t, 20, window.Row)
	assert.Equal(t, 21, window.Width)
	assert.Equal(t, 31, window.Height)
	assert.False(t, window.Empty())
}

func TestWindowFor_ClampsToGrid(t *testing.T) {
	window, err := northUp.WindowFor(499000, 3998000, 502000, 4001000)
	assert.Nil(t, err)
	assert.Equal(t, Window{Col: 0, Row: 0, Width: 100, Height: 100}, window)
}

func TestWindowFor_OutsideGrid(t *testing.T) {
	window, err := northUp.WindowFor(600000, 3999000, 601000, 3999500)
	assert.Nil(t, err)
	assert.True(t, window.Empty())
}

func TestWindowFor_RotatedTransform(t *testing.T) {
	rotated := northUp
	rotated.Transform[2] = 1
	_, err := rotated.WindowFor(500100, 3999500, 500300, 3999800)
	assert.NotNil(t, err)
}

func TestShifted(t *testing.T) {
	shifted := northUp.Shifted(Window{Col: 10, Row: 20, Width: 21, Height: 31})
	assert.Equal(t, 21, shifted.Width)
	assert.Equal(t, 31, shifted.Height)
	assert.Equal(t, 500100.0, shifted.Transform[0])
	assert.Equal(t, 3999800.0, shifted.Transform[3])
	// Pixel size is unchanged
	assert.Equal(t, northUp.Transform[1], shifted.Transform[1])
	assert.Equal(t, northUp.Transform[5], shifted.Transform[5])
}

func TestMemSourceAndSink(t *testing.T) {
	source := &MemSource{Grids: map[string]Grid{
		"mem://b04": Grid{Meta: Metadata{Width: 2, Height: 2}, Data: []float64{1, 2, 3, 4}},
	}}

	meta, data, err := source.ReadBand(context.Background(), "mem://b04")
	assert.Nil(t, err)
	assert.Equal(t, 2, meta.Width)
	assert.Equal(t, []float64{1, 2, 3, 4}, data)

	// Mutating the returned slice must not affect the source
	data[0] = 99
	_, again, _ := source.ReadBand(context.Background(), "mem://b04")
	assert.Equal(t, 1.0, again[0])

	_, _, err = source.ReadBand(context.Background(), "mem://missing")
	assert.NotNil(t, err)

	sink := &MemSink{}
	err = sink.WriteStack(context.Background(), "/tmp/out.tif", BandStack{Metadata: meta, Bands: [][]float64{again}})
	assert.Nil(t, err)
	assert.Contains(t, sink.Files, "/tmp/out.tif")
}
