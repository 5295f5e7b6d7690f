package composite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/raster"
)

func gridMeta(width, height int) raster.Metadata {
	return raster.Metadata{
		Width:     width,
		Height:    height,
		Transform: [6]float64{0, 1, 0, float64(height), 0, -1},
		NoData:    0,
	}
}

func fill(n int, value float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = value
	}
	return data
}

func twoBandScene() (model.Scene, *raster.MemSource) {
	scene := model.Scene{
		ID: "scene-1",
		Assets: map[string]model.AssetRef{
			"B04": model.AssetRef{HREF: "mem://scene-1/B04"},
			"B08": model.AssetRef{HREF: "mem://scene-1/B08"},
		},
	}
	source := &raster.MemSource{Grids: map[string]raster.Grid{
		"mem://scene-1/B04": raster.Grid{Meta: gridMeta(4, 4), Data: fill(16, 4)},
		"mem://scene-1/B08": raster.Grid{Meta: gridMeta(4, 4), Data: fill(16, 8)},
	}}
	return scene, source
}

func TestCompose(t *testing.T) {
	scene, source := twoBandScene()

	stack, err := Compose(context.Background(), scene, []string{"B04", "B08"}, source)

	assert.Nil(t, err)
	assert.Equal(t, 2, len(stack.Bands))
	assert.Equal(t, 4, stack.Width)
	// Bands keep caller order
	assert.Equal(t, 4.0, stack.Bands[0][0])
	assert.Equal(t, 8.0, stack.Bands[1][0])
}

func TestCompose_MissingBand(t *testing.T) {
	scene, source := twoBandScene()

	_, err := Compose(context.Background(), scene, []string{"B04", "B02"}, source)

	var missing MissingBandError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "B02", missing.Band)
	assert.Equal(t, "scene-1", missing.SceneID)
}

func TestCompose_DimensionMismatch(t *testing.T) {
	scene, source := twoBandScene()
	source.Grids["mem://scene-1/B08"] = raster.Grid{Meta: gridMeta(3, 4), Data: fill(12, 8)}

	_, err := Compose(context.Background(), scene, []string{"B04", "B08"}, source)

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "B08")
}

func TestCompose_NoBands(t *testing.T) {
	scene, source := twoBandScene()

	_, err := Compose(context.Background(), scene, nil, source)

	assert.NotNil(t, err)
}

func TestCompose_SourceError(t *testing.T) {
	scene, _ := twoBandScene()
	source := &raster.MemSource{}

	_, err := Compose(context.Background(), scene, []string{"B04"}, source)

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "B04")
}
