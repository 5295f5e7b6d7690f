package sceneindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/sceneindex/db"
)

func TestSceneFromIndexed(t *testing.T) {
	record := db.IndexedScene{
		ProductID:       "S2A_TEST",
		Collection:      model.DefaultCollection,
		AcquisitionDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
		CloudCover:      4,
		SceneURLString:  "https://data.localdomain/scenes/S2A_TEST/",
		Bounds: geojson.NewPolygon([][][]float64{[][]float64{
			[]float64{0, 0}, []float64{1, 0}, []float64{1, 1}, []float64{0, 1}, []float64{0, 0},
		}}),
	}

	scene := sceneFromIndexed(record)

	assert.Equal(t, "S2A_TEST", scene.ID)
	assert.Equal(t, model.GeoTIFF, scene.FileFormat)
	assert.Equal(t, len(IndexedBands), len(scene.Assets))
	ref, ok := scene.Asset("B04")
	assert.True(t, ok)
	assert.Equal(t, "https://data.localdomain/scenes/S2A_TEST/B04.tif", ref.HREF)
	assert.NotNil(t, scene.Geometry)
}
