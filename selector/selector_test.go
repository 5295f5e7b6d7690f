package selector

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/geojson-go/geojson"
)

func rectangle(minX, minY, maxX, maxY float64) *geojson.Polygon {
	return geojson.NewPolygon([][][]float64{[][]float64{
		[]float64{minX, minY},
		[]float64{maxX, minY},
		[]float64{maxX, maxY},
		[]float64{minX, maxY},
		[]float64{minX, minY},
	}})
}

func testScene(id string, footprint *geojson.Polygon, cloudCover float64) model.Scene {
	return model.Scene{
		ID:           id,
		Collection:   model.DefaultCollection,
		Geometry:     footprint,
		CloudCover:   cloudCover,
		AcquiredDate: time.Unix(123, 0).UTC(),
	}
}

var testAOI = rectangle(0, 0, 100, 100)

func TestSelect_EmptySceneList(t *testing.T) {
	result, err := New().Select(testAOI, nil)

	assert.Nil(t, err)
	assert.Empty(t, result.Picks)
	assert.Zero(t, result.Coverage)
}

func TestSelect_FullCoverageBeatsLowerCloudPartial(t *testing.T) {
	// One scene contains the whole AOI at 3% clouds; a 1% cloud scene only
	// partially overlaps. The containing scene must win alone.
	containing := testScene("full", rectangle(-50, -50, 150, 150), 3)
	lowCloudPartial := testScene("partial", rectangle(50, 0, 200, 100), 1)

	result, err := New().Select(testAOI, []model.Scene{lowCloudPartial, containing})

	assert.Nil(t, err)
	assert.True(t, result.Complete)
	assert.Len(t, result.Picks, 1)
	assert.Equal(t, "full", result.Picks[0].Scene.ID)
	assert.Equal(t, 1.0, result.Coverage)
}

func TestSelect_FullCoverageLowestCloudWins(t *testing.T) {
	cloudy := testScene("cloudy", rectangle(-50, -50, 150, 150), 9)
	clear := testScene("clear", rectangle(-10, -10, 110, 110), 2)
	alsoClear := testScene("tied", rectangle(-10, -10, 110, 110), 2)

	result, err := New().Select(testAOI, []model.Scene{cloudy, clear, alsoClear})

	assert.Nil(t, err)
	assert.Len(t, result.Picks, 1)
	// Catalog order breaks the tie
	assert.Equal(t, "clear", result.Picks[0].Scene.ID)
}

func TestSelect_GreedyPartialCoverage(t *testing.T) {
	// Coverage fractions 40%, 35% and 4%; after union the cumulative
	// coverage reaches 40%, 72%, 74%. The third scene's 2% marginal gain
	// is below the 5% threshold and must be rejected.
	s1 := testScene("s1", rectangle(0, 0, 40, 100), 5)
	s2 := testScene("s2", rectangle(37, 0, 72, 100), 5)
	s3 := testScene("s3", rectangle(70, 0, 74, 100), 5)

	result, err := New().Select(testAOI, []model.Scene{s3, s1, s2})

	assert.Nil(t, err)
	assert.False(t, result.Complete)
	assert.Len(t, result.Picks, 2)
	assert.Equal(t, "s1", result.Picks[0].Scene.ID)
	assert.Equal(t, "s2", result.Picks[1].Scene.ID)
	assert.InDelta(t, 0.40, result.Picks[0].Gain, 1e-9)
	assert.InDelta(t, 0.32, result.Picks[1].Gain, 1e-9)
	assert.InDelta(t, 0.72, result.Coverage, 1e-9)
}

func TestSelect_CoverageIsMonotonic(t *testing.T) {
	scenes := []model.Scene{}
	for i := 0; i < 8; i++ {
		minX := float64(i * 12)
		scenes = append(scenes, testScene(fmt.Sprintf("s%d", i), rectangle(minX, 0, minX+20, 100), 5))
	}

	result, err := New().Select(testAOI, scenes)

	assert.Nil(t, err)
	previous := 0.0
	for _, pick := range result.Picks {
		assert.True(t, pick.Total >= previous, "coverage decreased from %f to %f", previous, pick.Total)
		assert.True(t, pick.Gain > MinMarginalGain)
		previous = pick.Total
	}
	assert.Equal(t, previous, result.Coverage)
}

func TestSelect_StopsPastCoverageTarget(t *testing.T) {
	// The first two scenes together already cover 100% of the AOI; later
	// candidates must not be considered even with large footprints.
	s1 := testScene("s1", rectangle(0, 0, 60, 100), 5)
	s2 := testScene("s2", rectangle(50, 0, 100, 100), 5)
	s3 := testScene("s3", rectangle(20, 0, 80, 100), 5)

	result, err := New().Select(testAOI, []model.Scene{s1, s2, s3})

	assert.Nil(t, err)
	assert.Len(t, result.Picks, 2)
	assert.True(t, result.Coverage > CoverageTarget)
}

func TestSelect_NoIntersection(t *testing.T) {
	far := testScene("far", rectangle(1000, 1000, 1100, 1100), 5)

	result, err := New().Select(testAOI, []model.Scene{far})

	assert.Nil(t, err)
	assert.Empty(t, result.Picks)
}

func TestSelect_ScenesAccessor(t *testing.T) {
	s1 := testScene("s1", rectangle(0, 0, 60, 100), 5)
	s2 := testScene("s2", rectangle(50, 0, 100, 100), 5)

	result, err := New().Select(testAOI, []model.Scene{s1, s2})

	assert.Nil(t, err)
	assert.Equal(t, []string{"s1", "s2"}, []string{result.Scenes()[0].ID, result.Scenes()[1].ID})
}
