package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func square(minX, minY, size float64) Multi {
	return Multi{[][][]float64{[][]float64{
		[]float64{minX, minY},
		[]float64{minX + size, minY},
		[]float64{minX + size, minY + size},
		[]float64{minX, minY + size},
		[]float64{minX, minY},
	}}}
}

func TestFromGeoJSON_Polygon(t *testing.T) {
	polygon := geojson.NewPolygon(square(0, 0, 10)[0])

	multi, err := FromGeoJSON(polygon)

	assert.Nil(t, err)
	assert.Len(t, multi, 1)
	assert.Equal(t, 100.0, Area(multi))
}

func TestFromGeoJSON_Unsupported(t *testing.T) {
	_, err := FromGeoJSON("POLYGON((0 0))")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported geometry type")
}

func TestArea(t *testing.T) {
	assert.Equal(t, 100.0, Area(square(0, 0, 10)))
	assert.Equal(t, 0.0, Area(Multi{}))
}

func TestIntersection(t *testing.T) {
	a := square(0, 0, 10)
	b := square(5, 0, 10)

	inter, err := Intersection(a, b)

	assert.Nil(t, err)
	assert.InDelta(t, 50.0, Area(inter), 1e-9)
}

func TestIntersection_Disjoint(t *testing.T) {
	inter, err := Intersection(square(0, 0, 10), square(100, 100, 10))

	assert.Nil(t, err)
	assert.True(t, inter.IsEmpty() || Area(inter) == 0)
}

func TestUnion(t *testing.T) {
	union, err := Union(square(0, 0, 10), square(5, 0, 10))

	assert.Nil(t, err)
	assert.InDelta(t, 150.0, Area(union), 1e-9)
}

func TestContains(t *testing.T) {
	outer := square(0, 0, 10)
	inner := square(2, 2, 4)
	overlapping := square(5, 5, 10)

	contained, err := Contains(outer, inner)
	assert.Nil(t, err)
	assert.True(t, contained)

	contained, err = Contains(outer, overlapping)
	assert.Nil(t, err)
	assert.False(t, contained)

	contained, err = Contains(inner, outer)
	assert.Nil(t, err)
	assert.False(t, contained)
}

func TestContainsPoint(t *testing.T) {
	m := square(0, 0, 10).Orb()
	assert.True(t, ContainsPoint(m, 5, 5))
	assert.False(t, ContainsPoint(m, 15, 5))
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := Bounds(square(2, 3, 10))
	assert.Equal(t, 2.0, minX)
	assert.Equal(t, 3.0, minY)
	assert.Equal(t, 12.0, maxX)
	assert.Equal(t, 13.0, maxY)
}
