package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchScenesQueryShape(t *testing.T) {
	assert.Contains(t, searchScenesQuery, "ST_Intersects(bounds, ST_MakeEnvelope($1, $2, $3, $4, 4326))")
	assert.Contains(t, searchScenesQuery, "($5 = '' OR collection = $5)")
	assert.Contains(t, searchScenesQuery, "cloud_cover <= $6")
	assert.Contains(t, searchScenesQuery, "acquisition_date BETWEEN $7 AND $8")
	assert.Contains(t, searchScenesQuery, "ORDER BY acquisition_date")
	// Bounds come back as GeoJSON so the scanner can parse them directly
	assert.Contains(t, searchScenesQuery, "ST_AsGeoJSON(bounds)")
}

func TestUpsertSceneStatementShape(t *testing.T) {
	assert.Contains(t, upsertSceneStatement, "INSERT INTO public.scenes")
	assert.Contains(t, upsertSceneStatement, "ST_SetSRID(ST_GeomFromGeoJSON($6), 4326)")
	assert.Contains(t, upsertSceneStatement, "ON CONFLICT (product_id) DO UPDATE SET")
	// Every non-key column must refresh on conflict so re-ingesting a
	// window picks up corrected catalog records
	for _, column := range []string{"collection", "acquisition_date", "cloud_cover", "scene_url", "bounds"} {
		assert.Contains(t, upsertSceneStatement, column+" = EXCLUDED."+column)
	}
}

func TestGetSceneQueryShape(t *testing.T) {
	assert.Contains(t, getSceneQuery, "WHERE product_id=$1")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(getSceneQuery), "LIMIT 1"))
}
