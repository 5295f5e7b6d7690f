package db

import (
	"database/sql"
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

const getSceneQuery = `
	SELECT product_id, collection, acquisition_date, cloud_cover, scene_url, ST_AsGeoJSON(bounds)
	FROM public.scenes
	WHERE product_id=$1
	LIMIT 1`

const searchScenesQuery = `
	SELECT product_id, collection, acquisition_date, cloud_cover, scene_url, ST_AsGeoJSON(bounds)
	FROM public.scenes
	WHERE ST_Intersects(bounds, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		AND ($5 = '' OR collection = $5)
		AND cloud_cover <= $6
		AND acquisition_date BETWEEN $7 AND $8
	ORDER BY acquisition_date`

const upsertSceneStatement = `
	INSERT INTO public.scenes (product_id, collection, acquisition_date, cloud_cover, scene_url, bounds)
	VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_GeomFromGeoJSON($6), 4326))
	ON CONFLICT (product_id) DO UPDATE SET
		collection = EXCLUDED.collection,
		acquisition_date = EXCLUDED.acquisition_date,
		cloud_cover = EXCLUDED.cloud_cover,
		scene_url = EXCLUDED.scene_url,
		bounds = EXCLUDED.bounds`

// GetSceneByID returns the indexed scene with the given product ID, or
// sql.ErrNoRows.
func GetSceneByID(tx *sql.Tx, productID string) (*IndexedScene, error) {
	var boundsBytes []byte
	scene := IndexedScene{}

	rows, err := tx.Query(getSceneQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, sql.ErrNoRows
	}

	err = rows.Scan(&scene.ProductID, &scene.Collection, &scene.AcquisitionDate, &scene.CloudCover, &scene.SceneURLString, &boundsBytes)
	if err != nil {
		return nil, err
	}

	scene.Bounds, err = geojson.PolygonFromBytes(boundsBytes)
	if err != nil {
		return nil, err
	}

	return &scene, nil
}

// SearchScenes returns the indexed scenes intersecting the bounding box,
// within the acquisition interval and under the cloud cover ceiling.
func SearchScenes(tx *sql.Tx, bbox geojson.BoundingBox, collection string, maxCloudCover float64,
	minAcquiredDate time.Time, maxAcquiredDate time.Time) ([]IndexedScene, error) {
	rows, err := tx.Query(searchScenesQuery,
		bbox[0], bbox[1], bbox[2], bbox[3],
		collection, maxCloudCover, minAcquiredDate, maxAcquiredDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenes := []IndexedScene{}
	for rows.Next() {
		var boundsBytes []byte
		scene := IndexedScene{}
		if err = rows.Scan(&scene.ProductID, &scene.Collection, &scene.AcquisitionDate,
			&scene.CloudCover, &scene.SceneURLString, &boundsBytes); err != nil {
			return nil, err
		}
		if scene.Bounds, err = geojson.PolygonFromBytes(boundsBytes); err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, rows.Err()
}

// UpsertScene inserts or refreshes one indexed scene.
func UpsertScene(tx *sql.Tx, scene IndexedScene) error {
	_, err := tx.Exec(upsertSceneStatement,
		scene.ProductID, scene.Collection, scene.AcquisitionDate, scene.CloudCover,
		scene.SceneURLString, scene.Bounds.String(),
	)
	return err
}
