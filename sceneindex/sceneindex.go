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

package sceneindex

import (
	"database/sql"
	"time"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/geometry"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/sceneindex/db"
)

// IndexedBands are the band assets rebuilt from an indexed scene's asset
// root. The index stores one URL per scene; bands live next to it.
var IndexedBands = []string{"B02", "B03", "B04", "B08"}

// SearchScenes implements the catalog.Gateway interface against the
// local index.
func (c *Context) SearchScenes(input catalog.SearchInput) ([]model.Scene, error) {
	footprint, err := geometry.FromGeoJSON(input.Intersects)
	if err != nil {
		return nil, err
	}
	minX, minY, maxX, maxY := geometry.Bounds(footprint)
	bbox := geojson.BoundingBox{minX, minY, maxX, maxY}

	maxCloudCover := input.MaxCloudCover
	if maxCloudCover == 0 {
		maxCloudCover = 100
	}
	minAcquiredDate := input.MinAcquiredDate
	if minAcquiredDate.IsZero() {
		minAcquiredDate = time.Unix(0, 0)
	}
	maxAcquiredDate := input.MaxAcquiredDate
	if maxAcquiredDate.IsZero() {
		maxAcquiredDate = time.Now().UTC()
	}

	tx, err := c.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Commit()

	records, err := db.SearchScenes(tx, bbox, input.Collection, maxCloudCover, minAcquiredDate, maxAcquiredDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	scenes := make([]model.Scene, len(records))
	for i, record := range records {
		scenes[i] = sceneFromIndexed(record)
	}
	return scenes, nil
}

// GetSceneByID returns a single indexed scene, or sql.ErrNoRows.
func (c *Context) GetSceneByID(productID string) (model.Scene, error) {
	tx, err := c.DB.Begin()
	if err != nil {
		return model.Scene{}, err
	}
	defer tx.Commit()

	record, err := db.GetSceneByID(tx, productID)
	if err != nil {
		if err != sql.ErrNoRows {
			tx.Rollback()
		}
		return model.Scene{}, err
	}
	return sceneFromIndexed(*record), nil
}

func sceneFromIndexed(record db.IndexedScene) model.Scene {
	assets := make(map[string]model.AssetRef, len(IndexedBands))
	for _, band := range IndexedBands {
		assets[band] = model.AssetRef{
			HREF: record.SceneURLString + band + ".tif",
			Type: "image/tiff; application=geotiff",
		}
	}
	return model.Scene{
		ID:           record.ProductID,
		Collection:   record.Collection,
		Geometry:     record.Bounds,
		CloudCover:   record.CloudCover,
		AcquiredDate: record.AcquisitionDate,
		FileFormat:   model.GeoTIFF,
		Assets:       assets,
	}
}
