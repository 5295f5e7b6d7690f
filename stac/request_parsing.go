package stac

import (
	"fmt"
	"strings"

	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

func scenesFromSearchResponse(context *Context, response *searchResponse) ([]model.Scene, error) {
	scenes := make([]model.Scene, 0, len(response.Features))
	for _, curr := range response.Features {
		scene, err := sceneFromItem(curr)
		if err != nil {
			// A malformed item should not sink the whole search
			util.LogAlert(context, fmt.Sprintf("Skipping malformed catalog item %v: %v", curr.ID, err))
			continue
		}
		scenes = append(scenes, *scene)
	}
	return scenes, nil
}

func sceneFromItem(curr item) (*model.Scene, error) {
	if len(curr.Geometry) == 0 {
		return nil, fmt.Errorf("item %s has no geometry", curr.ID)
	}
	parsedGeometry, err := geojson.Parse(curr.Geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geometry of item %s: %v", curr.ID, err)
	}

	acquiredDate, err := model.ParseSceneTime(curr.Properties.Datetime)
	if err != nil {
		return nil, err
	}

	// Items without the cloud cover extension sort to the back of any
	// cloud-ordered listing
	cloudCover := float64(100)
	if curr.Properties.CloudCover != nil {
		cloudCover = *curr.Properties.CloudCover
	}

	scene := model.Scene{
		ID:           curr.ID,
		Collection:   curr.Collection,
		Geometry:     parsedGeometry,
		CloudCover:   cloudCover,
		AcquiredDate: acquiredDate,
		FileFormat:   model.GeoTIFF,
		Assets:       make(map[string]model.AssetRef, len(curr.Assets)),
	}
	for name, a := range curr.Assets {
		scene.Assets[name] = model.AssetRef{HREF: a.HREF, Type: a.Type}
		if strings.Contains(a.Type, "jp2") {
			scene.FileFormat = model.JPEG2000
		}
	}
	return &scene, nil
}
