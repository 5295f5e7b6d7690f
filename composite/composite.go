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

// Package composite stacks scene bands into a single multi-band grid and
// crops the result to a set of clip geometries.
package composite

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/raster"
)

// MissingBandError reports a scene whose asset map does not carry a
// required band. Callers are expected to skip the scene and move on.
type MissingBandError struct {
	SceneID string
	Band    string
}

func (e MissingBandError) Error() string {
	return fmt.Sprintf("scene %s has no asset for band %s", e.SceneID, e.Band)
}

// Compose fetches the named bands of a scene through a raster source and
// stacks them, in the given order, under the first band's metadata. All
// bands must share the first band's grid dimensions.
func Compose(ctx context.Context, scene model.Scene, bands []string, source raster.Source) (raster.BandStack, error) {
	if len(bands) == 0 {
		return raster.BandStack{}, fmt.Errorf("no bands requested for scene %s", scene.ID)
	}

	hrefs := make([]string, len(bands))
	for i, band := range bands {
		ref, ok := scene.Asset(band)
		if !ok {
			return raster.BandStack{}, MissingBandError{SceneID: scene.ID, Band: band}
		}
		hrefs[i] = ref.HREF
	}

	metas := make([]raster.Metadata, len(bands))
	grids := make([][]float64, len(bands))

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range bands {
		i := i
		group.Go(func() error {
			meta, data, err := source.ReadBand(groupCtx, hrefs[i])
			if err != nil {
				return fmt.Errorf("band %s of scene %s: %v", bands[i], scene.ID, err)
			}
			metas[i] = meta
			grids[i] = data
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return raster.BandStack{}, err
	}

	for i := 1; i < len(metas); i++ {
		if !metas[0].SameShape(metas[i]) {
			return raster.BandStack{}, fmt.Errorf("scene %s: band %s is %dx%d, band %s is %dx%d",
				scene.ID, bands[0], metas[0].Width, metas[0].Height, bands[i], metas[i].Width, metas[i].Height)
		}
	}

	return raster.BandStack{Metadata: metas[0], Bands: grids}, nil
}
