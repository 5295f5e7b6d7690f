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

package raster

import (
	"context"
	"fmt"
	"strings"

	"github.com/airbusgeo/godal"
)

// GDALSource reads band grids through GDAL. Remote HTTP assets are read
// through the /vsicurl/ virtual filesystem so only the requested blocks
// are fetched.
type GDALSource struct{}

// GDALSink writes band stacks as LZW-compressed GeoTIFF files.
type GDALSink struct{}

func gdalPath(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return "/vsicurl/" + href
	}
	return href
}

// ReadBand implements the Source interface, reading the first band of
// the referenced dataset in full.
func (GDALSource) ReadBand(ctx context.Context, href string) (Metadata, []float64, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, nil, err
	}

	dataset, err := godal.Open(gdalPath(href))
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("opening %s: %v", href, err)
	}
	defer dataset.Close()

	structure := dataset.Structure()
	if structure.NBands < 1 {
		return Metadata{}, nil, fmt.Errorf("%s contains no raster bands", href)
	}

	transform, err := dataset.GeoTransform()
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("reading geotransform of %s: %v", href, err)
	}

	meta := Metadata{
		Width:      structure.SizeX,
		Height:     structure.SizeY,
		Transform:  transform,
		Projection: dataset.Projection(),
	}

	band := dataset.Bands()[0]
	if nodata, ok := band.NoData(); ok {
		meta.NoData = nodata
	}

	data := make([]float64, meta.Width*meta.Height)
	if err = band.Read(0, 0, data, meta.Width, meta.Height); err != nil {
		return Metadata{}, nil, fmt.Errorf("reading band 1 of %s: %v", href, err)
	}
	return meta, data, nil
}

// WriteStack implements the Sink interface.
func (GDALSink) WriteStack(ctx context.Context, path string, stack BandStack) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(stack.Bands) == 0 {
		return fmt.Errorf("band stack for %s is empty", path)
	}
	for i, band := range stack.Bands {
		if len(band) != stack.Width*stack.Height {
			return fmt.Errorf("band %d of %s has %d samples, want %d", i+1, path, len(band), stack.Width*stack.Height)
		}
	}

	dataset, err := godal.Create(godal.GTiff, path, len(stack.Bands), godal.Float64,
		stack.Width, stack.Height, godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		return fmt.Errorf("creating %s: %v", path, err)
	}

	if err = dataset.SetGeoTransform(stack.Transform); err != nil {
		dataset.Close()
		return fmt.Errorf("setting geotransform of %s: %v", path, err)
	}
	if stack.Projection != "" {
		if err = dataset.SetProjection(stack.Projection); err != nil {
			dataset.Close()
			return fmt.Errorf("setting projection of %s: %v", path, err)
		}
	}

	for i, band := range dataset.Bands() {
		if err = band.SetNoData(stack.NoData); err != nil {
			dataset.Close()
			return fmt.Errorf("setting nodata of %s: %v", path, err)
		}
		if err = band.Write(0, 0, stack.Bands[i], stack.Width, stack.Height); err != nil {
			dataset.Close()
			return fmt.Errorf("writing band %d of %s: %v", i+1, path, err)
		}
	}
	return dataset.Close()
}
