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

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/airbusgeo/godal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-scene-composer/aoi"
	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/process"
	"github.com/venicegeo/bf-scene-composer/raster"
	"github.com/venicegeo/bf-scene-composer/selector"
	"github.com/venicegeo/bf-scene-composer/signing"
	"github.com/venicegeo/bf-scene-composer/stac"
	"github.com/venicegeo/bf-scene-composer/util"
)

var processFlags = []cli.Flag{
	cli.IntFlag{Name: "start-year", Usage: "first observation year (windows run July 1 through June 30)", Value: 2018},
	cli.StringFlag{Name: "aoi-file", Usage: "GeoJSON file with the AOI features", Value: "data/aoi.geojson"},
	cli.StringFlag{Name: "clip-file", Usage: "GeoJSON file with the clip geometries", Value: "data/clip.geojson"},
	cli.StringFlag{Name: "out", Usage: "output directory (overrides COMPOSITE_OUTPUT_DIR)"},
	cli.StringFlag{Name: "lines", Usage: "AOI feature indexes to process, as label=index pairs or bare indexes", Value: "0"},
	cli.StringFlag{Name: "collection", Usage: "catalog collection identifier", Value: model.DefaultCollection},
	cli.StringFlag{Name: "bands", Usage: "comma separated band identifiers, stacked in order", Value: "B04,B08"},
	cli.Float64Flag{Name: "cloud-cover", Usage: "maximum scene cloud cover percentage", Value: 10},
	cli.Float64Flag{Name: "buffer-distance", Usage: "clip geometry buffer distance in meters", Value: aoi.DefaultBufferDistance},
}

func processAction(c *cli.Context) error {
	logContext := &(util.BasicLogContext{})
	godal.RegisterAll()

	lines, err := parseLines(c.String("lines"))
	if err != nil {
		return util.LogSimpleErr(logContext, "Invalid --lines value.", err)
	}

	outputDir := c.String("out")
	if outputDir == "" {
		outputDir = util.GetCompositeOutputDir()
	}

	var signer catalog.AssetSigner = catalog.NoopSigner{}
	if signingURL := util.GetStacSigningURL(); signingURL != "" {
		signer = &signing.Context{SigningURL: signingURL}
	}

	processor := &process.Processor{
		Config: process.Config{
			StartYear:      c.Int("start-year"),
			Collection:     c.String("collection"),
			Bands:          strings.Split(c.String("bands"), ","),
			MaxCloudCover:  c.Float64("cloud-cover"),
			OutputDir:      outputDir,
			AOIFile:        c.String("aoi-file"),
			ClipFile:       c.String("clip-file"),
			BufferDistance: c.Float64("buffer-distance"),
			Lines:          lines,
		},
		Catalog:     &stac.Context{BaseStacURL: util.GetStacAPIURL()},
		Signer:      signer,
		Source:      raster.GDALSource{},
		Sink:        raster.GDALSink{},
		Reprojector: aoi.GDALReprojector{},
		Selector:    selector.New(),
	}

	util.LogInfo(logContext, fmt.Sprintf("Processing %d AOI(s) into %s", len(lines), outputDir))
	return processor.ProcessAll(context.Background())
}

// parseLines reads "Buffer1=0,Buffer2=1" or bare "0,1" into a
// label-to-index mapping.
func parseLines(value string) (map[string]int, error) {
	lines := map[string]int{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label := part
		indexStr := part
		if eq := strings.Index(part, "="); eq >= 0 {
			label = part[:eq]
			indexStr = part[eq+1:]
		}
		index, err := strconv.Atoi(indexStr)
		if err != nil {
			return nil, fmt.Errorf("%q is not an AOI index: %v", indexStr, err)
		}
		lines[label] = index
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no AOI indexes given")
	}
	return lines, nil
}
