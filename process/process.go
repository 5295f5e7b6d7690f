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

// Package process runs the yearly compositing pipeline: for each area of
// interest it searches the scene catalog season by season, selects a
// minimal covering scene set, composites the requested bands and clips
// the result to the AOI's buffered geometries. Failures are recovered at
// the narrowest scope that contains them: a bad scene costs one output
// file, a failed search costs one observation window, and only setup
// failures abandon an AOI.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/venicegeo/bf-scene-composer/aoi"
	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/composite"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/raster"
	"github.com/venicegeo/bf-scene-composer/selector"
	"github.com/venicegeo/bf-scene-composer/util"
)

var timeNowFunc = time.Now

// Config is the immutable run configuration shared by every AOI.
type Config struct {
	StartYear      int
	Collection     string
	Bands          []string
	MaxCloudCover  float64
	OutputDir      string
	AOIFile        string
	ClipFile       string
	BufferDistance float64
	// Lines maps a display label to the AOI feature index to process.
	Lines map[string]int
}

// Processor wires the pipeline stages together. Every collaborator is an
// interface so runs can be driven against remote services or in-memory
// substitutes.
type Processor struct {
	Config      Config
	Catalog     catalog.Gateway
	Signer      catalog.AssetSigner
	Source      raster.Source
	Sink        raster.Sink
	Reprojector aoi.Reprojector
	Selector    selector.Selector
	// Buffer overrides the clip geometry buffering step; nil means the
	// GDAL-backed default.
	Buffer aoi.BufferFunc

	sessionOnce sync.Once
	sessionID   string
}

// AppName returns the application name
func (p *Processor) AppName() string {
	return "bf-scene-composer"
}

// SessionID returns a Session ID, creating one if needed. AOI runs share
// the Processor across goroutines, so creation is guarded.
func (p *Processor) SessionID() string {
	p.sessionOnce.Do(func() {
		p.sessionID, _ = util.PsuUUID()
	})
	return p.sessionID
}

// LogRootDir returns an empty string
func (p *Processor) LogRootDir() string {
	return ""
}

// ProcessAll runs every configured AOI. AOIs share nothing mutable, so
// they run in parallel; the first setup failure cancels the remaining
// runs and is returned.
func (p *Processor) ProcessAll(ctx context.Context) error {
	labels := make([]string, 0, len(p.Config.Lines))
	for label := range p.Config.Lines {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, label := range labels {
		index := p.Config.Lines[label]
		group.Go(func() error {
			return p.ProcessLine(groupCtx, index)
		})
	}
	return group.Wait()
}

// ProcessLine runs the full yearly pipeline for the AOI at one feature
// index. The returned error is always a setup failure; once the yearly
// loop starts, failures are logged and absorbed.
func (p *Processor) ProcessLine(ctx context.Context, index int) error {
	runLog, err := newProcessLog(p, p.Config.OutputDir, index)
	if err != nil {
		return util.LogSimpleErr(p, fmt.Sprintf("Failed to create run log for AOI index %d.", index), err)
	}
	defer runLog.Close()

	loader := aoi.Loader{
		AOIFile:        p.Config.AOIFile,
		ClipFile:       p.Config.ClipFile,
		BufferDistance: p.Config.BufferDistance,
		Buffer:         p.Buffer,
	}
	target, err := loader.Load(index)
	if err != nil {
		return runLog.Errorf("AOI setup failed for index %d: %v", index, err)
	}
	runLog.Printf("Processing AOI with ID: %s", target.LineID)

	lineDir := filepath.Join(p.Config.OutputDir, target.LineID)
	if err = os.MkdirAll(lineDir, 0755); err != nil {
		return runLog.Errorf("AOI setup failed for %s: %v", target.LineID, err)
	}

	currentYear := timeNowFunc().Year()
	for year := p.Config.StartYear; year <= currentYear; year++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		p.processWindow(ctx, runLog, target, lineDir, year)
	}

	runLog.Printf("Download and clipping process completed for %s.", target.LineID)
	return nil
}

// processWindow handles one seasonal observation window: July 1 of the
// given year through June 30 of the next.
func (p *Processor) processWindow(ctx context.Context, runLog *processLog, target aoi.AreaOfInterest, lineDir string, year int) {
	runLog.Printf("Searching images for %d", year)

	scenes, err := p.Catalog.SearchScenes(catalog.SearchInput{
		Intersects:      target.Geometry,
		MinAcquiredDate: time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
		MaxAcquiredDate: time.Date(year+1, time.June, 30, 23, 59, 59, 0, time.UTC),
		Collection:      p.Config.Collection,
		MaxCloudCover:   p.Config.MaxCloudCover,
	})
	if err != nil {
		runLog.Printf("Search failed for %s year %d, skipping window: %v", target.LineID, year, err)
		return
	}
	if len(scenes) == 0 {
		runLog.Printf("No images found for %d", year)
		return
	}
	runLog.Printf("Found %d candidate scenes for %d", len(scenes), year)

	selection, err := p.Selector.Select(target.Geometry, scenes)
	if err != nil {
		runLog.Printf("Scene selection failed for %s year %d, skipping window: %v", target.LineID, year, err)
		return
	}
	if len(selection.Picks) == 0 {
		runLog.Printf("No usable imagery for %d", year)
		return
	}
	runLog.Printf("Selected %d of %d scenes for %d, coverage %.1f%%",
		len(selection.Picks), len(scenes), year, selection.Coverage*100)
	for i, pick := range selection.Picks {
		runLog.Printf("  scene %d: %s (gain %.1f%%, cloud %.1f%%)",
			i+1, pick.Scene.ID, pick.Gain*100, pick.Scene.CloudCover)
	}

	for i, pick := range selection.Picks {
		if ctx.Err() != nil {
			return
		}
		p.processScene(ctx, runLog, target, lineDir, year, i, pick.Scene)
	}
}

// processScene signs, composites, clips and persists one selected scene.
// All failures are absorbed here so the remaining scenes still run.
func (p *Processor) processScene(ctx context.Context, runLog *processLog, target aoi.AreaOfInterest, lineDir string, year, index int, scene model.Scene) {
	signed, err := p.Signer.SignScene(scene)
	if err != nil {
		runLog.Printf("Skipping scene %d (%s) for %d: signing failed: %v", index+1, scene.ID, year, err)
		return
	}

	stack, err := composite.Compose(ctx, signed, p.Config.Bands, p.Source)
	if err != nil {
		var missing composite.MissingBandError
		if errors.As(err, &missing) {
			runLog.Printf("Skipping scene %d for %d: missing band %s", index+1, year, missing.Band)
			return
		}
		runLog.Printf("Skipping scene %d (%s) for %d: compositing failed: %v", index+1, scene.ID, year, err)
		return
	}

	// Write the merged scene composite to a scoped temp file; remove it
	// no matter how this scene ends. The removal is registered before the
	// write so a partially written file never outlives the scene.
	tempPath := filepath.Join(lineDir, fmt.Sprintf("composite_%d_img%d_tmp.tif", year, index+1))
	defer os.Remove(tempPath)
	if err = p.Sink.WriteStack(ctx, tempPath, stack); err != nil {
		runLog.Printf("Skipping scene %d (%s) for %d: writing composite failed: %v", index+1, scene.ID, year, err)
		return
	}

	clipGeometries, err := p.Reprojector.Reproject(target.ClipGeometries, stack.Projection)
	if err != nil {
		runLog.Printf("Skipping scene %d (%s) for %d: reprojecting clip geometries failed: %v", index+1, scene.ID, year, err)
		return
	}

	clipped, err := composite.Clip(stack, clipGeometries)
	if errors.Is(err, composite.ErrEmptyResult) {
		runLog.Printf("No data after clipping image %d for %d", index+1, year)
		return
	}
	if err != nil {
		runLog.Printf("Skipping scene %d (%s) for %d: clipping failed: %v", index+1, scene.ID, year, err)
		return
	}

	outName := fmt.Sprintf("composite_%d_%s_img%d.tif", year, scene.AcquiredDate.Format("2006-01-02"), index+1)
	outPath := filepath.Join(lineDir, outName)
	if err = p.Sink.WriteStack(ctx, outPath, clipped); err != nil {
		runLog.Printf("Skipping scene %d (%s) for %d: saving %s failed: %v", index+1, scene.ID, year, outName, err)
		return
	}
	runLog.Printf("Saved clipped image: %s", outName)
}
