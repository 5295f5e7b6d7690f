package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/aoi"
	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/raster"
	"github.com/venicegeo/bf-scene-composer/selector"
)

const testAOIFile = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]},
		"properties": {"original_properties": {"ID_Linea": "L-7"}}
	}]
}`

const testClipFile = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[2,3],[6,3],[6,7],[2,7],[2,3]]]},
		"properties": {"UBITEC": "L-7"}
	}]
}`

type fakeCatalog struct {
	scenes   map[int][]model.Scene
	err      error
	searches []catalog.SearchInput
}

func (c *fakeCatalog) SearchScenes(input catalog.SearchInput) ([]model.Scene, error) {
	c.searches = append(c.searches, input)
	if c.err != nil {
		return nil, c.err
	}
	return c.scenes[input.MinAcquiredDate.Year()], nil
}

// sceneOverGrid returns a scene whose footprint contains the test AOI
// and whose bands resolve in the given source.
func sceneOverGrid(id string, acquired time.Time, source *raster.MemSource, values float64) model.Scene {
	meta := raster.Metadata{
		Width:     10,
		Height:    10,
		Transform: [6]float64{0, 1, 0, 10, 0, -1},
		NoData:    0,
	}
	data := make([]float64, 100)
	for i := range data {
		data[i] = values
	}
	scene := model.Scene{
		ID:           id,
		Collection:   model.DefaultCollection,
		CloudCover:   3,
		AcquiredDate: acquired,
		Assets: map[string]model.AssetRef{
			"B04": model.AssetRef{HREF: "mem://" + id + "/B04"},
			"B08": model.AssetRef{HREF: "mem://" + id + "/B08"},
		},
	}
	scene.Geometry = geojson.NewPolygon([][][]float64{{
		{-5, -5}, {15, -5}, {15, 15}, {-5, 15}, {-5, -5},
	}})
	source.Grids["mem://"+id+"/B04"] = raster.Grid{Meta: meta, Data: data}
	source.Grids["mem://"+id+"/B08"] = raster.Grid{Meta: meta, Data: data}
	return scene
}

func testProcessor(t *testing.T, cat *fakeCatalog, source *raster.MemSource) (*Processor, *raster.MemSink) {
	outputDir := t.TempDir()
	sink := &raster.MemSink{}
	return &Processor{
		Config: Config{
			StartYear:     2019,
			Collection:    model.DefaultCollection,
			Bands:         []string{"B04", "B08"},
			MaxCloudCover: 10,
			OutputDir:     outputDir,
			AOIFile:       writeTempFile(t, outputDir, "aoi.geojson", testAOIFile),
			ClipFile:      writeTempFile(t, outputDir, "clip.geojson", testClipFile),
			Lines:         map[string]int{"L-7": 0},
		},
		Catalog:     cat,
		Signer:      catalog.NoopSigner{},
		Source:      source,
		Sink:        sink,
		Reprojector: aoi.IdentityReprojector{},
		Selector:    selector.New(),
		Buffer:      func(g interface{}, d float64) (interface{}, error) { return g, nil },
	}, sink
}

func writeTempFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func runLogContents(t *testing.T, p *Processor, index int) string {
	raw, err := os.ReadFile(filepath.Join(p.Config.OutputDir, fmt.Sprintf("process_log%d.txt", index)))
	assert.Nil(t, err)
	return string(raw)
}

func withFixedNow(year int) func() {
	timeNowFunc = func() time.Time { return time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC) }
	return func() { timeNowFunc = time.Now }
}

// partialWriteSink creates the output file and then fails, the way a
// raster writer does when it runs out of disk partway through.
type partialWriteSink struct{}

func (s partialWriteSink) WriteStack(ctx context.Context, path string, stack raster.BandStack) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	file.Close()
	return errors.New("write interrupted")
}

func TestProcessAll(t *testing.T) {
	defer withFixedNow(2021)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	cat := &fakeCatalog{scenes: map[int][]model.Scene{
		2019: {sceneOverGrid("S2A_2019", time.Date(2019, 8, 15, 0, 0, 0, 0, time.UTC), source, 5)},
	}}
	p, sink := testProcessor(t, cat, source)

	err := p.ProcessAll(context.Background())

	assert.Nil(t, err)
	// Three seasonal windows attempted: 2019, 2020, 2021
	assert.Len(t, cat.searches, 3)
	assert.Equal(t, time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC), cat.searches[0].MinAcquiredDate)
	assert.Equal(t, time.Date(2020, time.June, 30, 23, 59, 59, 0, time.UTC), cat.searches[0].MaxAcquiredDate)
	assert.Equal(t, 10.0, cat.searches[0].MaxCloudCover)

	outPath := filepath.Join(p.Config.OutputDir, "L-7", "composite_2019_2019-08-15_img1.tif")
	assert.Contains(t, sink.Files, outPath)
	clipped := sink.Files[outPath]
	assert.Equal(t, 2, len(clipped.Bands))
	assert.Equal(t, 5, clipped.Width)
	assert.Equal(t, 2.0, clipped.Transform[0])

	log := runLogContents(t, p, 0)
	assert.Contains(t, log, "Processing AOI with ID: L-7")
	assert.Contains(t, log, "Saved clipped image: composite_2019_2019-08-15_img1.tif")
	assert.Contains(t, log, "No images found for 2020")
}

func TestProcessLine_SetupFailureAbortsAOI(t *testing.T) {
	defer withFixedNow(2021)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	cat := &fakeCatalog{}
	p, _ := testProcessor(t, cat, source)
	p.Config.AOIFile = "/nonexistent/aoi.geojson"

	err := p.ProcessLine(context.Background(), 0)

	assert.NotNil(t, err)
	// Setup failed, so no window was ever searched
	assert.Empty(t, cat.searches)
}

func TestProcessLine_SearchFailureSkipsWindow(t *testing.T) {
	defer withFixedNow(2020)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	cat := &fakeCatalog{err: errors.New("catalog unreachable")}
	p, sink := testProcessor(t, cat, source)

	err := p.ProcessLine(context.Background(), 0)

	assert.Nil(t, err)
	assert.Len(t, cat.searches, 2)
	assert.Empty(t, sink.Files)
	assert.Contains(t, runLogContents(t, p, 0), "skipping window")
}

func TestProcessLine_MissingBandSkipsScene(t *testing.T) {
	defer withFixedNow(2019)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	broken := sceneOverGrid("broken", time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), source, 5)
	delete(broken.Assets, "B08")
	cat := &fakeCatalog{scenes: map[int][]model.Scene{2019: {broken}}}
	p, sink := testProcessor(t, cat, source)

	err := p.ProcessLine(context.Background(), 0)

	assert.Nil(t, err)
	assert.Empty(t, sink.Files)
	assert.Contains(t, runLogContents(t, p, 0), "missing band B08")
}

func TestProcessLine_EmptyClipWritesNoFile(t *testing.T) {
	defer withFixedNow(2019)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	// Every pixel inside the clip geometry is nodata
	scene := sceneOverGrid("allnodata", time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), source, 0)
	cat := &fakeCatalog{scenes: map[int][]model.Scene{2019: {scene}}}
	p, sink := testProcessor(t, cat, source)

	err := p.ProcessLine(context.Background(), 0)

	assert.Nil(t, err)
	for path := range sink.Files {
		assert.NotContains(t, path, "composite_2019_2019-09-01")
	}
	assert.Contains(t, runLogContents(t, p, 0), "No data after clipping image 1 for 2019")
}

func TestProcessLine_TempCompositeRemovedOnWriteFailure(t *testing.T) {
	defer withFixedNow(2019)()
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	scene := sceneOverGrid("S2A_2019", time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), source, 5)
	cat := &fakeCatalog{scenes: map[int][]model.Scene{2019: {scene}}}
	p, _ := testProcessor(t, cat, source)
	p.Sink = partialWriteSink{}

	err := p.ProcessLine(context.Background(), 0)

	assert.Nil(t, err)
	assert.Contains(t, runLogContents(t, p, 0), "writing composite failed")
	// The partially written temp composite must not survive the scene
	entries, readErr := os.ReadDir(filepath.Join(p.Config.OutputDir, "L-7"))
	assert.Nil(t, readErr)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), "_tmp")
	}
}

func TestProcessor_SessionIDStableAcrossGoroutines(t *testing.T) {
	source := &raster.MemSource{Grids: map[string]raster.Grid{}}
	p, _ := testProcessor(t, &fakeCatalog{}, source)

	ids := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- p.SessionID()
		}()
	}
	go func() {
		wg.Wait()
		close(ids)
	}()

	first := <-ids
	assert.NotEmpty(t, first)
	for id := range ids {
		assert.Equal(t, first, id)
	}
}
