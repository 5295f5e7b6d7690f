package db

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/geometry"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/util"
)

const (
	// BeginIngestJobMessage starts an ingest job when sent to ImportWhile.
	BeginIngestJobMessage = "begin_ingest"
	// AbortIngestJobMessage stops an in-progress ingest job.
	AbortIngestJobMessage = "abort_ingest"
)

// Importer manages the state for an ingest job: it pulls recent scenes
// from a catalog gateway and mirrors them into the local index.
type Importer struct {
	gateway        catalog.Gateway
	region         interface{}
	collection     string
	lookback       time.Duration
	dbConnProvider ConnectionProvider
	statusChan     chan chan string
}

// NewImporter initializes a new importer covering the given region.
func NewImporter(
	gateway catalog.Gateway,
	region interface{},
	collection string,
	lookback time.Duration,
	dbConnProvider ConnectionProvider) *Importer {
	return &Importer{
		gateway:        gateway,
		region:         region,
		collection:     collection,
		lookback:       lookback,
		dbConnProvider: dbConnProvider,
		statusChan:     make(chan chan string, 10)}
}

// ImportWhile performs the Import() task and waits for a channel.
// Note: this is blocking.
// The function will exit when messageChan is closed and any in-progress
// jobs complete. To close quickly, send AbortIngestJobMessage on
// messageChan before closing it.
func (imp *Importer) ImportWhile(messageChan <-chan string, maxTimeBetweenJobs time.Duration) {
	log.Println("Job loop started with frequency", maxTimeBetweenJobs)

	previousStatus := "\tNone"

	scheduleTimer := time.NewTimer(maxTimeBetweenJobs)
	nextScheduledStartTime := time.Now().Add(maxTimeBetweenJobs)

	var startJob bool
	for {
		startJob = false

		//Wait for a start message.
		//Also, status is reported cooperatively, so deal with any requests while we wait.
		select {
		case <-scheduleTimer.C:
			log.Println("Maximum time between jobs elapsed.")
			startJob = true
		case msg, ok := <-messageChan:
			if !ok {
				return //The message channel has been closed. Exit.
			}
			switch msg {
			case BeginIngestJobMessage:
				log.Println("User requested job start.")
				startJob = true
			default:
				//ignore this message. We only want ones for "begin".
			}
		case respChan := <-imp.statusChan:
			//The user has sent a request for the current status.
			select {
			//Try to send a response on the provided channel.
			case respChan <- fmt.Sprintf("%v\nStatus: Sleeping until %v\nPrevious job:\n%v",
				time.Now().Format("Mon Jan _2 15:04:05 2006"),
				nextScheduledStartTime.Format("Mon Jan _2 15:04:05 2006"),
				previousStatus): //good
			default:
				//Could not send immediately. We'll ignore it.
			}
		}

		if startJob {
			log.Println("Starting job.")
			previousStatus = imp.Import(messageChan)

			//Reset the timer. Rather than keep track of whether we've
			//received on the timer channel, just drain it in a general way.
			scheduleTimer.Stop()
		TimerDrainLoop:
			for {
				select {
				case <-scheduleTimer.C: //good, discard
				default:
					//Channel is empty. We're done.
					break TimerDrainLoop
				}
			}

			scheduleTimer.Reset(maxTimeBetweenJobs)
			nextScheduledStartTime = time.Now().Add(maxTimeBetweenJobs)
		}
	}
}

// GetStatus is a thread safe way to get information about the import
// operation.
func (imp *Importer) GetStatus() string {
	responseChan := make(chan string, 1) //Must have a buffer. The loop won't wait if it can't send.
	imp.statusChan <- responseChan
	status := <-responseChan
	return status
}

// Import performs one catalog pull and index update, reporting a
// human-readable summary.
func (imp *Importer) Import(messageChan <-chan string) (result string) {
	now := time.Now().UTC()
	scenes, err := imp.gateway.SearchScenes(catalog.SearchInput{
		Intersects:      imp.region,
		MinAcquiredDate: now.Add(-imp.lookback),
		MaxAcquiredDate: now,
		Collection:      imp.collection,
		MaxCloudCover:   100,
	})
	if err != nil {
		log.Println("Catalog search failed:", err)
		return fmt.Sprintf("\tFailed: %v", err)
	}

	//Database connection is opened right before the ingest, and closed
	//immediately after.
	database, err := imp.dbConnProvider(&util.BasicLogContext{})
	if err != nil {
		log.Println("Could not open database connection:", err)
		return fmt.Sprintf("\tFailed: %v", err)
	}
	defer database.Close()

	return imp.ingest(scenes, database, messageChan)
}

func (imp *Importer) ingest(scenes []model.Scene, database *sql.DB, messageChan <-chan string) string {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Sprintf("\tFailed: %v", err)
	}

	var stored, skipped int
	for _, scene := range scenes {
		select {
		case msg := <-messageChan:
			if msg == AbortIngestJobMessage {
				log.Println("Ingest aborted by user.")
				tx.Rollback()
				return fmt.Sprintf("\tAborted after %d scenes", stored)
			}
		default:
		}

		record, ok := indexedSceneFromScene(scene)
		if !ok {
			skipped++
			continue
		}
		if err = UpsertScene(tx, record); err != nil {
			tx.Rollback()
			return fmt.Sprintf("\tFailed storing scene %s: %v", scene.ID, err)
		}
		stored++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Sprintf("\tFailed: %v", err)
	}
	log.Printf("Ingest complete: %d stored, %d skipped", stored, skipped)
	return fmt.Sprintf("\tCompleted %v: %d stored, %d skipped",
		time.Now().Format("Mon Jan _2 15:04:05 2006"), stored, skipped)
}

// indexedSceneFromScene flattens a catalog scene into an index row. The
// scene URL is the asset root; per-band references are rebuilt from it
// on the way out.
func indexedSceneFromScene(scene model.Scene) (IndexedScene, bool) {
	footprint, err := geometry.FromGeoJSON(scene.Geometry)
	if err != nil || footprint.IsEmpty() {
		return IndexedScene{}, false
	}
	minX, minY, maxX, maxY := geometry.Bounds(footprint)
	bounds := geojson.NewPolygon([][][]float64{[][]float64{
		[]float64{minX, minY},
		[]float64{maxX, minY},
		[]float64{maxX, maxY},
		[]float64{minX, maxY},
		[]float64{minX, minY},
	}})

	sceneURL := assetRoot(scene)
	if sceneURL == "" {
		return IndexedScene{}, false
	}

	return IndexedScene{
		ProductID:       scene.ID,
		Collection:      scene.Collection,
		AcquisitionDate: scene.AcquiredDate,
		CloudCover:      scene.CloudCover,
		SceneURLString:  sceneURL,
		Bounds:          bounds,
	}, true
}

func assetRoot(scene model.Scene) string {
	ref, ok := scene.Asset("B04")
	if !ok {
		for _, candidate := range scene.Assets {
			ref = candidate
			break
		}
	}
	if ref.HREF == "" {
		return ""
	}
	href := ref.HREF
	if query := strings.Index(href, "?"); query >= 0 {
		href = href[:query]
	}
	if slash := strings.LastIndex(href, "/"); slash >= 0 {
		return href[:slash+1]
	}
	return ""
}
