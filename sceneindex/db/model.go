package db

import (
	"database/sql"
	"time"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-composer/util"
)

// ConnectionProvider is a function that can provide a database connection.
type ConnectionProvider func(util.LogContext) (*sql.DB, error)

// IndexedScene is one row of the local scene index.
type IndexedScene struct {
	ProductID       string
	Collection      string
	AcquisitionDate time.Time
	CloudCover      float64
	SceneURLString  string
	Bounds          *geojson.Polygon
}
