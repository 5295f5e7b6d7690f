package model

import (
	"fmt"
	"time"
)

// Catalog endpoints do not agree on a single datetime format: some include
// fractional seconds, some omit the zone designator, and item properties
// occasionally carry a bare date. We need lenient "multi-format" parsing
// functionality, implemented here.

// StandardTimeLayout is the preferred format when formatting catalog datetimes
const StandardTimeLayout = "2006-01-02T15:04:05Z"

var sceneTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseSceneTime is a drop-in replacement for time.Parse, but matching
// against multiple possible catalog time formats
func ParseSceneTime(sceneTime string) (time.Time, error) {
	for _, layout := range sceneTimeLayouts {
		if output, err := time.Parse(layout, sceneTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("Date could not be parsed by any expected time format: `%s`", sceneTime)
}
