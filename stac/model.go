package stac

import (
	"encoding/json"

	"github.com/venicegeo/bf-scene-composer/util"
)

// Context is the context for a STAC catalog operation
type Context struct {
	BaseStacURL string
	StacKey     string
	sessionID   string
}

// AppName returns the application name
func (c *Context) AppName() string {
	return "bf-scene-composer"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}

// SearchOptions are the search options for a catalog search request
type SearchOptions struct {
	Collection      string
	Intersects      interface{} // a parsed GeoJSON geometry
	AcquiredDate    string
	MaxAcquiredDate string
	CloudCover      float64
}

// cql2-json request structures

const cql2FilterLang = "cql2-json"

type searchRequest struct {
	FilterLang string     `json:"filter-lang"`
	Filter     cql2Filter `json:"filter"`
	Limit      int        `json:"limit,omitempty"`
}

type cql2Filter struct {
	Op   string        `json:"op"`
	Args []interface{} `json:"args"`
}

type cql2Property struct {
	Property string `json:"property"`
}

type cql2Interval struct {
	Interval []string `json:"interval"`
}

// response structures; geometry stays raw until parsed by geojson-go

type searchResponse struct {
	Features []item `json:"features"`
	Links    []link `json:"links"`
}

type item struct {
	ID         string           `json:"id"`
	Collection string           `json:"collection"`
	Geometry   json.RawMessage  `json:"geometry"`
	Properties itemProperties   `json:"properties"`
	Assets     map[string]asset `json:"assets"`
}

type itemProperties struct {
	Datetime   string   `json:"datetime"`
	CloudCover *float64 `json:"eo:cloud_cover"`
}

type asset struct {
	HREF  string `json:"href"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

type link struct {
	Rel    string          `json:"rel"`
	HREF   string          `json:"href"`
	Method string          `json:"method,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type stacRequestInput struct {
	method      string
	inputURL    string // URL may be relative or absolute based on BaseStacURL
	body        []byte
	contentType string
}
