package stac

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/selector"
	"github.com/venicegeo/bf-scene-composer/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// DiscoverHandler is a handler for /discover/{collection}
// @Title discoverHandler
// @Description discovers scenes from the configured STAC catalog
// @Accept  plain
// @Param   bbox            query   string  false        "The bounding box, as a GeoJSON Bounding box (x1,y1,x2,y2)"
// @Param   cloudCover      query   string  false        "The maximum cloud cover, as a percentage (0-100)"
// @Param   acquiredDate    query   string  false        "The minimum (earliest) acquired date, as RFC 3339"
// @Param   maxAcquiredDate query   string  false        "The maximum acquired date, as RFC 3339"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /discover/{collection} [get]
type DiscoverHandler struct {
	Context *Context
}

// NewDiscoverHandler creates a new handler using configuration
// from environment variables
func NewDiscoverHandler() *DiscoverHandler {
	return &DiscoverHandler{
		Context: &Context{BaseStacURL: util.GetStacAPIURL()},
	}
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input, ok := searchInputFromRequest(w, r, h.Context)
	if !ok {
		return
	}

	scenes, err := h.Context.SearchScenes(*input)
	if err != nil {
		message := fmt.Sprintf("Error searching for scenes: %v", err)
		util.HTTPError(r, w, h.Context, message, http.StatusBadGateway)
		return
	}

	multiResult := model.MultiSceneResult{FeatureCreators: make([]model.GeoJSONFeatureCreator, len(scenes))}
	for i, scene := range scenes {
		multiResult.FeatureCreators[i] = scene
	}

	writeFeatureCollection(w, r, h.Context, multiResult)
}

// SelectHandler is a handler for /select/{collection}: it searches the
// catalog and runs coverage selection against the request bbox, returning
// only the scenes the selector would fetch, annotated with their coverage
// accounting
type SelectHandler struct {
	Context *Context
}

// NewSelectHandler creates a new handler using configuration
// from environment variables
func NewSelectHandler() *SelectHandler {
	return &SelectHandler{
		Context: &Context{BaseStacURL: util.GetStacAPIURL()},
	}
}

// ServeHTTP implements the http.Handler interface for the SelectHandler type
func (h SelectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input, ok := searchInputFromRequest(w, r, h.Context)
	if !ok {
		return
	}

	scenes, err := h.Context.SearchScenes(*input)
	if err != nil {
		message := fmt.Sprintf("Error searching for scenes: %v", err)
		util.HTTPError(r, w, h.Context, message, http.StatusBadGateway)
		return
	}

	result, err := selector.New().Select(input.Intersects, scenes)
	if err != nil {
		message := fmt.Sprintf("Error selecting scenes: %v", err)
		util.HTTPError(r, w, h.Context, message, http.StatusInternalServerError)
		return
	}

	multiResult := model.MultiSceneResult{FeatureCreators: make([]model.GeoJSONFeatureCreator, len(result.Picks))}
	for i, pick := range result.Picks {
		multiResult.FeatureCreators[i] = model.SelectedSceneResult{
			Scene:        pick.Scene,
			CoverageData: model.CoverageData{Gain: pick.Gain, Total: pick.Total},
		}
	}

	writeFeatureCollection(w, r, h.Context, multiResult)
}

func searchInputFromRequest(w http.ResponseWriter, r *http.Request, ctx *Context) (*catalog.SearchInput, bool) {
	collection, ok := mux.Vars(r)["collection"]
	if !ok {
		collection = model.DefaultCollection
	}

	bbox, err := geojson.NewBoundingBox(r.FormValue("bbox"))
	if err != nil {
		message := fmt.Sprintf("The bbox value of %v is invalid", r.FormValue("bbox"))
		util.LogSimpleErr(ctx, message, err)
		util.HTTPError(r, w, ctx, message, http.StatusBadRequest)
		return nil, false
	}

	input := catalog.SearchInput{
		Intersects: bbox.Geometry(),
		Collection: collection,
	}
	if r.FormValue("cloudCover") != "" {
		if input.MaxCloudCover, err = strconv.ParseFloat(r.FormValue("cloudCover"), 64); err != nil {
			message := fmt.Sprintf("Cloud Cover value of %v is invalid.", r.FormValue("cloudCover"))
			util.LogSimpleErr(ctx, message, err)
			util.HTTPError(r, w, ctx, message, http.StatusBadRequest)
			return nil, false
		}
	}
	if r.FormValue("acquiredDate") != "" {
		if input.MinAcquiredDate, err = time.Parse(time.RFC3339, r.FormValue("acquiredDate")); err != nil {
			message := fmt.Sprintf("Acquired date value of %v is invalid.", r.FormValue("acquiredDate"))
			util.LogSimpleErr(ctx, message, err)
			util.HTTPError(r, w, ctx, message, http.StatusBadRequest)
			return nil, false
		}
	}
	if r.FormValue("maxAcquiredDate") != "" {
		if input.MaxAcquiredDate, err = time.Parse(time.RFC3339, r.FormValue("maxAcquiredDate")); err != nil {
			message := fmt.Sprintf("Acquired date value of %v is invalid.", r.FormValue("maxAcquiredDate"))
			util.LogSimpleErr(ctx, message, err)
			util.HTTPError(r, w, ctx, message, http.StatusBadRequest)
			return nil, false
		}
	}
	return &input, true
}

func writeFeatureCollection(w http.ResponseWriter, r *http.Request, ctx *Context, creator model.GeoJSONFeatureCollectionCreator) {
	featureCollection, err := creator.GeoJSONFeatureCollection()
	if err != nil {
		message := fmt.Sprintf("Error converting to feature collection: %v", err)
		util.HTTPError(r, w, ctx, message, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(featureCollection.String()))
}
