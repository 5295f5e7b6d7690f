package stac

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func routedResponse(t *testing.T, handler http.Handler, route, requestURL string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle(route, handler)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", requestURL, strings.NewReader("")))
	return recorder
}

func TestDiscoverHandler(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage(sampleItem, "")))
	}))
	defer mockServer.Close()
	handler := DiscoverHandler{Context: &Context{BaseStacURL: mockServer.URL}}

	response := routedResponse(t, handler, "/discover/{collection}",
		"/discover/sentinel-2-l2a?bbox=0,0,1,1&cloudCover=10&acquiredDate=2023-07-01T00:00:00Z")

	assert.Equal(t, http.StatusOK, response.Code)
	body, _ := ioutil.ReadAll(response.Result().Body)
	fc, err := geojson.Parse(body)
	assert.Nil(t, err)
	featureCollection, ok := fc.(*geojson.FeatureCollection)
	assert.True(t, ok)
	assert.Len(t, featureCollection.Features, 1)
	assert.Equal(t, "S2A_MSIL2A_20230812", featureCollection.Features[0].IDStr())
}

func TestDiscoverHandler_BadBbox(t *testing.T) {
	handler := DiscoverHandler{Context: &Context{BaseStacURL: "http://unused.localdomain"}}

	response := routedResponse(t, handler, "/discover/{collection}", "/discover/sentinel-2-l2a?bbox=bogus")

	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestSelectHandler_AnnotatesCoverage(t *testing.T) {
	// The scene footprint in sampleItem covers the whole 0,0,1,1 bbox, so
	// selection returns it alone with full coverage.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage(sampleItem, "")))
	}))
	defer mockServer.Close()
	handler := SelectHandler{Context: &Context{BaseStacURL: mockServer.URL}}

	response := routedResponse(t, handler, "/select/{collection}", "/select/sentinel-2-l2a?bbox=0,0,1,1")

	assert.Equal(t, http.StatusOK, response.Code)
	body, _ := ioutil.ReadAll(response.Result().Body)
	fc, err := geojson.Parse(body)
	assert.Nil(t, err)
	featureCollection := fc.(*geojson.FeatureCollection)
	assert.Len(t, featureCollection.Features, 1)
	feature := featureCollection.Features[0]
	assert.Equal(t, 1.0, feature.PropertyFloat("coverageGain"))
	assert.Equal(t, 1.0, feature.PropertyFloat("coverageTotal"))
}

func TestSelectHandler_NoScenes(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage("", "")))
	}))
	defer mockServer.Close()
	handler := SelectHandler{Context: &Context{BaseStacURL: mockServer.URL}}

	response := routedResponse(t, handler, "/select/{collection}", "/select/sentinel-2-l2a?bbox=0,0,1,1")

	assert.Equal(t, http.StatusOK, response.Code)
	body, _ := ioutil.ReadAll(response.Result().Body)
	fc, err := geojson.Parse(body)
	assert.Nil(t, err)
	featureCollection := fc.(*geojson.FeatureCollection)
	assert.Len(t, featureCollection.Features, 0)
}
