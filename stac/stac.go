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

package stac

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/venicegeo/bf-scene-composer/catalog"
	"github.com/venicegeo/bf-scene-composer/model"
	"github.com/venicegeo/bf-scene-composer/util"
)

// maxSearchPages bounds next-link pagination on a single search
const maxSearchPages = 16

// defaultSearchLimit is the page size requested from the catalog
const defaultSearchLimit = 250

// GetScenes returns the scene records matching the requested search,
// following next links until the catalog is exhausted
func (c *Context) GetScenes(options SearchOptions) ([]model.Scene, error) {
	var (
		err         error
		requestBody []byte
		scenes      []model.Scene
	)

	req := searchRequest{FilterLang: cql2FilterLang, Limit: defaultSearchLimit}
	req.Filter.Op = "and"
	req.Filter.Args = make([]interface{}, 0)
	if options.Intersects != nil {
		req.Filter.Args = append(req.Filter.Args,
			cql2Filter{Op: "intersects", Args: []interface{}{cql2Property{"geometry"}, options.Intersects}})
	}
	if options.AcquiredDate != "" || options.MaxAcquiredDate != "" {
		interval := cql2Interval{Interval: []string{options.AcquiredDate, options.MaxAcquiredDate}}
		req.Filter.Args = append(req.Filter.Args,
			cql2Filter{Op: "anyinteracts", Args: []interface{}{cql2Property{"datetime"}, interval}})
	}
	if options.Collection != "" {
		req.Filter.Args = append(req.Filter.Args,
			cql2Filter{Op: "=", Args: []interface{}{cql2Property{"collection"}, options.Collection}})
	}
	if options.CloudCover > 0 {
		req.Filter.Args = append(req.Filter.Args,
			cql2Filter{Op: "<=", Args: []interface{}{cql2Property{model.CloudCoverProperty}, options.CloudCover}})
	}
	if requestBody, err = json.Marshal(req); err != nil {
		return nil, util.LogSimpleErr(c, fmt.Sprintf("Failed to marshal search request %#v.", req), err)
	}

	input := stacRequestInput{method: "POST", inputURL: "search", body: requestBody, contentType: "application/json"}
	for page := 0; page < maxSearchPages; page++ {
		response, err := c.doSearchPage(input)
		if err != nil {
			return nil, err
		}

		pageScenes, err := scenesFromSearchResponse(c, response)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, pageScenes...)

		next := findNextLink(response.Links)
		if next == nil {
			break
		}
		input = stacRequestInput{method: "POST", inputURL: next.HREF, body: next.Body, contentType: "application/json"}
		if next.Method != "" {
			input.method = next.Method
		}
	}

	return scenes, nil
}

func (c *Context) doSearchPage(input stacRequestInput) (*searchResponse, error) {
	var (
		err          error
		response     *http.Response
		responseBody []byte
	)
	if response, err = stacRequest(input, c); err != nil {
		return nil, util.LogSimpleErr(c, fmt.Sprintf("Failed to complete STAC API request %#v.", string(input.body)), err)
	}
	switch {
	case (response.StatusCode >= 400) && (response.StatusCode < 500):
		message := fmt.Sprintf("Failed to discover scenes from STAC API: %v. ", response.Status)
		util.LogAlert(c, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	case response.StatusCode >= 500:
		return nil, util.LogSimpleErr(c, "Failed to discover scenes from STAC API.", errors.New(response.Status))
	default:
		//no op
	}

	defer response.Body.Close()
	responseBody, _ = ioutil.ReadAll(response.Body)

	var parsed searchResponse
	if err = json.Unmarshal(responseBody, &parsed); err != nil {
		stacErr := util.Error{LogMsg: "Failed to unmarshal response from STAC API search request: " + err.Error(),
			SimpleMsg:  "The catalog returned an unexpected response for this request. See log for further details.",
			Response:   string(responseBody),
			URL:        input.inputURL,
			HTTPStatus: response.StatusCode}
		return nil, stacErr.Log(c, "")
	}
	return &parsed, nil
}

func findNextLink(links []link) *link {
	for i, curr := range links {
		if curr.Rel == "next" {
			return &links[i]
		}
	}
	return nil
}

// SearchScenes implements the catalog.Gateway interface
func (c *Context) SearchScenes(input catalog.SearchInput) ([]model.Scene, error) {
	options := SearchOptions{
		Collection: input.Collection,
		Intersects: input.Intersects,
		CloudCover: input.MaxCloudCover,
	}
	if !input.MinAcquiredDate.IsZero() {
		options.AcquiredDate = input.MinAcquiredDate.Format(model.StandardTimeLayout)
	}
	if !input.MaxAcquiredDate.IsZero() {
		options.MaxAcquiredDate = input.MaxAcquiredDate.Format(model.StandardTimeLayout)
	}
	return c.GetScenes(options)
}

// stacRequest performs the request
func stacRequest(input stacRequestInput, context *Context) (*http.Response, error) {
	var (
		request   *http.Request
		parsedURL *url.URL
		inputURL  string
		err       error
	)
	inputURL = input.inputURL
	if !strings.Contains(inputURL, context.BaseStacURL) {
		baseURL, _ := url.Parse(strings.TrimSuffix(context.BaseStacURL, "/") + "/")
		parsedRelativeURL, _ := url.Parse(input.inputURL)
		resolvedURL := baseURL.ResolveReference(parsedRelativeURL)

		if parsedURL, err = url.Parse(resolvedURL.String()); err != nil {
			return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to parse %v into a URL.", resolvedURL.String()), err)
		}
		inputURL = parsedURL.String()
	}
	if request, err = http.NewRequest(input.method, inputURL, bytes.NewBuffer(input.body)); err != nil {
		return nil, util.LogSimpleErr(context, fmt.Sprintf("Failed to make a new HTTP request for %v.", inputURL), err)
	}
	if input.contentType != "" {
		request.Header.Set("Content-Type", input.contentType)
	}
	if context.StacKey != "" {
		request.Header.Set("Authorization", "Bearer "+context.StacKey)
	}

	util.LogAudit(context, util.LogAuditInput{Actor: "stac/doRequest", Action: input.method, Actee: inputURL, Message: "Requesting data from the scene catalog", Severity: util.INFO})
	util.LogAudit(context, util.LogAuditInput{Actor: inputURL, Action: input.method + " response", Actee: "stac/doRequest", Message: "Receiving data from the scene catalog", Severity: util.INFO})
	return util.HTTPClient().Do(request)
}
