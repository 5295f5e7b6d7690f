package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

var sharedClient = &http.Client{Timeout: 120 * time.Second}

// HTTPClient returns the shared HTTP client for outbound requests
func HTTPClient() *http.Client {
	return sharedClient
}

// ReqByObjJSON performs an HTTP request with a JSON-marshaled input
// object, unmarshaling the response JSON into the output object
func ReqByObjJSON(method, url, auth string, input, output interface{}) (*http.Response, error) {
	var body bytes.Buffer
	if input != nil {
		if err := json.NewEncoder(&body).Encode(input); err != nil {
			return nil, err
		}
	}

	request, err := http.NewRequest(method, url, &body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if auth != "" {
		request.Header.Set("Authorization", auth)
	}

	response, err := HTTPClient().Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, _ := ioutil.ReadAll(response.Body)
	if response.StatusCode >= 400 {
		return response, HTTPErr{Status: response.StatusCode,
			Message: fmt.Sprintf("%s %s returned %s", method, url, response.Status)}
	}
	if output != nil {
		if err = json.Unmarshal(responseBody, output); err != nil {
			return response, err
		}
	}
	return response, nil
}
