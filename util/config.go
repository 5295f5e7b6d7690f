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

package util

import (
	"os"
)

// Environment variables
const (
	STAC_API_URL         = "STAC_API_URL"
	STAC_SIGNING_URL     = "STAC_SIGNING_URL"
	COMPOSITE_OUTPUT_DIR = "COMPOSITE_OUTPUT_DIR"
)

const defaultStacAPIURL = "https://planetarycomputer.microsoft.com/api/stac/v1"

// GetStacAPIURL returns a string for the STAC_API_URL environment
// variable or the default catalog endpoint
func GetStacAPIURL() string {
	stacURL, ok := os.LookupEnv(STAC_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get STAC API URL from the environment. Using default catalog endpoint: "+defaultStacAPIURL)
		stacURL = defaultStacAPIURL
	}
	return stacURL
}

// GetStacSigningURL returns a string for the STAC_SIGNING_URL environment
// variable. An empty value means asset references are used unsigned.
func GetStacSigningURL() string {
	signingURL, ok := os.LookupEnv(STAC_SIGNING_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get signing URL from the environment. Asset references will be used unsigned.")
	}
	return signingURL
}

// GetCompositeOutputDir returns a string for the COMPOSITE_OUTPUT_DIR
// environment variable
func GetCompositeOutputDir() string {
	outputDir, ok := os.LookupEnv(COMPOSITE_OUTPUT_DIR)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get composite output directory from the environment. Using working directory.")
		outputDir = "."
	}
	return outputDir
}
