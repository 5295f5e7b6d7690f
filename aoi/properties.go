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

package aoi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/venicegeo/geojson-go/geojson"
)

// nestedPropertiesKey is where exported vector files stow the source
// layer's attributes when they are not flattened into columns.
const nestedPropertiesKey = "original_properties"

type propertyAccessor func(*geojson.Feature) (string, bool)

// resolveAccessor inspects the features once and decides how the named
// attribute is reached: as a flattened property or inside the nested
// original_properties mapping. Every feature of one file uses the same
// layout, so the decision is made a single time.
func resolveAccessor(features []*geojson.Feature, property string) (propertyAccessor, error) {
	for _, feature := range features {
		if _, ok := flattenedProperty(feature, property); ok {
			return func(f *geojson.Feature) (string, bool) {
				return flattenedProperty(f, property)
			}, nil
		}
		if _, ok := feature.Properties[nestedPropertiesKey]; ok {
			return func(f *geojson.Feature) (string, bool) {
				return originalProperty(f, property)
			}, nil
		}
	}
	return nil, fmt.Errorf("neither a %s column nor %s found in any feature", property, nestedPropertiesKey)
}

// nestedProperty reads the named attribute from a single feature,
// preferring the flattened form.
func nestedProperty(feature *geojson.Feature, property string) (string, bool) {
	if value, ok := flattenedProperty(feature, property); ok {
		return value, true
	}
	return originalProperty(feature, property)
}

func flattenedProperty(feature *geojson.Feature, property string) (string, bool) {
	raw, ok := feature.Properties[property]
	if !ok {
		return "", false
	}
	return stringify(raw)
}

// originalProperty digs the attribute out of original_properties, which
// arrives either as a JSON object or as a serialized JSON string.
func originalProperty(feature *geojson.Feature, property string) (string, bool) {
	raw, ok := feature.Properties[nestedPropertiesKey]
	if !ok {
		return "", false
	}

	var nested map[string]interface{}
	switch typed := raw.(type) {
	case map[string]interface{}:
		nested = typed
	case string:
		if err := json.Unmarshal([]byte(typed), &nested); err != nil {
			return "", false
		}
	default:
		return "", false
	}
	value, ok := nested[property]
	if !ok {
		return "", false
	}
	return stringify(value)
}

func stringify(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", typed), true
	}
}
