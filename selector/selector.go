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

// Package selector chooses the smallest workable set of scenes that
// covers an area of interest. A single scene whose footprint fully
// contains the AOI always beats any combination of partial scenes; when
// none exists a greedy pass accepts partial scenes while each still buys
// a meaningful amount of uncovered area.
package selector

import (
	"sort"

	"github.com/venicegeo/bf-scene-composer/geometry"
	"github.com/venicegeo/bf-scene-composer/model"
)

// MinMarginalGain is the fraction of AOI area a partial scene must newly
// cover to justify fetching another image
const MinMarginalGain = 0.05

// CoverageTarget is the accumulated coverage fraction beyond which no
// further scenes are considered
const CoverageTarget = 0.98

// CoverageRecord pairs a scene with its fractional intersection against
// the AOI; used only during selection
type CoverageRecord struct {
	Scene        model.Scene
	Ratio        float64
	intersection geometry.Multi
}

// Pick is one selected scene with its coverage accounting
type Pick struct {
	Scene model.Scene
	Gain  float64
	Total float64
}

// Result is an ordered selection of scenes for one AOI and one
// observation window. An empty result signals no usable imagery.
type Result struct {
	Picks    []Pick
	Coverage float64
	Complete bool // a single fully-containing scene was found
}

// Scenes returns the selected scenes in fetch order
func (r Result) Scenes() []model.Scene {
	scenes := make([]model.Scene, len(r.Picks))
	for i, pick := range r.Picks {
		scenes[i] = pick.Scene
	}
	return scenes
}

// Selector holds the selection thresholds
type Selector struct {
	MinMarginalGain float64
	CoverageTarget  float64
}

// New returns a Selector with the default thresholds
func New() Selector {
	return Selector{MinMarginalGain: MinMarginalGain, CoverageTarget: CoverageTarget}
}

// Select picks the scenes to fetch for the AOI from the given candidates.
// Candidates that do not intersect the AOI are ignored; an empty candidate
// list yields an empty result, not an error. Ties are broken by catalog
// order so selection is deterministic.
func (s Selector) Select(aoiGeometry interface{}, scenes []model.Scene) (Result, error) {
	aoi, err := geometry.FromGeoJSON(aoiGeometry)
	if err != nil {
		return Result{}, err
	}
	aoiArea := geometry.Area(aoi)
	if aoiArea == 0 || len(scenes) == 0 {
		return Result{}, nil
	}

	var (
		complete []CoverageRecord
		partial  []CoverageRecord
	)
	for _, scene := range scenes {
		footprint, err := geometry.FromGeoJSON(scene.Geometry)
		if err != nil {
			return Result{}, err
		}
		contains, err := geometry.Contains(footprint, aoi)
		if err != nil {
			return Result{}, err
		}
		if contains {
			complete = append(complete, CoverageRecord{Scene: scene, Ratio: 1})
			continue
		}
		intersection, err := geometry.Intersection(footprint, aoi)
		if err != nil {
			return Result{}, err
		}
		ratio := geometry.Area(intersection) / aoiArea
		if ratio > 0 {
			partial = append(partial, CoverageRecord{Scene: scene, Ratio: ratio, intersection: intersection})
		}
	}

	if len(complete) > 0 {
		best := complete[0]
		for _, record := range complete[1:] {
			if record.Scene.CloudCover < best.Scene.CloudCover {
				best = record
			}
		}
		return Result{
			Picks:    []Pick{{Scene: best.Scene, Gain: 1, Total: 1}},
			Coverage: 1,
			Complete: true,
		}, nil
	}

	if len(partial) == 0 {
		return Result{}, nil
	}

	// Stable sort keeps catalog order on numerical ties
	sort.SliceStable(partial, func(i, j int) bool {
		if partial[i].Ratio != partial[j].Ratio {
			return partial[i].Ratio > partial[j].Ratio
		}
		return partial[i].Scene.CloudCover < partial[j].Scene.CloudCover
	})

	accumulated := partial[0].intersection
	coverage := partial[0].Ratio
	result := Result{
		Picks:    []Pick{{Scene: partial[0].Scene, Gain: partial[0].Ratio, Total: partial[0].Ratio}},
		Coverage: coverage,
	}

	for _, record := range partial[1:] {
		if coverage > s.CoverageTarget {
			break
		}
		candidate, err := geometry.Union(accumulated, record.intersection)
		if err != nil {
			return Result{}, err
		}
		gain := geometry.Area(candidate)/aoiArea - coverage
		if gain > s.MinMarginalGain {
			accumulated = candidate
			coverage += gain
			result.Picks = append(result.Picks, Pick{Scene: record.Scene, Gain: gain, Total: coverage})
			result.Coverage = coverage
		}
	}

	return result, nil
}
