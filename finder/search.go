// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"math"
	"sort"

	"github.com/okeefe/schoolfinder/spatial"
)

// DefaultLimit is the number of results returned when the caller does not
// ask for a specific limit.
const DefaultLimit = 50

// FilterCriteria is a set of attribute predicates combined with logical
// AND. The zero value matches every school.
type FilterCriteria struct {
	// Level requires an exact match on the schooling-level field.
	Level string
	// The Has* flags require the corresponding source field to equal the
	// literal "Y", case-sensitive as stored.
	HasPreschool         bool
	HasIntensiveEnglish  bool
	HasOpportunityClass  bool
	HasDistanceEducation bool
	// NotSelective accepts "Not Selective" and an absent selectivity
	// field alike.
	NotSelective bool
}

// predicate is a single named membership test over a school.
type predicate struct {
	name  string
	match func(s *School) bool
}

// predicates returns the active predicates in a fixed order. New filters
// slot in here without touching the scan, sort and limit logic.
func (f FilterCriteria) predicates() []predicate {
	var preds []predicate

	if f.Level != "" {
		preds = append(preds, predicate{"level", func(s *School) bool {
			return s.LevelOfSchooling == f.Level
		}})
	}

	if f.HasPreschool {
		preds = append(preds, predicate{"has_preschool", func(s *School) bool {
			return s.PreschoolInd == "Y"
		}})
	}

	if f.HasIntensiveEnglish {
		preds = append(preds, predicate{"has_intensive_english", func(s *School) bool {
			return s.IntensiveEnglishCentre == "Y"
		}})
	}

	if f.HasOpportunityClass {
		preds = append(preds, predicate{"has_opportunity_class", func(s *School) bool {
			return s.OpportunityClass == "Y"
		}})
	}

	if f.HasDistanceEducation {
		preds = append(preds, predicate{"has_distance_education", func(s *School) bool {
			return s.DistanceEducation == "Y"
		}})
	}

	if f.NotSelective {
		preds = append(preds, predicate{"not_selective", func(s *School) bool {
			return s.SelectiveSchool == "Not Selective" || s.SelectiveSchool == ""
		}})
	}

	return preds
}

// Match reports whether the school passes every active predicate.
func (f FilterCriteria) Match(s *School) bool {
	for _, p := range f.predicates() {
		if !p.match(s) {
			return false
		}
	}

	return true
}

// SearchResult is a school plus its computed distance from the search
// center, rounded to two decimal places.
type SearchResult struct {
	School
	DistanceKm float64 `json:"distance_km"`
}

// Engine performs bounded-radius nearest-neighbor search over the school
// dataset. The dataset is small enough that a filtered linear scan beats
// the bookkeeping of a spatial index.
type Engine struct {
	repo SchoolRepository
}

// NewEngine creates a search engine backed by the given repository.
func NewEngine(repo SchoolRepository) *Engine {
	return &Engine{repo: repo}
}

// Search returns the schools within radiusKm of center that pass the
// filters, sorted by distance ascending and truncated to limit entries.
// A limit of zero returns an empty slice; a negative limit means
// DefaultLimit. An empty candidate set is an empty slice, not an error.
func (e *Engine) Search(center spatial.Point, radiusKm float64, filters FilterCriteria, limit int) ([]SearchResult, error) {
	if limit < 0 {
		limit = DefaultLimit
	}

	schools, err := e.repo.GetGeolocatableSchools(filters)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(schools))

	for _, s := range schools {
		if s.Point == nil {
			// Records without a coordinate are silently excluded.
			continue
		}

		if !filters.Match(s) {
			continue
		}

		distance := center.HaversineDistance(s.Point)
		if distance > radiusKm {
			continue
		}

		results = append(results, SearchResult{School: *s, DistanceKm: distance})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if len(results) > limit {
		results = results[:limit]
	}

	for i := range results {
		results[i].DistanceKm = roundKm(results[i].DistanceKm)
	}

	return results, nil
}

func roundKm(d float64) float64 {
	return math.Round(d*100) / 100
}
