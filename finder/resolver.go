// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okeefe/schoolfinder/spatial"
	"github.com/okeefe/schoolfinder/utils/strutils"
)

// Resolver converts a free-text suburb and/or postcode into a coordinate
// using a tiered fallback: official postcode centroid, then suburb
// centroid, then a median computed from the school records themselves.
// The reference tables never cover every locality present in the school
// dataset, so the last tier trades precision for coverage.
type Resolver struct {
	repo       SchoolRepository
	strategies []resolveStrategy
}

// resolveStrategy is one tier of the fallback chain. Inputs arrive
// already normalized; a nil point with a nil error means "no match here,
// try the next tier".
type resolveStrategy struct {
	name    string
	resolve func(suburb, postcode string) (*spatial.Point, error)
}

// NewResolver creates a Resolver backed by the given repository.
func NewResolver(repo SchoolRepository) *Resolver {
	r := &Resolver{repo: repo}
	r.strategies = []resolveStrategy{
		{name: "postcode_centroid", resolve: r.byPostcodeCentroid},
		{name: "suburb_centroid", resolve: r.bySuburbCentroid},
		{name: "suburb_median", resolve: r.bySuburbMedian},
	}

	return r
}

// Resolve returns the coordinate for the given suburb and/or postcode, or
// nil when no tier yields a result. The postcode is treated as an opaque
// trimmed string and wins over the suburb when both are given; the suburb
// is trimmed and title-cased. Errors are storage failures only — an
// unresolvable location is a nil point, not an error.
func (r *Resolver) Resolve(suburb, postcode string) (*spatial.Point, error) {
	suburb = strutils.TitleCase(suburb)
	postcode = strings.TrimSpace(postcode)

	if suburb == "" && postcode == "" {
		return nil, nil
	}

	for _, s := range r.strategies {
		point, err := s.resolve(suburb, postcode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}

		if point != nil {
			return point, nil
		}
	}

	return nil, nil
}

func (r *Resolver) byPostcodeCentroid(_, postcode string) (*spatial.Point, error) {
	if postcode == "" {
		return nil, nil
	}

	centroid, err := r.repo.GetPostcodeCentroid(postcode)
	if err != nil || centroid == nil {
		return nil, err
	}

	point := centroid.Point

	return &point, nil
}

func (r *Resolver) bySuburbCentroid(suburb, postcode string) (*spatial.Point, error) {
	if suburb == "" {
		return nil, nil
	}

	centroid, err := r.repo.GetSuburbCentroid(suburb, postcode)
	if err != nil || centroid == nil {
		return nil, err
	}

	point := centroid.Point

	return &point, nil
}

// bySuburbMedian derives a centroid from the schools located in the
// suburb: the coordinate-wise median over their positions. The median
// (not the mean) keeps a single mis-geocoded school from dragging the
// centroid off the suburb.
func (r *Resolver) bySuburbMedian(suburb, postcode string) (*spatial.Point, error) {
	if suburb == "" {
		return nil, nil
	}

	schools, err := r.repo.GetSchoolsBySuburb(suburb, postcode)
	if err != nil {
		return nil, err
	}

	lats := make([]float64, 0, len(schools))
	lngs := make([]float64, 0, len(schools))

	for _, s := range schools {
		if s.Point == nil {
			continue
		}

		lats = append(lats, s.Point.Lat)
		lngs = append(lngs, s.Point.Lng)
	}

	if len(lats) == 0 {
		return nil, nil
	}

	sort.Float64s(lats)
	sort.Float64s(lngs)

	return &spatial.Point{
		Lat: median(lats),
		Lng: median(lngs),
	}, nil
}

// median of a sorted slice: middle element, or the mean of the two
// middle elements for even counts.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}

	return sorted[mid]
}
