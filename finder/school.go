// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"github.com/okeefe/schoolfinder/spatial"
)

// School is a single record from the NSW public schools master dataset.
// Reference data: immutable after bulk load. Optional numeric fields are
// pointers so "absent" survives the round trip through the database; the
// percentage fields stay strings because the source encodes suppressed
// values with the sentinel "np".
type School struct {
	ID                     int            `json:"id"`
	SchoolCode             string         `json:"school_code,omitempty"`
	SchoolName             string         `json:"school_name"`
	Street                 string         `json:"street,omitempty"`
	TownSuburb             string         `json:"town_suburb,omitempty"`
	Postcode               string         `json:"postcode,omitempty"`
	Phone                  string         `json:"phone,omitempty"`
	SchoolEmail            string         `json:"school_email,omitempty"`
	Website                string         `json:"website,omitempty"`
	Fax                    string         `json:"fax,omitempty"`
	EnrolmentFTE           *float64       `json:"latest_year_enrolment_fte,omitempty"`
	IndigenousPct          string         `json:"indigenous_pct,omitempty"`
	LBOTEPct               string         `json:"lbote_pct,omitempty"`
	ICSEAValue             *int           `json:"icsea_value,omitempty"`
	LevelOfSchooling       string         `json:"level_of_schooling,omitempty"`
	SelectiveSchool        string         `json:"selective_school,omitempty"`
	OpportunityClass       string         `json:"opportunity_class,omitempty"`
	SpecialtyType          string         `json:"school_specialty_type,omitempty"`
	SchoolSubtype          string         `json:"school_subtype,omitempty"`
	PreschoolInd           string         `json:"preschool_ind,omitempty"`
	DistanceEducation      string         `json:"distance_education,omitempty"`
	IntensiveEnglishCentre string         `json:"intensive_english_centre,omitempty"`
	SchoolGender           string         `json:"school_gender,omitempty"`
	Point                  *spatial.Point `json:"point,omitempty"`
}

// Geolocatable reports whether the school carries a coordinate. Records
// without one are never considered by the search engine.
func (s *School) Geolocatable() bool {
	return s.Point != nil
}

// Postcode is a centroid for a named area, keyed by postcode. Static
// reference data, loaded once.
type Postcode struct {
	Postcode string        `json:"postcode"`
	Suburb   string        `json:"suburb,omitempty"`
	Point    spatial.Point `json:"point"`
}
