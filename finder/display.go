// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"fmt"
	"strconv"
	"strings"
)

// Friendly-label vocabulary for the comparison views. Every function here
// is total: absent or malformed input degrades to a "not available" label
// rather than failing.
const (
	labelNotAvailable     = "Not available"
	labelDataNotAvailable = "Data not available"
)

// DisplaySchool is a school reshaped for side-by-side comparison, with
// coded values replaced by plain-English labels.
type DisplaySchool struct {
	ID                  int      `json:"id"`
	SchoolName          string   `json:"school_name"`
	LevelOfSchooling    string   `json:"level_of_schooling"`
	TownSuburb          string   `json:"town_suburb"`
	Postcode            string   `json:"postcode"`
	Street              string   `json:"street"`
	Gender              string   `json:"gender"`
	SchoolSize          string   `json:"school_size"`
	EnrolmentRaw        *float64 `json:"enrolment_raw"`
	Community           string   `json:"community"`
	SpecialFeatures     []string `json:"special_features"`
	HasIntensiveEnglish bool     `json:"has_intensive_english"`
	HasOpportunityClass bool     `json:"has_opportunity_class"`
	SpecialtyType       string   `json:"specialty_type"`
	SelectiveSchool     string   `json:"selective_school"`
	ICSEAValue          *int     `json:"icsea_value"`
	Phone               string   `json:"phone"`
	SchoolEmail         string   `json:"school_email"`
	Website             string   `json:"website"`
	DistanceKm          *float64 `json:"distance_km,omitempty"`
}

// FormatGender converts gender codes to plain English. Unknown codes pass
// through unchanged.
func FormatGender(gender string) string {
	if gender == "" {
		return labelNotAvailable
	}

	switch gender {
	case "Coed", "Co-ed", "Co-educational":
		return "Boys & Girls"
	case "Boys":
		return "Boys Only"
	case "Girls":
		return "Girls Only"
	}

	return gender
}

// FormatSchoolSize buckets an enrolment count into a size category.
func FormatSchoolSize(enrolment *float64) string {
	if enrolment == nil {
		return labelNotAvailable
	}

	switch {
	case *enrolment < 300:
		return "Small School"
	case *enrolment <= 800:
		return "Medium School"
	default:
		return "Large School"
	}
}

// FormatLBOTE renders the language-background percentage. The source
// suppresses small cohorts with the sentinel "np".
func FormatLBOTE(lbotePct string) string {
	if lbotePct == "" || strings.EqualFold(lbotePct, "np") {
		return labelDataNotAvailable
	}

	pct, err := strconv.ParseFloat(lbotePct, 64)
	if err != nil {
		return labelDataNotAvailable
	}

	return fmt.Sprintf("%.0f%% Multi-lingual background", pct)
}

// FormatIntensiveEnglish returns the feature label when the school has an
// intensive English centre, otherwise "".
func FormatIntensiveEnglish(value string) string {
	if strings.EqualFold(value, "Y") {
		return "English Language Support Centre"
	}

	return ""
}

// FormatOpportunityClass returns the feature label when the school runs
// opportunity classes, otherwise "".
func FormatOpportunityClass(value string) string {
	if strings.EqualFold(value, "Y") {
		return "Advanced Classes (OC)"
	}

	return ""
}

// FormatSpecialty returns the specialty type with a clarifying label for
// the standard curriculum, or "" when blank.
func FormatSpecialty(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if strings.EqualFold(value, "comprehensive") {
		return "Comprehensive (standard curriculum)"
	}

	return value
}

func orNotAvailable(value string) string {
	if value == "" {
		return labelNotAvailable
	}

	return value
}

// TransformForDisplay reshapes a school for comparison views.
func TransformForDisplay(s *School) DisplaySchool {
	var features []string

	if label := FormatIntensiveEnglish(s.IntensiveEnglishCentre); label != "" {
		features = append(features, label)
	}

	if label := FormatOpportunityClass(s.OpportunityClass); label != "" {
		features = append(features, label)
	}

	if label := FormatSpecialty(s.SpecialtyType); label != "" {
		features = append(features, label)
	}

	return DisplaySchool{
		ID:                  s.ID,
		SchoolName:          orNotAvailable(s.SchoolName),
		LevelOfSchooling:    orNotAvailable(s.LevelOfSchooling),
		TownSuburb:          orNotAvailable(s.TownSuburb),
		Postcode:            s.Postcode,
		Street:              orNotAvailable(s.Street),
		Gender:              FormatGender(s.SchoolGender),
		SchoolSize:          FormatSchoolSize(s.EnrolmentFTE),
		EnrolmentRaw:        s.EnrolmentFTE,
		Community:           FormatLBOTE(s.LBOTEPct),
		SpecialFeatures:     features,
		HasIntensiveEnglish: strings.EqualFold(s.IntensiveEnglishCentre, "Y"),
		HasOpportunityClass: strings.EqualFold(s.OpportunityClass, "Y"),
		SpecialtyType:       s.SpecialtyType,
		SelectiveSchool:     orNotAvailable(s.SelectiveSchool),
		ICSEAValue:          s.ICSEAValue,
		Phone:               s.Phone,
		SchoolEmail:         s.SchoolEmail,
		Website:             s.Website,
	}
}

// TransformForComparison reshapes multiple schools for the comparison view.
func TransformForComparison(schools []*School) []DisplaySchool {
	out := make([]DisplaySchool, len(schools))
	for i, s := range schools {
		out[i] = TransformForDisplay(s)
	}

	return out
}
