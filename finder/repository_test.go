// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/okeefe/schoolfinder/spatial"
)

func setupTestDB(t *testing.T) (*sql.DB, SchoolRepository) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	repo, err := NewSchoolRepository(db)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := repo.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db, repo
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

// testSchools is a small fixture spanning the filterable attributes.
func testSchools() []*School {
	return []*School{
		{
			SchoolName:       "Sydney Harbour Public School",
			TownSuburb:       "Sydney",
			Postcode:         "2000",
			EnrolmentFTE:     floatPtr(420),
			LBOTEPct:         "62",
			ICSEAValue:       intPtr(1102),
			LevelOfSchooling: "Primary School",
			SelectiveSchool:  "Not Selective",
			PreschoolInd:     "Y",
			SchoolGender:     "Coed",
			Point:            &spatial.Point{Lat: -33.8688, Lng: 151.2093},
		},
		{
			SchoolName:             "Parramatta West High School",
			TownSuburb:             "Parramatta",
			Postcode:               "2150",
			EnrolmentFTE:           floatPtr(950),
			LevelOfSchooling:       "Secondary School",
			SelectiveSchool:        "Partially Selective",
			IntensiveEnglishCentre: "Y",
			SchoolGender:           "Coed",
			Point:                  &spatial.Point{Lat: -33.8151, Lng: 151.0011},
		},
		{
			SchoolName:       "Newtown Opportunity Public School",
			TownSuburb:       "Newtown",
			Postcode:         "2042",
			EnrolmentFTE:     floatPtr(280),
			LBOTEPct:         "np",
			LevelOfSchooling: "Primary School",
			SelectiveSchool:  "Not Selective",
			OpportunityClass: "Y",
			SchoolGender:     "Girls",
			Point:            &spatial.Point{Lat: -33.8978, Lng: 151.1785},
		},
		{
			// Selectivity unknown, counts as non-selective.
			SchoolName:        "Broken Hill Distance School",
			TownSuburb:        "Broken Hill",
			Postcode:          "2880",
			LevelOfSchooling:  "Central/Community School",
			DistanceEducation: "Y",
			Point:             &spatial.Point{Lat: -31.9530, Lng: 141.4535},
		},
		{
			// Not geolocatable: must never surface in search.
			SchoolName:       "Unmapped Annex",
			TownSuburb:       "Sydney",
			Postcode:         "2000",
			LevelOfSchooling: "Primary School",
			SelectiveSchool:  "Fully Selective",
		},
	}
}

func testPostcodes() []*Postcode {
	return []*Postcode{
		{Postcode: "2000", Suburb: "Sydney", Point: spatial.Point{Lat: -33.8688, Lng: 151.2093}},
		{Postcode: "2042", Suburb: "Newtown", Point: spatial.Point{Lat: -33.8978, Lng: 151.1785}},
		{Postcode: "2150", Suburb: "Parramatta", Point: spatial.Point{Lat: -33.8151, Lng: 151.0011}},
	}
}

func seedTestData(t *testing.T, repo SchoolRepository) {
	t.Helper()

	if err := repo.BulkInsertSchools(testSchools()); err != nil {
		t.Fatalf("BulkInsertSchools() error = %v", err)
	}

	if err := repo.BulkInsertPostcodes(testPostcodes()); err != nil {
		t.Fatalf("BulkInsertPostcodes() error = %v", err)
	}
}

func TestCreateSchema(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	for _, table := range []string{"schools", "postcodes"} {
		var name string

		err := db.QueryRow(
			"SELECT table_name FROM information_schema.tables WHERE table_name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("Table %s not created: %v", table, err)
		}
	}
}

func TestBulkInsertAndGetSchoolByID(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	count, err := repo.CountSchools()
	if err != nil {
		t.Fatalf("CountSchools() error = %v", err)
	}

	if count != 5 {
		t.Errorf("CountSchools() = %d, want 5", count)
	}

	count, err = repo.CountPostcodes()
	if err != nil {
		t.Fatalf("CountPostcodes() error = %v", err)
	}

	if count != 3 {
		t.Errorf("CountPostcodes() = %d, want 3", count)
	}

	s, err := repo.GetSchoolByID(1)
	if err != nil {
		t.Fatalf("GetSchoolByID() error = %v", err)
	}

	if s == nil {
		t.Fatal("GetSchoolByID(1) = nil, want a school")
	}

	if s.SchoolName != "Sydney Harbour Public School" {
		t.Errorf("SchoolName = %q, want %q", s.SchoolName, "Sydney Harbour Public School")
	}

	if s.EnrolmentFTE == nil || *s.EnrolmentFTE != 420 {
		t.Errorf("EnrolmentFTE = %v, want 420", s.EnrolmentFTE)
	}

	if s.ICSEAValue == nil || *s.ICSEAValue != 1102 {
		t.Errorf("ICSEAValue = %v, want 1102", s.ICSEAValue)
	}

	if s.Point == nil || s.Point.Lat != -33.8688 || s.Point.Lng != 151.2093 {
		t.Errorf("Point = %v, want lat -33.8688 lng 151.2093", s.Point)
	}
}

func TestGetSchoolByIDNotFound(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	s, err := repo.GetSchoolByID(999)
	if err != nil {
		t.Fatalf("GetSchoolByID() error = %v", err)
	}

	if s != nil {
		t.Errorf("GetSchoolByID(999) = %+v, want nil", s)
	}
}

func TestGetSchoolsByIDs(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	schools, err := repo.GetSchoolsByIDs([]int{1, 3, 999})
	if err != nil {
		t.Fatalf("GetSchoolsByIDs() error = %v", err)
	}

	if len(schools) != 2 {
		t.Fatalf("GetSchoolsByIDs() returned %d schools, want 2", len(schools))
	}

	if schools[0].ID != 1 || schools[1].ID != 3 {
		t.Errorf("GetSchoolsByIDs() ids = %d, %d, want 1, 3", schools[0].ID, schools[1].ID)
	}

	schools, err = repo.GetSchoolsByIDs(nil)
	if err != nil {
		t.Fatalf("GetSchoolsByIDs(nil) error = %v", err)
	}

	if len(schools) != 0 {
		t.Errorf("GetSchoolsByIDs(nil) returned %d schools, want 0", len(schools))
	}
}

func TestGetPostcodeCentroid(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	p, err := repo.GetPostcodeCentroid("2042")
	if err != nil {
		t.Fatalf("GetPostcodeCentroid() error = %v", err)
	}

	if p == nil {
		t.Fatal("GetPostcodeCentroid(2042) = nil, want centroid")
	}

	if p.Suburb != "Newtown" {
		t.Errorf("Suburb = %q, want Newtown", p.Suburb)
	}

	if p.Point.Lat != -33.8978 || p.Point.Lng != 151.1785 {
		t.Errorf("Point = %+v, want lat -33.8978 lng 151.1785", p.Point)
	}

	p, err = repo.GetPostcodeCentroid("9999")
	if err != nil {
		t.Fatalf("GetPostcodeCentroid(9999) error = %v", err)
	}

	if p != nil {
		t.Errorf("GetPostcodeCentroid(9999) = %+v, want nil", p)
	}
}

func TestGetSuburbCentroid(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	p, err := repo.GetSuburbCentroid("Sydney", "")
	if err != nil {
		t.Fatalf("GetSuburbCentroid() error = %v", err)
	}

	if p == nil || p.Postcode != "2000" {
		t.Fatalf("GetSuburbCentroid(Sydney) = %+v, want postcode 2000", p)
	}

	// Narrowing by a mismatched postcode yields nothing.
	p, err = repo.GetSuburbCentroid("Sydney", "2042")
	if err != nil {
		t.Fatalf("GetSuburbCentroid() error = %v", err)
	}

	if p != nil {
		t.Errorf("GetSuburbCentroid(Sydney, 2042) = %+v, want nil", p)
	}
}

func TestGetSchoolsBySuburbCaseInsensitive(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	schools, err := repo.GetSchoolsBySuburb("  sydney ", "")
	if err != nil {
		t.Fatalf("GetSchoolsBySuburb() error = %v", err)
	}

	// The unmapped Sydney annex has no coordinates and must be excluded.
	if len(schools) != 1 {
		t.Fatalf("GetSchoolsBySuburb() returned %d schools, want 1", len(schools))
	}

	if schools[0].SchoolName != "Sydney Harbour Public School" {
		t.Errorf("SchoolName = %q, want Sydney Harbour Public School", schools[0].SchoolName)
	}
}

func TestGetGeolocatableSchools(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	schools, err := repo.GetGeolocatableSchools(FilterCriteria{})
	if err != nil {
		t.Fatalf("GetGeolocatableSchools() error = %v", err)
	}

	if len(schools) != 4 {
		t.Errorf("GetGeolocatableSchools() returned %d schools, want 4", len(schools))
	}

	for _, s := range schools {
		if s.Point == nil {
			t.Errorf("school %q has no point", s.SchoolName)
		}
	}

	schools, err = repo.GetGeolocatableSchools(FilterCriteria{Level: "Primary School"})
	if err != nil {
		t.Fatalf("GetGeolocatableSchools(level) error = %v", err)
	}

	if len(schools) != 2 {
		t.Errorf("level filter returned %d schools, want 2", len(schools))
	}

	schools, err = repo.GetGeolocatableSchools(FilterCriteria{HasDistanceEducation: true})
	if err != nil {
		t.Fatalf("GetGeolocatableSchools(distance education) error = %v", err)
	}

	if len(schools) != 1 || schools[0].SchoolName != "Broken Hill Distance School" {
		t.Errorf("distance education filter = %+v, want only Broken Hill Distance School", schools)
	}
}

func TestGetGeolocatableSchoolsNotSelectiveIncludesNull(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	schools, err := repo.GetGeolocatableSchools(FilterCriteria{NotSelective: true})
	if err != nil {
		t.Fatalf("GetGeolocatableSchools() error = %v", err)
	}

	// Two explicit "Not Selective" plus the record with no selectivity
	// value; the partially selective school is out.
	if len(schools) != 3 {
		t.Fatalf("NotSelective filter returned %d schools, want 3", len(schools))
	}

	for _, s := range schools {
		if s.SelectiveSchool != "Not Selective" && s.SelectiveSchool != "" {
			t.Errorf("school %q has selectivity %q", s.SchoolName, s.SelectiveSchool)
		}
	}
}

func TestGetDistinctLevels(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	seedTestData(t, repo)

	levels, err := repo.GetDistinctLevels()
	if err != nil {
		t.Fatalf("GetDistinctLevels() error = %v", err)
	}

	want := []string{"Central/Community School", "Primary School", "Secondary School"}
	if len(levels) != len(want) {
		t.Fatalf("GetDistinctLevels() = %v, want %v", levels, want)
	}

	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("levels[%d] = %q, want %q", i, levels[i], want[i])
		}
	}
}
