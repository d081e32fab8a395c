// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/okeefe/schoolfinder/spatial"
)

// loadBatchSize is the number of rows committed per transaction during a
// bulk load.
const loadBatchSize = 100

// parseFloat parses a float column, returning nil for blanks and
// unparsable values.
func parseFloat(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}

	return &f
}

// parseInt parses an int column, accepting the "123.0" form the source
// exports, returning nil for blanks and unparsable values.
func parseInt(value string) *int {
	f := parseFloat(value)
	if f == nil {
		return nil
	}

	i := int(*f)

	return &i
}

// csvRow gives name-keyed access to a CSV record.
type csvRow struct {
	index  map[string]int
	record []string
}

func (r *csvRow) get(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.record) {
		return ""
	}

	return r.record[i]
}

// readCSV reads all rows of a header-keyed CSV file.
func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var rows []csvRow

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		rows = append(rows, csvRow{index: index, record: record})
	}

	return rows, nil
}

func newLoadBar(n int, description string) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func schoolFromRow(row *csvRow) *School {
	s := &School{
		SchoolCode:             row.get("School_code"),
		SchoolName:             row.get("School_name"),
		Street:                 row.get("Street"),
		TownSuburb:             strings.TrimSpace(row.get("Town_suburb")),
		Postcode:               strings.TrimSpace(row.get("Postcode")),
		Phone:                  row.get("Phone"),
		SchoolEmail:            row.get("School_Email"),
		Website:                row.get("Website"),
		Fax:                    row.get("Fax"),
		EnrolmentFTE:           parseFloat(row.get("latest_year_enrolment_FTE")),
		IndigenousPct:          row.get("Indigenous_pct"),
		LBOTEPct:               row.get("LBOTE_pct"),
		ICSEAValue:             parseInt(row.get("ICSEA_value")),
		LevelOfSchooling:       row.get("Level_of_schooling"),
		SelectiveSchool:        row.get("Selective_school"),
		OpportunityClass:       row.get("Opportunity_class"),
		SpecialtyType:          row.get("School_specialty_type"),
		SchoolSubtype:          row.get("School_subtype"),
		PreschoolInd:           row.get("Preschool_ind"),
		DistanceEducation:      row.get("Distance_education"),
		IntensiveEnglishCentre: row.get("Intensive_english_centre"),
		SchoolGender:           row.get("School_gender"),
	}

	// A record missing either coordinate loads without a point and is
	// never considered by the search engine.
	lat := parseFloat(row.get("Latitude"))
	lng := parseFloat(row.get("Longitude"))

	if lat != nil && lng != nil {
		s.Point = &spatial.Point{Lat: *lat, Lng: *lng}
	}

	return s
}

// LoadSchoolsCSV bulk-loads the schools master dataset into the store.
// Returns the number of rows loaded.
func LoadSchoolsCSV(path string, repo SchoolRepository) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	bar := newLoadBar(len(rows), "Loading schools")

	var batch []*School

	loaded := 0

	for i := range rows {
		batch = append(batch, schoolFromRow(&rows[i]))

		if len(batch) >= loadBatchSize {
			if err := repo.BulkInsertSchools(batch); err != nil {
				return loaded, fmt.Errorf("inserting school batch: %w", err)
			}

			loaded += len(batch)
			batch = batch[:0]
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if len(batch) > 0 {
		if err := repo.BulkInsertSchools(batch); err != nil {
			return loaded, fmt.Errorf("inserting school batch: %w", err)
		}

		loaded += len(batch)
	}

	return loaded, nil
}

// LoadPostcodesCSV bulk-loads the postcode centroid reference table.
// Returns the number of rows loaded.
func LoadPostcodesCSV(path string, repo SchoolRepository) (int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	bar := newLoadBar(len(rows), "Loading postcodes")

	var batch []*Postcode

	loaded := 0

	for i := range rows {
		row := &rows[i]

		lat := parseFloat(row.get("latitude"))
		lng := parseFloat(row.get("longitude"))

		if lat == nil || lng == nil {
			// Centroids without coordinates are useless for lookup.
			continue
		}

		batch = append(batch, &Postcode{
			Postcode: strings.TrimSpace(row.get("postcode")),
			Suburb:   row.get("suburb"),
			Point:    spatial.Point{Lat: *lat, Lng: *lng},
		})

		if len(batch) >= loadBatchSize {
			if err := repo.BulkInsertPostcodes(batch); err != nil {
				return loaded, fmt.Errorf("inserting postcode batch: %w", err)
			}

			loaded += len(batch)
			batch = batch[:0]
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if len(batch) > 0 {
		if err := repo.BulkInsertPostcodes(batch); err != nil {
			return loaded, fmt.Errorf("inserting postcode batch: %w", err)
		}

		loaded += len(batch)
	}

	return loaded, nil
}
