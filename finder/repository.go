// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/okeefe/schoolfinder/spatial"
)

// SchoolRepository defines the read and bulk-load operations over the
// school and postcode reference tables. Lookups that find nothing return
// a nil record and a nil error: not-found is an expected outcome, not a
// failure.
type SchoolRepository interface {
	// CreateSchema creates the schools and postcodes tables.
	CreateSchema() error
	// BulkInsertSchools inserts a slice of schools in a single transaction.
	BulkInsertSchools(schools []*School) error
	// BulkInsertPostcodes inserts a slice of postcode centroids in a single transaction.
	BulkInsertPostcodes(postcodes []*Postcode) error

	// GetPostcodeCentroid returns the centroid for an exact postcode, or nil.
	GetPostcodeCentroid(postcode string) (*Postcode, error)
	// GetSuburbCentroid returns the centroid for an exact suburb name,
	// optionally narrowed by postcode, or nil.
	GetSuburbCentroid(suburb, postcode string) (*Postcode, error)
	// GetSchoolsBySuburb returns the geolocatable schools whose suburb
	// matches case-insensitively, optionally narrowed by postcode.
	GetSchoolsBySuburb(suburb, postcode string) ([]*School, error)
	// GetGeolocatableSchools returns every school with a coordinate,
	// with the filter's equality predicates pushed down to the store.
	GetGeolocatableSchools(filters FilterCriteria) ([]*School, error)

	// GetSchoolByID returns a single school, or nil when the id is unknown.
	GetSchoolByID(id int) (*School, error)
	// GetSchoolsByIDs returns the schools for the given ids, preserving
	// only those that exist.
	GetSchoolsByIDs(ids []int) ([]*School, error)
	// GetDistinctLevels returns the sorted set of schooling levels.
	GetDistinctLevels() ([]string, error)

	// CountSchools returns the number of school records.
	CountSchools() (int, error)
	// CountPostcodes returns the number of postcode centroids.
	CountPostcodes() (int, error)

	// DB returns the underlying database connection.
	DB() *sql.DB
}

type sqlSchoolRepository struct {
	db *sql.DB
}

// NewSchoolRepository creates a repository over a DuckDB connection.
func NewSchoolRepository(db *sql.DB) (SchoolRepository, error) {
	// DuckDB needs to load the spatial extension
	if _, err := db.Exec(`INSTALL spatial; LOAD spatial;`); err != nil {
		return nil, err
	}

	return &sqlSchoolRepository{db: db}, nil
}

func (r *sqlSchoolRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlSchoolRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS schools_seq START 1;

		CREATE TABLE IF NOT EXISTS schools (
			id INTEGER PRIMARY KEY DEFAULT nextval('schools_seq'),
			school_code VARCHAR,
			school_name VARCHAR,
			street VARCHAR,
			town_suburb VARCHAR,
			postcode VARCHAR,
			phone VARCHAR,
			school_email VARCHAR,
			website VARCHAR,
			fax VARCHAR,
			enrolment_fte DOUBLE,
			indigenous_pct VARCHAR,
			lbote_pct VARCHAR,
			icsea_value INTEGER,
			level_of_schooling VARCHAR,
			selective_school VARCHAR,
			opportunity_class VARCHAR,
			school_specialty_type VARCHAR,
			school_subtype VARCHAR,
			preschool_ind VARCHAR,
			distance_education VARCHAR,
			intensive_english_centre VARCHAR,
			school_gender VARCHAR,
			point POINT_2D
		);

		CREATE TABLE IF NOT EXISTS postcodes (
			postcode VARCHAR PRIMARY KEY,
			suburb VARCHAR,
			point POINT_2D NOT NULL
		);
	`)

	return err
}

// nve maps the empty string to NULL for insertion.
func nve(v string) any {
	if len(v) == 0 {
		return nil
	}

	return v
}

func (r *sqlSchoolRepository) BulkInsertSchools(schools []*School) error {
	if len(schools) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO schools (
			school_code, school_name, street, town_suburb, postcode,
			phone, school_email, website, fax,
			enrolment_fte, indigenous_pct, lbote_pct, icsea_value,
			level_of_schooling, selective_school, opportunity_class,
			school_specialty_type, school_subtype, preschool_ind,
			distance_education, intensive_english_centre, school_gender,
			point
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ST_Point(?, ?))
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range schools {
		var lng, lat any
		if s.Point != nil {
			lng = s.Point.Lng
			lat = s.Point.Lat
		}

		var enrolment any
		if s.EnrolmentFTE != nil {
			enrolment = *s.EnrolmentFTE
		}

		var icsea any
		if s.ICSEAValue != nil {
			icsea = *s.ICSEAValue
		}

		_, err := stmt.Exec(
			nve(s.SchoolCode),
			nve(s.SchoolName),
			nve(s.Street),
			nve(s.TownSuburb),
			nve(s.Postcode),
			nve(s.Phone),
			nve(s.SchoolEmail),
			nve(s.Website),
			nve(s.Fax),
			enrolment,
			nve(s.IndigenousPct),
			nve(s.LBOTEPct),
			icsea,
			nve(s.LevelOfSchooling),
			nve(s.SelectiveSchool),
			nve(s.OpportunityClass),
			nve(s.SpecialtyType),
			nve(s.SchoolSubtype),
			nve(s.PreschoolInd),
			nve(s.DistanceEducation),
			nve(s.IntensiveEnglishCentre),
			nve(s.SchoolGender),
			lng,
			lat,
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return fmt.Errorf("inserting school %q: %w", s.SchoolName, err)
		}
	}

	return tx.Commit()
}

func (r *sqlSchoolRepository) BulkInsertPostcodes(postcodes []*Postcode) error {
	if len(postcodes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO postcodes (postcode, suburb, point)
		VALUES (?, ?, ST_Point(?, ?))
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range postcodes {
		if _, err := stmt.Exec(p.Postcode, nve(p.Suburb), p.Point.Lng, p.Point.Lat); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return fmt.Errorf("inserting postcode %q: %w", p.Postcode, err)
		}
	}

	return tx.Commit()
}

func (r *sqlSchoolRepository) GetPostcodeCentroid(postcode string) (*Postcode, error) {
	return r.getCentroid("SELECT postcode, suburb, point FROM postcodes WHERE postcode = ?", postcode)
}

func (r *sqlSchoolRepository) GetSuburbCentroid(suburb, postcode string) (*Postcode, error) {
	query := "SELECT postcode, suburb, point FROM postcodes WHERE suburb = ?"
	args := []any{suburb}

	if postcode != "" {
		query += " AND postcode = ?"

		args = append(args, postcode)
	}

	return r.getCentroid(query, args...)
}

func (r *sqlSchoolRepository) getCentroid(query string, args ...any) (*Postcode, error) {
	p := &Postcode{}

	var suburb sql.NullString

	err := r.db.QueryRow(query, args...).Scan(&p.Postcode, &suburb, &p.Point)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying centroid: %w", err)
	}

	if suburb.Valid {
		p.Suburb = suburb.String
	}

	return p, nil
}

var schoolSelect = `
	SELECT id, school_code, school_name, street, town_suburb, postcode,
	       phone, school_email, website, fax,
	       enrolment_fte, indigenous_pct, lbote_pct, icsea_value,
	       level_of_schooling, selective_school, opportunity_class,
	       school_specialty_type, school_subtype, preschool_ind,
	       distance_education, intensive_english_centre, school_gender,
	       point
	FROM schools
`

// scanSchool reads one row into a School, mapping NULL columns back to
// the zero values / nil pointers of the model.
func scanSchool(scan func(dest ...any) error) (*School, error) {
	s := &School{}

	var (
		schoolCode, schoolName, street, townSuburb, postcode  sql.NullString
		phone, schoolEmail, website, fax                      sql.NullString
		indigenousPct, lbotePct                               sql.NullString
		levelOfSchooling, selectiveSchool, opportunityClass   sql.NullString
		specialtyType, schoolSubtype, preschoolInd            sql.NullString
		distanceEducation, intensiveEnglish, schoolGender     sql.NullString
		enrolment                                             sql.NullFloat64
		icsea                                                 sql.NullInt64
		point                                                 spatial.NullPoint
	)

	err := scan(
		&s.ID, &schoolCode, &schoolName, &street, &townSuburb, &postcode,
		&phone, &schoolEmail, &website, &fax,
		&enrolment, &indigenousPct, &lbotePct, &icsea,
		&levelOfSchooling, &selectiveSchool, &opportunityClass,
		&specialtyType, &schoolSubtype, &preschoolInd,
		&distanceEducation, &intensiveEnglish, &schoolGender,
		&point,
	)
	if err != nil {
		return nil, err
	}

	s.SchoolCode = schoolCode.String
	s.SchoolName = schoolName.String
	s.Street = street.String
	s.TownSuburb = townSuburb.String
	s.Postcode = postcode.String
	s.Phone = phone.String
	s.SchoolEmail = schoolEmail.String
	s.Website = website.String
	s.Fax = fax.String
	s.IndigenousPct = indigenousPct.String
	s.LBOTEPct = lbotePct.String
	s.LevelOfSchooling = levelOfSchooling.String
	s.SelectiveSchool = selectiveSchool.String
	s.OpportunityClass = opportunityClass.String
	s.SpecialtyType = specialtyType.String
	s.SchoolSubtype = schoolSubtype.String
	s.PreschoolInd = preschoolInd.String
	s.DistanceEducation = distanceEducation.String
	s.IntensiveEnglishCentre = intensiveEnglish.String
	s.SchoolGender = schoolGender.String

	if enrolment.Valid {
		v := enrolment.Float64
		s.EnrolmentFTE = &v
	}

	if icsea.Valid {
		v := int(icsea.Int64)
		s.ICSEAValue = &v
	}

	if point.Valid {
		p := point.Point
		s.Point = &p
	}

	return s, nil
}

func (r *sqlSchoolRepository) listSchools(query string, args []any) ([]*School, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []*School

	for rows.Next() {
		s, err := scanSchool(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning school: %w", err)
		}

		schools = append(schools, s)
	}

	return schools, rows.Err()
}

func (r *sqlSchoolRepository) GetSchoolsBySuburb(suburb, postcode string) ([]*School, error) {
	query := schoolSelect + `
		WHERE point IS NOT NULL
		AND lower(trim(town_suburb)) = lower(trim(?))
	`
	args := []any{suburb}

	if postcode != "" {
		query += " AND postcode = ?"

		args = append(args, postcode)
	}

	return r.listSchools(query, args)
}

func (r *sqlSchoolRepository) GetGeolocatableSchools(filters FilterCriteria) ([]*School, error) {
	query := schoolSelect + " WHERE point IS NOT NULL"

	args := []any{}

	if filters.Level != "" {
		query += " AND level_of_schooling = ?"

		args = append(args, filters.Level)
	}

	if filters.HasPreschool {
		query += " AND preschool_ind = 'Y'"
	}

	if filters.HasIntensiveEnglish {
		query += " AND intensive_english_centre = 'Y'"
	}

	if filters.HasOpportunityClass {
		query += " AND opportunity_class = 'Y'"
	}

	if filters.HasDistanceEducation {
		query += " AND distance_education = 'Y'"
	}

	if filters.NotSelective {
		// A NULL selectivity field counts as non-selective.
		query += " AND (selective_school = 'Not Selective' OR selective_school IS NULL)"
	}

	return r.listSchools(query, args)
}

func (r *sqlSchoolRepository) GetSchoolByID(id int) (*School, error) {
	s, err := scanSchool(func(dest ...any) error {
		return r.db.QueryRow(schoolSelect+" WHERE id = ?", id).Scan(dest...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying school %d: %w", id, err)
	}

	return s, nil
}

func (r *sqlSchoolRepository) GetSchoolsByIDs(ids []int) ([]*School, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))

	for i, id := range ids {
		args[i] = id
	}

	return r.listSchools(schoolSelect+" WHERE id IN ("+placeholders+") ORDER BY id", args)
}

func (r *sqlSchoolRepository) GetDistinctLevels() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT level_of_schooling
		FROM schools
		WHERE level_of_schooling IS NOT NULL AND level_of_schooling != ''
		ORDER BY level_of_schooling
	`)
	if err != nil {
		return nil, fmt.Errorf("querying levels: %w", err)
	}
	defer rows.Close()

	var levels []string

	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("scanning level: %w", err)
		}

		levels = append(levels, level)
	}

	return levels, rows.Err()
}

func (r *sqlSchoolRepository) CountSchools() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM schools").Scan(&count)

	return count, err
}

func (r *sqlSchoolRepository) CountPostcodes() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM postcodes").Scan(&count)

	return count, err
}
