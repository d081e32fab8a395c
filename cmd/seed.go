// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okeefe/schoolfinder/finder"
)

const seedFile = "cmd/testdata/seed.json"

// SeedData is the JSON seed file format.
type SeedData struct {
	Schools   []*finder.School   `json:"schools"`
	Postcodes []*finder.Postcode `json:"postcodes"`
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with the sample data from cmd/testdata/seed.json",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := openDB(false)
			if err != nil {
				return err
			}
			defer db.Close()

			repo, err := finder.NewSchoolRepository(db)
			if err != nil {
				return fmt.Errorf("initializing repository: %w", err)
			}

			if err := repo.CreateSchema(); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}

			count, err := repo.CountSchools()
			if err != nil {
				return fmt.Errorf("counting schools: %w", err)
			}

			if count > 0 {
				fmt.Printf("Database already holds %d schools, skipping seed.\n", count)

				return nil
			}

			data, err := os.ReadFile(seedFile)
			if err != nil {
				return fmt.Errorf("reading seed file: %w", err)
			}

			var seed SeedData
			if err := json.Unmarshal(data, &seed); err != nil {
				return fmt.Errorf("parsing seed file: %w", err)
			}

			if err := repo.BulkInsertSchools(seed.Schools); err != nil {
				return fmt.Errorf("inserting schools: %w", err)
			}

			if err := repo.BulkInsertPostcodes(seed.Postcodes); err != nil {
				return fmt.Errorf("inserting postcodes: %w", err)
			}

			fmt.Printf("Database seeded with %d schools and %d postcodes.\n", len(seed.Schools), len(seed.Postcodes))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}
