// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okeefe/schoolfinder/finder"
	"github.com/okeefe/schoolfinder/utils/strutils"
)

var loadOptions struct {
	schoolsCSV   string
	postcodesCSV string
	force        bool
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load the school and postcode reference data from CSV",
	Long: `Loads the schools master dataset and the postcode centroid table into
the local database. The load is refused when the database already holds
data, unless --force is given; pass --force to rebuild from scratch.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if loadOptions.schoolsCSV == "" && loadOptions.postcodesCSV == "" {
			return fmt.Errorf("nothing to load: pass --schools and/or --postcodes")
		}

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

		if count > 0 && !loadOptions.force {
			return fmt.Errorf("database already holds %s schools - pass --force to rebuild", strutils.FormatInt(int64(count)))
		}

		if loadOptions.force {
			if _, err := db.Exec("DELETE FROM schools; DELETE FROM postcodes;"); err != nil {
				return fmt.Errorf("clearing tables: %w", err)
			}
		}

		if loadOptions.schoolsCSV != "" {
			n, err := finder.LoadSchoolsCSV(loadOptions.schoolsCSV, repo)
			if err != nil {
				return fmt.Errorf("loading schools: %w", err)
			}

			fmt.Printf("✅ Loaded %s schools from %s\n", strutils.FormatInt(int64(n)), loadOptions.schoolsCSV)
		}

		if loadOptions.postcodesCSV != "" {
			n, err := finder.LoadPostcodesCSV(loadOptions.postcodesCSV, repo)
			if err != nil {
				return fmt.Errorf("loading postcodes: %w", err)
			}

			fmt.Printf("✅ Loaded %s postcodes from %s\n", strutils.FormatInt(int64(n)), loadOptions.postcodesCSV)
		}

		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadOptions.schoolsCSV, "schools", "", "path to the schools master dataset CSV")
	loadCmd.Flags().StringVar(&loadOptions.postcodesCSV, "postcodes", "", "path to the postcode centroids CSV")
	loadCmd.Flags().BoolVar(&loadOptions.force, "force", false, "rebuild even if the database already holds data")

	rootCmd.AddCommand(loadCmd)
}
