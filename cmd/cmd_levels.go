// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okeefe/schoolfinder/finder"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the distinct schooling levels in the dataset",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDB(true)
		if err != nil {
			return err
		}
		defer db.Close()

		repo, err := finder.NewSchoolRepository(db)
		if err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}

		levels, err := repo.GetDistinctLevels()
		if err != nil {
			return fmt.Errorf("listing levels: %w", err)
		}

		for _, level := range levels {
			fmt.Println(level)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}
