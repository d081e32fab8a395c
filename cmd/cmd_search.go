// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okeefe/schoolfinder/finder"
)

var searchOptions struct {
	suburb            string
	postcode          string
	radiusKm          float64
	limit             int
	level             string
	preschool         bool
	intensiveEnglish  bool
	opportunityClass  bool
	distanceEducation bool
	notSelective      bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for schools near a suburb or postcode",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if searchOptions.suburb == "" && searchOptions.postcode == "" {
			return fmt.Errorf("pass --suburb and/or --postcode")
		}

		db, err := openDB(true)
		if err != nil {
			return err
		}
		defer db.Close()

		repo, err := finder.NewSchoolRepository(db)
		if err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}

		center, err := finder.NewResolver(repo).Resolve(searchOptions.suburb, searchOptions.postcode)
		if err != nil {
			return fmt.Errorf("resolving location: %w", err)
		}

		if center == nil {
			fmt.Printf("Could not find location for %s %s\n", searchOptions.suburb, searchOptions.postcode)

			return nil
		}

		filters := finder.FilterCriteria{
			Level:                searchOptions.level,
			HasPreschool:         searchOptions.preschool,
			HasIntensiveEnglish:  searchOptions.intensiveEnglish,
			HasOpportunityClass:  searchOptions.opportunityClass,
			HasDistanceEducation: searchOptions.distanceEducation,
			NotSelective:         searchOptions.notSelective,
		}

		results, err := finder.NewEngine(repo).Search(*center, searchOptions.radiusKm, filters, searchOptions.limit)
		if err != nil {
			return fmt.Errorf("searching schools: %w", err)
		}

		if len(results) == 0 {
			fmt.Printf("No schools within %.1f km of %.5f,%.5f\n", searchOptions.radiusKm, center.Lat, center.Lng)

			return nil
		}

		a, b, c, d := strings.Repeat("─", 40), strings.Repeat("─", 24), strings.Repeat("─", 8), strings.Repeat("─", 8)
		fmt.Printf("Schools within %.1f km of %.5f,%.5f:\n", searchOptions.radiusKm, center.Lat, center.Lng)
		fmt.Printf("╭─%-40s─┬─%-24s─┬─%-8s─┬─%-8s╮\n", a, b, c, d)
		fmt.Printf("│ %-40s │ %-24s │ %-8s │ %-8s│\n", "School", "Suburb", "Postcode", "km")
		fmt.Printf("├─%-40s─┼─%-24s─┼─%-8s─┼─%-8s┤\n", a, b, c, d)

		for _, r := range results {
			fmt.Printf("│ %-40.40s │ %-24.24s │ %-8s │ %8.2f│\n", r.SchoolName, r.TownSuburb, r.Postcode, r.DistanceKm)
		}

		fmt.Printf("╰─%-40s─┴─%-24s─┴─%-8s─┴─%-8s╯\n", a, b, c, d)

		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchOptions.suburb, "suburb", "", "suburb name")
	searchCmd.Flags().StringVar(&searchOptions.postcode, "postcode", "", "postcode")
	searchCmd.Flags().Float64Var(&searchOptions.radiusKm, "radius", 5, "search radius in kilometers")
	searchCmd.Flags().IntVar(&searchOptions.limit, "limit", finder.DefaultLimit, "maximum number of results")
	searchCmd.Flags().StringVar(&searchOptions.level, "level", "", "schooling level, e.g. 'Primary School'")
	searchCmd.Flags().BoolVar(&searchOptions.preschool, "preschool", false, "only schools with a preschool")
	searchCmd.Flags().BoolVar(&searchOptions.intensiveEnglish, "intensive-english", false, "only schools with an intensive English centre")
	searchCmd.Flags().BoolVar(&searchOptions.opportunityClass, "opportunity-class", false, "only schools with opportunity classes")
	searchCmd.Flags().BoolVar(&searchOptions.distanceEducation, "distance-education", false, "only schools offering distance education")
	searchCmd.Flags().BoolVar(&searchOptions.notSelective, "not-selective", false, "only non-selective schools")

	rootCmd.AddCommand(searchCmd)
}
