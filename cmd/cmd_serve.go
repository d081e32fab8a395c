// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okeefe/schoolfinder/finder"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the school finder JSON API server",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Optional .env for deployment settings; flags win over it.
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("skipping .env: %v", err)
		}

		if listenAddr == "" {
			listenAddr = os.Getenv("LISTEN_ADDR")
		}

		if listenAddr == "" {
			listenAddr = "localhost:8080"
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

		server := finder.NewServer(repo)

		fmt.Println("🏫 School finder server starting...")
		fmt.Printf("📍 Listening on http://%s\n", listenAddr)

		return server.Run(listenAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (default localhost:8080)")

	rootCmd.AddCommand(serveCmd)
}
