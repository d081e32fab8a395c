// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "data", "directory holding the DuckDB database")
}

var rootCmd = &cobra.Command{
	Use:   "schoolfinder",
	Short: "Find and compare NSW schools near you",
	Long: `
schoolfinder locates schools near a suburb or postcode, filters them by
attributes such as schooling level or preschool availability, and compares
up to three side by side.
`,
}

var dbPath string

const dbFile = "schoolfinder.duckdb"

// openDB opens the DuckDB database under --db-path. When mustExist is
// set, a missing database is an error pointing the user at 'load'.
func openDB(mustExist bool) (*sql.DB, error) {
	path := filepath.Join(dbPath, dbFile)

	if mustExist {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s - run 'load' or 'seed' first", path)
		}
	} else if err := os.MkdirAll(dbPath, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
