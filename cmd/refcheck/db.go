// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcheck/internal/localdb"
	"github.com/pdiddy/refcheck/pkg/types"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the local metadata mirror",
	Long: `Db manages a local SQLite mirror of paper metadata. A populated mirror
answers DOI and title lookups without network round-trips and is consulted
before any remote source during verification.`,
}

var dbImportCmd = &cobra.Command{
	Use:   "import [dump.jsonl]",
	Short: "Load a newline-delimited JSON metadata dump into the mirror",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBImport,
}

func runDBImport(cmd *cobra.Command, args []string) error {
	store, err := openMirror(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening dump: %w", err)
	}
	defer f.Close()

	summary, err := store.Import(context.Background(), f, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed to import", summary.Failed)
	}
	return nil
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report mirror contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openMirror(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d papers mirrored\n", n)
		return nil
	},
}

func openMirror(cmd *cobra.Command) (*localdb.Store, error) {
	cfg := buildConfig(cmd)
	if cfg.LocalDB.Path == "" {
		cfg.LocalDB.Path = "refcheck.db"
	}
	return localdb.Open(types.LocalDBConfig{Path: cfg.LocalDB.Path})
}

func init() {
	dbCmd.PersistentFlags().String("db", "", "mirror database file (default: refcheck.db)")
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbStatsCmd)
	rootCmd.AddCommand(dbCmd)
}
