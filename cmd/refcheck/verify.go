// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/refcheck/internal/bibliography"
	"github.com/pdiddy/refcheck/internal/localdb"
	"github.com/pdiddy/refcheck/internal/report"
	"github.com/pdiddy/refcheck/internal/source"
	"github.com/pdiddy/refcheck/internal/verify"
	"github.com/pdiddy/refcheck/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [bibliography file]",
	Short: "Verify every reference in a bibliography file",
	Long: `Verify loads a YAML or JSON bibliography and checks each reference
concurrently, printing results in original order as they become available.
Exit status is non-zero when any reference has an error-level finding.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)
	log := logger(cmd)

	citations, err := bibliography.Load(args[0])
	if err != nil {
		return err
	}
	for _, d := range bibliography.FindDuplicates(citations) {
		fmt.Fprintf(os.Stderr, "warning: entries %d and %d cite the same work\n", d.First+1, d.Second+1)
	}

	resolver, cleanup, err := newResolver(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	console := io.Writer(os.Stdout)
	if jsonOutput {
		console = io.Discard
	}

	reporter := report.New(console, len(citations))
	stats := resolver.VerifyBibliography(context.Background(), citations, reporter.OnResult)
	reporter.Summary(stats)

	if jsonOutput {
		if err := reporter.WriteJSON(os.Stdout, stats); err != nil {
			return err
		}
	}
	if reporter.HasErrors() {
		return fmt.Errorf("bibliography has reference errors")
	}
	return nil
}

// newResolver wires the metadata client, the optional local mirror,
// and the pipeline. The returned cleanup closes the mirror.
func newResolver(cfg types.Config, log zerolog.Logger) (*verify.Resolver, func(), error) {
	client := source.NewClient(cfg.Source, log)
	resolver := verify.NewResolver(client, cfg.Verify, log)

	cleanup := func() {}
	if cfg.LocalDB.Path != "" {
		store, err := localdb.Open(cfg.LocalDB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening local mirror: %w", err)
		}
		resolver.Local = store
		cleanup = func() { store.Close() }
	}
	return resolver, cleanup, nil
}

func init() {
	verifyCmd.Flags().Int("workers", types.DefaultWorkers, "number of concurrent verification workers")
	verifyCmd.Flags().Float64("threshold", types.DefaultSimilarityThreshold, "minimum title similarity for fuzzy matches")
	verifyCmd.Flags().String("api-key", "", "Semantic Scholar API key (higher rate limits)")
	verifyCmd.Flags().String("db", "", "local metadata mirror (sqlite), tried before the network")
	verifyCmd.Flags().Bool("json", false, "write all verdicts as JSON instead of console blocks")

	rootCmd.AddCommand(verifyCmd)
}
