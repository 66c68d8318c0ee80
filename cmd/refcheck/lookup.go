// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcheck/internal/report"
	"github.com/pdiddy/refcheck/internal/verify"
	"github.com/pdiddy/refcheck/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Verify a single reference given on the command line",
	Long: `Lookup runs the resolution pipeline for one reference assembled from
flags. At least one of --title, --doi, --url, or --raw is required.`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	citation := types.Citation{}
	citation.Title, _ = cmd.Flags().GetString("title")
	citation.Authors, _ = cmd.Flags().GetStringSlice("author")
	citation.Year, _ = cmd.Flags().GetInt("year")
	citation.Venue, _ = cmd.Flags().GetString("venue")
	citation.URL, _ = cmd.Flags().GetString("url")
	citation.DOI, _ = cmd.Flags().GetString("doi")
	citation.RawText, _ = cmd.Flags().GetString("raw")

	if citation.Title == "" && citation.DOI == "" && citation.URL == "" && citation.RawText == "" {
		return fmt.Errorf("nothing to verify: provide --title, --doi, --url, or --raw")
	}

	cfg := buildConfig(cmd)
	resolver, cleanup, err := newResolver(cfg, logger(cmd))
	if err != nil {
		return err
	}
	defer cleanup()

	verdict := resolver.Resolve(context.Background(), citation)

	reporter := report.New(os.Stdout, 1)
	reporter.OnResult(verify.ResultEnvelope{Citation: citation, Verdict: verdict})
	if len(verdict.Errors()) > 0 {
		return fmt.Errorf("reference has errors")
	}
	return nil
}

func init() {
	lookupCmd.Flags().String("title", "", "cited title")
	lookupCmd.Flags().StringSlice("author", nil, "cited author (repeatable)")
	lookupCmd.Flags().Int("year", 0, "cited year")
	lookupCmd.Flags().String("venue", "", "cited venue or journal")
	lookupCmd.Flags().String("url", "", "cited URL")
	lookupCmd.Flags().String("doi", "", "cited DOI")
	lookupCmd.Flags().String("raw", "", "raw citation text")
	lookupCmd.Flags().Float64("threshold", types.DefaultSimilarityThreshold, "minimum title similarity for fuzzy matches")
	lookupCmd.Flags().String("api-key", "", "Semantic Scholar API key (higher rate limits)")
	lookupCmd.Flags().String("db", "", "local metadata mirror (sqlite), tried before the network")

	rootCmd.AddCommand(lookupCmd)
}
