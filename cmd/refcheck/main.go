// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refcheck CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcheck/internal/secrets"
	"github.com/pdiddy/refcheck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for
// key, else "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the refcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Verify bibliographic references against authoritative metadata",
	Long: `refcheck checks the references of a paper or report against authoritative
metadata sources (Semantic Scholar, arXiv, an optional local mirror). Each
reference is resolved through an ordered fallback chain (DOI lookup, title
search, arXiv ID, raw text) and its cited fields are cross-validated against
the resolved record. Mismatched titles, authors, and DOIs are errors; year
and venue differences are warnings.

Use verify for whole bibliographies, lookup for a single reference, and db
to manage a local metadata mirror.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refcheck.yaml or ~/.config/refcheck/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging of resolution strategies")
}

func initConfig() {
	// .env before viper so REFCHECK_* set there is visible.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refcheck"))
		}
	}

	viper.SetEnvPrefix("REFCHECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// logger builds the CLI logger. Debug level when --verbose.
func logger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// buildConfig assembles the runtime configuration: viper (file and
// env) first, command flags override, defaults fill the rest.
func buildConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		Source: types.SourceConfig{
			APIKey:            viper.GetString("source.api_key"),
			MaxRetries:        viper.GetInt("source.max_retries"),
			RetryBaseDelay:    viper.GetDuration("source.retry_base_delay"),
			BackoffFactor:     viper.GetFloat64("source.backoff_factor"),
			SearchLimit:       viper.GetInt("source.search_limit"),
			RequestsPerSecond: viper.GetFloat64("source.requests_per_second"),
		},
		Verify: types.VerifyConfig{
			Workers:             viper.GetInt("verify.workers"),
			SimilarityThreshold: viper.GetFloat64("verify.similarity_threshold"),
		},
		LocalDB: types.LocalDBConfig{
			Path: viper.GetString("local_db.path"),
		},
	}
	cfg.Source.Timeout = viper.GetDuration("source.timeout")
	cfg.Source.UserAgent = "refcheck/" + version

	if f := cmd.Flags().Lookup("api-key"); f != nil {
		key, _ := cmd.Flags().GetString("api-key")
		if v := secretDefault("semantic-scholar-api-key", key); v != "" {
			cfg.Source.APIKey = v
		}
	}
	if cfg.Source.APIKey == "" {
		cfg.Source.APIKey = os.Getenv("SEMANTIC_SCHOLAR_API_KEY")
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		cfg.Verify.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if f := cmd.Flags().Lookup("threshold"); f != nil && f.Changed {
		cfg.Verify.SimilarityThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if f := cmd.Flags().Lookup("db"); f != nil {
		if path, _ := cmd.Flags().GetString("db"); path != "" {
			cfg.LocalDB.Path = path
		}
	}

	cfg.ApplyDefaults()
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
