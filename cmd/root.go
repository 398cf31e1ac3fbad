package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datasculpt/datasculpt/internal/advisor"
	cfgpkg "github.com/datasculpt/datasculpt/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and logger, shared by subcommands
	cfg    *cfgpkg.Global
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "datasculpt",
	Short: "datasculpt: clean, reshape, join, and explore tabular data",
	Long: `datasculpt loads arbitrary, possibly ill-structured tabular or geographic
files and lets you clean, reshape, join, and statistically explore them:
schema recovery, derived columns, hash joins, correlations, and PCA.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initRuntime)
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datasculpt/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func initRuntime() {
	if debug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// advisorConfig maps the loaded configuration onto an explicit advisory
// config value.
func advisorConfig() advisor.Config {
	if cfg == nil {
		return advisor.Config{}
	}
	return advisor.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
		HTTPTimeout:      time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		RetryBaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		RetryMaxDelay:    time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond,
	}
}

func sampleRows() int {
	if cfg == nil || cfg.SampleRows <= 0 {
		return 5
	}
	return cfg.SampleRows
}
