package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datasculpt/datasculpt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set datasculpt configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("base_url: %s\n", cfg.BaseURL)
		fmt.Printf("model: %s\n", cfg.Model)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		fmt.Printf("temperature: %.3f\n", cfg.Temperature)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Printf("ingest_max_rows: %d\n", cfg.IngestMaxRows)
		fmt.Printf("sample_rows: %d\n", cfg.SampleRows)
		fmt.Printf("pca_sample_cap: %d\n", cfg.PCASampleCap)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "base_url":
			cfg.BaseURL = val
		case "model":
			cfg.Model = val
		case "max_tokens":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid max_tokens: %s", val)
			}
			cfg.MaxTokens = n
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid temperature: %s", val)
			}
			cfg.Temperature = f
		case "http_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid http_timeout_sec: %s", val)
			}
			cfg.HTTPTimeoutSec = n
		case "retry_max_attempts":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid retry_max_attempts: %s", val)
			}
			cfg.RetryMaxAttempts = n
		case "ingest_max_rows":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid ingest_max_rows: %s", val)
			}
			cfg.IngestMaxRows = n
		case "sample_rows":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid sample_rows: %s", val)
			}
			cfg.SampleRows = n
		case "pca_sample_cap":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid pca_sample_cap: %s", val)
			}
			cfg.PCASampleCap = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
