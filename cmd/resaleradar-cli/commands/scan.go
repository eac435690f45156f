package commands

import (
	"log/slog"
	"os"
	"time"

	"resaleradar/cmd/resaleradar-cli/utils"
	"resaleradar/lib/configutil"
	"resaleradar/services/scanner"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

var scanConfig *string
var scanTop *int

func init() {
	scanConfig = scanCmd.Flags().String("config", "resaleradar.json5", "The scanner config file to read.")
	scanTop = scanCmd.Flags().Int("top", 0, "Show only the N best listings (overrides top_n from the config).")
	rootCmd.AddCommand(scanCmd)
}

func readScanConfig() scanner.Config {
	cfg := scanner.DefaultConfig()

	fileCfg, err := configutil.ReadConfig[scanner.Config](*scanConfig)
	if os.IsNotExist(err) {
		slog.Info("no config file found, using defaults", "path", *scanConfig)
		return cfg
	}
	if err != nil {
		slog.Error("failed to read config", "path", *scanConfig, "err", err)
		os.Exit(1)
	}
	if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
		slog.Error("failed to merge config", "err", err)
		os.Exit(1)
	}
	return cfg
}

var scanCmd = &cobra.Command{
	Use:   "scan [--config <path>] [--top <n>] <search-url> [more-urls...]",
	Short: "Fetches search pages, scores every listing and prints a ranked table.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readScanConfig()
		if *scanTop > 0 {
			cfg.TopN = *scanTop
		}

		s, err := scanner.New(cfg)
		if err != nil {
			slog.Error("failed to build scanner", "err", err)
			os.Exit(1)
		}
		defer s.Close()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		t1 := time.Now()
		ranked := s.Scan(ctx, args)
		slog.Info("scan time", "seconds", time.Since(t1).Seconds())

		utils.RenderRanked(ranked, cfg.TopN)
	},
}
