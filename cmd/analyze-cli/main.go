// Package main is a one-shot CLI for running the analysis pipeline locally.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trend-orchestrator/internal/di"
	"trend-orchestrator/internal/domain"
	"trend-orchestrator/internal/infra/config"
)

var (
	platform    string
	industry    string
	recency     string
	duration    int
	tier        string
	keywords    []string
	bypassCache bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze-cli",
	Short: "Run one trend analysis pipeline and print the result as JSON",
	Long: `analyze-cli runs the full trend analysis pipeline against the configured
sources and generation backend, then prints the resulting summaries and
posting schedule as JSON on stdout.

Example usage:
  analyze-cli --industry fitness --platform Instagram
  analyze-cli --industry tech --tier high_quality --duration 14 -k AI -k wearables`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&platform, "platform", "p", "Instagram", "target social platform")
	rootCmd.Flags().StringVarP(&industry, "industry", "i", "", "industry to analyze (required)")
	rootCmd.Flags().StringVar(&recency, "recency", string(domain.RecencyWeek), "lookback window: recent_day, recent_week or recent_month")
	rootCmd.Flags().IntVarP(&duration, "duration", "d", 7, "schedule length in days: 7, 14 or 30")
	rootCmd.Flags().StringVar(&tier, "tier", string(domain.TierBalanced), "quality tier: low_cost, balanced or high_quality")
	rootCmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "keyword focus, repeatable")
	rootCmd.Flags().BoolVar(&bypassCache, "no-cache", false, "skip the result cache lookup")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	_ = rootCmd.MarkFlagRequired("industry")
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg := config.Load()

	logOut := io.Discard
	if verbose {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewJSONHandler(logOut, nil))

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	components, err := di.NewApplicationComponents(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}

	req := domain.AnalysisRequest{
		TargetPlatform: platform,
		Industry:       industry,
		Recency:        domain.RecencyWindow(recency),
		Duration:       domain.ScheduleDuration(duration),
		Tier:           domain.QualityTier(tier),
		Keywords:       keywords,
		BypassCache:    bypassCache,
	}

	result, err := components.AnalyzeUsecase.Execute(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
