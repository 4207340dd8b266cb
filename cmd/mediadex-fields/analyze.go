package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/analyze"
	dbstore "github.com/kailas-cloud/mediadex/internal/db/store"
	logpkg "github.com/kailas-cloud/mediadex/internal/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Profile field presence, types and cardinality",
	Long: `analyze fetches a random sample of documents from the media index and
reports, for every field, how many documents carry it, which JSON types it
holds and how many distinct values it takes. Nested objects are reported with
dotted paths and objects inside arrays as field[i].`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("sample-size", analyze.DefaultSampleSize, "number of random documents to sample")
	analyzeCmd.Flags().String("format", analyze.FormatTable, "stdout format: table or json")
	analyzeCmd.Flags().String("output", "", "also write the JSON report to this file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	sampleSize, _ := cmd.Flags().GetInt("sample-size")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if format != analyze.FormatTable && format != analyze.FormatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, analyze.FormatTable, analyze.FormatJSON)
	}

	cfg, env, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbstore.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}

	logger.Info("Sampling documents",
		zap.String("driver", cfg.Store.Driver),
		zap.String("index", cfg.Store.Index),
		zap.Int("sample_size", sampleSize),
	)
	docs, err := analyze.Sample(ctx, store, sampleSize)
	if err != nil {
		return err
	}
	logger.Info("Retrieved documents", zap.Int("count", len(docs)))

	report := analyze.Analyze(docs)
	if err := analyze.Write(cmd.OutOrStdout(), report, format); err != nil {
		return err
	}

	if output != "" {
		if err := writeReportFile(output, report); err != nil {
			return err
		}
		logger.Info("Report saved", zap.String("path", output))
	}
	return nil
}

func writeReportFile(path string, report analyze.Report) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := analyze.WriteJSON(f, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}
