package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/songdna/songdna/internal/app"
	"github.com/songdna/songdna/internal/scan"
)

var (
	scanMaxResults  int
	scanThreshold   float64
	scanConcurrency int
)

var scanCmd = &cobra.Command{
	Use:   "scan [query] [dir]",
	Short: "Rank a library of WAV files against a query file",
	Long: `Fingerprint every WAV file under dir on a worker pool, score each
against the query fingerprint, and print matches above the similarity
threshold in descending order.`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVarP(&scanMaxResults, "max-results", "n", 20,
		"maximum number of matches to report")
	scanCmd.Flags().Float64VarP(&scanThreshold, "threshold", "t", 0.7,
		"minimum similarity for a match")
	scanCmd.Flags().IntVarP(&scanConcurrency, "concurrency", "c", 4,
		"number of parallel fingerprint workers")

	viper.BindPFlag("scan.max_results", scanCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("similarity.match_threshold", scanCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("scan.max_concurrency", scanCmd.Flags().Lookup("concurrency"))
}

func runScan(cmd *cobra.Command, args []string) error {
	appCtx, err := app.NewContext()
	if err != nil {
		return err
	}

	scanner := appCtx.NewScanner()

	result, err := scanner.Scan(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	if appCtx.Config.OutputFormat == "table" {
		printScanResult(result)
		return nil
	}

	return writeOutput(result, appCtx.Config.OutputFormat)
}

func printScanResult(result *scan.Result) {
	fmt.Printf("Scan: %s\n", result.QueryPath)
	fmt.Printf("  scanned: %d files (%d failed) in %s\n", result.Scanned, result.Failed, result.Elapsed.Round(time.Millisecond))

	if result.Report != nil {
		fmt.Printf("  similarity: mean %.4f, median %.4f, stddev %.4f\n",
			result.Report.MeanSimilarity, result.Report.MedianSimilarity, result.Report.StdDevSimilarity)
		fmt.Printf("  tempo: query %.1f BPM, library mean %.1f BPM\n",
			result.Report.QueryTempo, result.Report.MeanTempo)
	}

	if len(result.Matches) == 0 {
		fmt.Println("  no matches above threshold")
		return
	}

	fmt.Println("  matches:")
	for _, m := range result.Matches {
		fmt.Printf("    %2d. %.4f  %s\n", m.Rank, m.Similarity, m.ID)
	}
}
