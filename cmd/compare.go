package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/songdna/songdna/internal/app"
	"github.com/songdna/songdna/pkg/audio"
	"github.com/songdna/songdna/pkg/audio/fingerprint"
)

var compareDetailed bool

var compareCmd = &cobra.Command{
	Use:   "compare [fileA] [fileB]",
	Short: "Score the similarity of two WAV files",
	Long: `Fingerprint both files and compute their weighted similarity score.
The score is in [0,1]; higher means more similar. With --detailed the
per-feature similarity breakdown is included.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVarP(&compareDetailed, "detailed", "d", false,
		"include per-feature similarity breakdown")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, err := app.NewContext()
	if err != nil {
		return err
	}

	decoder := audio.NewDecoder()
	defer decoder.Close()

	bufA, err := decoder.DecodeFile(args[0])
	if err != nil {
		return err
	}
	bufB, err := decoder.DecodeFile(args[1])
	if err != nil {
		return err
	}

	fpA := ctx.Builder.Build(bufA)
	fpB := ctx.Builder.Build(bufB)

	result := ctx.Comparator.CompareDetailed(fpA, fpB)

	if ctx.Config.OutputFormat == "table" {
		printComparison(args[0], args[1], result)
		return nil
	}

	return writeOutput(result, ctx.Config.OutputFormat)
}

func printComparison(pathA, pathB string, result *fingerprint.SimilarityResult) {
	fmt.Printf("Similarity: %s vs %s\n", pathA, pathB)
	fmt.Printf("  overall:    %.4f\n", result.OverallSimilarity)
	fmt.Printf("  hash match: %v\n", result.HashMatch)

	if compareDetailed {
		names := make([]string, 0, len(result.FeatureSimilarities))
		for name := range result.FeatureSimilarities {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("  features:")
		for _, name := range names {
			fmt.Printf("    %-20s %.4f\n", name, result.FeatureSimilarities[name])
		}
	}
}
