package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/songdna/songdna/internal/app"
	"github.com/songdna/songdna/pkg/audio"
	"github.com/songdna/songdna/pkg/audio/fingerprint"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract an audio fingerprint from a WAV file",
	Long: `Decode a 16-bit PCM WAV file and extract its fingerprint: the full
feature set, the content hash, and buffer metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, err := app.NewContext()
	if err != nil {
		return err
	}

	decoder := audio.NewDecoder()
	defer decoder.Close()

	buf, err := decoder.DecodeFile(args[0])
	if err != nil {
		return err
	}

	fp := ctx.Builder.Build(buf)
	if fp == nil {
		return fmt.Errorf("no fingerprint produced for %s", args[0])
	}

	if ctx.Config.OutputFormat == "table" {
		printFingerprint(args[0], fp)
		return nil
	}

	return writeOutput(fp, ctx.Config.OutputFormat)
}

func printFingerprint(path string, fp *fingerprint.Fingerprint) {
	f := fp.Features

	fmt.Printf("Fingerprint: %s\n", path)
	fmt.Printf("  hash:               %s\n", fp.Hash)
	fmt.Printf("  duration:           %s\n", fp.Duration)
	fmt.Printf("  sample rate:        %d Hz\n", fp.SampleRate)
	if fp.Key != "" {
		fmt.Printf("  key:                %s\n", fp.Key)
	}
	fmt.Printf("  rms:                %.6f\n", f.RMS)
	fmt.Printf("  zero crossing rate: %.6f\n", f.ZeroCrossingRate)
	fmt.Printf("  spectral centroid:  %.2f Hz\n", f.SpectralCentroid)
	fmt.Printf("  spectral rolloff:   %.2f Hz\n", f.SpectralRolloff)
	fmt.Printf("  spectral bandwidth: %.2f Hz\n", f.SpectralBandwidth)
	fmt.Printf("  spectral flux:      %.4f\n", f.SpectralFlux)
	fmt.Printf("  tempo:              %.1f BPM\n", f.Tempo)
	fmt.Printf("  rhythm strength:    %.4f\n", f.RhythmStrength)
	fmt.Printf("  harmonicity:        %.4f\n", f.Harmonicity)
	fmt.Printf("  inharmonicity:      %.4f\n", f.Inharmonicity)
	fmt.Printf("  energy (log RMS):   %.4f\n", f.Energy)
	fmt.Printf("  dynamic range:      %.2f dB\n", f.DynamicRange)
	fmt.Printf("  attack time:        %.4f s\n", f.AttackTime)
	fmt.Printf("  decay time:         %.4f s\n", f.DecayTime)
}
