package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "songdna",
	Short: "Audio fingerprinting and similarity analysis",
	Long: `songdna extracts compact, comparable fingerprints from decoded audio
and scores similarity between them.

A fingerprint aggregates time-domain statistics (RMS, zero crossings,
dynamic range, attack/decay), frequency-domain features (spectral centroid,
rolloff, flux, harmonicity), rhythm estimates (tempo, rhythm strength), and
a content hash. Two fingerprints compare to a similarity score in [0,1].

Key commands:
- analyze: fingerprint a single WAV file
- compare: score the similarity of two WAV files
- scan:    rank a library of WAV files against a query`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/songdna/songdna.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, yaml, table)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "songdna"))
		viper.AddConfigPath("/etc/songdna")
		viper.AddConfigPath(".")
		viper.SetConfigName("songdna")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SONGDNA")
	viper.AutomaticEnv()

	// A missing config file is fine; defaults cover everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
