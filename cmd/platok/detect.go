package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kestrelcode/platok/internal/output"
	"github.com/kestrelcode/platok/internal/progress"
	"github.com/kestrelcode/platok/pkg/config"
	"github.com/kestrelcode/platok/pkg/detector"
)

var detectCmd = &cobra.Command{
	Use:     "detect <directory>",
	Aliases: []string{"scan"},
	Short:   "Detect near-duplicate submissions in a directory",
	Args:    cobra.ExactArgs(1),
	RunE:    runDetect,
}

func init() {
	detectCmd.Flags().Float64("threshold", 0, "Similarity threshold (0.0-1.0); overrides config")
	detectCmd.Flags().Int("kgram", 0, "K-gram size; overrides config")
	detectCmd.Flags().Int("min-cluster-size", 0, "Minimum cluster size; overrides config")
	detectCmd.Flags().Int("max-representatives", 0, "Max representatives per cluster; overrides config")
	detectCmd.Flags().String("metadata", "", "Path to a metadata file (id,key=value,... per line)")
	detectCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown")
	detectCmd.Flags().StringP("output", "o", "", "Write output to file")

	rootCmd.AddCommand(detectCmd)
}

func loadDetectConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		cfg.SimilarityThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("kgram"); v > 0 {
		cfg.KGramSize = v
	}
	if v, _ := cmd.Flags().GetInt("min-cluster-size"); v > 0 {
		cfg.MinClusterSize = v
	}
	if v, _ := cmd.Flags().GetInt("max-representatives"); v > 0 {
		cfg.MaxRepresentatives = v
	}
	cfg.Clamp()
	return cfg, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	directory := args[0]
	metadataFile, _ := cmd.Flags().GetString("metadata")

	cfg, err := loadDetectConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	d := detector.New(detector.WithConfig(cfg))

	tracker := progress.NewSpinner("Fingerprinting submissions...")
	results, err := d.BatchProcessWithProgress(directory, metadataFile, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("detection failed: %w", err)
	}
	tracker.FinishSuccess()

	formatFlag, _ := cmd.Flags().GetString("format")
	outputFlag, _ := cmd.Flags().GetString("output")

	formatter, err := output.NewFormatter(output.ParseFormat(formatFlag), outputFlag, true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(results) == 0 {
		color.Yellow("No clusters found above the similarity threshold")
		return nil
	}

	report := output.NewClusterReport("Detected Clusters", results)
	return formatter.Output(report)
}
