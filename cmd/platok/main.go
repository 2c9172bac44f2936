// Command platok detects near-duplicate and plagiarized source
// submissions by token-level similarity.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "platok",
	Short: "Near-duplicate and plagiarism detection for code submissions",
	Long: `platok tokenises source submissions, fingerprints them with
k-gram shingling, and clusters submissions above a similarity threshold
so a reviewer can focus on the groups most likely to share code.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
