// Package main is the entry point for the mediadex-fields CLI, which
// inspects the documents of the media index.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/mediadex/internal/config"
	"github.com/kailas-cloud/mediadex/internal/version"
)

// rootCmd is the base command for the mediadex-fields CLI.
var rootCmd = &cobra.Command{
	Use:   "mediadex-fields",
	Short: "Inspect fields of the media index",
	Long: `mediadex-fields reads the same configuration as the mediadex API server
and reports on the documents stored in the configured index.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: config/<ENV>.yaml)")
}

// loadConfig reads the file named by --config, or the one for the ENV environment.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	env := config.GetEnv()
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cfg, err := config.Load(env)
		return cfg, env, err
	}
	cfg, err := config.LoadFile(path)
	return cfg, env, err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
