package main

import (
	"fmt"
	"os"

	"github.com/kataras/meshscript"
	"github.com/kataras/meshscript/pkg/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose   bool
	logFormat string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meshscript",
	Short: "Write MeshLab filter scripts and parse measurement logs",
	Long: `A tool to generate MeshLab filter script (.mlx) fragments and to extract
geometric and topological measures from the logs MeshLab writes when those
scripts run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = config.LoggingConfig{Level: level, Format: logFormat}.Build()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "meshscript version %s\n", meshscript.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console, json")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sugar returns the CLI logger as a meshscript.Logger.
func sugar() meshscript.Logger {
	if logger == nil {
		return nil
	}
	return logger.Sugar()
}
