package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kataras/meshscript"
	"github.com/kataras/meshscript/pkg/logwatch"
	"github.com/kataras/meshscript/pkg/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	summaryLog string
	jsonOutput bool
	watchKind  string
	debounce   time.Duration
)

var geometryCmd = &cobra.Command{
	Use:   "geometry <ml_log>",
	Short: "Parse the log of the Compute Geometric Measures filter",
	Long: `Parses volume, surface area, edge lengths, barycenter, center of mass,
inertia tensor, principal axes and axis momenta from a MeshLab log.

Without --log every field is printed and a field missing from the log is an
error. With --log only the fields that were found are appended to that file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseLog(cmd.OutOrStdout(), "geometry", args[0])
	},
}

var topologyCmd = &cobra.Command{
	Use:   "topology <ml_log>",
	Short: "Parse the log of the Compute Topological Measures filter",
	Long: `Parses vertex, edge and face counts, boundary edges, connected
components, manifoldness, genus and holes from a MeshLab log.

Summary handling is the same as for the geometry command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseLog(cmd.OutOrStdout(), "topology", args[0])
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <ml_log>",
	Short: "Re-parse a MeshLab log every time it is rewritten",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	for _, cmd := range []*cobra.Command{geometryCmd, topologyCmd, watchCmd} {
		cmd.Flags().StringVarP(&summaryLog, "log", "l", "", "Append a summary of the found fields to this file")
	}
	for _, cmd := range []*cobra.Command{geometryCmd, topologyCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the found fields as JSON instead of a summary")
	}

	watchCmd.Flags().StringVarP(&watchKind, "kind", "k", "geometry", "Log kind: geometry, topology")
	watchCmd.Flags().DurationVar(&debounce, "debounce", logwatch.DefaultDebounce, "Quiet period before re-parsing")

	rootCmd.AddCommand(geometryCmd, topologyCmd, watchCmd)
}

func summarySink(out io.Writer) report.Sink {
	if jsonOutput {
		return nil
	}
	if summaryLog == "" {
		return report.Writer(out, report.RequireAll)
	}
	return report.AppendFile(summaryLog)
}

func parseLog(out io.Writer, kind, mlLog string) error {
	sink := summarySink(out)

	var result any
	switch kind {
	case "geometry":
		g, err := meshscript.ParseGeometryTo(mlLog, sink, sugar())
		if err != nil {
			return err
		}
		result = g
	case "topology":
		t, err := meshscript.ParseTopologyTo(mlLog, sink, sugar())
		if err != nil {
			return err
		}
		result = t
	default:
		return fmt.Errorf("unknown log kind %q (must be geometry or topology)", kind)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if summaryLog != "" {
		color.New(color.FgGreen).Fprintf(os.Stderr, "✓ Appended %s summary to %s\n", kind, summaryLog)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	switch watchKind {
	case "geometry", "topology":
	default:
		return fmt.Errorf("unknown log kind %q (must be geometry or topology)", watchKind)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w, err := logwatch.New(args[0], debounce, func(path string) {
		if err := parseLog(out, watchKind, path); err != nil {
			logger.Sugar().Errorf("%v", err)
		}
	})
	if err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx)
}
