package main

import (
	"github.com/kataras/meshscript"
	"github.com/kataras/meshscript/pkg/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	scriptFile   string
	axis         string
	customAxis   string
	offset       float64
	planeRef     string
	surface      bool
	jobFile      string
	currentLayer int
	lastLayer    int
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Append a Compute Planar Section filter to a script",
	Long: `Appends a "Compute Planar Section" filter to the script file, creating it
if needed. Any axis other than x, y or z selects a custom axis; without
--custom-axis the default (0,0,1) is used and a warning is logged.`,
	Args: cobra.NoArgs,
	RunE: runSection,
}

var measureCmd = &cobra.Command{
	Use:       "measure geometry|topology",
	Short:     "Append a measurement filter to a script",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"geometry", "topology"},
	RunE:      runMeasure,
}

var beginCmd = &cobra.Command{
	Use:   "begin",
	Short: "Append the opening of a filter script document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return meshscript.BeginScript(scriptFile)
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Append the closing tag of a filter script document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return meshscript.EndScript(scriptFile)
	},
}

var buildCmd = &cobra.Command{
	Use:     "build",
	Short:   "Write a complete filter script from a YAML job file",
	Example: `  meshscript build --config slices.yaml`,
	Args:    cobra.NoArgs,
	RunE:    runBuild,
}

func init() {
	for _, cmd := range []*cobra.Command{sectionCmd, measureCmd, beginCmd, endCmd} {
		cmd.Flags().StringVarP(&scriptFile, "script", "s", "TEMP3D_default.mlx", "Filter script file to append to")
	}

	sectionCmd.Flags().StringVarP(&axis, "axis", "a", "z", "Plane axis: x, y, z or custom")
	sectionCmd.Flags().StringVar(&customAxis, "custom-axis", "", "Custom axis vector as \"x,y,z\"")
	sectionCmd.Flags().Float64VarP(&offset, "offset", "o", 0, "Plane offset from the reference point")
	sectionCmd.Flags().StringVar(&planeRef, "plane-ref", "origin", "Plane reference: center, min, origin")
	sectionCmd.Flags().BoolVar(&surface, "surface", false, "Also create a triangulated section surface")

	for _, cmd := range []*cobra.Command{sectionCmd, measureCmd} {
		cmd.Flags().IntVar(&currentLayer, "current-layer", 0, "Current layer, passed through")
		cmd.Flags().IntVar(&lastLayer, "last-layer", 0, "Last layer, passed through")
	}

	buildCmd.Flags().StringVarP(&jobFile, "config", "c", "", "YAML job file (required)")
	buildCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(sectionCmd, measureCmd, beginCmd, endCmd, buildCmd)
}

func runSection(cmd *cobra.Command, args []string) error {
	opts := meshscript.SectionOptions{
		Axis:     axis,
		Offset:   offset,
		PlaneRef: planeRef,
		Surface:  surface,
		Logger:   sugar(),
	}
	if customAxis != "" {
		v, err := meshscript.ParseVec3(customAxis)
		if err != nil {
			return err
		}
		opts.CustomAxis = &v
	}

	layers, err := meshscript.Section(scriptFile, opts, meshscript.Layers{Current: currentLayer, Last: lastLayer})
	if err != nil {
		return err
	}
	printLayers(layers)
	return nil
}

func runMeasure(cmd *cobra.Command, args []string) error {
	in := meshscript.Layers{Current: currentLayer, Last: lastLayer}

	var (
		layers meshscript.Layers
		err    error
	)
	switch args[0] {
	case "geometry":
		layers, err = meshscript.MeasureGeometry(scriptFile, in)
	case "topology":
		layers, err = meshscript.MeasureTopology(scriptFile, in)
	}
	if err != nil {
		return err
	}
	printLayers(layers)
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	job, err := config.Load(jobFile)
	if err != nil {
		return err
	}

	// The job's logging settings apply unless --verbose asked for debug output.
	if !verbose {
		if l, err := job.Logging.Build(); err == nil {
			_ = logger.Sync()
			logger = l
		}
	}

	if err := meshscript.BuildScript(job, sugar()); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d section(s) to %s\n", len(job.Sections), job.Script)
	return nil
}

func printLayers(layers meshscript.Layers) {
	if logger != nil {
		logger.Sugar().Debugf("layers: current=%d last=%d", layers.Current, layers.Last)
	}
}
