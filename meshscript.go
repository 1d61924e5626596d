package meshscript

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kataras/meshscript/pkg/config"
	"github.com/kataras/meshscript/pkg/filter"
	"github.com/kataras/meshscript/pkg/measure"
	"github.com/kataras/meshscript/pkg/report"
)

// Version is the meshscript release.
const Version = "0.3.0"

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Layers is the caller's layer bookkeeping. The emitters never change it
// and hand it back so calls can be chained.
type Layers struct {
	Current int
	Last    int
}

// SectionOptions configures a planar section.
type SectionOptions struct {
	Axis       string       // "x", "y", "z"; anything else selects a custom axis
	CustomAxis *filter.Vec3 // nil = (0, 0, 1)
	Offset     float64
	PlaneRef   string // "center", "min" or "origin"; empty = origin
	Surface    bool
	// Logger also receives the warning for a custom axis without a vector.
	// With a nil Logger that warning is dropped and (0, 0, 1) is used silently.
	Logger Logger
}

func logInfo(l Logger, f string, a ...any) {
	if l != nil {
		l.Infof(f, a...)
	}
}

func logWarn(l Logger, f string, a ...any) {
	if l != nil {
		l.Warnf(f, a...)
	}
}

func emitter(script string, l Logger) *filter.Emitter {
	e := filter.NewEmitter(script)
	if l != nil {
		e.Warn = l.Warnf
	}
	return e
}

// Section appends a "Compute Planar Section" filter to script.
func Section(script string, opts SectionOptions, layers Layers) (Layers, error) {
	ref, err := filter.ParsePlaneRef(opts.PlaneRef)
	if err != nil {
		return layers, fmt.Errorf("section: %w", err)
	}
	s := filter.Section{
		Axis:       filter.ParseAxis(opts.Axis),
		CustomAxis: opts.CustomAxis,
		Offset:     opts.Offset,
		PlaneRef:   ref,
		Surface:    opts.Surface,
	}
	logInfo(opts.Logger, "Adding planar section (axis %s, offset %g) to %s", s.Axis, s.Offset, script)
	if err := emitter(script, opts.Logger).Section(s); err != nil {
		return layers, fmt.Errorf("section: %w", err)
	}
	return layers, nil
}

// MeasureGeometry appends the "Compute Geometric Measures" filter to script.
func MeasureGeometry(script string, layers Layers) (Layers, error) {
	if err := filter.NewEmitter(script).MeasureGeometry(); err != nil {
		return layers, fmt.Errorf("measure geometry: %w", err)
	}
	return layers, nil
}

// MeasureTopology appends the "Compute Topological Measures" filter to script.
func MeasureTopology(script string, layers Layers) (Layers, error) {
	if err := filter.NewEmitter(script).MeasureTopology(); err != nil {
		return layers, fmt.Errorf("measure topology: %w", err)
	}
	return layers, nil
}

// BeginScript appends the opening of a filter script document.
func BeginScript(script string) error {
	return filter.NewEmitter(script).Begin()
}

// EndScript appends the closing tag of a filter script document.
func EndScript(script string) error {
	return filter.NewEmitter(script).End()
}

// BuildScript writes a complete filter script described by job: framing,
// every section in order, then the requested measurement filters.
func BuildScript(job *config.Job, l Logger) error {
	if job.Overwrite {
		logInfo(l, "Truncating %s...", job.Script)
		if err := os.WriteFile(job.Script, nil, 0644); err != nil {
			return fmt.Errorf("truncate script: %w", err)
		}
	}

	e := emitter(job.Script, l)
	if err := e.Begin(); err != nil {
		return err
	}
	for i, spec := range job.Sections {
		logInfo(l, "Adding section %d/%d...", i+1, len(job.Sections))
		if err := e.Section(spec.Section()); err != nil {
			return fmt.Errorf("sections[%d]: %w", i, err)
		}
	}
	if job.MeasureGeometry {
		logInfo(l, "Adding geometric measures...")
		if err := e.MeasureGeometry(); err != nil {
			return err
		}
	}
	if job.MeasureTopology {
		logInfo(l, "Adding topological measures...")
		if err := e.MeasureTopology(); err != nil {
			return err
		}
	}
	return e.End()
}

// ParseGeometry parses the geometry measures in mlLog. With an empty log
// path every field is printed to stdout and a missing field is an error;
// otherwise the fields that were found are appended to log.
func ParseGeometry(mlLog, log string, l Logger) (*measure.Geometry, error) {
	return ParseGeometryTo(mlLog, report.ForPath(log), l)
}

// ParseGeometryTo is ParseGeometry with an explicit summary sink. A nil
// sink skips the summary.
func ParseGeometryTo(mlLog string, sink report.Sink, l Logger) (*measure.Geometry, error) {
	logInfo(l, "Parsing geometric measures from %s...", mlLog)
	g, err := measure.ParseGeometryFile(mlLog)
	if err != nil {
		return nil, err
	}
	logInfo(l, "Found %d geometry field(s)", len(g.Keys()))
	if !g.Has(measure.KeyVolumeMM3) {
		logWarn(l, "No volume in %s; the mesh may not be watertight", mlLog)
	}
	if !g.InertiaSymmetric(1e-6) {
		logWarn(l, "Inertia tensor in %s is not symmetric", mlLog)
	}

	if sink != nil {
		if err := report.WriteGeometry(sink, g); err != nil {
			return g, fmt.Errorf("geometry summary: %w", err)
		}
	}
	return g, nil
}

// ParseTopology parses the topology measures in mlLog. Summary handling
// follows ParseGeometry.
func ParseTopology(mlLog, log string, l Logger) (*measure.Topology, error) {
	return ParseTopologyTo(mlLog, report.ForPath(log), l)
}

// ParseTopologyTo is ParseTopology with an explicit summary sink. A nil
// sink skips the summary.
func ParseTopologyTo(mlLog string, sink report.Sink, l Logger) (*measure.Topology, error) {
	logInfo(l, "Parsing topological measures from %s...", mlLog)
	t, err := measure.ParseTopologyFile(mlLog)
	if err != nil {
		return nil, err
	}
	logInfo(l, "Found %d topology field(s)", len(t.Keys()))
	if !t.Manifold {
		logWarn(l, "Mesh in %s is not two-manifold", mlLog)
	}

	if sink != nil {
		if err := report.WriteTopology(sink, t); err != nil {
			return t, fmt.Errorf("topology summary: %w", err)
		}
	}
	return t, nil
}

// ParseVec3 parses a comma-separated "x,y,z" vector.
func ParseVec3(s string) (filter.Vec3, error) {
	var v filter.Vec3
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid vector %q: want 3 comma-separated values", s)
	}

	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return v, fmt.Errorf("invalid vector component %q: %w", trimmed, err)
		}
		v[i] = f
	}
	return v, nil
}
