// Package meshscript writes MeshLab filter scripts (.mlx) and parses the
// logs MeshLab produces when those scripts run the geometric and
// topological measurement filters.
//
// The CLI lives in cmd/meshscript; this root package exposes the same
// operations as a Go API. The building blocks are in pkg/filter (script
// fragments), pkg/measure (log parsing) and pkg/report (summaries).
//
// # Writing a script
//
//	script := "section.mlx"
//	meshscript.BeginScript(script)
//	layers, err := meshscript.Section(script, meshscript.SectionOptions{
//	    Axis:     "z",
//	    Offset:   2.5,
//	    PlaneRef: "origin",
//	    Surface:  true,
//	}, meshscript.Layers{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	meshscript.MeasureGeometry(script, layers)
//	meshscript.EndScript(script)
//
// Fragments are appended, never truncated, and values are not XML escaped.
// Callers writing the same script from several goroutines must serialize
// the calls themselves.
//
// # Parsing logs
//
//	g, err := meshscript.ParseGeometry("meshlab.log", "", nil)
//
// With an empty summary path every field is printed to stdout and a field
// missing from the log is an error. With a path, only the fields that were
// found are appended to that file. Use [ParseGeometryTo] with a
// [report.Sink] to choose the behavior explicitly.
//
// Not every field is present for every mesh: volume, center of mass and
// the inertia blocks need a watertight mesh. Check [measure.Geometry.Has]
// before reading a field.
//
// # Logging
//
// Pass a [Logger] implementation to receive progress messages and
// warnings. A nil Logger silences all output. *zap.SugaredLogger satisfies
// the interface.
package meshscript
