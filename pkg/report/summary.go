package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kataras/meshscript/pkg/measure"
	"github.com/kataras/meshscript/pkg/numfmt"
)

// WriteGeometry writes a geometry summary to sink.
func WriteGeometry(sink Sink, g *measure.Geometry) error {
	var (
		text string
		err  error
	)
	switch sink.Policy() {
	case RequireAll:
		text, err = GeometryAll(g)
	default:
		text = GeometryPresent(g)
	}
	if err != nil {
		return err
	}
	return emit(sink, text)
}

// WriteTopology writes a topology summary to sink.
func WriteTopology(sink Sink, t *measure.Topology) error {
	var (
		text string
		err  error
	)
	switch sink.Policy() {
	case RequireAll:
		text, err = TopologyAll(t)
	default:
		text = TopologyPresent(t)
	}
	if err != nil {
		return err
	}
	return emit(sink, text)
}

type has interface{ Has(key string) bool }

// requireKeys returns a MissingFieldError for the first absent key.
func requireKeys(r has, keys ...string) error {
	for _, k := range keys {
		if !r.Has(k) {
			return &MissingFieldError{Field: k}
		}
	}
	return nil
}

// GeometryAll renders every geometry field, failing on the first one
// missing from g. Nothing is rendered on failure.
func GeometryAll(g *measure.Geometry) (string, error) {
	err := requireKeys(g,
		measure.KeyVolumeMM3, measure.KeyVolumeCM3,
		measure.KeyAreaMM2, measure.KeyAreaCM2,
		measure.KeyBarycenter,
		measure.KeyCenterOfMass,
		measure.KeyInertiaTensor,
		measure.KeyPrincipalAxes,
		measure.KeyAxisMomenta,
		measure.KeyTotalEdgeLengthInclFaux,
		measure.KeyTotalEdgeLength,
	)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "volume_mm3 = %s volume_cm3 = %s\n", numfmt.Float(g.VolumeMM3), numfmt.Float(g.VolumeCM3))
	fmt.Fprintf(&sb, "area_mm2 = %s area_cm2 = %s\n", numfmt.Float(g.AreaMM2), numfmt.Float(g.AreaCM2))
	fmt.Fprintf(&sb, "barycenter = %s\n", vec(g.Barycenter))
	fmt.Fprintf(&sb, "center_of_mass = %s\n", vec(g.CenterOfMass))
	fmt.Fprintf(&sb, "inertia_tensor = %s\n", matrix(g.InertiaTensor))
	fmt.Fprintf(&sb, "principal_axes = %s\n", matrix(g.PrincipalAxes))
	fmt.Fprintf(&sb, "axis_momenta = %s\n", vec(g.AxisMomenta))
	fmt.Fprintf(&sb, "total_edge_length_incl_faux = %s\n", numfmt.Float(g.TotalEdgeLengthInclFaux))
	fmt.Fprintf(&sb, "total_edge_length = %s\n", numfmt.Float(g.TotalEdgeLength))
	return sb.String(), nil
}

// GeometryPresent renders only the geometry fields found in the log.
func GeometryPresent(g *measure.Geometry) string {
	var sb strings.Builder
	if g.Has(measure.KeyVolumeMM3) {
		fmt.Fprintf(&sb, "volume_mm3 = %s, volume_cm3 = %s\n", numfmt.Float(g.VolumeMM3), numfmt.Float(g.VolumeCM3))
	}
	if g.Has(measure.KeyAreaMM2) {
		fmt.Fprintf(&sb, "area_mm2 = %s, area_cm2 = %s\n", numfmt.Float(g.AreaMM2), numfmt.Float(g.AreaCM2))
	}
	if g.Has(measure.KeyBarycenter) {
		fmt.Fprintf(&sb, "barycenter = %s\n", vec(g.Barycenter))
	}
	if g.Has(measure.KeyCenterOfMass) {
		fmt.Fprintf(&sb, "center_of_mass = %s\n", vec(g.CenterOfMass))
	}
	if g.Has(measure.KeyInertiaTensor) {
		writeRows(&sb, "inertia_tensor", g.InertiaTensor)
	}
	if g.Has(measure.KeyPrincipalAxes) {
		writeRows(&sb, "principal_axes", g.PrincipalAxes)
	}
	if g.Has(measure.KeyAxisMomenta) {
		fmt.Fprintf(&sb, "axis_momenta = %s\n", vec(g.AxisMomenta))
	}
	if g.Has(measure.KeyTotalEdgeLengthInclFaux) {
		fmt.Fprintf(&sb, "total_edge_length_incl_faux = %s\n", numfmt.Float(g.TotalEdgeLengthInclFaux))
	}
	if g.Has(measure.KeyTotalEdgeLength) {
		fmt.Fprintf(&sb, "total_edge_length = %s\n\n", numfmt.Float(g.TotalEdgeLength))
	}
	return sb.String()
}

// TopologyAll renders every topology field, failing on the first one
// missing from t. Nothing is rendered on failure.
func TopologyAll(t *measure.Topology) (string, error) {
	err := requireKeys(t,
		measure.KeyVertNum, measure.KeyEdgeNum, measure.KeyFaceNum,
		measure.KeyPartNum,
		measure.KeyManifold,
		measure.KeyHoleNum,
		measure.KeyBoundaryEdgeNum,
		measure.KeyUnrefVertNum,
		measure.KeyNonManifoldVert,
		measure.KeyNonManifoldEdge,
		measure.KeyGenus,
	)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nvert_num = %d, edge_num = %d, face_num = %d\n", t.VertNum, t.EdgeNum, t.FaceNum)
	fmt.Fprintf(&sb, "part_num = %d\n\n", t.PartNum)
	fmt.Fprintf(&sb, "manifold (two-manifold) = %s\n\n", numfmt.Bool(t.Manifold))
	fmt.Fprintf(&sb, "hole_num = %s\n\n", t.HoleNum)
	fmt.Fprintf(&sb, "boundry_edge_num = %d\n\n", t.BoundaryEdgeNum)
	fmt.Fprintf(&sb, "unref_vert_num = %d\n\n", t.UnrefVertNum)
	fmt.Fprintf(&sb, "non_manifold_vert = %d\n\n", t.NonManifoldVert)
	fmt.Fprintf(&sb, "non_manifold_edge = %d\n\n", t.NonManifoldEdge)
	fmt.Fprintf(&sb, "genus = %s\n\n", t.Genus)
	return sb.String(), nil
}

// TopologyPresent renders only the topology fields found in the log.
func TopologyPresent(t *measure.Topology) string {
	var sb strings.Builder
	line := func(key, value string) {
		sb.WriteString(key + " = " + value + "\n")
	}

	if t.Has(measure.KeyVertNum) {
		line("vert_num", strconv.Itoa(t.VertNum))
		line("edge_num", strconv.Itoa(t.EdgeNum))
		line("face_num", strconv.Itoa(t.FaceNum))
	}
	if t.Has(measure.KeyPartNum) {
		line("part_num", strconv.Itoa(t.PartNum))
	}
	if t.Has(measure.KeyManifold) {
		line("manifold (two-manifold)", numfmt.Bool(t.Manifold))
	}
	if t.Has(measure.KeyHoleNum) {
		line("hole_num", t.HoleNum.String())
	}
	if t.Has(measure.KeyBoundaryEdgeNum) {
		line("boundry_edge_num", strconv.Itoa(t.BoundaryEdgeNum))
	}
	if t.Has(measure.KeyUnrefVertNum) {
		line("unref_vert_num", strconv.Itoa(t.UnrefVertNum))
	}
	if t.Has(measure.KeyNonManifoldVert) {
		line("non_manifold_vert", strconv.Itoa(t.NonManifoldVert))
	}
	if t.Has(measure.KeyNonManifoldEdge) {
		line("non_manifold_edge", strconv.Itoa(t.NonManifoldEdge))
	}
	if t.Has(measure.KeyGenus) {
		line("genus", t.Genus.String())
	}
	return sb.String()
}

func vec(v measure.Vec3) string {
	return numfmt.Floats(v[:])
}

func matrix(m measure.Mat3) string {
	rows := make([]string, len(m))
	for i, row := range m {
		rows[i] = vec(row)
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

func writeRows(sb *strings.Builder, key string, m measure.Mat3) {
	sb.WriteString(key + " =\n")
	for _, row := range m {
		sb.WriteString("  " + vec(row) + "\n")
	}
}
