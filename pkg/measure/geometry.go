package measure

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Geometry result keys.
const (
	KeyVolumeMM3               = "volume_mm3"
	KeyVolumeCM3               = "volume_cm3"
	KeyAreaMM2                 = "area_mm2"
	KeyAreaCM2                 = "area_cm2"
	KeyTotalEdgeLength         = "total_edge_length"
	KeyTotalEdgeLengthInclFaux = "total_edge_length_incl_faux"
	KeyBarycenter              = "barycenter"
	KeyCenterOfMass            = "center_of_mass"
	KeyInertiaTensor           = "inertia_tensor"
	KeyPrincipalAxes           = "principal_axes"
	KeyAxisMomenta             = "axis_momenta"
)

var geometryKeys = []string{
	KeyVolumeMM3, KeyVolumeCM3,
	KeyAreaMM2, KeyAreaCM2,
	KeyTotalEdgeLength, KeyTotalEdgeLengthInclFaux,
	KeyBarycenter, KeyCenterOfMass,
	KeyInertiaTensor, KeyPrincipalAxes, KeyAxisMomenta,
}

// Vec3 is a 3-component vector read from the log.
type Vec3 [3]float64

// MarshalJSON encodes v as a 3-element array. NaN and infinite
// components, which JSON cannot represent, become null.
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{jsonNumber(v[0]), jsonNumber(v[1]), jsonNumber(v[2])})
}

func jsonNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// Mat3 is a 3x3 matrix stored row-major in log order.
type Mat3 [3]Vec3

// Dense returns m as a gonum matrix.
func (m Mat3) Dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for _, row := range m {
		data = append(data, row[:]...)
	}
	return mat.NewDense(3, 3, data)
}

// Geometry holds the results of the "Compute Geometric Measures" filter.
// Fields are only meaningful when Has reports them present: a mesh that is
// not watertight or manifold produces a partial log.
type Geometry struct {
	VolumeMM3               float64
	VolumeCM3               float64
	AreaMM2                 float64
	AreaCM2                 float64
	TotalEdgeLength         float64
	TotalEdgeLengthInclFaux float64
	Barycenter              Vec3
	CenterOfMass            Vec3
	InertiaTensor           Mat3
	PrincipalAxes           Mat3
	AxisMomenta             Vec3

	found map[string]bool
}

func (g *Geometry) mark(keys ...string) {
	if g.found == nil {
		g.found = make(map[string]bool, len(geometryKeys))
	}
	for _, k := range keys {
		g.found[k] = true
	}
}

// Has reports whether key was found in the log.
func (g *Geometry) Has(key string) bool {
	return g.found[key]
}

// Keys returns the keys found in the log in their canonical order.
func (g *Geometry) Keys() []string {
	return presentKeys(geometryKeys, g.found)
}

// InertiaMatrix returns the inertia tensor, or nil if it was not logged.
func (g *Geometry) InertiaMatrix() *mat.Dense {
	if !g.Has(KeyInertiaTensor) {
		return nil
	}
	return g.InertiaTensor.Dense()
}

// PrincipalAxesMatrix returns the principal axes, or nil if they were not logged.
func (g *Geometry) PrincipalAxesMatrix() *mat.Dense {
	if !g.Has(KeyPrincipalAxes) {
		return nil
	}
	return g.PrincipalAxes.Dense()
}

// InertiaSymmetric reports whether the logged inertia tensor is symmetric
// within tol. A missing tensor is reported as symmetric.
func (g *Geometry) InertiaSymmetric(tol float64) bool {
	m := g.InertiaMatrix()
	if m == nil {
		return true
	}
	return mat.EqualApprox(m, m.T(), tol)
}

// MarshalJSON encodes the present fields keyed by their result keys.
func (g *Geometry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(g.found))
	for _, k := range g.Keys() {
		out[k] = g.value(k)
	}
	return json.Marshal(out)
}

func (g *Geometry) value(key string) any {
	switch key {
	case KeyVolumeMM3:
		return jsonNumber(g.VolumeMM3)
	case KeyVolumeCM3:
		return jsonNumber(g.VolumeCM3)
	case KeyAreaMM2:
		return jsonNumber(g.AreaMM2)
	case KeyAreaCM2:
		return jsonNumber(g.AreaCM2)
	case KeyTotalEdgeLength:
		return jsonNumber(g.TotalEdgeLength)
	case KeyTotalEdgeLengthInclFaux:
		return jsonNumber(g.TotalEdgeLengthInclFaux)
	case KeyBarycenter:
		return g.Barycenter
	case KeyCenterOfMass:
		return g.CenterOfMass
	case KeyInertiaTensor:
		return g.InertiaTensor
	case KeyPrincipalAxes:
		return g.PrincipalAxes
	case KeyAxisMomenta:
		return g.AxisMomenta
	}
	return nil
}

func vec3(fs []float64) Vec3 {
	var v Vec3
	copy(v[:], fs)
	return v
}

func mat3(fs []float64) Mat3 {
	var m Mat3
	for i := range m {
		m[i] = vec3(fs[i*3:])
	}
	return m
}

var row3 = []int{1, 2, 3}

var geometryRules = []rule[Geometry]{
	{
		marker: "Mesh Volume", field: KeyVolumeMM3, tokens: []int{3},
		set: func(g *Geometry, v values) {
			g.VolumeMM3 = v.floats[0]
			g.VolumeCM3 = g.VolumeMM3 * 0.001
			g.mark(KeyVolumeMM3, KeyVolumeCM3)
		},
	},
	{
		marker: "Mesh Surface", field: KeyAreaMM2, tokens: []int{3},
		set: func(g *Geometry, v values) {
			g.AreaMM2 = v.floats[0]
			g.AreaCM2 = g.AreaMM2 * 0.01
			g.mark(KeyAreaMM2, KeyAreaCM2)
		},
	},
	{
		marker: "Mesh Total Len of", require: "including faux edges",
		field: KeyTotalEdgeLengthInclFaux, tokens: []int{7},
		set: func(g *Geometry, v values) {
			g.TotalEdgeLengthInclFaux = v.floats[0]
			g.mark(KeyTotalEdgeLengthInclFaux)
		},
	},
	{
		marker: "Mesh Total Len of", reject: "including faux edges",
		field: KeyTotalEdgeLength, tokens: []int{7},
		set: func(g *Geometry, v values) {
			g.TotalEdgeLength = v.floats[0]
			g.mark(KeyTotalEdgeLength)
		},
	},
	{
		marker: "Thin shell barycenter", field: KeyBarycenter, tokens: []int{3, 4, 5},
		set: func(g *Geometry, v values) {
			g.Barycenter = vec3(v.floats)
			g.mark(KeyBarycenter)
		},
	},
	{
		marker: "Center of Mass", field: KeyCenterOfMass, tokens: []int{4, 5, 6},
		set: func(g *Geometry, v values) {
			g.CenterOfMass = vec3(v.floats)
			g.mark(KeyCenterOfMass)
		},
	},
	{
		marker: "Inertia Tensor", field: KeyInertiaTensor, tokens: row3, follow: 3,
		set: func(g *Geometry, v values) {
			g.InertiaTensor = mat3(v.floats)
			g.mark(KeyInertiaTensor)
		},
	},
	{
		marker: "Principal axes", field: KeyPrincipalAxes, tokens: row3, follow: 3,
		set: func(g *Geometry, v values) {
			g.PrincipalAxes = mat3(v.floats)
			g.mark(KeyPrincipalAxes)
		},
	},
	{
		// Scanning stops at the momenta block; later lines are ignored.
		marker: "axis momenta", field: KeyAxisMomenta, tokens: row3, follow: 1, stop: true,
		set: func(g *Geometry, v values) {
			g.AxisMomenta = vec3(v.floats)
			g.mark(KeyAxisMomenta)
		},
	},
}

// ParseGeometry extracts geometric measures from a MeshLab log.
func ParseGeometry(r io.Reader) (*Geometry, error) {
	g := &Geometry{}
	g.mark()
	if err := scan(r, g, geometryRules); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseGeometryFile opens path and parses it with ParseGeometry.
func ParseGeometryFile(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	g, err := ParseGeometry(f)
	if err != nil {
		return nil, fmt.Errorf("parse geometry %q: %w", path, err)
	}
	return g, nil
}

func presentKeys(order []string, found map[string]bool) []string {
	keys := make([]string, 0, len(found))
	for _, k := range order {
		if found[k] {
			keys = append(keys, k)
		}
	}
	return keys
}
