package measure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Topology result keys. "boundry_edge_num" keeps the spelling downstream
// summaries already use.
const (
	KeyManifold        = "manifold"
	KeyNonManifoldE    = "non_manifold_E"
	KeyNonManifoldV    = "non_manifold_V"
	KeyVertNum         = "vert_num"
	KeyEdgeNum         = "edge_num"
	KeyFaceNum         = "face_num"
	KeyUnrefVertNum    = "unref_vert_num"
	KeyBoundaryEdgeNum = "boundry_edge_num"
	KeyPartNum         = "part_num"
	KeyNonManifoldEdge = "non_manifold_edge"
	KeyNonManifoldVert = "non_manifold_vert"
	KeyGenus           = "genus"
	KeyHoleNum         = "hole_num"
)

var topologyKeys = []string{
	KeyManifold, KeyNonManifoldE, KeyNonManifoldV,
	KeyVertNum, KeyEdgeNum, KeyFaceNum,
	KeyUnrefVertNum, KeyBoundaryEdgeNum, KeyPartNum,
	KeyNonManifoldEdge, KeyNonManifoldVert,
	KeyGenus, KeyHoleNum,
}

// Undefined is the textual value of a Count MeshLab could not compute.
const Undefined = "undefined"

// Count is an integer measure that may be undefined on non-manifold meshes.
type Count struct {
	N         int
	Undefined bool
}

func (c Count) String() string {
	if c.Undefined {
		return Undefined
	}
	return strconv.Itoa(c.N)
}

// MarshalJSON encodes c as a number, or as the string "undefined".
func (c Count) MarshalJSON() ([]byte, error) {
	if c.Undefined {
		return json.Marshal(Undefined)
	}
	return json.Marshal(c.N)
}

// Topology holds the results of the "Compute Topological Measures" filter.
// Manifold, NonManifoldE and NonManifoldV are always present.
type Topology struct {
	Manifold        bool
	NonManifoldE    int
	NonManifoldV    int
	VertNum         int
	EdgeNum         int
	FaceNum         int
	UnrefVertNum    int
	BoundaryEdgeNum int
	PartNum         int
	NonManifoldEdge int
	NonManifoldVert int
	Genus           Count
	HoleNum         Count

	found map[string]bool
}

func newTopology() *Topology {
	t := &Topology{Manifold: true}
	t.mark(KeyManifold, KeyNonManifoldE, KeyNonManifoldV)
	return t
}

func (t *Topology) mark(keys ...string) {
	if t.found == nil {
		t.found = make(map[string]bool, len(topologyKeys))
	}
	for _, k := range keys {
		t.found[k] = true
	}
}

// Has reports whether key was found in the log or is pre-seeded.
func (t *Topology) Has(key string) bool {
	return t.found[key]
}

// Keys returns the present keys in their canonical order.
func (t *Topology) Keys() []string {
	return presentKeys(topologyKeys, t.found)
}

// MarshalJSON encodes the present fields keyed by their result keys.
func (t *Topology) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.found))
	for _, k := range t.Keys() {
		out[k] = t.value(k)
	}
	return json.Marshal(out)
}

func (t *Topology) value(key string) any {
	switch key {
	case KeyManifold:
		return t.Manifold
	case KeyNonManifoldE:
		return t.NonManifoldE
	case KeyNonManifoldV:
		return t.NonManifoldV
	case KeyVertNum:
		return t.VertNum
	case KeyEdgeNum:
		return t.EdgeNum
	case KeyFaceNum:
		return t.FaceNum
	case KeyUnrefVertNum:
		return t.UnrefVertNum
	case KeyBoundaryEdgeNum:
		return t.BoundaryEdgeNum
	case KeyPartNum:
		return t.PartNum
	case KeyNonManifoldEdge:
		return t.NonManifoldEdge
	case KeyNonManifoldVert:
		return t.NonManifoldVert
	case KeyGenus:
		return t.Genus
	case KeyHoleNum:
		return t.HoleNum
	}
	return nil
}

var topologyRules = []rule[Topology]{
	{
		marker: "V:", field: KeyVertNum, tokens: []int{1, 3, 5}, conv: convInt,
		set: func(t *Topology, v values) {
			t.VertNum, t.EdgeNum, t.FaceNum = v.ints[0], v.ints[1], v.ints[2]
			t.mark(KeyVertNum, KeyEdgeNum, KeyFaceNum)
		},
	},
	{
		marker: "Unreferenced Vertices", field: KeyUnrefVertNum, tokens: []int{2}, conv: convInt,
		set: func(t *Topology, v values) {
			t.UnrefVertNum = v.ints[0]
			t.mark(KeyUnrefVertNum)
		},
	},
	{
		marker: "Boundary Edges", field: KeyBoundaryEdgeNum, tokens: []int{2}, conv: convInt,
		set: func(t *Topology, v values) {
			t.BoundaryEdgeNum = v.ints[0]
			t.mark(KeyBoundaryEdgeNum)
		},
	},
	{
		marker: "Mesh is composed by", field: KeyPartNum, tokens: []int{4}, conv: convInt,
		set: func(t *Topology, v values) {
			t.PartNum = v.ints[0]
			t.mark(KeyPartNum)
		},
	},
	{
		marker: "non 2-manifold mesh", field: KeyManifold, conv: convFlag,
		set: func(t *Topology, _ values) {
			t.Manifold = false
		},
	},
	{
		marker: "non two manifold edges", field: KeyNonManifoldEdge, tokens: []int{2}, conv: convInt,
		set: func(t *Topology, v values) {
			t.NonManifoldEdge = v.ints[0]
			t.mark(KeyNonManifoldEdge)
		},
	},
	{
		marker: "non two manifold vertexes", field: KeyNonManifoldVert, tokens: []int{2}, conv: convInt,
		set: func(t *Topology, v values) {
			t.NonManifoldVert = v.ints[0]
			t.mark(KeyNonManifoldVert)
		},
	},
	{
		marker: "Genus is", field: KeyGenus, tokens: []int{2}, conv: convCount, undefined: Undefined,
		set: func(t *Topology, v values) {
			t.Genus = v.count
			t.mark(KeyGenus)
		},
	},
	{
		// "Mesh has a undefined number of holes" on non-manifold meshes.
		marker: "holes", field: KeyHoleNum, tokens: []int{2}, conv: convCount, undefined: "a",
		set: func(t *Topology, v values) {
			t.HoleNum = v.count
			t.mark(KeyHoleNum)
		},
	},
}

// ParseTopology extracts topological measures from a MeshLab log.
func ParseTopology(r io.Reader) (*Topology, error) {
	t := newTopology()
	if err := scan(r, t, topologyRules); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTopologyFile opens path and parses it with ParseTopology.
func ParseTopologyFile(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	t, err := ParseTopology(f)
	if err != nil {
		return nil, fmt.Errorf("parse topology %q: %w", path, err)
	}
	return t, nil
}
