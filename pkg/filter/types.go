package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Axis selects the plane normal of a planar section.
type Axis int

// Axis values match the planeAxis enumeration of the MeshLab filter.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisCustom
)

// ParseAxis resolves an axis name case-insensitively. Anything other than
// "x", "y" or "z" selects the custom axis.
func ParseAxis(s string) Axis {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX
	case "y":
		return AxisY
	case "z":
		return AxisZ
	default:
		return AxisCustom
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "custom"
	}
}

// PlaneRef is the point the section plane offset is measured from.
type PlaneRef int

// PlaneRef values match the relativeTo enumeration of the MeshLab filter.
const (
	BoundingBoxCenter PlaneRef = iota
	BoundingBoxMin
	Origin
)

// ErrInvalidPlaneRef is returned for plane references outside the enumeration.
var ErrInvalidPlaneRef = errors.New("invalid plane reference")

// Valid reports whether p is one of the defined plane references.
func (p PlaneRef) Valid() bool {
	return p >= BoundingBoxCenter && p <= Origin
}

func (p PlaneRef) String() string {
	switch p {
	case BoundingBoxCenter:
		return "center"
	case BoundingBoxMin:
		return "min"
	case Origin:
		return "origin"
	default:
		return "PlaneRef(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePlaneRef accepts "center", "min", "origin" or their numeric values.
func ParsePlaneRef(s string) (PlaneRef, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "bbox-center", "0":
		return BoundingBoxCenter, nil
	case "min", "bbox-min", "1":
		return BoundingBoxMin, nil
	case "origin", "2", "":
		return Origin, nil
	}
	return 0, fmt.Errorf("%w %q (must be center, min or origin)", ErrInvalidPlaneRef, s)
}

// Vec3 is a point or direction in model space.
type Vec3 [3]float64

// DefaultCustomAxis is used when a custom axis is requested without a vector.
var DefaultCustomAxis = Vec3{0, 0, 1}

// Section holds the parameters of one "Compute Planar Section" filter.
type Section struct {
	Axis       Axis
	CustomAxis *Vec3 // nil = DefaultCustomAxis
	Offset     float64
	PlaneRef   PlaneRef
	Surface    bool // also build a triangulated section surface
}

// Normalize fills in the custom axis vector. The returned warning is
// non-empty when a custom axis was selected but no vector was supplied.
func (s Section) Normalize() (Section, string) {
	var warning string
	if s.CustomAxis == nil {
		if s.Axis == AxisCustom {
			warning = `a custom axis was selected, however "custom_axis" was not provided. Using default (Z).`
		}
		v := DefaultCustomAxis
		s.CustomAxis = &v
	}
	return s, warning
}
