// Package filter writes MeshLab filter script (.mlx) fragments.
//
// Values are substituted into fixed templates without any XML escaping;
// callers must not pass strings that need it. The emitter only appends
// fragments: framing the whole document is done with Begin and End.
package filter

import (
	"fmt"
	"io"
	"strings"

	"github.com/kataras/meshscript/pkg/numfmt"
)

// Emitter appends filter fragments to Dst.
type Emitter struct {
	Dst Opener
	// Warn receives non-fatal configuration warnings. Nil discards them;
	// callers without a handler can get the same text from Section.Normalize.
	Warn func(format string, args ...any)
}

// NewEmitter returns an Emitter that appends to the given script file.
func NewEmitter(script string) *Emitter {
	return &Emitter{Dst: AppendFile(script)}
}

// Begin writes the opening of a filter script document.
func (e *Emitter) Begin() error {
	return e.write("<!DOCTYPE FilterScript>\n<FilterScript>\n")
}

// End writes the closing tag of a filter script document.
func (e *Emitter) End() error {
	return e.write("</FilterScript>\n")
}

// MeasureGeometry appends the "Compute Geometric Measures" filter.
func (e *Emitter) MeasureGeometry() error {
	return e.write("  <xmlfilter name=\"Compute Geometric Measures\"/>\n")
}

// MeasureTopology appends the "Compute Topological Measures" filter.
func (e *Emitter) MeasureTopology() error {
	return e.write("  <xmlfilter name=\"Compute Topological Measures\"/>\n")
}

// Section appends a "Compute Planar Section" filter. A custom axis without
// a vector is reported through Warn and replaced by DefaultCustomAxis.
func (e *Emitter) Section(s Section) error {
	if !s.PlaneRef.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlaneRef, int(s.PlaneRef))
	}

	s, warning := s.Normalize()
	if warning != "" && e.Warn != nil {
		e.Warn("%s", warning)
	}

	return e.write(SectionXML(s))
}

// SectionXML renders the planar section block for a normalized Section.
func SectionXML(s Section) string {
	axis := DefaultCustomAxis
	if s.CustomAxis != nil {
		axis = *s.CustomAxis
	}

	var sb strings.Builder
	sb.WriteString("  <filter name=\"Compute Planar Section\">\n")

	sb.WriteString("    <Param name=\"planeAxis\" ")
	fmt.Fprintf(&sb, "value=\"%d\" ", int(s.Axis))
	sb.WriteString("description=\"Plane perpendicular to\" " +
		"enum_val0=\"X Axis\" " +
		"enum_val1=\"Y Axis\" " +
		"enum_val2=\"Z Axis\" " +
		"enum_val3=\"Custom Axis\" " +
		"enum_cardinality=\"4\" " +
		"type=\"RichEnum\" " +
		"tooltip=\"The Slicing plane will be done perpendicular to the axis\"/>\n")

	sb.WriteString("    <Param name=\"customAxis\" ")
	fmt.Fprintf(&sb, "x=\"%s\" y=\"%s\" z=\"%s\" ",
		numfmt.Float(axis[0]), numfmt.Float(axis[1]), numfmt.Float(axis[2]))
	sb.WriteString("description=\"Custom axis\" " +
		"type=\"RichPoint3f\" " +
		"tooltip=\"Specify a custom axis, this is only valid if the above parameter is set to Custom\"/>\n")

	sb.WriteString("    <Param name=\"planeOffset\" ")
	fmt.Fprintf(&sb, "value=\"%s\" ", numfmt.Float(s.Offset))
	sb.WriteString("description=\"Cross plane offset\" " +
		"type=\"RichFloat\" " +
		"tooltip=\"Specify an offset of the cross-plane. The offset corresponds to the distance from the point specified in the plane reference parameter.\"/>\n")

	sb.WriteString("    <Param name=\"relativeTo\" ")
	fmt.Fprintf(&sb, "value=\"%d\" ", int(s.PlaneRef))
	sb.WriteString("description=\"plane reference\" " +
		"enum_val0=\"Bounding box center\" " +
		"enum_val1=\"Bounding box min\" " +
		"enum_val2=\"Origin\" " +
		"enum_cardinality=\"3\" " +
		"type=\"RichEnum\" " +
		"tooltip=\"Specify the reference from which the planes are shifted\"/>\n")

	sb.WriteString("    <Param name=\"createSectionSurface\" ")
	fmt.Fprintf(&sb, "value=\"%s\" ", numfmt.Bool(s.Surface))
	sb.WriteString("description=\"Create also section surface\" " +
		"type=\"RichBool\" " +
		"tooltip=\"If selected, in addition to a layer with the section polyline, " +
		"it will be created also a layer with a triangulated version of the section polyline. " +
		"This only works if the section polyline is closed\"/>\n")

	sb.WriteString("  </filter>\n")
	return sb.String()
}

// write opens Dst, writes text and closes it on every path.
func (e *Emitter) write(text string) (err error) {
	w, err := e.Dst.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close script: %w", cerr)
		}
	}()

	if _, err = io.WriteString(w, text); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
