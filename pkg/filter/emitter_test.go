package filter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Z     string `xml:"z,attr"`
	Type  string `xml:"type,attr"`
}

type xmlFilter struct {
	Name   string     `xml:"name,attr"`
	Params []xmlParam `xml:"Param"`
}

func decodeSection(t *testing.T, text string) map[string]xmlParam {
	t.Helper()
	var f xmlFilter
	if err := xml.Unmarshal([]byte(text), &f); err != nil {
		t.Fatalf("fragment is not well-formed: %v\n%s", err, text)
	}
	if f.Name != "Compute Planar Section" {
		t.Fatalf("filter name = %q", f.Name)
	}
	params := make(map[string]xmlParam, len(f.Params))
	for _, p := range f.Params {
		params[p.Name] = p
	}
	return params
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{"x", AxisX},
		{"X", AxisX},
		{"y", AxisY},
		{"Z", AxisZ},
		{"custom", AxisCustom},
		{"bogus", AxisCustom},
		{"", AxisCustom},
	}

	for _, tt := range tests {
		if got := ParseAxis(tt.in); got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePlaneRef(t *testing.T) {
	tests := []struct {
		in      string
		want    PlaneRef
		wantErr bool
	}{
		{in: "center", want: BoundingBoxCenter},
		{in: "MIN", want: BoundingBoxMin},
		{in: "origin", want: Origin},
		{in: "2", want: Origin},
		{in: "", want: Origin},
		{in: "top", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlaneRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlaneRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlaneRef) {
					t.Errorf("error %v does not wrap ErrInvalidPlaneRef", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParsePlaneRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSectionAxisValues(t *testing.T) {
	tests := []struct {
		name      string
		axis      string
		custom    *Vec3
		wantAxis  string
		wantPoint [3]string
		wantWarn  bool
	}{
		{name: "y axis", axis: "y", wantAxis: "1", wantPoint: [3]string{"0.0", "0.0", "1.0"}},
		{name: "upper case x", axis: "X", wantAxis: "0", wantPoint: [3]string{"0.0", "0.0", "1.0"}},
		{name: "bogus without vector warns", axis: "bogus", wantAxis: "3", wantPoint: [3]string{"0.0", "0.0", "1.0"}, wantWarn: true},
		{name: "custom with vector", axis: "custom", custom: &Vec3{0.5, -1, 2}, wantAxis: "3", wantPoint: [3]string{"0.5", "-1.0", "2.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf Buffer
			var warnings []string
			e := &Emitter{
				Dst: &buf,
				Warn: func(format string, args ...any) {
					warnings = append(warnings, fmt.Sprintf(format, args...))
				},
			}

			err := e.Section(Section{Axis: ParseAxis(tt.axis), CustomAxis: tt.custom, PlaneRef: Origin})
			if err != nil {
				t.Fatalf("Section() error = %v", err)
			}

			params := decodeSection(t, buf.String())
			if got := params["planeAxis"].Value; got != tt.wantAxis {
				t.Errorf("planeAxis value = %q, want %q", got, tt.wantAxis)
			}
			p := params["customAxis"]
			if got := [3]string{p.X, p.Y, p.Z}; got != tt.wantPoint {
				t.Errorf("customAxis = %v, want %v", got, tt.wantPoint)
			}
			if gotWarn := len(warnings) > 0; gotWarn != tt.wantWarn {
				t.Errorf("warnings = %v, wantWarn %v", warnings, tt.wantWarn)
			}
		})
	}
}

func TestSectionWarningWithoutHandler(t *testing.T) {
	s := Section{Axis: AxisCustom, PlaneRef: Origin}

	var buf Buffer
	if err := (&Emitter{Dst: &buf}).Section(s); err != nil {
		t.Fatalf("Section() error = %v", err)
	}
	p := decodeSection(t, buf.String())["customAxis"]
	if got := [3]string{p.X, p.Y, p.Z}; got != [3]string{"0.0", "0.0", "1.0"} {
		t.Errorf("customAxis = %v, want default", got)
	}

	norm, warning := s.Normalize()
	if !strings.Contains(warning, "custom_axis") {
		t.Errorf("Normalize() warning = %q", warning)
	}
	if norm.CustomAxis == nil || *norm.CustomAxis != DefaultCustomAxis {
		t.Errorf("Normalize() axis = %v, want %v", norm.CustomAxis, DefaultCustomAxis)
	}
	if s.CustomAxis != nil {
		t.Error("Normalize() must not modify its receiver")
	}

	if _, warning := (Section{Axis: AxisZ}).Normalize(); warning != "" {
		t.Errorf("Normalize() warned for a standard axis: %q", warning)
	}
}

func TestSectionInvalidPlaneRef(t *testing.T) {
	var buf Buffer
	e := &Emitter{Dst: &buf}
	err := e.Section(Section{Axis: AxisZ, PlaneRef: PlaneRef(7)})
	if !errors.Is(err, ErrInvalidPlaneRef) {
		t.Fatalf("Section() error = %v, want ErrInvalidPlaneRef", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", buf.String())
	}
}

func TestSectionRoundTripFile(t *testing.T) {
	script := filepath.Join(t.TempDir(), "section.mlx")
	if err := os.WriteFile(script, []byte("<!-- existing -->\n"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewEmitter(script)
	if err := e.Section(Section{Axis: AxisZ, Offset: 12.25, PlaneRef: BoundingBoxMin, Surface: true}); err != nil {
		t.Fatalf("Section() error = %v", err)
	}

	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "<!-- existing -->\n") {
		t.Fatalf("existing content was not preserved:\n%s", text)
	}

	params := decodeSection(t, strings.TrimPrefix(text, "<!-- existing -->\n"))
	if len(params) != 5 {
		t.Fatalf("got %d params, want 5", len(params))
	}
	checks := map[string]string{
		"planeAxis":            "2",
		"planeOffset":          "12.25",
		"relativeTo":           "1",
		"createSectionSurface": "true",
	}
	for name, want := range checks {
		if got := params[name].Value; got != want {
			t.Errorf("%s value = %q, want %q", name, got, want)
		}
	}
	if got := params["customAxis"].Type; got != "RichPoint3f" {
		t.Errorf("customAxis type = %q", got)
	}
}

func TestSectionXMLExactShape(t *testing.T) {
	got := SectionXML(Section{Axis: AxisY, Offset: 0, PlaneRef: Origin})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), got)
	}

	want := `    <Param name="planeOffset" value="0.0" description="Cross plane offset" type="RichFloat" tooltip="Specify an offset of the cross-plane. The offset corresponds to the distance from the point specified in the plane reference parameter."/>`
	if lines[3] != want {
		t.Errorf("planeOffset line =\n%s\nwant\n%s", lines[3], want)
	}
	want = `    <Param name="createSectionSurface" value="false" description="Create also section surface" type="RichBool" tooltip="If selected, in addition to a layer with the section polyline, it will be created also a layer with a triangulated version of the section polyline. This only works if the section polyline is closed"/>`
	if lines[5] != want {
		t.Errorf("createSectionSurface line =\n%s\nwant\n%s", lines[5], want)
	}
	if lines[0] != `  <filter name="Compute Planar Section">` || lines[6] != "  </filter>" {
		t.Errorf("unexpected framing: %q ... %q", lines[0], lines[6])
	}
}

func TestScriptFraming(t *testing.T) {
	var buf Buffer
	e := &Emitter{Dst: &buf}
	steps := []func() error{e.Begin, e.MeasureGeometry, e.MeasureTopology, e.End}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	want := "<!DOCTYPE FilterScript>\n<FilterScript>\n" +
		"  <xmlfilter name=\"Compute Geometric Measures\"/>\n" +
		"  <xmlfilter name=\"Compute Topological Measures\"/>\n" +
		"</FilterScript>\n"
	if buf.String() != want {
		t.Errorf("script =\n%s\nwant\n%s", buf.String(), want)
	}
}

type failingOpener struct{ closed bool }

func (f *failingOpener) Open() (io.WriteCloser, error) { return f, nil }
func (f *failingOpener) Write([]byte) (int, error)     { return 0, errors.New("disk full") }
func (f *failingOpener) Close() error                  { f.closed = true; return nil }

func TestWriteClosesOnError(t *testing.T) {
	dst := &failingOpener{}
	e := &Emitter{Dst: dst}
	if err := e.MeasureGeometry(); err == nil {
		t.Fatal("expected write error")
	}
	if !dst.closed {
		t.Error("writer was not closed after a failed write")
	}
}
