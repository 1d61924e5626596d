package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kataras/meshscript/pkg/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const jobYAML = `
script: out.mlx
overwrite: true
measure_geometry: true
sections:
  - axis: x
    offset: 1.5
    plane_ref: center
    surface: true
  - axis: custom
    custom_axis: [0, 1, 1]
  - {}
`

func TestParse(t *testing.T) {
	job, err := Parse([]byte(jobYAML))
	require.NoError(t, err)

	assert.Equal(t, "out.mlx", job.Script)
	assert.True(t, job.Overwrite)
	assert.True(t, job.MeasureGeometry)
	assert.False(t, job.MeasureTopology)
	assert.Equal(t, "info", job.Logging.Level)
	assert.Equal(t, "console", job.Logging.Format)
	require.Len(t, job.Sections, 3)

	s := job.Sections[0].Section()
	assert.Equal(t, filter.AxisX, s.Axis)
	assert.Equal(t, 1.5, s.Offset)
	assert.Equal(t, filter.BoundingBoxCenter, s.PlaneRef)
	assert.True(t, s.Surface)
	assert.Nil(t, s.CustomAxis)

	s = job.Sections[1].Section()
	assert.Equal(t, filter.AxisCustom, s.Axis)
	require.NotNil(t, s.CustomAxis)
	assert.Equal(t, filter.Vec3{0, 1, 1}, *s.CustomAxis)

	s = job.Sections[2].Section()
	assert.Equal(t, filter.AxisZ, s.Axis, "axis defaults to z")
	assert.Equal(t, filter.Origin, s.PlaneRef, "plane reference defaults to origin")
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "missing script", yaml: "sections: []\n", want: "script: path is required"},
		{name: "bad plane ref", yaml: "script: a.mlx\nsections:\n  - plane_ref: top\n", want: "sections[0].plane_ref"},
		{name: "short custom axis", yaml: "script: a.mlx\nsections:\n  - custom_axis: [1, 2]\n", want: "sections[0].custom_axis"},
		{name: "bad level", yaml: "script: a.mlx\nlogging:\n  level: loud\n", want: "logging.level"},
		{name: "bad format", yaml: "script: a.mlx\nlogging:\n  format: xml\n", want: "logging.format"},
		{name: "not yaml", yaml: "script: [", want: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(jobYAML), 0644))
	job, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out.mlx", job.Script)

	wrongExt := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(wrongExt, []byte(jobYAML), 0644))
	_, err = Load(wrongExt)
	assert.ErrorContains(t, err, "extension")

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.ErrorContains(t, err, "failed to stat")
}

func TestLoggingBuild(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := LoggingConfig{Level: "debug", Format: format}.Build()
		require.NoError(t, err, format)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "debug level enabled for %s", format)
	}

	_, err := LoggingConfig{Level: "nope"}.Build()
	assert.Error(t, err)
}
