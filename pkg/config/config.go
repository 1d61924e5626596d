// Package config loads YAML job files describing a filter script to build.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kataras/meshscript/pkg/filter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const maxFileSize = 1 << 20 // 1MB

// Job describes one filter script.
type Job struct {
	Script          string        `yaml:"script"`
	Overwrite       bool          `yaml:"overwrite"` // truncate the script before writing
	MeasureGeometry bool          `yaml:"measure_geometry"`
	MeasureTopology bool          `yaml:"measure_topology"`
	Sections        []SectionSpec `yaml:"sections"`
	Logging         LoggingConfig `yaml:"logging"`
}

// SectionSpec is the YAML form of a planar section.
type SectionSpec struct {
	Axis       string    `yaml:"axis"`
	CustomAxis []float64 `yaml:"custom_axis"`
	Offset     float64   `yaml:"offset"`
	PlaneRef   string    `yaml:"plane_ref"`
	Surface    bool      `yaml:"surface"`
}

// LoggingConfig configures the zap logger used by the CLI.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Load reads and validates a job file. Only .yaml and .yml files up to
// 1MB are accepted.
func Load(path string) (*Job, error) {
	cleanPath := filepath.Clean(path)
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a job from YAML, applies defaults and validates it.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	job.applyDefaults()
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *Job) applyDefaults() {
	if j.Logging.Level == "" {
		j.Logging.Level = "info"
	}
	if j.Logging.Format == "" {
		j.Logging.Format = "console"
	}
	for i := range j.Sections {
		if j.Sections[i].Axis == "" {
			j.Sections[i].Axis = "z"
		}
	}
}

// Validate checks that the job can be turned into a script.
func (j *Job) Validate() error {
	var errs []error
	if strings.TrimSpace(j.Script) == "" {
		errs = append(errs, errors.New("script: path is required"))
	}
	for i, s := range j.Sections {
		if _, err := filter.ParsePlaneRef(s.PlaneRef); err != nil {
			errs = append(errs, fmt.Errorf("sections[%d].plane_ref: %w", i, err))
		}
		if s.CustomAxis != nil && len(s.CustomAxis) != 3 {
			errs = append(errs, fmt.Errorf("sections[%d].custom_axis: want 3 components, got %d", i, len(s.CustomAxis)))
		}
	}
	if _, err := zapcore.ParseLevel(j.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch j.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", j.Logging.Format))
	}
	return errors.Join(errs...)
}

// Section converts s into filter parameters. It must only be
// called on a validated job.
func (s SectionSpec) Section() filter.Section {
	ref, _ := filter.ParsePlaneRef(s.PlaneRef)
	sec := filter.Section{
		Axis:     filter.ParseAxis(s.Axis),
		Offset:   s.Offset,
		PlaneRef: ref,
		Surface:  s.Surface,
	}
	if len(s.CustomAxis) == 3 {
		sec.CustomAxis = &filter.Vec3{s.CustomAxis[0], s.CustomAxis[1], s.CustomAxis[2]}
	}
	return sec
}

// Build returns a zap logger for the configured level and format.
func (c LoggingConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if c.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
