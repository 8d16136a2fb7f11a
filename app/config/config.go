// Package config loads the project file (invflow.yml) describing the inversion, where its
// files live, the compute sites and how the poller runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/invflow/app/enums"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/lifecycle"
)

// retry limits
const (
	minAttempts = 1
	maxAttempts = 100
	minFactor   = 1.0
	maxFactor   = 10.0
	minDuration = time.Millisecond
	maxDuration = time.Hour
)

// Config is the project file
type Config struct {
	Inversion Inversion `yaml:"inversion" json:"inversion" jsonschema:"required"`
	Paths     Paths     `yaml:"paths" json:"paths"`
	HPC       HPC       `yaml:"hpc" json:"hpc" jsonschema:"required"`
	Poller    Poller    `yaml:"poller" json:"poller"`
}

// Inversion defines the shape of iteration records
type Inversion struct {
	Mode   enums.InversionMode `yaml:"mode" json:"mode" jsonschema:"required,type=string,enum=mini-batch,enum=mono-batch"`
	Meshes enums.MeshMode      `yaml:"meshes" json:"meshes" jsonschema:"required,type=string,enum=mono-mesh,enum=multi-mesh"`
}

// Paths of project files, relative ones resolved against the directory of the project file
type Paths struct {
	Iterations    string `yaml:"iterations" json:"iterations" jsonschema:"default=ITERATIONS"`
	Catalog       string `yaml:"catalog" json:"catalog" jsonschema:"default=events.yml"`
	ControlGroups string `yaml:"control_groups" json:"control_groups" jsonschema:"default=control_groups.yml"`
	Journal       string `yaml:"journal" json:"journal" jsonschema:"default=journal.db"`
	Intents       string `yaml:"intents" json:"intents" jsonschema:"default=intents"`
	Spool         string `yaml:"spool" json:"spool" jsonschema:"default=spool"`
	Outputs       string `yaml:"outputs" json:"outputs" jsonschema:"default=OUTPUTS"`
}

// HPC sites for wave propagation (forward, adjoint) and diffusion (smoothing) jobs
type HPC struct {
	WavePropagation lifecycle.Site `yaml:"wave_propagation" json:"wave_propagation" jsonschema:"required"`
	Diffusion       lifecycle.Site `yaml:"diffusion" json:"diffusion" jsonschema:"required"`
}

// Poller drives watch mode
type Poller struct {
	Schedule     string `yaml:"schedule" json:"schedule" jsonschema:"default=*/5 * * * *"`
	Concurrency  int    `yaml:"concurrency" json:"concurrency" jsonschema:"default=8,minimum=1"`
	AutoRetrieve bool   `yaml:"auto_retrieve" json:"auto_retrieve"`
	Retry        Retry  `yaml:"retry" json:"retry"`
}

// Retry of transient backend errors
type Retry struct {
	Attempts int           `yaml:"attempts" json:"attempts" jsonschema:"default=3"`
	Duration time.Duration `yaml:"duration" json:"duration" jsonschema:"type=string,default=1s"`
	Factor   float64       `yaml:"factor" json:"factor" jsonschema:"default=2"`
	Jitter   bool          `yaml:"jitter" json:"jitter"`
}

// Load reads the project file, fills defaults and verifies it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // project file path from the user
	if err != nil {
		return nil, fmt.Errorf("%w: can't read project file: %w", iteration.ErrConfiguration, err)
	}
	res := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(res); err != nil {
		return nil, fmt.Errorf("%w: can't parse %s: %w", iteration.ErrConfiguration, path, err)
	}
	res.setDefaults(filepath.Dir(path))
	if err := res.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", iteration.ErrConfiguration, path, err)
	}
	return res, nil
}

// Verify checks the config is complete
func (c *Config) Verify() error {
	if c.Inversion.Mode == enums.InversionModeUnknown {
		return errors.New("inversion.mode is required")
	}
	if c.Inversion.Meshes == enums.MeshModeUnknown {
		return errors.New("inversion.meshes is required")
	}
	if err := c.Resources().Validate(); err != nil {
		return fmt.Errorf("hpc: %w", err)
	}
	if c.Poller.Schedule != "" {
		if _, err := cron.ParseStandard(c.Poller.Schedule); err != nil {
			return fmt.Errorf("poller.schedule %q: %w", c.Poller.Schedule, err)
		}
	}
	if c.Poller.Concurrency < 0 {
		return fmt.Errorf("poller.concurrency must be positive, got %d", c.Poller.Concurrency)
	}
	return c.Poller.Retry.verify()
}

// Resources returns sites for the job manager
func (c *Config) Resources() lifecycle.Resources {
	return lifecycle.Resources{WavePropagation: c.HPC.WavePropagation, Diffusion: c.HPC.Diffusion}
}

func (r Retry) verify() error {
	if r.Attempts < minAttempts || r.Attempts > maxAttempts {
		return fmt.Errorf("poller.retry.attempts must be between %d and %d", minAttempts, maxAttempts)
	}
	if r.Duration < minDuration || r.Duration > maxDuration {
		return fmt.Errorf("poller.retry.duration must be between %v and %v", minDuration, maxDuration)
	}
	if r.Factor < minFactor || r.Factor > maxFactor {
		return fmt.Errorf("poller.retry.factor must be between %.1f and %.1f", minFactor, maxFactor)
	}
	return nil
}

func (c *Config) setDefaults(base string) {
	resolve := func(p *string, def string) {
		if *p == "" {
			*p = def
		}
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	resolve(&c.Paths.Iterations, "ITERATIONS")
	resolve(&c.Paths.Catalog, "events.yml")
	resolve(&c.Paths.ControlGroups, "control_groups.yml")
	resolve(&c.Paths.Journal, "journal.db")
	resolve(&c.Paths.Intents, "intents")
	resolve(&c.Paths.Spool, "spool")
	resolve(&c.Paths.Outputs, "OUTPUTS")

	if c.Poller.Schedule == "" {
		c.Poller.Schedule = "*/5 * * * *"
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = 8
	}
	if c.Poller.Retry.Attempts == 0 {
		c.Poller.Retry.Attempts = 3
	}
	if c.Poller.Retry.Duration == 0 {
		c.Poller.Retry.Duration = time.Second
	}
	if c.Poller.Retry.Factor == 0 {
		c.Poller.Retry.Factor = 2
	}
}

// Schema returns json schema of the project file
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{FieldNameTag: "yaml", DoNotReference: true, RequiredFromJSONSchemaTags: true}
	res := r.Reflect(&Config{})
	res.Title = "invflow project file"
	res.Description = "Schema for invflow.yml"
	return res
}
