package boundprune

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the deployment-side enforcement configuration, normally loaded
// from a YAML file shipped alongside the model.
type Config struct {
	// BoundBits is the accumulator bit width the encrypted runtime can
	// represent, e.g. 7 for a [0, 127] table lookup.
	BoundBits int `yaml:"bound_bits"`

	// ActiveFloor is the minimum fraction of each neuron's weights that
	// pruning must keep active.
	ActiveFloor float64 `yaml:"active_floor"`

	// AbortOnFloor stops a training run when a neuron is still violated
	// at its floor instead of continuing with a documented violation.
	AbortOnFloor bool `yaml:"abort_on_floor"`

	Calibration struct {
		// Margin widens every calibrated range by this fraction of its
		// span, giving headroom for activations outside the calibration
		// set.
		Margin float64 `yaml:"margin"`
	} `yaml:"calibration"`
}

// DefaultConfig matches the common 7-bit encrypted-inference deployment.
func DefaultConfig() Config {
	cfg := Config{BoundBits: 7, ActiveFloor: 0.1}
	cfg.Calibration.Margin = 0.05
	return cfg
}

// Validate checks the config for values the enforcer would reject later.
func (c *Config) Validate() error {
	if c.BoundBits < 1 || c.BoundBits > maxBoundBits {
		return fmt.Errorf("bound_bits %d outside [1, %d]: %w", c.BoundBits, maxBoundBits, ErrInvalidBound)
	}
	if c.ActiveFloor < 0 || c.ActiveFloor > 1 {
		return fmt.Errorf("active_floor %.4f outside [0, 1]: %w", c.ActiveFloor, ErrInvalidTarget)
	}
	if c.Calibration.Margin < 0 {
		return fmt.Errorf("calibration margin %.4f is negative: %w", c.Calibration.Margin, ErrInvalidRange)
	}
	return nil
}

// LoadConfig reads and validates a YAML config file. Unknown keys are
// rejected so typos fail loudly.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
