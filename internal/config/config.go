package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/quench/internal/universe"
)

const (
	DefaultSize         = 128
	DefaultTempInitial  = 100.0
	DefaultTempFinal    = 1.0
	DefaultCoolingRate  = 0.5
	DefaultXiCritical   = 10.0
	DefaultNoiseAmp     = 1.0
	DefaultStepsPerTick = 5
	DefaultSteps        = 3000
	DefaultCaptureEvery = 200
)

type Config struct {
	Size           int     `yaml:"size"`
	TempInitial    float64 `yaml:"temp_initial"`
	TempFinal      float64 `yaml:"temp_final"`
	CoolingRate    float64 `yaml:"cooling_rate"`
	XiCritical     float64 `yaml:"xi_critical"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"`
	Seed           int64   `yaml:"seed"`
	StepsPerTick   int     `yaml:"steps_per_tick"`
	Steps          int     `yaml:"steps"`
	CaptureEvery   int     `yaml:"capture_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:           DefaultSize,
		TempInitial:    DefaultTempInitial,
		TempFinal:      DefaultTempFinal,
		CoolingRate:    DefaultCoolingRate,
		XiCritical:     DefaultXiCritical,
		NoiseAmplitude: DefaultNoiseAmp,
		StepsPerTick:   DefaultStepsPerTick,
		Steps:          DefaultSteps,
		CaptureEvery:   DefaultCaptureEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params extracts the simulation parameters the universe is constructed with.
func (c *Config) Params() universe.Params {
	return universe.Params{
		Size:           c.Size,
		TempInitial:    c.TempInitial,
		TempFinal:      c.TempFinal,
		CoolingRate:    c.CoolingRate,
		XiCritical:     c.XiCritical,
		NoiseAmplitude: c.NoiseAmplitude,
	}
}
