package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inoflash/internal/paths"
)

const (
	// DefaultBaud is the serial monitor default; Arduino sketches
	// conventionally open Serial at 9600.
	DefaultBaud = 9600
)

// Config captures tunables for the upload pipeline and serial monitor.
// Everything has a working default; config files are optional.
type Config struct {
	FQBN           string   `yaml:"fqbn,omitempty"`
	Port           string   `yaml:"port,omitempty"`
	Baud           int      `yaml:"baud,omitempty"`
	BinDir         string   `yaml:"bin_dir,omitempty"`
	AutoInstall    *bool    `yaml:"auto_install,omitempty"`
	CandidatePorts []string `yaml:"candidate_ports,omitempty"`
}

// AutoInstallValue returns the effective auto-install flag applying defaults.
func (c Config) AutoInstallValue() bool {
	if c.AutoInstall == nil {
		return true
	}
	return *c.AutoInstall
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Baud: DefaultBaud,
	}
}

// Test seam for the global config location.
var globalConfigFile = paths.GlobalConfigFile

// Load reads and merges configs. Order: defaults → global
// (~/.inoflash/config.yaml) → project (<sketchDir>/inoflash.yaml). Missing
// files are fine; unreadable or malformed files are skipped but reported in
// the returned error so a typo'd config cannot silently fall back to
// defaults. The Config is usable either way.
func Load(sketchDir string) (Config, error) {
	cfg := Default()
	var errs []error

	if global, err := globalConfigFile(); err == nil {
		if err := mergeFromFile(&cfg, global); err != nil {
			errs = append(errs, err)
		}
	}
	if sketchDir != "" {
		if err := mergeFromFile(&cfg, paths.ProjectConfigFile(sketchDir)); err != nil {
			errs = append(errs, err)
		}
	}

	return cfg, errors.Join(errs...)
}

// LoadFile reads a single config file, for validation in doctor.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func mergeFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fileCfg.FQBN != "" {
		cfg.FQBN = fileCfg.FQBN
	}
	if fileCfg.Port != "" {
		cfg.Port = fileCfg.Port
	}
	if fileCfg.Baud != 0 {
		cfg.Baud = fileCfg.Baud
	}
	if fileCfg.BinDir != "" {
		cfg.BinDir = fileCfg.BinDir
	}
	if fileCfg.AutoInstall != nil {
		cfg.AutoInstall = fileCfg.AutoInstall
	}
	if len(fileCfg.CandidatePorts) > 0 {
		cfg.CandidatePorts = fileCfg.CandidatePorts
	}
	return nil
}
