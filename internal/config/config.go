// Package config loads pipeline options from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pborges/logicsyn/internal/diag"
	"github.com/pborges/logicsyn/internal/gal"
	"github.com/pborges/logicsyn/internal/kmap"
	"github.com/pborges/logicsyn/internal/simplify"
	"github.com/pborges/logicsyn/internal/truth"
)

// Options is the document shape:
//
//	log_level: info
//	max_variables: 16
//	simplify:
//	  enabled: true
//	  idempotent: true
//	  absorption: true
//	optimize:
//	  use_kmap: true
//	  use_dont_cares: true
//	device:
//	  name: GAL16V8
//	  pins: {in1: 2, Out: 19}
type Options struct {
	LogLevel     string   `yaml:"log_level"`
	MaxVariables int      `yaml:"max_variables"`
	Simplify     Simplify `yaml:"simplify"`
	Optimize     Optimize `yaml:"optimize"`
	Device       Device   `yaml:"device"`
}

type Simplify struct {
	Enabled    bool `yaml:"enabled"`
	Idempotent bool `yaml:"idempotent"`
	Absorption bool `yaml:"absorption"`
	Complement bool `yaml:"complement"`
	DeMorgan   bool `yaml:"de_morgan"`
}

type Optimize struct {
	Enabled        bool `yaml:"enabled"`
	UseKMap        bool `yaml:"use_kmap"`
	UseDontCares   bool `yaml:"use_dont_cares"`
	PreferAndGates bool `yaml:"prefer_and_gates"`
}

// Device describes the programmable part formulas are fitted to.
type Device struct {
	Name        string         `yaml:"name"`
	Signature   string         `yaml:"signature"`
	SecurityBit bool           `yaml:"security_bit"`
	Pins        map[string]int `yaml:"pins"`
}

// Default returns the options used when no file is given.
func Default() Options {
	rules := simplify.DefaultRules()
	km := kmap.DefaultConfig()
	return Options{
		LogLevel:     "info",
		MaxVariables: truth.DefaultMaxVariables,
		Simplify: Simplify{
			Enabled:    true,
			Idempotent: rules.Idempotent,
			Absorption: rules.Absorption,
			Complement: rules.Complement,
			DeMorgan:   rules.DeMorgan,
		},
		Optimize: Optimize{
			Enabled:        true,
			UseKMap:        km.UseKMap,
			UseDontCares:   km.UseDontCares,
			PreferAndGates: km.PreferAndGates,
		},
		Device: Device{Name: gal.ChipGAL16V8.Name()},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	o, err := Parse(data)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Parse decodes a YAML document over the defaults and validates it.
func Parse(data []byte) (Options, error) {
	o := Default()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Options{}, err
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) Validate() error {
	if o.MaxVariables < 1 || o.MaxVariables > 24 {
		return fmt.Errorf("max_variables %d out of range 1..24", o.MaxVariables)
	}
	if _, err := diag.ParseLevel(o.LogLevel); err != nil {
		return err
	}
	if o.Device.Name != "" {
		if _, err := gal.ParseChip(o.Device.Name); err != nil {
			return err
		}
	}
	for name, pin := range o.Device.Pins {
		if pin < 1 {
			return fmt.Errorf("pin %d for %q out of range", pin, name)
		}
	}
	return nil
}

// Marshal renders o as YAML.
func (o Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}

// Rules returns the simplifier rules; all are off when simplification is
// disabled.
func (o Options) Rules() simplify.Rules {
	if !o.Simplify.Enabled {
		return simplify.Rules{}
	}
	return simplify.Rules{
		Idempotent: o.Simplify.Idempotent,
		Absorption: o.Simplify.Absorption,
		Complement: o.Simplify.Complement,
		DeMorgan:   o.Simplify.DeMorgan,
	}
}

func (o Options) KMap() kmap.Config {
	return kmap.Config{
		UseKMap:        o.Optimize.UseKMap,
		UseDontCares:   o.Optimize.UseDontCares,
		PreferAndGates: o.Optimize.PreferAndGates,
		MaxVariables:   o.MaxVariables,
	}
}

func (o Options) Truth() truth.Config {
	return truth.Config{MaxVariables: o.MaxVariables}
}

// Logger returns a stderr logger at the configured level.
func (o Options) Logger() *diag.Logger {
	level, err := diag.ParseLevel(o.LogLevel)
	if err != nil {
		level = diag.InfoLevel
	}
	return diag.New(level)
}
