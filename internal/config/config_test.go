package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pborges/logicsyn/internal/diag"
	"github.com/pborges/logicsyn/internal/kmap"
	"github.com/pborges/logicsyn/internal/simplify"
)

func TestDefault(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.MaxVariables != 16 {
		t.Errorf("MaxVariables = %d, want 16", o.MaxVariables)
	}
	if got := o.Rules(); got != simplify.DefaultRules() {
		t.Errorf("Rules() = %+v, want %+v", got, simplify.DefaultRules())
	}
	want := kmap.DefaultConfig()
	want.MaxVariables = 16
	if got := o.KMap(); got != want {
		t.Errorf("KMap() = %+v, want %+v", got, want)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	src := `
max_variables: 8
log_level: debug
simplify:
  complement: true
optimize:
  use_dont_cares: false
device:
  name: g22v10
  signature: ADDER
  pins:
    in1: 2
    Out: 23
`
	o, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if o.MaxVariables != 8 {
		t.Errorf("MaxVariables = %d", o.MaxVariables)
	}
	r := o.Rules()
	if !r.Idempotent || !r.Absorption || !r.Complement || r.DeMorgan {
		t.Errorf("Rules() = %+v", r)
	}
	km := o.KMap()
	if !km.UseKMap || km.UseDontCares || km.MaxVariables != 8 {
		t.Errorf("KMap() = %+v", km)
	}
	if o.Truth().MaxVariables != 8 {
		t.Errorf("Truth() = %+v", o.Truth())
	}
	wantPins := map[string]int{"in1": 2, "Out": 23}
	if !reflect.DeepEqual(o.Device.Pins, wantPins) {
		t.Errorf("pins = %v, want %v", o.Device.Pins, wantPins)
	}
	if o.Device.Name != "g22v10" || o.Device.Signature != "ADDER" {
		t.Errorf("device = %+v", o.Device)
	}
	if l := o.Logger(); l.Level != diag.DebugLevel {
		t.Errorf("logger level = %v", l.Level)
	}
}

func TestSimplifyDisabled(t *testing.T) {
	o, err := Parse([]byte("simplify:\n  enabled: false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if o.Rules() != (simplify.Rules{}) {
		t.Errorf("Rules() = %+v, want none", o.Rules())
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"range":  "max_variables: 0\n",
		"level":  "log_level: loud\n",
		"device": "device:\n  name: PAL20L8\n",
		"pin":    "device:\n  pins:\n    a: 0\n",
		"syntax": "max_variables: [1\n",
	}
	for name, src := range tests {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	o := Default()
	o.Optimize.PreferAndGates = true
	o.Device.Pins = map[string]int{"a": 3}
	data, err := o.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "logicsyn.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, o) {
		t.Errorf("Load = %+v, want %+v", got, o)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
