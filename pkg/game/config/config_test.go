package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		check   func(Config) bool
	}{
		{"empty document keeps defaults", "", false, func(c Config) bool { return c == Default() }},
		{
			"partial override",
			"simulation:\n  tick_rate: 120\nplayer:\n  view_distance: 20\n",
			false,
			func(c Config) bool {
				return c.Simulation.TickRate == 120 && c.Player.ViewDistance == 20 && c.Player.MaxSpeed == 24
			},
		},
		{"duration", "generation:\n  timeout: 250ms\n", false, func(c Config) bool { return c.Generation.Timeout == 250*time.Millisecond }},
		{"unknown key", "simulation:\n  ticks: 3\n", true, nil},
		{"zero tick rate", "simulation:\n  tick_rate: 0\n", true, nil},
		{"negative property", "player:\n  stopping_mass: -1\n", true, nil},
		{"bad log format", "logging:\n  format: xml\n", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) error = nil, want error", tt.doc)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.doc, err)
			}
			if !tt.check(got) {
				t.Errorf("Decode(%q) = %+v", tt.doc, got)
			}
		})
	}
}

func TestValidate_WrapsErrInvalid(t *testing.T) {
	c := Default()
	c.Window.CellSize = 0
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	c := Default()
	c.Simulation.TickRate = 30
	c.Save.Path = ""

	data, err := c.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "fogrunner.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != c {
		t.Errorf("Load() = %+v, want %+v", got, c)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
}

func TestCurrent(t *testing.T) {
	defer Set(Default())
	c := Default()
	c.Window.Width = 1
	Set(c)
	if Current().Window.Width != 1 {
		t.Errorf("Current().Window.Width = %d, want 1", Current().Window.Width)
	}
}
