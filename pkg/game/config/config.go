// Package config loads the game's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"fogrunner/pkg/game/save"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Simulation struct {
	TickRate int `yaml:"tick_rate"`
}

type Generation struct {
	// Timeout bounds a single floor generation; 0 waits forever.
	Timeout time.Duration `yaml:"timeout"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Window struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

type Save struct {
	// Path of the save file; empty keeps the run in memory only.
	Path string `yaml:"path"`
}

// Config is the whole configuration file.
type Config struct {
	Simulation Simulation            `yaml:"simulation"`
	Generation Generation            `yaml:"generation"`
	Player     save.PlayerProperties `yaml:"player"`
	Logging    Logging               `yaml:"logging"`
	Window     Window                `yaml:"window"`
	Save       Save                  `yaml:"save"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Simulation: Simulation{TickRate: 60},
		Generation: Generation{Timeout: 5 * time.Second},
		Player:     save.DefaultPlayerProperties(),
		Logging:    Logging{Level: "info", Format: "text"},
		Window:     Window{Width: 960, Height: 720, CellSize: 8},
		Save:       Save{Path: "save.json"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a configuration document over the defaults and validates it.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("%w: simulation.tick_rate %d", ErrInvalid, c.Simulation.TickRate)
	}
	if c.Generation.Timeout < 0 {
		return fmt.Errorf("%w: generation.timeout %s", ErrInvalid, c.Generation.Timeout)
	}
	if err := c.Player.Validate(); err != nil {
		return fmt.Errorf("%w: player: %w", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.CellSize <= 0 {
		return fmt.Errorf("%w: window %dx%d cell %v", ErrInvalid, c.Window.Width, c.Window.Height, c.Window.CellSize)
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Current returns the configuration in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the configuration in effect.
func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	current = c
}
