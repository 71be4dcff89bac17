package launch

import (
	"flag"
	"io"
	"math"
	"os"
	"testing"

	"fogrunner/pkg/game/config"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func parse(t *testing.T, args ...string) Options {
	t.Helper()
	fs := flag.NewFlagSet("fogrunner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o, err := ParseFlags(fs, args)
	if err != nil {
		t.Fatalf("ParseFlags(%q) error = %v", args, err)
	}
	return o
}

func TestParseFlags_Seed(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSet bool
		want    int64
	}{
		{"not given", nil, false, 0},
		{"zero", []string{"-seed", "0"}, true, 0},
		{"positive", []string{"-seed", "42"}, true, 42},
		{"negative", []string{"-seed", "-7"}, true, -7},
		{"minimum", []string{"-seed=-9223372036854775808"}, true, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := parse(t, tt.args...)
			if o.SeedSet != tt.wantSet {
				t.Errorf("ParseFlags(%q).SeedSet = %v, want %v", tt.args, o.SeedSet, tt.wantSet)
			}
			if o.Seed != tt.want {
				t.Errorf("ParseFlags(%q).Seed = %d, want %d", tt.args, o.Seed, tt.want)
			}
			if tt.wantSet && o.LevelSeed() != tt.want {
				t.Errorf("LevelSeed() = %d, want %d", o.LevelSeed(), tt.want)
			}
		})
	}
}

func TestParseFlags_BadFlag(t *testing.T) {
	fs := flag.NewFlagSet("fogrunner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseFlags(fs, []string{"-seed", "soon"}); err == nil {
		t.Error("ParseFlags(-seed soon) error = nil, want error")
	}
}

func TestInitialState_ResumesValidSave(t *testing.T) {
	saved := save.New(11)
	saved.CurrentFloor = 4
	saved.Money = 23

	got := InitialState(parse(t), config.Default(), save.NewMemoryStore(&saved))
	if got != saved {
		t.Errorf("InitialState() = %+v, want %+v", got, saved)
	}
}

func TestInitialState_DiscardsInvalidSave(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *save.State)
	}{
		{"zero max speed", func(s *save.State) { s.PlayerProperties.MaxSpeed = 0 }},
		{"negative view distance", func(s *save.State) { s.PlayerProperties.ViewDistance = -1 }},
		{"negative floor", func(s *save.State) { s.CurrentFloor = -3 }},
	}
	cfg := config.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := save.New(11)
			saved.CurrentFloor = 4
			tt.corrupt(&saved)

			got := InitialState(parse(t), cfg, save.NewMemoryStore(&saved))
			if err := got.Validate(); err != nil {
				t.Fatalf("InitialState().Validate() = %v, want nil", err)
			}
			if got.CurrentFloor != 0 {
				t.Errorf("InitialState().CurrentFloor = %d, want 0", got.CurrentFloor)
			}
			if got.PlayerProperties != cfg.Player {
				t.Errorf("InitialState().PlayerProperties = %+v, want %+v", got.PlayerProperties, cfg.Player)
			}
		})
	}
}

func TestInitialState_NegativeSeedStartsNewRun(t *testing.T) {
	saved := save.New(11)
	saved.CurrentFloor = 4

	got := InitialState(parse(t, "-seed", "-5"), config.Default(), save.NewMemoryStore(&saved))
	if got.LevelSeed != -5 || got.CurrentFloor != 0 {
		t.Errorf("InitialState(-seed -5) = seed %d floor %d, want seed -5 floor 0", got.LevelSeed, got.CurrentFloor)
	}
}

func TestInitialState_Floor(t *testing.T) {
	got := InitialState(parse(t, "-seed", "3", "-floor", "6"), config.Default(), nil)
	if got.LevelSeed != 3 || got.CurrentFloor != 6 {
		t.Errorf("InitialState(-seed 3 -floor 6) = seed %d floor %d, want seed 3 floor 6", got.LevelSeed, got.CurrentFloor)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in          string
		first, last int64
		wantErr     bool
	}{
		{"1..20", 1, 20, false},
		{"3", 3, 3, false},
		{" 2 .. 5 ", 2, 5, false},
		{"a..3", 0, 0, true},
		{"1..b", 0, 0, true},
	}
	for _, tt := range tests {
		first, last, err := ParseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if first != tt.first || last != tt.last {
			t.Errorf("ParseRange(%q) = %d, %d, want %d, %d", tt.in, first, last, tt.first, tt.last)
		}
	}
}
