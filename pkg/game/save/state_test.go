package save

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestState_Seed(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  [SeedSize]byte
	}{
		{
			name:  "floor one",
			state: State{CurrentFloor: 1},
			want:  [SeedSize]byte{8: 1},
		},
		{
			name:  "shop page offset",
			state: State{LevelSeed: 7, CurrentFloor: 1, InShop: true, ModShopPage: 2, Money: 15},
			want:  [SeedSize]byte{0: 7, 8: 1, 16: 3, 24: 15},
		},
		{
			name:  "page ignored outside shop",
			state: State{ModShopPage: 9},
			want:  [SeedSize]byte{},
		},
		{
			name:  "negative values are two's complement",
			state: State{LevelSeed: -1, Money: -2},
			want: [SeedSize]byte{
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0,
				0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Seed(); got != tt.want {
				t.Errorf("Seed() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestState_SeedIgnoresProperties(t *testing.T) {
	a := New(3)
	b := New(3)
	b.PlayerProperties.MaxSpeed = 99
	if a.Seed() != b.Seed() {
		t.Error("Seed() depends on player properties, want it not to")
	}
}

func TestPlayerProperties_Validate(t *testing.T) {
	if err := DefaultPlayerProperties().Validate(); err != nil {
		t.Fatalf("DefaultPlayerProperties().Validate() = %v, want nil", err)
	}

	bad := []func(*PlayerProperties){
		func(p *PlayerProperties) { p.WarmupTime = 0 },
		func(p *PlayerProperties) { p.MaxSpeed = -1 },
		func(p *PlayerProperties) { p.ActiveAcceleration = math.NaN() },
		func(p *PlayerProperties) { p.ViewDistance = math.Inf(1) },
		func(p *PlayerProperties) { p.StoppingMass = 0 },
	}
	for i, mutate := range bad {
		p := DefaultPlayerProperties()
		mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidProperties) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidProperties", i, err)
		}
	}
}

func TestState_EnterShop(t *testing.T) {
	s := State{CurrentFloor: 2, Money: 5, ModShopPage: 3}
	next := s.EnterShop(-7)
	if next.CurrentFloor != 3 || next.Money != -2 || !next.InShop || next.ModShopPage != 3 {
		t.Errorf("EnterShop(-7) = %+v, want floor 3, money -2, in shop, page 3", next)
	}
	if !next.Bankrupt() {
		t.Error("Bankrupt() = false with negative money, want true")
	}
	if s.InShop {
		t.Error("EnterShop mutated the receiver")
	}
	if next.LeaveShop().InShop {
		t.Error("LeaveShop().InShop = true, want false")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(nil)
	got, err := store.Load()
	if err != nil || got != nil {
		t.Fatalf("Load() on empty store = %v, %v, want nil, nil", got, err)
	}

	s := New(11)
	if err := store.Save(&s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Money = 500
	got, _ = store.Load()
	if got == nil || got.Money != 0 || got.LevelSeed != 11 {
		t.Errorf("Load() = %+v, want stored copy unaffected by caller", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := store.Load(); got != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", got)
	}
}

func TestFileStore_RoundTripAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "game.save")
	store := NewFileStore(path)

	if got, err := store.Load(); err != nil || got != nil {
		t.Fatalf("Load() with no file = %v, %v, want nil, nil", got, err)
	}

	s := State{LevelSeed: 42, CurrentFloor: 3, InShop: true, ModShopPage: 1, Money: 20, PlayerProperties: DefaultPlayerProperties()}
	if err := store.Save(&s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, key := range []string{`"level_seed":42`, `"mod_shop_page":1`, `"stopping_mass":128`} {
		if !bytes.Contains(raw, []byte(key)) {
			t.Errorf("save file %s missing %s", raw, key)
		}
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != s {
		t.Errorf("Load() = %+v, want %+v", *got, s)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	raw, _ = os.ReadFile(path)
	if string(raw) != "null" {
		t.Errorf("cleared save file = %q, want null", raw)
	}

	schema, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}
	if !strings.Contains(string(schema), "level_seed") {
		t.Error("SchemaJSON() does not mention level_seed")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.save")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() of corrupt file error = nil, want error")
	}
}
