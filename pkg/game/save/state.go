// Package save holds the save-state snapshot that drives generation and
// movement tuning, the seed derived from it, and the stores that persist it.
package save

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// SeedSize is the width of a derived generation seed in bytes.
const SeedSize = 32

// ErrInvalidProperties is returned by PlayerProperties.Validate.
var ErrInvalidProperties = errors.New("invalid player properties")

// PlayerProperties tunes the player's movement and sight. Every field is
// strictly positive in a valid state.
type PlayerProperties struct {
	WarmupTime         float64 `json:"warmup_time" yaml:"warmup_time" jsonschema:"minimum=0,exclusiveMinimum=true"`
	MaxSpeed           float64 `json:"max_speed" yaml:"max_speed" jsonschema:"minimum=0,exclusiveMinimum=true"`
	ActiveAcceleration float64 `json:"active_acceleration" yaml:"active_acceleration" jsonschema:"minimum=0,exclusiveMinimum=true"`
	ViewDistance       float64 `json:"view_distance" yaml:"view_distance" jsonschema:"minimum=0,exclusiveMinimum=true"`
	StoppingMass       float64 `json:"stopping_mass" yaml:"stopping_mass" jsonschema:"minimum=0,exclusiveMinimum=true"`
}

// DefaultPlayerProperties returns the properties a new run starts with.
func DefaultPlayerProperties() PlayerProperties {
	return PlayerProperties{
		WarmupTime:         5,
		MaxSpeed:           24,
		ActiveAcceleration: 12,
		ViewDistance:       10,
		StoppingMass:       128,
	}
}

// Validate reports the first field that is not a finite positive number.
func (p PlayerProperties) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"warmup_time", p.WarmupTime},
		{"max_speed", p.MaxSpeed},
		{"active_acceleration", p.ActiveAcceleration},
		{"view_distance", p.ViewDistance},
		{"stopping_mass", p.StoppingMass},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidProperties, f.name, f.value)
		}
	}
	return nil
}

// State is an immutable snapshot of a run. Operations take it by value and
// return an updated copy rather than mutating a shared instance.
type State struct {
	LevelSeed        int64            `json:"level_seed"`
	CurrentFloor     int64            `json:"current_floor"`
	InShop           bool             `json:"in_shop"`
	ModShopPage      int32            `json:"mod_shop_page"`
	Money            int64            `json:"money"`
	PlayerProperties PlayerProperties `json:"player_properties"`
}

// New returns the state of a fresh run on floor 0.
func New(levelSeed int64) State {
	return State{
		LevelSeed:        levelSeed,
		PlayerProperties: DefaultPlayerProperties(),
	}
}

// shopValue is the shop-adjusted seed component: page+1 inside the shop, 0 otherwise.
func (s State) shopValue() int64 {
	if s.InShop {
		return int64(s.ModShopPage) + 1
	}
	return 0
}

// Seed packs the state into the generation seed: little-endian level_seed,
// current_floor, shop value and money, in that order. The layout must not
// change or regenerated floors stop matching existing saves.
func (s State) Seed() [SeedSize]byte {
	var seed [SeedSize]byte
	binary.LittleEndian.PutUint64(seed[0:8], uint64(s.LevelSeed))
	binary.LittleEndian.PutUint64(seed[8:16], uint64(s.CurrentFloor))
	binary.LittleEndian.PutUint64(seed[16:24], uint64(s.shopValue()))
	binary.LittleEndian.PutUint64(seed[24:32], uint64(s.Money))
	return seed
}

// Validate checks the snapshot for values no run can reach.
func (s State) Validate() error {
	if s.CurrentFloor < 0 {
		return fmt.Errorf("current_floor %d is negative", s.CurrentFloor)
	}
	if s.ModShopPage < 0 {
		return fmt.Errorf("mod_shop_page %d is negative", s.ModShopPage)
	}
	return s.PlayerProperties.Validate()
}

// Bankrupt reports whether a scored run has run out of money.
func (s State) Bankrupt() bool {
	return s.Money <= 0
}

// EnterShop returns the state after finishing a floor: money changes by
// payout, the floor index advances and the shop opens. The shop page keeps
// counting across floors.
func (s State) EnterShop(payout int64) State {
	s.Money += payout
	s.CurrentFloor++
	s.InShop = true
	return s
}

// LeaveShop returns the state for starting the current floor.
func (s State) LeaveShop() State {
	s.InShop = false
	return s
}
