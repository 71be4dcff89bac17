// Package upgrades defines the player upgrades sold between floors and the
// shop that offers them.
package upgrades

import (
	"fmt"
	"math"

	"github.com/leonelquinteros/gotext"

	"fogrunner/pkg/engine/rng"
	"fogrunner/pkg/game/save"
)

// Kind identifies what an upgrade changes.
type Kind int

const (
	AddWarmup Kind = iota
	MultiplySpeed
	AddSpeed
	MultiplyAcceleration
	AddAcceleration
	MultiplyViewDistance
	DivideMass

	kindCount
)

// kindInfo is one row of the upgrade table.
type kindInfo struct {
	basePrice int64
	rarity    float64
	min, max  float64
	apply     func(p *save.PlayerProperties, v float64)
}

var table = [kindCount]kindInfo{
	AddWarmup: {
		basePrice: 2, rarity: 0.2, min: 1, max: 5,
		apply: func(p *save.PlayerProperties, v float64) { p.WarmupTime += v },
	},
	MultiplySpeed: {
		basePrice: 4, rarity: 0.02, min: 1.2, max: 3,
		apply: func(p *save.PlayerProperties, v float64) { p.MaxSpeed *= v },
	},
	AddSpeed: {
		basePrice: 2, rarity: 0.1, min: 1, max: 5,
		apply: func(p *save.PlayerProperties, v float64) { p.MaxSpeed += v },
	},
	MultiplyAcceleration: {
		basePrice: 4, rarity: 0.01, min: 1.2, max: 3,
		apply: func(p *save.PlayerProperties, v float64) { p.ActiveAcceleration *= v },
	},
	AddAcceleration: {
		basePrice: 2, rarity: 0.05, min: 1, max: 5,
		apply: func(p *save.PlayerProperties, v float64) { p.ActiveAcceleration += v },
	},
	MultiplyViewDistance: {
		basePrice: 4, rarity: 0.1, min: 2, max: 10,
		apply: func(p *save.PlayerProperties, v float64) { p.ViewDistance *= v },
	},
	DivideMass: {
		basePrice: 6, rarity: 0.1, min: 1.2, max: 2.5,
		apply: func(p *save.PlayerProperties, v float64) { p.StoppingMass /= v },
	},
}

func (k Kind) String() string {
	switch k {
	case AddWarmup:
		return "Temporal Rift"
	case MultiplySpeed:
		return "Rocket Boots"
	case AddSpeed:
		return "Cheetah Soul"
	case MultiplyAcceleration:
		return "Steroids"
	case AddAcceleration:
		return "Leg Workout"
	case MultiplyViewDistance:
		return "Enhanced Eyes"
	case DivideMass:
		return "Gym Membership"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Upgrade is a kind together with its rolled strength.
type Upgrade struct {
	Kind  Kind
	Value float64
}

// Random rolls an upgrade: a uniformly chosen kind, then a value uniform in
// that kind's range.
func Random(src rng.Source) Upgrade {
	k := Kind(rng.Int32Inclusive(src, 0, int32(kindCount)-1))
	info := table[k]
	return Upgrade{Kind: k, Value: rng.Float64Inclusive(src, info.min, info.max)}
}

// Apply returns s with the upgrade applied to its player properties.
func (u Upgrade) Apply(s save.State) save.State {
	table[u.Kind].apply(&s.PlayerProperties, u.Value)
	return s
}

// Name returns the display name.
func (u Upgrade) Name() string {
	switch u.Kind {
	case AddWarmup:
		return gotext.Get("Temporal Rift")
	case MultiplySpeed:
		return gotext.Get("Rocket Boots")
	case AddSpeed:
		return gotext.Get("Cheetah Soul")
	case MultiplyAcceleration:
		return gotext.Get("Steroids")
	case AddAcceleration:
		return gotext.Get("Leg Workout")
	case MultiplyViewDistance:
		return gotext.Get("Enhanced Eyes")
	case DivideMass:
		return gotext.Get("Gym Membership")
	default:
		return u.Kind.String()
	}
}

// Description returns the display description with the value filled in.
func (u Upgrade) Description() string {
	switch u.Kind {
	case AddWarmup:
		return gotext.Get("preview time +%.1fs", u.Value)
	case MultiplySpeed:
		return gotext.Get("top speed x%.1f", u.Value)
	case AddSpeed:
		return gotext.Get("top speed +%.1fm/s", u.Value)
	case MultiplyAcceleration:
		return gotext.Get("acceleration x%.1f", u.Value)
	case AddAcceleration:
		return gotext.Get("acceleration +%.1fm/s^2", u.Value)
	case MultiplyViewDistance:
		// Sold as "+n m" but applied as a multiplier; saves in the wild depend on it.
		return gotext.Get("view distance +%.1fm", u.Value)
	case DivideMass:
		return gotext.Get("mass /%.1f", u.Value)
	default:
		return ""
	}
}

// Price returns the cost: the kind's base price plus the whole part of the value.
func (u Upgrade) Price() int64 {
	return table[u.Kind].basePrice + int64(math.Floor(u.Value))
}

// Probability returns how rare the rolled upgrade is; stronger rolls are rarer.
func (u Upgrade) Probability() float64 {
	return table[u.Kind].rarity / u.Value
}
