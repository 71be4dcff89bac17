package upgrades

import (
	"errors"
	"math"
	"testing"

	"fogrunner/pkg/game/save"
)

func shopState(seed, floor int64, page int32, money int64) save.State {
	s := save.New(seed)
	s.CurrentFloor = floor
	s.InShop = true
	s.ModShopPage = page
	s.Money = money
	return s
}

func TestNewShop_Golden(t *testing.T) {
	tests := []struct {
		name  string
		state save.State
		want  [OfferCount]Upgrade
	}{
		{
			name:  "seed 0 floor 1 page 0",
			state: shopState(0, 1, 0, 10),
			want: [OfferCount]Upgrade{
				{AddSpeed, 2.8699733882646163},
				{AddAcceleration, 3.797811081672799},
				{AddAcceleration, 1.864562650437611},
			},
		},
		{
			name:  "seed 0 floor 1 page 1",
			state: shopState(0, 1, 1, 6),
			want: [OfferCount]Upgrade{
				{MultiplyAcceleration, 2.344061961003579},
				{AddWarmup, 3.269974169573698},
				{AddAcceleration, 4.298396186277262},
			},
		},
		{
			name:  "seed 42 floor 3",
			state: shopState(42, 3, 0, 25),
			want: [OfferCount]Upgrade{
				{MultiplyViewDistance, 3.1583382139789116},
				{MultiplyAcceleration, 2.5148964063228147},
				{DivideMass, 1.3519670368520291},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := NewShop(tt.state).Offers()
			for i, o := range offers {
				if o.Kind != tt.want[i].Kind || math.Abs(o.Value-tt.want[i].Value) > 1e-12 {
					t.Errorf("offer %d = %v(%v), want %v(%v)", i, o.Kind, o.Value, tt.want[i].Kind, tt.want[i].Value)
				}
				if o.Sold {
					t.Errorf("offer %d already sold", i)
				}
			}
		})
	}
}

func TestUpgrade_Table(t *testing.T) {
	tests := []struct {
		up        Upgrade
		wantName  string
		wantDesc  string
		wantPrice int64
		wantProb  float64
	}{
		{Upgrade{AddWarmup, 2.5}, "Temporal Rift", "preview time +2.5s", 4, 0.08},
		{Upgrade{MultiplySpeed, 2}, "Rocket Boots", "top speed x2.0", 6, 0.01},
		{Upgrade{AddSpeed, 4.9}, "Cheetah Soul", "top speed +4.9m/s", 6, 0.1 / 4.9},
		{Upgrade{MultiplyAcceleration, 1.5}, "Steroids", "acceleration x1.5", 5, 0.01 / 1.5},
		{Upgrade{AddAcceleration, 1}, "Leg Workout", "acceleration +1.0m/s^2", 3, 0.05},
		{Upgrade{MultiplyViewDistance, 10}, "Enhanced Eyes", "view distance +10.0m", 14, 0.01},
		{Upgrade{DivideMass, 2}, "Gym Membership", "mass /2.0", 8, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if got := tt.up.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := tt.up.Kind.String(); got != tt.wantName {
				t.Errorf("Kind.String() = %q, want %q", got, tt.wantName)
			}
			if got := tt.up.Description(); got != tt.wantDesc {
				t.Errorf("Description() = %q, want %q", got, tt.wantDesc)
			}
			if got := tt.up.Price(); got != tt.wantPrice {
				t.Errorf("Price() = %d, want %d", got, tt.wantPrice)
			}
			if got := tt.up.Probability(); math.Abs(got-tt.wantProb) > 1e-12 {
				t.Errorf("Probability() = %v, want %v", got, tt.wantProb)
			}
		})
	}
}

func TestKind_StringOutOfRange(t *testing.T) {
	if got := kindCount.String(); got != "Kind(7)" {
		t.Errorf("kindCount.String() = %q, want %q", got, "Kind(7)")
	}
	if got := (Upgrade{Kind: -1}).Description(); got != "" {
		t.Errorf("Description() of unknown kind = %q, want empty", got)
	}
}

func TestUpgrade_Apply(t *testing.T) {
	base := save.New(0)
	p := base.PlayerProperties

	tests := []struct {
		up    Upgrade
		check func(save.PlayerProperties) bool
	}{
		{Upgrade{AddWarmup, 2}, func(q save.PlayerProperties) bool { return q.WarmupTime == p.WarmupTime+2 }},
		{Upgrade{MultiplySpeed, 2}, func(q save.PlayerProperties) bool { return q.MaxSpeed == p.MaxSpeed*2 }},
		{Upgrade{AddSpeed, 3}, func(q save.PlayerProperties) bool { return q.MaxSpeed == p.MaxSpeed+3 }},
		{Upgrade{MultiplyAcceleration, 2}, func(q save.PlayerProperties) bool { return q.ActiveAcceleration == p.ActiveAcceleration*2 }},
		{Upgrade{AddAcceleration, 1}, func(q save.PlayerProperties) bool { return q.ActiveAcceleration == p.ActiveAcceleration+1 }},
		{Upgrade{MultiplyViewDistance, 3}, func(q save.PlayerProperties) bool { return q.ViewDistance == p.ViewDistance*3 }},
		{Upgrade{DivideMass, 2}, func(q save.PlayerProperties) bool { return q.StoppingMass == p.StoppingMass/2 }},
	}
	for _, tt := range tests {
		got := tt.up.Apply(base)
		if !tt.check(got.PlayerProperties) {
			t.Errorf("%v(%v).Apply() = %+v", tt.up.Kind, tt.up.Value, got.PlayerProperties)
		}
		if base.PlayerProperties != p {
			t.Fatalf("%v.Apply() mutated its input", tt.up.Kind)
		}
	}
}

func TestShop_BuyAndReroll(t *testing.T) {
	sh := NewShop(shopState(0, 1, 0, 10))
	first := sh.Offers()

	// AddSpeed 2.87 costs 4.
	if err := sh.Buy(0); err != nil {
		t.Fatalf("Buy(0) error = %v", err)
	}
	if got := sh.State().Money; got != 6 {
		t.Errorf("Money after Buy(0) = %d, want 6", got)
	}
	if want := 24 + first[0].Value; sh.State().PlayerProperties.MaxSpeed != want {
		t.Errorf("MaxSpeed = %v, want %v", sh.State().PlayerProperties.MaxSpeed, want)
	}
	if err := sh.Buy(0); !errors.Is(err, ErrAlreadySold) {
		t.Errorf("second Buy(0) error = %v, want ErrAlreadySold", err)
	}
	if err := sh.Buy(3); !errors.Is(err, ErrNoSuchOffer) {
		t.Errorf("Buy(3) error = %v, want ErrNoSuchOffer", err)
	}

	if err := sh.Reroll(); err != nil {
		t.Fatalf("Reroll() error = %v", err)
	}
	if sh.State().Money != 2 || sh.RerollCost() != 8 || sh.State().ModShopPage != 1 {
		t.Errorf("after Reroll(): money %d cost %d page %d, want 2, 8, 1", sh.State().Money, sh.RerollCost(), sh.State().ModShopPage)
	}
	// The reroll is paid before the new page is drawn, so $2 is in the seed.
	if o := sh.Offers()[0]; o.Kind != MultiplyAcceleration || math.Abs(o.Value-2.2313417411358483) > 1e-12 {
		t.Errorf("Offers()[0] after reroll = %v(%v), want Steroids(2.2313417411358483)", o.Kind, o.Value)
	}
	if err := sh.Reroll(); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Reroll() with $2 error = %v, want ErrInsufficientFunds", err)
	}

	next := sh.Leave()
	if next.InShop {
		t.Error("Leave().InShop = true, want false")
	}
}

func TestRandom_ValuesInRange(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		for _, o := range NewShop(shopState(seed, seed%7+1, 0, seed)).Offers() {
			info := table[o.Kind]
			if o.Value < info.min || o.Value > info.max {
				t.Errorf("seed %d: %v value %v outside [%v,%v]", seed, o.Kind, o.Value, info.min, info.max)
			}
		}
	}
}
