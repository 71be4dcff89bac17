package upgrades

import (
	"errors"
	"fmt"

	"fogrunner/pkg/engine/rng"
	"fogrunner/pkg/game/save"
)

const (
	// OfferCount is the number of upgrades on a shop page.
	OfferCount = 3

	// InitialRerollCost is the price of the first reroll; each reroll doubles it.
	InitialRerollCost int64 = 4

	warmupRolls = 3
)

var (
	ErrNoSuchOffer       = errors.New("no such offer")
	ErrAlreadySold       = errors.New("offer already sold")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Offer is an upgrade on the current shop page.
type Offer struct {
	Upgrade
	Sold bool
}

// Shop sells upgrades between floors. Offers are drawn from the same seed as
// the floor, so a given save always sees the same page.
type Shop struct {
	state      save.State
	offers     [OfferCount]Offer
	rerollCost int64
}

// NewShop opens the shop for s. s should be in the shop.
func NewShop(s save.State) *Shop {
	sh := &Shop{state: s, rerollCost: InitialRerollCost}
	sh.populate()
	return sh
}

func (sh *Shop) populate() {
	src := rng.New(sh.state.Seed())
	for range warmupRolls {
		Random(src)
	}
	for i := range sh.offers {
		sh.offers[i] = Offer{Upgrade: Random(src)}
	}
}

// State returns the run as the shop leaves it.
func (sh *Shop) State() save.State { return sh.state }

// Offers returns the current page.
func (sh *Shop) Offers() [OfferCount]Offer { return sh.offers }

// RerollCost returns the price of the next reroll.
func (sh *Shop) RerollCost() int64 { return sh.rerollCost }

// CanAfford reports whether the player can pay price.
func (sh *Shop) CanAfford(price int64) bool {
	return sh.state.Money >= price
}

// Buy pays for offer i and applies it.
func (sh *Shop) Buy(i int) error {
	if i < 0 || i >= OfferCount {
		return fmt.Errorf("%w: %d", ErrNoSuchOffer, i)
	}
	o := &sh.offers[i]
	if o.Sold {
		return fmt.Errorf("%w: %s", ErrAlreadySold, o.Kind)
	}
	price := o.Price()
	if !sh.CanAfford(price) {
		return fmt.Errorf("%w: %s costs $%d, have $%d", ErrInsufficientFunds, o.Kind, price, sh.state.Money)
	}

	sh.state.Money -= price
	o.Sold = true
	sh.state = o.Apply(sh.state)
	return nil
}

// Reroll pays for a new page. The page counter is part of the seed, so the
// new offers differ from the old ones.
func (sh *Shop) Reroll() error {
	if !sh.CanAfford(sh.rerollCost) {
		return fmt.Errorf("%w: reroll costs $%d, have $%d", ErrInsufficientFunds, sh.rerollCost, sh.state.Money)
	}
	sh.state.Money -= sh.rerollCost
	sh.rerollCost *= 2
	sh.state.ModShopPage++
	sh.populate()
	return nil
}

// Leave closes the shop and returns the state to start the next floor with.
func (sh *Shop) Leave() save.State {
	return sh.state.LeaveShop()
}
