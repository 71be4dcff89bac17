package gameplay

import (
	"context"

	"github.com/sirupsen/logrus"

	"fogrunner/pkg/game/floor"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/game/upgrades"
	"fogrunner/pkg/logger"
)

// Run strings floors together: a session per floor and the shop between
// them. Exactly one of Session and Shop is non-nil at a time.
type Run struct {
	ctx     context.Context
	store   save.Store
	manager *floor.Manager

	session *Session
	shop    *upgrades.Shop

	// OnPhaseChange is handed to every session the run starts.
	OnPhaseChange func(from, to Phase)
}

// NewRun resumes s: in the shop if s was saved there, otherwise on its floor.
func NewRun(ctx context.Context, s save.State, store save.Store, manager *floor.Manager) *Run {
	if manager == nil {
		manager = floor.NewManager(nil, 0)
	}
	r := &Run{ctx: ctx, store: store, manager: manager}
	if s.InShop {
		r.shop = upgrades.NewShop(s)
	} else {
		r.start(s)
	}
	return r
}

func (r *Run) start(s save.State) {
	r.shop = nil
	r.session = NewSession(r.ctx, s, r.store, r.manager)
	r.session.OnPhaseChange = func(from, to Phase) {
		if r.OnPhaseChange != nil {
			r.OnPhaseChange(from, to)
		}
	}
}

// Session returns the floor being played, or nil while shopping.
func (r *Run) Session() *Session { return r.session }

// Shop returns the open shop, or nil while a floor is being played.
func (r *Run) Shop() *upgrades.Shop { return r.shop }

// State returns the run as it stands.
func (r *Run) State() save.State {
	if r.shop != nil {
		return r.shop.State()
	}
	return r.session.State()
}

// Over reports whether the last floor left the run without money.
func (r *Run) Over() bool {
	return r.session != nil && r.session.Phase() == Scoring && r.session.State().Bankrupt()
}

// OpenShop moves from a scored floor into the shop. It fails while the floor
// is still being played or when the run is over.
func (r *Run) OpenShop() bool {
	if r.session == nil || r.session.Phase() != Scoring || r.Over() {
		return false
	}
	r.shop = upgrades.NewShop(r.session.State())
	r.session = nil
	logger.Log.WithFields(logrus.Fields{
		"floor": r.shop.State().CurrentFloor,
		"money": r.shop.State().Money,
	}).Info("shop opened")
	return true
}

// Buy buys offer i and saves the result.
func (r *Run) Buy(i int) error {
	if r.shop == nil {
		return upgrades.ErrNoSuchOffer
	}
	if err := r.shop.Buy(i); err != nil {
		return err
	}
	o := r.shop.Offers()[i]
	logger.Log.WithFields(logrus.Fields{
		"upgrade": o.Kind,
		"value":   o.Value,
		"money":   r.shop.State().Money,
	}).Info("upgrade bought")
	r.save(r.shop.State())
	return nil
}

// Reroll replaces the shop page and saves the result.
func (r *Run) Reroll() error {
	if r.shop == nil {
		return upgrades.ErrNoSuchOffer
	}
	if err := r.shop.Reroll(); err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"page":  r.shop.State().ModShopPage,
		"money": r.shop.State().Money,
	}).Debug("shop rerolled")
	r.save(r.shop.State())
	return nil
}

// Continue leaves the shop and starts the next floor.
func (r *Run) Continue() bool {
	if r.shop == nil {
		return false
	}
	s := r.shop.Leave()
	r.save(s)
	r.start(s)
	return true
}

// NewGame drops the current run and starts floor 0 of levelSeed.
func (r *Run) NewGame(levelSeed int64) {
	r.manager.Abandon()
	r.start(save.New(levelSeed))
	r.save(r.session.State())
}

// Process implements tick.Ticker. Nothing ticks while shopping.
func (r *Run) Process(dt float64) {
	if r.session != nil {
		r.session.Process(dt)
	}
}

// Physics implements tick.Ticker.
func (r *Run) Physics(dt float64) {
	if r.session != nil {
		r.session.Physics(dt)
	}
}

func (r *Run) save(s save.State) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(&s); err != nil {
		logger.Log.WithError(err).Error("saving run failed")
	}
}
