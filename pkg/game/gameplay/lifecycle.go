package gameplay

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"fogrunner/pkg/engine/input"
	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/floor"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/game/scoring"
	"fogrunner/pkg/logger"
)

// Phase is the stage a floor is in.
type Phase int

const (
	Loading Phase = iota
	WarmUp
	Running
	Scoring
	Paused
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case WarmUp:
		return "warmup"
	case Running:
		return "running"
	case Scoring:
		return "scoring"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Snapshot is what a frontend needs to draw one tick.
type Snapshot struct {
	Phase     Phase
	Floor     int64
	Money     int64
	Position  world.Vec2
	Cell      world.Coord
	Status    Status
	Direction world.Direction

	// CooldownRatio is the remaining share of the cooldown. It is only
	// reported while running and is 0 otherwise.
	CooldownRatio float64

	Countdown  float64
	WarmupTime float64
	Elapsed    float64
	Estimated  float64
	Progress   float64
	Rooms      map[world.Coord]float64

	// Card is set once the floor has been scored.
	Card *scoring.Card
}

// Session plays one floor at a time: it requests the layout, counts down,
// times the run while the player explores and scores the result. It is
// driven by a tick loop and must only be used from that loop's goroutine.
type Session struct {
	ctx     context.Context
	store   save.Store
	manager *floor.Manager

	state     save.State
	floor     *floor.Floor
	ctrl      *Controller
	held      input.Held
	estimated float64

	phase   Phase
	resume  Phase
	settled bool // the current phase's timer has run out

	countdown float64
	elapsed   float64
	card      *scoring.Card
	failures  int

	// OnPhaseChange, if set, is called on every phase transition.
	OnPhaseChange func(from, to Phase)
}

// NewSession returns a session for s that starts loading its floor right away.
// store may be nil when nothing should be persisted.
func NewSession(ctx context.Context, s save.State, store save.Store, manager *floor.Manager) *Session {
	if manager == nil {
		manager = floor.NewManager(nil, 0)
	}
	ss := &Session{
		ctx:     ctx,
		store:   store,
		manager: manager,
		state:   s.LeaveShop(),
		floor:   floor.New(),
	}
	ss.ctrl = NewController(ss.floor.Layout(), s.PlayerProperties)
	ss.ctrl.OnBounce = func(at, rejected world.Coord, speed float64) {
		logger.Log.WithFields(logrus.Fields{
			"at":       at,
			"rejected": rejected,
			"speed":    speed,
		}).Debug("movement rejected")
	}
	ss.enter(Loading)
	return ss
}

// State returns the run as it stands.
func (ss *Session) State() save.State { return ss.state }

// Phase returns the current phase.
func (ss *Session) Phase() Phase { return ss.phase }

// Controller returns the player's movement controller.
func (ss *Session) Controller() *Controller { return ss.ctrl }

// Floor returns the loaded floor.
func (ss *Session) Floor() *floor.Floor { return ss.floor }

// Failures returns how many generation attempts have failed so far.
func (ss *Session) Failures() int { return ss.failures }

// SetHeld records the directions held for the coming ticks.
func (ss *Session) SetHeld(h input.Held) { ss.held = h }

// Pause freezes the floor. A scored or already paused floor cannot be paused.
func (ss *Session) Pause() bool {
	if ss.phase == Scoring || ss.phase == Paused {
		return false
	}
	ss.resume = ss.phase
	ss.enter(Paused)
	return true
}

// Resume returns to the phase that was paused.
func (ss *Session) Resume() bool {
	if ss.phase != Paused {
		return false
	}
	ss.setPhase(ss.resume)
	return true
}

// TogglePause pauses a running floor or resumes a paused one.
func (ss *Session) TogglePause() {
	if !ss.Resume() {
		ss.Pause()
	}
}

// Restart generates the current floor again from scratch. The layout is the
// same because the seed has not changed. A scored floor cannot be restarted.
func (ss *Session) Restart() bool {
	if ss.phase == Scoring {
		return false
	}
	ss.manager.Abandon()
	ss.enter(Loading)
	return true
}

// Save persists the run as it stands.
func (ss *Session) Save() error {
	if ss.store == nil {
		return nil
	}
	s := ss.state
	return ss.store.Save(&s)
}

// Process handles phase transitions.
func (ss *Session) Process(dt float64) {
	switch ss.phase {
	case Loading:
		ss.poll()
	case WarmUp:
		if ss.settled {
			ss.enter(Running)
		}
	case Running:
		if ss.settled {
			ss.enter(Scoring)
		}
	}
}

// Physics moves the player, updates what it has seen and runs the timers.
func (ss *Session) Physics(dt float64) {
	switch ss.phase {
	case WarmUp:
		if !ss.settled {
			ss.countdown -= dt
		}
		if ss.countdown <= 0 {
			ss.settled = true
		}
		ss.observe()

	case Running:
		ss.elapsed += dt
		ss.ctrl.Physics(dt, ss.held)
		ss.observe()
		if ss.floor.Progress() >= 1 {
			ss.settled = true
		}
	}
}

func (ss *Session) observe() {
	ss.floor.Observe(ss.ctrl.Position(), ss.state.PlayerProperties.ViewDistance)
}

// Snapshot returns the outputs of the latest tick.
func (ss *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      ss.phase,
		Floor:      ss.state.CurrentFloor,
		Money:      ss.state.Money,
		Position:   ss.ctrl.Position(),
		Cell:       ss.ctrl.Cell(),
		Status:     ss.ctrl.Status(),
		Direction:  ss.ctrl.Direction(),
		Countdown:  max(ss.countdown, 0),
		WarmupTime: ss.state.PlayerProperties.WarmupTime,
		Elapsed:    ss.elapsed,
		Estimated:  ss.estimated,
		Progress:   ss.floor.Progress(),
		Rooms:      make(map[world.Coord]float64, ss.floor.Len()),
		Card:       ss.card,
	}
	if ss.phase == Running {
		snap.CooldownRatio = ss.ctrl.CooldownRatio()
	}
	for _, t := range ss.floor.Trackers() {
		snap.Rooms[t.Coord()] = t.SeenProgress()
	}
	return snap
}

func (ss *Session) poll() {
	out, ok := ss.manager.Poll()
	if !ok {
		return
	}
	if out.Err != nil {
		ss.failures++
		logger.Log.WithError(out.Err).WithField("failures", ss.failures).Warn("retrying floor setup")
		ss.enter(Loading)
		return
	}

	ss.floor.Load(out.Result.Layout)
	ss.ctrl.Load(ss.floor.Layout(), ss.state.PlayerProperties)
	ss.estimated = out.Result.EstimatedCompletionTime
	ss.enter(WarmUp)
}

func (ss *Session) enter(next Phase) {
	switch next {
	case Loading:
		ss.card = nil
		if _, err := ss.manager.Setup(ss.ctx, ss.state); err != nil {
			logger.Log.WithError(err).Error("floor setup not started")
		}
	case WarmUp:
		ss.settled = false
		ss.countdown = ss.state.PlayerProperties.WarmupTime
		ss.elapsed = 0
	case Running:
		ss.settled = false
		ss.elapsed = 0
	case Scoring:
		ss.score()
	}
	ss.setPhase(next)
}

func (ss *Session) setPhase(next Phase) {
	prev := ss.phase
	ss.phase = next
	logger.Log.WithFields(logrus.Fields{
		"from":  prev,
		"to":    next,
		"floor": ss.state.CurrentFloor,
	}).Debug("phase changed")
	if ss.OnPhaseChange != nil {
		ss.OnPhaseChange(prev, next)
	}
}

// score pays out the floor and moves the run on to the shop. A run that ends
// with no money is over and its save is cleared.
func (ss *Session) score() {
	card := scoring.NewCard(ss.state.CurrentFloor, ss.estimated, ss.elapsed, ss.state.Money)
	ss.card = &card
	ss.state = ss.state.EnterShop(card.Payout())

	entry := logger.Log.WithFields(logrus.Fields{
		"floor":     card.Floor,
		"elapsed":   card.Elapsed,
		"estimated": card.Estimated,
		"payout":    card.Payout(),
		"money":     card.EndMoney,
	})
	if ss.state.Bankrupt() {
		entry.Info("run defunded")
	} else {
		entry.Info("floor scored")
	}

	if ss.store == nil {
		return
	}
	var err error
	if ss.state.Bankrupt() {
		err = ss.store.Clear()
	} else {
		err = ss.Save()
	}
	if err != nil {
		logger.Log.WithError(err).Error("saving run failed")
	}
}
