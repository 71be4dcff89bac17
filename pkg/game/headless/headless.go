// Package headless plays a run without a window, from scripted input.
package headless

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"fogrunner/pkg/engine/input"
	"fogrunner/pkg/engine/tick"
	"fogrunner/pkg/game/devtools"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/game/renderer/tui"
	"fogrunner/pkg/logger"
)

// ErrLoadTimeout is returned when a floor does not finish loading in time.
var ErrLoadTimeout = errors.New("floor did not load in time")

// Options controls a headless run.
type Options struct {
	// Rate is the simulation rate in ticks per second.
	Rate int

	// Script is the input to play. Ticks spent loading a floor do not
	// consume script ticks.
	Script []input.ScriptStep

	// Realtime paces ticks at Rate instead of running as fast as possible.
	Realtime bool

	// Watch, if set, is given a frame every WatchEvery ticks.
	Watch      *tui.Renderer
	WatchEvery int

	// Live, if set, is sent a frame every LiveEvery ticks.
	Live      *devtools.Live
	LiveEvery int

	// LoadTimeout bounds how long a floor may take to load. Zero waits for
	// the context.
	LoadTimeout time.Duration
}

// Play feeds the script to the run's current floor and returns the last
// snapshot. It stops early once the floor is scored.
func Play(ctx context.Context, run *gameplay.Run, opts Options) (gameplay.Snapshot, error) {
	if opts.Rate <= 0 {
		opts.Rate = tick.DefaultRate
	}
	dt := 1 / float64(opts.Rate)

	ss := run.Session()
	if ss == nil {
		return gameplay.Snapshot{}, errors.New("run is in the shop")
	}

	var pace <-chan time.Time
	if opts.Realtime {
		t := time.NewTicker(time.Second / time.Duration(opts.Rate))
		defer t.Stop()
		pace = t.C
	}

	ticks := 0
	for _, step := range opts.Script {
		for range step.Ticks {
			if err := waitLoaded(ctx, run, dt, opts.LoadTimeout); err != nil {
				return ss.Snapshot(), err
			}
			if pace != nil {
				select {
				case <-ctx.Done():
					return ss.Snapshot(), ctx.Err()
				case <-pace:
				}
			}

			ss.SetHeld(step.Held)
			tick.Step(run, dt)
			ticks++
			emit(run, ss, opts, ticks)

			if ss.Phase() == gameplay.Scoring {
				logger.Log.WithFields(logrus.Fields{
					"ticks": ticks,
					"floor": ss.Snapshot().Floor,
				}).Info("floor finished")
				return ss.Snapshot(), nil
			}
		}
	}
	return ss.Snapshot(), nil
}

// waitLoaded ticks a loading floor until its layout arrives.
func waitLoaded(ctx context.Context, run *gameplay.Run, dt float64, timeout time.Duration) error {
	ss := run.Session()
	if ss.Phase() != gameplay.Loading {
		return nil
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for ss.Phase() == gameplay.Loading {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrLoadTimeout
		}
		tick.Step(run, dt)
		if ss.Phase() == gameplay.Loading {
			time.Sleep(time.Millisecond)
		}
	}
	return nil
}

func emit(run *gameplay.Run, ss *gameplay.Session, opts Options, ticks int) {
	if opts.Watch != nil && opts.WatchEvery > 0 && ticks%opts.WatchEvery == 0 {
		opts.Watch.Clear()
		opts.Watch.RenderFrame(run)
	}
	if opts.Live != nil && opts.LiveEvery > 0 && ticks%opts.LiveEvery == 0 {
		opts.Live.Publish(devtools.FrameOf(ss.Snapshot()))
	}
}
