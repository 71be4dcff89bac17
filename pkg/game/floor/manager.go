// Package floor owns the active floor: it generates layouts off the simulation
// goroutine and keeps one visibility tracker per room of the loaded layout.
package floor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

var (
	// ErrGenerationInFlight is returned by Setup while an earlier request is pending.
	ErrGenerationInFlight = errors.New("floor generation already in flight")

	// ErrGenerationFailed wraps a failure inside the generation worker. The
	// caller should restart level setup; no partial layout is ever delivered.
	ErrGenerationFailed = errors.New("floor generation failed")

	// ErrGenerationTimeout is reported when a request outlives the manager's timeout.
	ErrGenerationTimeout = errors.New("floor generation timed out")
)

// Outcome is the single result of a generation request.
type Outcome struct {
	ID      uuid.UUID
	State   save.State
	Result  generator.Result
	Err     error
	Elapsed time.Duration
}

type request struct {
	id      uuid.UUID
	state   save.State
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan Outcome
}

// Manager runs at most one generation request at a time. Setup and Poll are
// meant to be called from the simulation goroutine only.
type Manager struct {
	gen     generator.FloorGenerator
	timeout time.Duration

	pending *request
}

// NewManager returns a manager using gen. A zero timeout waits forever.
func NewManager(gen generator.FloorGenerator, timeout time.Duration) *Manager {
	if gen == nil {
		gen = generator.DefaultGenerator
	}
	return &Manager{gen: gen, timeout: timeout}
}

// InFlight reports whether a request is pending.
func (m *Manager) InFlight() bool {
	return m.pending != nil
}

// Setup starts generating the floor for s in the background and returns the
// request's ID. The state is copied; later changes by the caller are not seen.
func (m *Manager) Setup(ctx context.Context, s save.State) (uuid.UUID, error) {
	if m.pending != nil {
		return uuid.Nil, fmt.Errorf("%w: request %s", ErrGenerationInFlight, m.pending.id)
	}

	req := &request{
		id:      uuid.New(),
		state:   s,
		started: time.Now(),
		done:    make(chan Outcome, 1),
	}
	if m.timeout > 0 {
		req.ctx, req.cancel = context.WithTimeout(ctx, m.timeout)
	} else {
		req.ctx, req.cancel = context.WithCancel(ctx)
	}
	m.pending = req

	logger.Log.WithFields(logrus.Fields{
		"request":   req.id,
		"generator": m.gen.Name(),
		"floor":     s.CurrentFloor,
		"seed":      s.LevelSeed,
	}).Debug("floor generation started")

	go m.work(req)
	return req.id, nil
}

func (m *Manager) work(req *request) {
	out := Outcome{ID: req.id, State: req.state}
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("%w: %v", ErrGenerationFailed, r)
			out.Result = generator.Result{}
		}
		out.Elapsed = time.Since(req.started)
		req.done <- out
	}()
	out.Result = m.gen.Generate(req.state)
}

// Poll returns the outcome of the pending request once it is ready. It never
// blocks, and each request's outcome is returned exactly once.
func (m *Manager) Poll() (Outcome, bool) {
	req := m.pending
	if req == nil {
		return Outcome{}, false
	}

	select {
	case out := <-req.done:
		return m.finish(req, out), true
	default:
	}

	if err := req.ctx.Err(); err != nil {
		out := Outcome{ID: req.id, State: req.state, Elapsed: time.Since(req.started)}
		if errors.Is(err, context.DeadlineExceeded) {
			out.Err = fmt.Errorf("%w after %s", ErrGenerationTimeout, m.timeout)
		} else {
			out.Err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return m.finish(req, out), true
	}
	return Outcome{}, false
}

// Wait blocks until the pending request finishes or ctx is done. It is meant
// for tools and tests that have no tick loop to poll from.
func (m *Manager) Wait(ctx context.Context) (Outcome, error) {
	req := m.pending
	if req == nil {
		return Outcome{}, errors.New("no floor generation in flight")
	}
	select {
	case out := <-req.done:
		return m.finish(req, out), nil
	case <-req.ctx.Done():
		out, _ := m.Poll()
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Abandon drops the pending request. Its result, if it ever arrives, is discarded.
func (m *Manager) Abandon() {
	if m.pending == nil {
		return
	}
	logger.Log.WithField("request", m.pending.id).Debug("floor generation abandoned")
	m.pending.cancel()
	m.pending = nil
}

func (m *Manager) finish(req *request, out Outcome) Outcome {
	req.cancel()
	m.pending = nil

	entry := logger.Log.WithFields(logrus.Fields{
		"request": out.ID,
		"floor":   out.State.CurrentFloor,
		"elapsed": out.Elapsed,
	})
	if out.Err != nil {
		entry.WithError(out.Err).Error("floor generation failed")
	} else {
		entry.WithFields(logrus.Fields{
			"rooms":     out.Result.Layout.Len(),
			"estimated": out.Result.EstimatedCompletionTime,
		}).Info("floor generated")
	}
	return out
}
