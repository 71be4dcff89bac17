package devtools

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

// BatchResult summarises one generated floor.
type BatchResult struct {
	Seed      int64   `json:"level_seed"`
	Floor     int64   `json:"floor"`
	Steps     int64   `json:"steps"`
	Rooms     int     `json:"rooms"`
	Width     int64   `json:"width"`
	Height    int64   `json:"height"`
	Estimated float64 `json:"estimated_completion_time"`
	Connected bool    `json:"connected"`
}

// Summarise describes a generated floor.
func Summarise(s save.State, r generator.Result) BatchResult {
	lo, hi := r.Layout.Bounds()
	return BatchResult{
		Seed:      s.LevelSeed,
		Floor:     s.CurrentFloor,
		Steps:     r.Steps,
		Rooms:     r.Layout.Len(),
		Width:     hi.X - lo.X + 1,
		Height:    hi.Y - lo.Y + 1,
		Estimated: r.EstimatedCompletionTime,
		Connected: r.Layout.Connected(),
	}
}

// Batch generates floors first..last of seed in parallel and returns their
// summaries in floor order. It stops at the first disconnected layout.
func Batch(ctx context.Context, gen generator.FloorGenerator, seed, first, last int64) ([]BatchResult, error) {
	if gen == nil {
		gen = generator.DefaultGenerator
	}
	if last < first {
		return nil, fmt.Errorf("empty floor range %d..%d", first, last)
	}

	results := make([]BatchResult, last-first+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range results {
		s := save.New(seed)
		s.CurrentFloor = first + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := Summarise(s, gen.Generate(s))
			if !res.Connected {
				return fmt.Errorf("floor %d of seed %d is not connected", s.CurrentFloor, seed)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"seed":      seed,
		"floors":    len(results),
		"generator": gen.Name(),
	}).Debug("batch generated")
	return results, nil
}

// WriteBatch prints one line per floor followed by a total.
func WriteBatch(w io.Writer, results []BatchResult) error {
	ew := &errWriter{w: w}
	ew.printf("%6s %6s %6s %9s %10s\n", "floor", "steps", "rooms", "size", "estimate")
	rooms := 0
	estimated := 0.0
	for _, r := range results {
		ew.printf("%6d %6d %6d %4dx%-4d %10.2f\n", r.Floor, r.Steps, r.Rooms, r.Width, r.Height, r.Estimated)
		rooms += r.Rooms
		estimated += r.Estimated
	}
	ew.printf("%6s %6s %6d %9s %10.2f\n", "total", "", rooms, "", estimated)
	return ew.err
}
