package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonelquinteros/gotext"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fogrunner/pkg/engine/input"
	"fogrunner/pkg/engine/terminal"
	"fogrunner/pkg/game/config"
	"fogrunner/pkg/game/devtools"
	"fogrunner/pkg/game/floor"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/headless"
	"fogrunner/pkg/game/launch"
	"fogrunner/pkg/game/renderer/ebiten"
	"fogrunner/pkg/game/renderer/tui"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

func main() {
	logger.Init()
	o, err := launch.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(o); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("exiting")
		os.Exit(1)
	}
}

func run(o launch.Options) error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return err
		}
	}
	config.Set(cfg)
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	}
	gotext.Configure(o.Locales, o.Lang, "default")

	if o.Schema {
		data, err := save.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := generator.DefaultGenerator
	if o.Dev >= 0 {
		gen = devtools.DevGenerator{Radius: o.Dev}
	}

	if o.Batch != "" {
		first, last, err := launch.ParseRange(o.Batch)
		if err != nil {
			return err
		}
		results, err := devtools.Batch(ctx, gen, o.LevelSeed(), first, last)
		if err != nil {
			return err
		}
		return devtools.WriteBatch(os.Stdout, results)
	}

	var store save.Store
	if cfg.Save.Path != "" {
		store = save.NewFileStore(cfg.Save.Path)
	}
	state := launch.InitialState(o, cfg, store)

	if o.Dump {
		d := devtools.NewDump(state, gen.Generate(state))
		return d.Write(os.Stdout, terminal.ColorEnabled(os.Stdout))
	}

	var live *devtools.Live
	g, ctx := errgroup.WithContext(ctx)
	if o.Serve != "" {
		live = devtools.NewLive()
		inspector := devtools.NewInspector(gen, live)
		g.Go(func() error {
			return inspector.Serve(ctx, o.Serve)
		})
	}

	r := gameplay.NewRun(ctx, state, store, floor.NewManager(gen, cfg.Generation.Timeout))
	r.OnPhaseChange = func(from, to gameplay.Phase) {
		logger.Log.WithFields(logrus.Fields{
			"from": from,
			"to":   to,
		}).Info("phase")
	}

	if o.Headless {
		g.Go(func() error {
			defer stop()
			return playHeadless(ctx, r, o, cfg, live)
		})
		return g.Wait()
	}

	err := ebiten.New(r, cfg, live).Run()
	stop()
	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) && err == nil {
		err = werr
	}
	return err
}

func playHeadless(ctx context.Context, r *gameplay.Run, o launch.Options, cfg config.Config, live *devtools.Live) error {
	steps := []input.ScriptStep{{Ticks: o.Ticks}}
	if o.Script != "" {
		var err error
		if steps, err = input.ParseScript(o.Script); err != nil {
			return err
		}
	}

	opts := headless.Options{
		Rate:        cfg.Simulation.TickRate,
		Script:      steps,
		Realtime:    o.Realtime,
		Live:        live,
		LiveEvery:   max(cfg.Simulation.TickRate/10, 1),
		LoadTimeout: cfg.Generation.Timeout,
	}
	if o.Watch {
		opts.Watch = tui.New(os.Stdout, terminal.ColorEnabled(os.Stdout))
		opts.WatchEvery = max(cfg.Simulation.TickRate/10, 1)
	}

	if r.Session() == nil {
		// A run saved in the shop starts its next floor straight away.
		r.Continue()
	}
	snap, err := headless.Play(ctx, r, opts)
	if err != nil {
		return err
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"floor":    snap.Floor,
		"phase":    snap.Phase,
		"elapsed":  snap.Elapsed,
		"progress": snap.Progress,
		"money":    snap.Money,
	})
	if snap.Card != nil {
		entry = entry.WithField("payout", snap.Card.Payout())
	}
	entry.Info("headless run finished")

	if opts.Watch != nil {
		opts.Watch.RenderFrame(r)
	}
	if o.Serve != "" {
		// Keep the inspector up until interrupted.
		<-ctx.Done()
	}
	return nil
}
