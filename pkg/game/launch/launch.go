// Package launch reads the command line and picks the run the game starts with.
package launch

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"fogrunner/pkg/game/config"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

// Options holds the command-line flags.
type Options struct {
	ConfigPath string
	Seed       int64
	SeedSet    bool // -seed was given; any int64 is a valid seed
	Floor      int64
	Dev        int64

	Lang    string
	Locales string

	Schema bool
	Dump   bool
	Batch  string

	Headless bool
	Ticks    int
	Script   string
	Watch    bool
	Realtime bool

	Serve string
}

// ParseFlags registers the game's flags on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (Options, error) {
	var o Options
	fs.StringVar(&o.ConfigPath, "config", "", "path to a YAML config file")
	fs.Int64Var(&o.Seed, "seed", 0, "level seed for a new run (random when not given)")
	fs.Int64Var(&o.Floor, "floor", -1, "start a new run on this floor instead of resuming")
	fs.Int64Var(&o.Dev, "dev", -1, "use the developer block floor with this radius")
	fs.StringVar(&o.Lang, "lang", "en_GB", "language for interface text")
	fs.StringVar(&o.Locales, "locales", "locales", "directory holding translations")
	fs.BoolVar(&o.Schema, "schema", false, "print the save file JSON schema and exit")
	fs.BoolVar(&o.Dump, "dump", false, "print the floor map and room list and exit")
	fs.StringVar(&o.Batch, "batch", "", "summarise a range of floors, e.g. 1..20, and exit")
	fs.BoolVar(&o.Headless, "headless", false, "play without a window")
	fs.IntVar(&o.Ticks, "ticks", 0, "ticks to hold still for in a headless run without a script")
	fs.StringVar(&o.Script, "script", "", "headless input script, e.g. \"rx30,dx30,-x60\"")
	fs.BoolVar(&o.Watch, "watch", false, "print frames of a headless run")
	fs.BoolVar(&o.Realtime, "realtime", false, "pace a headless run at the tick rate")
	fs.StringVar(&o.Serve, "serve", "", "serve the floor inspector and live stream on this address")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.SeedSet = true
		}
	})
	return o, nil
}

// LevelSeed returns the -seed value, or a random seed when none was given.
func (o Options) LevelSeed() int64 {
	if o.SeedSet {
		return o.Seed
	}
	return rand.Int64()
}

// InitialState resumes the saved run unless the flags ask for a new one. A
// save that cannot be read or fails validation is replaced by a new run.
func InitialState(o Options, cfg config.Config, store save.Store) save.State {
	if store != nil && o.Floor < 0 && !o.SeedSet {
		saved, err := store.Load()
		if err == nil && saved != nil {
			err = saved.Validate()
		}
		if err != nil {
			logger.Log.WithError(err).Warn("save not loaded, starting a new run")
		} else if saved != nil {
			logger.Log.WithFields(logrus.Fields{
				"floor":   saved.CurrentFloor,
				"money":   saved.Money,
				"in_shop": saved.InShop,
			}).Info("resuming run")
			return *saved
		}
	}

	s := save.New(o.LevelSeed())
	s.PlayerProperties = cfg.Player
	if o.Floor >= 0 {
		s.CurrentFloor = o.Floor
	}
	logger.Log.WithFields(logrus.Fields{
		"level_seed": s.LevelSeed,
		"floor":      s.CurrentFloor,
	}).Info("new run")
	return s
}

// ParseRange reads "first..last" or a single floor.
func ParseRange(s string) (first, last int64, err error) {
	a, b, ok := strings.Cut(s, "..")
	if first, err = strconv.ParseInt(strings.TrimSpace(a), 10, 64); err != nil {
		return 0, 0, fmt.Errorf("floor range %q: %w", s, err)
	}
	if !ok {
		return first, first, nil
	}
	if last, err = strconv.ParseInt(strings.TrimSpace(b), 10, 64); err != nil {
		return 0, 0, fmt.Errorf("floor range %q: %w", s, err)
	}
	return first, last, nil
}
