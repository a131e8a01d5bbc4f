package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"orthotree"
	"orthotree/internal/pointgen"
)

func runCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("run", "cross-check the kd-tree and the quadtree over generated point sets")
	configPath := cmd.Flag("config", "TOML file with suite settings").Short('c').ExistingFile()
	trace := cmd.Flag("trace", "log every build and query step at trace level").Bool()

	o := suiteFlags(cmd)

	return cmd, func(out io.Writer) int {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			logrus.WithError(err).Error("cannot load config")
			return 2
		}
		cfg = o.apply(cfg)
		if err := cfg.validate(); err != nil {
			logrus.WithError(err).Error("invalid config")
			return 2
		}
		log := logrus.New()
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.WithError(err).Error("invalid log level")
			return 2
		}
		log.SetLevel(level)
		if *trace {
			log.SetLevel(logrus.TraceLevel)
		}

		res, err := runSuites(cfg, log, *trace)
		if err != nil {
			log.WithError(err).Error("suite aborted")
			return 2
		}
		res.print(out)
		if res.mismatches > 0 {
			return 1
		}
		return 0
	}
}

// suiteFlags registers the suite settings on cmd. Each flag marks itself
// as set when it appears on the command line.
func suiteFlags(cmd *kingpin.CmdClause) *overrides {
	o := newOverrides()
	flag := func(name, help string) *kingpin.FlagClause {
		return cmd.Flag(name, help).Action(func(*kingpin.ParseContext) error {
			o.set[name] = true
			return nil
		})
	}
	flag("size", "point count per suite, repeatable").IntsVar(&o.sizes)
	flag("generator", "generator to run, repeatable; all when omitted").StringsVar(&o.generators)
	flag("left", "lower coordinate bound of generated points and queries").Float64Var(&o.left)
	flag("right", "upper coordinate bound of generated points and queries").Float64Var(&o.right)
	flag("queries", "random rectangles per suite").Short('q').IntVar(&o.queries)
	flag("seed", "random seed").Int64Var(&o.seed)
	flag("epsilon", "kd-tree comparison tolerance").Float64Var(&o.epsilon)
	flag("bucket", "quadtree leaf capacity").IntVar(&o.bucketSize)
	flag("max-depth", "quadtree depth cap").IntVar(&o.maxDepth)
	flag("log-level", "panic, fatal, error, warn, info, debug or trace").StringVar(&o.logLevel)
	return o
}

type suiteResult struct {
	suites     int
	skipped    int
	points     int
	queries    int
	mismatches int
	elapsed    time.Duration
}

func (r suiteResult) print(out io.Writer) {
	status := color.GreenString("PASS")
	if r.mismatches > 0 {
		status = color.RedString("FAIL")
	}
	fmt.Fprintf(out, "%s %s suites, %s points, %s queries, %s mismatches in %s\n",
		status,
		humanize.Comma(int64(r.suites)),
		humanize.Comma(int64(r.points)),
		humanize.Comma(int64(r.queries)),
		humanize.Comma(int64(r.mismatches)),
		r.elapsed.Round(time.Millisecond))
	if r.skipped > 0 {
		fmt.Fprintf(out, "%s %s empty suites skipped\n", color.YellowString("WARN"), humanize.Comma(int64(r.skipped)))
	}
}

func selectGenerators(cfg suiteConfig) ([]pointgen.Generator, error) {
	all := pointgen.Suite(cfg.Left, cfg.Right)
	if len(cfg.Generators) == 0 {
		return all, nil
	}
	byName := make(map[string]pointgen.Generator, len(all))
	for _, g := range all {
		byName[g.Name] = g
	}
	var out []pointgen.Generator
	for _, name := range cfg.Generators {
		g, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("unknown generator %q", name)
		}
		out = append(out, g)
	}
	return out, nil
}

// runSuites builds both structures over every generator and size in cfg and
// compares their answers on random rectangles drawn from [Left, Right]^2.
func runSuites(cfg suiteConfig, log *logrus.Logger, trace bool) (suiteResult, error) {
	gens, err := selectGenerators(cfg)
	if err != nil {
		return suiteResult{}, err
	}
	var opts []orthotree.Option
	if trace {
		opts = append(opts, orthotree.WithObserver(orthotree.NewLogObserver(log)))
	}
	quadOpts := append([]orthotree.Option{
		orthotree.WithBucketSize(cfg.BucketSize),
		orthotree.WithMaxDepth(cfg.MaxDepth),
	}, opts...)

	rnd := rand.New(rand.NewSource(cfg.Seed))
	var res suiteResult
	start := time.Now()
	for _, n := range cfg.Sizes {
		for _, g := range gens {
			suiteLog := log.WithFields(logrus.Fields{"generator": g.Name, "size": n})
			raw, err := g.Make(rnd, n)
			if err != nil {
				return res, errors.Wrapf(err, "generating %s/%d", g.Name, n)
			}
			if len(raw) == 0 {
				suiteLog.Warn("generator produced no points, skipping")
				res.skipped++
				continue
			}
			pts := orthotree.FromOrb(raw)

			kd, err := orthotree.BuildKDTree(pts, 2, cfg.Epsilon, opts...)
			if err != nil {
				return res, errors.Wrapf(err, "kd-tree for %s/%d", g.Name, n)
			}
			qt, err := orthotree.BuildQuadtree(pts, quadOpts...)
			if err != nil {
				return res, errors.Wrapf(err, "quadtree for %s/%d", g.Name, n)
			}
			res.suites++
			res.points += kd.Len()
			suiteLog.WithFields(logrus.Fields{
				"kd_depth":   kd.Depth(),
				"quad_depth": qt.Depth(),
				"quad_nodes": qt.Stats().Nodes,
			}).Debug("built")

			for i := 0; i < cfg.Queries; i++ {
				ll, ur := randomQuery(rnd, cfg.Left, cfg.Right)
				want, err := kd.Query(ll, ur)
				if err != nil {
					return res, err
				}
				got, err := qt.Query(ll, ur)
				if err != nil {
					return res, err
				}
				res.queries++
				if !want.Equal(got) {
					res.mismatches++
					suiteLog.WithFields(logrus.Fields{
						"lower_left":  ll.String(),
						"upper_right": ur.String(),
						"kdtree":      want.Len(),
						"quadtree":    got.Len(),
					}).Error("structures disagree")
				}
			}
			suiteLog.Info("suite done")
		}
	}
	res.elapsed = time.Since(start)
	return res, nil
}

func randomQuery(rnd *rand.Rand, left, right float64) (ll, ur orthotree.Point) {
	at := func() float64 { return left + rnd.Float64()*(right-left) }
	x1, y1, x2, y2 := at(), at(), at(), at()
	return orthotree.Point{math.Min(x1, x2), math.Min(y1, y2)},
		orthotree.Point{math.Max(x1, x2), math.Max(y1, y2)}
}
