package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"orthotree"
)

// suiteConfig controls a cross-validation run. It can be read from a TOML
// file; command line flags take precedence.
type suiteConfig struct {
	Sizes      []int    `toml:"sizes"`
	Generators []string `toml:"generators"`
	Left       float64  `toml:"left"`
	Right      float64  `toml:"right"`
	Queries    int      `toml:"queries"`
	Seed       int64    `toml:"seed"`
	Epsilon    float64  `toml:"epsilon"`
	BucketSize int      `toml:"bucket_size"`
	MaxDepth   int      `toml:"max_depth"`
	LogLevel   string   `toml:"log_level"`
}

func defaultConfig() suiteConfig {
	return suiteConfig{
		Sizes:      []int{100, 300, 500, 1000, 10000},
		Left:       -1000,
		Right:      1000,
		Queries:    1,
		Seed:       1,
		BucketSize: orthotree.DefaultBucketSize,
		MaxDepth:   orthotree.DefaultMaxDepth,
		LogLevel:   "info",
	}
}

// loadConfig returns the defaults overlaid with the contents of path. An
// empty path yields the defaults.
func loadConfig(path string) (suiteConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading suite config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

// overrides holds the values parsed from the command line. set records
// which flags were given, so an explicit zero still wins over the file.
type overrides struct {
	set        map[string]bool
	sizes      []int
	generators []string
	left       float64
	right      float64
	queries    int
	seed       int64
	epsilon    float64
	bucketSize int
	maxDepth   int
	logLevel   string
}

func newOverrides() *overrides {
	return &overrides{set: map[string]bool{}}
}

func (o *overrides) apply(cfg suiteConfig) suiteConfig {
	if o.set["size"] {
		cfg.Sizes = o.sizes
	}
	if o.set["generator"] {
		cfg.Generators = o.generators
	}
	if o.set["left"] {
		cfg.Left = o.left
	}
	if o.set["right"] {
		cfg.Right = o.right
	}
	if o.set["queries"] {
		cfg.Queries = o.queries
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["epsilon"] {
		cfg.Epsilon = o.epsilon
	}
	if o.set["bucket"] {
		cfg.BucketSize = o.bucketSize
	}
	if o.set["max-depth"] {
		cfg.MaxDepth = o.maxDepth
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	return cfg
}

func (c suiteConfig) validate() error {
	if len(c.Sizes) == 0 {
		return errors.New("no suite sizes configured")
	}
	for _, n := range c.Sizes {
		if n < 1 {
			return errors.Errorf("suite size %d is not positive", n)
		}
	}
	if c.Left >= c.Right {
		return errors.Errorf("left bound %v is not below right bound %v", c.Left, c.Right)
	}
	if c.Queries < 1 {
		return errors.Errorf("queries per suite must be positive, got %d", c.Queries)
	}
	if c.Epsilon < 0 {
		return errors.Wrapf(orthotree.ErrInvalidEpsilon, "got %v", c.Epsilon)
	}
	if c.BucketSize < 1 {
		return errors.Wrapf(orthotree.ErrInvalidBucketSize, "got %d", c.BucketSize)
	}
	return nil
}
