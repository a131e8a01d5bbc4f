package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/alecthomas/kingpin.v2"

	"orthotree"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "suite.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.NoError(t, cfg.validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
sizes = [10, 20]
generators = ["uniform", "grid"]
queries = 5
bucket_size = 3
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, cfg.Sizes)
	assert.Equal(t, []string{"uniform", "grid"}, cfg.Generators)
	assert.Equal(t, 5, cfg.Queries)
	assert.Equal(t, 3, cfg.BucketSize)
	// untouched keys keep their defaults
	assert.Equal(t, -1000.0, cfg.Left)
	assert.Equal(t, orthotree.DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "bucket = 3\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func parseSuiteFlags(t *testing.T, args ...string) *overrides {
	app := kingpin.New("rangecheck", "")
	cmd := app.Command("run", "")
	o := suiteFlags(cmd)
	_, err := app.Parse(append([]string{"run"}, args...))
	require.NoError(t, err)
	return o
}

func TestOverridesWin(t *testing.T) {
	cfg := defaultConfig()
	cfg.Queries = 5
	o := parseSuiteFlags(t, "--size", "7", "--size", "9", "-q", "9", "--log-level", "debug")
	cfg = o.apply(cfg)
	assert.Equal(t, []int{7, 9}, cfg.Sizes)
	assert.Equal(t, 9, cfg.Queries)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, -1000.0, cfg.Left)
}

func TestExplicitZeroOverridesFile(t *testing.T) {
	path := writeConfig(t, `
left = -5.0
seed = 42
epsilon = 0.001
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.001, cfg.Epsilon)

	o := parseSuiteFlags(t, "--left", "0", "--seed", "0", "--epsilon", "0")
	cfg = o.apply(cfg)
	assert.Equal(t, 0.0, cfg.Left)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 0.0, cfg.Epsilon)
	// flags left off keep the file's value or the default
	assert.Equal(t, 1000.0, cfg.Right)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*suiteConfig)
		cause  error
	}{
		{"no sizes", func(c *suiteConfig) { c.Sizes = nil }, nil},
		{"zero size", func(c *suiteConfig) { c.Sizes = []int{0} }, nil},
		{"inverted bounds", func(c *suiteConfig) { c.Left, c.Right = 5, 5 }, nil},
		{"no queries", func(c *suiteConfig) { c.Queries = 0 }, nil},
		{"negative epsilon", func(c *suiteConfig) { c.Epsilon = -1 }, orthotree.ErrInvalidEpsilon},
		{"empty bucket", func(c *suiteConfig) { c.BucketSize = 0 }, orthotree.ErrInvalidBucketSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			require.Error(t, err)
			if tt.cause != nil {
				assert.Equal(t, tt.cause, errors.Cause(err))
			}
		})
	}
}

func TestRunSuitesAgree(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	cfg := defaultConfig()
	cfg.Sizes = []int{100, 300}
	cfg.Queries = 20
	res, err := runSuites(cfg, log, false)
	require.NoError(t, err)
	assert.Equal(t, 14, res.suites)
	assert.Equal(t, 14*20, res.queries)
	assert.Zero(t, res.mismatches)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}

	var out bytes.Buffer
	res.print(&out)
	assert.Contains(t, out.String(), "PASS")
	assert.Contains(t, out.String(), "280 queries")
}

func TestRunSuitesSkipsEmptySets(t *testing.T) {
	log, hook := test.NewNullLogger()
	cfg := defaultConfig()
	// four clusters of n/4 points each
	cfg.Sizes = []int{3}
	cfg.Generators = []string{"clustered"}
	res, err := runSuites(cfg, log, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.skipped)
	assert.Zero(t, res.suites)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRunSuitesUnknownGenerator(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := defaultConfig()
	cfg.Generators = []string{"spiral"}
	_, err := runSuites(cfg, log, false)
	assert.Error(t, err)
}

func TestRunSuitesTrace(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)
	cfg := defaultConfig()
	cfg.Sizes = []int{10}
	cfg.Generators = []string{"uniform"}
	_, err := runSuites(cfg, log, true)
	require.NoError(t, err)

	traced := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.TraceLevel {
			traced++
		}
	}
	assert.NotZero(t, traced)
}

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runDemo(&out, 1e-12))
	want := "{(20, 10), (20, 70), (60, 10), (60, 40), (70, 80), (80, 80)}"
	assert.Contains(t, out.String(), "kd-tree:  "+want)
	assert.Contains(t, out.String(), "quadtree: "+want)
}
