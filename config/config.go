// Package config wires flags, environment variables and an optional config
// file into one viper-backed Config consumed by the binaries.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

// Load parses args and binds them, along with RANDOMSUB_* environment
// variables, into the config. Flags win over env vars, env vars over
// defaults.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("randomsub", pflag.ContinueOnError)
	fs.Bool("debug", false, "debug logging")
	fs.String("history-file", "./data/history.json", "path to the draw history JSON file")
	fs.String("results-db", "./data/results.db", "path to the sqlite results database")
	fs.Int("threads", 0, "worker threads for backtests (0 = all CPUs)")
	fs.Uint64("seed", 0, "RNG seed for reproducible runs (0 = random seed)")
	fs.Float64("decay", 1.0, "recency decay factor in (0, 1]")
	fs.Int("window", 0, "recency window in series (0 = unbounded)")
	fs.Int("budget", 100000, "default search try-budget")
	fs.String("cpu-profile", "", "write a CPU profile to this path")
	fs.Int("series", 0, "target series id for non-interactive runs")
	fs.String("pool", "", "number pool for exhaustive runs, e.g. \"1 2 3 ...\" (empty = weighted-random mode)")
	fs.String("out", "", "write the JSON run summary to this path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("randomsub")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	c.v = v
	return nil
}

// AdjustRelativePaths anchors relative file paths at basepath, normally the
// executable's directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{"history-file", "results-db"} {
		p := c.v.GetString(key)
		if p != "" && !filepath.IsAbs(p) {
			c.v.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings renders the settings for startup logging.
func (c *Config) SanitizedSettings() string {
	keys := c.v.AllKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c.v.Get(k)))
	}
	return strings.Join(parts, " ")
}

func (c *Config) GetBool(key string) bool       { return c.v.GetBool(key) }
func (c *Config) GetString(key string) string   { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int         { return c.v.GetInt(key) }
func (c *Config) GetUint64(key string) uint64   { return c.v.GetUint64(key) }
func (c *Config) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

// Set overrides a single setting, used by shell `set` commands and tests.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}
