package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigSessionFile   = "session-file"
	ConfigDeckFile      = "deck-file"
	ConfigHistoryDB     = "history-db"
	ConfigThreads       = "threads"
	ConfigDebug         = "debug"
	ConfigSimLog        = "sim-log"
	ConfigCacheFraction = "cache-fraction"
	ConfigCPUProfile    = "cpu-profile"
)

const DefaultThreads = 4

// Config is the process-level configuration: file locations, worker count,
// logging. The simulation parameters themselves live in the session file
// (see Session).
type Config struct {
	*viper.Viper
	args []string
}

func New() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigSessionFile, "config.txt")
	c.SetDefault(ConfigDeckFile, "deck_file")
	c.SetDefault(ConfigHistoryDB, "mullsim-history.db")
	c.SetDefault(ConfigThreads, DefaultThreads)
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigSimLog, "")
	c.SetDefault(ConfigCacheFraction, 0.05)
	c.SetDefault(ConfigCPUProfile, "")
	return c
}

// Load reads flags from args, then environment variables prefixed with
// MULLSIM_. Flags win over the environment.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("mullsim", pflag.ContinueOnError)
	fs.String(ConfigSessionFile, c.GetString(ConfigSessionFile), "session config file (cycle_reps, maxturn, ...)")
	fs.String(ConfigDeckFile, c.GetString(ConfigDeckFile), "default deck file for save/load")
	fs.String(ConfigHistoryDB, c.GetString(ConfigHistoryDB), "sqlite file that records solved mulligans; empty disables")
	fs.Int(ConfigThreads, c.GetInt(ConfigThreads), "number of simulation workers")
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging")
	fs.String(ConfigSimLog, c.GetString(ConfigSimLog), "write a YAML log of every playout to this file")
	fs.Float64(ConfigCacheFraction, c.GetFloat64(ConfigCacheFraction), "fraction of memory for play enumeration caches")
	fs.String(ConfigCPUProfile, c.GetString(ConfigCPUProfile), "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("mullsim")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// Args are the command-line arguments left over after the flags.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths resolves relative file settings against basePath, so
// the binary finds its files wherever it is started from.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{ConfigSessionFile, ConfigDeckFile, ConfigHistoryDB} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basePath, p))
	}
}

// Threads is the worker count, never less than one.
func (c *Config) Threads() int {
	return max(c.GetInt(ConfigThreads), 1)
}

func (c *Config) SanitizedSettings() string {
	var sb strings.Builder
	keys := c.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v ", k, c.Get(k))
	}
	return strings.TrimSpace(sb.String())
}
