// Package config loads the JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
)

var (
	cfgFile = "abalone/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// EngineConfig holds search settings. Difficulty selects the protocol
// engine's preset; self-play sides use MatchConfig.Black and White. Depth
// and Width override the presets of both.
type EngineConfig struct {
	Difficulty string `json:"difficulty"`
	Depth      int    `json:"depth"` // overrides the difficulty when > 0
	Width      int    `json:"width"` // moves searched per node, 0 = all
	HashMB     int    `json:"hash_mb"`
	Seed       uint64 `json:"seed"` // 0 = random
}

// MatchConfig holds self-play settings.
type MatchConfig struct {
	Black    string   `json:"black"`
	White    string   `json:"white"`
	Delay    Duration `json:"delay"`
	MaxTurns int      `json:"max_turns"`
	Games    int      `json:"games"`
	Parallel int      `json:"parallel"`
	Start    string   `json:"start"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Enabled bool   `json:"enabled"`
	Dir     string `json:"dir"` // empty = XDG data directory
}

// RenderConfig holds diagram settings.
type RenderConfig struct {
	OutputDir   string  `json:"output_dir"`
	CellSize    int     `json:"cell_size"`
	RenderScale float64 `json:"render_scale"`
	Labels      bool    `json:"labels"`
}

type Config struct {
	Engine  EngineConfig  `json:"engine"`
	Match   MatchConfig   `json:"match"`
	Log     LogConfig     `json:"log"`
	Storage StorageConfig `json:"storage"`
	Render  RenderConfig  `json:"render"`
}

// DefaultConfig reproduces the classic setup: a 5-ply engine as Black
// against a random White, three seconds between moves.
var DefaultConfig = Config{
	Engine: EngineConfig{
		Difficulty: "hard",
		Width:      20,
		HashMB:     64,
	},
	Match: MatchConfig{
		Black:    "hard",
		White:    "random",
		Delay:    Duration(3 * time.Second),
		MaxTurns: 100,
		Games:    1,
		Parallel: 1,
	},
	Log: LogConfig{
		Level:  "info",
		Pretty: true,
	},
	Storage: StorageConfig{
		Enabled: true,
	},
	Render: RenderConfig{
		OutputDir:   ".",
		CellSize:    48,
		RenderScale: 2,
		Labels:      true,
	},
}

// InitConfig loads the configuration from path, or from the XDG config
// directories when path is empty. If no file is found there, the defaults
// are used.
func InitConfig(path string) (*Config, error) {
	config := DefaultConfig

	if path == "" {
		absPath, err := xdg.SearchConfigFile(cfgFile)
		if err == nil {
			path = absPath
		}
	}
	if path != "" {
		if err := readCfgFile(path, &config); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Parse decodes a JSON document over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, name := range []string{c.Engine.Difficulty, c.Match.Black, c.Match.White} {
		if _, err := engine.ParseDifficulty(name); err != nil {
			return &InvalidConfig{err.Error()}
		}
	}

	checks := []error{
		inRange("engine.depth", c.Engine.Depth, 0, engine.MaxDepth),
		inRange("engine.width", c.Engine.Width, 0, 1000),
		inRange("engine.hash_mb", c.Engine.HashMB, 1, 4096),
		inRange("match.max_turns", c.Match.MaxTurns, 1, 10000),
		inRange("match.games", c.Match.Games, 1, 100000),
		inRange("match.parallel", c.Match.Parallel, 0, 256),
		inRange("match.delay", c.Match.Delay, 0, Duration(time.Minute)),
		inRange("render.cell_size", c.Render.CellSize, 8, 512),
		inRange("render.render_scale", c.Render.RenderScale, 1, 8),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return &InvalidConfig{fmt.Sprintf("log.level %q is not one of trace, debug, info, warn, error, disabled", c.Log.Level)}
	}
	return nil
}

// inRange reports an InvalidConfig if v is outside [lo, hi].
func inRange[T constraints.Integer | constraints.Float](name string, v, lo, hi T) error {
	if v < lo || v > hi {
		return &InvalidConfig{fmt.Sprintf("%s = %v is outside [%v, %v]", name, v, lo, hi)}
	}
	return nil
}

// SearchLimits returns the engine limits the configuration selects.
func (c *Config) SearchLimits() engine.SearchLimits {
	d, _ := engine.ParseDifficulty(c.Engine.Difficulty)
	limits := engine.DifficultySettings[d]
	if c.Engine.Depth > 0 {
		limits.Depth = c.Engine.Depth
		limits.Random = false
	}
	if !limits.Random {
		limits.MaxCandidates = c.Engine.Width
	}
	return limits
}

// Save writes the configuration to path, or to the XDG config file when
// path is empty.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		absPath, err := xdg.ConfigFile(cfgFile)
		if err != nil {
			return "", errors.Wrap(err, "locate config file")
		}
		path = absPath
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrap(err, "create config directory")
	}
	return path, saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a any, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(filePath, jsonData, perm), "write %s", filePath)
}

func readCfgFile(filePath string, a any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "read %s", filePath)
	}
	return errors.Wrapf(json.Unmarshal(data, a), "parse %s", filePath)
}

// Duration is a time.Duration written as a string such as "3s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &InvalidConfig{fmt.Sprintf("duration must be a string like \"3s\": %s", b)}
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return &InvalidConfig{err.Error()}
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
