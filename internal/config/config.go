// Package config loads safenum.toml, the project file that selects the
// checked arithmetic policies, the regression matrix and tracing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/trace"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/promote"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// FileName is the project file looked up by Find.
const FileName = "safenum.toml"

// Config is the decoded project file.
type Config struct {
	Policy    PolicyConfig    `toml:"policy"`
	Promotion PromotionConfig `toml:"promotion"`
	Matrix    MatrixConfig    `toml:"matrix"`
	Trace     TraceConfig     `toml:"trace"`

	// Path is the file the config was read from; empty for Default.
	Path string `toml:"-"`
}

type PolicyConfig struct {
	Promotion     string `toml:"promotion"`
	Exception     string `toml:"exception"`
	NegativeShift string `toml:"negative_shift"`
}

type PromotionConfig struct {
	Table []RuleConfig `toml:"table"`
}

// RuleConfig is one [[promotion.table]] entry. An empty Op matches every
// operator.
type RuleConfig struct {
	Op     string `toml:"op"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
	Result string `toml:"result"`
}

type MatrixConfig struct {
	Ops   []string `toml:"ops"`
	Kinds []string `toml:"kinds"`
	// Samples is the number of values drawn per kind, edges included.
	Samples int `toml:"samples"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Format   string `toml:"format"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

// DefaultSamples is the matrix sample count when the file sets none.
const DefaultSamples = 9

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			Promotion:     "default",
			Exception:     checked.ModeRuntime.String(),
			NegativeShift: checked.ShiftArithmetic.String(),
		},
		Matrix: MatrixConfig{Samples: DefaultSamples},
		Trace:  TraceConfig{Level: "off", Output: "-"},
	}
}

// Find walks up from startDir to locate safenum.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest safenum.toml above startDir, or Default when
// there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads and validates one project file. Missing keys keep their
// defaults; unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a project file from text. It is Load without the file.
func Decode(text string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %s", undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate resolves every name in the config once.
func (c *Config) Validate() error {
	if _, err := c.Engine(); err != nil {
		return err
	}
	if _, err := c.MatrixOps(); err != nil {
		return err
	}
	if _, err := c.MatrixKinds(); err != nil {
		return err
	}
	if c.Matrix.Samples < 0 {
		return fmt.Errorf("[matrix].samples must not be negative, got %d", c.Matrix.Samples)
	}
	_, err := c.TracerConfig()
	return err
}

// Engine builds the checked engine the config selects.
func (c *Config) Engine() (checked.Engine, error) {
	var eng checked.Engine
	mode, err := checked.ParseMode(c.Policy.Exception)
	if err != nil {
		return eng, fmt.Errorf("[policy].exception: %w", err)
	}
	shift, err := checked.ParseShiftMode(c.Policy.NegativeShift)
	if err != nil {
		return eng, fmt.Errorf("[policy].negative_shift: %w", err)
	}
	pol, err := c.promotion()
	if err != nil {
		return eng, err
	}
	eng.Promotion, eng.Mode, eng.Shift = pol, mode, shift
	return eng, nil
}

func (c *Config) promotion() (promote.Policy, error) {
	name := strings.ToLower(strings.TrimSpace(c.Policy.Promotion))
	if name != "table" {
		if len(c.Promotion.Table) > 0 {
			return nil, fmt.Errorf("[[promotion.table]] rules need [policy].promotion = \"table\", got %q", c.Policy.Promotion)
		}
		pol, err := promote.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("[policy].promotion: %w", err)
		}
		return pol, nil
	}
	rules := make([]promote.Rule, 0, len(c.Promotion.Table))
	for i, rc := range c.Promotion.Table {
		rule, err := rc.rule()
		if err != nil {
			return nil, fmt.Errorf("[[promotion.table]] #%d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	tbl, err := promote.NewTable(nil, rules...)
	if err != nil {
		return nil, fmt.Errorf("[[promotion.table]]: %w", err)
	}
	return tbl, nil
}

func (rc RuleConfig) rule() (promote.Rule, error) {
	var r promote.Rule
	if s := strings.TrimSpace(rc.Op); s != "" {
		op, err := ops.Parse(s)
		if err != nil {
			return r, err
		}
		r.Op = op
	}
	for _, f := range []struct {
		dst  *storage.Kind
		name string
		key  string
	}{
		{&r.Left, rc.Left, "left"},
		{&r.Right, rc.Right, "right"},
		{&r.Result, rc.Result, "result"},
	} {
		k, err := storage.Parse(f.name)
		if err != nil {
			return r, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = k
	}
	return r, nil
}

// MatrixOps returns the matrix operators; all arithmetic operators when the
// file names none.
func (c *Config) MatrixOps() ([]ops.Op, error) {
	if len(c.Matrix.Ops) == 0 {
		return ops.Arithmetic(), nil
	}
	out := make([]ops.Op, 0, len(c.Matrix.Ops))
	for _, s := range c.Matrix.Ops {
		op, err := ops.Parse(s)
		if err != nil || op.Comparison() || op.Unary() {
			return nil, fmt.Errorf("[matrix].ops: %q is not a binary arithmetic operator", s)
		}
		out = append(out, op)
	}
	return out, nil
}

// MatrixKinds returns the matrix kinds; every kind when the file names none.
func (c *Config) MatrixKinds() ([]storage.Kind, error) {
	if len(c.Matrix.Kinds) == 0 {
		return storage.All(), nil
	}
	out := make([]storage.Kind, 0, len(c.Matrix.Kinds))
	for _, s := range c.Matrix.Kinds {
		k, err := storage.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("[matrix].kinds: %w", err)
		}
		out = append(out, k)
	}
	return out, nil
}

// SampleCount returns the per-kind sample count.
func (c *Config) SampleCount() int {
	if c.Matrix.Samples == 0 {
		return DefaultSamples
	}
	return c.Matrix.Samples
}

// TracerConfig converts the [trace] table.
func (c *Config) TracerConfig() (trace.Config, error) {
	var tc trace.Config
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return tc, fmt.Errorf("[trace].level: %w", err)
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return tc, fmt.Errorf("[trace].format: %w", err)
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return tc, fmt.Errorf("[trace].mode: %w", err)
	}
	tc.Level, tc.Format, tc.Mode = level, format, mode
	tc.OutputPath = c.Trace.Output
	tc.RingSize = c.Trace.RingSize
	return tc, nil
}
