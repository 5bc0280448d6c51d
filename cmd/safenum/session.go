package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/config"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/prof"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/trace"
)

const configFileName = config.FileName

// session is the configuration every command runs with.
type session struct {
	cfg    *config.Config
	engine checked.Engine
	tracer trace.Tracer
}

// openSession loads the project file, applies flag overrides, installs the
// tracer and profilers and sets up colors. The cleanup function flushes the
// tracer and stops the profilers.
func openSession(cmd *cobra.Command) (*session, func(), error) {
	flags := cmd.Root().PersistentFlags()
	get := func(name string) string {
		v, err := flags.GetString(name)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if err := setupColor(get("color")); err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(get("config"))
	if err != nil {
		return nil, nil, err
	}
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"promotion", &cfg.Policy.Promotion},
		{"exception", &cfg.Policy.Exception},
		{"negative-shift", &cfg.Policy.NegativeShift},
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
		{"trace-format", &cfg.Trace.Format},
	}
	for _, o := range overrides {
		if v := get(o.flag); v != "" {
			*o.dst = v
		}
	}
	// A promotion named on the command line replaces the project policy,
	// table rules included.
	if v := get("promotion"); v != "" && !strings.EqualFold(v, "table") {
		cfg.Promotion.Table = nil
	}
	// An explicit trace file without a level traces phases.
	if get("trace") != "" && get("trace-level") == "" && strings.EqualFold(cfg.Trace.Level, "off") {
		cfg.Trace.Level = trace.LevelPhase.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	eng, err := cfg.Engine()
	if err != nil {
		return nil, nil, err
	}
	profiling, err := prof.Start(prof.Options{
		CPU:   get("cpu-profile"),
		Mem:   get("mem-profile"),
		Trace: get("runtime-trace"),
	})
	if err != nil {
		return nil, nil, err
	}
	tracer, stopTracing, err := setupTracing(cmd, cfg)
	if err != nil {
		_ = profiling.Stop()
		return nil, nil, err
	}
	cleanup := func() {
		stopTracing()
		if err := profiling.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}
	return &session{cfg: cfg, engine: eng, tracer: tracer}, cleanup, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

// setupTracing creates the tracer selected by cfg, attaches it to the
// command context and installs it as the engine tracer.
func setupTracing(cmd *cobra.Command, cfg *config.Config) (trace.Tracer, func(), error) {
	tc, err := cfg.TracerConfig()
	if err != nil {
		return nil, nil, err
	}
	if tc.Level == trace.LevelOff {
		checked.SetTracer(nil)
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	checked.SetTracer(tracer)
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		checked.SetTracer(nil)
		if ring, ok := trace.RingOf(tracer); ok && ring.Violations() > 0 {
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func setupColor(mode string) error {
	switch strings.ToLower(mode) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	okColor     = color.New(color.FgGreen)
	checkColor  = color.New(color.FgYellow)
	accentColor = color.New(color.FgCyan)
)

func errorLabel() string { return errorColor.Sprint("error:") }
