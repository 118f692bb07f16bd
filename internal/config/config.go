// Package config reads the simulator's whitespace-separated key/value
// configuration file and produces a validated Config.
//
// The file format and its reader are an external collaborator: only
// the resulting Config contract matters to the kernel. Unrecognized
// keys are logged and skipped, never an error.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Scheduler selects the scheduling discipline.
type Scheduler string

const (
	FCFS Scheduler = "fcfs"
	RR   Scheduler = "rr"
)

// Config holds the clamped, validated simulator configuration.
type Config struct {
	NumCPU           int
	Scheduler        Scheduler
	QuantumCycles    int
	BatchProcessFreq int
	MinIns           int
	MaxIns           int
	DelayPerExec     int
	MaxOverallMem    int
	MemPerFrame      int
	MinMemPerProc    int
	MaxMemPerProc    int
}

// FlatMemory reports whether the configuration selects the flat
// allocator (max-overall-mem == mem-per-frame).
func (c Config) FlatMemory() bool {
	return c.MaxOverallMem == c.MemPerFrame
}

// Default returns a minimal single-core FCFS configuration, useful as a
// starting point before applying overrides from a config file or flags.
func Default() Config {
	return Config{
		NumCPU:           1,
		Scheduler:        FCFS,
		QuantumCycles:    1,
		BatchProcessFreq: 1,
		MinIns:           1,
		MaxIns:           1,
		DelayPerExec:     0,
		MaxOverallMem:    1024,
		MemPerFrame:      1024,
		MinMemPerProc:    256,
		MaxMemPerProc:    256,
	}
}

// Load reads key/value pairs from r, applies them on top of Default(),
// clamps every numeric field to its documented range, and validates the
// scheduler value and the min<=max orderings. Unrecognized keys are
// logged via logger and skipped.
func Load(r io.Reader, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Default()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := fields[0]
		val := strings.Trim(strings.Join(fields[1:], " "), `"`)

		switch key {
		case "num-cpu":
			cfg.NumCPU = clampInt(atoiOr(val, cfg.NumCPU), 1, 128)
		case "scheduler":
			switch Scheduler(strings.ToLower(val)) {
			case FCFS:
				cfg.Scheduler = FCFS
			case RR:
				cfg.Scheduler = RR
			default:
				return Config{}, fmt.Errorf("%w: got %q", ErrBadScheduler, val)
			}
		case "quantum-cycles":
			cfg.QuantumCycles = clampInt(atoiOr(val, cfg.QuantumCycles), 1, 1<<32-1)
		case "batch-process-freq":
			cfg.BatchProcessFreq = clampInt(atoiOr(val, cfg.BatchProcessFreq), 1, 1<<32-1)
		case "min-ins":
			cfg.MinIns = clampInt(atoiOr(val, cfg.MinIns), 1, 1<<32-1)
		case "max-ins":
			cfg.MaxIns = clampInt(atoiOr(val, cfg.MaxIns), 1, 1<<32-1)
		case "delay-per-exec":
			cfg.DelayPerExec = clampInt(atoiOr(val, cfg.DelayPerExec), 0, 1<<32-1)
		case "max-overall-mem":
			cfg.MaxOverallMem = clampInt(atoiOr(val, cfg.MaxOverallMem), 1, 1<<32-1)
		case "mem-per-frame":
			cfg.MemPerFrame = clampInt(atoiOr(val, cfg.MemPerFrame), 1, 1<<32-1)
		case "min-mem-per-proc":
			cfg.MinMemPerProc = clampInt(atoiOr(val, cfg.MinMemPerProc), 1, 1<<32-1)
		case "max-mem-per-proc":
			cfg.MaxMemPerProc = clampInt(atoiOr(val, cfg.MaxMemPerProc), 1, 1<<32-1)
		default:
			logger.Warn("config: unrecognized key skipped", "key", key, "value", val)
		}
	}
	if err := sc.Err(); err != nil {
		return Config{}, fmt.Errorf("config: scan: %w", err)
	}

	if cfg.MinIns > cfg.MaxIns {
		return Config{}, fmt.Errorf("%w: min-ins=%d max-ins=%d", ErrInsRange, cfg.MinIns, cfg.MaxIns)
	}
	if cfg.MinMemPerProc > cfg.MaxMemPerProc {
		return Config{}, fmt.Errorf("%w: min-mem-per-proc=%d max-mem-per-proc=%d", ErrMemRange, cfg.MinMemPerProc, cfg.MaxMemPerProc)
	}

	return cfg, nil
}

// LoadFile opens path and delegates to Load.
func LoadFile(path string, logger *slog.Logger) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, logger)
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
