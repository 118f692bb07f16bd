package config

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Basic(t *testing.T) {
	in := `
num-cpu 4
scheduler rr
quantum-cycles 5
batch-process-freq 2
min-ins 1
max-ins 10
delay-per-exec 0
max-overall-mem 4096
mem-per-frame 1024
min-mem-per-proc 256
max-mem-per-proc 512
`
	cfg, err := Load(strings.NewReader(in), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.NumCPU)
	assert.Equal(t, RR, cfg.Scheduler)
	assert.Equal(t, 5, cfg.QuantumCycles)
	assert.Equal(t, 2, cfg.BatchProcessFreq)
	assert.Equal(t, 1, cfg.MinIns)
	assert.Equal(t, 10, cfg.MaxIns)
	assert.False(t, cfg.FlatMemory())
}

func TestLoad_FlatMemoryDetection(t *testing.T) {
	in := "max-overall-mem 1024\nmem-per-frame 1024\n"
	cfg, err := Load(strings.NewReader(in), discardLogger())
	require.NoError(t, err)
	assert.True(t, cfg.FlatMemory())
}

func TestLoad_QuotedScheduler(t *testing.T) {
	cfg, err := Load(strings.NewReader(`scheduler "fcfs"`), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, FCFS, cfg.Scheduler)
}

func TestLoad_BadScheduler(t *testing.T) {
	_, err := Load(strings.NewReader("scheduler round-robin"), discardLogger())
	require.ErrorIs(t, err, ErrBadScheduler)
}

func TestLoad_InsRangeInvalid(t *testing.T) {
	_, err := Load(strings.NewReader("min-ins 10\nmax-ins 5\n"), discardLogger())
	require.ErrorIs(t, err, ErrInsRange)
}

func TestLoad_MemRangeInvalid(t *testing.T) {
	_, err := Load(strings.NewReader("min-mem-per-proc 512\nmax-mem-per-proc 128\n"), discardLogger())
	require.ErrorIs(t, err, ErrMemRange)
}

func TestLoad_ClampsOutOfRange(t *testing.T) {
	cfg, err := Load(strings.NewReader("num-cpu 9999\n"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.NumCPU)
}

func TestLoad_UnknownKeySkipped(t *testing.T) {
	cfg, err := Load(strings.NewReader("num-cpu 2\nfoo-bar baz\n"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.NumCPU)
}
