package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/csopesy/internal/kernel"
)

const testConfig = `
num-cpu 1
scheduler fcfs
quantum-cycles 1
batch-process-freq 1
min-ins 2
max-ins 2
delay-per-exec 0
max-overall-mem 4096
mem-per-frame 4096
min-mem-per-proc 256
max-mem-per-proc 256
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := t.TempDir() + "/config.txt"
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func TestDispatch_InitializeThenCreateProcess(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)

	out, exit := dispatch(k, path, "initialize")
	assert.False(t, exit)
	assert.Equal(t, "initialized", out)

	out, exit = dispatch(k, path, "screen -s p1")
	assert.False(t, exit)
	assert.Contains(t, out, "p1")

	out, _ = dispatch(k, path, "screen -s p1")
	assert.Contains(t, out, "screen -s:")
}

func TestDispatch_ScreenRShowsState(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")
	_, _ = dispatch(k, path, "screen -s p1")

	out, _ := dispatch(k, path, "screen -r p1")
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "state:")
}

func TestDispatch_ScreenLSPartitionsProcesses(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")
	_, _ = dispatch(k, path, "screen -s p1")

	out, _ := dispatch(k, path, "screen -ls")
	assert.Contains(t, out, "Running processes")
	assert.Contains(t, out, "Finished processes")
}

func TestDispatch_UnknownCommandReportsError(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	out, exit := dispatch(k, "config.txt", "frobnicate")
	assert.False(t, exit)
	assert.Contains(t, out, "unknown command")
}

func TestDispatch_OperationsFailBeforeInitialize(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	out, _ := dispatch(k, "config.txt", "screen -s p1")
	assert.Contains(t, out, "not initialized")
}

func TestDispatch_ExitShutsDownAndSignalsExit(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")

	out, exit := dispatch(k, path, "exit")
	assert.True(t, exit)
	assert.Equal(t, "bye", out)
}

func TestDispatch_SchedulerStartStopToggleGenerator(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")

	out, _ := dispatch(k, path, "scheduler-test")
	assert.Contains(t, out, "started")

	out, _ = dispatch(k, path, "scheduler-stop")
	assert.Contains(t, out, "stopped")
	_ = k.Shutdown()
}

func TestDispatch_ProcessSMIAndVMStatRenderContent(t *testing.T) {
	k := kernel.New(t.TempDir(), 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")
	defer func() { _ = k.Shutdown() }()

	out, _ := dispatch(k, path, "process-smi")
	assert.Contains(t, out, "PROCESS-SMI")

	out, _ = dispatch(k, path, "vmstat")
	assert.Contains(t, out, "VMSTAT")
}

func TestDispatch_ReportUtilWritesLog(t *testing.T) {
	dir := t.TempDir()
	k := kernel.New(dir, 0, nil)
	path := writeConfig(t)
	_, _ = dispatch(k, path, "initialize")
	defer func() { _ = k.Shutdown() }()

	out, _ := dispatch(k, path, "report-util")
	assert.Contains(t, out, "csopesy_log.txt")

	data, err := os.ReadFile(dir + "/csopesy_log.txt")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "CPU utilization"))
}
