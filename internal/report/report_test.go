package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/csopesy/internal/config"
	"github.com/ja7ad/csopesy/internal/memory"
	"github.com/ja7ad/csopesy/internal/process"
)

func TestBuildUtilization_PartitionsRunningAndFinished(t *testing.T) {
	tbl := process.NewTable()

	p1 := process.NewProcess("p1", 5, time.Now())
	require.NoError(t, p1.ToReady())
	require.NoError(t, p1.ToRunning(0))
	require.NoError(t, tbl.Insert(p1))

	p2 := process.NewProcess("p2", 3, time.Now())
	require.NoError(t, p2.ToReady())
	require.NoError(t, p2.ToRunning(1))
	p2.Advance(3)
	require.NoError(t, p2.ToFinished())
	require.NoError(t, tbl.Insert(p2))

	u := BuildUtilization(tbl, 2)
	assert.Equal(t, 1, u.ActiveCores)
	assert.Equal(t, float64(50), u.CPUUtilPct)
	require.Len(t, u.Running, 1)
	require.Len(t, u.Finished, 1)
	assert.Equal(t, "p1", u.Running[0].Name)
	assert.Equal(t, "p2", u.Finished[0].Name)
}

func TestWriteUtilization_RendersBothPartitions(t *testing.T) {
	u := Utilization{
		NumCPU:      2,
		ActiveCores: 1,
		CPUUtilPct:  50,
		Running:     []ProcessLine{{Name: "p1", Core: 0, Current: 2, Total: 5}},
		Finished:    []ProcessLine{{Name: "p2", Current: 3, Total: 3}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteUtilization(&buf, u))
	out := buf.String()
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "p2")
}

func TestBuildProcessSMI_ReflectsAllocatorState(t *testing.T) {
	cfg := config.Default()
	cfg.MaxOverallMem, cfg.MemPerFrame = 2048, 2048
	cfg.MinMemPerProc, cfg.MaxMemPerProc = 512, 512
	alloc := memory.New(cfg, 1, memory.NewTelemetry())
	require.Equal(t, memory.Accepted, alloc.Admit("p1", 0))

	smi := BuildProcessSMI(alloc, 2)
	assert.Equal(t, 512, smi.PerProcess["p1"])
	assert.Equal(t, float64(50), smi.CPUUtilPct)
	assert.Contains(t, smi.String(), "PROCESS-SMI")
}

func TestBuildVMStat_ReflectsTelemetry(t *testing.T) {
	cfg := config.Default()
	cfg.MaxOverallMem, cfg.MemPerFrame = 2048, 2048
	tel := memory.NewTelemetry()
	alloc := memory.New(cfg, 1, tel)
	tel.Tick(true)
	tel.Tick(false)

	vm := BuildVMStat(alloc, tel)
	assert.Equal(t, int64(1), vm.ActiveCPUTicks)
	assert.Equal(t, int64(1), vm.IdleCPUTicks)
	assert.Equal(t, int64(2), vm.TotalCPUTicks)
	assert.Contains(t, vm.String(), "VMSTAT")
}
