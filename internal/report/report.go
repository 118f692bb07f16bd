// Package report renders the simulator's on-demand and periodic
// human-readable outputs: the utilization log, process-smi, and
// vmstat. Snapshotting the allocator's own region/frame layout is the
// allocator's job (see internal/memory); this package only renders
// views that combine the process table, the allocator, and telemetry.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ja7ad/csopesy/internal/memory"
	"github.com/ja7ad/csopesy/internal/process"
	"github.com/ja7ad/csopesy/pkg/types"
)

// SnapshotFilename returns the file name pattern the allocator variant
// dictates for a given quantum cycle.
func SnapshotFilename(flat bool, cycle int) string {
	if flat {
		return fmt.Sprintf("memory_stamp_%d.txt", cycle)
	}
	return fmt.Sprintf("paging_snapshot_%d.txt", cycle)
}

// WriteAllocatorSnapshot creates <dir>/<snapshot filename> and delegates
// the body to the allocator itself, which owns its own text format.
func WriteAllocatorSnapshot(alloc memory.Allocator, dir string, cycle int, flat bool, ts string) error {
	path := filepath.Join(dir, SnapshotFilename(flat, cycle))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create snapshot %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return alloc.Snapshot(f, cycle, ts)
}

// ProcessLine is one row of the running/finished partition used by
// both the interactive `screen -ls` listing and the utilization report.
type ProcessLine struct {
	Name    string
	Core    int
	Current int
	Total   int
}

// Utilization is the content of the utilization report: the same data
// the interactive console renders, independent of how it's formatted.
type Utilization struct {
	NumCPU      int
	ActiveCores int
	CPUUtilPct  float64
	Running     []ProcessLine
	Finished    []ProcessLine
}

// BuildUtilization partitions the process table into finished processes
// and all others (listed as Running whatever their state, including New,
// Ready and Waiting), and computes CPU utilization as active cores (those
// with a process in the Running state) over total cores.
func BuildUtilization(table *process.Table, numCPU int) Utilization {
	u := Utilization{NumCPU: numCPU}
	for _, p := range table.IterInOrder() {
		line := ProcessLine{Name: p.Name, Core: p.CoreID, Current: p.Current, Total: p.Total}
		switch p.State {
		case process.Finished:
			u.Finished = append(u.Finished, line)
		case process.Running:
			u.ActiveCores++
			u.Running = append(u.Running, line)
		default:
			u.Running = append(u.Running, line)
		}
	}
	if numCPU > 0 {
		u.CPUUtilPct = float64(u.ActiveCores) / float64(numCPU) * 100
	}
	return u
}

// WriteUtilization renders u to w. Content is the contract; exact
// formatting is not.
func WriteUtilization(w io.Writer, u Utilization) error {
	if _, err := fmt.Fprintf(w, "CPU utilization: %.2f%% (%d/%d cores active)\n\n", u.CPUUtilPct, u.ActiveCores, u.NumCPU); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "Running processes:\n"); err != nil {
		return err
	}
	for _, l := range u.Running {
		if _, err := fmt.Fprintf(w, "%s\tCore: %d\t%d / %d\n", l.Name, l.Core, l.Current, l.Total); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\nFinished processes:\n"); err != nil {
		return err
	}
	for _, l := range u.Finished {
		if _, err := fmt.Fprintf(w, "%s\tFinished\t%d / %d\n", l.Name, l.Current, l.Total); err != nil {
			return err
		}
	}
	return nil
}

// ProcessSMI is the on-demand memory/CPU dashboard.
type ProcessSMI struct {
	CPUUtilPct float64
	TotalMem   int
	UsedMem    int
	PerProcess map[string]int
}

// BuildProcessSMI samples the allocator and treats one resident process
// per core as 100% utilization, matching the original console's model.
func BuildProcessSMI(alloc memory.Allocator, numCPU int) ProcessSMI {
	total, used, _ := alloc.Totals()
	running := alloc.RunningProcesses()
	pct := 0.0
	if numCPU > 0 {
		pct = float64(len(running)) / float64(numCPU) * 100
	}
	return ProcessSMI{CPUUtilPct: pct, TotalMem: total, UsedMem: used, PerProcess: running}
}

func (s ProcessSMI) String() string {
	names := make([]string, 0, len(s.PerProcess))
	for name := range s.PerProcess {
		names = append(names, name)
	}
	sort.Strings(names)

	out := "----- PROCESS-SMI VOL. 1.00 Driver Version: 01.00 -----\n"
	out += fmt.Sprintf("CPU-Util: %.2f%%\n", s.CPUUtilPct)
	out += fmt.Sprintf("Memory Usage: %s / %s\n", types.Bytes(s.UsedMem).Humanized(), types.Bytes(s.TotalMem).Humanized())
	if s.TotalMem > 0 {
		out += fmt.Sprintf("Memory Util: %.2f%%\n", float64(s.UsedMem)/float64(s.TotalMem)*100)
	}
	out += "\nRunning processes and memory usage:\n"
	for _, name := range names {
		out += fmt.Sprintf("%s: %s\n", name, types.Bytes(s.PerProcess[name]).Humanized())
	}
	out += "-------------------------------------------------------\n"
	return out
}

// VMStat is the on-demand memory/CPU counters dump.
type VMStat struct {
	TotalMem, UsedMem, FreeMem int
	memory.Snapshot
}

// BuildVMStat samples the allocator and the shared telemetry counters.
func BuildVMStat(alloc memory.Allocator, tel *memory.Telemetry) VMStat {
	total, used, free := alloc.Totals()
	return VMStat{TotalMem: total, UsedMem: used, FreeMem: free, Snapshot: tel.Snapshot()}
}

func (s VMStat) String() string {
	return "----- VMSTAT REPORT -----\n" +
		fmt.Sprintf("Total Memory: %s\n", types.Bytes(s.TotalMem).Humanized()) +
		fmt.Sprintf("Used Memory: %s\n", types.Bytes(s.UsedMem).Humanized()) +
		fmt.Sprintf("Free Memory: %s\n", types.Bytes(s.FreeMem).Humanized()) +
		fmt.Sprintf("Idle CPU Ticks: %d\n", s.IdleCPUTicks) +
		fmt.Sprintf("Active CPU Ticks: %d\n", s.ActiveCPUTicks) +
		fmt.Sprintf("Total CPU Ticks: %d\n", s.TotalCPUTicks) +
		fmt.Sprintf("Pages Paged In: %d\n", s.PagesPagedIn) +
		fmt.Sprintf("Pages Paged Out: %d\n", s.PagesPagedOut) +
		"-------------------------\n"
}
