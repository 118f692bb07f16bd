// Command csopesy is the interactive console for the simulator: a thin
// REPL that parses each command line and dispatches it to the kernel
// façade.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/csopesy/internal/kernel"
)

type opts struct {
	configPath string
	outDir     string
	tickPeriod time.Duration
	autostart  bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "csopesy",
		Short: "Teaching OS scheduler/memory simulator console",
		Long: `csopesy is an interactive console over a simulated multi-core CPU
scheduler and memory allocator. Type "initialize" to load a configuration
file, then "screen -s <name>" to create processes and watch them run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	root.Flags().StringVarP(&o.configPath, "config", "c", "config.txt", "path to the simulator configuration file")
	root.Flags().StringVarP(&o.outDir, "out", "o", ".", "directory for process logs and memory snapshots")
	root.Flags().DurationVar(&o.tickPeriod, "tick", 100*time.Millisecond, "wall-clock period between ticks")
	root.Flags().BoolVar(&o.autostart, "autostart", false, "initialize with the built-in default config on launch")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	k := kernel.New(o.outDir, o.tickPeriod, logger)

	if o.autostart {
		if err := k.InitializeDefault(); err != nil {
			return fmt.Errorf("autostart: %w", err)
		}
		fmt.Println("initialized with default configuration")
	}

	fmt.Println(_banner)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		fmt.Print("csopesy> ")
		select {
		case <-ctx.Done():
			fmt.Println("\ninterrupted")
			_ = k.Shutdown()
			return nil
		case line, ok := <-lines:
			if !ok {
				_ = k.Shutdown()
				return nil
			}
			out, exit := dispatch(k, o.configPath, line)
			if out != "" {
				fmt.Println(out)
			}
			if exit {
				return nil
			}
		}
	}
}

// dispatch parses and executes one console line against k, returning
// text to print and whether the console should exit. It is split out
// from run's stdin loop so the command surface can be tested without a
// terminal.
func dispatch(k *kernel.Kernel, configPath, line string) (out string, exit bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", false
	}

	switch fields[0] {
	case "initialize":
		path := configPath
		if len(fields) > 1 {
			path = fields[1]
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Sprintf("initialize: %v", err), false
		}
		defer func() { _ = f.Close() }()
		if err := k.Initialize(f); err != nil {
			return fmt.Sprintf("initialize: %v", err), false
		}
		return "initialized", false

	case "screen":
		return dispatchScreen(k, fields[1:]), false

	case "scheduler-test", "scheduler-start":
		if err := k.StartGenerator(); err != nil {
			return fmt.Sprintf("%s: %v", fields[0], err), false
		}
		return "generator started", false

	case "scheduler-stop":
		if err := k.StopGenerator(); err != nil {
			return fmt.Sprintf("scheduler-stop: %v", err), false
		}
		return "generator stopped", false

	case "report-util":
		if err := k.Report(); err != nil {
			return fmt.Sprintf("report-util: %v", err), false
		}
		return "report written to csopesy_log.txt", false

	case "process-smi":
		s, err := k.ProcessSMI()
		if err != nil {
			return fmt.Sprintf("process-smi: %v", err), false
		}
		return s, false

	case "vmstat":
		s, err := k.VMStat()
		if err != nil {
			return fmt.Sprintf("vmstat: %v", err), false
		}
		return s, false

	case "exit":
		if err := k.Shutdown(); err != nil {
			return fmt.Sprintf("exit: %v", err), true
		}
		return "bye", true

	default:
		return fmt.Sprintf("unknown command: %s", fields[0]), false
	}
}

func dispatchScreen(k *kernel.Kernel, args []string) string {
	if len(args) < 1 {
		return "usage: screen -s <name> | screen -r <name> | screen -ls"
	}

	switch args[0] {
	case "-s":
		if len(args) < 2 {
			return "usage: screen -s <name>"
		}
		if err := k.CreateNamedProcess(args[1]); err != nil {
			return fmt.Sprintf("screen -s: %v", err)
		}
		return fmt.Sprintf("process %s created", args[1])

	case "-r":
		if len(args) < 2 {
			return "usage: screen -r <name>"
		}
		p, err := k.ScreenView(args[1])
		if err != nil {
			return fmt.Sprintf("screen -r: %v", err)
		}
		return fmt.Sprintf("%s\tstate: %s\tinstruction %d/%d\tcore %d",
			p.Name, p.State.String(), p.Current, p.Total, p.CoreID)

	case "-ls":
		u, err := k.ListProcesses()
		if err != nil {
			return fmt.Sprintf("screen -ls: %v", err)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "CPU utilization: %.2f%%\n", u.CPUUtilPct)
		b.WriteString("Running processes:\n")
		for _, l := range u.Running {
			fmt.Fprintf(&b, "%s\tCore: %d\t%d / %d\n", l.Name, l.Core, l.Current, l.Total)
		}
		b.WriteString("Finished processes:\n")
		for _, l := range u.Finished {
			fmt.Fprintf(&b, "%s\tFinished\t%d / %d\n", l.Name, l.Current, l.Total)
		}
		return strings.TrimRight(b.String(), "\n")

	default:
		return fmt.Sprintf("unknown screen option: %s", args[0])
	}
}

const _banner = `csopesy scheduler/memory simulator
type "initialize" to load a configuration, "exit" to quit.`
