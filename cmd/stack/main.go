package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/boundstack/memory"
	"github.com/wippyai/boundstack/stack"
)

func main() {
	os.Exit(stackMain(os.Args[1:]))
}

// stackMain returns the process exit code so deferred cleanup runs before exit.
func stackMain(argv []string) int {
	var cfg config

	fs := pflag.NewFlagSet("stack", pflag.ContinueOnError)
	fs.StringVarP(&cfg.capacity, "capacity", "c", "64B", "Region size in bytes (accepts 1KB, 64KB, ...)")
	fs.StringVarP(&cfg.typeName, "type", "t", "u32", "WIT scalar element type (u8..u64, s8..s64, f32, f64, bool, char)")
	fs.Uint32VarP(&cfg.unit, "unit", "u", 0, "Raw element size in bytes; overrides --type, values are hex")
	fs.StringVarP(&cfg.backend, "backend", "b", backendHeap, "Region backend: heap or wasm")
	fs.StringVar(&cfg.limit, "limit", "", "Allocator budget (heap bytes, or wasm memory rounded up to pages)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "Debug logging to stderr")
	fs.BoolVarP(&cfg.interactive, "interactive", "i", false, "Interactive mode with TUI")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stack [flags] [command [args]]...")
		fmt.Fprintln(os.Stderr, "       stack [flags] < script")
		fmt.Fprintln(os.Stderr, "       stack [flags] -i  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, indent(helpText()))
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := zap.NewNop()
	if cfg.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	stack.SetLogger(logger.Named("stack"))
	memory.SetLogger(logger.Named("memory"))

	if err := run(context.Background(), cfg, fs.Args(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config, args []string, logger *zap.Logger) error {
	ss, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer ss.Close()

	logger.Debug("session ready",
		zap.String("backend", cfg.backend),
		zap.String("type", ss.layout.Name),
		zap.Uint32("unit", ss.layout.Size),
		zap.Int("cap", ss.stack.Cap()))

	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))

	switch {
	case cfg.interactive:
		return runInteractive(ss)

	case len(args) > 0:
		return runScript(os.Stdout, ss, splitCommands(args))

	case !stdinIsTerminal:
		lines, err := readLines(os.Stdin)
		if err != nil {
			return err
		}
		return runScript(os.Stdout, ss, lines)

	default:
		return runInteractive(ss)
	}
}

// runScript executes lines in order. A failing command is reported and the
// script continues; the returned error counts the failures.
func runScript(w io.Writer, ss *session, lines []string) error {
	failed := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(w, "> %s\n", line)
		out, err := ss.exec(line)
		if err != nil {
			failed++
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
