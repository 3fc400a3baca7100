package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/element"
	"github.com/wippyai/boundstack/errors"
	"github.com/wippyai/boundstack/memory"
	"github.com/wippyai/boundstack/stack"
)

const (
	backendHeap = "heap"
	backendWasm = "wasm"
)

type config struct {
	capacity    string
	typeName    string
	backend     string
	limit       string
	unit        uint32
	verbose     bool
	interactive bool
}

// session owns one stack and the backend its region came from.
type session struct {
	stack   *stack.Owned
	layout  element.Layout
	backend string
	close   func()
	out     []byte
}

var commands = map[string]string{
	"push":  "push <value>...  push values in order; stops at the first failure, earlier values stay pushed",
	"pop":   "pop              remove and print the top value",
	"peek":  "peek             print the top value",
	"len":   "len              print len/cap",
	"empty": "empty            print whether the stack is empty",
	"full":  "full             print whether the stack is full",
	"reset": "reset            drop all values",
	"help":  "help             list commands",
}

func parseSize(name, s string) (uint32, error) {
	v, err := datasize.ParseString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseParse, errors.KindInvalidArgument, err, "parse --"+name+" "+strconv.Quote(s))
	}
	if v.Bytes() > math.MaxUint32 {
		return 0, errors.New(errors.PhaseParse, errors.KindInvalidArgument).
			Value(v.Bytes()).
			Detail("--%s %s exceeds 4GB", name, v.HR()).
			Build()
	}
	return uint32(v.Bytes()), nil
}

func newSession(ctx context.Context, cfg config) (*session, error) {
	layout := element.Raw(cfg.unit)
	if cfg.unit == 0 {
		var err error
		if layout, err = element.Parse(cfg.typeName); err != nil {
			return nil, err
		}
	}

	capacity, err := parseSize("capacity", cfg.capacity)
	if err != nil {
		return nil, err
	}
	var limit uint32
	if cfg.limit != "" {
		if limit, err = parseSize("limit", cfg.limit); err != nil {
			return nil, err
		}
	}

	alloc, closeBackend, err := newAllocator(ctx, cfg.backend, limit)
	if err != nil {
		return nil, err
	}

	s, err := stack.Create(alloc, capacity, layout.Size)
	if err != nil {
		closeBackend()
		return nil, err
	}

	return &session{
		stack:   s,
		layout:  layout,
		backend: cfg.backend,
		out:     make([]byte, layout.Size),
		close: func() {
			s.Destroy()
			closeBackend()
		},
	}, nil
}

func newAllocator(ctx context.Context, backend string, limit uint32) (boundstack.Allocator, func(), error) {
	switch backend {
	case backendHeap:
		return memory.NewHeap(uint64(limit)), func() {}, nil

	case backendWasm:
		var maxPages *uint32
		if limit > 0 {
			pages := uint32((uint64(limit) + memory.PageSize - 1) / memory.PageSize)
			maxPages = &pages
		}
		rt := wazero.NewRuntime(ctx)
		lm, err := memory.NewLinearMemory(ctx, rt, 0, maxPages)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, nil, err
		}
		return memory.NewPageAllocator(lm.Memory()), func() {
			_ = lm.Close(ctx)
			_ = rt.Close(ctx)
		}, nil

	default:
		return nil, nil, errors.InvalidArgument(errors.PhaseParse, "unknown backend "+strconv.Quote(backend))
	}
}

func (ss *session) Close() {
	if ss.close != nil {
		ss.close()
		ss.close = nil
	}
}

func (ss *session) describe() string {
	return fmt.Sprintf("%s stack, %d x %d-byte %s slots", ss.backend, ss.stack.Cap(), ss.layout.Size, ss.layout.Name)
}

// exec runs one command line and returns its printable result.
func (ss *session) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "push":
		if len(args) == 0 {
			return "", errors.InvalidArgument(errors.PhaseParse, "push needs at least one value")
		}
		for _, arg := range args {
			unit, err := ss.layout.ParseValue(arg)
			if err != nil {
				return "", err
			}
			if err := ss.stack.Push(unit); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("ok (%d/%d)", ss.stack.Len(), ss.stack.Cap()), nil

	case "pop":
		if err := ss.stack.Pop(ss.out); err != nil {
			return "", err
		}
		return ss.layout.Format(ss.out), nil

	case "peek":
		if err := ss.stack.Peek(ss.out); err != nil {
			return "", err
		}
		return ss.layout.Format(ss.out), nil

	case "len":
		return fmt.Sprintf("%d/%d", ss.stack.Len(), ss.stack.Cap()), nil

	case "empty":
		return strconv.FormatBool(ss.stack.IsEmpty()), nil

	case "full":
		return strconv.FormatBool(ss.stack.IsFull()), nil

	case "reset":
		ss.stack.Reset()
		return "ok", nil

	case "help":
		return helpText(), nil

	default:
		return "", errors.InvalidArgument(errors.PhaseParse, "unknown command "+strconv.Quote(cmd))
	}
}

func helpText() string {
	order := []string{"push", "pop", "peek", "len", "empty", "full", "reset", "help"}
	lines := make([]string, len(order))
	for i, name := range order {
		lines[i] = commands[name]
	}
	return strings.Join(lines, "\n")
}

// splitCommands groups argv tokens into command lines. Every known command
// name starts a new line; other tokens are arguments of the current one.
func splitCommands(args []string) []string {
	var lines []string
	var cur []string
	for _, tok := range args {
		if _, ok := commands[tok]; ok && len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
			cur = nil
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return lines
}
