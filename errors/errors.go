package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase names the operation that failed.
type Phase string

const (
	PhaseInit   Phase = "init"   // binding a stack to a region
	PhasePush   Phase = "push"   // copying a unit in
	PhasePop    Phase = "pop"    // copying a unit out
	PhasePeek   Phase = "peek"   // reading the top unit
	PhaseCreate Phase = "create" // allocator-owned construction
	PhaseAlloc  Phase = "alloc"  // allocator operations
	PhaseMemory Phase = "memory" // region reads and writes
	PhaseParse  Phase = "parse"  // type and value parsing
)

// Kind is the failure category callers branch on.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindOverflow        Kind = "overflow"
	KindUnderflow       Kind = "underflow"
	KindAllocation      Kind = "allocation"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindNotInitialized  Kind = "not_initialized"
	KindTypeMismatch    Kind = "type_mismatch"
	KindUnsupported     Kind = "unsupported"
)

// Sentinels match any error of the same kind regardless of phase.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrOverflow        = &Error{Kind: KindOverflow}
	ErrUnderflow       = &Error{Kind: KindUnderflow}
	ErrAllocation      = &Error{Kind: KindAllocation}
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds}
	ErrNotInitialized  = &Error{Kind: KindNotInitialized}
)

// Error is returned by every fallible operation in the module.
// Value holds the offending input when there is one.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error renders "[phase] kind: detail (caused by: cause)", omitting empty parts.
func (e *Error) Error() string {
	parts := make([]string, 0, 4)
	if e.Phase != "" {
		parts = append(parts, "["+string(e.Phase)+"]")
	}

	head := string(e.Kind)
	if e.Detail != "" {
		head += ": " + e.Detail
	}
	parts = append(parts, head)

	if e.Cause != nil {
		parts = append(parts, "(caused by: "+e.Cause.Error()+")")
	}
	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind, and by Phase when target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	switch {
	case !ok:
		return false
	case t.Phase != "" && t.Phase != e.Phase:
		return false
	default:
		return t.Kind == e.Kind
	}
}

// Is reports whether any error in err's chain matches target.
// It mirrors the standard library so callers need only one errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if !stderrors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// Builder assembles an Error field by field.
type Builder struct {
	e *Error
}

// New starts an Error of the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{e: &Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Value(v any) *Builder {
	b.e.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.e.Cause = err
	return b
}

// Detail sets the message from a printf format.
func (b *Builder) Detail(format string, args ...any) *Builder {
	b.e.Detail = fmt.Sprintf(format, args...)
	return b
}

// Text sets the message verbatim.
func (b *Builder) Text(msg string) *Builder {
	b.e.Detail = msg
	return b
}

func (b *Builder) Build() *Error {
	return b.e
}

// InvalidArgument reports a nil, short, or otherwise unusable input.
func InvalidArgument(phase Phase, detail string) *Error {
	return New(phase, KindInvalidArgument).Text(detail).Build()
}

// Overflow reports that cursor+unit would pass limit.
func Overflow(phase Phase, cursor, unit, limit uint32) *Error {
	return New(phase, KindOverflow).
		Value(cursor).
		Detail("cursor %d + unit %d exceeds limit %d", cursor, unit, limit).
		Build()
}

// Underflow reports a read from an empty stack.
func Underflow(phase Phase) *Error {
	return New(phase, KindUnderflow).Text("stack is empty").Build()
}

// AllocationFailed reports that size bytes could not be obtained.
func AllocationFailed(phase Phase, size uint32, cause error) *Error {
	return New(phase, KindAllocation).
		Value(size).
		Cause(cause).
		Detail("failed to allocate %d bytes", size).
		Build()
}

// OutOfBounds reports an access to [offset, offset+length) of a size-byte range.
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return New(phase, KindOutOfBounds).
		Value(offset).
		Detail("range [%d, %d) out of bounds (size %d)", offset, uint64(offset)+uint64(length), size).
		Build()
}

// NotInitialized reports use of an unbound or destroyed value.
func NotInitialized(phase Phase, what string) *Error {
	return New(phase, KindNotInitialized).Detail("%s not initialized", what).Build()
}

func TypeMismatch(phase Phase, detail string) *Error {
	return New(phase, KindTypeMismatch).Text(detail).Build()
}

func Unsupported(phase Phase, what string) *Error {
	return New(phase, KindUnsupported).Text(what).Build()
}

// Wrap attaches phase, kind and detail to a lower-level cause.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Text(detail).Build()
}
