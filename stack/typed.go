package stack

import (
	"github.com/wippyai/boundstack/element"
	"github.com/wippyai/boundstack/errors"
)

// Typed is a type-safe view of a Stack whose units encode values of T.
type Typed[T any] struct {
	s     Stack
	codec element.Codec[T]
	buf   []byte
}

// NewTyped wraps s. The codec size must equal the stack's unit size.
func NewTyped[T any](s Stack, codec element.Codec[T]) (*Typed[T], error) {
	if s == nil || codec == nil {
		return nil, errors.InvalidArgument(errors.PhaseInit, "nil stack or codec")
	}
	if codec.Size() != s.UnitSize() {
		return nil, errors.New(errors.PhaseInit, errors.KindTypeMismatch).
			Value(codec.Size()).
			Detail("codec for %T encodes %d bytes, unit is %d", *new(T), codec.Size(), s.UnitSize()).
			Build()
	}
	return &Typed[T]{s: s, codec: codec, buf: make([]byte, codec.Size())}, nil
}

// Push encodes v and pushes it.
func (t *Typed[T]) Push(v T) error {
	t.codec.Encode(t.buf, v)
	return t.s.Push(t.buf)
}

// Pop removes and decodes the top value.
func (t *Typed[T]) Pop() (T, error) {
	if err := t.s.Pop(t.buf); err != nil {
		var zero T
		return zero, err
	}
	return t.codec.Decode(t.buf), nil
}

// Peek decodes the top value without removing it.
func (t *Typed[T]) Peek() (T, error) {
	if err := t.s.Peek(t.buf); err != nil {
		var zero T
		return zero, err
	}
	return t.codec.Decode(t.buf), nil
}

func (t *Typed[T]) IsEmpty() bool { return t.s.IsEmpty() }
func (t *Typed[T]) IsFull() bool  { return t.s.IsFull() }
func (t *Typed[T]) Len() int      { return t.s.Len() }
func (t *Typed[T]) Cap() int      { return t.s.Cap() }

// Stack returns the underlying byte stack.
func (t *Typed[T]) Stack() Stack {
	return t.s
}
