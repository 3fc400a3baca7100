package stack

import (
	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/errors"
	"github.com/wippyai/boundstack/memory"
)

// Stack is a bounded LIFO of fixed-size units.
type Stack interface {
	Push(unit []byte) error
	Pop(out []byte) error
	Peek(out []byte) error
	IsEmpty() bool
	IsFull() bool
	Len() int
	Cap() int
	UnitSize() uint32
	Reset()
}

var (
	_ Stack = (*Bytes)(nil)
	_ Stack = (*Owned)(nil)
)

// Bytes is a stack over a borrowed region. The zero value is unbound and
// rejects every operation until Init.
//
// A nil *Bytes behaves like the zero value.
//
// The cursor is a byte offset into the region and is always a multiple of
// unit, with 0 <= cursor <= end.
type Bytes struct {
	region boundstack.Region
	end    uint32 // one past the last usable byte; the byte at end is reserved
	cursor uint32
	unit   uint32
}

// Init binds a new stack to the first capacity bytes of region.
func Init(region boundstack.Region, capacity, unit uint32) (*Bytes, error) {
	s := &Bytes{}
	if err := s.Init(region, capacity, unit); err != nil {
		return nil, err
	}
	return s, nil
}

// InitSlice binds a new stack to all of buf.
func InitSlice(buf []byte, unit uint32) (*Bytes, error) {
	return Init(memory.Slice(buf), uint32(len(buf)), unit)
}

// Init binds s to the first capacity bytes of region and empties it.
// The region's bytes are not touched. On error s is left unchanged.
func (s *Bytes) Init(region boundstack.Region, capacity, unit uint32) error {
	if s == nil {
		return errors.InvalidArgument(errors.PhaseInit, "nil stack")
	}
	if region == nil {
		return errors.InvalidArgument(errors.PhaseInit, "nil region")
	}
	if err := checkGeometry(errors.PhaseInit, capacity, unit); err != nil {
		return err
	}
	if capacity > region.Size() {
		return errors.New(errors.PhaseInit, errors.KindInvalidArgument).
			Value(capacity).
			Detail("capacity %d exceeds region size %d", capacity, region.Size()).
			Build()
	}

	s.region = region
	s.end = capacity - 1
	s.cursor = 0
	s.unit = unit
	return nil
}

func checkGeometry(phase errors.Phase, capacity, unit uint32) error {
	if unit == 0 {
		return errors.InvalidArgument(phase, "unit size must be positive")
	}
	if capacity <= unit {
		return errors.New(phase, errors.KindInvalidArgument).
			Value(capacity).
			Detail("capacity %d must exceed unit size %d", capacity, unit).
			Build()
	}
	return nil
}

// checkBuffer validates a caller buffer for phase.
func (s *Bytes) checkBuffer(phase errors.Phase, buf []byte, what string) error {
	if s == nil || s.region == nil {
		return errors.NotInitialized(phase, "stack")
	}
	if buf == nil {
		return errors.InvalidArgument(phase, "nil "+what)
	}
	if uint32(len(buf)) < s.unit {
		return errors.New(phase, errors.KindInvalidArgument).
			Value(len(buf)).
			Detail("%s is %d bytes, unit is %d", what, len(buf), s.unit).
			Build()
	}
	return nil
}

// Push copies the first UnitSize bytes of unit onto the stack.
func (s *Bytes) Push(unit []byte) error {
	if err := s.checkBuffer(errors.PhasePush, unit, "element"); err != nil {
		return err
	}
	if uint64(s.cursor)+uint64(s.unit) > uint64(s.end) {
		return errors.Overflow(errors.PhasePush, s.cursor, s.unit, s.end)
	}
	if err := s.region.Write(s.cursor, unit[:s.unit]); err != nil {
		return errors.Wrap(errors.PhasePush, errors.KindOutOfBounds, err, "write unit")
	}
	s.cursor += s.unit
	return nil
}

// Pop removes the top unit and copies it into the first UnitSize bytes of out.
// On error out is not modified.
func (s *Bytes) Pop(out []byte) error {
	if err := s.top(errors.PhasePop, out); err != nil {
		return err
	}
	s.cursor -= s.unit
	return nil
}

// Peek copies the top unit into out without removing it.
func (s *Bytes) Peek(out []byte) error {
	return s.top(errors.PhasePeek, out)
}

func (s *Bytes) top(phase errors.Phase, out []byte) error {
	if err := s.checkBuffer(phase, out, "output buffer"); err != nil {
		return err
	}
	if s.cursor < s.unit {
		return errors.Underflow(phase)
	}
	data, err := s.region.Read(s.cursor-s.unit, s.unit)
	if err != nil {
		return errors.Wrap(phase, errors.KindOutOfBounds, err, "read unit")
	}
	copy(out, data)
	return nil
}

// IsEmpty reports whether the stack holds no units. An unbound stack is empty.
func (s *Bytes) IsEmpty() bool {
	return s == nil || s.region == nil || s.cursor < s.unit
}

// IsFull reports whether the next Push would overflow.
func (s *Bytes) IsFull() bool {
	return s != nil && s.region != nil && uint64(s.cursor)+uint64(s.unit) > uint64(s.end)
}

// Len returns the number of units on the stack.
func (s *Bytes) Len() int {
	if s == nil || s.unit == 0 {
		return 0
	}
	return int(s.cursor / s.unit)
}

// Cap returns the number of units the stack can hold.
func (s *Bytes) Cap() int {
	if s == nil || s.unit == 0 {
		return 0
	}
	return int(s.end / s.unit)
}

// UnitSize returns the unit size in bytes, or 0 for an unbound stack.
func (s *Bytes) UnitSize() uint32 {
	if s == nil {
		return 0
	}
	return s.unit
}

// Reset empties the stack. The region's bytes are not touched.
func (s *Bytes) Reset() {
	if s != nil {
		s.cursor = 0
	}
}
