package stack

import (
	"go.uber.org/zap"

	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/errors"
)

// Owned is a stack whose region was obtained from an Allocator.
// Destroy returns the region; afterwards the stack is unbound.
type Owned struct {
	alloc boundstack.Allocator
	core  Bytes
}

// Create allocates capacity bytes from alloc and binds a stack to them.
// Arguments are validated before anything is allocated.
func Create(alloc boundstack.Allocator, capacity, unit uint32) (*Owned, error) {
	if alloc == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "nil allocator")
	}
	if err := checkGeometry(errors.PhaseCreate, capacity, unit); err != nil {
		return nil, err
	}

	region, err := alloc.Alloc(capacity)
	if err != nil {
		Logger().Debug("stack allocation failed",
			zap.Uint32("capacity", capacity),
			zap.Uint32("unit", unit),
			zap.Error(err))
		return nil, errors.Wrap(errors.PhaseCreate, errors.KindAllocation, err, "allocate stack region")
	}
	if region == nil {
		return nil, errors.AllocationFailed(errors.PhaseCreate, capacity, nil)
	}

	o := &Owned{alloc: alloc}
	if err := o.core.Init(region, capacity, unit); err != nil {
		alloc.Free(region)
		return nil, err
	}

	Logger().Debug("stack created",
		zap.Uint32("capacity", capacity),
		zap.Uint32("unit", unit),
		zap.Int("slots", o.core.Cap()))
	return o, nil
}

// Destroy frees the region and unbinds the stack. It is safe to call on a
// nil or already destroyed stack.
func (o *Owned) Destroy() {
	if o == nil || o.core.region == nil {
		return
	}

	o.alloc.Free(o.core.region)
	Logger().Debug("stack destroyed",
		zap.Int("len", o.core.Len()),
		zap.Uint32("unit", o.core.unit))

	o.core = Bytes{}
	o.alloc = nil
}

// bytes returns the bound core, or nil for a nil stack. Every method below
// goes through it so that a nil *Owned reports not-initialized.
func (o *Owned) bytes() *Bytes {
	if o == nil {
		return nil
	}
	return &o.core
}

// Push copies the first UnitSize bytes of unit onto the stack.
func (o *Owned) Push(unit []byte) error { return o.bytes().Push(unit) }

// Pop removes the top unit into out.
func (o *Owned) Pop(out []byte) error { return o.bytes().Pop(out) }

// Peek copies the top unit into out without removing it.
func (o *Owned) Peek(out []byte) error { return o.bytes().Peek(out) }

func (o *Owned) IsEmpty() bool    { return o.bytes().IsEmpty() }
func (o *Owned) IsFull() bool     { return o.bytes().IsFull() }
func (o *Owned) Len() int         { return o.bytes().Len() }
func (o *Owned) Cap() int         { return o.bytes().Cap() }
func (o *Owned) UnitSize() uint32 { return o.bytes().UnitSize() }
func (o *Owned) Reset()           { o.bytes().Reset() }
