package stack

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/boundstack/errors"
	"github.com/wippyai/boundstack/memory"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func requireKind(t *testing.T, want errors.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, errors.KindOf(err), "error: %v", err)
}

func TestInit(t *testing.T) {
	buf := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	s, err := Init(memory.Slice(buf), 8, 4)
	require.NoError(t, err)

	require.True(t, s.IsEmpty())
	require.False(t, s.IsFull())
	require.Equal(t, 0, s.Len())
	require.Equal(t, 1, s.Cap())
	require.Equal(t, uint32(4), s.UnitSize())
	require.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9}, buf, "Init must not touch region bytes")
}

func TestInit_InvalidArguments(t *testing.T) {
	region := memory.Slice(make([]byte, 16))

	tests := []struct {
		name     string
		capacity uint32
		unit     uint32
		nilRgn   bool
	}{
		{name: "nil region", capacity: 8, unit: 4, nilRgn: true},
		{name: "zero unit", capacity: 8, unit: 0},
		{name: "capacity equals unit", capacity: 4, unit: 4},
		{name: "capacity below unit", capacity: 3, unit: 4},
		{name: "zero capacity", capacity: 0, unit: 1},
		{name: "capacity beyond region", capacity: 17, unit: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := region
			if tt.nilRgn {
				r = nil
			}
			s, err := Init(r, tt.capacity, tt.unit)
			require.Nil(t, s)
			requireKind(t, errors.KindInvalidArgument, err)
			require.True(t, errors.Is(err, &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindInvalidArgument}))
		})
	}

	_, err := InitSlice(nil, 4)
	requireKind(t, errors.KindInvalidArgument, err)
}

func TestInit_RebindLeavesStateOnError(t *testing.T) {
	s, err := InitSlice(make([]byte, 9), 4)
	require.NoError(t, err)
	require.NoError(t, s.Push(u32(1)))

	requireKind(t, errors.KindInvalidArgument, s.Init(nil, 8, 4))
	require.Equal(t, 1, s.Len())

	// a successful rebind empties the stack
	require.NoError(t, s.Init(memory.Slice(make([]byte, 20)), 20, 4))
	require.True(t, s.IsEmpty())
	require.Equal(t, 4, s.Cap())
}

func TestCapacity_OneSlotRange(t *testing.T) {
	for _, unit := range []uint32{1, 2, 4, 8} {
		for capacity := unit + 1; capacity <= 2*unit; capacity++ {
			s, err := InitSlice(make([]byte, capacity), unit)
			require.NoError(t, err)

			elem := bytes.Repeat([]byte{0xAB}, int(unit))
			require.NoError(t, s.Push(elem), "unit=%d capacity=%d", unit, capacity)
			require.True(t, s.IsFull())
			requireKind(t, errors.KindOverflow, s.Push(elem))
			require.Equal(t, 1, s.Len())
		}
	}
}

func TestCapacity_Invariant(t *testing.T) {
	for _, unit := range []uint32{1, 3, 4, 7} {
		for capacity := unit + 1; capacity <= 6*unit; capacity++ {
			s, err := InitSlice(make([]byte, capacity), unit)
			require.NoError(t, err)

			elem := make([]byte, unit)
			pushes := 0
			for s.Push(elem) == nil {
				pushes++
			}
			require.Equal(t, int((capacity-1)/unit), pushes, "unit=%d capacity=%d", unit, capacity)
			require.LessOrEqual(t, pushes, int(capacity/unit))
			require.Equal(t, s.Cap(), pushes)
		}
	}
}

func TestConcreteScenario(t *testing.T) {
	s, err := InitSlice(make([]byte, 20), 4)
	require.NoError(t, err)
	runConcreteScenario(t, s)
}

// runConcreteScenario pushes 1..4 as 4 byte values into a 20 byte stack and
// drains it.
func runConcreteScenario(t *testing.T, s Stack) {
	t.Helper()

	for v := uint32(1); v <= 4; v++ {
		require.NoError(t, s.Push(u32(v)))
	}
	requireKind(t, errors.KindOverflow, s.Push(u32(5)))
	require.ErrorIs(t, s.Push(u32(5)), errors.ErrOverflow)
	require.Equal(t, 4, s.Len())

	out := make([]byte, 4)
	for v := uint32(4); v >= 1; v-- {
		require.NoError(t, s.Pop(out))
		require.Equal(t, u32(v), out)
	}
	requireKind(t, errors.KindUnderflow, s.Pop(out))
	require.True(t, s.IsEmpty())
}

func TestLIFOOrder(t *testing.T) {
	const n = 16
	s, err := InitSlice(make([]byte, n*3+1), 3)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		require.NoError(t, s.Push([]byte{byte(i), byte(i * 7), byte(255 - i)}))
	}
	require.True(t, s.IsFull())

	out := make([]byte, 3)
	for i := n - 1; i >= 0; i-- {
		require.NoError(t, s.Pop(out))
		require.Equal(t, []byte{byte(i), byte(i * 7), byte(255 - i)}, out)
	}
	require.True(t, s.IsEmpty())
}

func TestRoundTrip(t *testing.T) {
	s, err := InitSlice(make([]byte, 33), 8)
	require.NoError(t, err)
	require.NoError(t, s.Push([]byte("prefill!")))

	for _, empty := range []bool{false, true} {
		if empty {
			s.Reset()
		}
		before := s.IsEmpty()
		x := []byte("abcdefgh")
		y := make([]byte, 8)

		require.NoError(t, s.Push(x))
		require.NoError(t, s.Pop(y))
		require.Equal(t, x, y)
		require.Equal(t, before, s.IsEmpty())
	}
}

func TestUnderflow_LeavesOutputUntouched(t *testing.T) {
	s, err := InitSlice(make([]byte, 9), 4)
	require.NoError(t, err)

	out := []byte{1, 2, 3, 4}
	requireKind(t, errors.KindUnderflow, s.Pop(out))
	require.Equal(t, []byte{1, 2, 3, 4}, out)

	// drained to empty
	require.NoError(t, s.Push(u32(42)))
	require.NoError(t, s.Pop(out))
	out = []byte{5, 6, 7, 8}
	requireKind(t, errors.KindUnderflow, s.Pop(out))
	require.Equal(t, []byte{5, 6, 7, 8}, out)
	require.True(t, errors.Is(s.Pop(out), errors.ErrUnderflow))
}

func TestIsEmptyConsistency(t *testing.T) {
	s, err := InitSlice(make([]byte, 13), 4)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	out := make([]byte, 4)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Push(u32(uint32(i))))
		require.False(t, s.IsEmpty())
	}
	for i := 0; i < 3; i++ {
		require.False(t, s.IsEmpty())
		require.NoError(t, s.Pop(out))
	}
	require.True(t, s.IsEmpty())
}

func TestPush_FailureLeavesState(t *testing.T) {
	buf := make([]byte, 9)
	s, err := InitSlice(buf, 4)
	require.NoError(t, err)
	require.NoError(t, s.Push(u32(0x11111111)))
	require.NoError(t, s.Push(u32(0x22222222)))
	snapshot := append([]byte(nil), buf...)

	requireKind(t, errors.KindOverflow, s.Push(u32(0x33333333)))
	requireKind(t, errors.KindInvalidArgument, s.Push(nil))
	requireKind(t, errors.KindInvalidArgument, s.Push([]byte{1, 2, 3}))

	require.Equal(t, snapshot, buf)
	require.Equal(t, 2, s.Len())
}

func TestPush_CopiesExactlyOneUnit(t *testing.T) {
	buf := make([]byte, 9)
	s, err := InitSlice(buf, 4)
	require.NoError(t, err)

	require.NoError(t, s.Push([]byte{1, 2, 3, 4, 5, 6}))
	require.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0, 0}, buf)

	// the caller's buffer may be reused after Push
	elem := []byte{7, 7, 7, 7}
	require.NoError(t, s.Push(elem))
	elem[0] = 0

	out := make([]byte, 6)
	require.NoError(t, s.Pop(out))
	require.Equal(t, []byte{7, 7, 7, 7, 0, 0}, out)
}

func TestPop_ArgumentsCheckedBeforeUnderflow(t *testing.T) {
	s, err := InitSlice(make([]byte, 9), 4)
	require.NoError(t, err)

	requireKind(t, errors.KindInvalidArgument, s.Pop(nil))
	requireKind(t, errors.KindInvalidArgument, s.Pop(make([]byte, 3)))

	require.NoError(t, s.Push(u32(1)))
	requireKind(t, errors.KindInvalidArgument, s.Pop(nil))
	require.Equal(t, 1, s.Len())
}

func TestPeek(t *testing.T) {
	s, err := InitSlice(make([]byte, 9), 4)
	require.NoError(t, err)

	out := make([]byte, 4)
	requireKind(t, errors.KindUnderflow, s.Peek(out))

	require.NoError(t, s.Push(u32(10)))
	require.NoError(t, s.Push(u32(20)))
	require.NoError(t, s.Peek(out))
	require.Equal(t, u32(20), out)
	require.Equal(t, 2, s.Len())
	require.True(t, errors.Is(s.Peek(nil), &errors.Error{Phase: errors.PhasePeek, Kind: errors.KindInvalidArgument}))
}

func TestReset(t *testing.T) {
	buf := make([]byte, 9)
	s, err := InitSlice(buf, 4)
	require.NoError(t, err)
	require.NoError(t, s.Push(u32(5)))

	s.Reset()
	require.True(t, s.IsEmpty())
	require.Equal(t, u32(5), buf[:4], "Reset must not touch region bytes")
	require.NoError(t, s.Push(u32(6)))
}

func TestZeroValue(t *testing.T) {
	var zero Bytes
	var nilStack *Bytes

	for name, s := range map[string]*Bytes{"zero": &zero, "nil": nilStack} {
		t.Run(name, func(t *testing.T) {
			require.True(t, s.IsEmpty())
			require.False(t, s.IsFull())
			require.Equal(t, 0, s.Len())
			require.Equal(t, 0, s.Cap())
			require.Equal(t, uint32(0), s.UnitSize())
			s.Reset()

			requireKind(t, errors.KindNotInitialized, s.Push([]byte{1}))
			requireKind(t, errors.KindNotInitialized, s.Pop(make([]byte, 1)))
			requireKind(t, errors.KindNotInitialized, s.Peek(make([]byte, 1)))
		})
	}

	requireKind(t, errors.KindInvalidArgument, nilStack.Init(memory.Slice(make([]byte, 8)), 8, 4))
}

func TestWasmWindowRegion(t *testing.T) {
	lm := newLinearMemory(t, 1, nil)

	w, err := memory.NewWindow(lm.Memory(), 1024, 20)
	require.NoError(t, err)

	s, err := Init(w, 20, 4)
	require.NoError(t, err)
	require.NoError(t, s.Push(u32(0xCAFEBABE)))

	raw, ok := lm.Memory().ReadUint32Le(1024)
	require.True(t, ok)
	require.Equal(t, uint32(0xCAFEBABE), raw)

	s.Reset()
	runConcreteScenario(t, s)
}
