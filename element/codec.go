package element

import (
	"encoding/binary"
	"math"
)

// Codec encodes values of T into exactly Size bytes.
// Encode and Decode expect buffers of at least Size bytes.
type Codec[T any] interface {
	Size() uint32
	Encode(dst []byte, v T)
	Decode(src []byte) T
}

type funcCodec[T any] struct {
	encode func([]byte, T)
	decode func([]byte) T
	size   uint32
}

func (c funcCodec[T]) Size() uint32 { return c.size }

func (c funcCodec[T]) Encode(dst []byte, v T) { c.encode(dst, v) }

func (c funcCodec[T]) Decode(src []byte) T { return c.decode(src) }

// NewCodec builds a Codec from an encode/decode pair.
func NewCodec[T any](size uint32, encode func([]byte, T), decode func([]byte) T) Codec[T] {
	return funcCodec[T]{size: size, encode: encode, decode: decode}
}

var le = binary.LittleEndian

// Little-endian codecs for the WIT scalar types.
var (
	U8 = NewCodec(1,
		func(b []byte, v uint8) { b[0] = v },
		func(b []byte) uint8 { return b[0] })
	U16 = NewCodec(2, le.PutUint16, le.Uint16)
	U32 = NewCodec(4, le.PutUint32, le.Uint32)
	U64 = NewCodec(8, le.PutUint64, le.Uint64)

	S8 = NewCodec(1,
		func(b []byte, v int8) { b[0] = byte(v) },
		func(b []byte) int8 { return int8(b[0]) })
	S16 = NewCodec(2,
		func(b []byte, v int16) { le.PutUint16(b, uint16(v)) },
		func(b []byte) int16 { return int16(le.Uint16(b)) })
	S32 = NewCodec(4,
		func(b []byte, v int32) { le.PutUint32(b, uint32(v)) },
		func(b []byte) int32 { return int32(le.Uint32(b)) })
	S64 = NewCodec(8,
		func(b []byte, v int64) { le.PutUint64(b, uint64(v)) },
		func(b []byte) int64 { return int64(le.Uint64(b)) })

	F32 = NewCodec(4,
		func(b []byte, v float32) { le.PutUint32(b, math.Float32bits(v)) },
		func(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) })
	F64 = NewCodec(8,
		func(b []byte, v float64) { le.PutUint64(b, math.Float64bits(v)) },
		func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) })

	Bool = NewCodec(1,
		func(b []byte, v bool) {
			if v {
				b[0] = 1
			} else {
				b[0] = 0
			}
		},
		func(b []byte) bool { return b[0] != 0 })

	// Char stores a Unicode scalar value as u32.
	Char = NewCodec(4,
		func(b []byte, v rune) { le.PutUint32(b, uint32(v)) },
		func(b []byte) rune { return rune(le.Uint32(b)) })
)
