package element

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/boundstack/errors"
)

// Layout describes a unit: its type name and canonical ABI size and alignment.
// A Layout with a nil type is raw: units are opaque bytes shown as hex.
type Layout struct {
	typ   wit.Type
	Name  string
	Size  uint32
	Align uint32
}

// Raw returns an untyped layout of size bytes.
func Raw(size uint32) Layout {
	return Layout{Name: "raw", Size: size, Align: 1}
}

// Parse resolves a WIT scalar type name to its layout.
func Parse(name string) (Layout, error) {
	name = strings.TrimSpace(name)
	t, err := wit.ParseType(name)
	if err != nil {
		return Layout{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidArgument, err, "parse type "+strconv.Quote(name))
	}

	l := Layout{typ: t, Name: name}
	switch t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		l.Size, l.Align = 1, 1
	case wit.U16, wit.S16:
		l.Size, l.Align = 2, 2
	case wit.U32, wit.S32, wit.F32, wit.Char:
		l.Size, l.Align = 4, 4
	case wit.U64, wit.S64, wit.F64:
		l.Size, l.Align = 8, 8
	default:
		return Layout{}, errors.Unsupported(errors.PhaseParse, "non-scalar element type "+strconv.Quote(name))
	}
	return l, nil
}

// IsRaw reports whether the layout carries no scalar type.
func (l Layout) IsRaw() bool {
	return l.typ == nil
}

// Format renders one unit as text.
func (l Layout) Format(unit []byte) string {
	if uint32(len(unit)) < l.Size {
		return "<short unit>"
	}
	b := unit[:l.Size]

	switch l.typ.(type) {
	case wit.U8:
		return strconv.FormatUint(uint64(U8.Decode(b)), 10)
	case wit.U16:
		return strconv.FormatUint(uint64(U16.Decode(b)), 10)
	case wit.U32:
		return strconv.FormatUint(uint64(U32.Decode(b)), 10)
	case wit.U64:
		return strconv.FormatUint(U64.Decode(b), 10)
	case wit.S8:
		return strconv.FormatInt(int64(S8.Decode(b)), 10)
	case wit.S16:
		return strconv.FormatInt(int64(S16.Decode(b)), 10)
	case wit.S32:
		return strconv.FormatInt(int64(S32.Decode(b)), 10)
	case wit.S64:
		return strconv.FormatInt(S64.Decode(b), 10)
	case wit.F32:
		return strconv.FormatFloat(float64(F32.Decode(b)), 'g', -1, 32)
	case wit.F64:
		return strconv.FormatFloat(F64.Decode(b), 'g', -1, 64)
	case wit.Bool:
		return strconv.FormatBool(Bool.Decode(b))
	case wit.Char:
		r := Char.Decode(b)
		if !utf8.ValidRune(r) {
			return "0x" + strconv.FormatUint(uint64(uint32(r)), 16)
		}
		return strconv.QuoteRune(r)
	default:
		return "0x" + hex.EncodeToString(b)
	}
}

// ParseValue converts text into one encoded unit.
// Raw layouts take hex digits with an optional 0x prefix, most significant
// byte first as written.
func (l Layout) ParseValue(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	out := make([]byte, l.Size)

	var err error
	switch l.typ.(type) {
	case wit.U8, wit.U16, wit.U32, wit.U64:
		var v uint64
		if v, err = strconv.ParseUint(s, 0, int(l.Size*8)); err == nil {
			encodeUint(out, v)
		}
	case wit.S8, wit.S16, wit.S32, wit.S64:
		var v int64
		if v, err = strconv.ParseInt(s, 0, int(l.Size*8)); err == nil {
			encodeUint(out, uint64(v))
		}
	case wit.F32:
		var v float64
		if v, err = strconv.ParseFloat(s, 32); err == nil {
			F32.Encode(out, float32(v))
		}
	case wit.F64:
		var v float64
		if v, err = strconv.ParseFloat(s, 64); err == nil {
			F64.Encode(out, v)
		}
	case wit.Bool:
		var v bool
		if v, err = strconv.ParseBool(s); err == nil {
			Bool.Encode(out, v)
		}
	case wit.Char:
		var r rune
		if r, err = parseChar(s); err == nil {
			Char.Encode(out, r)
		}
	default:
		return l.parseRaw(s)
	}

	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidArgument, err,
			"parse "+strconv.Quote(s)+" as "+l.Name)
	}
	return out, nil
}

func (l Layout) parseRaw(s string) ([]byte, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if want := int(l.Size) * 2; len(digits) < want {
		digits = strings.Repeat("0", want-len(digits)) + digits
	}
	out, err := hex.DecodeString(digits)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidArgument, err, "parse "+strconv.Quote(s)+" as hex")
	}
	if uint32(len(out)) != l.Size {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidArgument).
			Value(len(out)).
			Detail("%q is %d bytes, unit is %d", s, len(out), l.Size).
			Build()
	}
	return out, nil
}

func encodeUint(out []byte, v uint64) {
	for i := range out {
		out[i] = byte(v)
		v >>= 8
	}
}

func parseChar(s string) (rune, error) {
	if r, size := utf8.DecodeRuneInString(s); size == len(s) && r != utf8.RuneError {
		return r, nil
	}
	unq, err := strconv.Unquote(s)
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(unq)
	if size != len(unq) || r == utf8.RuneError {
		return 0, strconv.ErrSyntax
	}
	return r, nil
}
