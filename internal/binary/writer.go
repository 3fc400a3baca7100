// Package binary encodes the small subset of the WebAssembly binary format
// needed to declare and export a linear memory.
package binary

// Module preamble: "\0asm" followed by version 1.
var (
	Magic   = []byte{0x00, 0x61, 0x73, 0x6d}
	Version = []byte{0x01, 0x00, 0x00, 0x00}
)

const (
	SectionMemory byte = 0x05
	SectionExport byte = 0x07

	ExportMemory byte = 0x02

	LimitsNoMax  byte = 0x00
	LimitsHasMax byte = 0x01
)

// AppendU32 appends v as unsigned LEB128.
func AppendU32(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendName appends a length-prefixed UTF-8 name.
func AppendName(dst []byte, name string) []byte {
	dst = AppendU32(dst, uint32(len(name)))
	return append(dst, name...)
}

// AppendLimits appends page limits. A nil maxPages leaves the memory unbounded.
func AppendLimits(dst []byte, minPages uint32, maxPages *uint32) []byte {
	if maxPages == nil {
		return AppendU32(append(dst, LimitsNoMax), minPages)
	}
	dst = AppendU32(append(dst, LimitsHasMax), minPages)
	return AppendU32(dst, *maxPages)
}

// AppendSection appends a section id, the payload size and the payload.
func AppendSection(dst []byte, id byte, payload []byte) []byte {
	dst = AppendU32(append(dst, id), uint32(len(payload)))
	return append(dst, payload...)
}

// MemoryModule encodes a module that declares one memory and exports it
// under name.
func MemoryModule(name string, minPages uint32, maxPages *uint32) []byte {
	mem := AppendLimits(AppendU32(nil, 1), minPages, maxPages)

	exp := AppendName(AppendU32(nil, 1), name)
	exp = AppendU32(append(exp, ExportMemory), 0)

	out := make([]byte, 0, len(Magic)+len(Version)+len(mem)+len(exp)+4)
	out = append(out, Magic...)
	out = append(out, Version...)
	out = AppendSection(out, SectionMemory, mem)
	return AppendSection(out, SectionExport, exp)
}
