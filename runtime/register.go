// Package runtime implements the register/environment model, data-move
// primitives, and VM control flow (§3, §4.2, §4.3, §4.5).
package runtime

import "github.com/mmyjona/cvm/typeinfo"

// Data is an owning handle to a byte buffer (§3 DataPointer). A nil Data
// represents the null pointer.
type Data []byte

// NewData allocates a zeroed buffer of n bytes. Go's make always
// zero-initializes, so this single constructor serves both the original
// Alloc and AllocClear operations (see DESIGN.md).
func NewData(n int) Data {
	return make(Data, n)
}

// Dynamic is a dynamic register (dyvarb): its data and type both vary at
// runtime. The zero value is {nil, typeinfo.Invalid}, matching the spec's
// initial state.
type Dynamic struct {
	Data Data
	Type typeinfo.Index
}

// Static is a static register (stvarb): its type is fixed at function
// definition time and its buffer is pre-sized to that type's declared size.
type Static struct {
	Data Data
	Type typeinfo.Index
}

// RegisterFile holds the dynamic and static registers for one activation
// (§4.2).
type RegisterFile struct {
	Dynamic []Dynamic
	Static  []Static
}

// NewRegisterFile builds a register file from a function's declared layout:
// dyvarbCount dynamic slots (all zero-valued) and one static slot per entry
// of staticTypes, each with a cleared buffer sized from reg.
func NewRegisterFile(dyvarbCount int, staticTypes []typeinfo.Index, reg *typeinfo.Registry) *RegisterFile {
	rf := &RegisterFile{
		Dynamic: make([]Dynamic, dyvarbCount),
		Static:  make([]Static, len(staticTypes)),
	}
	for i, t := range staticTypes {
		rf.Static[i] = Static{
			Data: NewData(reg.At(t).Size),
			Type: t,
		}
	}
	return rf
}
