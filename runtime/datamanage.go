package runtime

import (
	"fmt"
	"io"

	"github.com/mmyjona/cvm/typeinfo"
)

// MoveRegister implements the uniform "move register" operation shared by
// most opcodes (§4.3).
func MoveRegister(env Environment, dst DstData, src SrcData) error {
	switch dst.Mode {
	case DstNull:
		return nil
	case DstDynamic:
		// Reassigns the pointer: transfer of reference, no byte copy.
		*dst.Data = src.Data
		*dst.Type = src.Type
		return nil
	case DstStatic:
		size := env.Types().At(src.Type).Size
		n := size
		if n > len(src.Data) {
			n = len(src.Data)
		}
		copy(*dst.Data, src.Data[:n])
		return nil
	default:
		return nil
	}
}

// LoadData implements the size-aware load of a literal (immediate or
// data-pool blob) into a register (§4.3).
func LoadData(dst DstData, srcBytes []byte, dstType typeinfo.Index, reg *typeinfo.Registry) error {
	switch dst.Mode {
	case DstNull:
		return nil
	case DstDynamic:
		size := reg.At(dstType).Size
		buf := NewData(size)
		n := size
		if n > len(srcBytes) {
			n = len(srcBytes)
		}
		copy(buf, srcBytes[:n])
		*dst.Data = buf
		*dst.Type = dstType
		return nil
	case DstStatic:
		clear(*dst.Data)
		n := len(*dst.Data)
		if n > len(srcBytes) {
			n = len(srcBytes)
		}
		copy(*dst.Data, srcBytes[:n])
		return nil
	default:
		return nil
	}
}

// LoadDataPointer implements the pointer-typed variant of LoadData: it
// allocates a fresh buffer holding the literal and publishes that buffer
// itself as the register's value. A Go slice is already a reference, so
// unlike the original's byte-encoded machine-word address, the "pointer"
// here is simply the slice header.
func LoadDataPointer(dst DstData, srcBytes []byte) error {
	switch dst.Mode {
	case DstNull:
		return nil
	case DstDynamic:
		buf := NewData(len(srcBytes))
		copy(buf, srcBytes)
		*dst.Data = buf
		*dst.Type = typeinfo.Pointer
		return nil
	case DstStatic:
		buf := NewData(len(srcBytes))
		copy(buf, srcBytes)
		*dst.Data = buf
		return nil
	default:
		return nil
	}
}

// DebugPrintRegisters writes one "[data: <HEX>]" line per dynamic register
// in index order (db_opreg), matching datamanage.cpp's
// Debug_PrintRegister/ToStringData format.
func DebugPrintRegisters(w io.Writer, rf *RegisterFile) error {
	for _, d := range rf.Dynamic {
		if _, err := fmt.Fprintf(w, "[data: %X]\n", []byte(d.Data)); err != nil {
			return err
		}
	}
	return nil
}
