package runtime

import (
	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/typeinfo"
)

// RegKind is the resolved register kind a Ref names, decided at compile
// time (§4.2, §4.4): a bare %N is routed to KindDynamic or KindStatic by
// comparing its index against the function's dyvarb count before the
// runtime ever sees it.
type RegKind int

const (
	KindDynamic RegKind = iota
	KindStatic
	// KindNull is the %0 zero register: always reads as null data / null
	// type, and discards any write. It is a distinct register kind, never
	// an indexed dyvarb/stvarb (see DESIGN.md Open Question decisions,
	// grounded on original_source/source/parse.cpp's parseRegister).
	KindNull
	// KindRes is the %res singleton dynamic register of a local
	// environment.
	KindRes
	// KindRouted is a class-g/class-t register (§4.4): the compiler fixes
	// its env qualifier to parent/temp but cannot know that target
	// environment's dyvarb count at compile time, so the dynamic-vs-static
	// routing that class-n registers get at compile time happens here
	// instead, against the target's actual register file, at access time.
	KindRouted
)

// Ref is a fully resolved register reference: the triple a compiled
// Instruction closure captures in place of the symbolic %<class><index>
// operand it was compiled from (§4.4).
type Ref struct {
	Kind  RegKind
	Index int
	Env   EnvQual
}

// DstMode mirrors spec.md §4.3's DstData.mode.
type DstMode int

const (
	DstNull DstMode = iota
	DstDynamic
	DstStatic
)

// DstData is the destination-operand adapter shared by mov and load
// (§4.3).
type DstData struct {
	Mode DstMode
	Data *Data
	// Type is the register's type slot. Present (non-nil) only for
	// dynamic destinations, whose type is itself mutable; static
	// destinations have a fixed type and no type slot to write.
	Type *typeinfo.Index
}

// SrcData is the source-operand adapter shared by mov and load (§4.3).
type SrcData struct {
	Data Data
	Type typeinfo.Index
}

// GetDst resolves ref to a destination adapter against env.
func GetDst(ref Ref, env Environment) (DstData, error) {
	switch ref.Kind {
	case KindNull:
		return DstData{Mode: DstNull}, nil
	case KindRes:
		res, err := env.Res()
		if err != nil {
			return DstData{}, err
		}
		return DstData{Mode: DstDynamic, Data: &res.Data, Type: &res.Type}, nil
	case KindDynamic:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return DstData{}, err
		}
		if ref.Index < 0 || ref.Index >= len(rf.Dynamic) {
			return DstData{}, errs.ErrMalformedInstruction
		}
		d := &rf.Dynamic[ref.Index]
		return DstData{Mode: DstDynamic, Data: &d.Data, Type: &d.Type}, nil
	case KindStatic:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return DstData{}, err
		}
		if ref.Index < 0 || ref.Index >= len(rf.Static) {
			return DstData{}, errs.ErrMalformedInstruction
		}
		s := &rf.Static[ref.Index]
		return DstData{Mode: DstStatic, Data: &s.Data}, nil
	case KindRouted:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return DstData{}, err
		}
		if ref.Index < len(rf.Dynamic) {
			d := &rf.Dynamic[ref.Index]
			return DstData{Mode: DstDynamic, Data: &d.Data, Type: &d.Type}, nil
		}
		i := ref.Index - len(rf.Dynamic)
		if i < 0 || i >= len(rf.Static) {
			return DstData{}, errs.ErrMalformedInstruction
		}
		s := &rf.Static[i]
		return DstData{Mode: DstStatic, Data: &s.Data}, nil
	default:
		return DstData{}, errs.ErrMalformedInstruction
	}
}

// GetSrc resolves ref to a source adapter against env.
func GetSrc(ref Ref, env Environment) (SrcData, error) {
	switch ref.Kind {
	case KindNull:
		return SrcData{}, nil
	case KindRes:
		res, err := env.Res()
		if err != nil {
			return SrcData{}, err
		}
		return SrcData{Data: res.Data, Type: res.Type}, nil
	case KindDynamic:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return SrcData{}, err
		}
		if ref.Index < 0 || ref.Index >= len(rf.Dynamic) {
			return SrcData{}, errs.ErrMalformedInstruction
		}
		d := rf.Dynamic[ref.Index]
		return SrcData{Data: d.Data, Type: d.Type}, nil
	case KindStatic:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return SrcData{}, err
		}
		if ref.Index < 0 || ref.Index >= len(rf.Static) {
			return SrcData{}, errs.ErrMalformedInstruction
		}
		s := rf.Static[ref.Index]
		return SrcData{Data: s.Data, Type: s.Type}, nil
	case KindRouted:
		rf, err := env.Registers(ref.Env)
		if err != nil {
			return SrcData{}, err
		}
		if ref.Index < len(rf.Dynamic) {
			d := rf.Dynamic[ref.Index]
			return SrcData{Data: d.Data, Type: d.Type}, nil
		}
		i := ref.Index - len(rf.Dynamic)
		if i < 0 || i >= len(rf.Static) {
			return SrcData{}, errs.ErrMalformedInstruction
		}
		s := rf.Static[i]
		return SrcData{Data: s.Data, Type: s.Type}, nil
	default:
		return SrcData{}, errs.ErrMalformedInstruction
	}
}
