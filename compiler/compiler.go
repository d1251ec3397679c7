// Package compiler lowers a parsed instruct.Program (Instruction
// Structure) to its runtime form: symbol names resolved to direct handles,
// register operands resolved to (kind, index, env) triples, and each
// instruction bound into a closure (§4.4).
package compiler

import (
	"github.com/mmyjona/cvm/data"
	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/instruct"
	"github.com/mmyjona/cvm/runtime"
	"github.com/mmyjona/cvm/typeinfo"
)

// Module is the fully compiled program: the frozen type registry and data
// pool, plus every compiled function keyed by name.
type Module struct {
	Types *typeinfo.Registry
	Data  *data.Pool
	Funcs map[string]*runtime.Function
	Entry string
}

// Compile lowers prog to a Module. Symbol-resolution failures (undefined
// type, undefined function, ...) abort compilation immediately (§7
// policy).
func Compile(prog *instruct.Program) (*Module, error) {
	types := typeinfo.NewRegistry()
	for _, t := range prog.Types {
		if _, err := types.Insert(t.Name, typeinfo.Info{Size: int(t.Size)}); err != nil {
			return nil, err
		}
	}

	pool := data.NewPool()
	for _, d := range prog.Datas {
		if err := pool.Insert(data.Index(d.Index), d.Bytes); err != nil {
			return nil, err
		}
	}

	mod := &Module{Types: types, Data: pool, Funcs: make(map[string]*runtime.Function), Entry: prog.Entry}
	for i := range prog.Funcs {
		fn := &prog.Funcs[i]
		compiled, err := compileFunc(fn, types, pool)
		if err != nil {
			return nil, errs.CompileError{Func: fn.Name, Err: err}
		}
		mod.Funcs[fn.Name] = compiled
	}

	if _, ok := mod.Funcs[mod.Entry]; !ok {
		return nil, errs.CompileError{Func: mod.Entry, Err: errs.ErrUndefinedFunction}
	}

	return mod, nil
}

func compileFunc(fn *instruct.Function, types *typeinfo.Registry, pool *data.Pool) (*runtime.Function, error) {
	staticTypes := make([]typeinfo.Index, len(fn.StaticTypes))
	for i, name := range fn.StaticTypes {
		idx, ok := types.Find(name)
		if !ok {
			return nil, errs.ErrUndefinedType
		}
		staticTypes[i] = idx
	}

	out := &runtime.Function{
		Name:        fn.Name,
		DyvarbCount: fn.DyvarbCount,
		StaticTypes: staticTypes,
	}

	instrs := make([]runtime.Instruction, 0, len(fn.Instructions))
	for _, is := range fn.Instructions {
		compiled, err := compileInst(is, fn, types, pool)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, compiled)
	}
	out.Instructions = instrs
	return out, nil
}

// resolveRegister implements §4.4's operand resolution: class-n registers
// are routed to a dynamic or static slot by comparing their index against
// this function's own dyvarb count, right now; class-g/class-t registers
// keep their index symbolic and get their env qualifier forced to
// parent/temp, deferring dynamic-vs-static routing to the target
// environment at access time (runtime.KindRouted).
//
// Register numerals are 1-based on the wire (parseRegister already routes
// numeral 0 to SpecialZero), so every real index is converted to its
// 0-based slot position here, once, before routing.
func resolveRegister(reg instruct.Register, dyvarbCount int) (runtime.Ref, error) {
	switch reg.Special {
	case instruct.SpecialRes:
		return runtime.Ref{Kind: runtime.KindRes}, nil
	case instruct.SpecialZero:
		return runtime.Ref{Kind: runtime.KindNull}, nil
	}

	index := reg.Index - 1

	switch reg.Class {
	case instruct.ClassG:
		return runtime.Ref{Kind: runtime.KindRouted, Index: index, Env: runtime.QualParent}, nil
	case instruct.ClassT:
		return runtime.Ref{Kind: runtime.KindRouted, Index: index, Env: runtime.QualTemp}, nil
	default: // instruct.ClassN
		qual := resolveQual(reg.Qual)
		if index < dyvarbCount {
			return runtime.Ref{Kind: runtime.KindDynamic, Index: index, Env: qual}, nil
		}
		return runtime.Ref{Kind: runtime.KindStatic, Index: index - dyvarbCount, Env: qual}, nil
	}
}

func resolveQual(q instruct.EnvQual) runtime.EnvQual {
	switch q {
	case instruct.EnvParent:
		return runtime.QualParent
	case instruct.EnvTemp:
		return runtime.QualTemp
	default:
		return runtime.QualCurrent
	}
}

func compileInst(is instruct.Instruction, fn *instruct.Function, types *typeinfo.Registry, pool *data.Pool) (runtime.Instruction, error) {
	switch is.Op {
	case instruct.OpMov:
		dstRef, err := resolveRegister(is.Dst, fn.DyvarbCount)
		if err != nil {
			return nil, err
		}
		srcRef, err := resolveRegister(is.Src, fn.DyvarbCount)
		if err != nil {
			return nil, err
		}
		return func(env runtime.Environment) (runtime.Action, error) {
			dst, err := runtime.GetDst(dstRef, env)
			if err != nil {
				return runtime.Action{}, err
			}
			src, err := runtime.GetSrc(srcRef, env)
			if err != nil {
				return runtime.Action{}, err
			}
			if err := runtime.MoveRegister(env, dst, src); err != nil {
				return runtime.Action{}, err
			}
			return runtime.ActionAdvance, nil
		}, nil

	case instruct.OpLoadImmediate:
		dstRef, err := resolveRegister(is.Dst, fn.DyvarbCount)
		if err != nil {
			return nil, err
		}
		dstType, ok := types.Find(is.Type)
		if !ok {
			return nil, errs.ErrUndefinedType
		}
		literal := encodeImmediate(is.Immediate)
		return func(env runtime.Environment) (runtime.Action, error) {
			dst, err := runtime.GetDst(dstRef, env)
			if err != nil {
				return runtime.Action{}, err
			}
			if dstType == typeinfo.Pointer {
				if err := runtime.LoadDataPointer(dst, literal); err != nil {
					return runtime.Action{}, err
				}
			} else if err := runtime.LoadData(dst, literal, dstType, env.Types()); err != nil {
				return runtime.Action{}, err
			}
			return runtime.ActionAdvance, nil
		}, nil

	case instruct.OpLoadData:
		dstRef, err := resolveRegister(is.Dst, fn.DyvarbCount)
		if err != nil {
			return nil, err
		}
		dstType, ok := types.Find(is.Type)
		if !ok {
			return nil, errs.ErrUndefinedType
		}
		blob, ok := pool.Get(data.Index(is.DataIndex))
		if !ok {
			return nil, errs.ErrUnrecognizedDataIndex
		}
		return func(env runtime.Environment) (runtime.Action, error) {
			dst, err := runtime.GetDst(dstRef, env)
			if err != nil {
				return runtime.Action{}, err
			}
			if dstType == typeinfo.Pointer {
				if err := runtime.LoadDataPointer(dst, blob); err != nil {
					return runtime.Action{}, err
				}
			} else if err := runtime.LoadData(dst, blob, dstType, env.Types()); err != nil {
				return runtime.Action{}, err
			}
			return runtime.ActionAdvance, nil
		}, nil

	case instruct.OpRet:
		return func(env runtime.Environment) (runtime.Action, error) {
			return runtime.ActionReturn, nil
		}, nil

	case instruct.OpDebugOutputRegister:
		return func(env runtime.Environment) (runtime.Action, error) {
			rf, err := env.Registers(runtime.QualCurrent)
			if err != nil {
				return runtime.Action{}, err
			}
			if err := runtime.DebugPrintRegisters(debugWriter, rf); err != nil {
				return runtime.Action{}, err
			}
			return runtime.ActionAdvance, nil
		}, nil

	default:
		return nil, errs.ErrUnrecognizedInstruction
	}
}

// encodeImmediate renders an immediate literal as a full machine-word
// little-endian buffer; LoadData copies the destination-type-sized prefix
// of it (§4.4, §8 scenario 2).
func encodeImmediate(v uint64) []byte {
	out := make([]byte, typeinfo.WordSize)
	for i := range out {
		out[i] = byte(v >> (8 * i))
	}
	return out
}
