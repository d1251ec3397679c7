package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmyjona/cvm/typeinfo"
)

func newTestRegistry() *typeinfo.Registry {
	r := typeinfo.NewRegistry()
	r.Insert("u32", typeinfo.Info{Size: 4})
	return r
}

func TestMoveRegister_DynamicToDynamicAliases(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 2}
	local := NewLocalEnvironment(fn, global, types)

	u32, _ := types.Find("u32")
	local.regs.Dynamic[0] = Dynamic{Data: Data{0x44, 0x33, 0x22, 0x11}, Type: u32}

	src, err := GetSrc(Ref{Kind: KindDynamic, Index: 0}, local)
	assert.NoError(err)
	dst, err := GetDst(Ref{Kind: KindDynamic, Index: 1}, local)
	assert.NoError(err)
	assert.NoError(MoveRegister(local, dst, src))

	assert.Equal(u32, local.regs.Dynamic[1].Type)
	assert.Equal(Data{0x44, 0x33, 0x22, 0x11}, local.regs.Dynamic[1].Data)

	// Reference semantics: mutating the source's buffer is visible through
	// the destination, since mov reassigns the pointer rather than
	// copying bytes.
	local.regs.Dynamic[0].Data[0] = 0xFF
	assert.Equal(byte(0xFF), local.regs.Dynamic[1].Data[0])
}

func TestMoveRegister_DynamicToStaticCopiesBytes(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	u32, _ := types.Find("u32")
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 1, StaticTypes: []typeinfo.Index{u32}}
	local := NewLocalEnvironment(fn, global, types)

	local.regs.Dynamic[0] = Dynamic{Data: Data{0x11, 0x22, 0x33, 0x44}, Type: u32}

	src, _ := GetSrc(Ref{Kind: KindDynamic, Index: 0}, local)
	dst, _ := GetDst(Ref{Kind: KindStatic, Index: 0}, local)
	assert.NoError(MoveRegister(local, dst, src))

	assert.Equal(Data{0x11, 0x22, 0x33, 0x44}, local.regs.Static[0].Data)
	assert.Equal(u32, local.regs.Static[0].Type)

	// Byte copy, not alias: mutating the source afterwards must not
	// change the destination.
	local.regs.Dynamic[0].Data[0] = 0xFF
	assert.Equal(byte(0x11), local.regs.Static[0].Data[0])
}

func TestLoadData_DynamicAllocatesAndZeroPads(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	u32, _ := types.Find("u32")
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 1}
	local := NewLocalEnvironment(fn, global, types)

	dst, _ := GetDst(Ref{Kind: KindDynamic, Index: 0}, local)
	assert.NoError(LoadData(dst, []byte{0x2A}, u32, types))

	assert.Equal(u32, local.regs.Dynamic[0].Type)
	assert.Equal(Data{0x2A, 0x00, 0x00, 0x00}, local.regs.Dynamic[0].Data)
}

func TestLoadData_StaticPreservesType(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	u32, _ := types.Find("u32")
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{StaticTypes: []typeinfo.Index{u32}}
	local := NewLocalEnvironment(fn, global, types)
	local.regs.Static[0].Data = Data{0xFF, 0xFF, 0xFF, 0xFF}

	dst, _ := GetDst(Ref{Kind: KindStatic, Index: 0}, local)
	assert.NoError(LoadData(dst, []byte{0xEF, 0xBE}, u32, types))

	assert.Equal(u32, local.regs.Static[0].Type)
	assert.Equal(Data{0xEF, 0xBE, 0x00, 0x00}, local.regs.Static[0].Data)
}

func TestNullRegister_DiscardsWrite(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	u32, _ := types.Find("u32")
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 1}
	local := NewLocalEnvironment(fn, global, types)

	dst, err := GetDst(Ref{Kind: KindNull}, local)
	assert.NoError(err)
	assert.NoError(LoadData(dst, []byte{0x2A}, u32, types))

	src, err := GetSrc(Ref{Kind: KindNull}, local)
	assert.NoError(err)
	assert.Nil(src.Data)
	assert.Equal(typeinfo.Invalid, src.Type)

	// dyvarb 0 is unaffected: %0's write went to the zero register, not
	// to the indexed slot.
	assert.Nil(local.regs.Dynamic[0].Data)
}

func TestDebugPrintRegisters(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	u32, _ := types.Find("u32")
	rf := &RegisterFile{Dynamic: []Dynamic{
		{Data: Data{0x2A, 0x00, 0x00, 0x00}, Type: u32},
	}}

	var buf bytes.Buffer
	assert.NoError(DebugPrintRegisters(&buf, rf))
	assert.Equal("[data: 2A000000]\n", buf.String())
}
