package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmyjona/cvm/instruct"
)

func TestCompile_UndefinedTypeAborts(t *testing.T) {
	assert := assert.New(t)

	prog := &instruct.Program{
		Entry: "main",
		Funcs: []instruct.Function{
			{
				Name:        "main",
				DyvarbCount: 1,
				Instructions: []instruct.Instruction{
					{Op: instruct.OpLoadImmediate, Dst: instruct.Register{Class: instruct.ClassN, Index: 1}, Immediate: 1, Type: "nope"},
				},
			},
		},
	}

	_, err := Compile(prog)
	assert.Error(err)
}

func TestCompile_UndefinedEntryAborts(t *testing.T) {
	assert := assert.New(t)

	prog := &instruct.Program{
		Entry: "missing",
		Funcs: []instruct.Function{{Name: "main"}},
	}

	_, err := Compile(prog)
	assert.Error(err)
}

func TestCompile_RegisterLayout(t *testing.T) {
	assert := assert.New(t)

	prog := &instruct.Program{
		Entry: "main",
		Types: []instruct.TypeDecl{{Name: "u32", Size: 4}},
		Funcs: []instruct.Function{
			{
				Name:        "main",
				DyvarbCount: 1,
				StaticTypes: []string{"u32"},
				Instructions: []instruct.Instruction{
					{Op: instruct.OpRet},
				},
			},
		},
	}

	mod, err := Compile(prog)
	assert.NoError(err)
	assert.Equal(1, mod.Funcs["main"].DyvarbCount)
	assert.Len(mod.Funcs["main"].StaticTypes, 1)
}
