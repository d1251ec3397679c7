package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmyjona/cvm/typeinfo"
)

func TestEnvironment_ParentQualifierReachesGlobal(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 1}
	local := NewLocalEnvironment(fn, global, types)

	_, err := local.Registers(QualParent)
	assert.NoError(err)

	_, err = global.Registers(QualParent)
	assert.Error(err)
}

func TestEnvironment_TempQualifierRequiresLink(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{DyvarbCount: 1}
	local := NewLocalEnvironment(fn, global, types)

	_, err := local.Registers(QualTemp)
	assert.Error(err)

	sibling := NewLocalEnvironment(&Function{DyvarbCount: 1}, global, types)
	local.setTemp(sibling)

	_, err = local.Registers(QualTemp)
	assert.NoError(err)
}

func TestLocalEnvironment_ResIsPerEnvironmentSingleton(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	local := NewLocalEnvironment(&Function{}, global, types)

	res, err := local.Res()
	assert.NoError(err)
	res.Type = typeinfo.Pointer

	again, _ := local.Res()
	assert.Equal(typeinfo.Pointer, again.Type)

	_, err = global.Res()
	assert.Error(err)
}

func TestControlFlow_RetTerminates(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{
		Instructions: []Instruction{
			func(env Environment) (Action, error) { return ActionAdvance, nil },
			func(env Environment) (Action, error) { return ActionReturn, nil },
			func(env Environment) (Action, error) { return Action{}, nil }, // never taken
		},
	}
	local := NewLocalEnvironment(fn, global, types)
	cf := local.ControlFlow()

	done, err := cf.Step(local)
	assert.NoError(err)
	assert.False(done)
	assert.Equal(1, cf.PC)

	done, err = cf.Step(local)
	assert.NoError(err)
	assert.True(done)
}

func TestControlFlow_RunsOffEndAsReturn(t *testing.T) {
	assert := assert.New(t)

	types := newTestRegistry()
	global := NewGlobalEnvironment(types, nil)
	fn := &Function{}
	local := NewLocalEnvironment(fn, global, types)

	done, err := local.ControlFlow().Step(local)
	assert.NoError(err)
	assert.True(done)
}
