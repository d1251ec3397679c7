package runtime

import (
	"github.com/mmyjona/cvm/data"
	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/typeinfo"
)

// EnvQual selects which register file a register reference targets
// relative to the environment executing it (§3, §4.2).
type EnvQual int

const (
	QualCurrent EnvQual = iota
	QualParent
	QualTemp
)

// Environment is a node in the environment tree: it owns a register file
// and links to a parent and an optional temp sibling (§3, §9 "Environment
// tree cycles"). Parents own children; penv/tenv are non-owning.
type Environment interface {
	// Registers returns the register file reached by qual, relative to
	// this environment.
	Registers(qual EnvQual) (*RegisterFile, error)
	// Types returns the shared, immutable type registry.
	Types() *typeinfo.Registry
	// Data returns the shared, immutable literal data pool.
	Data() *data.Pool
	// Parent returns the penv link, or nil at the tree root.
	Parent() Environment
	// Temp returns the tenv link, or nil if unset.
	Temp() Environment
	// IsLocal reports whether this environment carries a Function/pc
	// activation.
	IsLocal() bool
	// Res returns the singleton %res dynamic register. Only meaningful on
	// Local environments; Global and Thread return ErrMalformedInstruction.
	Res() (*Dynamic, error)

	setTemp(Environment)
	addChild(Environment)
}

type base struct {
	penv     Environment
	tenv     Environment
	children []Environment
	regs     RegisterFile
}

func (b *base) Registers(qual EnvQual) (*RegisterFile, error) {
	switch qual {
	case QualCurrent:
		return &b.regs, nil
	case QualParent:
		if b.penv == nil {
			return nil, errs.ErrMalformedInstruction
		}
		return b.penv.Registers(QualCurrent)
	case QualTemp:
		if b.tenv == nil {
			return nil, errs.ErrMalformedInstruction
		}
		return b.tenv.Registers(QualCurrent)
	default:
		return nil, errs.ErrMalformedInstruction
	}
}

func (b *base) Parent() Environment { return b.penv }
func (b *base) Temp() Environment   { return b.tenv }

func (b *base) setTemp(e Environment) { b.tenv = e }

func (b *base) addChild(child Environment) {
	b.children = append(b.children, child)
}

// GlobalEnvironment roots the environment tree and owns the shared type
// registry and literal data pool (§3).
type GlobalEnvironment struct {
	base
	types *typeinfo.Registry
	pool  *data.Pool
}

// NewGlobalEnvironment constructs the root environment, seeded with the
// program's frozen type registry and data pool.
func NewGlobalEnvironment(types *typeinfo.Registry, pool *data.Pool) *GlobalEnvironment {
	return &GlobalEnvironment{types: types, pool: pool}
}

func (g *GlobalEnvironment) Types() *typeinfo.Registry { return g.types }
func (g *GlobalEnvironment) Data() *data.Pool           { return g.pool }
func (g *GlobalEnvironment) IsLocal() bool              { return false }
func (g *GlobalEnvironment) Res() (*Dynamic, error) {
	return nil, errs.ErrMalformedInstruction
}

// ThreadEnvironment is a reserved variant, not exercised by the current
// opcode set (§3).
type ThreadEnvironment struct {
	base
	parent Environment
}

// NewThreadEnvironment attaches a new thread environment under parent.
func NewThreadEnvironment(parent Environment) *ThreadEnvironment {
	t := &ThreadEnvironment{}
	t.penv = parent
	parent.addChild(t)
	return t
}

func (t *ThreadEnvironment) Types() *typeinfo.Registry { return t.penv.Types() }
func (t *ThreadEnvironment) Data() *data.Pool           { return t.penv.Data() }
func (t *ThreadEnvironment) IsLocal() bool              { return false }
func (t *ThreadEnvironment) Res() (*Dynamic, error) {
	return nil, errs.ErrMalformedInstruction
}

// LocalEnvironment represents one function activation: a register file
// sized from the compiled Function, plus the ControlFlow cursor stepping
// through it (§3, §4.5).
type LocalEnvironment struct {
	base
	fn  *Function
	cf  *ControlFlow
	res Dynamic
}

// NewLocalEnvironment creates the activation record for fn, attached as a
// sub-environment of parent, per include/compile.h's
// CreateLoaclEnvironment signature.
func NewLocalEnvironment(fn *Function, parent Environment, types *typeinfo.Registry) *LocalEnvironment {
	l := &LocalEnvironment{fn: fn}
	l.regs = *NewRegisterFile(fn.DyvarbCount, fn.StaticTypes, types)
	l.penv = parent
	l.cf = &ControlFlow{Function: fn}
	if parent != nil {
		parent.addChild(l)
	}
	return l
}

func (l *LocalEnvironment) Types() *typeinfo.Registry { return l.penv.Types() }
func (l *LocalEnvironment) Data() *data.Pool           { return l.penv.Data() }
func (l *LocalEnvironment) IsLocal() bool              { return true }
func (l *LocalEnvironment) Res() (*Dynamic, error)     { return &l.res, nil }

// ControlFlow returns the cursor driving this activation.
func (l *LocalEnvironment) ControlFlow() *ControlFlow { return l.cf }

// Function returns the compiled function this environment activates.
func (l *LocalEnvironment) Function() *Function { return l.fn }
