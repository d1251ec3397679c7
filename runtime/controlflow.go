package runtime

import "github.com/mmyjona/cvm/typeinfo"

// ActionKind tags the control action a compiled Instruction yields (§3,
// §4.5).
type ActionKind int

const (
	Advance ActionKind = iota
	Jump
	Return
)

// Action is the result of executing one compiled instruction.
type Action struct {
	Kind   ActionKind
	Target int // only meaningful when Kind == Jump
}

// ActionAdvance is the action emitted by every opcode of the current set
// except ret.
var ActionAdvance = Action{Kind: Advance}

// ActionReturn is the action emitted by ret.
var ActionReturn = Action{Kind: Return}

// ActionJump builds a Jump(n) action. Reserved: no current opcode emits
// one.
func ActionJump(n int) Action {
	return Action{Kind: Jump, Target: n}
}

// Instruction is the runtime-compiled form of one IS instruction: a
// closure over its resolved operands that performs the effect against an
// Environment (§3).
type Instruction func(env Environment) (Action, error)

// Function is the compiled form of an IS function: a fixed register
// layout plus its compiled instruction sequence (§4.4).
type Function struct {
	Name         string
	DyvarbCount  int
	StaticTypes  []typeinfo.Index
	Instructions []Instruction
}

// ControlFlow drives the program counter through one Function activation
// (§4.5).
type ControlFlow struct {
	Function *Function
	PC       int
}

// Step executes the instruction at the current PC against env and applies
// its Action. It reports whether the activation has terminated (by ret or
// by running off the end).
func (cf *ControlFlow) Step(env Environment) (done bool, err error) {
	if cf.PC >= len(cf.Function.Instructions) {
		return true, nil
	}
	action, err := cf.Function.Instructions[cf.PC](env)
	if err != nil {
		return true, err
	}
	switch action.Kind {
	case Return:
		return true, nil
	case Jump:
		cf.PC = action.Target
	default:
		cf.PC++
	}
	return false, nil
}
