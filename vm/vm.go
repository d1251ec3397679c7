// Package vm drives a compiled Module to completion: it builds the Global
// Environment, activates the entry function, and steps its control flow
// until Return (§2, §4.5).
package vm

import (
	"github.com/mmyjona/cvm/compiler"
	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/runtime"
)

// Run executes mod's entry function to completion.
func Run(mod *compiler.Module) error {
	fn, ok := mod.Funcs[mod.Entry]
	if !ok {
		return errs.RuntimeError{Err: errs.ErrUndefinedFunction}
	}

	global := runtime.NewGlobalEnvironment(mod.Types, mod.Data)
	local := runtime.NewLocalEnvironment(fn, global, mod.Types)
	return RunLocal(local)
}

// RunLocal steps local's control flow until it terminates by ret or by
// running off the end of its function (§4.5).
func RunLocal(local *runtime.LocalEnvironment) error {
	cf := local.ControlFlow()
	for {
		done, err := cf.Step(local)
		if err != nil {
			return errs.RuntimeError{PC: cf.PC, Err: err}
		}
		if done {
			return nil
		}
	}
}
