package parse

import (
	"regexp"
	"strconv"

	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/instruct"
)

// qualified matches the indexed register forms, with an optional class
// letter and an optional explicit env qualifier suffix:
// %N, %N(%env), %gN(%penv), %tN, ...
var qualified = regexp.MustCompile(`^%([ngt]?)(\d+)(?:\(%(env|penv|tenv)\))?$`)

// parseRegister decodes one register operand (§3). Register numerals are
// 1-based: %1 is the first dyvarb/stvarb slot. %0, with or without a
// qualifier suffix, always names the distinct zero register — see
// DESIGN.md Open Question decisions.
func parseRegister(tok string, lineno int) (instruct.Register, error) {
	if tok == "%res" {
		return instruct.Register{Special: instruct.SpecialRes, Line: lineno}, nil
	}
	m := qualified.FindStringSubmatch(tok)
	if m == nil {
		return instruct.Register{}, errs.ErrUnrecognizedRegister
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		return instruct.Register{}, errs.ErrUnrecognizedRegister
	}

	// %0 is always the distinct zero register (never an indexed
	// dyvarb/stvarb), regardless of any qualifier suffix: register
	// numerals are 1-based (see DESIGN.md Open Question decisions), so 0
	// is never a valid index.
	if index == 0 {
		return instruct.Register{Special: instruct.SpecialZero, Line: lineno}, nil
	}

	class := instruct.ClassN
	switch m[1] {
	case "g":
		class = instruct.ClassG
	case "t":
		class = instruct.ClassT
	}

	qual := instruct.EnvCurrent
	switch m[3] {
	case "penv":
		qual = instruct.EnvParent
	case "tenv":
		qual = instruct.EnvTemp
	case "", "env":
		qual = instruct.EnvCurrent
	default:
		return instruct.Register{}, errs.ErrUnrecognizedEnvironment
	}

	return instruct.Register{
		Class: class,
		Index: index,
		Qual:  qual,
		Line:  lineno,
	}, nil
}
