package parse

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mmyjona/cvm/errs"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// parseNumber decodes one numeric token: base-10 by default, base-16 when
// prefixed 0x (§6). By the time a token reaches here any $(...) compile-time
// expression in the line has already been substituted by the line-level
// preprocessing pass (see preprocessExpr), so no expression syntax is
// handled at this layer.
func parseNumber(tok string, lineno int) (uint64, error) {
	base := 10
	s := tok
	if strings.HasPrefix(tok, "0x") {
		base = 16
		s = tok[2:]
	}

	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, errs.ErrNumberTooLarge
		}
		return 0, errs.ErrUnrecognizedNumber
	}
	return v, nil
}

// evalExpr evaluates a $(...)-wrapped compile-time expression via an
// embedded Starlark interpreter, grounded on cpu/assembler.go's parenEval.
func evalExpr(expr string, lineno int) (uint64, error) {
	thread := &starlark.Thread{Name: "expr"}
	predeclared := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, "expr", "rc = "+expr+"\n", predeclared)
	if err != nil {
		return 0, errs.ErrUnrecognizedExpression
	}

	rc, ok := globals["rc"]
	if !ok {
		return 0, errs.ErrUnrecognizedExpression
	}
	iv, ok := rc.(starlark.Int)
	if !ok {
		return 0, errs.ErrUnrecognizedExpression
	}
	i64, ok := iv.Int64()
	if !ok {
		return 0, errs.ErrUnrecognizedExpression
	}
	return uint64(i64), nil
}

// parseHexBytes decodes a 0x-prefixed hex literal naming an integer value
// into its little-endian byte representation, zero-padded out to
// capacity. Used by .datas `data #<idx> 0x<hex> <capacity>` (§6): the hex
// text is the number's usual big-endian-written form, and the stored blob
// is that value's native (little-endian) byte layout, which is what
// db_opreg's hex dump later reproduces (see SPEC_FULL.md §8 scenario 3).
func parseHexBytes(tok string, capacity uint64) ([]byte, error) {
	if !strings.HasPrefix(tok, "0x") {
		return nil, errs.ErrUnrecognizedNumber
	}
	hexDigits := tok[2:]
	if len(hexDigits)%2 != 0 {
		hexDigits = "0" + hexDigits
	}
	nBytes := uint64(len(hexDigits) / 2)
	if nBytes > capacity {
		return nil, errs.ErrNumberTooLarge
	}

	out := make([]byte, capacity)
	for i := uint64(0); i < nBytes; i++ {
		pair := hexDigits[len(hexDigits)-2*int(i+1) : len(hexDigits)-2*int(i)]
		b, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return nil, errs.ErrUnrecognizedNumber
		}
		out[i] = byte(b)
	}
	return out, nil
}
