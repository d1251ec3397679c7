// Package parse is the textual parser (§6): it turns a source program into
// an instruct.Program (Instruction Structure), reporting every malformed
// line it finds and continuing so later errors in the same file also
// surface (§7 policy).
package parse

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmyjona/cvm/errs"
	"github.com/mmyjona/cvm/instruct"
)

type section int

const (
	secNone section = iota
	secProgram
	secImports
	secExports
	secDatas
	secModule
	secFunc
	secType
)

// Parser holds parse state across lines: the current section, the
// in-progress .func/.type block, and the name/index tables used to detect
// duplicates (§7 DuplicateType/DuplicateFunction/DuplicateDataIndex).
type Parser struct {
	prog instruct.Program

	section  section
	currFunc *instruct.Function
	currType *instruct.TypeDecl

	funcNames map[string]bool
	typeNames map[string]bool
	dataIdx   map[uint64]bool

	errs []error
}

// exprRe matches a $(...)-wrapped compile-time expression; it does not
// support nested parentheses, matching cpu/assembler.go's parenEval regex.
var exprRe = regexp.MustCompile(`\$\([^()]*\)`)

// Parse reads a complete source program and returns its Instruction
// Structure. If any line fails to parse, Parse still processes the rest of
// the file and returns a joined error covering every failure found.
func Parse(r io.Reader) (*instruct.Program, error) {
	p := &Parser{
		funcNames: make(map[string]bool),
		typeNames: make(map[string]bool),
		dataIdx:   make(map[uint64]bool),
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		p.parseLine(scanner.Text(), lineno)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.closeSection()

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return &p.prog, nil
}

func (p *Parser) fail(err error) {
	p.errs = append(p.errs, err)
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

func (p *Parser) preprocessExpr(line string, lineno int) string {
	return exprRe.ReplaceAllStringFunc(line, func(m string) string {
		inner := m[2 : len(m)-1]
		v, err := evalExpr(inner, lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: m, Err: err})
			return "0"
		}
		return strconv.FormatUint(v, 10)
	})
}

// parseLine dispatches one source line by its column-0 character: a
// leading '.' is a section header, leading whitespace is a directive or
// instruction inside the current section, and anything else is malformed
// (§6).
func (p *Parser) parseLine(line string, lineno int) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	if strings.TrimSpace(line) == "" {
		return
	}

	line = p.preprocessExpr(line, lineno)

	switch {
	case line[0] == '.':
		p.handleSectionHeader(splitTokens(line), lineno)
	case line[0] == ' ' || line[0] == '\t':
		tokens := splitTokens(line)
		if len(tokens) == 0 {
			return
		}
		p.handleInsideSection(tokens, lineno)
	default:
		p.fail(errs.LineError{Line: lineno})
	}
}

func (p *Parser) closeSection() {
	if p.currFunc != nil {
		p.prog.Funcs = append(p.prog.Funcs, *p.currFunc)
		p.currFunc = nil
	}
	if p.currType != nil {
		p.prog.Types = append(p.prog.Types, *p.currType)
		p.currType = nil
	}
}

func (p *Parser) handleSectionHeader(tokens []string, lineno int) {
	p.closeSection()

	name := strings.TrimPrefix(tokens[0], ".")
	switch name {
	case "program":
		p.section = secProgram
	case "imports":
		p.section = secImports
	case "exports":
		p.section = secExports
	case "datas":
		p.section = secDatas
	case "module":
		p.section = secModule
	case "func":
		p.section = secNone
		if len(tokens) != 2 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		fname, err := parseIdentifier(tokens[1])
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		if p.funcNames[fname] {
			p.fail(errs.ParseError{Line: lineno, Token: fname, Err: errs.ErrDuplicateFunction})
			return
		}
		p.funcNames[fname] = true
		p.currFunc = &instruct.Function{Name: fname}
		p.section = secFunc
	case "type":
		p.section = secNone
		if len(tokens) != 2 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		tname, err := parseIdentifier(tokens[1])
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		if p.typeNames[tname] {
			p.fail(errs.ParseError{Line: lineno, Token: tname, Err: errs.ErrDuplicateType})
			return
		}
		p.typeNames[tname] = true
		p.currType = &instruct.TypeDecl{Name: tname}
		p.section = secType
	default:
		p.section = secNone
		p.fail(errs.ParseError{Line: lineno, Token: tokens[0], Err: errs.ErrUnrecognizedCommand})
	}
}

func (p *Parser) handleInsideSection(tokens []string, lineno int) {
	switch p.section {
	case secFunc:
		p.handleFuncLine(tokens, lineno)
	case secType:
		p.handleTypeLine(tokens, lineno)
	case secProgram:
		p.handleProgramLine(tokens, lineno)
	case secDatas:
		p.handleDatasLine(tokens, lineno)
	case secImports, secExports, secModule:
		// Reserved, semantically empty sections (§6, §9).
	default:
		p.fail(errs.LineError{Line: lineno})
	}
}

func (p *Parser) handleProgramLine(tokens []string, lineno int) {
	if tokens[0] != "entry" || len(tokens) != 2 {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[0], Err: errs.ErrUnrecognizedCommand})
		return
	}
	id, err := parseIdentifier(tokens[1])
	if err != nil {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
		return
	}
	p.prog.Entry = id
}

func (p *Parser) handleTypeLine(tokens []string, lineno int) {
	if tokens[0] != "size" || len(tokens) != 2 {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[0], Err: errs.ErrUnrecognizedCommand})
		return
	}
	n, err := parseNumber(tokens[1], lineno)
	if err != nil {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
		return
	}
	p.currType.Size = n
}

func (p *Parser) handleFuncLine(tokens []string, lineno int) {
	switch tokens[0] {
	case "arg", "data":
		// Reserved, no-op directives (§6, §9 Open Questions).
	case "dyvarb":
		if len(tokens) != 2 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		n, err := parseNumber(tokens[1], lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		p.currFunc.DyvarbCount = int(n)
	case "stvarb":
		if len(tokens) != 3 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		count, err := parseNumber(tokens[1], lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		typeName, err := parseIdentifier(tokens[2])
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[2], Err: err})
			return
		}
		for i := uint64(0); i < count; i++ {
			p.currFunc.StaticTypes = append(p.currFunc.StaticTypes, typeName)
		}
	case "mov":
		if len(tokens) != 3 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		dst, err := parseRegister(tokens[1], lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		src, err := parseRegister(tokens[2], lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[2], Err: err})
			return
		}
		p.currFunc.Instructions = append(p.currFunc.Instructions, instruct.Instruction{
			Op: instruct.OpMov, Dst: dst, Src: src, Line: lineno,
		})
	case "load":
		if len(tokens) != 4 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		dst, err := parseRegister(tokens[1], lineno)
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
			return
		}
		typeName, err := parseIdentifier(tokens[3])
		if err != nil {
			p.fail(errs.ParseError{Line: lineno, Token: tokens[3], Err: err})
			return
		}
		operand := tokens[2]
		if strings.HasPrefix(operand, "#") {
			idx, err := parseDataIndex(operand)
			if err != nil {
				p.fail(errs.ParseError{Line: lineno, Token: operand, Err: err})
				return
			}
			p.currFunc.Instructions = append(p.currFunc.Instructions, instruct.Instruction{
				Op: instruct.OpLoadData, Dst: dst, DataIndex: idx, Type: typeName, Line: lineno,
			})
		} else {
			imm, err := parseNumber(operand, lineno)
			if err != nil {
				p.fail(errs.ParseError{Line: lineno, Token: operand, Err: err})
				return
			}
			p.currFunc.Instructions = append(p.currFunc.Instructions, instruct.Instruction{
				Op: instruct.OpLoadImmediate, Dst: dst, Immediate: imm, Type: typeName, Line: lineno,
			})
		}
	case "ret":
		if len(tokens) != 1 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		p.currFunc.Instructions = append(p.currFunc.Instructions, instruct.Instruction{
			Op: instruct.OpRet, Line: lineno,
		})
	case "db_opreg":
		if len(tokens) != 1 {
			p.fail(errs.ParseError{Line: lineno, Err: errs.ErrUnrecognizedCommand})
			return
		}
		p.currFunc.Instructions = append(p.currFunc.Instructions, instruct.Instruction{
			Op: instruct.OpDebugOutputRegister, Line: lineno,
		})
	default:
		p.fail(errs.ParseError{Line: lineno, Token: tokens[0], Err: errs.ErrUnrecognizedInstruction})
	}
}

func (p *Parser) handleDatasLine(tokens []string, lineno int) {
	if tokens[0] != "data" || len(tokens) != 4 {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[0], Err: errs.ErrUnrecognizedCommand})
		return
	}

	idx, err := parseDataIndex(tokens[1])
	if err != nil {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: err})
		return
	}
	capacity, err := parseNumber(tokens[3], lineno)
	if err != nil {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[3], Err: err})
		return
	}
	blob, err := parseHexBytes(tokens[2], capacity)
	if err != nil {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[2], Err: err})
		return
	}
	if p.dataIdx[idx] {
		p.fail(errs.ParseError{Line: lineno, Token: tokens[1], Err: errs.ErrDuplicateDataIndex})
		return
	}
	p.dataIdx[idx] = true
	p.prog.Datas = append(p.prog.Datas, instruct.DataDecl{Index: idx, Bytes: blob, Capacity: capacity})
}

// parseDataIndex decodes a "#<n>" data-pool reference (§6).
func parseDataIndex(tok string) (uint64, error) {
	if !strings.HasPrefix(tok, "#") {
		return 0, errs.ErrUnrecognizedDataIndex
	}
	v, err := strconv.ParseUint(tok[1:], 10, 64)
	if err != nil {
		return 0, errs.ErrUnrecognizedDataIndex
	}
	return v, nil
}
