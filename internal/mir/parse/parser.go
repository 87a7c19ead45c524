// Package parse reads the textual MIR form produced by mir.FormatBody.
// The format is line oriented: a header, slot declarations, then basic
// blocks with one statement per line.
package parse

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mikhail-m1/rust/internal/mir"
	"github.com/mikhail-m1/rust/internal/source"
)

// ErrSyntax is the sentinel wrapped by every parse failure.
var ErrSyntax = errors.New("mir syntax error")

// Error is a parse failure at a known source position.
type Error struct {
	Pos source.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Is makes errors.Is(err, ErrSyntax) hold for every parse failure.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// File parses one function body from a .mir file.
func File(path string) (*mir.Body, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Body(string(content))
}

// Body parses one function body from text.
func Body(input string) (*mir.Body, error) {
	p := &parser{body: &mir.Body{}}

	lines := strings.Split(input, "\n")
	for i, raw := range lines {
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := p.parseLine(i+1, line); err != nil {
			return nil, err
		}
	}

	if !p.sawHeader {
		return nil, &Error{Pos: source.Position{Line: 1, Column: 1}, Msg: "missing fn header"}
	}
	if !p.closed {
		return nil, &Error{Pos: source.Position{Line: len(lines), Column: 1}, Msg: "missing closing brace"}
	}
	if len(p.body.Locals) == 0 {
		return nil, &Error{Pos: source.Position{Line: 1, Column: 1}, Msg: "body declares no locals; the return slot _0 is required"}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.body, nil
}

type parser struct {
	body      *mir.Body
	current   *mir.Block
	sawHeader bool
	closed    bool
	lastLine  int
}

func (p *parser) parseLine(line int, text string) error {
	p.lastLine = line
	c := &cursor{s: text, line: line}

	switch {
	case !p.sawHeader:
		return p.parseHeader(c)
	case p.closed:
		return c.errf("content after closing brace")
	case c.accept("let "):
		return p.parseLet(c)
	case c.accept("debug "):
		return p.parseDebug(c)
	case isBlockLabel(text):
		c.accept("bb")
		return p.parseBlockHeader(c)
	case text == "}":
		if p.current != nil {
			// Closes the open block.
			if p.current.Term == nil {
				return c.errf("bb%d has no terminator", p.current.ID)
			}
			p.current = nil
			return nil
		}
		p.closed = true
		return nil
	default:
		return p.parseStmt(c)
	}
}

func (p *parser) parseHeader(c *cursor) error {
	if !c.accept("fn ") {
		return c.errf("expected fn header")
	}
	name := c.ident()
	if name == "" {
		return c.errf("expected function name")
	}
	c.skipSpaces()
	if !c.accept("{") || !c.atEnd() {
		return c.errf("expected `{` after function name")
	}
	p.body.Name = name
	p.sawHeader = true
	return nil
}

func (p *parser) parseLet(c *cursor) error {
	local, err := c.local()
	if err != nil {
		return err
	}
	if int(local) != len(p.body.Locals) {
		return c.errf("local declarations must be dense: expected _%d, found _%d", len(p.body.Locals), local)
	}
	if !c.accept(":") {
		return c.errf("expected `:` after local")
	}
	c.skipSpaces()
	typ := strings.TrimSuffix(c.rest(), ";")
	p.body.Locals = append(p.body.Locals, mir.LocalDecl{Type: strings.TrimSpace(typ)})
	return nil
}

func (p *parser) parseDebug(c *cursor) error {
	name := c.ident()
	if name == "" {
		return c.errf("expected variable name after debug")
	}
	c.skipSpaces()
	if !c.accept("=>") {
		return c.errf("expected `=>` in debug line")
	}
	c.skipSpaces()
	local, err := c.local()
	if err != nil {
		return err
	}
	if !p.body.IsDeclared(local) {
		return c.errf("debug line names undeclared local _%d", local)
	}
	p.body.Locals[local].Name = name
	return c.expectEnd()
}

func (p *parser) parseBlockHeader(c *cursor) error {
	if p.current != nil {
		return c.errf("bb%d is not closed", p.current.ID)
	}
	id, err := c.number()
	if err != nil {
		return err
	}
	if id != len(p.body.Blocks) {
		return c.errf("blocks must be dense: expected bb%d, found bb%d", len(p.body.Blocks), id)
	}
	if !c.accept(":") {
		return c.errf("expected `:` after block label")
	}
	c.skipSpaces()
	if !c.accept("{") || !c.atEnd() {
		return c.errf("expected `{` after block label")
	}
	p.current = &mir.Block{ID: mir.BlockID(id)}
	p.body.Blocks = append(p.body.Blocks, p.current)
	return nil
}

func (p *parser) parseStmt(c *cursor) error {
	if p.current == nil {
		return c.errf("statement outside a block")
	}
	if p.current.Term != nil {
		return c.errf("statement after terminator in bb%d", p.current.ID)
	}

	switch {
	case c.accept("storage_live "):
		local, err := c.local()
		if err != nil {
			return err
		}
		p.current.Stmts = append(p.current.Stmts, &mir.StorageLive{Local: local})
		return c.expectEnd()
	case c.accept("storage_dead "):
		local, err := c.local()
		if err != nil {
			return err
		}
		p.current.Stmts = append(p.current.Stmts, &mir.StorageDead{Local: local})
		return c.expectEnd()
	case c.acceptWord("nop"):
		p.current.Stmts = append(p.current.Stmts, &mir.Nop{})
		return c.expectEnd()
	case c.acceptWord("goto"):
		c.skipSpaces()
		if !c.accept("->") {
			return c.errf("expected `->` after goto")
		}
		c.skipSpaces()
		target, err := c.blockID()
		if err != nil {
			return err
		}
		p.current.Term = &mir.Goto{Target: target}
		return c.expectEnd()
	case c.acceptWord("return"):
		p.current.Term = &mir.Return{}
		return c.expectEnd()
	case c.acceptWord("unreachable"):
		p.current.Term = &mir.Unreachable{}
		return c.expectEnd()
	case c.acceptWord("switchInt"):
		return p.parseSwitch(c)
	case c.accept("call "):
		return p.parseCall(c)
	default:
		return p.parseAssign(c)
	}
}

func (p *parser) parseSwitch(c *cursor) error {
	if !c.accept("(") {
		return c.errf("expected `(` after switchInt")
	}
	cond, err := c.operand()
	if err != nil {
		return err
	}
	if !c.accept(")") {
		return c.errf("expected `)` after switchInt condition")
	}
	c.skipSpaces()
	if !c.accept("->") {
		return c.errf("expected `->` after switchInt")
	}
	c.skipSpaces()
	if !c.accept("[") {
		return c.errf("expected `[` before switchInt targets")
	}

	term := &mir.SwitchInt{Cond: cond}
	for {
		c.skipSpaces()
		if c.acceptWord("otherwise") {
			if !c.accept(":") {
				return c.errf("expected `:` after otherwise")
			}
			c.skipSpaces()
			target, err := c.blockID()
			if err != nil {
				return err
			}
			term.Targets = append(term.Targets, target)
			break
		}
		value := c.token()
		if value == "" || !strings.HasSuffix(value, ":") {
			return c.errf("expected `value: bbN` switch target")
		}
		c.skipSpaces()
		target, err := c.blockID()
		if err != nil {
			return err
		}
		term.Values = append(term.Values, strings.TrimSuffix(value, ":"))
		term.Targets = append(term.Targets, target)
		if !c.accept(",") {
			break
		}
	}
	if !c.accept("]") {
		return c.errf("expected `]` after switchInt targets")
	}
	p.current.Term = term
	return c.expectEnd()
}

func (p *parser) parseCall(c *cursor) error {
	dest, err := c.place()
	if err != nil {
		return err
	}
	c.skipSpaces()
	if !c.accept("=") {
		return c.errf("expected `=` in call")
	}
	c.skipSpaces()
	fn := c.ident()
	if fn == "" {
		return c.errf("expected callee name")
	}
	if !c.accept("(") {
		return c.errf("expected `(` after callee")
	}
	args, err := c.operandList(")")
	if err != nil {
		return err
	}
	c.skipSpaces()
	if !c.accept("->") {
		return c.errf("expected `->` after call arguments")
	}
	c.skipSpaces()
	target, err := c.blockID()
	if err != nil {
		return err
	}
	p.current.Term = &mir.Call{Dest: dest, Func: fn, Args: args, Target: target}
	return c.expectEnd()
}

func (p *parser) parseAssign(c *cursor) error {
	place, err := c.place()
	if err != nil {
		return err
	}
	c.skipSpaces()
	if !c.accept("=") {
		return c.errf("expected `=` in assignment")
	}
	c.skipSpaces()
	rv, err := c.rvalue()
	if err != nil {
		return err
	}
	p.current.Stmts = append(p.current.Stmts, &mir.Assign{Place: place, Rvalue: rv})
	return c.expectEnd()
}

// validate checks that every slot mentioned by a statement or terminator
// is declared. A reference to an undeclared slot is an upstream bug in
// whatever produced the text, reported here rather than tripping the
// analyses.
func (p *parser) validate() error {
	for _, block := range p.body.Blocks {
		for _, stmt := range block.Stmts {
			var bad mir.Local
			ok := true
			switch s := stmt.(type) {
			case *mir.Assign:
				if bad, ok = p.checkPlace(s.Place); ok {
					bad, ok = p.checkRvalue(s.Rvalue)
				}
			case *mir.StorageLive:
				if !p.body.IsDeclared(s.Local) {
					bad, ok = s.Local, false
				}
			case *mir.StorageDead:
				if !p.body.IsDeclared(s.Local) {
					bad, ok = s.Local, false
				}
			}
			if !ok {
				return p.undeclared(block.ID, bad)
			}
		}

		var bad mir.Local
		ok := true
		switch t := block.Term.(type) {
		case *mir.SwitchInt:
			bad, ok = p.checkOperand(t.Cond)
		case *mir.Call:
			if bad, ok = p.checkPlace(t.Dest); ok {
				bad, ok = p.checkOperands(t.Args)
			}
		}
		if !ok {
			return p.undeclared(block.ID, bad)
		}
	}
	return nil
}

func (p *parser) undeclared(block mir.BlockID, local mir.Local) error {
	return &Error{
		Pos: source.Position{Line: p.lastLine, Column: 1},
		Msg: fmt.Sprintf("bb%d uses undeclared local _%d", block, local),
	}
}

func (p *parser) checkRvalue(rv mir.Rvalue) (mir.Local, bool) {
	switch r := rv.(type) {
	case *mir.Use:
		return p.checkOperand(r.Op)
	case *mir.Ref:
		return p.checkPlace(r.Place)
	case *mir.Cast:
		return p.checkOperand(r.Op)
	case *mir.Aggregate:
		return p.checkOperands(r.Ops)
	case *mir.BinaryOp:
		if bad, ok := p.checkOperand(r.L); !ok {
			return bad, false
		}
		return p.checkOperand(r.R)
	case *mir.UnaryOp:
		return p.checkOperand(r.X)
	case *mir.Len:
		return p.checkPlace(r.Place)
	case *mir.Discriminant:
		return p.checkPlace(r.Place)
	default:
		return 0, true
	}
}

func (p *parser) checkOperands(ops []mir.Operand) (mir.Local, bool) {
	for _, op := range ops {
		if bad, ok := p.checkOperand(op); !ok {
			return bad, false
		}
	}
	return 0, true
}

func (p *parser) checkOperand(op mir.Operand) (mir.Local, bool) {
	switch o := op.(type) {
	case *mir.Copy:
		return p.checkPlace(o.Place)
	case *mir.Move:
		return p.checkPlace(o.Place)
	default:
		return 0, true
	}
}

func (p *parser) checkPlace(place mir.Place) (mir.Local, bool) {
	for {
		switch pl := place.(type) {
		case *mir.LocalPlace:
			if !p.body.IsDeclared(pl.Local) {
				return pl.Local, false
			}
			return 0, true
		case *mir.Projection:
			if pl.Elem.Kind == mir.ProjIndex && !p.body.IsDeclared(pl.Elem.Index) {
				return pl.Elem.Index, false
			}
			place = pl.Base
		default:
			return 0, true
		}
	}
}
