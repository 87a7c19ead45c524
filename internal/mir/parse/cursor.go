package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mikhail-m1/rust/internal/mir"
	"github.com/mikhail-m1/rust/internal/source"
)

// cursor scans a single pre-trimmed line.
type cursor struct {
	s    string
	pos  int
	line int
}

func (c *cursor) errf(format string, args ...any) error {
	return &Error{
		Pos: source.Position{Line: c.line, Column: c.pos + 1},
		Msg: fmt.Sprintf(format, args...),
	}
}

func (c *cursor) skipSpaces() {
	for c.pos < len(c.s) && (c.s[c.pos] == ' ' || c.s[c.pos] == '\t') {
		c.pos++
	}
}

func (c *cursor) atEnd() bool {
	c.skipSpaces()
	return c.pos >= len(c.s)
}

func (c *cursor) rest() string {
	return c.s[c.pos:]
}

func (c *cursor) peekByte() byte {
	if c.pos >= len(c.s) {
		return 0
	}
	return c.s[c.pos]
}

// accept consumes the literal prefix if present.
func (c *cursor) accept(prefix string) bool {
	if strings.HasPrefix(c.s[c.pos:], prefix) {
		c.pos += len(prefix)
		return true
	}
	return false
}

// acceptWord consumes the keyword only when it is not a prefix of a
// longer identifier.
func (c *cursor) acceptWord(word string) bool {
	end := c.pos + len(word)
	if !strings.HasPrefix(c.s[c.pos:], word) {
		return false
	}
	if end < len(c.s) && isIdentByte(c.s[end]) {
		return false
	}
	c.pos = end
	return true
}

func (c *cursor) ident() string {
	start := c.pos
	for c.pos < len(c.s) && isIdentByte(c.s[c.pos]) {
		c.pos++
	}
	return c.s[start:c.pos]
}

func (c *cursor) peekWord() string {
	i := c.pos
	for i < len(c.s) && isIdentByte(c.s[i]) {
		i++
	}
	return c.s[c.pos:i]
}

func (c *cursor) number() (int, error) {
	start := c.pos
	for c.pos < len(c.s) && c.s[c.pos] >= '0' && c.s[c.pos] <= '9' {
		c.pos++
	}
	if start == c.pos {
		return 0, c.errf("expected a number")
	}
	n, err := strconv.Atoi(c.s[start:c.pos])
	if err != nil {
		return 0, c.errf("bad number %q", c.s[start:c.pos])
	}
	return n, nil
}

// local parses `_N`.
func (c *cursor) local() (mir.Local, error) {
	if !c.accept("_") {
		return 0, c.errf("expected a local such as _0")
	}
	n, err := c.number()
	if err != nil {
		return 0, err
	}
	return mir.Local(n), nil
}

// blockID parses `bbN`.
func (c *cursor) blockID() (mir.BlockID, error) {
	if !c.accept("bb") {
		return 0, c.errf("expected a block label such as bb0")
	}
	n, err := c.number()
	if err != nil {
		return 0, err
	}
	return mir.BlockID(n), nil
}

// token reads a run of characters up to whitespace, `,` or `]`. Used for
// switch values, which carry their trailing colon.
func (c *cursor) token() string {
	start := c.pos
	for c.pos < len(c.s) {
		b := c.s[c.pos]
		if b == ' ' || b == '\t' || b == ',' || b == ']' {
			break
		}
		c.pos++
	}
	return c.s[start:c.pos]
}

// constToken reads a constant literal: a single token bounded by spaces
// and structural delimiters.
func (c *cursor) constToken() string {
	start := c.pos
	for c.pos < len(c.s) {
		b := c.s[c.pos]
		if b == ' ' || b == '\t' || b == ',' || b == ')' || b == ']' || b == ';' {
			break
		}
		c.pos++
	}
	return c.s[start:c.pos]
}

// expectEnd consumes an optional trailing `;` and requires end of line.
func (c *cursor) expectEnd() error {
	c.skipSpaces()
	c.accept(";")
	if !c.atEnd() {
		return c.errf("trailing input %q", c.rest())
	}
	return nil
}

// place parses `_1`, `FOO`, `_1.0`, `_1[_2]`, `(*_1)`, `(_1 as Some)` and
// chains of those suffixes.
func (c *cursor) place() (mir.Place, error) {
	var p mir.Place

	switch {
	case c.accept("("):
		if c.accept("*") {
			base, err := c.place()
			if err != nil {
				return nil, err
			}
			if !c.accept(")") {
				return nil, c.errf("expected `)` after dereference")
			}
			p = &mir.Projection{Base: base, Elem: mir.ProjElem{Kind: mir.ProjDeref}}
		} else {
			base, err := c.place()
			if err != nil {
				return nil, err
			}
			c.skipSpaces()
			if !c.acceptWord("as") {
				return nil, c.errf("expected `as` in downcast")
			}
			c.skipSpaces()
			variant := c.ident()
			if variant == "" {
				return nil, c.errf("expected variant name in downcast")
			}
			if !c.accept(")") {
				return nil, c.errf("expected `)` after downcast")
			}
			p = &mir.Projection{Base: base, Elem: mir.ProjElem{Kind: mir.ProjDowncast, Variant: variant}}
		}
	case c.peekByte() == '_':
		local, err := c.local()
		if err != nil {
			return nil, err
		}
		p = &mir.LocalPlace{Local: local}
	default:
		name := c.ident()
		if name == "" {
			return nil, c.errf("expected a place")
		}
		p = &mir.StaticPlace{Name: name}
	}

	for {
		switch {
		case c.accept("."):
			field, err := c.number()
			if err != nil {
				return nil, err
			}
			p = &mir.Projection{Base: p, Elem: mir.ProjElem{Kind: mir.ProjField, Field: field}}
		case c.accept("["):
			index, err := c.local()
			if err != nil {
				return nil, err
			}
			if !c.accept("]") {
				return nil, c.errf("expected `]` after index")
			}
			p = &mir.Projection{Base: p, Elem: mir.ProjElem{Kind: mir.ProjIndex, Index: index}}
		default:
			return p, nil
		}
	}
}

func (c *cursor) operand() (mir.Operand, error) {
	switch {
	case c.acceptWord("copy"):
		c.skipSpaces()
		p, err := c.place()
		if err != nil {
			return nil, err
		}
		return &mir.Copy{Place: p}, nil
	case c.acceptWord("move"):
		c.skipSpaces()
		p, err := c.place()
		if err != nil {
			return nil, err
		}
		return &mir.Move{Place: p}, nil
	case c.acceptWord("const"):
		c.skipSpaces()
		value := c.constToken()
		if value == "" {
			return nil, c.errf("expected a constant literal")
		}
		return &mir.Constant{Value: value}, nil
	default:
		return nil, c.errf("expected copy, move or const operand")
	}
}

// operandList parses a possibly empty comma-separated operand list ending
// with the given close delimiter.
func (c *cursor) operandList(end string) ([]mir.Operand, error) {
	var ops []mir.Operand
	c.skipSpaces()
	if c.accept(end) {
		return ops, nil
	}
	for {
		op, err := c.operand()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		c.skipSpaces()
		if c.accept(",") {
			c.skipSpaces()
			continue
		}
		if !c.accept(end) {
			return nil, c.errf("expected `%s` after operand list", end)
		}
		return ops, nil
	}
}

func (c *cursor) rvalue() (mir.Rvalue, error) {
	switch {
	case c.accept("&"):
		kind := mir.BorrowShared
		if c.acceptWord("mut") {
			kind = mir.BorrowMut
			c.skipSpaces()
		} else if c.acceptWord("uniq") {
			kind = mir.BorrowUnique
			c.skipSpaces()
		}
		p, err := c.place()
		if err != nil {
			return nil, err
		}
		return &mir.Ref{Kind: kind, Place: p}, nil

	case c.peekByte() == '(':
		c.accept("(")
		ops, err := c.operandList(")")
		if err != nil {
			return nil, err
		}
		return &mir.Aggregate{Kind: mir.AggregateTuple, Ops: ops}, nil

	case c.peekByte() == '[':
		c.accept("[")
		ops, err := c.operandList("]")
		if err != nil {
			return nil, err
		}
		return &mir.Aggregate{Kind: mir.AggregateArray, Ops: ops}, nil

	case isOperandWord(c.peekWord()):
		op, err := c.operand()
		if err != nil {
			return nil, err
		}
		c.skipSpaces()
		if c.acceptWord("as") {
			c.skipSpaces()
			return c.castRest(op)
		}
		return &mir.Use{Op: op}, nil

	default:
		return c.identRvalue()
	}
}

// castRest parses `TYPE (kind)` after `<operand> as `.
func (c *cursor) castRest(op mir.Operand) (mir.Rvalue, error) {
	rest := c.rest()
	open := strings.LastIndex(rest, "(")
	if open < 0 {
		return nil, c.errf("expected cast kind in parentheses")
	}
	closing := strings.Index(rest[open:], ")")
	if closing < 0 {
		return nil, c.errf("unterminated cast kind")
	}
	typ := strings.TrimSpace(rest[:open])
	if typ == "" {
		return nil, c.errf("expected cast target type")
	}
	kind, err := castKind(c, rest[open+1:open+closing])
	if err != nil {
		return nil, err
	}
	c.pos += open + closing + 1
	return &mir.Cast{Kind: kind, Op: op, Type: typ}, nil
}

func castKind(c *cursor, name string) (mir.CastKind, error) {
	switch name {
	case "misc":
		return mir.CastMisc, nil
	case "unsize":
		return mir.CastUnsize, nil
	case "reify_fn_pointer":
		return mir.CastReifyFnPointer, nil
	case "closure_fn_pointer":
		return mir.CastClosureFnPointer, nil
	case "unsafe_fn_pointer":
		return mir.CastUnsafeFnPointer, nil
	default:
		return 0, c.errf("unknown cast kind %q", name)
	}
}

// identRvalue parses the name-led forms: len, discriminant, unary and
// binary operations, closure and ADT aggregates.
func (c *cursor) identRvalue() (mir.Rvalue, error) {
	name := c.ident()
	if name == "" {
		return nil, c.errf("expected an rvalue")
	}
	if !c.accept("(") {
		return nil, c.errf("expected `(` after %q", name)
	}

	switch {
	case name == "len":
		p, err := c.place()
		if err != nil {
			return nil, err
		}
		if !c.accept(")") {
			return nil, c.errf("expected `)` after len")
		}
		return &mir.Len{Place: p}, nil

	case name == "discriminant":
		p, err := c.place()
		if err != nil {
			return nil, err
		}
		if !c.accept(")") {
			return nil, c.errf("expected `)` after discriminant")
		}
		return &mir.Discriminant{Place: p}, nil

	case name == "neg" || name == "not":
		op, err := c.operand()
		if err != nil {
			return nil, err
		}
		if !c.accept(")") {
			return nil, c.errf("expected `)` after %s", name)
		}
		return &mir.UnaryOp{Op: name, X: op}, nil

	case name == "closure":
		ops, err := c.operandList(")")
		if err != nil {
			return nil, err
		}
		return &mir.Aggregate{Kind: mir.AggregateClosure, Ops: ops}, nil

	case isBinaryOp(name):
		l, err := c.operand()
		if err != nil {
			return nil, err
		}
		c.skipSpaces()
		if !c.accept(",") {
			return nil, c.errf("expected `,` between %s operands", name)
		}
		c.skipSpaces()
		r, err := c.operand()
		if err != nil {
			return nil, err
		}
		if !c.accept(")") {
			return nil, c.errf("expected `)` after %s", name)
		}
		return &mir.BinaryOp{Op: name, L: l, R: r}, nil

	default:
		ops, err := c.operandList(")")
		if err != nil {
			return nil, err
		}
		return &mir.Aggregate{Kind: mir.AggregateAdt, Adt: name, Ops: ops}, nil
	}
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isOperandWord(word string) bool {
	return word == "copy" || word == "move" || word == "const"
}

var binaryOps = map[string]bool{
	"add": true, "sub": true, "mul": true, "div": true, "rem": true,
	"bitand": true, "bitor": true, "bitxor": true, "shl": true, "shr": true,
	"eq": true, "lt": true, "le": true, "ne": true, "ge": true, "gt": true,
	"offset": true,
}

func isBinaryOp(name string) bool {
	return binaryOps[name]
}

// isBlockLabel reports whether a line starts a `bbN:` block header.
func isBlockLabel(text string) bool {
	if !strings.HasPrefix(text, "bb") {
		return false
	}
	return len(text) > 2 && text[2] >= '0' && text[2] <= '9'
}
