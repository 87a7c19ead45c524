package mir

import (
	"fmt"
	"os"
	"strings"
)

// FormatBody returns a readable text representation of a function body.
// The output is accepted back by the parse package.
func FormatBody(body *Body) string {
	if body == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "fn %s {\n", body.Name)

	for i, decl := range body.Locals {
		fmt.Fprintf(&b, "    let _%d: %s;\n", i, formatType(decl.Type))
	}
	for i, decl := range body.Locals {
		if decl.Name != "" {
			fmt.Fprintf(&b, "    debug %s => _%d;\n", decl.Name, i)
		}
	}

	for _, block := range body.Blocks {
		b.WriteString("\n")
		writeBlock(&b, block)
	}

	b.WriteString("}\n")
	return b.String()
}

// WriteBodyFile writes the formatted body to disk.
func WriteBodyFile(body *Body, path string) error {
	if body == nil || path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(FormatBody(body)), 0644)
}

func writeBlock(b *strings.Builder, block *Block) {
	if block == nil {
		return
	}

	fmt.Fprintf(b, "    bb%d: {\n", block.ID)
	for _, stmt := range block.Stmts {
		fmt.Fprintf(b, "        %s;\n", formatStmt(stmt))
	}
	if block.Term != nil {
		fmt.Fprintf(b, "        %s;\n", formatTerm(block.Term))
	}
	b.WriteString("    }\n")
}

func formatStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *Assign:
		return fmt.Sprintf("%s = %s", FormatPlace(s.Place), formatRvalue(s.Rvalue))
	case *StorageLive:
		return fmt.Sprintf("storage_live _%d", s.Local)
	case *StorageDead:
		return fmt.Sprintf("storage_dead _%d", s.Local)
	case *Nop:
		return "nop"
	default:
		return "stmt <unknown>"
	}
}

func formatTerm(term Term) string {
	switch t := term.(type) {
	case *Goto:
		return fmt.Sprintf("goto -> bb%d", t.Target)
	case *SwitchInt:
		return fmt.Sprintf("switchInt(%s) -> [%s]", formatOperand(t.Cond), formatSwitchTargets(t))
	case *Call:
		return fmt.Sprintf("call %s = %s(%s) -> bb%d", FormatPlace(t.Dest), t.Func, formatOperands(t.Args), t.Target)
	case *Return:
		return "return"
	case *Unreachable:
		return "unreachable"
	default:
		return "term <unknown>"
	}
}

func formatRvalue(rv Rvalue) string {
	switch r := rv.(type) {
	case *Use:
		return formatOperand(r.Op)
	case *Ref:
		return formatBorrow(r.Kind) + FormatPlace(r.Place)
	case *Cast:
		return fmt.Sprintf("%s as %s (%s)", formatOperand(r.Op), formatType(r.Type), formatCastKind(r.Kind))
	case *Aggregate:
		switch r.Kind {
		case AggregateTuple:
			return fmt.Sprintf("(%s)", formatOperands(r.Ops))
		case AggregateArray:
			return fmt.Sprintf("[%s]", formatOperands(r.Ops))
		case AggregateAdt:
			return fmt.Sprintf("%s(%s)", r.Adt, formatOperands(r.Ops))
		case AggregateClosure:
			return fmt.Sprintf("closure(%s)", formatOperands(r.Ops))
		default:
			return "aggregate <unknown>"
		}
	case *BinaryOp:
		return fmt.Sprintf("%s(%s, %s)", r.Op, formatOperand(r.L), formatOperand(r.R))
	case *UnaryOp:
		return fmt.Sprintf("%s(%s)", r.Op, formatOperand(r.X))
	case *Len:
		return fmt.Sprintf("len(%s)", FormatPlace(r.Place))
	case *Discriminant:
		return fmt.Sprintf("discriminant(%s)", FormatPlace(r.Place))
	default:
		return "rvalue <unknown>"
	}
}

func formatOperand(op Operand) string {
	switch o := op.(type) {
	case *Copy:
		return "copy " + FormatPlace(o.Place)
	case *Move:
		return "move " + FormatPlace(o.Place)
	case *Constant:
		return "const " + o.Value
	default:
		return "operand <unknown>"
	}
}

// FormatPlace renders a place: `_1`, `_1.0`, `_1[_2]`, `(*_1)`,
// `(_1 as Some)`.
func FormatPlace(p Place) string {
	switch place := p.(type) {
	case *LocalPlace:
		return fmt.Sprintf("_%d", place.Local)
	case *Projection:
		base := FormatPlace(place.Base)
		switch place.Elem.Kind {
		case ProjField:
			return fmt.Sprintf("%s.%d", base, place.Elem.Field)
		case ProjIndex:
			return fmt.Sprintf("%s[_%d]", base, place.Elem.Index)
		case ProjDeref:
			return fmt.Sprintf("(*%s)", base)
		case ProjDowncast:
			return fmt.Sprintf("(%s as %s)", base, place.Elem.Variant)
		default:
			return base + ".<unknown>"
		}
	case *StaticPlace:
		return place.Name
	default:
		return "place <unknown>"
	}
}

func formatBorrow(kind BorrowKind) string {
	switch kind {
	case BorrowMut:
		return "&mut "
	case BorrowUnique:
		return "&uniq "
	default:
		return "&"
	}
}

func formatCastKind(kind CastKind) string {
	switch kind {
	case CastUnsize:
		return "unsize"
	case CastReifyFnPointer:
		return "reify_fn_pointer"
	case CastClosureFnPointer:
		return "closure_fn_pointer"
	case CastUnsafeFnPointer:
		return "unsafe_fn_pointer"
	default:
		return "misc"
	}
}

func formatSwitchTargets(t *SwitchInt) string {
	parts := make([]string, 0, len(t.Targets))
	for i, target := range t.Targets {
		if i < len(t.Values) {
			parts = append(parts, fmt.Sprintf("%s: bb%d", t.Values[i], target))
		} else {
			parts = append(parts, fmt.Sprintf("otherwise: bb%d", target))
		}
	}
	return strings.Join(parts, ", ")
}

func formatOperands(ops []Operand) string {
	if len(ops) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, formatOperand(op))
	}
	return strings.Join(parts, ", ")
}

func formatType(t string) string {
	if t == "" {
		return "()"
	}
	return t
}
