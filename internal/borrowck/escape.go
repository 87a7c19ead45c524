// Package borrowck holds the intra-function analyses backing borrow and
// lifetime checking. Analyses here are conservative: they may miss flows
// (under-approximate) but must never invent ones.
package borrowck

import (
	"github.com/mikhail-m1/rust/internal/mir"
	"github.com/mikhail-m1/rust/internal/utils/unionfind"
)

// FindEscapingLocals finds all locals ultimately flowing into the return
// slot through assignments. It walks the body once, gathering a
// union-find of assigned locals, then reports every declared local that
// ended up in the return slot's set verbatim, in ascending index order.
//
// Only a curated subset of assignment forms is tracked: moved operands,
// references, unsizing casts, and aggregate elements. Copies are
// deliberately not tracked. Region inference relies on this list
// under-approximating, so the subset must not be extended casually.
func FindEscapingLocals(body *mir.Body) []mir.Local {
	v := newGatherAssignedLocals(body.LocalCount())
	v.visitBody(body)

	var escaping []mir.Local
	for i := 1; i < body.LocalCount(); i++ {
		local := mir.Local(i)
		if v.sets.Unioned(mir.ReturnLocal, local) {
			escaping = append(escaping, local)
		}
	}
	return escaping
}

// gatherAssignedLocals accumulates the union-find of locals used in
// assignments. One key per declared slot; the instance lives for a
// single body walk.
type gatherAssignedLocals struct {
	sets *unionfind.DisjointSet[mir.Local]
}

func newGatherAssignedLocals(localCount int) *gatherAssignedLocals {
	return &gatherAssignedLocals{
		sets: unionfind.New[mir.Local](localCount),
	}
}

// visitBody walks every statement of every block in stored order. Union is
// commutative and associative, so one linear pass reaches the fixed point
// regardless of visitation order; no re-visitation is needed.
func (g *gatherAssignedLocals) visitBody(body *mir.Body) {
	for _, block := range body.Blocks {
		for _, stmt := range block.Stmts {
			if assign, ok := stmt.(*mir.Assign); ok {
				g.visitAssign(assign)
			}
		}
	}
}

func (g *gatherAssignedLocals) visitAssign(assign *mir.Assign) {
	dest, destOK := localOfPlace(assign.Place)
	if !destOK {
		// Destination is not rooted in a slot; nothing to merge.
		return
	}

	// Conservatively track a subset of rvalues known to matter in
	// practice; every other kind deliberately records no flow.
	switch rv := assign.Rvalue.(type) {
	case *mir.Use:
		g.unionOperand(dest, rv.Op)
	case *mir.Ref:
		if src, ok := localOfPlace(rv.Place); ok {
			g.unionIfNeeded(dest, src)
		}
	case *mir.Cast:
		if rv.Kind == mir.CastUnsize {
			g.unionOperand(dest, rv.Op)
		}
	case *mir.Aggregate:
		// Elements resolve independently; the ones that do still union.
		for _, op := range rv.Ops {
			g.unionOperand(dest, op)
		}
	default:
	}
}

func (g *gatherAssignedLocals) unionOperand(dest mir.Local, op mir.Operand) {
	if src, ok := localOfOperand(op); ok {
		g.unionIfNeeded(dest, src)
	}
}

// unionIfNeeded merges the destination and source sets unless they are
// the same slot already.
func (g *gatherAssignedLocals) unionIfNeeded(dest, src mir.Local) {
	if dest != src {
		g.sets.Union(dest, src)
	}
}

// localOfPlace returns the slot a place is rooted in: the slot itself for
// a direct place, the base slot for a projection chain, none for places
// outside the slot table (statics).
func localOfPlace(p mir.Place) (mir.Local, bool) {
	for {
		switch place := p.(type) {
		case *mir.LocalPlace:
			return place.Local, true
		case *mir.Projection:
			p = place.Base
		default:
			return 0, false
		}
	}
}

// localOfOperand returns the slot an operand reads from. Only moves
// resolve: a move forwards the value's identity, while a copy leaves the
// original in place. Skipping copies (and constants) is a deliberate
// under-approximation.
func localOfOperand(op mir.Operand) (mir.Local, bool) {
	if move, ok := op.(*mir.Move); ok {
		return localOfPlace(move.Place)
	}
	return 0, false
}
