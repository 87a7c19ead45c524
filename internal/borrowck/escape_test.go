package borrowck

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mikhail-m1/rust/internal/mir"
	"github.com/mikhail-m1/rust/internal/mir/parse"
)

// Helpers to keep statement construction readable.
func lp(l mir.Local) mir.Place      { return &mir.LocalPlace{Local: l} }
func mv(p mir.Place) mir.Operand    { return &mir.Move{Place: p} }
func cp(p mir.Place) mir.Operand    { return &mir.Copy{Place: p} }
func use(op mir.Operand) mir.Rvalue { return &mir.Use{Op: op} }

func assign(dest mir.Place, rv mir.Rvalue) mir.Stmt {
	return &mir.Assign{Place: dest, Rvalue: rv}
}

// newBody builds a single-block body with the given number of declared
// locals (including the return slot) and statements.
func newBody(t *testing.T, locals int, stmts ...mir.Stmt) *mir.Body {
	t.Helper()

	b := mir.NewBodyBuilder("test", "i32")
	for i := 1; i < locals; i++ {
		b.DeclareLocal("", "i32")
	}
	for _, stmt := range stmts {
		b.Push(stmt)
	}
	b.Terminate(&mir.Return{})

	body, err := b.Finish()
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	return body
}

func expectEscaping(t *testing.T, body *mir.Body, want []mir.Local) {
	t.Helper()

	got := FindEscapingLocals(body)
	if len(want) == 0 {
		if len(got) != 0 {
			t.Fatalf("expected no escaping locals, got %v", got)
		}
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("escaping locals mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnSlotOnlyBody(t *testing.T) {
	body := newBody(t, 1)
	expectEscaping(t, body, nil)
}

func TestBodyWithoutAssignments(t *testing.T) {
	body := newBody(t, 4,
		&mir.StorageLive{Local: 1},
		&mir.Nop{},
		&mir.StorageDead{Local: 1},
	)
	expectEscaping(t, body, nil)
}

func TestMoveChain(t *testing.T) {
	// _0 = move _1; _1 = move _2; _2 = move _3
	body := newBody(t, 4,
		assign(lp(0), use(mv(lp(1)))),
		assign(lp(1), use(mv(lp(2)))),
		assign(lp(2), use(mv(lp(3)))),
	)
	expectEscaping(t, body, []mir.Local{1, 2, 3})
}

func TestCopyIsNotTracked(t *testing.T) {
	body := newBody(t, 2,
		assign(lp(0), use(cp(lp(1)))),
	)
	expectEscaping(t, body, nil)
}

func TestConstantIsNotTracked(t *testing.T) {
	body := newBody(t, 2,
		assign(lp(0), use(&mir.Constant{Value: "42i32"})),
	)
	expectEscaping(t, body, nil)
}

func TestReferenceIsTracked(t *testing.T) {
	body := newBody(t, 3,
		assign(lp(0), &mir.Ref{Kind: mir.BorrowShared, Place: lp(1)}),
		assign(lp(0), &mir.Ref{Kind: mir.BorrowMut, Place: lp(2)}),
	)
	expectEscaping(t, body, []mir.Local{1, 2})
}

func TestUnsizeCastIsTracked(t *testing.T) {
	body := newBody(t, 2,
		assign(lp(0), &mir.Cast{Kind: mir.CastUnsize, Op: mv(lp(1)), Type: "&[i32]"}),
	)
	expectEscaping(t, body, []mir.Local{1})
}

func TestOtherCastKindsAreNotTracked(t *testing.T) {
	kinds := []mir.CastKind{
		mir.CastMisc,
		mir.CastReifyFnPointer,
		mir.CastClosureFnPointer,
		mir.CastUnsafeFnPointer,
	}
	for _, kind := range kinds {
		body := newBody(t, 2,
			assign(lp(0), &mir.Cast{Kind: kind, Op: mv(lp(1)), Type: "usize"}),
		)
		expectEscaping(t, body, nil)
	}
}

func TestAggregateElementsAreTracked(t *testing.T) {
	body := newBody(t, 3,
		assign(lp(0), &mir.Aggregate{
			Kind: mir.AggregateTuple,
			Ops:  []mir.Operand{mv(lp(1)), mv(lp(2))},
		}),
	)
	expectEscaping(t, body, []mir.Local{1, 2})
}

func TestAggregateWithPartialResolution(t *testing.T) {
	// Only the moved element contributes; constants and copies do not.
	body := newBody(t, 4,
		assign(lp(0), &mir.Aggregate{
			Kind: mir.AggregateAdt,
			Adt:  "Pair",
			Ops:  []mir.Operand{&mir.Constant{Value: "1i32"}, mv(lp(2)), cp(lp(3))},
		}),
	)
	expectEscaping(t, body, []mir.Local{2})
}

func TestProjectionsResolveToBaseLocal(t *testing.T) {
	// (_0.0) = move ((*_2)[_3]) unions 0 and 2; the index local 3 is
	// not part of the flow.
	dest := &mir.Projection{Base: lp(0), Elem: mir.ProjElem{Kind: mir.ProjField, Field: 0}}
	src := &mir.Projection{
		Base: &mir.Projection{Base: lp(2), Elem: mir.ProjElem{Kind: mir.ProjDeref}},
		Elem: mir.ProjElem{Kind: mir.ProjIndex, Index: 3},
	}
	body := newBody(t, 4,
		assign(dest, use(mv(src))),
	)
	expectEscaping(t, body, []mir.Local{2})
}

func TestStaticPlacesAreOpaque(t *testing.T) {
	body := newBody(t, 2,
		// Write to a static: no destination slot, nothing merges.
		assign(&mir.StaticPlace{Name: "TABLE"}, use(mv(lp(1)))),
		// Read from a static: no source slot either.
		assign(lp(0), use(mv(&mir.StaticPlace{Name: "TABLE"}))),
	)
	expectEscaping(t, body, nil)
}

func TestUntrackedRvaluesRecordNoFlow(t *testing.T) {
	body := newBody(t, 3,
		assign(lp(0), &mir.BinaryOp{Op: "add", L: mv(lp(1)), R: mv(lp(2))}),
		assign(lp(0), &mir.UnaryOp{Op: "neg", X: mv(lp(1))}),
		assign(lp(0), &mir.Len{Place: lp(2)}),
		assign(lp(0), &mir.Discriminant{Place: lp(2)}),
	)
	expectEscaping(t, body, nil)
}

func TestTransitivityRequiresChainToReturnSlot(t *testing.T) {
	// 1 and 3 are unioned through 2, but no chain reaches _0.
	body := newBody(t, 4,
		assign(lp(1), use(mv(lp(2)))),
		assign(lp(2), use(mv(lp(3)))),
	)
	expectEscaping(t, body, nil)

	// Linking the chain head to _0 makes the whole set escape.
	body = newBody(t, 4,
		assign(lp(1), use(mv(lp(2)))),
		assign(lp(2), use(mv(lp(3)))),
		assign(lp(0), use(mv(lp(1)))),
	)
	expectEscaping(t, body, []mir.Local{1, 2, 3})
}

func TestSelfAssignment(t *testing.T) {
	body := newBody(t, 2,
		assign(lp(0), use(mv(lp(0)))),
		assign(lp(1), use(mv(lp(1)))),
	)
	expectEscaping(t, body, nil)
}

func TestCallDestinationsAreNotStatements(t *testing.T) {
	// Call results flow through a terminator, not an assignment
	// statement, so the gather pass does not see them.
	b := mir.NewBodyBuilder("test", "i32")
	arg := b.DeclareLocal("x", "i32")
	b.StartBlock()
	b.Terminate(&mir.Call{
		Dest:   lp(0),
		Func:   "id",
		Args:   []mir.Operand{mv(lp(arg))},
		Target: 1,
	})
	b.StartBlock()
	b.Terminate(&mir.Return{})

	body, err := b.Finish()
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	expectEscaping(t, body, nil)
}

func TestStatementOrderDoesNotMatter(t *testing.T) {
	stmts := []mir.Stmt{
		assign(lp(0), use(mv(lp(1)))),
		assign(lp(1), use(mv(lp(2)))),
		assign(lp(3), &mir.Ref{Kind: mir.BorrowShared, Place: lp(4)}),
		assign(lp(0), &mir.Aggregate{Kind: mir.AggregateTuple, Ops: []mir.Operand{mv(lp(3))}}),
	}

	want := FindEscapingLocals(newBody(t, 5, stmts...))

	// Reverse order within one block.
	reversed := make([]mir.Stmt, len(stmts))
	for i, stmt := range stmts {
		reversed[len(stmts)-1-i] = stmt
	}
	if diff := cmp.Diff(want, FindEscapingLocals(newBody(t, 5, reversed...))); diff != "" {
		t.Errorf("reversed statement order changed the result (-want +got):\n%s", diff)
	}

	// Same statements spread across blocks.
	b := mir.NewBodyBuilder("test", "i32")
	for i := 1; i < 5; i++ {
		b.DeclareLocal("", "i32")
	}
	for i, stmt := range stmts {
		id := b.StartBlock()
		b.Push(stmt)
		if i < len(stmts)-1 {
			b.Terminate(&mir.Goto{Target: id + 1})
		} else {
			b.Terminate(&mir.Return{})
		}
	}
	body, err := b.Finish()
	if err != nil {
		t.Fatalf("build body: %v", err)
	}
	if diff := cmp.Diff(want, FindEscapingLocals(body)); diff != "" {
		t.Errorf("splitting across blocks changed the result (-want +got):\n%s", diff)
	}
}

func TestRepeatedInvocationIsDeterministic(t *testing.T) {
	body := newBody(t, 6,
		assign(lp(0), use(mv(lp(3)))),
		assign(lp(3), use(mv(lp(5)))),
		assign(lp(2), use(mv(lp(4)))),
	)

	first := FindEscapingLocals(body)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, FindEscapingLocals(body)); diff != "" {
			t.Fatalf("run %d differed (-first +got):\n%s", i+1, diff)
		}
	}
}

func TestResultIsSortedWithoutDuplicates(t *testing.T) {
	// Several links into the same set, added out of index order.
	body := newBody(t, 5,
		assign(lp(4), use(mv(lp(0)))),
		assign(lp(1), use(mv(lp(4)))),
		assign(lp(0), use(mv(lp(1)))),
		assign(lp(2), use(mv(lp(4)))),
	)

	got := FindEscapingLocals(body)
	seen := make(map[mir.Local]bool)
	for i, local := range got {
		if local == mir.ReturnLocal {
			t.Errorf("result contains the return slot")
		}
		if seen[local] {
			t.Errorf("duplicate local _%d in result", local)
		}
		seen[local] = true
		if i > 0 && got[i-1] >= local {
			t.Errorf("result not ascending: %v", got)
		}
	}
	if diff := cmp.Diff([]mir.Local{1, 2, 4}, got); diff != "" {
		t.Errorf("escaping locals mismatch (-want +got):\n%s", diff)
	}
}

// The analysis also has to work on bodies that come in through the
// textual MIR front door.
func TestEscapingLocalsFromParsedText(t *testing.T) {
	const src = `
fn demo {
    let _0: &[i32];
    let _1: &[i32];
    let _2: [i32; 3];
    let _3: i32;
    debug xs => _2;

    bb0: {
        storage_live _2;
        _2 = [const 1i32, const 2i32, const 3i32];
        _1 = move _2 as &[i32] (unsize);
        _3 = copy _2[_3];
        goto -> bb1;
    }

    bb1: {
        _0 = move _1;
        return;
    }
}
`
	body, err := parse.Body(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// _1 moves into _0 and _2 unsizes into _1; _3 only copies.
	expectEscaping(t, body, []mir.Local{1, 2})
}
