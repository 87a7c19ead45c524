package mir

// Operand is a value read on the right-hand side of a statement.
type Operand interface {
	mirOperand()
}

// Copy reads a place without consuming it.
type Copy struct {
	Place Place
}

func (o *Copy) mirOperand() {}

// Move reads a place and consumes the value stored there.
type Move struct {
	Place Place
}

func (o *Move) mirOperand() {}

// Constant is a literal value. The textual form is kept verbatim.
type Constant struct {
	Value string
}

func (o *Constant) mirOperand() {}

// Rvalue is the base interface for value-producing expressions.
type Rvalue interface {
	mirRvalue()
}

// Use yields an operand unchanged.
type Use struct {
	Op Operand
}

func (r *Use) mirRvalue() {}

// BorrowKind enumerates reference flavors.
type BorrowKind int

const (
	BorrowShared BorrowKind = iota
	BorrowUnique
	BorrowMut
)

// Ref takes a reference to a place.
type Ref struct {
	Kind  BorrowKind
	Place Place
}

func (r *Ref) mirRvalue() {}

// CastKind enumerates cast flavors. Only CastUnsize changes which slot a
// value lives in from the flow analyses' point of view.
type CastKind int

const (
	CastMisc CastKind = iota
	CastUnsize
	CastReifyFnPointer
	CastClosureFnPointer
	CastUnsafeFnPointer
)

// Cast converts an operand to another type.
type Cast struct {
	Kind CastKind
	Op   Operand
	Type string
}

func (r *Cast) mirRvalue() {}

// AggregateKind enumerates aggregate constructors.
type AggregateKind int

const (
	AggregateTuple AggregateKind = iota
	AggregateArray
	AggregateAdt
	AggregateClosure
)

// Aggregate builds a compound value from element operands.
type Aggregate struct {
	Kind AggregateKind
	Adt  string // type name for AggregateAdt
	Ops  []Operand
}

func (r *Aggregate) mirRvalue() {}

// BinaryOp combines two operands; the result is a fresh value.
type BinaryOp struct {
	Op string // add, sub, mul, div, rem, eq, lt, le, ne, ge, gt, ...
	L  Operand
	R  Operand
}

func (r *BinaryOp) mirRvalue() {}

// UnaryOp applies neg or not to an operand.
type UnaryOp struct {
	Op string
	X  Operand
}

func (r *UnaryOp) mirRvalue() {}

// Len yields the length of an array or slice place.
type Len struct {
	Place Place
}

func (r *Len) mirRvalue() {}

// Discriminant reads the variant tag of an enum place.
type Discriminant struct {
	Place Place
}

func (r *Discriminant) mirRvalue() {}
