package mir

// Local identifies a value slot within a function body. Locals are dense
// indices into Body.Locals; their order is fixed when the body is built.
type Local uint32

// ReturnLocal is the slot holding the function's output. Every body
// declares it, even functions returning nothing.
const ReturnLocal Local = 0

// BlockID identifies a basic block within a function body.
type BlockID uint32

// LocalDecl describes one declared value slot.
type LocalDecl struct {
	Name string // user-visible name, empty for temporaries
	Type string
}

// Body is the MIR for a single function: a declared slot table plus a
// list of basic blocks. Blocks keep their construction order.
type Body struct {
	Name   string
	Locals []LocalDecl
	Blocks []*Block
}

// Block is a basic block: an ordered statement list ending in a terminator.
type Block struct {
	ID    BlockID
	Stmts []Stmt
	Term  Term
}

// LocalCount returns the number of declared slots, including the return slot.
func (b *Body) LocalCount() int {
	return len(b.Locals)
}

// IsDeclared reports whether a local index is within the declared table.
func (b *Body) IsDeclared(l Local) bool {
	return int(l) < len(b.Locals)
}
