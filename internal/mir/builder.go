package mir

import "fmt"

// BodyBuilder assembles a function body one block at a time. The return
// slot is declared up front so every body satisfies the slot-0 convention.
type BodyBuilder struct {
	body    *Body
	current *Block
}

// NewBodyBuilder creates a builder for a function with the given name and
// return type. The return slot _0 is declared immediately.
func NewBodyBuilder(name, returnType string) *BodyBuilder {
	return &BodyBuilder{
		body: &Body{
			Name:   name,
			Locals: []LocalDecl{{Type: returnType}},
		},
	}
}

// DeclareLocal adds a slot to the declared table and returns its index.
func (b *BodyBuilder) DeclareLocal(name, typ string) Local {
	b.body.Locals = append(b.body.Locals, LocalDecl{Name: name, Type: typ})
	return Local(len(b.body.Locals) - 1)
}

// StartBlock opens a new basic block; subsequent statements go there.
func (b *BodyBuilder) StartBlock() BlockID {
	block := &Block{ID: BlockID(len(b.body.Blocks))}
	b.body.Blocks = append(b.body.Blocks, block)
	b.current = block
	return block.ID
}

// Push appends a statement to the current block.
func (b *BodyBuilder) Push(stmt Stmt) {
	if b.current == nil {
		b.StartBlock()
	}
	b.current.Stmts = append(b.current.Stmts, stmt)
}

// Assign appends an assignment statement to the current block.
func (b *BodyBuilder) Assign(place Place, rv Rvalue) {
	b.Push(&Assign{Place: place, Rvalue: rv})
}

// Terminate sets the current block's terminator.
func (b *BodyBuilder) Terminate(term Term) {
	if b.current == nil {
		b.StartBlock()
	}
	b.current.Term = term
}

// Finish validates and returns the assembled body. Blocks without a
// terminator get a Return, so small hand-built bodies stay well formed.
func (b *BodyBuilder) Finish() (*Body, error) {
	for _, block := range b.body.Blocks {
		if block.Term == nil {
			block.Term = &Return{}
		}
		for _, stmt := range block.Stmts {
			if err := b.checkStmt(stmt); err != nil {
				return nil, fmt.Errorf("bb%d: %w", block.ID, err)
			}
		}
	}
	return b.body, nil
}

func (b *BodyBuilder) checkStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *Assign:
		if err := b.checkPlace(s.Place); err != nil {
			return err
		}
	case *StorageLive:
		if !b.body.IsDeclared(s.Local) {
			return fmt.Errorf("storage_live of undeclared local _%d", s.Local)
		}
	case *StorageDead:
		if !b.body.IsDeclared(s.Local) {
			return fmt.Errorf("storage_dead of undeclared local _%d", s.Local)
		}
	}
	return nil
}

func (b *BodyBuilder) checkPlace(p Place) error {
	for {
		switch place := p.(type) {
		case *LocalPlace:
			if !b.body.IsDeclared(place.Local) {
				return fmt.Errorf("use of undeclared local _%d", place.Local)
			}
			return nil
		case *Projection:
			p = place.Base
		default:
			return nil
		}
	}
}
