package mir

// Stmt is the base interface for MIR statements.
type Stmt interface {
	mirStmt()
}

// Assign stores the value produced by an rvalue into a place.
type Assign struct {
	Place  Place
	Rvalue Rvalue
}

func (s *Assign) mirStmt() {}

// StorageLive marks the start of a slot's live range.
type StorageLive struct {
	Local Local
}

func (s *StorageLive) mirStmt() {}

// StorageDead marks the end of a slot's live range.
type StorageDead struct {
	Local Local
}

func (s *StorageDead) mirStmt() {}

// Nop does nothing. Lowering emits it where a statement slot must be kept.
type Nop struct{}

func (s *Nop) mirStmt() {}
