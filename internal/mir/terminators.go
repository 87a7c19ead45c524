package mir

// Term is the base interface for block terminators.
type Term interface {
	mirTerm()
}

// Goto jumps unconditionally to another block.
type Goto struct {
	Target BlockID
}

func (t *Goto) mirTerm() {}

// SwitchInt selects a target by comparing an operand against constants.
// Targets has one entry per value plus a final otherwise target.
type SwitchInt struct {
	Cond    Operand
	Values  []string
	Targets []BlockID
}

func (t *SwitchInt) mirTerm() {}

// Call invokes a function and stores its result into Dest before jumping
// to Target. Call destinations are terminator effects, not assignment
// statements, so statement-level passes do not see them.
type Call struct {
	Dest   Place
	Func   string
	Args   []Operand
	Target BlockID
}

func (t *Call) mirTerm() {}

// Return exits the function, yielding whatever the return slot holds.
type Return struct{}

func (t *Return) mirTerm() {}

// Unreachable marks an invalid control-flow path.
type Unreachable struct{}

func (t *Unreachable) mirTerm() {}
