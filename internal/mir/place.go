package mir

// Place is the base interface for location expressions: anything an
// assignment can write to or a reference can point at.
type Place interface {
	mirPlace()
}

// LocalPlace designates a declared slot directly.
type LocalPlace struct {
	Local Local
}

func (p *LocalPlace) mirPlace() {}

// Projection applies one selector to a base place, e.g. a field access,
// an index, a dereference, or an enum variant downcast.
type Projection struct {
	Base Place
	Elem ProjElem
}

func (p *Projection) mirPlace() {}

// StaticPlace designates a location not rooted in any slot, such as a
// static item. It is opaque to the analyses in this crate slice.
type StaticPlace struct {
	Name string
}

func (p *StaticPlace) mirPlace() {}

// ProjElemKind enumerates projection selectors.
type ProjElemKind int

const (
	ProjField ProjElemKind = iota
	ProjIndex
	ProjDeref
	ProjDowncast
)

// ProjElem is a single projection selector.
type ProjElem struct {
	Kind    ProjElemKind
	Field   int    // field number for ProjField
	Index   Local  // index slot for ProjIndex
	Variant string // variant name for ProjDowncast
}
