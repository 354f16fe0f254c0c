package genera

// Builtin class names seeded into every registry. ANY is the virtual root of
// the hierarchy; a method registered on it is the wildcard fallback for
// dispatch. The value classes give plain values a place in the chain and
// double as slot types.
const (
	ClassAny       = "ANY"
	ClassNull      = "null"
	ClassBool      = "bool"
	ClassNumber    = "number"
	ClassText      = "text"
	ClassTextSeq   = "sequence-of-text"
	ClassNumberSeq = "sequence-of-number"
)

// SlotSpec is one named, typed attribute of a class schema. Type names a
// registered class; values are accepted by subclass relation, so a slot typed
// ANY takes anything.
type SlotSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ClassSpec is the input to DefineClass. A zero Parent means the class hangs
// directly off ANY. Virtual classes cannot be constructed. Validity, when
// set, becomes the class's own predicate; subclasses without one inherit it
// as the nearest predicate in their chain.
type ClassSpec struct {
	Name     string
	Parent   string
	Virtual  bool
	Slots    []SlotSpec
	Validity ValidityFunc
}

// ClassDef is a registered class. Parent is a name, not a pointer; chain
// walks resolve it through the registry so a wholesale redefinition of an
// ancestor is seen by every descendant.
type ClassDef struct {
	Name     string
	Parent   string
	Virtual  bool
	Slots    []SlotSpec
	validity ValidityFunc
}

// Validity returns the class's own predicate, nil when none is attached.
// Ancestor predicates are not consulted here; CheckValidity does the chain
// walk.
func (c *ClassDef) Validity() ValidityFunc {
	return c.validity
}
