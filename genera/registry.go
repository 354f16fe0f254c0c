package genera

import (
	"fmt"
	"sort"
)

// Registry is the arena every definition lives in: value classes, generics
// with their method tables, and reference classes. A zero Registry is not
// usable; NewRegistry seeds the builtin classes and generics.
//
// The registry is not synchronized. The embedding contract is that all
// definition calls finish before construction and dispatch begin; after that
// point concurrent readers are safe.
type Registry struct {
	classes  map[string]*ClassDef
	generics map[string]*Generic
	refs     map[string]*RefClassDef
	warnings []*GenericConflictError
}

// NewRegistry constructs a registry pre-seeded with the builtin class
// hierarchy (the virtual root ANY plus the value classes) and the builtin
// generics show, length, and sequence.
func NewRegistry() *Registry {
	r := &Registry{
		classes:  make(map[string]*ClassDef),
		generics: make(map[string]*Generic),
		refs:     make(map[string]*RefClassDef),
	}
	r.seedClasses()
	r.seedGenerics()
	return r
}

// DefineClass registers or wholesale-replaces a class. The parent must
// already be registered, every slot type must name a registered class (the
// class's own name is allowed, for self-referential schemas), and no slot
// may collide with one declared by an ancestor.
func (r *Registry) DefineClass(spec ClassSpec) (*ClassDef, error) {
	if spec.Name == "" {
		return nil, &SchemaConflictError{Class: spec.Name, Reason: "name cannot be empty"}
	}
	parent := spec.Parent
	if parent == "" {
		parent = ClassAny
	}
	if _, ok := r.classes[parent]; !ok {
		return nil, &UnknownClassError{Name: parent}
	}
	for _, def := range r.chain(parent) {
		if def.Name == spec.Name {
			return nil, &SchemaConflictError{
				Class:  spec.Name,
				Reason: fmt.Sprintf("parent %q would make the class an ancestor of itself", parent),
			}
		}
	}

	inherited := make(map[string]string)
	for _, def := range r.chain(parent) {
		for _, slot := range def.Slots {
			inherited[slot.Name] = def.Name
		}
	}
	own := make(map[string]struct{}, len(spec.Slots))
	for _, slot := range spec.Slots {
		if slot.Name == "" {
			return nil, &SchemaConflictError{Class: spec.Name, Reason: "slot name cannot be empty"}
		}
		if slot.Type == "" {
			return nil, &SchemaConflictError{Class: spec.Name, Slot: slot.Name, Reason: "has no declared type"}
		}
		if _, dup := own[slot.Name]; dup {
			return nil, &SchemaConflictError{Class: spec.Name, Slot: slot.Name, Reason: "declared twice"}
		}
		own[slot.Name] = struct{}{}
		if ancestor, taken := inherited[slot.Name]; taken {
			return nil, &SchemaConflictError{
				Class:  spec.Name,
				Slot:   slot.Name,
				Reason: fmt.Sprintf("already declared by ancestor %q", ancestor),
			}
		}
		if !r.typeNameKnown(slot.Type, spec.Name) {
			return nil, &UnknownClassError{Name: slot.Type}
		}
	}

	def := &ClassDef{
		Name:     spec.Name,
		Parent:   parent,
		Virtual:  spec.Virtual,
		Slots:    append([]SlotSpec(nil), spec.Slots...),
		validity: spec.Validity,
	}
	r.classes[spec.Name] = def
	return def, nil
}

// typeNameKnown reports whether a slot type resolves to something values can
// be checked against: a registered class, a registered reference class, or
// the class currently being defined.
func (r *Registry) typeNameKnown(typeName, defining string) bool {
	if typeName == defining {
		return true
	}
	if _, ok := r.classes[typeName]; ok {
		return true
	}
	_, ok := r.refs[typeName]
	return ok
}

// Class returns the definition registered under name.
func (r *Registry) Class(name string) (*ClassDef, error) {
	def, ok := r.classes[name]
	if !ok {
		return nil, &UnknownClassError{Name: name}
	}
	return def, nil
}

// SetValidity attaches a validity predicate to an already-registered class,
// replacing any prior one. A nil fn detaches the predicate. Instances
// constructed before the call are not re-checked.
func (r *Registry) SetValidity(name string, fn ValidityFunc) error {
	def, ok := r.classes[name]
	if !ok {
		return &UnknownClassError{Name: name}
	}
	def.validity = fn
	return nil
}

// EffectiveSchema returns the class's full attribute schema: ancestor slots
// first, root-most ancestor leading, then the class's own slots.
func (r *Registry) EffectiveSchema(name string) ([]SlotSpec, error) {
	defs := r.chain(name)
	if len(defs) == 0 {
		return nil, &UnknownClassError{Name: name}
	}
	var slots []SlotSpec
	for i := len(defs) - 1; i >= 0; i-- {
		slots = append(slots, defs[i].Slots...)
	}
	return slots, nil
}

// IsSubclassOf reports whether ancestor is reachable from candidate along
// the parent chain. Every registered class is a subclass of itself and of
// ANY. Unregistered names are subclasses of nothing.
func (r *Registry) IsSubclassOf(candidate, ancestor string) bool {
	for _, def := range r.chain(candidate) {
		if def.Name == ancestor {
			return true
		}
	}
	return false
}

// ClassOf returns the class name a value dispatches under. Plain values
// report their builtin value class; instances and reference objects report
// their concrete class.
func (r *Registry) ClassOf(v Value) string {
	switch v.Kind() {
	case KindNil:
		return ClassNull
	case KindBool:
		return ClassBool
	case KindNumber:
		return ClassNumber
	case KindText:
		return ClassText
	case KindTextList:
		return ClassTextSeq
	case KindNumberList:
		return ClassNumberSeq
	case KindInstance:
		return v.Instance().Class.Name
	case KindRef:
		return v.Ref().Class.Name
	default:
		return ClassAny
	}
}

// Warnings returns every generic conflict recorded so far, oldest first.
// Conflicts are non-fatal; they accumulate here so an embedder can surface
// them after a batch of definitions.
func (r *Registry) Warnings() []*GenericConflictError {
	return append([]*GenericConflictError(nil), r.warnings...)
}

// chain returns the definitions from name up to the root, most specific
// first. Unknown names yield an empty chain. The seen set guards against
// malformed parent loops; DefineClass rejects those, so the guard only
// matters for registries mutated mid-walk.
func (r *Registry) chain(name string) []*ClassDef {
	var defs []*ClassDef
	seen := make(map[string]struct{})
	for cur := name; cur != ""; {
		if _, dup := seen[cur]; dup {
			break
		}
		seen[cur] = struct{}{}
		def, ok := r.classes[cur]
		if !ok {
			break
		}
		defs = append(defs, def)
		cur = def.Parent
	}
	return defs
}

// assignable reports whether a value can occupy a slot declared with
// typeName. ANY takes everything; otherwise the value's class must be a
// subclass of the declared type in whichever namespace it lives in.
func (r *Registry) assignable(v Value, typeName string) bool {
	if typeName == ClassAny {
		return true
	}
	cls := r.ClassOf(v)
	if r.IsSubclassOf(cls, typeName) {
		return true
	}
	if v.Kind() == KindRef {
		return r.isRefSubclassOf(cls, typeName)
	}
	return false
}

// sortedKeys is shared by the introspection queries and error reporting.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
