package genera

import "sort"

// Attrs is the attribute map handed to New and NewRef.
type Attrs map[string]Value

// Instance is a constructed object: a concrete class plus one value per
// slot in the effective schema. Instances have exclusive-owner value
// semantics; mutating generics copy, modify, re-validate, and return the
// copy rather than aliasing. The attribute map is reachable only through
// Attr and SetAttr, so New stays the sole gate into existence.
type Instance struct {
	Class *ClassDef
	attrs map[string]Value
}

// New constructs an instance of className after checking the supplied
// attributes against the effective schema: no virtual classes, no missing
// or undeclared attributes, every value assignable to its declared slot
// type, and finally the nearest validity predicate in the chain. Either all
// checks pass and a fully valid instance is returned, or no instance exists.
func (r *Registry) New(className string, attrs Attrs) (*Instance, error) {
	def, ok := r.classes[className]
	if !ok {
		return nil, &UnknownClassError{Name: className}
	}
	if def.Virtual {
		return nil, &VirtualClassError{Class: className}
	}
	schema, err := r.EffectiveSchema(className)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]struct{}, len(schema))
	values := make(map[string]Value, len(schema))
	for _, slot := range schema {
		declared[slot.Name] = struct{}{}
		v, supplied := attrs[slot.Name]
		if !supplied {
			return nil, &TypeMismatchError{
				Class:     className,
				Attribute: slot.Name,
				Expected:  slot.Type,
				Kind:      MismatchMissing,
			}
		}
		if !r.assignable(v, slot.Type) {
			return nil, &TypeMismatchError{
				Class:     className,
				Attribute: slot.Name,
				Expected:  slot.Type,
				Actual:    r.ClassOf(v),
				Kind:      MismatchWrongType,
			}
		}
		values[slot.Name] = v.copied()
	}
	var extra []string
	for name := range attrs {
		if _, ok := declared[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, &TypeMismatchError{Class: className, Attribute: extra[0], Kind: MismatchUndeclared}
	}

	inst := &Instance{Class: def, attrs: values}
	if err := r.CheckValidity(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Attr reads one attribute. This is the implementer-facing low path; it
// performs no checks beyond existence.
func (inst *Instance) Attr(name string) (Value, bool) {
	v, ok := inst.attrs[name]
	return v, ok
}

// SetAttr writes one attribute in place after checking the value against
// the declared slot type. Validity is deliberately not re-run here; the
// user-facing path is a mutating generic that copies and opts in to
// CheckValidity before returning.
func (r *Registry) SetAttr(inst *Instance, name string, v Value) error {
	schema, err := r.EffectiveSchema(inst.Class.Name)
	if err != nil {
		return err
	}
	for _, slot := range schema {
		if slot.Name != name {
			continue
		}
		if !r.assignable(v, slot.Type) {
			return &TypeMismatchError{
				Class:     inst.Class.Name,
				Attribute: name,
				Expected:  slot.Type,
				Actual:    r.ClassOf(v),
				Kind:      MismatchWrongType,
			}
		}
		inst.attrs[name] = v.copied()
		return nil
	}
	return &TypeMismatchError{Class: inst.Class.Name, Attribute: name, Kind: MismatchUndeclared}
}

// Copy returns an instance sharing no mutable state with the original.
func (inst *Instance) Copy() *Instance {
	attrs := make(map[string]Value, len(inst.attrs))
	for name, v := range inst.attrs {
		attrs[name] = v.copied()
	}
	return &Instance{Class: inst.Class, attrs: attrs}
}

// Equal reports field-wise equality: same class name, same attributes.
// Nested instances compare structurally. A pair already being compared
// counts as equal, so comparison terminates on cyclic attribute graphs.
func (inst *Instance) Equal(other *Instance) bool {
	return inst.equal(other, nil)
}

// instancePair keys the comparisons in progress inside equal.
type instancePair struct{ a, b *Instance }

func (inst *Instance) equal(other *Instance, seen map[instancePair]bool) bool {
	if inst == nil || other == nil {
		return inst == other
	}
	if inst == other {
		return true
	}
	if inst.Class.Name != other.Class.Name {
		return false
	}
	if len(inst.attrs) != len(other.attrs) {
		return false
	}
	pair := instancePair{inst, other}
	if seen[pair] {
		return true
	}
	if seen == nil {
		seen = make(map[instancePair]bool)
	}
	seen[pair] = true
	for name, v := range inst.attrs {
		ov, ok := other.attrs[name]
		if !ok || !v.equal(ov, seen) {
			return false
		}
	}
	return true
}

// AttrNames returns the instance's attribute names, sorted.
func (inst *Instance) AttrNames() []string {
	return sortedKeys(inst.attrs)
}
