package genera

import "fmt"

// RefMethodFunc is one method of a reference class. It receives the shared
// handle and may mutate its fields in place; whatever it writes is visible
// to every holder of the handle.
type RefMethodFunc func(reg *Registry, self *RefObject, args []Value) (Value, error)

// RefClassSpec is the input to DefineRefClass. Reference classes live in
// their own namespace, separate from value classes, with their own parent
// chain. An empty Parent means no parent; there is no ANY root here.
type RefClassSpec struct {
	Name    string
	Parent  string
	Fields  []SlotSpec
	Methods map[string]RefMethodFunc
}

// RefClassDef is a registered reference class.
type RefClassDef struct {
	Name    string
	Parent  string
	Fields  []SlotSpec
	methods map[string]RefMethodFunc
}

// RefObject is the pass-by-reference counterpart to Instance, and it is a
// deliberately separate type: assigning or passing a *RefObject shares the
// underlying state, so a mutation through any holder is seen by all of
// them. Nothing converts between instances and reference objects
// implicitly. Copy is the only way to sever the sharing.
type RefObject struct {
	Class  *RefClassDef
	reg    *Registry
	fields map[string]Value
}

// DefineRefClass registers or wholesale-replaces a reference class, under
// the same schema rules as value classes: parent must exist, no duplicate
// or ancestor-colliding fields, every field type known.
func (r *Registry) DefineRefClass(spec RefClassSpec) (*RefClassDef, error) {
	if spec.Name == "" {
		return nil, &SchemaConflictError{Class: spec.Name, Reason: "name cannot be empty"}
	}
	if spec.Parent != "" {
		if _, ok := r.refs[spec.Parent]; !ok {
			return nil, &UnknownRefClassError{Name: spec.Parent}
		}
		for _, def := range r.refChain(spec.Parent) {
			if def.Name == spec.Name {
				return nil, &SchemaConflictError{
					Class:  spec.Name,
					Reason: fmt.Sprintf("parent %q would make the class an ancestor of itself", spec.Parent),
				}
			}
		}
	}

	inherited := make(map[string]string)
	for _, def := range r.refChain(spec.Parent) {
		for _, field := range def.Fields {
			inherited[field.Name] = def.Name
		}
	}
	own := make(map[string]struct{}, len(spec.Fields))
	for _, field := range spec.Fields {
		if field.Name == "" {
			return nil, &SchemaConflictError{Class: spec.Name, Reason: "field name cannot be empty"}
		}
		if field.Type == "" {
			return nil, &SchemaConflictError{Class: spec.Name, Slot: field.Name, Reason: "has no declared type"}
		}
		if _, dup := own[field.Name]; dup {
			return nil, &SchemaConflictError{Class: spec.Name, Slot: field.Name, Reason: "declared twice"}
		}
		own[field.Name] = struct{}{}
		if ancestor, taken := inherited[field.Name]; taken {
			return nil, &SchemaConflictError{
				Class:  spec.Name,
				Slot:   field.Name,
				Reason: fmt.Sprintf("already declared by ancestor %q", ancestor),
			}
		}
		if !r.typeNameKnown(field.Type, spec.Name) {
			return nil, &UnknownClassError{Name: field.Type}
		}
	}

	methods := make(map[string]RefMethodFunc, len(spec.Methods))
	for name, fn := range spec.Methods {
		if name == "" {
			return nil, &SchemaConflictError{Class: spec.Name, Reason: "method name cannot be empty"}
		}
		if fn == nil {
			return nil, &SchemaConflictError{Class: spec.Name, Reason: fmt.Sprintf("method %q cannot be nil", name)}
		}
		methods[name] = fn
	}

	def := &RefClassDef{
		Name:    spec.Name,
		Parent:  spec.Parent,
		Fields:  append([]SlotSpec(nil), spec.Fields...),
		methods: methods,
	}
	r.refs[spec.Name] = def
	return def, nil
}

// NewRef constructs a reference object under the same completeness and
// typing rules as New. The returned handle stays bound to this registry for
// method lookup and field type checks.
func (r *Registry) NewRef(className string, attrs Attrs) (*RefObject, error) {
	if _, ok := r.refs[className]; !ok {
		return nil, &UnknownRefClassError{Name: className}
	}
	schema := r.refSchema(className)

	declared := make(map[string]struct{}, len(schema))
	fields := make(map[string]Value, len(schema))
	for _, field := range schema {
		declared[field.Name] = struct{}{}
		v, supplied := attrs[field.Name]
		if !supplied {
			return nil, &TypeMismatchError{
				Class:     className,
				Attribute: field.Name,
				Expected:  field.Type,
				Kind:      MismatchMissing,
			}
		}
		if !r.assignable(v, field.Type) {
			return nil, &TypeMismatchError{
				Class:     className,
				Attribute: field.Name,
				Expected:  field.Type,
				Actual:    r.ClassOf(v),
				Kind:      MismatchWrongType,
			}
		}
		fields[field.Name] = v.copied()
	}
	for name := range attrs {
		if _, ok := declared[name]; !ok {
			return nil, &TypeMismatchError{Class: className, Attribute: name, Kind: MismatchUndeclared}
		}
	}

	return &RefObject{Class: r.refs[className], reg: r, fields: fields}, nil
}

// RefClass returns the reference class registered under name.
func (r *Registry) RefClass(name string) (*RefClassDef, error) {
	def, ok := r.refs[name]
	if !ok {
		return nil, &UnknownRefClassError{Name: name}
	}
	return def, nil
}

// refSchema returns the effective field list, root-most ancestor first.
func (r *Registry) refSchema(name string) []SlotSpec {
	defs := r.refChain(name)
	var fields []SlotSpec
	for i := len(defs) - 1; i >= 0; i-- {
		fields = append(fields, defs[i].Fields...)
	}
	return fields
}

func (r *Registry) refChain(name string) []*RefClassDef {
	var defs []*RefClassDef
	seen := make(map[string]struct{})
	for cur := name; cur != ""; {
		if _, dup := seen[cur]; dup {
			break
		}
		seen[cur] = struct{}{}
		def, ok := r.refs[cur]
		if !ok {
			break
		}
		defs = append(defs, def)
		cur = def.Parent
	}
	return defs
}

func (r *Registry) isRefSubclassOf(candidate, ancestor string) bool {
	for _, def := range r.refChain(candidate) {
		if def.Name == ancestor {
			return true
		}
	}
	return false
}

// Field reads one field of the shared state.
func (o *RefObject) Field(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// SetField writes one field of the shared state after checking the value
// against the declared field type. Every holder of the handle sees the
// write.
func (o *RefObject) SetField(name string, v Value) error {
	for _, field := range o.reg.refSchema(o.Class.Name) {
		if field.Name != name {
			continue
		}
		if !o.reg.assignable(v, field.Type) {
			return &TypeMismatchError{
				Class:     o.Class.Name,
				Attribute: name,
				Expected:  field.Type,
				Actual:    o.reg.ClassOf(v),
				Kind:      MismatchWrongType,
			}
		}
		o.fields[name] = v.copied()
		return nil
	}
	return &TypeMismatchError{Class: o.Class.Name, Attribute: name, Kind: MismatchUndeclared}
}

// Invoke resolves a method by walking the reference class chain, most
// specific first, and runs it against the shared state.
func (o *RefObject) Invoke(method string, args ...Value) (Value, error) {
	for _, def := range o.reg.refChain(o.Class.Name) {
		if fn, ok := def.methods[method]; ok {
			return fn(o.reg, o, args)
		}
	}
	return NewNil(), &UnknownRefMethodError{Class: o.Class.Name, Method: method}
}

// Copy returns a new handle over an independent copy of the cell. List
// fields are cloned; fields holding other reference objects keep their
// handles, so only this object's sharing is severed.
func (o *RefObject) Copy() *RefObject {
	fields := make(map[string]Value, len(o.fields))
	for name, v := range o.fields {
		fields[name] = v.copied()
	}
	return &RefObject{Class: o.Class, reg: o.reg, fields: fields}
}

// Same reports handle identity: whether both names refer to one shared
// cell. Field-wise comparison is deliberately not offered here; two
// independent cells are never "the same" even when their fields match.
func (o *RefObject) Same(other *RefObject) bool {
	return o == other
}

// FieldNames returns the object's field names, sorted.
func (o *RefObject) FieldNames() []string {
	return sortedKeys(o.fields)
}
