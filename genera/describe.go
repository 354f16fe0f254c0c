package genera

// ClassDescription is the introspection view of one class: its place in the
// hierarchy, its own slots, the schema an instance actually carries, and
// which class in the chain supplies the validity predicate that would run.
type ClassDescription struct {
	Name         string
	Parent       string
	Virtual      bool
	Own          []SlotSpec
	Effective    []SlotSpec
	ValidityFrom string
}

// MethodInfo is one row of a generic's method table.
type MethodInfo struct {
	Class     string
	Signature string
}

// DescribeClass reports everything registered about one class.
func (r *Registry) DescribeClass(name string) (ClassDescription, error) {
	def, ok := r.classes[name]
	if !ok {
		return ClassDescription{}, &UnknownClassError{Name: name}
	}
	effective, err := r.EffectiveSchema(name)
	if err != nil {
		return ClassDescription{}, err
	}
	desc := ClassDescription{
		Name:      def.Name,
		Parent:    def.Parent,
		Virtual:   def.Virtual,
		Own:       append([]SlotSpec(nil), def.Slots...),
		Effective: effective,
	}
	for _, c := range r.chain(name) {
		if c.validity != nil {
			desc.ValidityFrom = c.Name
			break
		}
	}
	return desc, nil
}

// Methods lists a generic's registered implementations, one per class,
// sorted by class name.
func (r *Registry) Methods(genericName string) ([]MethodInfo, error) {
	g, ok := r.generics[genericName]
	if !ok {
		return nil, &UnknownGenericError{Name: genericName}
	}
	infos := make([]MethodInfo, 0, len(g.methods))
	for _, class := range sortedKeys(g.methods) {
		infos = append(infos, MethodInfo{Class: class, Signature: g.Signature()})
	}
	return infos, nil
}

// Classes lists every registered value class name, sorted.
func (r *Registry) Classes() []string {
	return sortedKeys(r.classes)
}

// Generics lists every registered generic name, sorted.
func (r *Registry) Generics() []string {
	return sortedKeys(r.generics)
}

// RefClasses lists every registered reference class name, sorted.
func (r *Registry) RefClasses() []string {
	return sortedKeys(r.refs)
}
