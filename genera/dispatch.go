package genera

// Call dispatches a generic against the receiver's class. Resolution walks
// the chain from the receiver's concrete class toward the root; the first
// class with a registered implementation wins. Single inheritance makes the
// walk unambiguous. A method on ANY is the wildcard fallback, reached either
// by the walk itself or, for receivers whose class is outside the value
// hierarchy, directly.
//
// The selected implementation's result is returned unchanged. Nothing
// re-checks validity on the way out; mutating methods opt in by calling
// CheckValidity themselves before returning.
func (r *Registry) Call(genericName string, receiver Value, args ...Value) (Value, error) {
	g, ok := r.generics[genericName]
	if !ok {
		return NewNil(), &UnknownGenericError{Name: genericName}
	}
	if got := 1 + len(args); got != len(g.Params) {
		return NewNil(), &ArityError{Generic: genericName, Want: len(g.Params), Got: got}
	}

	start := r.ClassOf(receiver)
	var impl MethodFunc
	for _, def := range r.chain(start) {
		if m, ok := g.methods[def.Name]; ok {
			impl = m
			break
		}
	}
	if impl == nil {
		impl = g.methods[ClassAny]
	}
	if impl == nil {
		return NewNil(), &NoApplicableMethodError{Generic: genericName, Class: start}
	}
	return impl(r, receiver, args)
}
