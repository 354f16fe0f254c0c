package genera

// CheckValidity runs the nearest validity predicate along the instance's
// class chain and wraps a failure reason in a *ValidityError naming the
// instance's concrete class. With no predicate anywhere in the chain the
// instance is trivially valid.
//
// Only the most specific registered predicate runs. A class with its own
// predicate completely replaces an ancestor's; predicates do not chain. A
// subclass predicate that still wants the ancestor's rule restates it.
func (r *Registry) CheckValidity(inst *Instance) error {
	fn := r.nearestValidity(inst.Class.Name)
	if fn == nil {
		return nil
	}
	if err := fn(inst); err != nil {
		return &ValidityError{Class: inst.Class.Name, Reason: err.Error()}
	}
	return nil
}

func (r *Registry) nearestValidity(className string) ValidityFunc {
	for _, def := range r.chain(className) {
		if def.validity != nil {
			return def.validity
		}
	}
	return nil
}
