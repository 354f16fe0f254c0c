package genera

import (
	"fmt"
	"strings"
)

// Origin says where a generic definition came from. Builtin generics are
// seeded by NewRegistry; everything registered afterwards is user origin.
// Replacing a generic across origins with a different signature is the
// shadowing condition DefineGeneric warns about.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginUser
)

func (o Origin) String() string {
	switch o {
	case OriginBuiltin:
		return "builtin"
	case OriginUser:
		return "user"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// GenericSpec is the input to DefineGeneric. Params is the formal parameter
// list every implementation matches positionally; the receiver is the first
// formal, so Params is never empty.
type GenericSpec struct {
	Name   string
	Params []string
	Origin Origin
}

// Generic is a named polymorphic operation with one implementation per
// class. Implementations are installed with DefineMethod and resolved by
// Call walking the receiver's class chain.
type Generic struct {
	Name    string
	Params  []string
	Origin  Origin
	methods map[string]MethodFunc
}

// Signature renders the formal parameter shape, e.g. "length(x)".
func (g *Generic) Signature() string {
	return g.Name + "(" + strings.Join(g.Params, ", ") + ")"
}

func sameShape(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DefineGeneric registers a polymorphic operation. Re-registering an
// identical signature returns the existing generic untouched, methods
// included. A different signature replaces the generic wholesale, dropping
// every registered method; when the replaced generic came from a different
// origin the replacement still happens, but a *GenericConflictError is
// returned alongside the new generic and recorded in Warnings. That is the
// "shadowed a builtin" condition: recoverable by registering a wildcard
// method on ANY.
func (r *Registry) DefineGeneric(spec GenericSpec) (*Generic, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("genera: generic name cannot be empty")
	}
	if len(spec.Params) == 0 {
		return nil, fmt.Errorf("genera: generic %q needs at least the receiver formal", spec.Name)
	}
	for _, p := range spec.Params {
		if p == "" {
			return nil, fmt.Errorf("genera: generic %q has an empty formal name", spec.Name)
		}
	}

	prior, exists := r.generics[spec.Name]
	if exists && sameShape(prior.Params, spec.Params) {
		return prior, nil
	}

	g := &Generic{
		Name:    spec.Name,
		Params:  append([]string(nil), spec.Params...),
		Origin:  spec.Origin,
		methods: make(map[string]MethodFunc),
	}
	r.generics[spec.Name] = g

	if exists && prior.Origin != spec.Origin {
		conflict := &GenericConflictError{
			Generic:       spec.Name,
			PriorOrigin:   prior.Origin,
			PriorSig:      prior.Signature(),
			ReplacedSig:   g.Signature(),
			ReplacedByUsr: spec.Origin == OriginUser,
		}
		r.warnings = append(r.warnings, conflict)
		return g, conflict
	}
	return g, nil
}

// DefineMethod installs the implementation of a generic for one class,
// replacing any prior implementation for that (generic, class) pair.
// Registering against ANY installs the wildcard fallback.
func (r *Registry) DefineMethod(genericName, className string, impl MethodFunc) error {
	g, ok := r.generics[genericName]
	if !ok {
		return &UnknownGenericError{Name: genericName}
	}
	if _, ok := r.classes[className]; !ok {
		return &UnknownClassError{Name: className}
	}
	if impl == nil {
		return fmt.Errorf("genera: method %s on %q cannot be nil", g.Signature(), className)
	}
	g.methods[className] = impl
	return nil
}

// RemoveMethod drops the implementation registered for the pair and reports
// whether one was there to drop.
func (r *Registry) RemoveMethod(genericName, className string) (bool, error) {
	g, ok := r.generics[genericName]
	if !ok {
		return false, &UnknownGenericError{Name: genericName}
	}
	if _, had := g.methods[className]; !had {
		return false, nil
	}
	delete(g.methods, className)
	return true, nil
}

// Generic returns the generic registered under name.
func (r *Registry) Generic(name string) (*Generic, error) {
	g, ok := r.generics[name]
	if !ok {
		return nil, &UnknownGenericError{Name: name}
	}
	return g, nil
}
