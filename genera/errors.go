package genera

import "fmt"

// UnknownClassError reports a class name with no registered definition.
type UnknownClassError struct {
	Name string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("genera: unknown class %q", e.Name)
}

// UnknownGenericError reports a generic name with no registered definition.
type UnknownGenericError struct {
	Name string
}

func (e *UnknownGenericError) Error() string {
	return fmt.Sprintf("genera: unknown generic %q", e.Name)
}

// SchemaConflictError reports a class definition whose slots cannot coexist:
// a duplicate within the class, a collision with an ancestor's slot, or a
// parent chain that would loop back through the class itself.
type SchemaConflictError struct {
	Class  string
	Slot   string
	Reason string
}

func (e *SchemaConflictError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("genera: class %q: slot %q %s", e.Class, e.Slot, e.Reason)
	}
	return fmt.Sprintf("genera: class %q: %s", e.Class, e.Reason)
}

// GenericConflictError reports that defining a generic replaced one of the
// same name from a different origin with an incompatible signature. The
// replacement still happens; callers decide whether shadowing a builtin was
// intended. Registries keep every conflict in Warnings.
type GenericConflictError struct {
	Generic       string
	PriorOrigin   Origin
	PriorSig      string
	ReplacedSig   string
	ReplacedByUsr bool
}

func (e *GenericConflictError) Error() string {
	return fmt.Sprintf("genera: generic %q replaces a %s definition with a different signature (was %s, now %s)",
		e.Generic, e.PriorOrigin, e.PriorSig, e.ReplacedSig)
}

// MismatchKind says which schema rule an attribute value broke.
type MismatchKind int

const (
	MismatchMissing MismatchKind = iota
	MismatchUndeclared
	MismatchWrongType
)

func (k MismatchKind) String() string {
	switch k {
	case MismatchMissing:
		return "missing"
	case MismatchUndeclared:
		return "undeclared"
	case MismatchWrongType:
		return "wrong-type"
	default:
		return fmt.Sprintf("mismatch(%d)", int(k))
	}
}

// TypeMismatchError names the attribute that kept construction from
// admitting an instance: absent from the supplied values, absent from the
// schema, or carrying a value of the wrong class.
type TypeMismatchError struct {
	Class     string
	Attribute string
	Expected  string
	Actual    string
	Kind      MismatchKind
}

func (e *TypeMismatchError) Error() string {
	switch e.Kind {
	case MismatchMissing:
		return fmt.Sprintf("genera: class %q: missing attribute %q (want %s)", e.Class, e.Attribute, e.Expected)
	case MismatchUndeclared:
		return fmt.Sprintf("genera: class %q: attribute %q is not in the schema", e.Class, e.Attribute)
	default:
		return fmt.Sprintf("genera: class %q: attribute %q wants %s, got %s", e.Class, e.Attribute, e.Expected, e.Actual)
	}
}

// ValidityError carries the reason a validity predicate rejected an instance.
type ValidityError struct {
	Class  string
	Reason string
}

func (e *ValidityError) Error() string {
	return fmt.Sprintf("genera: invalid class %q object: %s", e.Class, e.Reason)
}

// NoApplicableMethodError reports a dispatch that found no implementation
// anywhere along the receiver's class chain, wildcard included.
type NoApplicableMethodError struct {
	Generic string
	Class   string
}

func (e *NoApplicableMethodError) Error() string {
	return fmt.Sprintf("genera: no applicable method for %q on class %q", e.Generic, e.Class)
}

// ArityError reports a call whose argument count does not match the
// generic's formal parameters. The receiver counts as the first formal.
type ArityError struct {
	Generic string
	Want    int
	Got     int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("genera: generic %q expects %d arguments, got %d", e.Generic, e.Want, e.Got)
}

// VirtualClassError reports an attempt to construct a class that exists only
// to be inherited from.
type VirtualClassError struct {
	Class string
}

func (e *VirtualClassError) Error() string {
	return fmt.Sprintf("genera: class %q is virtual and cannot be constructed", e.Class)
}

// UnknownRefClassError reports a reference class name with no registered
// definition.
type UnknownRefClassError struct {
	Name string
}

func (e *UnknownRefClassError) Error() string {
	return fmt.Sprintf("genera: unknown reference class %q", e.Name)
}

// UnknownRefMethodError reports a method invocation that found no
// implementation along a reference class chain.
type UnknownRefMethodError struct {
	Class  string
	Method string
}

func (e *UnknownRefMethodError) Error() string {
	return fmt.Sprintf("genera: reference class %q has no method %q", e.Class, e.Method)
}

// ManifestError reports a manifest document that could not be parsed or
// applied. Entry is the offending class or generic name when known.
type ManifestError struct {
	Entry  string
	Reason string
	Err    error
}

func (e *ManifestError) Error() string {
	switch {
	case e.Entry != "" && e.Err != nil:
		return fmt.Sprintf("genera: manifest entry %q: %s: %v", e.Entry, e.Reason, e.Err)
	case e.Entry != "":
		return fmt.Sprintf("genera: manifest entry %q: %s", e.Entry, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("genera: manifest: %s: %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("genera: manifest: %s", e.Reason)
	}
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
