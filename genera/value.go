package genera

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindText
	KindTextList
	KindNumberList
	KindInstance
	KindRef
)

type Value struct {
	kind ValueKind
	data any
}

// MethodFunc is one class-specific implementation of a generic. The receiver
// arrives separately from the remaining positional arguments; the registry is
// passed so implementations can construct, dispatch, and re-validate.
type MethodFunc func(reg *Registry, recv Value, args []Value) (Value, error)

// ValidityFunc inspects a fully-populated instance and reports why it is
// invalid, or nil when it passes.
type ValidityFunc func(inst *Instance) error
