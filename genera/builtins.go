package genera

import (
	"fmt"
	"unicode/utf8"
)

var builtinClassNames = map[string]struct{}{
	ClassAny:       {},
	ClassNull:      {},
	ClassBool:      {},
	ClassNumber:    {},
	ClassText:      {},
	ClassTextSeq:   {},
	ClassNumberSeq: {},
}

// seedClasses installs the primordial hierarchy directly: the virtual root
// ANY and the value classes that give plain values a place in the dispatch
// chain. These exist before DefineClass can run, since DefineClass resolves
// parents against the registry.
func (r *Registry) seedClasses() {
	r.classes[ClassAny] = &ClassDef{Name: ClassAny, Virtual: true}
	for name := range builtinClassNames {
		if name == ClassAny {
			continue
		}
		r.classes[name] = &ClassDef{Name: name, Parent: ClassAny}
	}
}

// seedGenerics installs the builtin generics:
//
//   - show(object): renders any value as text; the ANY method makes every
//     value displayable until a class registers something prettier.
//   - length(x): element or character count for text and sequences.
//   - sequence(from, to): the numeric range builtin. Registered on number,
//     not ANY, so a user generic that replaces it leaves numbers without a
//     method until a wildcard is installed. That is the shadowing scenario
//     DefineGeneric warns about.
func (r *Registry) seedGenerics() {
	show, _ := r.DefineGeneric(GenericSpec{Name: "show", Params: []string{"object"}, Origin: OriginBuiltin})
	show.methods[ClassAny] = builtinShow

	length, _ := r.DefineGeneric(GenericSpec{Name: "length", Params: []string{"x"}, Origin: OriginBuiltin})
	length.methods[ClassText] = builtinLengthText
	length.methods[ClassTextSeq] = builtinLengthTextSeq
	length.methods[ClassNumberSeq] = builtinLengthNumberSeq

	seq, _ := r.DefineGeneric(GenericSpec{Name: "sequence", Params: []string{"from", "to"}, Origin: OriginBuiltin})
	seq.methods[ClassNumber] = builtinSequence
}

func builtinShow(reg *Registry, recv Value, args []Value) (Value, error) {
	return NewText(recv.String()), nil
}

func builtinLengthText(reg *Registry, recv Value, args []Value) (Value, error) {
	return NewNumber(float64(utf8.RuneCountInString(recv.Text()))), nil
}

func builtinLengthTextSeq(reg *Registry, recv Value, args []Value) (Value, error) {
	return NewNumber(float64(len(recv.TextList()))), nil
}

func builtinLengthNumberSeq(reg *Registry, recv Value, args []Value) (Value, error) {
	return NewNumber(float64(len(recv.NumberList()))), nil
}

func builtinSequence(reg *Registry, recv Value, args []Value) (Value, error) {
	if args[0].Kind() != KindNumber {
		return NewNil(), fmt.Errorf("genera: sequence expects a number upper bound, got %s", reg.ClassOf(args[0]))
	}
	from, to := recv.Number(), args[0].Number()
	var items []float64
	if from <= to {
		for v := from; v <= to; v++ {
			items = append(items, v)
		}
	} else {
		for v := from; v >= to; v-- {
			items = append(items, v)
		}
	}
	return NewNumberList(items), nil
}
