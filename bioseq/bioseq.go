// Package bioseq is a worked embedding of the genera object model: the
// biological-sequence classes, their validity rules, and the generics that
// operate on them. Hosts that want the lesson material call Install against
// a registry; everything else goes through the genera API.
package bioseq

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/genera-dev/generakit/genera"
)

// Class names registered by Install.
const (
	ClassSeq    = "Seq"
	ClassDNASeq = "DNASeq"
	ClassRNASeq = "RNASeq"
)

var (
	dnaPairs = map[rune]rune{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}
	rnaPairs = map[rune]rune{'A': 'U', 'U': 'A', 'C': 'G', 'G': 'C'}
)

// Install registers the sequence hierarchy and its generics:
//
//   - Seq with slots alphabet and sequence, valid when every letter of the
//     sequence appears in the alphabet;
//   - DNASeq adding an adapter slot, inheriting Seq's validity;
//   - RNASeq with its own validity predicate, which restates the alphabet
//     rule and pins the alphabet to the four RNA bases;
//   - methods on the builtin show and length for Seq;
//   - a sequence accessor that deliberately reuses the builtin's name (the
//     conflict lands in Warnings) plus a wildcard method restoring ramps for
//     numbers;
//   - reverse and replace on Seq, complement on DNASeq and RNASeq.
func Install(reg *genera.Registry) error {
	if _, err := reg.DefineClass(genera.ClassSpec{
		Name: ClassSeq,
		Slots: []genera.SlotSpec{
			{Name: "alphabet", Type: genera.ClassTextSeq},
			{Name: "sequence", Type: genera.ClassText},
		},
		Validity: SeqValidity,
	}); err != nil {
		return err
	}
	if _, err := reg.DefineClass(genera.ClassSpec{
		Name:   ClassDNASeq,
		Parent: ClassSeq,
		Slots:  []genera.SlotSpec{{Name: "adapter", Type: genera.ClassText}},
	}); err != nil {
		return err
	}
	if _, err := reg.DefineClass(genera.ClassSpec{
		Name:     ClassRNASeq,
		Parent:   ClassSeq,
		Validity: rnaValidity,
	}); err != nil {
		return err
	}

	if err := reg.DefineMethod("show", ClassSeq, showSeq); err != nil {
		return err
	}
	if err := reg.DefineMethod("length", ClassSeq, lengthSeq); err != nil {
		return err
	}

	// Reusing the builtin's name replaces sequence(from, to) wholesale; the
	// wildcard method below brings back a usable behavior for numbers.
	if _, err := reg.DefineGeneric(genera.GenericSpec{
		Name:   "sequence",
		Params: []string{"x"},
		Origin: genera.OriginUser,
	}); err != nil {
		var conflict *genera.GenericConflictError
		if !errors.As(err, &conflict) {
			return err
		}
	}
	if err := reg.DefineMethod("sequence", ClassSeq, sequenceSeq); err != nil {
		return err
	}
	if err := reg.DefineMethod("sequence", genera.ClassAny, sequenceRamp); err != nil {
		return err
	}

	if _, err := reg.DefineGeneric(genera.GenericSpec{
		Name:   "reverse",
		Params: []string{"x"},
		Origin: genera.OriginUser,
	}); err != nil {
		return err
	}
	if err := reg.DefineMethod("reverse", ClassSeq, reverseSeq); err != nil {
		return err
	}

	if _, err := reg.DefineGeneric(genera.GenericSpec{
		Name:   "complement",
		Params: []string{"x"},
		Origin: genera.OriginUser,
	}); err != nil {
		return err
	}
	if err := reg.DefineMethod("complement", ClassDNASeq, complementWith(dnaPairs)); err != nil {
		return err
	}
	if err := reg.DefineMethod("complement", ClassRNASeq, complementWith(rnaPairs)); err != nil {
		return err
	}

	if _, err := reg.DefineGeneric(genera.GenericSpec{
		Name:   "replace",
		Params: []string{"x", "value"},
		Origin: genera.OriginUser,
	}); err != nil {
		return err
	}
	if err := reg.DefineMethod("replace", ClassSeq, replaceSeq); err != nil {
		return err
	}
	return nil
}

// SeqValidity is the lesson's rule: every letter of the sequence must appear
// in the alphabet. Exported so hosts can attach it after the fact and walk
// through the same define-then-tighten arc the lesson does.
func SeqValidity(inst *genera.Instance) error {
	alphabet, _ := inst.Attr("alphabet")
	sequence, _ := inst.Attr("sequence")
	allowed := make(map[rune]struct{})
	for _, letter := range alphabet.TextList() {
		for _, r := range letter {
			allowed[r] = struct{}{}
		}
	}
	for _, r := range sequence.Text() {
		if _, ok := allowed[r]; !ok {
			return fmt.Errorf("letter %q is not in the alphabet", string(r))
		}
	}
	return nil
}

// rnaValidity restates the alphabet rule before its own check; predicates do
// not chain, so a subclass that still wants the ancestor's rule repeats it.
func rnaValidity(inst *genera.Instance) error {
	if err := SeqValidity(inst); err != nil {
		return err
	}
	alphabet, _ := inst.Attr("alphabet")
	for _, letter := range alphabet.TextList() {
		switch letter {
		case "A", "C", "G", "U":
		default:
			return fmt.Errorf("letter %q is not an RNA base", letter)
		}
	}
	return nil
}

func showSeq(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	inst := recv.Instance()
	alphabet, _ := inst.Attr("alphabet")
	sequence, _ := inst.Attr("sequence")
	return genera.NewText(fmt.Sprintf("%s %q over alphabet %s", inst.Class.Name, sequence.Text(), alphabet)), nil
}

func lengthSeq(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	sequence, _ := recv.Instance().Attr("sequence")
	return genera.NewNumber(float64(utf8.RuneCountInString(sequence.Text()))), nil
}

func sequenceSeq(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	sequence, _ := recv.Instance().Attr("sequence")
	return sequence, nil
}

// sequenceRamp is the wildcard recovery for the shadowed builtin: for a
// number n it produces the ramp 1..n.
func sequenceRamp(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	if recv.Kind() != genera.KindNumber {
		return genera.NewNil(), fmt.Errorf("bioseq: sequence expects a Seq or a number, got %s", reg.ClassOf(recv))
	}
	n := int(recv.Number())
	items := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, float64(i))
	}
	return genera.NewNumberList(items), nil
}

func reverseSeq(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	sequence, _ := recv.Instance().Attr("sequence")
	runes := []rune(sequence.Text())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return updateSequence(reg, recv.Instance(), string(runes))
}

func complementWith(pairs map[rune]rune) genera.MethodFunc {
	return func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
		sequence, _ := recv.Instance().Attr("sequence")
		var b strings.Builder
		for _, r := range sequence.Text() {
			partner, ok := pairs[r]
			if !ok {
				return genera.NewNil(), fmt.Errorf("bioseq: no complement for letter %q", string(r))
			}
			b.WriteRune(partner)
		}
		return updateSequence(reg, recv.Instance(), b.String())
	}
}

func replaceSeq(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
	if args[0].Kind() != genera.KindText {
		return genera.NewNil(), fmt.Errorf("bioseq: replace expects text, got %s", reg.ClassOf(args[0]))
	}
	return updateSequence(reg, recv.Instance(), args[0].Text())
}

// updateSequence is the mutator contract in one place: copy, write the new
// sequence, re-check validity, return the copy. The receiver is never
// touched.
func updateSequence(reg *genera.Registry, inst *genera.Instance, sequence string) (genera.Value, error) {
	out := inst.Copy()
	if err := reg.SetAttr(out, "sequence", genera.NewText(sequence)); err != nil {
		return genera.NewNil(), err
	}
	if err := reg.CheckValidity(out); err != nil {
		return genera.NewNil(), err
	}
	return genera.NewInstance(out), nil
}
