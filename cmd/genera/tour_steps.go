package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/genera-dev/generakit/bioseq"
	"github.com/genera-dev/generakit/genera"
)

// tourState is the live material the steps build up: one registry plus the
// objects earlier steps construct for later ones to reuse.
type tourState struct {
	reg     *genera.Registry
	seq     *genera.Instance
	dna     *genera.Instance
	counter *genera.RefObject
	alias   *genera.RefObject
}

func newTourState() *tourState {
	return &tourState{reg: genera.NewRegistry()}
}

// tourStep is one lesson cell: what the learner reads, the call the cell
// stands for, and the code that runs against the shared state when they
// press enter. Steps where the output is an error message are the point of
// the cell, not a malfunction.
type tourStep struct {
	title     string
	narrative string
	code      string
	run       func(*tourState) (string, bool)
}

func tourSteps() []tourStep {
	return []tourStep{
		{
			title:     "Classes are definitions",
			narrative: "A class is a name, typed slots, and optionally a parent. Defining one registers a schema; nothing is constructed yet.",
			code:      `DefineClass(Seq{alphabet: sequence-of-text, sequence: text})`,
			run: func(s *tourState) (string, bool) {
				if _, err := s.reg.DefineClass(genera.ClassSpec{
					Name: bioseq.ClassSeq,
					Slots: []genera.SlotSpec{
						{Name: "alphabet", Type: genera.ClassTextSeq},
						{Name: "sequence", Type: genera.ClassText},
					},
				}); err != nil {
					return err.Error(), true
				}
				return "registered class Seq with slots alphabet, sequence", false
			},
		},
		{
			title:     "Constructing an instance",
			narrative: "New checks every slot against the schema before the object exists. The builtin show generic renders it.",
			code:      `New(Seq, {alphabet: [A, T], sequence: "ATTA"})`,
			run: func(s *tourState) (string, bool) {
				inst, err := s.reg.New(bioseq.ClassSeq, genera.Attrs{
					"alphabet": genera.NewTextList([]string{"A", "T"}),
					"sequence": genera.NewText("ATTA"),
				})
				if err != nil {
					return err.Error(), true
				}
				s.seq = inst
				shown, err := s.reg.Call("show", genera.NewInstance(inst))
				if err != nil {
					return err.Error(), true
				}
				return shown.Text(), false
			},
		},
		{
			title:     "The schema is enforced",
			narrative: "Leaving out a declared attribute refuses construction. The error below is the behavior being demonstrated.",
			code:      `New(Seq, {alphabet: [A, T]})`,
			run: func(s *tourState) (string, bool) {
				_, err := s.reg.New(bioseq.ClassSeq, genera.Attrs{
					"alphabet": genera.NewTextList([]string{"A", "T"}),
				})
				if err != nil {
					return err.Error(), true
				}
				return "construction unexpectedly succeeded", true
			},
		},
		{
			title:     "Wrong types are refused",
			narrative: "Each value must belong to its slot's declared class, by subclass relation.",
			code:      `New(Seq, {alphabet: 7, sequence: "ATTA"})`,
			run: func(s *tourState) (string, bool) {
				_, err := s.reg.New(bioseq.ClassSeq, genera.Attrs{
					"alphabet": genera.NewNumber(7),
					"sequence": genera.NewText("ATTA"),
				})
				if err != nil {
					return err.Error(), true
				}
				return "construction unexpectedly succeeded", true
			},
		},
		{
			title:     "Validity predicates",
			narrative: "A predicate attached after definition tightens construction: every sequence letter must appear in the alphabet. C and G do not.",
			code:      `SetValidity(Seq, alphabet rule); New(Seq, {..., sequence: "ATCG"})`,
			run: func(s *tourState) (string, bool) {
				if err := s.reg.SetValidity(bioseq.ClassSeq, bioseq.SeqValidity); err != nil {
					return err.Error(), true
				}
				_, err := s.reg.New(bioseq.ClassSeq, genera.Attrs{
					"alphabet": genera.NewTextList([]string{"A", "T"}),
					"sequence": genera.NewText("ATCG"),
				})
				if err != nil {
					return err.Error(), true
				}
				return "construction unexpectedly succeeded", true
			},
		},
		{
			title:     "Subclasses inherit schema and validity",
			narrative: "DNASeq adds an adapter slot on top of Seq's schema. With no predicate of its own, the nearest one in the chain - Seq's - runs.",
			code:      `DefineClass(DNASeq, parent: Seq, {adapter: text}); New(DNASeq, {...})`,
			run: func(s *tourState) (string, bool) {
				if _, err := s.reg.DefineClass(genera.ClassSpec{
					Name:   bioseq.ClassDNASeq,
					Parent: bioseq.ClassSeq,
					Slots:  []genera.SlotSpec{{Name: "adapter", Type: genera.ClassText}},
				}); err != nil {
					return err.Error(), true
				}
				inst, err := s.reg.New(bioseq.ClassDNASeq, genera.Attrs{
					"alphabet": genera.NewTextList([]string{"A", "T"}),
					"sequence": genera.NewText("ATTA"),
					"adapter":  genera.NewText("ACCCA"),
				})
				if err != nil {
					return err.Error(), true
				}
				s.dna = inst
				schema, err := s.reg.EffectiveSchema(bioseq.ClassDNASeq)
				if err != nil {
					return err.Error(), true
				}
				names := make([]string, len(schema))
				for i, slot := range schema {
					names[i] = slot.Name
				}
				return "effective schema: " + strings.Join(names, ", "), false
			},
		},
		{
			title:     "Methods attach to generics",
			narrative: "show and length are builtin generics. Registering Seq-specific methods makes them render and measure sequences.",
			code:      `DefineMethod(show, Seq, ...); DefineMethod(length, Seq, ...)`,
			run: func(s *tourState) (string, bool) {
				if err := s.reg.DefineMethod("show", bioseq.ClassSeq, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					inst := recv.Instance()
					alphabet, _ := inst.Attr("alphabet")
					sequence, _ := inst.Attr("sequence")
					return genera.NewText(fmt.Sprintf("%s %q over alphabet %s", inst.Class.Name, sequence.Text(), alphabet)), nil
				}); err != nil {
					return err.Error(), true
				}
				if err := s.reg.DefineMethod("length", bioseq.ClassSeq, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					sequence, _ := recv.Instance().Attr("sequence")
					return genera.NewNumber(float64(len([]rune(sequence.Text())))), nil
				}); err != nil {
					return err.Error(), true
				}
				shown, err := s.reg.Call("show", genera.NewInstance(s.seq))
				if err != nil {
					return err.Error(), true
				}
				return shown.Text(), false
			},
		},
		{
			title:     "Dispatch walks the chain",
			narrative: "DNASeq has no length method. The walk from DNASeq toward the root finds Seq's, which runs for the subclass unchanged.",
			code:      `Call(length, dna)`,
			run: func(s *tourState) (string, bool) {
				n, err := s.reg.Call("length", genera.NewInstance(s.dna))
				if err != nil {
					return err.Error(), true
				}
				return fmt.Sprintf("length(dna) = %s, via the Seq method", n), false
			},
		},
		{
			title:     "Most specific wins",
			narrative: "Once DNASeq gets its own show method, the walk stops there. Seq instances keep using the Seq method.",
			code:      `DefineMethod(show, DNASeq, ...); Call(show, dna); Call(show, seq)`,
			run: func(s *tourState) (string, bool) {
				if err := s.reg.DefineMethod("show", bioseq.ClassDNASeq, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					inst := recv.Instance()
					sequence, _ := inst.Attr("sequence")
					adapter, _ := inst.Attr("adapter")
					return genera.NewText(fmt.Sprintf("DNA %s with adapter %s", sequence.Text(), adapter.Text())), nil
				}); err != nil {
					return err.Error(), true
				}
				dnaShown, err := s.reg.Call("show", genera.NewInstance(s.dna))
				if err != nil {
					return err.Error(), true
				}
				seqShown, err := s.reg.Call("show", genera.NewInstance(s.seq))
				if err != nil {
					return err.Error(), true
				}
				return "show(dna) = " + dnaShown.Text() + "\nshow(seq) = " + seqShown.Text(), false
			},
		},
		{
			title:     "Shadowing a builtin",
			narrative: "The builtin sequence(from, to) makes number ramps. Defining an accessor under the same name replaces it, and the registry says so.",
			code:      `Call(sequence, 1, 5); DefineGeneric(sequence(x))`,
			run: func(s *tourState) (string, bool) {
				ramp, err := s.reg.Call("sequence", genera.NewNumber(1), genera.NewNumber(5))
				if err != nil {
					return err.Error(), true
				}
				_, err = s.reg.DefineGeneric(genera.GenericSpec{
					Name:   "sequence",
					Params: []string{"x"},
					Origin: genera.OriginUser,
				})
				var conflict *genera.GenericConflictError
				if !errors.As(err, &conflict) {
					return "expected a shadow warning, got none", true
				}
				return "sequence(1, 5) = " + ramp.String() + "\nwarning: " + conflict.Error(), false
			},
		},
		{
			title:     "The builtin is broken",
			narrative: "The replacement generic has one formal, so the old two-argument call no longer fits. This is the pitfall the warning flagged.",
			code:      `Call(sequence, 1, 5)`,
			run: func(s *tourState) (string, bool) {
				_, err := s.reg.Call("sequence", genera.NewNumber(1), genera.NewNumber(5))
				if err != nil {
					return err.Error(), true
				}
				return "call unexpectedly succeeded", true
			},
		},
		{
			title:     "Recovering with a wildcard",
			narrative: "A method on ANY is the fallback for every class the walk misses. Sequences get the accessor; numbers get their ramp back.",
			code:      `DefineMethod(sequence, Seq, accessor); DefineMethod(sequence, ANY, ramp)`,
			run: func(s *tourState) (string, bool) {
				if err := s.reg.DefineMethod("sequence", bioseq.ClassSeq, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					sequence, _ := recv.Instance().Attr("sequence")
					return sequence, nil
				}); err != nil {
					return err.Error(), true
				}
				if err := s.reg.DefineMethod("sequence", genera.ClassAny, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					if recv.Kind() != genera.KindNumber {
						return genera.NewNil(), fmt.Errorf("sequence expects a Seq or a number")
					}
					n := int(recv.Number())
					items := make([]float64, 0, n)
					for i := 1; i <= n; i++ {
						items = append(items, float64(i))
					}
					return genera.NewNumberList(items), nil
				}); err != nil {
					return err.Error(), true
				}
				accessor, err := s.reg.Call("sequence", genera.NewInstance(s.seq))
				if err != nil {
					return err.Error(), true
				}
				ramp, err := s.reg.Call("sequence", genera.NewNumber(5))
				if err != nil {
					return err.Error(), true
				}
				return "sequence(seq) = " + accessor.Text() + "\nsequence(5) = " + ramp.String(), false
			},
		},
		{
			title:     "Mutation means copy, modify, re-validate",
			narrative: "Instances are values. A mutator copies the receiver, writes the change, re-checks validity, and returns the copy; the receiver never moves.",
			code:      `Call(replace, seq, "TTAA"); Call(replace, seq, "AXTA")`,
			run: func(s *tourState) (string, bool) {
				if _, err := s.reg.DefineGeneric(genera.GenericSpec{
					Name:   "replace",
					Params: []string{"x", "value"},
					Origin: genera.OriginUser,
				}); err != nil {
					return err.Error(), true
				}
				if err := s.reg.DefineMethod("replace", bioseq.ClassSeq, func(reg *genera.Registry, recv genera.Value, args []genera.Value) (genera.Value, error) {
					out := recv.Instance().Copy()
					if err := reg.SetAttr(out, "sequence", args[0]); err != nil {
						return genera.NewNil(), err
					}
					if err := reg.CheckValidity(out); err != nil {
						return genera.NewNil(), err
					}
					return genera.NewInstance(out), nil
				}); err != nil {
					return err.Error(), true
				}
				good, err := s.reg.Call("replace", genera.NewInstance(s.seq), genera.NewText("TTAA"))
				if err != nil {
					return err.Error(), true
				}
				replaced, _ := good.Instance().Attr("sequence")
				kept, _ := s.seq.Attr("sequence")
				_, badErr := s.reg.Call("replace", genera.NewInstance(s.seq), genera.NewText("AXTA"))
				if badErr == nil {
					return "invalid replacement unexpectedly accepted", true
				}
				return fmt.Sprintf("replace returned a copy holding %q; the receiver still holds %q\nreplace(seq, \"AXTA\"): %s",
					replaced.Text(), kept.Text(), badErr), false
			},
		},
		{
			title:     "Reference classes share state",
			narrative: "The second class system passes handles, not values. Assignment aliases; a mutation through one name is read through the other.",
			code:      `DefineRefClass(tally{count: number}); alias := counter; counter.bump() twice`,
			run: func(s *tourState) (string, bool) {
				if _, err := s.reg.DefineRefClass(genera.RefClassSpec{
					Name:   "tally",
					Fields: []genera.SlotSpec{{Name: "count", Type: genera.ClassNumber}},
					Methods: map[string]genera.RefMethodFunc{
						"bump": func(reg *genera.Registry, self *genera.RefObject, args []genera.Value) (genera.Value, error) {
							count, _ := self.Field("count")
							next := genera.NewNumber(count.Number() + 1)
							if err := self.SetField("count", next); err != nil {
								return genera.NewNil(), err
							}
							return next, nil
						},
					},
				}); err != nil {
					return err.Error(), true
				}
				obj, err := s.reg.NewRef("tally", genera.Attrs{"count": genera.NewNumber(0)})
				if err != nil {
					return err.Error(), true
				}
				s.counter = obj
				s.alias = obj
				if _, err := s.counter.Invoke("bump"); err != nil {
					return err.Error(), true
				}
				if _, err := s.counter.Invoke("bump"); err != nil {
					return err.Error(), true
				}
				seen, _ := s.alias.Field("count")
				return fmt.Sprintf("bumped twice through one name; the alias reads count = %s", seen), false
			},
		},
		{
			title:     "Copy severs sharing",
			narrative: "Copy is the only way out of aliasing: the copy is a new cell, and handle identity tells the two apart.",
			code:      `snapshot := alias.Copy(); counter.bump()`,
			run: func(s *tourState) (string, bool) {
				snapshot := s.alias.Copy()
				if _, err := s.counter.Invoke("bump"); err != nil {
					return err.Error(), true
				}
				live, _ := s.alias.Field("count")
				kept, _ := snapshot.Field("count")
				return fmt.Sprintf("alias sees %s, the copy still holds %s; Same(alias, copy) = %v",
					live, kept, s.alias.Same(snapshot)), false
			},
		},
		{
			title:     "Introspection",
			narrative: "The registry answers questions about itself. The same queries back the :describe and :methods prompt commands.",
			code:      `DescribeClass(DNASeq)`,
			run: func(s *tourState) (string, bool) {
				desc, err := s.reg.DescribeClass(bioseq.ClassDNASeq)
				if err != nil {
					return err.Error(), true
				}
				return strings.TrimRight(renderDescription(desc), "\n"), false
			},
		},
	}
}
