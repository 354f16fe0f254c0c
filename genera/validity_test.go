package genera

import (
	"errors"
	"strings"
	"testing"
)

func requireArtists(inst *Instance) error {
	artists, _ := inst.Attr("artists")
	if len(artists.TextList()) == 0 {
		return errors.New("artists must not be empty")
	}
	return nil
}

func TestValidityBlocksConstruction(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	if err := r.SetValidity("track", requireArtists); err != nil {
		t.Fatalf("set validity: %v", err)
	}

	attrs := trackAttrs()
	attrs["artists"] = NewTextList(nil)
	_, err := r.New("track", attrs)
	var invalid *ValidityError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidityError, got %v", err)
	}
	if invalid.Class != "track" {
		t.Fatalf("error names class %q, want track", invalid.Class)
	}
	if !strings.Contains(err.Error(), "artists must not be empty") {
		t.Fatalf("reason should survive wrapping: %v", err)
	}

	// The same registry still admits well-formed values.
	mustNew(t, r, "track", trackAttrs())
}

func TestValidityInheritedWhenSubclassHasNone(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	if err := r.SetValidity("track", requireArtists); err != nil {
		t.Fatalf("set validity: %v", err)
	}

	attrs := remixAttrs()
	attrs["artists"] = NewTextList(nil)
	_, err := r.New("remix", attrs)
	var invalid *ValidityError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected the inherited predicate to run, got %v", err)
	}
	if invalid.Class != "remix" {
		t.Fatalf("error names class %q, want the concrete class remix", invalid.Class)
	}
}

func TestValidityMostSpecificPredicateReplacesAncestor(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	var trackRan, remixRan int
	if err := r.SetValidity("track", func(inst *Instance) error {
		trackRan++
		return errors.New("track predicate should never run for a remix")
	}); err != nil {
		t.Fatalf("set validity: %v", err)
	}
	if err := r.SetValidity("remix", func(inst *Instance) error {
		remixRan++
		return nil
	}); err != nil {
		t.Fatalf("set validity: %v", err)
	}

	mustNew(t, r, "remix", remixAttrs())
	if remixRan != 1 || trackRan != 0 {
		t.Fatalf("remix ran %d times, track ran %d times; want exactly the nearest predicate", remixRan, trackRan)
	}
}

func TestSetValidityTightensFutureConstruction(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	loose := trackAttrs()
	loose["artists"] = NewTextList(nil)
	early := mustNew(t, r, "track", loose)

	if err := r.SetValidity("track", requireArtists); err != nil {
		t.Fatalf("set validity: %v", err)
	}
	if _, err := r.New("track", loose); err == nil {
		t.Fatal("construction should now be rejected")
	}

	// Instances admitted before the predicate existed are untouched until
	// something re-checks them.
	if err := r.CheckValidity(early); err == nil {
		t.Fatal("re-checking the early instance should report the violation")
	}
}

func TestSetValidityNilDetachesPredicate(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	if err := r.SetValidity("track", requireArtists); err != nil {
		t.Fatalf("set validity: %v", err)
	}
	if err := r.SetValidity("track", nil); err != nil {
		t.Fatalf("detach validity: %v", err)
	}

	attrs := trackAttrs()
	attrs["artists"] = NewTextList(nil)
	mustNew(t, r, "track", attrs)
}

func TestCheckValidityTriviallyValidWithoutPredicates(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	inst := mustNew(t, r, "track", trackAttrs())
	if err := r.CheckValidity(inst); err != nil {
		t.Fatalf("no predicate anywhere should mean valid: %v", err)
	}
}

func TestMutatingMethodOptsInToRevalidation(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	if err := r.SetValidity("track", requireArtists); err != nil {
		t.Fatalf("set validity: %v", err)
	}

	// The supported mutation shape: copy, modify, re-check, return the copy.
	mustDefineGeneric(t, r, "strip", "x")
	mustDefineMethod(t, r, "strip", "track", func(reg *Registry, recv Value, args []Value) (Value, error) {
		out := recv.Instance().Copy()
		if err := reg.SetAttr(out, "artists", NewTextList(nil)); err != nil {
			return NewNil(), err
		}
		if err := reg.CheckValidity(out); err != nil {
			return NewNil(), err
		}
		return NewInstance(out), nil
	})

	track := mustNew(t, r, "track", trackAttrs())
	_, err := r.Call("strip", NewInstance(track))
	var invalid *ValidityError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected the opt-in re-check to fail, got %v", err)
	}
	// The receiver is untouched: the method mutated a copy.
	if err := r.CheckValidity(track); err != nil {
		t.Fatalf("receiver should still be valid: %v", err)
	}
}
