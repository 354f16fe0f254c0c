package genera

import (
	"errors"
	"strings"
	"testing"
)

func TestNewConstructsAndAttrsRoundTrip(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	inst := mustNew(t, r, "remix", remixAttrs())
	if inst.Class.Name != "remix" {
		t.Fatalf("instance class = %q, want remix", inst.Class.Name)
	}

	title, ok := inst.Attr("title")
	if !ok || title.Text() != "Aurora" {
		t.Fatalf("title = %v (ok=%v), want Aurora", title, ok)
	}
	artists, ok := inst.Attr("artists")
	if !ok || len(artists.TextList()) != 2 {
		t.Fatalf("artists = %v (ok=%v), want two entries", artists, ok)
	}
	if _, ok := inst.Attr("phantom"); ok {
		t.Fatal("Attr should report absence for undeclared names")
	}
}

func TestNewMissingAttribute(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	attrs := remixAttrs()
	delete(attrs, "source")
	_, err := r.New("remix", attrs)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if mismatch.Kind != MismatchMissing || mismatch.Attribute != "source" {
		t.Fatalf("got %v %q, want missing source", mismatch.Kind, mismatch.Attribute)
	}
}

func TestNewWrongTypeAttribute(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	attrs := trackAttrs()
	attrs["artists"] = NewNumber(7)
	_, err := r.New("track", attrs)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if mismatch.Kind != MismatchWrongType {
		t.Fatalf("kind = %v, want wrong type", mismatch.Kind)
	}
	if mismatch.Expected != ClassTextSeq || mismatch.Actual != ClassNumber {
		t.Fatalf("expected/actual = %q/%q", mismatch.Expected, mismatch.Actual)
	}
}

func TestNewUndeclaredAttribute(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	attrs := trackAttrs()
	attrs["bpm"] = NewNumber(120)
	_, err := r.New("track", attrs)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if mismatch.Kind != MismatchUndeclared || mismatch.Attribute != "bpm" {
		t.Fatalf("got %v %q, want undeclared bpm", mismatch.Kind, mismatch.Attribute)
	}
	if !strings.Contains(err.Error(), "not in the schema") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestNewIsIdempotent(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	first := mustNew(t, r, "track", trackAttrs())
	second := mustNew(t, r, "track", trackAttrs())
	if !first.Equal(second) {
		t.Fatal("same class and attributes should construct equal instances")
	}
}

func TestNewRefusesVirtualClass(t *testing.T) {
	r := NewRegistry()
	mustDefineClass(t, r, ClassSpec{Name: "media", Virtual: true})

	for _, name := range []string{"media", ClassAny} {
		_, err := r.New(name, Attrs{})
		var virtual *VirtualClassError
		if !errors.As(err, &virtual) {
			t.Fatalf("constructing %s: expected VirtualClassError, got %v", name, err)
		}
	}
}

func TestNewUnknownClass(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("phantom", Attrs{})
	var unknown *UnknownClassError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownClassError, got %v", err)
	}
}

func TestNewAcceptsSubclassValueForDeclaredType(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	mustDefineClass(t, r, ClassSpec{
		Name:  "release",
		Slots: []SlotSpec{{Name: "lead", Type: "track"}},
	})

	remix := mustNew(t, r, "remix", remixAttrs())
	release := mustNew(t, r, "release", Attrs{"lead": NewInstance(remix)})

	lead, _ := release.Attr("lead")
	if lead.Instance().Class.Name != "remix" {
		t.Fatalf("lead class = %q, want remix", lead.Instance().Class.Name)
	}

	// The reverse direction must not typecheck: a track is not a remix.
	track := mustNew(t, r, "track", trackAttrs())
	mustDefineClass(t, r, ClassSpec{
		Name:  "remixpick",
		Slots: []SlotSpec{{Name: "pick", Type: "remix"}},
	})
	_, err := r.New("remixpick", Attrs{"pick": NewInstance(track)})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestSetAttrTypeChecked(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	inst := mustNew(t, r, "track", trackAttrs())

	if err := r.SetAttr(inst, "title", NewText("Aurora (Dusk Cut)")); err != nil {
		t.Fatalf("set title: %v", err)
	}
	title, _ := inst.Attr("title")
	if title.Text() != "Aurora (Dusk Cut)" {
		t.Fatalf("title = %q after set", title.Text())
	}

	err := r.SetAttr(inst, "title", NewNumber(3))
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	title, _ = inst.Attr("title")
	if title.Text() != "Aurora (Dusk Cut)" {
		t.Fatal("failed set must leave the attribute untouched")
	}

	err = r.SetAttr(inst, "bpm", NewNumber(120))
	if !errors.As(err, &mismatch) || mismatch.Kind != MismatchUndeclared {
		t.Fatalf("expected undeclared mismatch, got %v", err)
	}
}

func TestSetAttrSkipsValidity(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	if err := r.SetValidity("track", func(inst *Instance) error {
		artists, _ := inst.Attr("artists")
		if len(artists.TextList()) == 0 {
			return errors.New("artists must not be empty")
		}
		return nil
	}); err != nil {
		t.Fatalf("set validity: %v", err)
	}

	inst := mustNew(t, r, "track", trackAttrs())
	if err := r.SetAttr(inst, "artists", NewTextList(nil)); err != nil {
		t.Fatalf("SetAttr must not re-validate: %v", err)
	}
	if err := r.CheckValidity(inst); err == nil {
		t.Fatal("CheckValidity should now report the broken invariant")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	original := mustNew(t, r, "track", trackAttrs())

	dup := original.Copy()
	if !original.Equal(dup) {
		t.Fatal("copy should start equal to the original")
	}
	if err := r.SetAttr(dup, "title", NewText("Borealis")); err != nil {
		t.Fatalf("set on copy: %v", err)
	}
	title, _ := original.Attr("title")
	if title.Text() != "Aurora" {
		t.Fatal("mutating the copy must not touch the original")
	}
	if original.Equal(dup) {
		t.Fatal("instances should differ after the copy diverges")
	}
}

func TestEqualHandlesSelfReferentialInstances(t *testing.T) {
	r := NewRegistry()
	mustDefineClass(t, r, ClassSpec{
		Name:  "node",
		Slots: []SlotSpec{{Name: "link", Type: ClassAny}},
	})
	link := func(from, to *Instance) {
		t.Helper()
		if err := r.SetAttr(from, "link", NewInstance(to)); err != nil {
			t.Fatalf("link: %v", err)
		}
	}

	a := mustNew(t, r, "node", Attrs{"link": NewNil()})
	b := mustNew(t, r, "node", Attrs{"link": NewNil()})
	link(a, a)
	link(b, b)
	if !a.Equal(b) {
		t.Fatal("matching self-linked nodes should be equal")
	}
	if !NewInstance(a).Equal(NewInstance(b)) {
		t.Fatal("value equality should agree with instance equality")
	}

	ringA := mustNew(t, r, "node", Attrs{"link": NewNil()})
	ringB := mustNew(t, r, "node", Attrs{"link": NewNil()})
	link(ringA, ringB)
	link(ringB, ringA)
	if !ringA.Equal(ringB) {
		t.Fatal("nodes on the same two-node ring should be equal")
	}

	terminal := mustNew(t, r, "node", Attrs{"link": NewNil()})
	if a.Equal(terminal) {
		t.Fatal("a self-linked node must differ from a nil-linked one")
	}
}

func TestConstructionDetachesListValues(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	artists := []string{"Iris", "Moth"}
	inst := mustNew(t, r, "track", Attrs{
		"title":   NewText("Aurora"),
		"artists": NewTextList(artists),
	})

	artists[0] = "changed"
	got, _ := inst.Attr("artists")
	if got.TextList()[0] != "Iris" {
		t.Fatal("instance must not alias the caller's backing array")
	}
}

func TestAttrNamesSorted(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	inst := mustNew(t, r, "remix", remixAttrs())

	names := inst.AttrNames()
	want := []string{"artists", "source", "title"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
