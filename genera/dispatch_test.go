package genera

import (
	"errors"
	"strings"
	"testing"
)

func textMethod(out string) MethodFunc {
	return func(reg *Registry, recv Value, args []Value) (Value, error) {
		return NewText(out), nil
	}
}

func mustDefineGeneric(t *testing.T, r *Registry, name string, params ...string) *Generic {
	t.Helper()
	g, err := r.DefineGeneric(GenericSpec{Name: name, Params: params, Origin: OriginUser})
	if err != nil {
		t.Fatalf("define generic %s: %v", name, err)
	}
	return g
}

func mustDefineMethod(t *testing.T, r *Registry, generic, class string, impl MethodFunc) {
	t.Helper()
	if err := r.DefineMethod(generic, class, impl); err != nil {
		t.Fatalf("define method %s on %s: %v", generic, class, err)
	}
}

func TestCallSelectsNearestAncestorImplementation(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	mustDefineGeneric(t, r, "credit", "x")
	mustDefineMethod(t, r, "credit", "track", textMethod("from track"))
	mustDefineMethod(t, r, "credit", "remix", textMethod("from remix"))

	attrs := remixAttrs()
	attrs["venue"] = NewText("warehouse")
	bootleg := mustNew(t, r, "bootleg", attrs)

	got, err := r.Call("credit", NewInstance(bootleg))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Text() != "from remix" {
		t.Fatalf("got %q, want the remix implementation", got.Text())
	}

	// Dropping the nearer implementation exposes the next one up the chain.
	if removed, err := r.RemoveMethod("credit", "remix"); err != nil || !removed {
		t.Fatalf("remove method: removed=%v err=%v", removed, err)
	}
	got, err = r.Call("credit", NewInstance(bootleg))
	if err != nil {
		t.Fatalf("call after removal: %v", err)
	}
	if got.Text() != "from track" {
		t.Fatalf("got %q, want the track implementation", got.Text())
	}
}

func TestCallPrefersSpecificOverWildcard(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	mustDefineGeneric(t, r, "caption", "x")
	mustDefineMethod(t, r, "caption", ClassAny, textMethod("wildcard"))
	mustDefineMethod(t, r, "caption", "track", textMethod("specific"))

	remix := mustNew(t, r, "remix", remixAttrs())
	got, err := r.Call("caption", NewInstance(remix))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Text() != "specific" {
		t.Fatalf("got %q, want the track implementation over the wildcard", got.Text())
	}
}

func TestCallWildcardFallback(t *testing.T) {
	r := NewRegistry()
	mustDefineGeneric(t, r, "tag", "x")
	mustDefineMethod(t, r, "tag", ClassAny, textMethod("tagged"))

	got, err := r.Call("tag", NewNumber(3))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Text() != "tagged" {
		t.Fatalf("got %q, want tagged", got.Text())
	}
}

func TestCallNoApplicableMethod(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	mustDefineGeneric(t, r, "credit", "x")
	mustDefineMethod(t, r, "credit", "track", textMethod("from track"))

	_, err := r.Call("credit", NewNumber(3))
	var noMethod *NoApplicableMethodError
	if !errors.As(err, &noMethod) {
		t.Fatalf("expected NoApplicableMethodError, got %v", err)
	}
	if noMethod.Generic != "credit" || noMethod.Class != ClassNumber {
		t.Fatalf("error names %q on %q", noMethod.Generic, noMethod.Class)
	}
}

func TestCallUnknownGenericLeavesRegistryUntouched(t *testing.T) {
	r := NewRegistry()
	before := len(r.Generics())

	_, err := r.Call("phantom", NewNumber(1))
	var unknown *UnknownGenericError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownGenericError, got %v", err)
	}
	if unknown.Name != "phantom" {
		t.Fatalf("error names %q, want phantom", unknown.Name)
	}
	if len(r.Generics()) != before || len(r.Warnings()) != 0 {
		t.Fatal("a failed call must not change the registry")
	}
}

func TestCallArityMismatch(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call("sequence", NewNumber(1))
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if arity.Want != 2 || arity.Got != 1 {
		t.Fatalf("want/got = %d/%d", arity.Want, arity.Got)
	}
}

func TestBuiltinShow(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	track := mustNew(t, r, "track", trackAttrs())

	cases := []struct {
		name string
		recv Value
		want string
	}{
		{"instance", NewInstance(track), "<track instance>"},
		{"number", NewNumber(4), "4"},
		{"text list", NewTextList([]string{"A", "T"}), "[A, T]"},
		{"nil", NewNil(), "null"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Call("show", tt.recv)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if got.Text() != tt.want {
				t.Fatalf("show = %q, want %q", got.Text(), tt.want)
			}
		})
	}
}

func TestBuiltinLength(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		name string
		recv Value
		want float64
	}{
		{"text", NewText("ATTA"), 4},
		{"multibyte text", NewText("héllo"), 5},
		{"text list", NewTextList([]string{"A", "T", "T", "A"}), 4},
		{"number list", NewNumberList([]float64{1, 2, 3}), 3},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Call("length", tt.recv)
			if err != nil {
				t.Fatalf("length: %v", err)
			}
			if got.Number() != tt.want {
				t.Fatalf("length = %v, want %v", got.Number(), tt.want)
			}
		})
	}

	_, err := r.Call("length", NewNumber(3))
	var noMethod *NoApplicableMethodError
	if !errors.As(err, &noMethod) {
		t.Fatalf("length on a number should have no method, got %v", err)
	}
}

func TestBuiltinSequence(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		name string
		from float64
		to   float64
		want []float64
	}{
		{"ascending", 1, 5, []float64{1, 2, 3, 4, 5}},
		{"descending", 5, 1, []float64{5, 4, 3, 2, 1}},
		{"single", 2, 2, []float64{2}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Call("sequence", NewNumber(tt.from), NewNumber(tt.to))
			if err != nil {
				t.Fatalf("sequence: %v", err)
			}
			items := got.NumberList()
			if len(items) != len(tt.want) {
				t.Fatalf("got %v, want %v", items, tt.want)
			}
			for i := range tt.want {
				if items[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", items, tt.want)
				}
			}
		})
	}

	_, err := r.Call("sequence", NewNumber(1), NewText("five"))
	if err == nil || !strings.Contains(err.Error(), "number upper bound") {
		t.Fatalf("expected the upper-bound guard, got %v", err)
	}
}

func TestDefineGenericIdenticalShapeReturnsExisting(t *testing.T) {
	r := NewRegistry()
	first := mustDefineGeneric(t, r, "remaster", "x")
	mustDefineMethod(t, r, "remaster", ClassAny, textMethod("done"))

	second := mustDefineGeneric(t, r, "remaster", "x")
	if first != second {
		t.Fatal("identical redefinition should return the existing generic")
	}
	if _, err := r.Call("remaster", NewNumber(1)); err != nil {
		t.Fatalf("methods must survive an identical redefinition: %v", err)
	}
}

func TestShadowingBuiltinWarnsAndRecovers(t *testing.T) {
	r := NewRegistry()

	g, err := r.DefineGeneric(GenericSpec{Name: "sequence", Params: []string{"x"}, Origin: OriginUser})
	var conflict *GenericConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected GenericConflictError, got %v", err)
	}
	if g == nil {
		t.Fatal("the replacement generic should be returned despite the warning")
	}
	if conflict.PriorOrigin != OriginBuiltin || !conflict.ReplacedByUsr {
		t.Fatalf("conflict = %+v, want builtin replaced by user", conflict)
	}
	warnings := r.Warnings()
	if len(warnings) != 1 || warnings[0].Generic != "sequence" {
		t.Fatalf("warnings = %+v, want the sequence conflict recorded", warnings)
	}

	// The old builtin call shape is gone: two arguments now miss the arity,
	// and one argument finds no implementation.
	_, err = r.Call("sequence", NewNumber(1), NewNumber(5))
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityError after shadowing, got %v", err)
	}
	_, err = r.Call("sequence", NewNumber(5))
	var noMethod *NoApplicableMethodError
	if !errors.As(err, &noMethod) {
		t.Fatalf("expected NoApplicableMethodError after shadowing, got %v", err)
	}

	// Registering a wildcard method recovers the generic.
	mustDefineMethod(t, r, "sequence", ClassAny, textMethod("recovered"))
	got, err := r.Call("sequence", NewNumber(5))
	if err != nil {
		t.Fatalf("call after recovery: %v", err)
	}
	if got.Text() != "recovered" {
		t.Fatalf("got %q, want recovered", got.Text())
	}
}

func TestSameOriginReplacementIsSilentButDropsMethods(t *testing.T) {
	r := NewRegistry()
	mustDefineGeneric(t, r, "remaster", "x")
	mustDefineMethod(t, r, "remaster", ClassAny, textMethod("done"))

	g, err := r.DefineGeneric(GenericSpec{Name: "remaster", Params: []string{"x", "opts"}, Origin: OriginUser})
	if err != nil {
		t.Fatalf("same-origin replacement should not warn: %v", err)
	}
	if g.Signature() != "remaster(x, opts)" {
		t.Fatalf("signature = %q", g.Signature())
	}
	if len(r.Warnings()) != 0 {
		t.Fatalf("warnings = %+v, want none", r.Warnings())
	}
	_, err = r.Call("remaster", NewNumber(1), NewNumber(2))
	var noMethod *NoApplicableMethodError
	if !errors.As(err, &noMethod) {
		t.Fatalf("replacement should drop methods, got %v", err)
	}
}

func TestDefineMethodErrors(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)

	err := r.DefineMethod("phantom", "track", textMethod("x"))
	var unknownGeneric *UnknownGenericError
	if !errors.As(err, &unknownGeneric) {
		t.Fatalf("expected UnknownGenericError, got %v", err)
	}

	err = r.DefineMethod("show", "phantom", textMethod("x"))
	var unknownClass *UnknownClassError
	if !errors.As(err, &unknownClass) {
		t.Fatalf("expected UnknownClassError, got %v", err)
	}

	err = r.DefineMethod("show", "track", nil)
	if err == nil || !strings.Contains(err.Error(), "cannot be nil") {
		t.Fatalf("expected the nil-method guard, got %v", err)
	}
}

func TestRemoveMethod(t *testing.T) {
	r := NewRegistry()
	defineTrackHierarchy(t, r)
	mustDefineGeneric(t, r, "credit", "x")
	mustDefineMethod(t, r, "credit", "track", textMethod("from track"))

	removed, err := r.RemoveMethod("credit", "track")
	if err != nil || !removed {
		t.Fatalf("first removal: removed=%v err=%v", removed, err)
	}
	removed, err = r.RemoveMethod("credit", "track")
	if err != nil || removed {
		t.Fatalf("second removal: removed=%v err=%v", removed, err)
	}
	_, err = r.RemoveMethod("phantom", "track")
	var unknown *UnknownGenericError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownGenericError, got %v", err)
	}
}
