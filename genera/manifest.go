package genera

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Manifest is the declarative form of a batch of definitions. Classes are
// applied in declaration order, so a parent or slot type must be a builtin
// or appear earlier in the same document: definitions precede uses, as data.
//
// Validity predicates and method implementations are code, not data; a
// manifest declares the shape of a registry and the host attaches behavior
// afterwards.
type Manifest struct {
	Classes  []ManifestClass   `yaml:"classes,omitempty"`
	Generics []ManifestGeneric `yaml:"generics,omitempty"`
}

// ManifestClass declares one value class.
type ManifestClass struct {
	Name    string     `yaml:"name"`
	Parent  string     `yaml:"parent,omitempty"`
	Virtual bool       `yaml:"virtual,omitempty"`
	Slots   []SlotSpec `yaml:"slots,omitempty"`
}

// ManifestGeneric declares one generic. Applied generics are always user
// origin, so a manifest that replaces a builtin raises the usual shadow
// warning.
type ManifestGeneric struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

// LoadManifest parses and structurally validates a YAML manifest. Unknown
// fields are rejected. Semantic problems (unknown parents, slot collisions)
// surface later, from Apply, in the library's error taxonomy.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ManifestError{Reason: "empty document"}
		}
		return nil, &ManifestError{Reason: "parse failed", Err: err}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	classNames := make(map[string]struct{}, len(m.Classes))
	for i, c := range m.Classes {
		entry := fmt.Sprintf("classes[%d]", i)
		if c.Name == "" {
			return &ManifestError{Entry: entry, Reason: "name cannot be empty"}
		}
		if _, dup := classNames[c.Name]; dup {
			return &ManifestError{Entry: c.Name, Reason: "declared twice"}
		}
		classNames[c.Name] = struct{}{}
		for j, slot := range c.Slots {
			if slot.Name == "" {
				return &ManifestError{Entry: c.Name, Reason: fmt.Sprintf("slot %d has no name", j)}
			}
			if slot.Type == "" {
				return &ManifestError{Entry: c.Name, Reason: fmt.Sprintf("slot %q has no type", slot.Name)}
			}
		}
	}

	genericNames := make(map[string]struct{}, len(m.Generics))
	for i, g := range m.Generics {
		entry := fmt.Sprintf("generics[%d]", i)
		if g.Name == "" {
			return &ManifestError{Entry: entry, Reason: "name cannot be empty"}
		}
		if _, dup := genericNames[g.Name]; dup {
			return &ManifestError{Entry: g.Name, Reason: "declared twice"}
		}
		genericNames[g.Name] = struct{}{}
		if len(g.Params) == 0 {
			return &ManifestError{Entry: g.Name, Reason: "needs at least the receiver formal"}
		}
		for _, p := range g.Params {
			if p == "" {
				return &ManifestError{Entry: g.Name, Reason: "has an empty formal name"}
			}
		}
	}
	return nil
}

// Apply registers the manifest's classes and generics in declaration order.
// Definition failures come back in the library taxonomy, unwrapped. A
// generic that shadows an existing one from another origin does not fail
// the apply; the conflict lands in Warnings as usual.
func (r *Registry) Apply(m *Manifest) error {
	for _, c := range m.Classes {
		if _, err := r.DefineClass(ClassSpec{
			Name:    c.Name,
			Parent:  c.Parent,
			Virtual: c.Virtual,
			Slots:   c.Slots,
		}); err != nil {
			return err
		}
	}
	for _, g := range m.Generics {
		if _, err := r.DefineGeneric(GenericSpec{
			Name:   g.Name,
			Params: g.Params,
			Origin: OriginUser,
		}); err != nil {
			var conflict *GenericConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return err
		}
	}
	return nil
}

// Manifest snapshots the registry's user-registered classes and generics as
// a document Apply can replay: ancestors are emitted before descendants.
// Builtins, methods, and validity predicates are not part of the snapshot.
func (r *Registry) Manifest() *Manifest {
	m := &Manifest{}

	emitted := make(map[string]struct{})
	var emit func(name string)
	emit = func(name string) {
		if _, done := emitted[name]; done {
			return
		}
		emitted[name] = struct{}{}
		def := r.classes[name]
		if _, builtin := builtinClassNames[def.Parent]; !builtin {
			emit(def.Parent)
		}
		parent := def.Parent
		if parent == ClassAny {
			parent = ""
		}
		m.Classes = append(m.Classes, ManifestClass{
			Name:    def.Name,
			Parent:  parent,
			Virtual: def.Virtual,
			Slots:   append([]SlotSpec(nil), def.Slots...),
		})
	}
	for _, name := range r.Classes() {
		if _, builtin := builtinClassNames[name]; !builtin {
			emit(name)
		}
	}

	for _, name := range r.Generics() {
		g := r.generics[name]
		if g.Origin != OriginUser {
			continue
		}
		m.Generics = append(m.Generics, ManifestGeneric{
			Name:   g.Name,
			Params: append([]string(nil), g.Params...),
		})
	}
	return m
}
