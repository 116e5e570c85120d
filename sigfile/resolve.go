package sigfile

import (
	"slices"
	"strconv"

	"go.uber.org/multierr"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/arranger"
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// Function is a resolved function declaration.
type Function struct {
	Name      string
	Signature arranger.Signature
	Upcall    bool
}

// Module holds the resolved contents of a signature file.
type Module struct {
	Structs   map[string]*layout.Layout
	ABI       string
	Functions []Function
}

// Function returns the function called name.
func (m *Module) Function(name string) (Function, bool) {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Variant returns the file's default variant, or fallback if it names
// none.
func (m *Module) Variant(fallback abi.Variant) abi.Variant {
	if m.ABI == "" {
		return fallback
	}
	if v, err := abi.ParseVariant(m.ABI); err == nil {
		return v
	}
	return fallback
}

type resolver struct {
	defs     map[string]StructDef
	structs  map[string]*layout.Layout
	failed   map[string]bool
	seen     map[string]bool
	errs     error
	visiting []string
	unknown  []string
}

func newResolver(defs map[string]StructDef) *resolver {
	return &resolver{
		defs:    defs,
		structs: make(map[string]*layout.Layout),
		failed:  make(map[string]bool),
		seen:    make(map[string]bool),
	}
}

func (r *resolver) record(err error) {
	if err != nil && err != errReported {
		r.errs = multierr.Append(r.errs, err)
	}
}

func (r *resolver) addUnknown(fn, name string) {
	ref := name
	if fn != "" {
		ref = fn + "#" + name
	}
	if !r.seen[ref] {
		r.seen[ref] = true
		r.unknown = append(r.unknown, ref)
	}
}

// Resolve turns the declarations into layouts and signatures. Every
// problem in the file is reported, combined with multierr; unknown type
// names are grouped into one errors.UnknownTypesError.
func (f *File) Resolve() (*Module, error) {
	r := newResolver(f.Structs)

	names := make([]string, 0, len(f.Structs))
	for name := range f.Structs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		_, _ = r.structLayout(name)
	}

	m := &Module{Structs: r.structs, ABI: f.ABI}
	declared := make(map[string]bool)
	for i, def := range f.Functions {
		if def.Name == "" {
			r.record(errors.InvalidData(errors.PhaseParse, []string{"functions", strconv.Itoa(i)}, "function has no name"))
			continue
		}
		if declared[def.Name] {
			r.record(errors.InvalidData(errors.PhaseParse, []string{def.Name}, "duplicate function"))
			continue
		}
		declared[def.Name] = true

		fn, err := r.function(def)
		if err != nil {
			r.record(err)
			continue
		}
		m.Functions = append(m.Functions, fn)
	}

	if f.ABI != "" {
		if _, err := abi.ParseVariant(f.ABI); err != nil {
			r.record(err)
		}
	}
	if len(r.unknown) > 0 {
		r.record(errors.NewUnknownTypesError(r.unknown))
	}
	if r.errs != nil {
		return nil, r.errs
	}
	return m, nil
}

func (r *resolver) function(def FunctionDef) (Function, error) {
	fn := Function{Name: def.Name, Upcall: def.Upcall}
	ok := true
	for i, p := range def.Params {
		l, err := r.typeExpr(p, def.Name, []string{def.Name, "param " + strconv.Itoa(i)})
		if err != nil {
			r.record(err)
			ok = false
			continue
		}
		// Array parameters decay to a pointer to their first element.
		if l.Kind() == layout.KindSequence {
			l = layout.AddressOf(l.Elem())
		}
		fn.Signature.Params = append(fn.Signature.Params, l)
	}
	if def.Returns != "" && def.Returns != "void" {
		path := []string{def.Name, "return"}
		l, err := r.typeExpr(def.Returns, def.Name, path)
		switch {
		case err != nil:
			r.record(err)
			ok = false
		case l.Kind() == layout.KindSequence:
			r.record(errors.InvalidData(errors.PhaseParse, path, "functions cannot return arrays"))
			ok = false
		}
		fn.Signature.Return = l
	}
	if !ok {
		return Function{}, errReported
	}

	if def.VariadicFrom != nil {
		if def.Upcall {
			return Function{}, errors.InvalidData(errors.PhaseParse, []string{def.Name}, "upcalls cannot be variadic")
		}
		fn.Signature.Variadic = true
		fn.Signature.FirstVariadic = *def.VariadicFrom
	}
	if err := fn.Signature.Validate(); err != nil {
		return Function{}, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Path(def.Name).
			Cause(err).
			Detail("invalid signature").
			Build()
	}
	return fn, nil
}

// structLayout resolves a declared struct, memoizing successes and
// failures. Failures are recorded here and surface as errReported.
func (r *resolver) structLayout(name string) (*layout.Layout, error) {
	if l, ok := r.structs[name]; ok {
		return l, nil
	}
	if r.failed[name] {
		return nil, errReported
	}
	if i := slices.Index(r.visiting, name); i >= 0 {
		cycle := append(slices.Clone(r.visiting[i:]), name)
		r.record(errors.Cycle(errors.PhaseParse, cycle))
		return nil, errReported
	}

	def := r.defs[name]
	path := []string{"structs", name}
	if len(def.Fields) == 0 {
		r.record(errors.InvalidData(errors.PhaseParse, path, "struct has no fields"))
		r.failed[name] = true
		return nil, errReported
	}

	r.visiting = append(r.visiting, name)
	members := make([]*layout.Layout, 0, len(def.Fields))
	fieldNames := make(map[string]bool, len(def.Fields))
	ok := true
	for i, field := range def.Fields {
		label := field.Name
		if label == "" {
			label = "[" + strconv.Itoa(i) + "]"
		} else if fieldNames[label] {
			r.record(errors.InvalidData(errors.PhaseParse, append(path, label), "duplicate field"))
			ok = false
			continue
		}
		fieldNames[label] = true

		l, err := r.typeExpr(field.Type, "", append(slices.Clone(path), label))
		if err != nil {
			r.record(err)
			ok = false
			continue
		}
		if field.Name != "" {
			l = l.WithName(field.Name)
		}
		members = append(members, l)
	}
	r.visiting = r.visiting[:len(r.visiting)-1]

	if !ok {
		r.failed[name] = true
		return nil, errReported
	}
	l := layout.Struct(members...).WithName(name)
	r.structs[name] = l
	return l, nil
}
