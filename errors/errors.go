package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseClassify Phase = "classify" // layout classification
	PhaseAllocate Phase = "allocate" // register/stack allocation
	PhaseBind     Phase = "bind"     // binding recipe construction
	PhaseArrange  Phase = "arrange"  // signature arrangement
	PhaseValidate Phase = "validate" // layout and signature validation
	PhaseParse    Phase = "parse"    // signature file parsing
	PhaseLoad     Phase = "load"     // signature file loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported   Kind = "unsupported"
	KindInvalidLayout Kind = "invalid_layout"
	KindInvalidInput  Kind = "invalid_input"
	KindInvalidData   Kind = "invalid_data"
	KindInternal      Kind = "internal"
	KindNotFound      Kind = "not_found"
	KindCycle         Kind = "cycle"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Layout string
	Class  string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Layout != "" || e.Class != "" {
		b.WriteString(": ")
		if e.Layout != "" && e.Class != "" {
			b.WriteString("layout ")
			b.WriteString(e.Layout)
			b.WriteString(", class ")
			b.WriteString(e.Class)
		} else if e.Layout != "" {
			b.WriteString("layout ")
			b.WriteString(e.Layout)
		} else {
			b.WriteString("class ")
			b.WriteString(e.Class)
		}
	}

	if e.Detail != "" {
		if e.Layout != "" || e.Class != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path, e.g. "param[2]", "x"
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Layout sets the offending layout descriptor
func (b *Builder) Layout(l string) *Builder {
	b.err.Layout = l
	return b
}

// Class sets the type class involved
func (b *Builder) Class(c string) *Builder {
	b.err.Class = c
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unsupported creates an unsupported-layout error
func Unsupported(phase Phase, path []string, layout, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		Layout: layout,
		Detail: what,
	}
}

// InvalidLayout creates a malformed-layout error
func InvalidLayout(phase Phase, path []string, layout, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidLayout,
		Path:   path,
		Layout: layout,
		Detail: detail,
	}
}

// Internal creates an internal invariant violation error. These indicate a
// bug in the arranger, never bad input.
func Internal(phase Phase, class, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Class:  class,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Cycle creates an error for a type that contains itself by value
func Cycle(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Path:   path,
		Detail: "type contains itself by value",
	}
}

// Load creates a signature file loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// UnknownType represents a single unresolved type reference
type UnknownType struct {
	Function string // e.g., "draw_rect", empty for struct fields
	Name     string // e.g., "rect"
}

// UnknownTypesError is returned when a signature file references types that
// are neither scalars nor declared structs
type UnknownTypesError struct {
	Types []UnknownType
}

// NewUnknownTypesError creates an error from a list of "function#type" strings
func NewUnknownTypesError(refs []string) *UnknownTypesError {
	result := &UnknownTypesError{
		Types: make([]UnknownType, 0, len(refs)),
	}
	for _, ref := range refs {
		fn, name := parseTypeRef(ref)
		result.Types = append(result.Types, UnknownType{
			Function: fn,
			Name:     name,
		})
	}
	return result
}

func parseTypeRef(ref string) (function, name string) {
	fn, name, found := strings.Cut(ref, "#")
	if found {
		return fn, name
	}
	return "", ref
}

func (e *UnknownTypesError) Error() string {
	if len(e.Types) == 0 {
		return "[parse] not_found: no types specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("unknown %d type(s):\n", len(e.Types)))

	// Group by function for cleaner output
	byFn := make(map[string][]string)
	var fnOrder []string
	for _, ut := range e.Types {
		key := ut.Function
		if key == "" {
			key = "structs"
		}
		if _, exists := byFn[key]; !exists {
			fnOrder = append(fnOrder, key)
		}
		byFn[key] = append(byFn[key], ut.Name)
	}

	for _, fn := range fnOrder {
		b.WriteString("\n  ")
		b.WriteString(fn)
		b.WriteString(":\n")
		for _, name := range byFn[fn] {
			b.WriteString("    - ")
			b.WriteString(name)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *UnknownTypesError) Is(target error) bool {
	_, ok := target.(*UnknownTypesError)
	return ok
}
