package container

import (
	"reflect"
)

// ── Type identifiers ─────────────────────────────────────────────────────────

// TypeID names a constructible or abstract type. It keys the alias table, the
// instance registry and the catalog, so it must be stable for the lifetime of
// a container.
type TypeID string

func (id TypeID) String() string { return string(id) }

// TypeKey returns the package-qualified type name of v, useful as a stable
// identifier when working with interfaces.
//
//	key := container.TypeKey((*Greeter)(nil))  // "example.com/app.Greeter"
//	key := container.TypeKey(&ServiceA{})      // "example.com/app.ServiceA"
func TypeKey(v any) TypeID {
	if v == nil {
		return ""
	}
	return typeKeyOf(reflect.TypeOf(v))
}

// TypeOf returns the identifier of T without needing a value.
//
//	container.TypeOf[Greeter]()    // interface
//	container.TypeOf[*ServiceA]()  // same as TypeOf[ServiceA]()
func TypeOf[T any]() TypeID {
	return typeKeyOf(reflect.TypeFor[T]())
}

func typeKeyOf(t reflect.Type) TypeID {
	if t == nil {
		return ""
	}
	t = indirect(t)
	switch {
	case t.Name() == "":
		return TypeID(t.String())
	case t.PkgPath() == "":
		return TypeID(t.Name())
	default:
		return TypeID(t.PkgPath() + "." + t.Name())
	}
}

// indirect strips every pointer indirection from t.
func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// builtin reports whether t (pointers stripped) has no package-qualified name:
// scalars, error, any and unnamed composites. Such values cannot be injected.
func builtin(t reflect.Type) bool {
	return indirect(t).PkgPath() == ""
}

// ── Introspection model ──────────────────────────────────────────────────────

// Kind classifies a catalogued type.
type Kind int

const (
	// KindConcrete types can be built by their factory.
	KindConcrete Kind = iota
	// KindAbstract types (interfaces) are only satisfied through aliases or
	// registered instances.
	KindAbstract
	// KindPrimitive types are builtins that are never auto-injected.
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindConcrete:
		return "concrete"
	case KindAbstract:
		return "abstract"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Param describes one constructor parameter.
type Param struct {
	Name string
	// Type is empty when the parameter has no type hint.
	Type      TypeID
	Primitive bool
	Optional  bool
	// Default is used for optional parameters nobody overrides.
	Default any
}

// RequiredParam declares a required parameter resolved from the container.
func RequiredParam(name string, typ TypeID) Param {
	return Param{Name: name, Type: typ}
}

// OptionalParam declares an optional parameter. typ may be empty.
func OptionalParam(name string, typ TypeID, def any) Param {
	return Param{Name: name, Type: typ, Optional: true, Default: def}
}

// PrimitiveParam declares a required parameter of a builtin type.
func PrimitiveParam(name string, typ TypeID) Param {
	return Param{Name: name, Type: typ, Primitive: true}
}

// UntypedParam declares a required parameter without a type hint.
func UntypedParam(name string) Param {
	return Param{Name: name}
}

// Factory builds an instance from its resolved constructor arguments, given
// in declaration order.
type Factory func(args []any) (any, error)

// TypeInfo is everything the resolver needs to know about one type.
type TypeInfo struct {
	ID   TypeID
	Kind Kind
	// HasConstructor is false for types built without arguments.
	HasConstructor bool
	Params         []Param
	// Supertypes lists the declared interfaces/parents of the type.
	Supertypes []TypeID
	Factory    Factory
	// GoType is nil for types declared by name only.
	GoType reflect.Type
}

func (ti *TypeInfo) clone() *TypeInfo {
	cp := *ti
	cp.Params = append([]Param(nil), ti.Params...)
	cp.Supertypes = append([]TypeID(nil), ti.Supertypes...)
	return &cp
}

// Introspector answers questions about types for the resolver.
type Introspector interface {
	// Describe returns the catalogued information for id.
	Describe(id TypeID) (*TypeInfo, bool)
	// Identify returns the identifier of an instance's type, or "" for nil.
	Identify(instance any) TypeID
	// Supertypes returns every identifier the instance can be aliased under,
	// excluding its own.
	Supertypes(instance any) []TypeID
	// Implements reports whether instance can stand in for id.
	Implements(instance any, id TypeID) bool
}
