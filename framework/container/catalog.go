package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// builtinTypes are registered as primitives in every new Catalog.
var builtinTypes = []TypeID{
	"bool", "string", "int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	"error", "interface {}",
}

// TypeOption adjusts a TypeInfo while it is being catalogued.
type TypeOption func(*TypeInfo)

// Implements declares the interfaces (or parent types) a concrete type
// satisfies. New instances are auto-aliased under each of them.
func Implements(ids ...TypeID) TypeOption {
	return func(ti *TypeInfo) {
		for _, id := range ids {
			if id != "" && id != ti.ID && !slices.Contains(ti.Supertypes, id) {
				ti.Supertypes = append(ti.Supertypes, id)
			}
		}
	}
}

// Params declares the constructor parameters in order.
func Params(params ...Param) TypeOption {
	return func(ti *TypeInfo) {
		ti.HasConstructor = true
		ti.Params = append([]Param(nil), params...)
	}
}

// GoType attaches the Go type backing an identifier, enabling instance
// identification and interface checks.
func GoType(t reflect.Type) TypeOption {
	return func(ti *TypeInfo) { ti.GoType = t }
}

// ParamNames renames the parameters of a constructor in order. Extra names
// are ignored.
func ParamNames(names ...string) TypeOption {
	return func(ti *TypeInfo) {
		for i := range ti.Params {
			if i < len(names) && names[i] != "" {
				ti.Params[i].Name = names[i]
			}
		}
	}
}

// WithDefault makes the parameter at position (0-based) optional with value
// as its default.
func WithDefault(position int, value any) TypeOption {
	return func(ti *TypeInfo) {
		if position >= 0 && position < len(ti.Params) {
			ti.Params[position].Optional = true
			ti.Params[position].Default = value
		}
	}
}

// As overrides the identifier a constructor is registered under.
func As(id TypeID) TypeOption {
	return func(ti *TypeInfo) {
		if id != "" {
			ti.ID = id
		}
	}
}

// ── Catalog ──────────────────────────────────────────────────────────────────

// Catalog is the explicit factory registry the resolver introspects. Every
// constructible type registers a factory at startup; interfaces register as
// abstract types.
//
//	cat := container.NewCatalog()
//	cat.Abstract("app.Greeter")
//	cat.Concrete("app.ServiceA", newServiceA, container.Implements("app.Greeter"))
//	cat.Concrete("app.ServiceB", newServiceB,
//	    container.Params(container.RequiredParam("serviceA", "app.ServiceA")))
type Catalog struct {
	mu       sync.RWMutex
	types    map[TypeID]*TypeInfo
	byGoType map[reflect.Type]TypeID
}

// NewCatalog creates a catalog knowing only the builtin primitives.
func NewCatalog() *Catalog {
	c := &Catalog{
		types:    make(map[TypeID]*TypeInfo),
		byGoType: make(map[reflect.Type]TypeID),
	}
	c.Primitive(builtinTypes...)
	return c
}

// Concrete registers a constructible type. Without a Params option the
// factory is called with no arguments.
func (c *Catalog) Concrete(id TypeID, factory Factory, opts ...TypeOption) error {
	if factory == nil {
		return fmt.Errorf("container: nil factory for [%s]", id)
	}
	return c.add(&TypeInfo{ID: id, Kind: KindConcrete, Factory: factory}, opts)
}

// Abstract registers an interface or abstract type.
func (c *Catalog) Abstract(id TypeID, opts ...TypeOption) error {
	return c.add(&TypeInfo{ID: id, Kind: KindAbstract}, opts)
}

// Primitive registers builtin type names.
func (c *Catalog) Primitive(ids ...TypeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.types[id] = &TypeInfo{ID: id, Kind: KindPrimitive}
	}
}

// Interface registers the interface type T as abstract.
//
//	id, err := container.Interface[Greeter](cat)
func Interface[T any](c *Catalog, opts ...TypeOption) (TypeID, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		return "", fmt.Errorf("container: Interface[%v]: not an interface type", t)
	}
	id := typeKeyOf(t)
	opts = append([]TypeOption{GoType(t)}, opts...)
	return id, c.Abstract(id, opts...)
}

func (c *Catalog) add(ti *TypeInfo, opts []TypeOption) error {
	for _, opt := range opts {
		opt(ti)
	}
	if ti.ID == "" {
		return fmt.Errorf("container: empty type identifier")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[ti.ID] = ti
	if ti.GoType != nil {
		c.byGoType[ti.GoType] = ti.ID
	}
	return nil
}

// Describe implements Introspector. The returned TypeInfo is a copy.
func (c *Catalog) Describe(id TypeID) (*TypeInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ti, ok := c.types[id]
	if !ok {
		return nil, false
	}
	return ti.clone(), true
}

// Identify implements Introspector. Instances of catalogued Go types map to
// their registered identifier; anything else falls back to TypeKey.
func (c *Catalog) Identify(instance any) TypeID {
	if instance == nil {
		return ""
	}
	t := reflect.TypeOf(instance)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for cur := t; ; cur = cur.Elem() {
		if id, ok := c.byGoType[cur]; ok {
			return id
		}
		if cur.Kind() != reflect.Pointer {
			break
		}
	}
	return typeKeyOf(t)
}

// Supertypes implements Introspector: the declared supertypes of the
// instance's type plus every catalogued interface its Go type implements.
func (c *Catalog) Supertypes(instance any) []TypeID {
	if instance == nil {
		return nil
	}
	own := c.Identify(instance)
	t := reflect.TypeOf(instance)

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []TypeID
	if ti, ok := c.types[own]; ok {
		out = append(out, ti.Supertypes...)
	}
	for id, ti := range c.types {
		if id == own || ti.Kind != KindAbstract || ti.GoType == nil {
			continue
		}
		if ti.GoType.Kind() == reflect.Interface && t.Implements(ti.GoType) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Implements implements Introspector.
func (c *Catalog) Implements(instance any, id TypeID) bool {
	if instance == nil || id == "" {
		return false
	}
	own := c.Identify(instance)
	if own == id {
		return true
	}
	t := reflect.TypeOf(instance)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if ti, ok := c.types[own]; ok && slices.Contains(ti.Supertypes, id) {
		return true
	}
	target, ok := c.types[id]
	if !ok || target.GoType == nil {
		return false
	}
	if target.GoType.Kind() == reflect.Interface {
		return t.Implements(target.GoType)
	}
	return t == target.GoType || indirect(t) == indirect(target.GoType)
}

// IDs returns every catalogued identifier, sorted.
func (c *Catalog) IDs() []TypeID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TypeID, 0, len(c.types))
	for id := range c.types {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
