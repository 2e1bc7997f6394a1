package container

import (
	"fmt"
	"reflect"
	"unicode"
)

var errorType = reflect.TypeFor[error]()

// Constructor catalogues a plain Go constructor function. The signature is
// read once here; resolution never reflects over it again.
//
// fn must return T or (T, error). Its parameters become constructor params in
// order: builtin types are primitive, a variadic tail is optional, everything
// else is resolved from the container by type id. The type is registered
// under the id of T unless the As option says otherwise.
//
//	// Laravel: auto-wiring via the constructor signature
//	func NewServiceB(a *ServiceA) *ServiceB { ... }
//	id, err := container.Constructor(cat, NewServiceB)
func Constructor(cat *Catalog, fn any, opts ...TypeOption) (TypeID, error) {
	if fn == nil {
		return "", fmt.Errorf("container: constructor cannot be nil")
	}
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		return "", fmt.Errorf("container: constructor must be a function, got %v", fnType.Kind())
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return "", fmt.Errorf("container: constructor must return (T) or (T, error), got %d return values", numOut)
	}
	returnsError := numOut == 2
	if returnsError && fnType.Out(1) != errorType {
		return "", fmt.Errorf("container: constructor's second return value must be error, got %v", fnType.Out(1))
	}
	out := fnType.Out(0)
	if builtin(out) {
		return "", fmt.Errorf("container: constructor must return a named type, got %v", out)
	}

	params := make([]Param, fnType.NumIn())
	for i := range params {
		in := fnType.In(i)
		name := paramName(in, i)
		switch {
		case fnType.IsVariadic() && i == len(params)-1:
			params[i] = OptionalParam(name, typeKeyOf(in), nil)
		case builtin(in):
			params[i] = PrimitiveParam(name, typeKeyOf(in))
		default:
			params[i] = RequiredParam(name, typeKeyOf(in))
		}
	}

	info := []TypeOption{Params(params...)}
	if out.Kind() != reflect.Interface {
		info = append(info, GoType(out))
	}

	id := typeKeyOf(out)
	for _, opt := range opts {
		probe := &TypeInfo{ID: id}
		opt(probe)
		id = probe.ID
	}

	factory := func(args []any) (any, error) {
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			want := fnType.In(i)
			if arg == nil {
				in[i] = reflect.Zero(want)
				continue
			}
			v := reflect.ValueOf(arg)
			if !v.Type().AssignableTo(want) {
				return nil, fmt.Errorf("argument %d: %v is not assignable to %v", i+1, v.Type(), want)
			}
			in[i] = v
		}

		var results []reflect.Value
		if fnType.IsVariadic() {
			results = fnValue.CallSlice(in)
		} else {
			results = fnValue.Call(in)
		}
		if returnsError && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		if isNil(results[0]) {
			return nil, nil
		}
		return results[0].Interface(), nil
	}

	return id, cat.Concrete(id, factory, append(info, opts...)...)
}

// MustConstructor is like Constructor but panics on error.
func MustConstructor(cat *Catalog, fn any, opts ...TypeOption) TypeID {
	id, err := Constructor(cat, fn, opts...)
	if err != nil {
		panic(err)
	}
	return id
}

// paramName derives a parameter name from its type: *ServiceA → serviceA.
func paramName(t reflect.Type, i int) string {
	name := []rune(indirect(t).Name())
	if len(name) == 0 {
		return fmt.Sprintf("arg%d", i+1)
	}
	name[0] = unicode.ToLower(name[0])
	return string(name)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
