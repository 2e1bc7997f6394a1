package container

import "fmt"

// ── Generics helpers ─────────────────────────────────────────────────────────

// Resolve resolves the id of T and type-asserts the result.
//
//	// Instead of: svc, _ := c.GetService(container.TypeOf[ServiceB]()); b := svc.(*ServiceB)
//	// Write:      b, err := container.Resolve[*ServiceB](c)
func Resolve[T any](c *Container, localDeps ...any) (T, error) {
	return ResolveAs[T](c, TypeOf[T](), localDeps...)
}

// ResolveAs resolves an explicit id and type-asserts the result to T.
//
//	g, err := container.ResolveAs[Greeter](c, "greeter")
func ResolveAs[T any](c *Container, id TypeID, localDeps ...any) (T, error) {
	var zero T
	inst, err := c.GetService(id, localDeps...)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, id, inst)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, localDeps ...any) T {
	typed, err := Resolve[T](c, localDeps...)
	if err != nil {
		panic(err)
	}
	return typed
}
