// Package container provides a service manager: a dependency-resolution and
// instantiation engine with a Laravel-style Service Provider system.
//
// # Overview
//
// Given a type identifier the container returns a ready-to-use instance,
// constructing it and, recursively, its constructor dependencies. Every
// constructed instance is registered and shared by later requests. Aliases
// map interfaces to implementations.
//
// Go has no runtime constructor discovery, so types are described up front
// in a Catalog, either by hand or from an ordinary constructor function.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Catalogue types: container.Constructor(c.Catalog(), NewServiceA)
//  3. Register providers: registry.Register(&MyProvider{})
//  4. Boot: registry.Boot()        (safe to resolve everything after this)
//  5. Resolve: container.Resolve[*ServiceB](c)
//
// # Catalogue
//
//	cat := c.Catalog()
//
//	// From a constructor: func NewServiceB(a *ServiceA) *ServiceB
//	container.Constructor(cat, NewServiceB)
//
//	// By hand
//	cat.Concrete("app.Mailer", func(args []any) (any, error) {
//	    return NewMailer(args[0].(*Config)), nil
//	}, container.Params(container.RequiredParam("config", "app.Config")))
//
//	// Interfaces
//	container.Interface[Greeter](cat)
//
// # Resolution order
//
//	svc, err := c.GetService(id, localDeps...)
//
//  1. a local dependency that can stand in for id
//  2. id followed through the alias table
//  3. a registered instance: exact, aliased, or any that implements id
//  4. a deferred provider that declared id
//  5. abstract id without alias: ErrUnresolvedAbstraction
//  6. unknown id: ErrTypeNotFound
//  7. construct, register, auto-alias supertypes, return
//
// # Instances and aliases
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.RegisterInstance(cfg)
//
//	// Laravel: $app->alias(ServiceA::class, Greeter::class)
//	c.AddAlias(container.TypeOf[Greeter](), container.TypeOf[ServiceA](), true)
//
// # Errors
//
// Every failure is returned, never panicked, and matches one sentinel:
//
//	_, err := c.GetService(id)
//	var pe *container.ParameterError
//	if errors.As(err, &pe) { ... pe.Name, pe.Position ... }
//	errors.Is(err, container.ErrDependencyCycle)
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    _, err := container.Constructor(app.Catalog(), NewMailer)
//	    return err
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []container.TypeID {
//	    return []container.TypeID{container.TypeOf[Heavy]()}
//	}
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    // only called on first resolution of Heavy
//	    _, err := container.Constructor(app.Catalog(), NewHeavy)
//	    return err
//	}
package container
