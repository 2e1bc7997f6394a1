package container

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ContainerID is the identifier every container registers itself under.
var ContainerID = TypeOf[Container]()

// ContainerAlias is the short alias of ContainerID.
const ContainerAlias TypeID = "container"

// ── Options ──────────────────────────────────────────────────────────────────

// Options tune resolution behaviour.
type Options struct {
	// DuplicatePolicy applies to RegisterInstance calls that pass no policy.
	DuplicatePolicy DuplicatePolicy
	// MaxDepth bounds the length of a resolution path.
	MaxDepth int
	// AutoAlias aliases every supertype of a new instance to its id.
	AutoAlias bool
}

// DefaultMaxDepth is used when Options.MaxDepth is not positive.
const DefaultMaxDepth = 64

// DefaultOptions returns replace-on-duplicate, depth 64, auto-aliasing on.
func DefaultOptions() Options {
	return Options{
		DuplicatePolicy: DuplicateReplace,
		MaxDepth:        DefaultMaxDepth,
		AutoAlias:       true,
	}
}

// Option configures a Container at construction.
type Option func(*Container)

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(c *Container) { c.opts = opts }
}

// WithDuplicatePolicy sets the default duplicate policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *Container) { c.opts.DuplicatePolicy = p }
}

// WithMaxDepth bounds the resolution path.
func WithMaxDepth(n int) Option {
	return func(c *Container) { c.opts.MaxDepth = n }
}

// WithAutoAlias toggles supertype aliasing of new instances.
func WithAutoAlias(on bool) Option {
	return func(c *Container) { c.opts.AutoAlias = on }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithTracer sets the tracer used for resolve spans. The default is a no-op.
func WithTracer(t trace.Tracer) Option {
	return func(c *Container) { c.tracer = t }
}

// WithCatalog uses cat for type introspection.
func WithCatalog(cat *Catalog) Option {
	return func(c *Container) {
		c.catalog = cat
		c.types = cat
	}
}

// WithIntrospector replaces type introspection entirely. Catalog() then
// returns a catalog the container never consults.
func WithIntrospector(i Introspector) Option {
	return func(c *Container) { c.types = i }
}

// ── Container ────────────────────────────────────────────────────────────────

// ServiceFunc is the callable form of a container.
//
//	get := c.Func()
//	svc, err := get(container.TypeOf[ServiceB]())
type ServiceFunc func(id TypeID, localDeps ...any) (any, error)

type deferredLoad struct {
	once sync.Once
	load func(*Container) error
	err  error
}

// Container resolves type identifiers into shared instances, constructing
// them and their dependencies on first use.
//
//	// Laravel: $app->make(ServiceB::class)
//	svc, err := c.GetService(container.TypeOf[ServiceB]())
type Container struct {
	id        uuid.UUID
	opts      Options
	catalog   *Catalog
	types     Introspector
	aliases   *AliasTable
	instances *InstanceRegistry

	mu       sync.RWMutex
	logger   *zap.Logger
	tracer   trace.Tracer
	deferred map[TypeID]*deferredLoad
}

// New creates a container with an empty catalog and registers the container
// under ContainerID and the alias "container".
func New(opts ...Option) *Container {
	c := &Container{
		id:       uuid.New(),
		opts:     DefaultOptions(),
		aliases:  NewAliasTable(),
		deferred: make(map[TypeID]*deferredLoad),
	}
	c.catalog = NewCatalog()
	c.types = c.catalog
	c.instances = NewInstanceRegistry(c.aliases, func(inst any, id TypeID) bool {
		return c.types.Implements(inst, id)
	})

	for _, opt := range opts {
		opt(c)
	}
	if c.opts.MaxDepth <= 0 {
		c.opts.MaxDepth = DefaultMaxDepth
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("container", c.id.String()))
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer(TracerName)
	}

	// Laravel: $this->instance('app', $this)
	c.instances.PutIfAbsent(ContainerID, c)
	c.aliases.Set(ContainerAlias, ContainerID, true)
	return c
}

// ── Resolution ───────────────────────────────────────────────────────────────

// GetService returns the instance for id, building and registering it and
// its dependencies when needed. localDeps take priority over everything for
// this call only and are never registered.
func (c *Container) GetService(id TypeID, localDeps ...any) (any, error) {
	return c.GetServiceContext(context.Background(), id, localDeps...)
}

// GetServiceContext is GetService with a parent context for tracing.
func (c *Container) GetServiceContext(ctx context.Context, id TypeID, localDeps ...any) (any, error) {
	ctx, span := c.Tracer().Start(ctx, SpanResolve,
		trace.WithAttributes(
			attribute.String(AttrTypeID, string(id)),
			attribute.Int(AttrLocalDeps, len(localDeps)),
		),
	)
	defer span.End()

	inst, err := c.resolve(newResolution(ctx), id, localDeps)
	endSpan(span, err)
	if err != nil {
		c.log().Debug("resolve failed", zap.String("type", string(id)), zap.Error(err))
		return nil, err
	}
	return inst, nil
}

// Func returns the container as a function.
//
//	// PHP: $sm(ServiceB::class)
func (c *Container) Func() ServiceFunc {
	return c.GetService
}

// Instantiate builds a new instance of id without registering it. Aliases
// are not followed; dependencies are still resolved and registered.
func (c *Container) Instantiate(id TypeID, localDeps ...any) (any, error) {
	ti, ok := c.types.Describe(id)
	if !ok {
		return nil, &TypeError{Type: id, Err: ErrTypeNotFound}
	}
	res := newResolution(context.Background())
	if err := res.enter(id, c.opts.MaxDepth); err != nil {
		return nil, err
	}
	defer res.leave()
	return c.instantiate(res, ti, localDeps)
}

// RegisterType instantiates id and registers the result under id using the
// default duplicate policy.
func (c *Container) RegisterType(id TypeID, localDeps ...any) (any, error) {
	inst, err := c.Instantiate(id, localDeps...)
	if err != nil {
		return nil, err
	}
	if err := c.RegisterInstanceAs(id, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (c *Container) resolve(res *resolution, id TypeID, deps []any) (any, error) {
	if dep, ok := c.searchDependencies(id, deps); ok {
		return dep, nil
	}

	target, err := c.aliases.Resolve(id)
	if err != nil {
		return nil, err
	}
	if inst, ok := c.instances.Find(target); ok {
		return inst, nil
	}

	for _, key := range []TypeID{id, target} {
		loaded, err := c.loadDeferred(key)
		if err != nil {
			return nil, err
		}
		if loaded {
			return c.resolve(res, id, deps)
		}
	}

	ti, ok := c.types.Describe(target)
	if !ok {
		return nil, &TypeError{Type: target, Err: ErrTypeNotFound}
	}
	if ti.Kind == KindAbstract {
		return nil, &TypeError{Type: target, Err: ErrUnresolvedAbstraction}
	}

	if err := res.enter(target, c.opts.MaxDepth); err != nil {
		return nil, err
	}
	defer res.leave()

	ctx, span := c.Tracer().Start(res.ctx, SpanInstantiate,
		trace.WithAttributes(attribute.String(AttrTypeID, string(target))),
	)
	parent := res.ctx
	res.ctx = ctx
	inst, err := c.instantiate(res, ti, deps)
	res.ctx = parent
	endSpan(span, err)
	if err != nil {
		return nil, err
	}

	winner, stored := c.instances.PutIfAbsent(target, inst)
	if stored {
		c.autoAlias(target, inst)
		c.log().Debug("service constructed", zap.String("type", string(target)), zap.Int("depth", len(res.path)))
	}
	return winner, nil
}

func (c *Container) instantiate(res *resolution, ti *TypeInfo, deps []any) (any, error) {
	if ti.Kind != KindConcrete || ti.Factory == nil {
		return nil, &TypeError{Type: ti.ID, Err: ErrNotInstantiable}
	}

	args := make([]any, len(ti.Params))
	for i, p := range ti.Params {
		v, err := c.paramValue(res, p, deps)
		if err != nil {
			return nil, &ParameterError{Type: ti.ID, Name: p.Name, Position: i + 1, Err: err}
		}
		args[i] = v
	}
	return construct(ti, args)
}

// paramValue prepares one constructor argument. Local dependencies only
// apply to the parameters of the type being built, not to nested types.
func (c *Container) paramValue(res *resolution, p Param, deps []any) (any, error) {
	if p.Optional {
		if p.Type != "" && !p.Primitive {
			if dep, ok := c.searchDependencies(p.Type, deps); ok {
				return dep, nil
			}
		}
		return p.Default, nil
	}

	if p.Type == "" {
		return nil, ErrMissingTypeHint
	}
	if p.Primitive || c.isPrimitive(p.Type) {
		return nil, &TypeError{Type: p.Type, Err: ErrNonResolvableType}
	}
	if dep, ok := c.searchDependencies(p.Type, deps); ok {
		return dep, nil
	}
	return c.resolve(res, p.Type, nil)
}

func (c *Container) isPrimitive(id TypeID) bool {
	ti, ok := c.types.Describe(id)
	return ok && ti.Kind == KindPrimitive
}

func (c *Container) searchDependencies(id TypeID, deps []any) (any, bool) {
	for _, dep := range deps {
		if dep != nil && c.types.Implements(dep, id) {
			return dep, true
		}
	}
	return nil, false
}

func construct(ti *TypeInfo, args []any) (inst any, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, &ConstructionError{Type: ti.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	inst, err = ti.Factory(args)
	if err != nil {
		return nil, &ConstructionError{Type: ti.ID, Err: err}
	}
	if nilValue(inst) {
		return nil, &ConstructionError{Type: ti.ID, Err: ErrInvalidInstance}
	}
	return inst, nil
}

// ── Registration ─────────────────────────────────────────────────────────────

// RegisterInstance stores a pre-built value under the id of its type and
// aliases every supertype to it. Builtin values and nil are rejected.
//
//	// Laravel: $app->instance(Config::class, $config)
//	err := c.RegisterInstance(cfg)
func (c *Container) RegisterInstance(instance any, policy ...DuplicatePolicy) error {
	if err := validateInstance(instance); err != nil {
		return err
	}
	return c.RegisterInstanceAs(c.types.Identify(instance), instance, policy...)
}

// RegisterInstanceAs stores instance under an explicit id.
func (c *Container) RegisterInstanceAs(id TypeID, instance any, policy ...DuplicatePolicy) error {
	if err := validateInstance(instance); err != nil {
		return err
	}
	if id == "" {
		return &InstanceError{Value: instance, Err: ErrInvalidInstance}
	}

	p := c.opts.DuplicatePolicy
	if len(policy) > 0 {
		p = policy[0]
	}
	if err := c.instances.Put(id, instance, p); err != nil {
		c.log().Warn("duplicate service rejected", zap.String("type", string(id)))
		return err
	}
	c.autoAlias(id, instance)
	c.log().Debug("service registered", zap.String("type", string(id)), zap.Stringer("policy", p))
	return nil
}

func (c *Container) autoAlias(id TypeID, instance any) {
	if !c.opts.AutoAlias {
		return
	}
	for _, st := range c.types.Supertypes(instance) {
		if c.aliases.Set(st, id, false) {
			c.log().Debug("alias recorded", zap.String("source", string(st)), zap.String("target", string(id)))
		}
	}
	if own := c.types.Identify(instance); own != id {
		c.aliases.Set(own, id, false)
	}
}

// AddAlias maps source to target. With overwrite false an existing alias
// for source is kept and AddAlias returns false.
//
//	// Laravel: $app->alias(ServiceA::class, Greeter::class)
//	c.AddAlias(container.TypeOf[Greeter](), container.TypeOf[ServiceA](), true)
func (c *Container) AddAlias(source, target TypeID, overwrite bool) bool {
	ok := c.aliases.Set(source, target, overwrite)
	if ok {
		c.log().Debug("alias recorded", zap.String("source", string(source)), zap.String("target", string(target)))
	}
	return ok
}

// Alias returns the direct alias target of id.
func (c *Container) Alias(id TypeID) (TypeID, bool) {
	return c.aliases.Lookup(id)
}

// HasService reports whether a service is registered. target is a TypeID or
// string identifier, or an instance standing for its own type: an instance
// reports whether any service of its type (directly, by alias or by
// assignability) is registered.
//
//	// Laravel: $app->bound(Cache::class)
func (c *Container) HasService(target any) bool {
	switch t := target.(type) {
	case nil:
		return false
	case TypeID:
		return c.instances.Has(t)
	case string:
		return c.instances.Has(TypeID(t))
	}
	for _, rec := range c.instances.Entries() {
		if sameInstance(rec.Instance, target) {
			return true
		}
	}
	id := c.types.Identify(target)
	return id != "" && c.instances.Has(id)
}

// ── Deferred loading ─────────────────────────────────────────────────────────

// Defer registers load to run the first time any of ids is resolved and
// not yet available. load runs at most once.
func (c *Container) Defer(ids []TypeID, load func(*Container) error) {
	d := &deferredLoad{load: load}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.deferred[id] = d
	}
}

// DeferredServices lists ids whose loader has not run yet.
func (c *Container) DeferredServices() []TypeID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TypeID, 0, len(c.deferred))
	for id := range c.deferred {
		out = append(out, id)
	}
	return out
}

func (c *Container) loadDeferred(id TypeID) (bool, error) {
	// Every id of the load leaves the map before the loader runs, so a
	// loader resolving its own ids reaches the catalog instead of d.once.
	c.mu.Lock()
	d, ok := c.deferred[id]
	if ok {
		for key, other := range c.deferred {
			if other == d {
				delete(c.deferred, key)
			}
		}
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}

	d.once.Do(func() {
		c.log().Debug("loading deferred services", zap.String("type", string(id)))
		d.err = d.load(c)
	})
	return true, d.err
}

// ── Accessors ────────────────────────────────────────────────────────────────

// ID returns the unique id of this container.
func (c *Container) ID() uuid.UUID { return c.id }

// Options returns the effective options.
func (c *Container) Options() Options { return c.opts }

// Catalog returns the catalog new types are registered in.
func (c *Container) Catalog() *Catalog { return c.catalog }

// Introspector returns the introspector used for resolution.
func (c *Container) Introspector() Introspector { return c.types }

// Services returns every registered instance in registration order.
func (c *Container) Services() []Record { return c.instances.Entries() }

// Aliases returns every alias sorted by source.
func (c *Container) Aliases() []AliasEntry { return c.aliases.Entries() }

// SetLogger swaps the logger, e.g. once a configured one has been built.
func (c *Container) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l.With(zap.String("container", c.id.String()))
}

// SetTracer swaps the tracer.
func (c *Container) SetTracer(t trace.Tracer) {
	if t == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracer = t
}

// Tracer returns the tracer used for resolve spans.
func (c *Container) Tracer() trace.Tracer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracer
}

func (c *Container) log() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// resolution is the per-call state of one GetService call.
type resolution struct {
	ctx    context.Context
	path   []TypeID
	onPath map[TypeID]bool
}

func newResolution(ctx context.Context) *resolution {
	return &resolution{ctx: ctx, onPath: make(map[TypeID]bool)}
}

func (r *resolution) enter(id TypeID, maxDepth int) error {
	if r.onPath[id] {
		path := append(append([]TypeID(nil), r.path...), id)
		return &DependencyCycleError{Path: path}
	}
	if len(r.path) >= maxDepth {
		return &TypeError{Type: id, Err: ErrResolutionTooDeep}
	}
	r.onPath[id] = true
	r.path = append(r.path, id)
	return nil
}

func (r *resolution) leave() {
	last := r.path[len(r.path)-1]
	r.path = r.path[:len(r.path)-1]
	delete(r.onPath, last)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func validateInstance(instance any) error {
	if nilValue(instance) || builtin(reflect.TypeOf(instance)) {
		return &InstanceError{Value: instance, Err: ErrInvalidInstance}
	}
	return nil
}

func nilValue(v any) bool {
	if v == nil {
		return true
	}
	return isNil(reflect.ValueOf(v))
}

func sameInstance(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
