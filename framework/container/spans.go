package container

// TracerName is the instrumentation name of the default tracer.
const TracerName = "github.com/km-arc/go-servicemanager/framework/container"

// Span names.
const (
	SpanResolve     = "container.resolve"
	SpanInstantiate = "container.instantiate"
)

// Span attribute keys.
const (
	AttrTypeID    = "container.type"
	AttrLocalDeps = "container.local_deps"
)
