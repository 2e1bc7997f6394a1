package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-servicemanager/framework/config"
	"github.com/km-arc/go-servicemanager/framework/container"
	gohttp "github.com/km-arc/go-servicemanager/framework/http"
	"github.com/km-arc/go-servicemanager/framework/logging"
	"github.com/km-arc/go-servicemanager/framework/routing"
	"github.com/km-arc/go-servicemanager/framework/tracing"
)

// Short aliases registered by the framework providers.
const (
	ConfigAlias      container.TypeID = "config"
	LoggerAlias      container.TypeID = "logger"
	TracingAlias     container.TypeID = "tracing"
	RouterAlias      container.TypeID = "router"
	DiagnosticsAlias container.TypeID = "diagnostics"
)

// DefaultDiagnosticsPrefix is where the diagnostics API is mounted.
const DefaultDiagnosticsPrefix = "/_container"

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the application configuration.
//
// Registered:
//   - *config.Config, alias "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->instance('config', $config = new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	// Config is used as is when set; otherwise EnvFiles are loaded.
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load(p.EnvFiles...)
	}
	if err := app.RegisterInstance(cfg); err != nil {
		return err
	}
	app.AddAlias(ConfigAlias, container.TypeOf[config.Config](), true)
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider catalogues the zap logger built from config and, on
// boot, hands it to the container itself.
//
// Registered:
//   - *zap.Logger, alias "logger"
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	id, err := container.Constructor(app.Catalog(), logging.New, container.ParamNames("config"))
	if err != nil {
		return err
	}
	app.AddAlias(LoggerAlias, id, true)
	return nil
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*zap.Logger](app)
	if err != nil {
		return err
	}
	app.SetLogger(logger)
	return nil
}

// ── TracingServiceProvider ────────────────────────────────────────────────────

// TracingServiceProvider catalogues the OpenTelemetry provider and, on boot,
// points the container's resolve spans at it.
//
// Registered:
//   - *tracing.Provider, alias "tracing"
type TracingServiceProvider struct {
	container.BaseProvider
}

func (p *TracingServiceProvider) Register(app *container.Container) error {
	id, err := container.Constructor(app.Catalog(), tracing.NewProvider, container.ParamNames("config"))
	if err != nil {
		return err
	}
	app.AddAlias(TracingAlias, id, true)
	return nil
}

func (p *TracingServiceProvider) Boot(app *container.Container) error {
	tp, err := container.Resolve[*tracing.Provider](app)
	if err != nil {
		return err
	}
	app.SetTracer(tp.Tracer())
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Registered:
//   - *routing.Router, alias "router"
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	id, err := container.Constructor(app.Catalog(), routing.New, container.ParamNames("logger"))
	if err != nil {
		return err
	}
	app.AddAlias(RouterAlias, id, true)
	return nil
}

// ── DiagnosticsServiceProvider ────────────────────────────────────────────────

// DiagnosticsServiceProvider mounts the container diagnostics API on the
// router at boot.
//
// Registered:
//   - *gohttp.Diagnostics, alias "diagnostics"
type DiagnosticsServiceProvider struct {
	container.BaseProvider
	Prefix string // default: "/_container"
}

func newDiagnostics(c *container.Container, logger *zap.Logger) *gohttp.Diagnostics {
	return gohttp.NewDiagnostics(c, logger)
}

func (p *DiagnosticsServiceProvider) Register(app *container.Container) error {
	id, err := container.Constructor(app.Catalog(), newDiagnostics, container.ParamNames("app", "logger"))
	if err != nil {
		return err
	}
	app.AddAlias(DiagnosticsAlias, id, true)
	return nil
}

func (p *DiagnosticsServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}
	diag, err := container.Resolve[*gohttp.Diagnostics](app)
	if err != nil {
		return err
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultDiagnosticsPrefix
	}
	diag.Routes(router, prefix)
	return nil
}
