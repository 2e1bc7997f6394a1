package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-servicemanager/framework/config"
	"github.com/km-arc/go-servicemanager/framework/container"
	"github.com/km-arc/go-servicemanager/framework/providers"
	"github.com/km-arc/go-servicemanager/framework/routing"
	"github.com/km-arc/go-servicemanager/framework/tracing"
)

// ShutdownTimeout bounds graceful HTTP shutdown in Run.
const ShutdownTimeout = 10 * time.Second

var version = "dev"

// SetVersion sets the build version reported by Version.
func SetVersion(v string) { version = v }

// Application is the top-level application container.
// It embeds the service Container and ProviderRegistry so user code can
// call app.GetService(), app.RegisterInstance(), app.Register() directly,
// like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
// The container is tuned from the loaded configuration.
func New(envFiles ...string) (*Application, error) {
	return NewWithConfig(config.Load(envFiles...))
}

// NewWithConfig is New with an already loaded configuration.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	opts, err := cfg.ContainerOptions()
	if err != nil {
		return nil, fmt.Errorf("container options: %w", err)
	}

	c := container.New(container.WithOptions(opts))
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	// Same order as Laravel: configuration first, then the services built on it.
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{},
		&providers.TracingServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.DiagnosticsServiceProvider{},
	} {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers, then applies the alias
// manifest if one is configured.
func (a *Application) Boot() error {
	if a.Providers.Booted() {
		return nil
	}
	if err := a.Providers.Boot(); err != nil {
		return err
	}

	path := a.Config().Container.Manifest
	if path == "" {
		return nil
	}
	m, err := config.LoadManifest(path)
	if err != nil {
		return err
	}
	n := m.Apply(a.Container)
	a.Logger().Info("alias manifest applied", zap.String("path", path), zap.Int("aliases", n))
	return nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg := a.Config()
	logger := a.Logger()
	defer func() { _ = logger.Sync() }()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Container.Manifest != "" && cfg.Container.WatchManifest {
		w, err := config.NewManifestWatcher(cfg.Container.Manifest, a.Container, 0, logger)
		if err != nil {
			return err
		}
		go func() { _ = w.Run(ctx) }()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
		)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("shutdown: %w", err)
		}
	}

	return errors.Join(serveErr, a.Shutdown(context.Background()))
}

// Shutdown flushes the tracing provider.
func (a *Application) Shutdown(ctx context.Context) error {
	tp, err := container.Resolve[*tracing.Provider](a.Container)
	if err != nil {
		return err
	}
	return tp.Shutdown(ctx)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return version }
