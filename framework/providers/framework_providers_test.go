package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-servicemanager/framework/config"
	"github.com/km-arc/go-servicemanager/framework/container"
	gohttp "github.com/km-arc/go-servicemanager/framework/http"
	"github.com/km-arc/go-servicemanager/framework/providers"
	"github.com/km-arc/go-servicemanager/framework/routing"
	"github.com/km-arc/go-servicemanager/framework/tracing"
)

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "Test", Env: "testing", Port: "0"},
		Container: config.ContainerConfig{DuplicatePolicy: "replace", MaxDepth: 16, AutoAlias: true},
		Log:       config.LogConfig{Level: "error", Format: "json"},
		Tracing:   config.TracingConfig{Exporter: "none"},
	}
}

func bootAll(t *testing.T, cfg *config.Config) *container.Container {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{},
		&providers.TracingServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.DiagnosticsServiceProvider{},
	} {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return c
}

func TestConfigServiceProvider_RegistersInstanceAndAlias(t *testing.T) {
	cfg := testConfig()
	c := container.New()
	require.NoError(t, (&providers.ConfigServiceProvider{Config: cfg}).Register(c))

	got, err := c.GetService(providers.ConfigAlias)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
	assert.True(t, c.HasService(container.TypeOf[config.Config]()))
}

func TestFrameworkProviders_ResolveThroughAliases(t *testing.T) {
	c := bootAll(t, testConfig())

	tests := []struct {
		alias container.TypeID
		check func(any) bool
	}{
		{providers.LoggerAlias, func(v any) bool { _, ok := v.(*zap.Logger); return ok }},
		{providers.TracingAlias, func(v any) bool { _, ok := v.(*tracing.Provider); return ok }},
		{providers.RouterAlias, func(v any) bool { _, ok := v.(*routing.Router); return ok }},
		{providers.DiagnosticsAlias, func(v any) bool { _, ok := v.(*gohttp.Diagnostics); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.alias), func(t *testing.T) {
			v, err := c.GetService(tt.alias)
			require.NoError(t, err)
			assert.True(t, tt.check(v), "unexpected %T", v)
		})
	}
}

func TestFrameworkProviders_SingletonRouter(t *testing.T) {
	c := bootAll(t, testConfig())

	byAlias, err := c.GetService(providers.RouterAlias)
	require.NoError(t, err)
	byType, err := container.Resolve[*routing.Router](c)
	require.NoError(t, err)
	assert.Same(t, byType, byAlias)
}

func TestDiagnosticsServiceProvider_MountsRoutes(t *testing.T) {
	c := bootAll(t, testConfig())
	router := container.MustResolve[*routing.Router](c)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, providers.DefaultDiagnosticsPrefix+"/services", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(container.ContainerID))
}

func TestDiagnosticsServiceProvider_CustomPrefix(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: testConfig()},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.DiagnosticsServiceProvider{Prefix: "/debug"},
	} {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())

	router := container.MustResolve[*routing.Router](c)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/aliases", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(providers.RouterAlias))
}

func TestLoggingServiceProvider_BadLevelFailsBoot(t *testing.T) {
	cfg := testConfig()
	cfg.Log.Level = "chatty"

	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{Config: cfg}))
	require.NoError(t, reg.Register(&providers.LoggingServiceProvider{}))

	err := reg.Boot()
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrConstructionFailed)
}

func TestTracingServiceProvider_MissingConfig(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.TracingServiceProvider{}))

	err := reg.Boot()
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrParameterResolution)
}
