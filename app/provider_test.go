package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-servicemanager/app"
	"github.com/km-arc/go-servicemanager/framework/config"
	"github.com/km-arc/go-servicemanager/framework/container"
	"github.com/km-arc/go-servicemanager/framework/providers"
	"github.com/km-arc/go-servicemanager/framework/routing"
)

func bootDemo(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "Demo", Env: "testing"},
		Log: config.LogConfig{Level: "error", Format: "json"},
	}

	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
		&app.AppServiceProvider{},
	} {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return c
}

func TestServiceB_HelloWorld(t *testing.T) {
	c := bootDemo(t)

	b, err := container.Resolve[*app.ServiceB](c)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", b.HelloWorld())
	assert.True(t, c.HasService(app.ServiceAID))
}

func TestServiceB_UsesRegisteredServiceA(t *testing.T) {
	c := bootDemo(t)
	a := &app.ServiceA{Greeting: "Howdy"}
	require.NoError(t, c.RegisterInstance(a))

	b, err := container.Resolve[*app.ServiceB](c)
	require.NoError(t, err)
	assert.Same(t, a, b.A)
	assert.Equal(t, "Howdy World", b.HelloWorld())
}

func TestGreeterAlias(t *testing.T) {
	c := bootDemo(t)

	g, err := container.ResolveAs[app.Greeter](c, app.GreeterAlias)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", g.Hello("Ada"))

	a, err := container.Resolve[*app.ServiceA](c)
	require.NoError(t, err)
	assert.Same(t, a, g)
}

func TestAnnouncer_Announce(t *testing.T) {
	c := bootDemo(t)

	an, err := container.Resolve[*app.Announcer](c)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada\nHello Grace", an.Announce("Ada", "Grace"))
}

func TestHelloRoutes(t *testing.T) {
	c := bootDemo(t)
	router := container.MustResolve[*routing.Router](c)

	tests := []struct {
		path string
		want string
	}{
		{"/hello", "Hello World"},
		{"/hello/Ada", "Hello Ada"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Data struct {
					Message string `json:"message"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Data.Message)
		})
	}
}
