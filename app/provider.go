package app

import (
	"net/http"

	"github.com/km-arc/go-servicemanager/framework/container"
	gohttp "github.com/km-arc/go-servicemanager/framework/http"
	"github.com/km-arc/go-servicemanager/framework/routing"
)

// Ids of the demo services.
var (
	GreeterID   = container.TypeOf[Greeter]()
	ServiceAID  = container.TypeOf[ServiceA]()
	ServiceBID  = container.TypeOf[ServiceB]()
	AnnouncerID = container.TypeOf[Announcer]()
)

// GreeterAlias is the short name of the Greeter binding.
const GreeterAlias container.TypeID = "greeter"

// AppServiceProvider catalogues the demo services and mounts the /hello
// routes.
//
// Laravel equivalent:
//
//	// app/Providers/AppServiceProvider.php
//	$this->app->bind(Greeter::class, ServiceA::class);
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(c *container.Container) error {
	cat := c.Catalog()
	if _, err := container.Interface[Greeter](cat); err != nil {
		return err
	}
	for _, fn := range []any{NewServiceA, NewServiceB, NewAnnouncer} {
		if _, err := container.Constructor(cat, fn); err != nil {
			return err
		}
	}
	c.AddAlias(GreeterID, ServiceAID, false)
	c.AddAlias(GreeterAlias, GreeterID, true)
	return nil
}

func (p *AppServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c)
	if err != nil {
		return err
	}
	router.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		b, err := container.Resolve[*ServiceB](c)
		if err != nil {
			gohttp.NewResponse(w).Error(gohttp.StatusFor(err), err.Error())
			return
		}
		gohttp.NewResponse(w).Success(map[string]string{"message": b.HelloWorld()})
	})
	router.Get("/hello/{name}", func(w http.ResponseWriter, r *http.Request) {
		a, err := container.Resolve[*Announcer](c)
		if err != nil {
			gohttp.NewResponse(w).Error(gohttp.StatusFor(err), err.Error())
			return
		}
		gohttp.NewResponse(w).Success(map[string]string{"message": a.Announce(routing.Param(r, "name"))})
	})
	return nil
}
