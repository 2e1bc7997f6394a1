package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-servicemanager/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Greeter interface {
	Hello(name string) string
}

type ServiceA struct {
	greeting string
}

func NewServiceA() *ServiceA { return &ServiceA{greeting: "Hello"} }

func (a *ServiceA) Hello(name string) string { return a.greeting + " " + name }

type ServiceB struct {
	A *ServiceA
}

func NewServiceB(a *ServiceA) *ServiceB { return &ServiceB{A: a} }

func (b *ServiceB) HelloWorld() string { return b.A.Hello("World") }

type Announcer struct {
	G Greeter
}

func NewAnnouncer(g Greeter) *Announcer { return &Announcer{G: g} }

type PoliteGreeter struct {
	title string
}

func NewPoliteGreeter() *PoliteGreeter { return &PoliteGreeter{title: "Dear"} }

func (p *PoliteGreeter) Hello(name string) string { return "Good day, " + p.title + " " + name }

// Frontend depends on ServiceB, which depends on ServiceA.
type Frontend struct {
	B *ServiceB
}

func NewFrontend(b *ServiceB) *Frontend { return &Frontend{B: b} }

type CycleA struct{ B *CycleB }
type CycleB struct{ A *CycleA }

func NewCycleA(b *CycleB) *CycleA { return &CycleA{B: b} }
func NewCycleB(a *CycleA) *CycleB { return &CycleB{A: a} }

var (
	greeterID   = container.TypeOf[Greeter]()
	serviceAID  = container.TypeOf[ServiceA]()
	serviceBID  = container.TypeOf[ServiceB]()
	announcerID = container.TypeOf[Announcer]()
	politeID    = container.TypeOf[PoliteGreeter]()
	frontendID  = container.TypeOf[Frontend]()
)

// newTestContainer returns a container whose catalog knows every fixture.
func newTestContainer(t *testing.T, opts ...container.Option) *container.Container {
	t.Helper()
	c := container.New(opts...)
	cat := c.Catalog()

	_, err := container.Interface[Greeter](cat)
	require.NoError(t, err)
	for _, fn := range []any{NewServiceA, NewServiceB, NewAnnouncer, NewPoliteGreeter, NewFrontend, NewCycleA, NewCycleB} {
		_, err := container.Constructor(cat, fn)
		require.NoError(t, err)
	}
	return c
}

var errBoom = errors.New("boom")
