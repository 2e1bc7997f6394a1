// Package app is the demo application served by the CLI: a greeter, a
// service built on it, and the provider that wires them into the container.
package app

import "strings"

// Greeter says hello.
type Greeter interface {
	Hello(name string) string
}

// ServiceA is the default Greeter.
type ServiceA struct {
	Greeting string
}

func NewServiceA() *ServiceA { return &ServiceA{Greeting: "Hello"} }

func (a *ServiceA) Hello(name string) string { return a.Greeting + " " + name }

// ServiceB needs a ServiceA.
type ServiceB struct {
	A *ServiceA
}

func NewServiceB(a *ServiceA) *ServiceB { return &ServiceB{A: a} }

func (b *ServiceB) HelloWorld() string { return b.A.Hello("World") }

// Announcer greets through whatever Greeter the container hands it.
type Announcer struct {
	greeter Greeter
}

func NewAnnouncer(g Greeter) *Announcer { return &Announcer{greeter: g} }

// Announce greets every name, one per line.
func (a *Announcer) Announce(names ...string) string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = a.greeter.Hello(n)
	}
	return strings.Join(lines, "\n")
}
