package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-servicemanager/framework/container"
)

func TestConstructor_DerivesParams(t *testing.T) {
	t.Parallel()
	cat := container.NewCatalog()

	id, err := container.Constructor(cat, func(a *ServiceA, g Greeter, name string, opts ...int) (*Multi, error) {
		return &Multi{A: a}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, container.TypeOf[Multi](), id)

	ti, ok := cat.Describe(id)
	require.True(t, ok)
	assert.True(t, ti.HasConstructor)
	assert.Equal(t, []container.Param{
		container.RequiredParam("serviceA", serviceAID),
		container.RequiredParam("greeter", greeterID),
		container.PrimitiveParam("string", "string"),
		container.OptionalParam("arg4", "[]int", nil),
	}, ti.Params)
}

func TestConstructor_RejectsBadSignatures(t *testing.T) {
	t.Parallel()
	cat := container.NewCatalog()

	tests := []struct {
		name string
		fn   any
	}{
		{"nil", nil},
		{"not a func", 42},
		{"no results", func() {}},
		{"three results", func() (*ServiceA, error, error) { return nil, nil, nil }},
		{"second not error", func() (*ServiceA, int) { return nil, 0 }},
		{"builtin result", func() string { return "" }},
	}
	for _, tt := range tests {
		_, err := container.Constructor(cat, tt.fn)
		assert.Error(t, err, tt.name)
	}
}

func TestConstructor_FactoryChecksArguments(t *testing.T) {
	t.Parallel()
	cat := container.NewCatalog()
	id, err := container.Constructor(cat, NewServiceB)
	require.NoError(t, err)

	ti, _ := cat.Describe(id)
	_, err = ti.Factory([]any{&ServiceB{}})
	require.Error(t, err)

	inst, err := ti.Factory([]any{nil})
	require.NoError(t, err)
	assert.Nil(t, inst.(*ServiceB).A)
}

func TestConstructor_InterfaceResultNeedsNoGoType(t *testing.T) {
	t.Parallel()
	c := container.New()
	id, err := container.Constructor(c.Catalog(), func() Greeter { return NewPoliteGreeter() }, container.As("greeter.default"))
	require.NoError(t, err)

	g, err := container.ResolveAs[Greeter](c, id)
	require.NoError(t, err)
	assert.Equal(t, "Good day, Dear Ann", g.Hello("Ann"))
}

func TestMustConstructor_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { container.MustConstructor(container.NewCatalog(), 1) })
	assert.NotPanics(t, func() { container.MustConstructor(container.NewCatalog(), NewServiceA) })
}
