package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdapter struct {
	name  string
	model string
}

func (m *mockAdapter) Generate(ctx context.Context, req Request) (*Result, error) {
	return &Result{Content: "mock response", Usage: Usage{Kind: UnitTokens}}, nil
}

func (m *mockAdapter) Provider() string { return m.name }

func mockFactory(cfg Config) (Adapter, error) {
	return &mockAdapter{name: cfg.Provider, model: cfg.Model}, nil
}

func TestRegistry_New(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", mockFactory)

	adapter, err := r.New("mock", Config{Model: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "mock", adapter.Provider(), "name is copied into the config")
	assert.Equal(t, "m1", adapter.(*mockAdapter).model)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry()
	r.Register("mock", mockFactory)

	_, err := r.New("anthropic", Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "[mock]")
}

func TestRegistry_FactoryError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("broken", func(Config) (Adapter, error) { return nil, boom })

	_, err := r.New("broken", Config{})
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_RegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register("dup", mockFactory)

	assert.Panics(t, func() { r.Register("dup", mockFactory) })
	assert.Panics(t, func() { r.Register("nil", nil) })
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	r.Register("zeta", mockFactory)
	r.Register("alpha", mockFactory)

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
	assert.True(t, r.Has("alpha"))
	assert.False(t, r.Has("beta"))
}
