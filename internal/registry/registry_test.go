package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/xposedbuild/internal/target"
)

func noop(context.Context, *Deps, target.Job) error { return nil }

type fakeModule struct{ names []string }

func (m fakeModule) Register(r *Registry) {
	for _, n := range m.names {
		r.RegisterStep(&RegisteredStep{Name: n, Fn: noop})
	}
}

func TestRegistry_OrderFollowsRegistration(t *testing.T) {
	r := New()
	for _, m := range []Module{fakeModule{[]string{"compile"}}, fakeModule{[]string{"collect", "prop"}}} {
		m.Register(r)
	}

	assert.Equal(t, []string{"compile", "collect", "prop"}, r.Names())
	s, ok := r.Lookup("collect")
	require.True(t, ok)
	assert.Equal(t, "collect", s.Name)
	_, ok = r.Lookup("zip")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterStep(&RegisteredStep{Name: "compile", Fn: noop})
	assert.Panics(t, func() {
		r.RegisterStep(&RegisteredStep{Name: "compile", Fn: noop})
	})
	assert.Panics(t, func() {
		r.RegisterStep(&RegisteredStep{Name: "nofn"})
	})
}

func TestRegistry_Validate(t *testing.T) {
	r := New()
	fakeModule{[]string{"compile", "zip"}}.Register(r)

	require.NoError(t, r.Validate([]string{"zip", "compile"}))
	require.NoError(t, r.Validate(nil))

	err := r.Validate([]string{"compile", "link", "strip"})
	require.ErrorIs(t, err, ErrUnknownStep)
	assert.Contains(t, err.Error(), "link, strip")
}

func TestDeps_Clock(t *testing.T) {
	d := &Deps{}
	assert.False(t, d.Clock().IsZero())
}
