package registry

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubComponent struct {
	name string
}

func (c *stubComponent) Name() string { return c.name }

func stubFactory(name string) ComponentFactory {
	return func(log *slog.Logger) (Component, error) {
		return &stubComponent{name: name}, nil
	}
}

func TestRegisterModel(t *testing.T) {
	reg := NewComponentRegistry()

	require.NoError(t, reg.RegisterModel("motor", stubFactory("motor")))
	require.NoError(t, reg.RegisterModel("encoder", stubFactory("encoder")))

	err := reg.RegisterModel("motor", stubFactory("motor"))
	assert.ErrorIs(t, err, ErrModelAlreadyRegistered)

	assert.Error(t, reg.RegisterModel("", stubFactory("")))
	assert.Error(t, reg.RegisterModel("camera", nil))

	assert.Equal(t, []string{"encoder", "motor"}, reg.Models())

	factory, err := reg.Factory("motor")
	require.NoError(t, err)
	component, err := factory(testLogger())
	require.NoError(t, err)
	assert.Equal(t, "motor", component.Name())

	_, err = reg.Factory("camera")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestRegisterModulesContinuesPastFailures(t *testing.T) {
	reg := NewComponentRegistry()

	modules := []Module{
		{
			Name: "good-a",
			Register: func(r *ComponentRegistry) error {
				return r.RegisterModel("model-a", stubFactory("model-a"))
			},
		},
		{
			Name: "broken",
			Register: func(r *ComponentRegistry) error {
				return errors.New("hardware probe failed")
			},
		},
		{
			Name: "duplicate",
			Register: func(r *ComponentRegistry) error {
				return r.RegisterModel("model-a", stubFactory("model-a"))
			},
		},
		{
			Name: "good-b",
			Register: func(r *ComponentRegistry) error {
				return r.RegisterModel("model-b", stubFactory("model-b"))
			},
		},
	}

	failed := RegisterModules(testLogger(), reg, modules)

	// Two modules fail but the ones around them still register.
	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[1], ErrModelAlreadyRegistered)
	assert.Equal(t, []string{"model-a", "model-b"}, reg.Models())
}

func TestRegisterModulesEmptyList(t *testing.T) {
	reg := NewComponentRegistry()
	assert.Empty(t, RegisterModules(testLogger(), reg, nil))
	assert.Zero(t, reg.Len())
}
