package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	// ErrModelAlreadyRegistered is returned when two modules try to
	// claim the same capability model name.
	ErrModelAlreadyRegistered = errors.New("model already registered")

	// ErrModelNotFound is returned when no factory exists for the
	// requested model name.
	ErrModelNotFound = errors.New("model not found")
)

// Component is a live capability instance produced by a factory.
type Component interface {
	// Name returns the component's model name.
	Name() string
}

// ComponentFactory constructs a capability component.
type ComponentFactory func(log *slog.Logger) (Component, error)

// ComponentRegistry maps capability model names to factories. Single
// writer during boot, read-only afterwards.
type ComponentRegistry struct {
	factories map[string]ComponentFactory
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: make(map[string]ComponentFactory)}
}

// RegisterModel adds a factory under the given model name. Duplicate
// names are rejected with ErrModelAlreadyRegistered.
func (r *ComponentRegistry) RegisterModel(name string, factory ComponentFactory) error {
	if name == "" {
		return errors.New("model name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("model %q: factory must not be nil", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrModelAlreadyRegistered, name)
	}
	r.factories[name] = factory
	return nil
}

// Factory returns the factory registered under name.
func (r *ComponentRegistry) Factory(name string) (ComponentFactory, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return factory, nil
}

// Models returns the sorted list of registered model names.
func (r *ComponentRegistry) Models() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *ComponentRegistry) Len() int {
	return len(r.factories)
}
