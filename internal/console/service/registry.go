package service

import (
	"context"
	"fmt"
	"slices"

	"dispatch-console/pkg/liststate"
)

// Factory opens a new screen instance with its own list state.
type Factory func(ctx context.Context) (Screen, error)

// Registry maps screen names to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names lists the registered screens in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Open(ctx context.Context, name string) (Screen, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, name)
	}
	return f(ctx)
}

// RegisterList adds a screen backed by a ListScreen for def.
func RegisterList[T liststate.Row[T, F], F ~string](r *Registry, def Definition[T, F], deps Deps) {
	r.Register(def.Name, func(ctx context.Context) (Screen, error) {
		s, err := OpenListScreen(ctx, def, deps)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
