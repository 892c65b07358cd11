package loaders

import (
	"fmt"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// BuilderFunc creates a Loader from a source configuration.
type BuilderFunc func(source domain.Source) (driven.Loader, error)

// Factory creates loaders from source configuration.
// It maintains a registry of loader types and their builders.
type Factory struct {
	builders map[string]BuilderFunc
}

// NewFactory creates a new loader factory.
func NewFactory() *Factory {
	return &Factory{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a loader builder for the given type.
// Type should be unique and match the loader's Type() return value.
func (f *Factory) Register(loaderType string, builder BuilderFunc) {
	f.builders[loaderType] = builder
}

// Create returns a Loader for the given source.
// Returns domain.ErrUnsupportedType if the source type is unknown.
func (f *Factory) Create(source domain.Source) (driven.Loader, error) {
	builder, ok := f.builders[source.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown loader %q", domain.ErrUnsupportedType, source.Type)
	}
	return builder(source)
}

// Has returns true if a loader with the given type is registered.
func (f *Factory) Has(loaderType string) bool {
	_, ok := f.builders[loaderType]
	return ok
}

// SupportedTypes returns all registered loader types.
func (f *Factory) SupportedTypes() []string {
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	return types
}
