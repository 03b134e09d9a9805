// Package search resolves the field lookups a free-text search runs against.
package search

import (
	"sort"

	"github.com/rpattn/sfs/internal/domain"
)

type entityKey struct {
	module string
	name   string
}

// Registry maps (module, name) references to searchable entities. It is filled at
// startup and read-only afterwards.
type Registry struct {
	entities map[entityKey]domain.SearchableEntity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[entityKey]domain.SearchableEntity)}
}

// Register adds an entity under module and name, replacing any previous one.
func (r *Registry) Register(module, name string, entity domain.SearchableEntity) {
	r.entities[entityKey{module: module, name: name}] = entity
}

// RegisterDescriptors registers declarative entities under their own module and name.
func (r *Registry) RegisterDescriptors(descriptors ...domain.EntityDescriptor) {
	for _, d := range descriptors {
		r.Register(d.Module, d.Name, d)
	}
}

// Resolve looks up an entity.
func (r *Registry) Resolve(module, name string) (domain.SearchableEntity, error) {
	entity, ok := r.entities[entityKey{module: module, name: name}]
	if !ok {
		return nil, &domain.DependencyResolutionError{Module: module, Name: name}
	}
	return entity, nil
}

// Verify reports every declared dependency that does not resolve. userEntity
// dependencies are skipped because they never go through the registry.
func (r *Registry) Verify(userEntity string) []error {
	keys := make([]entityKey, 0, len(r.entities))
	for k := range r.entities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].module != keys[j].module {
			return keys[i].module < keys[j].module
		}
		return keys[i].name < keys[j].name
	})

	var errs []error
	for _, k := range keys {
		for _, dep := range r.entities[k].ObjectDependencies() {
			if dep.Name == userEntity {
				continue
			}
			if _, err := r.Resolve(dep.Module, dep.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Names lists the registered entities as "module.name", sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for k := range r.entities {
		names = append(names, k.module+"."+k.name)
	}
	sort.Strings(names)
	return names
}
