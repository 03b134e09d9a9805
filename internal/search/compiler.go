package search

import (
	"fmt"

	"github.com/rpattn/sfs/internal/domain"
)

// DefaultUserEntity is the account entity name that short-circuits to UserFields.
const DefaultUserEntity = "User"

// DefaultUserFields are searched on the account entity unless configured otherwise.
var DefaultUserFields = []string{"username", "first_name", "last_name", "email"}

// Compiler walks an entity and its dependencies collecting searchable lookups.
type Compiler struct {
	Registry   *Registry
	UserEntity string
	UserFields []string
}

func (c *Compiler) userEntity() string {
	if c.UserEntity != "" {
		return c.UserEntity
	}
	return DefaultUserEntity
}

func (c *Compiler) userFields() []string {
	if c.UserFields != nil {
		return c.UserFields
	}
	return DefaultUserFields
}

// Fields returns the lookups for the root entity: its basic fields, its special
// fields, then each dependency's fields under the dependency prefix.
func (c *Compiler) Fields(module, name string) ([]string, error) {
	visited := make(map[entityKey]struct{})
	return c.fields(module, name, visited)
}

func (c *Compiler) fields(module, name string, visited map[entityKey]struct{}) ([]string, error) {
	key := entityKey{module: module, name: name}
	if _, seen := visited[key]; seen {
		return nil, nil
	}
	visited[key] = struct{}{}

	if name == c.userEntity() {
		return append([]string(nil), c.userFields()...), nil
	}

	if c.Registry == nil {
		return nil, &domain.DependencyResolutionError{Module: module, Name: name}
	}
	entity, err := c.Registry.Resolve(module, name)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(entity.BasicSearchList())+len(entity.SpecialSearchList()))
	fields = append(fields, entity.BasicSearchList()...)
	fields = append(fields, entity.SpecialSearchList()...)

	for _, dep := range entity.ObjectDependencies() {
		var related []string
		if dep.Name == c.userEntity() {
			related = c.userFields()
		} else {
			related, err = c.fields(dep.Module, dep.Name, visited)
			if err != nil {
				return nil, fmt.Errorf("dependency %q of %s.%s: %w", dep.Prefix, module, name, err)
			}
		}
		for _, f := range related {
			fields = append(fields, dep.Prefix+domain.LookupSeparator+f)
		}
	}

	return fields, nil
}
