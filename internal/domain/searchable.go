package domain

// Dependency points a searchable entity at a related entity reached through Prefix.
type Dependency struct {
	Prefix string `yaml:"prefix"`
	Module string `yaml:"module"`
	Name   string `yaml:"name"`
}

// SearchableEntity describes which fields of an entity take part in free-text search.
type SearchableEntity interface {
	BasicSearchList() []string
	SpecialSearchList() []string
	ObjectDependencies() []Dependency
}

// EntityDescriptor is a declarative SearchableEntity.
type EntityDescriptor struct {
	Module       string       `yaml:"module"`
	Name         string       `yaml:"name"`
	Table        string       `yaml:"table"`
	Basic        []string     `yaml:"basic_search"`
	Special      []string     `yaml:"special_search"`
	Dependencies []Dependency `yaml:"dependencies"`
}

func (d EntityDescriptor) BasicSearchList() []string        { return d.Basic }
func (d EntityDescriptor) SpecialSearchList() []string      { return d.Special }
func (d EntityDescriptor) ObjectDependencies() []Dependency { return d.Dependencies }
