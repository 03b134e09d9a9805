package repository

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rpattn/sfs/internal/domain"
)

// LookupOperator is the trailing comparison segment of a lookup such as "name__icontains".
type LookupOperator string

const (
	OpExact       LookupOperator = "exact"
	OpIContains   LookupOperator = "icontains"
	OpGreater     LookupOperator = "gt"
	OpGreaterEq   LookupOperator = "gte"
	OpLess        LookupOperator = "lt"
	OpLessEq      LookupOperator = "lte"
	OpContainedBy LookupOperator = "contained_by"
	OpContains    LookupOperator = "contains"
	OpOverlap     LookupOperator = "overlap"
	OpNotLess     LookupOperator = "not_lt"
	OpNotGreater  LookupOperator = "not_gt"
	OpFullyLess   LookupOperator = "fully_lt"
	OpFullyGreat  LookupOperator = "fully_gt"
)

var operators = map[LookupOperator]struct{}{
	OpExact: {}, OpIContains: {}, OpGreater: {}, OpGreaterEq: {}, OpLess: {}, OpLessEq: {},
	OpContainedBy: {}, OpContains: {}, OpOverlap: {}, OpNotLess: {}, OpNotGreater: {},
	OpFullyLess: {}, OpFullyGreat: {},
}

// Relation links a table column to a column of another table. A relation whose
// foreign column points back at the source key is multi-valued.
type Relation struct {
	Table         string `yaml:"table" mapstructure:"table"`
	LocalColumn   string `yaml:"local_column" mapstructure:"local_column"`
	ForeignColumn string `yaml:"foreign_column" mapstructure:"foreign_column"`
}

// multiValued reports whether source rows can match several target rows.
func (r Relation) multiValued(source, target Table) bool {
	return r.LocalColumn == source.primaryKey() && r.ForeignColumn != target.primaryKey()
}

// Table describes the columns and relations a lookup may reach.
type Table struct {
	Name       string              `yaml:"name"`
	PrimaryKey string              `yaml:"primary_key"`
	Columns    []string            `yaml:"columns"`
	Relations  map[string]Relation `yaml:"relations"`
	// RangeColumns hold native range values and are compared without casting.
	RangeColumns []string `yaml:"range_columns"`
}

func (t Table) primaryKey() string {
	if t.PrimaryKey != "" {
		return t.PrimaryKey
	}
	return "id"
}

func (t Table) hasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

func (t Table) isRangeColumn(name string) bool {
	return slices.Contains(t.RangeColumns, name)
}

// Schema is the set of tables the stores can query. Every identifier in a
// lookup is checked against it before any SQL is written.
type Schema struct {
	tables map[string]Table
}

// NewSchema indexes tables by name.
func NewSchema(tables ...Table) *Schema {
	s := &Schema{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// Table returns the named table.
func (s *Schema) Table(name string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return Table{}, fmt.Errorf("%w: unknown table %q", domain.ErrQueryConstruction, name)
	}
	return t, nil
}

// hop is one relation traversal of a resolved lookup.
type hop struct {
	name     string
	relation Relation
	table    Table
}

// resolvedLookup is a lookup checked against the schema.
type resolvedLookup struct {
	hops     []hop
	table    Table
	column   string
	operator LookupOperator
}

// pathKey identifies the relation path for join reuse.
func (r resolvedLookup) pathKey(depth int) string {
	names := make([]string, depth)
	for i := 0; i < depth; i++ {
		names[i] = r.hops[i].name
	}
	return strings.Join(names, domain.LookupSeparator)
}

// resolve walks lookup from root through relations to a column and operator.
func (s *Schema) resolve(root string, lookup string, allowOperator bool) (resolvedLookup, error) {
	table, err := s.Table(root)
	if err != nil {
		return resolvedLookup{}, err
	}

	parts := domain.SplitLookup(lookup)
	res := resolvedLookup{operator: OpExact}
	if allowOperator && len(parts) > 1 {
		if _, ok := operators[LookupOperator(parts[len(parts)-1])]; ok {
			res.operator = LookupOperator(parts[len(parts)-1])
			parts = parts[:len(parts)-1]
		}
	}

	for _, part := range parts[:len(parts)-1] {
		rel, ok := table.Relations[part]
		if !ok {
			return resolvedLookup{}, fmt.Errorf("%w: %q has no relation %q (lookup %q)", domain.ErrQueryConstruction, table.Name, part, lookup)
		}
		next, err := s.Table(rel.Table)
		if err != nil {
			return resolvedLookup{}, err
		}
		// Orderings join on the outer query, where a to-many join repeats rows.
		if !allowOperator && rel.multiValued(table, next) {
			return resolvedLookup{}, fmt.Errorf("%w: cannot order %q by multi-valued relation %q", domain.ErrQueryConstruction, root, part)
		}
		res.hops = append(res.hops, hop{name: part, relation: rel, table: next})
		table = next
	}

	column := parts[len(parts)-1]
	if !table.hasColumn(column) {
		return resolvedLookup{}, fmt.Errorf("%w: %q has no column %q (lookup %q)", domain.ErrQueryConstruction, table.Name, column, lookup)
	}
	res.table = table
	res.column = column
	return res, nil
}
