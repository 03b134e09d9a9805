package repository

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
)

// MemoryStore evaluates listing queries over rows held in memory. Relation
// lookups match when any related row satisfies the comparison, and every
// result row is returned once.
type MemoryStore struct {
	schema *Schema

	mu   sync.RWMutex
	rows map[string][]domain.Row
}

// NewMemoryStore creates an empty store for the tables in schema.
func NewMemoryStore(schema *Schema) *MemoryStore {
	return &MemoryStore{schema: schema, rows: make(map[string][]domain.Row)}
}

// Insert appends rows to table. Columns not declared on the table are rejected.
func (s *MemoryStore) Insert(table string, rows ...domain.Row) error {
	t, err := s.schema.Table(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		for col := range row {
			if !t.hasColumn(col) {
				return fmt.Errorf("failed to insert into %s: unknown column %q", table, col)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.rows[table] = append(s.rows[table], maps.Clone(row))
	}
	return nil
}

// Find returns the rows matching q.
func (s *MemoryStore) Find(ctx context.Context, table string, q domain.QueryRequest) ([]domain.Row, error) {
	t, err := s.schema.Table(table)
	if err != nil {
		return nil, err
	}
	if _, err := projection(t, q.Defer, ""); err != nil {
		return nil, err
	}

	matched, err := s.filter(ctx, table, q.Where)
	if err != nil {
		return nil, err
	}
	if err := s.order(table, matched, q.OrderBy); err != nil {
		return nil, err
	}

	if q.Offset > 0 {
		matched = matched[min(q.Offset, len(matched)):]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]domain.Row, len(matched))
	for i, row := range matched {
		clone := maps.Clone(row)
		for _, d := range q.Defer {
			delete(clone, d)
		}
		out[i] = clone
	}
	return out, nil
}

// Count returns the number of rows matching q, ignoring ordering and paging.
func (s *MemoryStore) Count(ctx context.Context, table string, q domain.QueryRequest) (int64, error) {
	matched, err := s.filter(ctx, table, q.Where)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// CountAll returns the unfiltered size of table.
func (s *MemoryStore) CountAll(ctx context.Context, table string) (int64, error) {
	return s.Count(ctx, table, domain.QueryRequest{})
}

func (s *MemoryStore) filter(ctx context.Context, table string, where *domain.Predicate) ([]domain.Row, error) {
	if _, err := s.schema.Table(table); err != nil {
		return nil, err
	}
	if where != nil {
		if err := s.check(table, *where); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Row
	for _, row := range s.rows[table] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if where == nil || s.eval(table, row, *where) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// check rejects predicates the SQL renderer would also refuse.
func (s *MemoryStore) check(table string, p domain.Predicate) error {
	var err error
	p.Walk(func(node domain.Predicate) {
		if err != nil || !node.IsLeaf() {
			return
		}
		var res resolvedLookup
		if res, err = s.schema.resolve(table, node.Lookup, true); err != nil {
			return
		}
		_, isRange := rangeOperators[res.operator]
		_, isInterval := node.Value.(ranges.Interval)
		switch {
		case isInterval && !isRange:
			err = fmt.Errorf("%w: %q does not accept a range value", domain.ErrQueryConstruction, node.Lookup)
		case !isInterval && isRange && res.operator != OpContains:
			err = fmt.Errorf("%w: %q needs a range value", domain.ErrQueryConstruction, node.Lookup)
		case node.Value == nil && comparisonOperators[res.operator] != "":
			err = fmt.Errorf("%w: %q cannot compare against null", domain.ErrQueryConstruction, node.Lookup)
		}
	})
	return err
}

func (s *MemoryStore) eval(table string, row domain.Row, p domain.Predicate) bool {
	if !p.IsLeaf() {
		if p.Connective == domain.ConnectiveOr {
			return slices.ContainsFunc(p.Children, func(c domain.Predicate) bool { return s.eval(table, row, c) })
		}
		for _, c := range p.Children {
			if !s.eval(table, row, c) {
				return false
			}
		}
		return true
	}

	res, err := s.schema.resolve(table, p.Lookup, true)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(s.values(row, res), func(v any) bool {
		return matches(res, v, p.Value)
	})
}

// values follows res from row and returns every reachable column value. A
// path with no related rows yields a single nil, as a LEFT JOIN would.
func (s *MemoryStore) values(row domain.Row, res resolvedLookup) []any {
	current := []domain.Row{row}
	for _, h := range res.hops {
		var next []domain.Row
		for _, r := range current {
			local, ok := r[h.relation.LocalColumn]
			if !ok || local == nil {
				continue
			}
			for _, candidate := range s.rows[h.table.Name] {
				if equal(candidate[h.relation.ForeignColumn], local) {
					next = append(next, candidate)
				}
			}
		}
		if len(next) == 0 {
			return []any{nil}
		}
		current = next
	}

	out := make([]any, len(current))
	for i, r := range current {
		out[i] = r[res.column]
	}
	return out
}

func equal(a, b any) bool {
	if c, ok := ranges.CompareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

func matches(res resolvedLookup, column, value any) bool {
	if iv, ok := value.(ranges.Interval); ok {
		return matchesInterval(res.operator, column, iv)
	}

	switch res.operator {
	case OpExact:
		if value == nil {
			return column == nil
		}
		return column != nil && equal(column, value)
	case OpIContains:
		if column == nil || value == nil {
			return false
		}
		return strings.Contains(strings.ToLower(fmt.Sprint(column)), strings.ToLower(fmt.Sprint(value)))
	case OpContains:
		if column == nil || value == nil {
			return false
		}
		return strings.Contains(fmt.Sprint(column), fmt.Sprint(value))
	}

	if column == nil {
		return false
	}
	c, ok := ranges.CompareValues(column, value)
	if !ok {
		return false
	}
	switch res.operator {
	case OpGreater:
		return c > 0
	case OpGreaterEq:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessEq:
		return c <= 0
	}
	return false
}

func matchesInterval(op LookupOperator, column any, iv ranges.Interval) bool {
	if column == nil {
		return false
	}
	col, ok := column.(ranges.Interval)
	if !ok {
		col = ranges.Point(iv.Kind, column)
	}

	switch op {
	case OpContainedBy:
		return iv.ContainsInterval(col)
	case OpContains:
		return col.ContainsInterval(iv)
	case OpOverlap:
		return col.Overlaps(iv)
	case OpNotLess:
		return col.NotExtendsLeftOf(iv)
	case OpNotGreater:
		return col.NotExtendsRightOf(iv)
	case OpFullyLess:
		return col.StrictlyLeftOf(iv)
	case OpFullyGreat:
		return iv.StrictlyLeftOf(col)
	}
	return false
}

// order sorts rows in place by tokens with nulls last in either direction.
func (s *MemoryStore) order(table string, rows []domain.Row, tokens []domain.SortToken) error {
	if len(tokens) == 0 {
		return nil
	}
	resolved := make([]resolvedLookup, len(tokens))
	for i, token := range tokens {
		res, err := s.schema.resolve(table, token.Name, false)
		if err != nil {
			return err
		}
		resolved[i] = res
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type keyed struct {
		row domain.Row
		key []any
	}
	items := make([]keyed, len(rows))
	for i, row := range rows {
		key := make([]any, len(resolved))
		for j, res := range resolved {
			key[j] = s.values(row, res)[0]
		}
		items[i] = keyed{row: row, key: key}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		for i, token := range tokens {
			av, bv := a.key[i], b.key[i]
			switch {
			case av == nil && bv == nil:
				continue
			case av == nil:
				return 1
			case bv == nil:
				return -1
			}
			c, _ := ranges.CompareValues(av, bv)
			if token.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	for i := range items {
		rows[i] = items[i].row
	}
	return nil
}
