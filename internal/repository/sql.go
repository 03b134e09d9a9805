package repository

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
)

type sqlBuilder struct {
	args []any
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{args: make([]any, 0)}
}

func (b *sqlBuilder) addArg(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

func (b *sqlBuilder) placeholder(idx int) string {
	return fmt.Sprintf("$%d", idx)
}

func (b *sqlBuilder) bind(value any) string {
	return b.placeholder(b.addArg(value))
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// joinSet assigns aliases to relation paths and emits one LEFT JOIN per path.
type joinSet struct {
	prefix  string
	root    Table
	aliases map[string]string
	clauses []string
}

func newJoinSet(prefix string, root Table) *joinSet {
	return &joinSet{prefix: prefix, root: root, aliases: map[string]string{"": prefix + "0"}}
}

func (j *joinSet) rootAlias() string {
	return j.aliases[""]
}

func (j *joinSet) alias(res resolvedLookup) string {
	parent := j.rootAlias()
	for i, h := range res.hops {
		key := res.pathKey(i + 1)
		alias, ok := j.aliases[key]
		if !ok {
			alias = fmt.Sprintf("%s%d", j.prefix, len(j.aliases))
			j.aliases[key] = alias
			j.clauses = append(j.clauses, fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
				quoteIdent(h.table.Name), alias,
				parent, quoteIdent(h.relation.LocalColumn),
				alias, quoteIdent(h.relation.ForeignColumn)))
		}
		parent = alias
	}
	return parent
}

func (j *joinSet) sql() string {
	if len(j.clauses) == 0 {
		return ""
	}
	return " " + strings.Join(j.clauses, " ")
}

var rangeOperators = map[LookupOperator]string{
	OpContainedBy: "<@",
	OpContains:    "@>",
	OpOverlap:     "&&",
	OpNotLess:     "&>",
	OpNotGreater:  "&<",
	OpFullyLess:   "<<",
	OpFullyGreat:  ">>",
}

var comparisonOperators = map[LookupOperator]string{
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpLess:      "<",
	OpLessEq:    "<=",
}

var rangeElementTypes = map[ranges.IntervalKind]string{
	ranges.KindTimestamp: "timestamptz",
	ranges.KindNumeric:   "numeric",
}

// predicateCompiler renders a predicate tree for one root table.
type predicateCompiler struct {
	schema  *Schema
	root    string
	builder *sqlBuilder
	joins   *joinSet
}

func (c *predicateCompiler) compile(p domain.Predicate) (string, error) {
	if p.IsLeaf() {
		return c.leaf(p)
	}
	if len(p.Children) == 0 {
		if p.Connective == domain.ConnectiveOr {
			return "FALSE", nil
		}
		return "TRUE", nil
	}

	parts := make([]string, 0, len(p.Children))
	for _, child := range p.Children {
		sql, err := c.compile(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	return "(" + strings.Join(parts, " "+string(p.Connective)+" ") + ")", nil
}

func (c *predicateCompiler) leaf(p domain.Predicate) (string, error) {
	res, err := c.schema.resolve(c.root, p.Lookup, true)
	if err != nil {
		return "", err
	}
	column := c.joins.alias(res) + "." + quoteIdent(res.column)

	if iv, ok := p.Value.(ranges.Interval); ok {
		return c.rangeLeaf(res, column, iv, p.Lookup)
	}

	switch res.operator {
	case OpExact:
		if p.Value == nil {
			return column + " IS NULL", nil
		}
		return fmt.Sprintf("%s = %s", column, c.builder.bind(p.Value)), nil
	case OpIContains:
		if p.Value == nil {
			return "FALSE", nil
		}
		return fmt.Sprintf("%s::text ILIKE %s", column, c.builder.bind(containsPattern(p.Value))), nil
	case OpContains:
		if p.Value == nil {
			return "FALSE", nil
		}
		return fmt.Sprintf("%s::text LIKE %s", column, c.builder.bind(containsPattern(p.Value))), nil
	}

	if op, ok := comparisonOperators[res.operator]; ok {
		if p.Value == nil {
			return "", fmt.Errorf("%w: %q cannot compare against null", domain.ErrQueryConstruction, p.Lookup)
		}
		return fmt.Sprintf("%s %s %s", column, op, c.builder.bind(p.Value)), nil
	}

	return "", fmt.Errorf("%w: %q needs a range value", domain.ErrQueryConstruction, p.Lookup)
}

func (c *predicateCompiler) rangeLeaf(res resolvedLookup, column string, iv ranges.Interval, lookup string) (string, error) {
	op, ok := rangeOperators[res.operator]
	if !ok {
		return "", fmt.Errorf("%w: %q does not accept a range value", domain.ErrQueryConstruction, lookup)
	}
	value, err := iv.PgValue()
	if err != nil {
		return "", err
	}
	if !res.table.isRangeColumn(res.column) {
		column = column + "::" + rangeElementTypes[iv.Kind]
	}
	return fmt.Sprintf("%s %s %s::%s", column, op, c.builder.bind(value), iv.Kind), nil
}

func containsPattern(v any) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(fmt.Sprint(v))
	return "%" + escaped + "%"
}

// compiledWhere is the FROM/WHERE tail shared by select and count.
type compiledWhere struct {
	from  string
	where string
	outer *joinSet
}

func compileWhere(schema *Schema, root string, q domain.QueryRequest, builder *sqlBuilder) (compiledWhere, error) {
	table, err := schema.Table(root)
	if err != nil {
		return compiledWhere{}, err
	}

	outer := newJoinSet("t", table)
	out := compiledWhere{outer: outer, from: quoteIdent(table.Name) + " " + outer.rootAlias()}
	if q.Where == nil {
		return out, nil
	}

	semiJoin := false
	if q.Distinct {
		if semiJoin, err = joinsRelations(schema, root, *q.Where); err != nil {
			return compiledWhere{}, err
		}
	}

	// A semi-join keeps multi-valued relation joins from duplicating root rows;
	// otherwise predicate and ordering share one set of joins.
	joins := outer
	if semiJoin {
		joins = newJoinSet("w", table)
	}
	pc := &predicateCompiler{schema: schema, root: root, builder: builder, joins: joins}
	pred, err := pc.compile(*q.Where)
	if err != nil {
		return compiledWhere{}, err
	}

	if !semiJoin {
		out.where = " WHERE " + pred
		return out, nil
	}

	pk := quoteIdent(table.primaryKey())
	out.where = fmt.Sprintf(" WHERE %s.%s IN (SELECT %s.%s FROM %s %s%s WHERE %s)",
		outer.rootAlias(), pk, joins.rootAlias(), pk,
		quoteIdent(table.Name), joins.rootAlias(), joins.sql(), pred)
	return out, nil
}

func joinsRelations(schema *Schema, root string, p domain.Predicate) (bool, error) {
	if p.IsLeaf() {
		res, err := schema.resolve(root, p.Lookup, true)
		if err != nil {
			return false, err
		}
		return len(res.hops) > 0, nil
	}
	for _, child := range p.Children {
		found, err := joinsRelations(schema, root, child)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func compileOrder(schema *Schema, root string, tokens []domain.SortToken, joins *joinSet) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	orderings := make([]string, 0, len(tokens))
	for _, token := range tokens {
		res, err := schema.resolve(root, token.Name, false)
		if err != nil {
			return "", err
		}
		orderings = append(orderings, fmt.Sprintf("%s.%s %s NULLS LAST",
			joins.alias(res), quoteIdent(res.column), token.Direction()))
	}
	return " ORDER BY " + strings.Join(orderings, ", "), nil
}

func projection(table Table, deferred []string, alias string) (string, error) {
	for _, d := range deferred {
		if !table.hasColumn(d) {
			return "", fmt.Errorf("%w: cannot defer unknown column %q of %q", domain.ErrQueryConstruction, d, table.Name)
		}
	}
	cols := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if slices.Contains(deferred, col) {
			continue
		}
		cols = append(cols, alias+"."+quoteIdent(col))
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("%w: every column of %q is deferred", domain.ErrQueryConstruction, table.Name)
	}
	return strings.Join(cols, ", "), nil
}

// compileSelect renders the page query for q against root.
func compileSelect(schema *Schema, root string, q domain.QueryRequest) (string, []any, error) {
	table, err := schema.Table(root)
	if err != nil {
		return "", nil, err
	}
	builder := newSQLBuilder()
	w, err := compileWhere(schema, root, q, builder)
	if err != nil {
		return "", nil, err
	}
	cols, err := projection(table, q.Defer, w.outer.rootAlias())
	if err != nil {
		return "", nil, err
	}
	order, err := compileOrder(schema, root, q.OrderBy, w.outer)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT " + cols + " FROM " + w.from + w.outer.sql() + w.where + order
	if q.Limit > 0 {
		sql += " LIMIT " + builder.bind(q.Limit)
	}
	if q.Offset > 0 {
		sql += " OFFSET " + builder.bind(q.Offset)
	}
	return sql, builder.args, nil
}

// compileCount renders the row count of q without ordering or paging.
func compileCount(schema *Schema, root string, q domain.QueryRequest) (string, []any, error) {
	builder := newSQLBuilder()
	w, err := compileWhere(schema, root, q, builder)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + w.from + w.outer.sql() + w.where, builder.args, nil
}
