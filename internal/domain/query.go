package domain

// Connective joins the children of a predicate node.
type Connective string

const (
	ConnectiveAnd Connective = "AND"
	ConnectiveOr  Connective = "OR"
)

// Predicate is either a leaf lookup comparison or an AND/OR node over children.
type Predicate struct {
	Connective Connective
	Children   []Predicate

	Lookup string
	Value  any
}

// Leaf builds a single lookup comparison such as ("name__icontains", "ann").
func Leaf(lookup string, value any) Predicate {
	return Predicate{Lookup: lookup, Value: value}
}

// And joins predicates conjunctively.
func And(children ...Predicate) Predicate {
	return join(ConnectiveAnd, children)
}

// Or joins predicates disjunctively.
func Or(children ...Predicate) Predicate {
	return join(ConnectiveOr, children)
}

func join(c Connective, children []Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return Predicate{Connective: c, Children: children}
}

// IsLeaf reports whether p compares a single lookup.
func (p Predicate) IsLeaf() bool {
	return p.Connective == ""
}

// Walk visits p and every descendant depth first.
func (p Predicate) Walk(fn func(Predicate)) {
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}

// QueryRequest is the fully compiled query for one listing request.
type QueryRequest struct {
	Where    *Predicate
	OrderBy  []SortToken
	Distinct bool
	Defer    []string
	Limit    int
	Offset   int
}

// Unpaged returns a copy of q without limit and offset, for counting.
func (q QueryRequest) Unpaged() QueryRequest {
	q.Limit = 0
	q.Offset = 0
	return q
}

// Row is one result record keyed by column name.
type Row map[string]any
