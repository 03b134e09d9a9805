package browse

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/filtering"
	"github.com/rpattn/sfs/internal/sorting"
)

// Query string parameter names.
const (
	ParamSearchBy    = "search_by"
	ParamFilterName  = "filter_name"
	ParamFilterValue = "filter_value"
	ParamSortBy      = "sort_by"
	ParamPaginateBy  = "paginate_by"
	ParamPage        = "page"
	ParamReturnEmpty = "__RETURN_EMPTY__"
	ParamFormat      = "format"
)

// LastPage may be passed as the page to jump to the final page.
const LastPage = "last"

// Params are the raw listing parameters of one request.
type Params struct {
	SearchBy     string
	FilterNames  []string
	FilterValues []string
	// SortBy is nil when the request named no sort, selecting the view default.
	SortBy      []string
	PaginateBy  string
	Page        string
	ReturnEmpty bool
}

// ParseParams reads Params from a query string.
func ParseParams(q url.Values) Params {
	p := Params{
		SearchBy:     q.Get(ParamSearchBy),
		FilterNames:  q[ParamFilterName],
		FilterValues: q[ParamFilterValue],
		PaginateBy:   q.Get(ParamPaginateBy),
		Page:         q.Get(ParamPage),
		ReturnEmpty:  q.Get(ParamReturnEmpty) != "",
	}
	if sorts, ok := q[ParamSortBy]; ok {
		p.SortBy = sorts
	}
	return p
}

// Result is everything a listing page renders.
type Result struct {
	Rows              []domain.Row    `json:"rows"`
	FilteredCount     int64           `json:"filtered_object_count"`
	TotalCount        int64           `json:"total_object_count"`
	SearchBy          string          `json:"search_by"`
	UsingFilters      bool            `json:"using_filters"`
	SortBy            []string        `json:"sort_by"`
	PaginateBy        int             `json:"paginate_by"`
	DefaultPagination int             `json:"default_pagination"`
	Page              int             `json:"page"`
	PageCount         int             `json:"page_count"`
	PageWindow        []int           `json:"pagination_page_navigation_range"`
	Filters           []FilterControl `json:"filters"`
	FilterNames       []string        `json:"filter_names"`
	ShowAllInFilter   bool            `json:"show_all_in_filter"`
	ShowClearSorts    bool            `json:"show_clear_sorts"`
}

// Browse compiles p into one query, runs it and pages the result.
func (v *View) Browse(ctx context.Context, p Params) (*Result, error) {
	start := time.Now()
	res, stage, err := v.browse(ctx, p)
	if v.deps.Observer != nil {
		var filtered int64
		if res != nil {
			filtered = res.FilteredCount
		}
		v.deps.Observer.ObserveBrowse(v.cfg.Name, stage, err, filtered, time.Since(start))
	}
	return res, err
}

func (v *View) browse(ctx context.Context, p Params) (*Result, Stage, error) {
	res := &Result{
		Rows:              []domain.Row{},
		PaginateBy:        v.paginateBy(p.PaginateBy),
		DefaultPagination: v.cfg.DefaultPagination,
		Page:              1,
		PageCount:         1,
		Filters:           v.Filters(),
		FilterNames:       v.FilterNames(),
		ShowAllInFilter:   flag(v.cfg.ShowAllInFilter),
		ShowClearSorts:    flag(v.cfg.ShowClearSorts),
	}

	run := &pipeline{}
	if p.ReturnEmpty {
		total, err := v.deps.Store.CountAll(ctx, v.cfg.Table)
		if err != nil {
			return nil, run.stage, run.fail(err)
		}
		res.TotalCount = total
		res.PageWindow = window(1)
		return res, run.stage, nil
	}

	logger := v.deps.Logger

	searchPred, err := v.searchPredicate(p.SearchBy)
	if err != nil {
		return nil, run.stage, run.fail(err)
	}
	res.SearchBy = p.SearchBy
	run.advance(StageSearchCompiled)

	filters := &filtering.Compiler{
		Mode:        v.mode(),
		Location:    v.deps.Location,
		Now:         v.deps.Now,
		Comparisons: v.comparisons,
		AgeFields:   v.cfg.AgeFields,
		Logger:      logger,
	}
	list, err := filters.Compile(p.FilterNames, p.FilterValues)
	if err != nil {
		return nil, run.stage, run.fail(err)
	}
	filterPred := filterPredicate(list)
	res.UsingFilters = filterPred != nil
	run.advance(StageFiltersCompiled)

	requested := p.SortBy
	if requested == nil {
		requested = v.cfg.DefaultSortBy
	}
	order, err := sorting.Compile(requested, v.cfg.Sorts, logger)
	if err != nil {
		return nil, run.stage, run.fail(err)
	}
	res.SortBy = domain.SortTokenStrings(order)
	run.advance(StageSortsCompiled)

	q := domain.QueryRequest{OrderBy: order, Defer: v.cfg.Deferments}
	switch {
	case searchPred != nil && filterPred != nil:
		where := domain.And(*searchPred, *filterPred)
		q.Where = &where
	case searchPred != nil:
		q.Where = searchPred
	case filterPred != nil:
		q.Where = filterPred
	}
	// Relation joins can repeat root rows, so any predicate asks for distinct rows.
	q.Distinct = q.Where != nil

	store := v.deps.Store
	if res.FilteredCount, err = store.Count(ctx, v.cfg.Table, q); err != nil {
		return nil, run.stage, run.fail(err)
	}
	if res.PageCount, res.Page, err = paginate(res.FilteredCount, res.PaginateBy, p.Page); err != nil {
		return nil, run.stage, run.fail(err)
	}
	q.Limit = res.PaginateBy
	q.Offset = (res.Page - 1) * res.PaginateBy

	if res.Rows, err = store.Find(ctx, v.cfg.Table, q); err != nil {
		return nil, run.stage, run.fail(err)
	}
	if res.TotalCount, err = store.CountAll(ctx, v.cfg.Table); err != nil {
		return nil, run.stage, run.fail(err)
	}
	res.PageWindow = window(res.Page)
	run.advance(StageExecuted)

	logger.Debug("browse executed",
		"search_by", res.SearchBy,
		"filters", list.Keys(),
		"sort_by", res.SortBy,
		"filtered", res.FilteredCount,
		"page", res.Page)
	return res, run.stage, nil
}

// searchPredicate ORs a case-insensitive contains over every search field.
func (v *View) searchPredicate(term string) (*domain.Predicate, error) {
	if term == "" || v.cfg.Entity == "" {
		return nil, nil
	}
	fields, err := v.deps.Search.Fields(v.cfg.Module, v.cfg.Entity)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	leaves := make([]domain.Predicate, len(fields))
	for i, f := range fields {
		leaves[i] = domain.Leaf(f+domain.LookupSeparator+"icontains", term)
	}
	pred := domain.Or(leaves...)
	return &pred, nil
}

// filterPredicate ANDs the entries and ORs the values within each entry.
func filterPredicate(list *domain.FilterList) *domain.Predicate {
	if list == nil || list.Len() == 0 {
		return nil
	}
	entries := list.Entries()
	groups := make([]domain.Predicate, len(entries))
	for i, e := range entries {
		leaves := make([]domain.Predicate, len(e.Values))
		for j, value := range e.Values {
			leaves[j] = domain.Leaf(e.Key, value)
		}
		groups[i] = domain.Or(leaves...)
	}
	pred := domain.And(groups...)
	return &pred
}

func (v *View) paginateBy(raw string) int {
	if v.cfg.OverridePagination {
		return v.cfg.DefaultPagination
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return v.cfg.DefaultPagination
	}
	return n
}

// paginate validates the requested page against the filtered count. An empty
// result still has one page.
func paginate(count int64, perPage int, raw string) (pages, page int, err error) {
	pages = int((count + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}

	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return pages, 1, nil
	case LastPage:
		return pages, pages, nil
	}
	page, convErr := strconv.Atoi(raw)
	if convErr != nil || page < 1 || page > pages {
		return pages, 0, &domain.PageNotFoundError{Page: raw}
	}
	return pages, page, nil
}

// window lists the page numbers shown around page, three either side.
func window(page int) []int {
	out := make([]int, 0, 7)
	for n := page - 3; n <= page+3; n++ {
		out = append(out, n)
	}
	return out
}
