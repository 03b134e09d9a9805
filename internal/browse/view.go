// Package browse runs the search, filter and sort pipeline for one list view.
package browse

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/ranges"
	"github.com/rpattn/sfs/internal/repository"
	"github.com/rpattn/sfs/internal/search"
)

const (
	// DefaultPagination is the page size used when a view declares none.
	DefaultPagination = 25
)

// DefaultSortBy orders views that declare no default sort.
var DefaultSortBy = []string{"-id"}

// DefaultAgeFields maps age filters onto the birth-date column.
var DefaultAgeFields = map[string]string{"age": "birthdate"}

// Config declares one list view. It is decoded from the views file and never
// changed after NewView.
type Config struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	// Module and Entity name the searchable entity in the registry.
	Module string `yaml:"module"`
	Entity string `yaml:"entity"`

	Sorts              []string `yaml:"sorts"`
	DefaultSortBy      []string `yaml:"default_sort_by"`
	DefaultPagination  int      `yaml:"default_pagination"`
	OverridePagination bool     `yaml:"override_pagination"`
	Deferments         []string `yaml:"deferments"`
	ShowAllInFilter    *bool    `yaml:"show_all_in_filter"`
	ShowClearSorts     *bool    `yaml:"show_clear_sorts"`
	// NativeRanges sends ranged filters as interval values instead of comparisons.
	NativeRanges bool              `yaml:"native_ranges"`
	AgeFields    map[string]string `yaml:"age_fields"`
	// ExportColumns fixes the column order of file exports.
	ExportColumns []string `yaml:"export_columns"`

	Filters []FilterSpec `yaml:"filters"`
}

// Observer records the outcome of each browse.
type Observer interface {
	ObserveBrowse(view string, stage Stage, err error, filtered int64, elapsed time.Duration)
}

// Deps are the collaborators shared by every view.
type Deps struct {
	Store    repository.Store
	Search   *search.Compiler
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
	Observer Observer
	// OnError runs before an invalid request is redirected.
	OnError func(r *http.Request, err error)
}

// View is a configured list view ready to serve requests.
type View struct {
	cfg  Config
	deps Deps

	controls    []FilterControl
	filterNames []string
	comparisons map[string]domain.RangeComparison
}

// NewView applies defaults to cfg and registers its filter controls.
func NewView(cfg Config, deps Deps) (*View, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("view %q: table is required", cfg.Name)
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Table
	}
	if cfg.DefaultSortBy == nil {
		cfg.DefaultSortBy = DefaultSortBy
	}
	if cfg.DefaultPagination <= 0 {
		cfg.DefaultPagination = DefaultPagination
	}
	if cfg.AgeFields == nil {
		cfg.AgeFields = DefaultAgeFields
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("view %q: store is required", cfg.Name)
	}
	if deps.Search == nil {
		deps.Search = &search.Compiler{Registry: search.NewRegistry()}
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Logger = deps.Logger.With("view", cfg.Name)

	v := &View{cfg: cfg, deps: deps, comparisons: make(map[string]domain.RangeComparison)}
	for _, spec := range cfg.Filters {
		if err := v.addFilter(spec); err != nil {
			return nil, fmt.Errorf("view %q: %w", cfg.Name, err)
		}
	}
	return v, nil
}

// Name identifies the view in logs and metrics.
func (v *View) Name() string { return v.cfg.Name }

// Path is the route the view is mounted on.
func (v *View) Path() string { return v.cfg.Path }

// Config returns the view configuration with defaults applied.
func (v *View) Config() Config { return v.cfg }

func (v *View) mode() ranges.Mode {
	if v.cfg.NativeRanges {
		return ranges.ModeNativeIntervals
	}
	return ranges.ModeComparisons
}

func flag(b *bool) bool {
	return b == nil || *b
}
