package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/rpattn/sfs/internal/browse"
	"github.com/rpattn/sfs/internal/config"
	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/metrics"
	"github.com/rpattn/sfs/internal/middleware"
	"github.com/rpattn/sfs/internal/repository"
	"github.com/rpattn/sfs/internal/search"
)

// searchCompiler registers the declared entities and reports every dependency
// that does not resolve.
func searchCompiler(settings config.Settings, vf *config.ViewsFile) (*search.Compiler, []error) {
	registry := search.NewRegistry()
	registry.RegisterDescriptors(vf.Entities...)
	compiler := &search.Compiler{
		Registry:   registry,
		UserEntity: settings.UserEntity,
		UserFields: settings.UserSearchFields,
	}
	return compiler, registry.Verify(settings.UserEntity)
}

// buildViews constructs every declared view against store. Process-wide
// settings fill in what a view leaves unset.
func buildViews(settings config.Settings, vf *config.ViewsFile, store repository.Store, observer browse.Observer, logger *slog.Logger) ([]*browse.View, error) {
	compiler, errs := searchCompiler(settings, vf)
	if len(errs) > 0 {
		return nil, fmt.Errorf("unresolved search dependencies: %w", errs[0])
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	views := make([]*browse.View, 0, len(vf.Views))
	for _, cfg := range vf.Views {
		if cfg.DefaultPagination <= 0 {
			cfg.DefaultPagination = settings.DefaultPagination
		}
		if settings.NativeRanges {
			cfg.NativeRanges = true
		}
		view, err := browse.NewView(cfg, browse.Deps{
			Store:    store,
			Search:   compiler,
			Location: loc,
			Logger:   logger,
			Observer: observer,
		})
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// seedMemoryStore loads the views file seed rows into a fresh in-memory store.
func seedMemoryStore(vf *config.ViewsFile) (*repository.MemoryStore, error) {
	store := repository.NewMemoryStore(vf.Schema())
	for table, rows := range vf.Seed {
		converted := make([]domain.Row, len(rows))
		for i, row := range rows {
			converted[i] = domain.Row(row)
		}
		if err := store.Insert(table, converted...); err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", table, err)
		}
	}
	return store, nil
}

// newRouter mounts each view at its path, plus /metrics and /healthz.
func newRouter(settings config.Settings, views []*browse.View, collector *metrics.Collector, logger *slog.Logger) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   settings.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	for _, v := range views {
		path := v.Path()
		if path == "" {
			path = "/" + strings.Trim(v.Name(), "/")
		}
		mux.Handle(path, v)
		logger.Info("mounted view", "view", v.Name(), "path", path)
	}
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.RequestIDMiddleware(
		middleware.LoggingMiddleware(logger)(corsHandler.Handler(mux)),
	)
}
