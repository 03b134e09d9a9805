package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/sfs/internal/config"
	"github.com/rpattn/sfs/internal/metrics"
	"github.com/rpattn/sfs/internal/middleware"
)

const testViews = `
tables:
  - name: people
    columns: [id, first_name, last_name, birthdate, city_id]
    relations:
      city: {table: cities, local_column: city_id, foreign_column: id}
  - name: cities
    columns: [id, name]
entities:
  - module: directory
    name: Person
    basic_search: [first_name, last_name]
    dependencies:
      - {prefix: city, module: directory, name: City}
  - module: directory
    name: City
    basic_search: [name]
views:
  - name: people
    path: /people
    table: people
    module: directory
    entity: Person
    sorts: [id, last_name, birthdate]
seed:
  cities:
    - {id: 1, name: Leeds}
  people:
    - {id: 1, first_name: Ann, last_name: Lee, birthdate: "1990-05-01", city_id: 1}
    - {id: 2, first_name: Bob, last_name: Ray, birthdate: "1985-02-03", city_id: null}
`

func testSettings() config.Settings {
	return config.Settings{
		DefaultPagination: 25,
		UserEntity:        "User",
		Server:            config.ServerSettings{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouter_ServesSeededViews(t *testing.T) {
	vf, err := config.ParseViews(strings.NewReader(testViews))
	require.NoError(t, err)
	store, err := seedMemoryStore(vf)
	require.NoError(t, err)

	collector := metrics.NewCollector(nil)
	views, err := buildViews(testSettings(), vf, store, collector, discardLogger())
	require.NoError(t, err)
	router := newRouter(testSettings(), views, collector, discardLogger())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people?search_by=leeds", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body struct {
		Rows     []map[string]any `json:"rows"`
		Filtered int64            `json:"filtered_object_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Filtered)
	assert.Equal(t, "Ann", body.Rows[0]["first_name"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sfs_browse_requests_total{outcome="ok",stage="executed",view="people"} 1`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckViews(t *testing.T) {
	vf, err := config.ParseViews(strings.NewReader(testViews))
	require.NoError(t, err)
	assert.NoError(t, checkViews(testSettings(), vf))

	vf.Entities = vf.Entities[:1]
	err = checkViews(testSettings(), vf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "City")
}
