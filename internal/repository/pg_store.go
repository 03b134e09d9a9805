package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rpattn/sfs/internal/domain"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore renders listing queries to Postgres SQL.
type PgStore struct {
	db     Querier
	schema *Schema
}

// NewPgStore creates a store over db restricted to the tables in schema.
func NewPgStore(db Querier, schema *Schema) *PgStore {
	return &PgStore{db: db, schema: schema}
}

// Find returns the rows matching q.
func (s *PgStore) Find(ctx context.Context, table string, q domain.QueryRequest) ([]domain.Row, error) {
	sql, args, err := compileSelect(s.schema, table, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query %s: %w", table, err))
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to scan %s rows: %w", table, err))
	}

	out := make([]domain.Row, len(maps))
	for i, m := range maps {
		out[i] = domain.Row(m)
	}
	return out, nil
}

// Count returns the number of rows matching q, ignoring ordering and paging.
func (s *PgStore) Count(ctx context.Context, table string, q domain.QueryRequest) (int64, error) {
	sql, args, err := compileCount(s.schema, table, q.Unpaged())
	if err != nil {
		return 0, err
	}
	var total int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, classify(fmt.Errorf("failed to count %s: %w", table, err))
	}
	return total, nil
}

// CountAll returns the unfiltered size of table.
func (s *PgStore) CountAll(ctx context.Context, table string) (int64, error) {
	return s.Count(ctx, table, domain.QueryRequest{})
}

// classify tags errors Postgres raised while parsing or typing the query.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	// 22: data exception, 42: syntax error or access rule violation
	if strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "42") {
		return fmt.Errorf("%w: %w", domain.ErrQueryConstruction, err)
	}
	return err
}
