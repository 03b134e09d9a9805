package repository

import (
	"context"

	"github.com/rpattn/sfs/internal/domain"
)

// Store executes compiled listing queries against one backing store.
type Store interface {
	Find(ctx context.Context, table string, q domain.QueryRequest) ([]domain.Row, error)
	Count(ctx context.Context, table string, q domain.QueryRequest) (int64, error)
	CountAll(ctx context.Context, table string) (int64, error)
}
