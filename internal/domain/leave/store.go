package leave

import (
	"context"

	"github.com/jackc/pgx/v5"

	"leavedesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// WithTx returns a copy of the store scoped to the transaction so every
// statement of a multi-step operation shares it.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{DB: tx}
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}
