package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxStarter begins database transactions. *pgxpool.Pool satisfies it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
