package tr

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/prodseal/go-backend/pkg/e"
)

type ctxKey struct{}

// CtxWithTx кладёт транзакцию pgx.Tx в контекст.
func CtxWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(ctxKey{})
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
