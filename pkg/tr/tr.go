package tr

import (
	"context"

	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/jackc/pgx/v5"
)

// TxKey — ключ контекста, под которым хранится активная транзакция.
type TxKey struct{}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(TxKey{})
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// CtxWithTx помещает транзакцию в контекст для нижележащих репозиториев.
func CtxWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, TxKey{}, tx)
}
