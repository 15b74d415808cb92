package ports

import "context"

// Tx is an opaque transaction handle. The persistence layer decides the
// concrete type (for sqlite it is a *gorm.DB).
type Tx interface{}

// UnitOfWork groups repository writes into one transaction. The callback's
// error decides the outcome: nil commits, anything else rolls back.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext binds a transaction handle to the context so repositories
// called inside WithTx share it.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the bound transaction handle, or nil outside one.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
