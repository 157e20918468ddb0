package ports

import "context"

// Transactor runs fn inside a single store transaction. Repositories called with the ctx passed to fn
// take part in that transaction. Errors returned by fn roll the transaction back and are returned as is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
