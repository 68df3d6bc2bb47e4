package adapters

import "context"

// Querier defines the query operations shared by plain connections and
// transactions.
type Querier interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the
// lending storage engine.
type DBAdapter interface {
	Querier

	// BeginSerializableTx opens a transaction at serializable isolation.
	BeginSerializableTx(ctx context.Context) (DBTx, error)
}

// DBTx defines an open transaction.
type DBTx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
