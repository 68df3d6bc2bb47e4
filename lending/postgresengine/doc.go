// Package postgresengine provides a PostgreSQL implementation of the lending
// storage contract.
//
// Every lifecycle operation runs as one serializable transaction, so the
// inventory count, the loan record and the member balance can never be
// observed in a partially updated state. SQL is built with goqu and executed
// through a pluggable adapter layer supporting pgx.Pool, sql.DB and sqlx.DB.
//
// Usage examples:
//
//	// Basic usage
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	storage, _ := postgresengine.NewStorageFromPGXPool(pool)
//
//	// With operational logging
//	storage, _ := postgresengine.NewStorageFromPGXPool(
//		pool,
//		postgresengine.WithLogger(logger),
//	)
//
//	_ = storage.CreateSchema(ctx)
//	engine, _ := lending.NewEngine(storage)
package postgresengine
