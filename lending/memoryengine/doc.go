// Package memoryengine provides an in-memory implementation of the lending
// storage contract.
//
// It keeps every record in plain maps behind a single mutex; a transaction
// holds the mutex for its whole duration and restores a snapshot of the state
// when the transaction function fails, so rollback semantics match the
// Postgres engine. Intended for tests and for running the demo CLI without a
// database.
package memoryengine
