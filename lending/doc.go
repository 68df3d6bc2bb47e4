// Package lending implements the borrowing and fine lifecycle of a library:
// how a book copy moves between available and on loan, how due dates and
// overdue fines are computed, and how inventory counts, loan records and
// member balances are kept consistent.
//
// The package is storage-agnostic. All state lives behind the Storage
// contract; the Engine runs every lifecycle operation (Borrow, Return,
// PayFine) as one transaction so that partial updates are never observable.
// Concrete storage backends live in the postgresengine and memoryengine
// sub-packages.
//
// Usage example:
//
//	storage := memoryengine.NewStorage()
//	engine, _ := lending.NewEngine(storage, lending.WithLogger(logger))
//
//	loan, _ := engine.Borrow(ctx, memberID, bookID, 14)
//	_, fee, _ := engine.Return(ctx, loan.ID, 1.0)
package lending
