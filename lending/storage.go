package lending

import (
	"context"
	"time"
)

// CatalogStore holds Book records and their copy counts.
type CatalogStore interface {
	AddBook(ctx context.Context, book Book) (Book, error)
	BookByID(ctx context.Context, id int64) (Book, error)
	AllBooks(ctx context.Context) ([]Book, error)
	SearchBooks(ctx context.Context, term string) ([]Book, error)
	UpdateBook(ctx context.Context, book Book) error
	DeleteBook(ctx context.Context, id int64) error

	// AdjustAvailable shifts the available copy count by delta. It fails with
	// ErrBookNotFound for an unknown id and with ErrInvariantViolation when the
	// adjustment would push the count below zero or above the total quantity.
	AdjustAvailable(ctx context.Context, id int64, delta int) error
}

// MembershipStore holds Member records and their outstanding balances.
type MembershipStore interface {
	AddMember(ctx context.Context, member Member) (Member, error)
	MemberByID(ctx context.Context, id int64) (Member, error)
	AllMembers(ctx context.Context) ([]Member, error)
	SearchMembers(ctx context.Context, term string) ([]Member, error)
	UpdateMember(ctx context.Context, member Member) error
	DeleteMember(ctx context.Context, id int64) error

	// AdjustBalance shifts the outstanding fine balance by delta. It fails with
	// ErrMemberNotFound for an unknown id and with ErrInvariantViolation when
	// the adjustment would push the balance below zero.
	AdjustBalance(ctx context.Context, id int64, delta float64) error
}

// LoanStore holds Loan records, one per borrow event.
type LoanStore interface {
	AddLoan(ctx context.Context, loan Loan) (Loan, error)
	LoanByID(ctx context.Context, id int64) (Loan, error)
	UpdateLoan(ctx context.Context, loan Loan) error
	ActiveByMember(ctx context.Context, memberID int64) ([]Loan, error)
	AllActive(ctx context.Context) ([]Loan, error)
	Overdue(ctx context.Context, now time.Time) ([]OverdueLoan, error)
}

// FineStore holds Fine records derived from overdue returns.
type FineStore interface {
	AddFine(ctx context.Context, fine Fine) (Fine, error)
	FineByID(ctx context.Context, id int64) (Fine, error)
	MarkPaid(ctx context.Context, id int64) error

	// ByMember returns the member's fines ordered by creation time descending.
	ByMember(ctx context.Context, memberID int64) ([]Fine, error)

	// UnpaidWithMemberName returns all unpaid fines across members joined
	// with the owing member's name.
	UnpaidWithMemberName(ctx context.Context) ([]UnpaidFine, error)
}

// JournalStore holds the audit journal of lifecycle mutations.
type JournalStore interface {
	Append(ctx context.Context, entry JournalEntry) error
	Entries(ctx context.Context, limit int) ([]JournalEntry, error)
}

// Stores bundles the per-entity stores visible through one storage handle.
// Inside WithinTx every store operates on the same transaction.
type Stores struct {
	Catalog    CatalogStore
	Membership MembershipStore
	Loans      LoanStore
	Fines      FineStore
	Journal    JournalStore
}

// Storage is the contract a storage backend fulfils for the Engine.
type Storage interface {
	// WithinTx runs fn inside one serializable transaction. When fn returns an
	// error every effect already applied within the transaction is rolled back
	// and the error is returned unchanged; transaction management failures are
	// wrapped as StorageError.
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error

	// Stores returns auto-committing store access for single-entity reads and
	// plain CRUD outside the lifecycle operations.
	Stores() Stores
}
