package lending

import "time"

// LoanStatus identifies where a loan is in its lifecycle.
type LoanStatus string

const (
	// LoanStatusBorrowed marks a loan whose book copy is still out.
	LoanStatusBorrowed LoanStatus = "borrowed"

	// LoanStatusReturned marks a completed loan. Returned loans are immutable.
	LoanStatusReturned LoanStatus = "returned"
)

const hoursPerDay = 24

// Loan represents one borrow-to-return transaction for a single book copy
// by a single member. It is created by Borrow and mutated exactly once by
// Return, which sets ReturnedAt, Status and FineAmount.
type Loan struct {
	ID         int64
	MemberID   int64
	BookID     int64
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt time.Time // zero while the loan is still active
	Status     LoanStatus
	FineAmount float64
}

// BuildLoan creates a new active Loan due durationDays after borrowedAt.
func BuildLoan(memberID, bookID int64, borrowedAt time.Time, durationDays int) Loan {
	return Loan{
		MemberID:   memberID,
		BookID:     bookID,
		BorrowedAt: borrowedAt,
		DueAt:      borrowedAt.AddDate(0, 0, durationDays),
		Status:     LoanStatusBorrowed,
	}
}

// IsActive reports whether the book copy is still out.
func (l Loan) IsActive() bool {
	return l.Status == LoanStatusBorrowed
}

// IsOverdue reports whether the loan is active and its due timestamp is
// strictly before now.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && l.DueAt.Before(now)
}

// DaysOverdue returns the number of whole days the loan is past due at now.
// Partial days do not count; a loan at or before its due instant yields 0.
func (l Loan) DaysOverdue(now time.Time) int {
	if !now.After(l.DueAt) {
		return 0
	}

	return int(now.Sub(l.DueAt).Hours()) / hoursPerDay
}

// FineFor returns the fine owed when the loan is returned at now with the
// given per-day rate. Never negative.
func (l Loan) FineFor(now time.Time, finePerDay float64) float64 {
	return float64(l.DaysOverdue(now)) * finePerDay
}

// OverdueLoan pairs an overdue loan with the borrowing member's name,
// as listed by the overdue report.
type OverdueLoan struct {
	Loan
	MemberName string
}
