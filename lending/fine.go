package lending

import (
	"fmt"
	"time"
)

// Fine represents a monetary penalty owed by a member until paid.
// Fines are created only as the side effect of an overdue return; the
// paid flag flips false to true exactly once.
type Fine struct {
	ID        int64
	MemberID  int64
	LoanID    int64 // optional source loan, 0 when none
	Amount    float64
	Reason    string
	Paid      bool
	CreatedAt time.Time
}

// BuildLateReturnFine creates the fine assessed for a loan returned
// daysOverdue whole days past its due date.
func BuildLateReturnFine(loan Loan, daysOverdue int, amount float64, createdAt time.Time) Fine {
	return Fine{
		MemberID:  loan.MemberID,
		LoanID:    loan.ID,
		Amount:    amount,
		Reason:    fmt.Sprintf("Late return fine - %d days overdue", daysOverdue),
		CreatedAt: createdAt,
	}
}

// UnpaidFine pairs an unpaid fine with the owing member's name,
// as listed by the unpaid fines report.
type UnpaidFine struct {
	Fine
	MemberName string
}
