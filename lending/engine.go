package lending

import (
	"context"
	"errors"
	"math"
	"time"
)

const (
	logMsgBookBorrowed         = "book borrowed"
	logMsgBookReturned         = "book returned"
	logMsgFinePaid             = "fine paid"
	logMsgBorrowWithOpenFines  = "member borrowing with outstanding fines"
	logMsgBalanceClampRepaired = "balance decrement clamped at zero, ledger and balance were out of sync"
	logAttrMemberID            = "member_id"
	logAttrBookID              = "book_id"
	logAttrLoanID              = "loan_id"
	logAttrFineID              = "fine_id"
	logAttrDueAt               = "due_at"
	logAttrDaysOverdue         = "days_overdue"
	logAttrAmount              = "amount"
	logAttrDeficit             = "deficit"
)

// Engine orchestrates the borrowing and fine lifecycle. It is the only
// component that calls the mutating store operations; each of Borrow, Return
// and PayFine runs as one serializable transaction so the inventory count,
// the loan record and the member balance never disagree.
//
// The Engine never retries a failed operation: every error it surfaces is a
// logic error or a storage failure the caller has to deal with.
type Engine struct {
	storage Storage
	policy  LoanPolicy
	clock   func() time.Time
	logger  Logger
}

// Summary aggregates the library-wide report figures.
type Summary struct {
	TotalBooks       int
	TotalCopies      int
	TotalMembers     int
	ActiveLoans      int
	OverdueLoans     int
	OutstandingFines float64
}

// NewEngine creates an Engine on top of the given storage backend with
// optional configuration.
func NewEngine(storage Storage, options ...Option) (*Engine, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	e := &Engine{
		storage: storage,
		policy:  DefaultLoanPolicy(),
		clock:   time.Now,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Policy returns the defaults applied to absent duration and fine rate values.
func (e *Engine) Policy() LoanPolicy {
	return e.policy
}

// Borrow lends one copy of the book to the member and records the loan.
// A durationDays of 0 means absent and falls back to the configured default;
// a negative value is a validation error. Fails with ErrMemberNotFound or
// ErrBookNotFound for unknown ids and with ErrNoCopiesAvailable when every
// copy is out. The loan insert and the inventory decrement happen in one
// transaction: either both happen or neither.
func (e *Engine) Borrow(ctx context.Context, memberID, bookID int64, durationDays int) (Loan, error) {
	if durationDays < 0 {
		return Loan{}, ErrInvalidLoanPolicy
	}

	if durationDays == 0 {
		durationDays = e.policy.DurationDays
	}

	var loan Loan

	txErr := e.storage.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		member, err := s.Membership.MemberByID(ctx, memberID)
		if err != nil {
			return err
		}

		book, err := s.Catalog.BookByID(ctx, bookID)
		if err != nil {
			return err
		}

		if !book.HasAvailableCopy() {
			return ErrNoCopiesAvailable
		}

		if member.OutstandingFine > 0 {
			e.logWarn(logMsgBorrowWithOpenFines, logAttrMemberID, member.ID, logAttrAmount, member.OutstandingFine)
		}

		now := e.clock()

		loan, err = s.Loans.AddLoan(ctx, BuildLoan(memberID, bookID, now, durationDays))
		if err != nil {
			return err
		}

		if err = s.Catalog.AdjustAvailable(ctx, bookID, -1); err != nil {
			return err
		}

		return e.journal(ctx, s, BookBorrowedEventType, BookBorrowedPayload{
			LoanID:   loan.ID,
			MemberID: loan.MemberID,
			BookID:   loan.BookID,
			DueAt:    loan.DueAt,
		}, now)
	})
	if txErr != nil {
		return Loan{}, txErr
	}

	e.logDebug(logMsgBookBorrowed, logAttrLoanID, loan.ID, logAttrMemberID, memberID, logAttrBookID, bookID, logAttrDueAt, loan.DueAt)

	return loan, nil
}

// Return completes the loan and returns it together with the fine assessed.
// Fails with ErrLoanNotFound for an unknown id and with ErrLoanAlreadyReturned
// when the loan was already completed; a repeated Return is an error, not a
// no-op. The fine is daysOverdue (whole days, truncating) times finePerDay;
// when positive, the member balance increment and the Fine record are part of
// the same transaction as the status change and the inventory increment.
func (e *Engine) Return(ctx context.Context, loanID int64, finePerDay float64) (Loan, float64, error) {
	if finePerDay < 0 || math.IsNaN(finePerDay) || math.IsInf(finePerDay, 0) {
		return Loan{}, 0, ErrInvalidLoanPolicy
	}

	var (
		loan        Loan
		feeAssessed float64
	)

	txErr := e.storage.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		var err error

		loan, err = s.Loans.LoanByID(ctx, loanID)
		if err != nil {
			return err
		}

		if !loan.IsActive() {
			return ErrLoanAlreadyReturned
		}

		now := e.clock()
		daysOverdue := loan.DaysOverdue(now)
		feeAssessed = loan.FineFor(now, finePerDay)

		loan.Status = LoanStatusReturned
		loan.ReturnedAt = now
		loan.FineAmount = feeAssessed

		if err = s.Loans.UpdateLoan(ctx, loan); err != nil {
			return err
		}

		if err = s.Catalog.AdjustAvailable(ctx, loan.BookID, +1); err != nil {
			return err
		}

		if feeAssessed > 0 {
			if err = s.Membership.AdjustBalance(ctx, loan.MemberID, feeAssessed); err != nil {
				return err
			}

			if _, err = s.Fines.AddFine(ctx, BuildLateReturnFine(loan, daysOverdue, feeAssessed, now)); err != nil {
				return err
			}
		}

		return e.journal(ctx, s, BookReturnedEventType, BookReturnedPayload{
			LoanID:      loan.ID,
			MemberID:    loan.MemberID,
			BookID:      loan.BookID,
			DaysOverdue: daysOverdue,
			FineAmount:  feeAssessed,
		}, now)
	})
	if txErr != nil {
		return Loan{}, 0, txErr
	}

	e.logDebug(logMsgBookReturned, logAttrLoanID, loan.ID, logAttrAmount, feeAssessed)

	return loan, feeAssessed, nil
}

// PayFine settles the fine and returns the amount paid. Fails with
// ErrFineNotFound for an unknown id and with ErrFineAlreadyPaid for a fine
// already settled; a repeated payment is never charged again. The paid flag
// and the balance decrement are one transaction. Should the decrement alone
// push the balance below zero the balance is clamped at zero instead, logged
// as a consistency repair and recorded in the journal; under the transaction
// contract this path cannot arise, the ledger is a defensive last line.
func (e *Engine) PayFine(ctx context.Context, fineID int64) (float64, error) {
	var amountPaid float64

	txErr := e.storage.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		fine, err := s.Fines.FineByID(ctx, fineID)
		if err != nil {
			return err
		}

		if fine.Paid {
			return ErrFineAlreadyPaid
		}

		if err = s.Fines.MarkPaid(ctx, fine.ID); err != nil {
			return err
		}

		amountPaid = fine.Amount
		now := e.clock()

		balanceErr := s.Membership.AdjustBalance(ctx, fine.MemberID, -fine.Amount)
		if errors.Is(balanceErr, ErrInvariantViolation) {
			if err = e.clampBalance(ctx, s, fine, now); err != nil {
				return err
			}
		} else if balanceErr != nil {
			return balanceErr
		}

		return e.journal(ctx, s, FinePaidEventType, FinePaidPayload{
			FineID:   fine.ID,
			MemberID: fine.MemberID,
			Amount:   fine.Amount,
		}, now)
	})
	if txErr != nil {
		return 0, txErr
	}

	e.logDebug(logMsgFinePaid, logAttrFineID, fineID, logAttrAmount, amountPaid)

	return amountPaid, nil
}

// clampBalance zeroes whatever balance is left when the full decrement would
// have gone negative and records the repair.
func (e *Engine) clampBalance(ctx context.Context, s Stores, fine Fine, now time.Time) error {
	member, err := s.Membership.MemberByID(ctx, fine.MemberID)
	if err != nil {
		return err
	}

	deficit := fine.Amount - member.OutstandingFine

	if member.OutstandingFine > 0 {
		if err = s.Membership.AdjustBalance(ctx, fine.MemberID, -member.OutstandingFine); err != nil {
			return err
		}
	}

	e.logWarn(logMsgBalanceClampRepaired, logAttrMemberID, fine.MemberID, logAttrFineID, fine.ID, logAttrDeficit, deficit)

	return e.journal(ctx, s, BalanceClampRepairedEventType, BalanceClampRepairedPayload{
		MemberID: fine.MemberID,
		FineID:   fine.ID,
		Deficit:  deficit,
	}, now)
}

// ActiveLoansForMember returns the member's loans that are still out.
func (e *Engine) ActiveLoansForMember(ctx context.Context, memberID int64) ([]Loan, error) {
	return e.storage.Stores().Loans.ActiveByMember(ctx, memberID)
}

// AllActiveLoans returns every loan that is still out.
func (e *Engine) AllActiveLoans(ctx context.Context) ([]Loan, error) {
	return e.storage.Stores().Loans.AllActive(ctx)
}

// OverdueLoans returns every active loan past due at the engine's current
// time, joined with the borrowing member's name.
func (e *Engine) OverdueLoans(ctx context.Context) ([]OverdueLoan, error) {
	return e.storage.Stores().Loans.Overdue(ctx, e.clock())
}

// FinesForMember returns the member's fines, newest first.
func (e *Engine) FinesForMember(ctx context.Context, memberID int64) ([]Fine, error) {
	return e.storage.Stores().Fines.ByMember(ctx, memberID)
}

// UnpaidFines returns all unpaid fines across members, joined with the owing
// member's name.
func (e *Engine) UnpaidFines(ctx context.Context) ([]UnpaidFine, error) {
	return e.storage.Stores().Fines.UnpaidWithMemberName(ctx)
}

// JournalEntries returns up to limit of the newest audit journal entries.
func (e *Engine) JournalEntries(ctx context.Context, limit int) ([]JournalEntry, error) {
	return e.storage.Stores().Journal.Entries(ctx, limit)
}

// Summary computes the library-wide report figures from one consistent
// snapshot.
func (e *Engine) Summary(ctx context.Context) (Summary, error) {
	var summary Summary

	txErr := e.storage.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		books, err := s.Catalog.AllBooks(ctx)
		if err != nil {
			return err
		}

		members, err := s.Membership.AllMembers(ctx)
		if err != nil {
			return err
		}

		active, err := s.Loans.AllActive(ctx)
		if err != nil {
			return err
		}

		overdue, err := s.Loans.Overdue(ctx, e.clock())
		if err != nil {
			return err
		}

		summary.TotalBooks = len(books)
		summary.TotalMembers = len(members)
		summary.ActiveLoans = len(active)
		summary.OverdueLoans = len(overdue)

		for _, book := range books {
			summary.TotalCopies += book.Quantity
		}

		for _, member := range members {
			summary.OutstandingFines += member.OutstandingFine
		}

		return nil
	})
	if txErr != nil {
		return Summary{}, txErr
	}

	return summary, nil
}

// journal appends one audit entry within the current transaction.
func (e *Engine) journal(ctx context.Context, s Stores, eventType string, payload any, occurredAt time.Time) error {
	entry, err := BuildJournalEntry(eventType, payload, occurredAt)
	if err != nil {
		return err
	}

	return s.Journal.Append(ctx, entry)
}

func (e *Engine) logDebug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Engine) logWarn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
