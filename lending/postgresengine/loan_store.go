package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine/internal/adapters"
)

type loanStore struct {
	db     adapters.Querier
	logger Logger
}

func loanColumns() []any {
	return []any{
		goqu.C(colLoanID), goqu.C(colMemberID), goqu.C(colBookID),
		goqu.C(colBorrowDate), goqu.C(colDueDate), goqu.C(colReturnDate),
		goqu.C(colLoanStatus), goqu.C(colFineAmount),
	}
}

func qualifiedLoanColumns() []any {
	return []any{
		goqu.I(tableLoans + "." + colLoanID), goqu.I(tableLoans + "." + colMemberID),
		goqu.I(tableLoans + "." + colBookID), goqu.I(tableLoans + "." + colBorrowDate),
		goqu.I(tableLoans + "." + colDueDate), goqu.I(tableLoans + "." + colReturnDate),
		goqu.I(tableLoans + "." + colLoanStatus), goqu.I(tableLoans + "." + colFineAmount),
	}
}

func scanLoan(rows adapters.DBRows, extraDest ...any) (lending.Loan, error) {
	var (
		loan       lending.Loan
		returnedAt sql.NullTime
		status     string
	)

	dest := []any{
		&loan.ID, &loan.MemberID, &loan.BookID,
		&loan.BorrowedAt, &loan.DueAt, &returnedAt,
		&status, &loan.FineAmount,
	}
	dest = append(dest, extraDest...)

	if err := rows.Scan(dest...); err != nil {
		return lending.Loan{}, err
	}

	loan.ReturnedAt = returnedAt.Time
	loan.Status = lending.LoanStatus(status)

	return loan, nil
}

func (l *loanStore) AddLoan(ctx context.Context, loan lending.Loan) (lending.Loan, error) {
	const op = "loans add loan"

	query, _, err := dialect().Insert(tableLoans).
		Rows(goqu.Record{
			colMemberID:   loan.MemberID,
			colBookID:     loan.BookID,
			colBorrowDate: loan.BorrowedAt,
			colDueDate:    loan.DueAt,
			colLoanStatus: string(loan.Status),
			colFineAmount: loan.FineAmount,
		}).
		Returning(goqu.C(colLoanID)).
		ToSQL()
	if err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}

	logSQL(l.logger, op, query)

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Loan{}, lending.NewStorageError(op, errors.New("insert returned no id"))
	}

	if err = rows.Scan(&loan.ID); err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}

	return loan, nil
}

func (l *loanStore) LoanByID(ctx context.Context, id int64) (lending.Loan, error) {
	const op = "loans loan by id"

	query, _, err := dialect().From(tableLoans).
		Select(loanColumns()...).
		Where(goqu.C(colLoanID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}

	logSQL(l.logger, op, query)

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Loan{}, lending.ErrLoanNotFound
	}

	loan, err := scanLoan(rows)
	if err != nil {
		return lending.Loan{}, lending.NewStorageError(op, err)
	}

	return loan, nil
}

func (l *loanStore) UpdateLoan(ctx context.Context, loan lending.Loan) error {
	const op = "loans update loan"

	returnDate := any(nil)
	if !loan.ReturnedAt.IsZero() {
		returnDate = loan.ReturnedAt
	}

	query, _, err := dialect().Update(tableLoans).
		Set(goqu.Record{
			colReturnDate: returnDate,
			colLoanStatus: string(loan.Status),
			colFineAmount: loan.FineAmount,
		}).
		Where(goqu.C(colLoanID).Eq(loan.ID)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, l.db, l.logger, op, query, lending.ErrLoanNotFound)
}

func (l *loanStore) ActiveByMember(ctx context.Context, memberID int64) ([]lending.Loan, error) {
	const op = "loans active by member"

	query, _, err := dialect().From(tableLoans).
		Select(loanColumns()...).
		Where(
			goqu.C(colMemberID).Eq(memberID),
			goqu.C(colLoanStatus).Eq(string(lending.LoanStatusBorrowed)),
		).
		Order(goqu.C(colLoanID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return l.queryLoans(ctx, op, query)
}

func (l *loanStore) AllActive(ctx context.Context) ([]lending.Loan, error) {
	const op = "loans all active"

	query, _, err := dialect().From(tableLoans).
		Select(loanColumns()...).
		Where(goqu.C(colLoanStatus).Eq(string(lending.LoanStatusBorrowed))).
		Order(goqu.C(colLoanID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return l.queryLoans(ctx, op, query)
}

func (l *loanStore) queryLoans(ctx context.Context, op, query string) ([]lending.Loan, error) {
	logSQL(l.logger, op, query)

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var loans []lending.Loan

	for rows.Next() {
		loan, scanErr := scanLoan(rows)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

func (l *loanStore) Overdue(ctx context.Context, now time.Time) ([]lending.OverdueLoan, error) {
	const op = "loans overdue"

	columns := qualifiedLoanColumns()
	columns = append(columns, goqu.I(tableMembers+"."+colName))

	query, _, err := dialect().From(tableLoans).
		Join(
			goqu.T(tableMembers),
			goqu.On(goqu.I(tableLoans+"."+colMemberID).Eq(goqu.I(tableMembers+"."+colMemberID))),
		).
		Select(columns...).
		Where(
			goqu.I(tableLoans+"."+colLoanStatus).Eq(string(lending.LoanStatusBorrowed)),
			goqu.I(tableLoans+"."+colDueDate).Lt(now),
		).
		Order(goqu.I(tableLoans + "." + colLoanID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	logSQL(l.logger, op, query)

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var overdue []lending.OverdueLoan

	for rows.Next() {
		var memberName string

		loan, scanErr := scanLoan(rows, &memberName)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		overdue = append(overdue, lending.OverdueLoan{Loan: loan, MemberName: memberName})
	}

	return overdue, nil
}
