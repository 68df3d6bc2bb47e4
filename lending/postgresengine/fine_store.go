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

type fineStore struct {
	db     adapters.Querier
	logger Logger
}

func fineColumns() []any {
	return []any{
		goqu.C(colFineID), goqu.C(colMemberID), goqu.C(colLoanID),
		goqu.C(colAmount), goqu.C(colReason), goqu.C(colPaid),
		goqu.C(colCreatedDate),
	}
}

func qualifiedFineColumns() []any {
	return []any{
		goqu.I(tableFines + "." + colFineID), goqu.I(tableFines + "." + colMemberID),
		goqu.I(tableFines + "." + colLoanID), goqu.I(tableFines + "." + colAmount),
		goqu.I(tableFines + "." + colReason), goqu.I(tableFines + "." + colPaid),
		goqu.I(tableFines + "." + colCreatedDate),
	}
}

func scanFine(rows adapters.DBRows, extraDest ...any) (lending.Fine, error) {
	var (
		fine   lending.Fine
		loanID sql.NullInt64
		reason sql.NullString
	)

	dest := []any{
		&fine.ID, &fine.MemberID, &loanID,
		&fine.Amount, &reason, &fine.Paid,
		&fine.CreatedAt,
	}
	dest = append(dest, extraDest...)

	if err := rows.Scan(dest...); err != nil {
		return lending.Fine{}, err
	}

	fine.LoanID = loanID.Int64
	fine.Reason = reason.String

	return fine, nil
}

func (f *fineStore) AddFine(ctx context.Context, fine lending.Fine) (lending.Fine, error) {
	const op = "fines add fine"

	if fine.Amount <= 0 {
		return lending.Fine{}, lending.ErrInvalidFineAmount
	}

	if fine.CreatedAt.IsZero() {
		fine.CreatedAt = time.Now()
	}

	loanID := any(nil)
	if fine.LoanID != 0 {
		loanID = fine.LoanID
	}

	query, _, err := dialect().Insert(tableFines).
		Rows(goqu.Record{
			colMemberID:    fine.MemberID,
			colLoanID:      loanID,
			colAmount:      fine.Amount,
			colReason:      nullable(fine.Reason),
			colPaid:        fine.Paid,
			colCreatedDate: fine.CreatedAt,
		}).
		Returning(goqu.C(colFineID)).
		ToSQL()
	if err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}

	logSQL(f.logger, op, query)

	rows, err := f.db.Query(ctx, query)
	if err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Fine{}, lending.NewStorageError(op, errors.New("insert returned no id"))
	}

	if err = rows.Scan(&fine.ID); err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}

	return fine, nil
}

func (f *fineStore) FineByID(ctx context.Context, id int64) (lending.Fine, error) {
	const op = "fines fine by id"

	query, _, err := dialect().From(tableFines).
		Select(fineColumns()...).
		Where(goqu.C(colFineID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}

	logSQL(f.logger, op, query)

	rows, err := f.db.Query(ctx, query)
	if err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Fine{}, lending.ErrFineNotFound
	}

	fine, err := scanFine(rows)
	if err != nil {
		return lending.Fine{}, lending.NewStorageError(op, err)
	}

	return fine, nil
}

func (f *fineStore) MarkPaid(ctx context.Context, id int64) error {
	const op = "fines mark paid"

	query, _, err := dialect().Update(tableFines).
		Set(goqu.Record{colPaid: true}).
		Where(goqu.C(colFineID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, f.db, f.logger, op, query, lending.ErrFineNotFound)
}

func (f *fineStore) ByMember(ctx context.Context, memberID int64) ([]lending.Fine, error) {
	const op = "fines by member"

	query, _, err := dialect().From(tableFines).
		Select(fineColumns()...).
		Where(goqu.C(colMemberID).Eq(memberID)).
		Order(goqu.C(colCreatedDate).Desc(), goqu.C(colFineID).Desc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	logSQL(f.logger, op, query)

	rows, err := f.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var fines []lending.Fine

	for rows.Next() {
		fine, scanErr := scanFine(rows)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		fines = append(fines, fine)
	}

	return fines, nil
}

func (f *fineStore) UnpaidWithMemberName(ctx context.Context) ([]lending.UnpaidFine, error) {
	const op = "fines unpaid with member name"

	columns := qualifiedFineColumns()
	columns = append(columns, goqu.I(tableMembers+"."+colName))

	query, _, err := dialect().From(tableFines).
		Join(
			goqu.T(tableMembers),
			goqu.On(goqu.I(tableFines+"."+colMemberID).Eq(goqu.I(tableMembers+"."+colMemberID))),
		).
		Select(columns...).
		Where(goqu.I(tableFines + "." + colPaid).IsFalse()).
		Order(goqu.I(tableFines + "." + colFineID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	logSQL(f.logger, op, query)

	rows, err := f.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var unpaid []lending.UnpaidFine

	for rows.Next() {
		var memberName string

		fine, scanErr := scanFine(rows, &memberName)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		unpaid = append(unpaid, lending.UnpaidFine{Fine: fine, MemberName: memberName})
	}

	return unpaid, nil
}
