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

type membershipStore struct {
	db     adapters.Querier
	logger Logger
}

func memberColumns() []any {
	return []any{
		goqu.C(colMemberID), goqu.C(colName), goqu.C(colEmail), goqu.C(colPhone),
		goqu.C(colAddress), goqu.C(colMembershipDate), goqu.C(colMembershipStatus),
		goqu.C(colOutstandingFine),
	}
}

func scanMember(rows adapters.DBRows) (lending.Member, error) {
	var (
		member  lending.Member
		email   sql.NullString
		phone   sql.NullString
		address sql.NullString
		status  string
	)

	err := rows.Scan(
		&member.ID, &member.Name, &email, &phone,
		&address, &member.JoinedAt, &status,
		&member.OutstandingFine,
	)
	if err != nil {
		return lending.Member{}, err
	}

	member.Email = email.String
	member.Phone = phone.String
	member.Address = address.String
	member.Status = lending.MemberStatus(status)

	return member, nil
}

func (m *membershipStore) AddMember(ctx context.Context, member lending.Member) (lending.Member, error) {
	const op = "membership add member"

	if member.Status == "" {
		member.Status = lending.MemberStatusActive
	}

	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}

	query, _, err := dialect().Insert(tableMembers).
		Rows(goqu.Record{
			colName:             member.Name,
			colEmail:            nullable(member.Email),
			colPhone:            nullable(member.Phone),
			colAddress:          nullable(member.Address),
			colMembershipDate:   member.JoinedAt,
			colMembershipStatus: string(member.Status),
			colOutstandingFine:  member.OutstandingFine,
		}).
		Returning(goqu.C(colMemberID)).
		ToSQL()
	if err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}

	logSQL(m.logger, op, query)

	rows, err := m.db.Query(ctx, query)
	if err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Member{}, lending.NewStorageError(op, errors.New("insert returned no id"))
	}

	if err = rows.Scan(&member.ID); err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}

	return member, nil
}

func (m *membershipStore) MemberByID(ctx context.Context, id int64) (lending.Member, error) {
	const op = "membership member by id"

	query, _, err := dialect().From(tableMembers).
		Select(memberColumns()...).
		Where(goqu.C(colMemberID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}

	logSQL(m.logger, op, query)

	rows, err := m.db.Query(ctx, query)
	if err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Member{}, lending.ErrMemberNotFound
	}

	member, err := scanMember(rows)
	if err != nil {
		return lending.Member{}, lending.NewStorageError(op, err)
	}

	return member, nil
}

func (m *membershipStore) AllMembers(ctx context.Context) ([]lending.Member, error) {
	const op = "membership all members"

	query, _, err := dialect().From(tableMembers).
		Select(memberColumns()...).
		Order(goqu.C(colMemberID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return m.queryMembers(ctx, op, query)
}

func (m *membershipStore) SearchMembers(ctx context.Context, term string) ([]lending.Member, error) {
	const op = "membership search members"

	pattern := "%" + term + "%"

	query, _, err := dialect().From(tableMembers).
		Select(memberColumns()...).
		Where(goqu.Or(
			goqu.C(colName).ILike(pattern),
			goqu.C(colEmail).ILike(pattern),
		)).
		Order(goqu.C(colMemberID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return m.queryMembers(ctx, op, query)
}

func (m *membershipStore) queryMembers(ctx context.Context, op, query string) ([]lending.Member, error) {
	logSQL(m.logger, op, query)

	rows, err := m.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var members []lending.Member

	for rows.Next() {
		member, scanErr := scanMember(rows)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		members = append(members, member)
	}

	return members, nil
}

func (m *membershipStore) UpdateMember(ctx context.Context, member lending.Member) error {
	const op = "membership update member"

	query, _, err := dialect().Update(tableMembers).
		Set(goqu.Record{
			colName:             member.Name,
			colEmail:            nullable(member.Email),
			colPhone:            nullable(member.Phone),
			colAddress:          nullable(member.Address),
			colMembershipStatus: string(member.Status),
			colOutstandingFine:  member.OutstandingFine,
		}).
		Where(goqu.C(colMemberID).Eq(member.ID)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, m.db, m.logger, op, query, lending.ErrMemberNotFound)
}

func (m *membershipStore) DeleteMember(ctx context.Context, id int64) error {
	const op = "membership delete member"

	query, _, err := dialect().Delete(tableMembers).
		Where(goqu.C(colMemberID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, m.db, m.logger, op, query, lending.ErrMemberNotFound)
}

func (m *membershipStore) AdjustBalance(ctx context.Context, id int64, delta float64) error {
	const op = "membership adjust balance"

	query, _, err := dialect().Update(tableMembers).
		Set(goqu.Record{colOutstandingFine: goqu.L("outstanding_fine + ?", delta)}).
		Where(
			goqu.C(colMemberID).Eq(id),
			goqu.L("outstanding_fine + ? >= 0", delta),
		).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	logSQL(m.logger, op, query)

	result, err := m.db.Exec(ctx, query)
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	if affected == 1 {
		return nil
	}

	if _, err = m.MemberByID(ctx, id); errors.Is(err, lending.ErrMemberNotFound) {
		return lending.ErrMemberNotFound
	} else if err != nil {
		return err
	}

	return lending.ErrInvariantViolation
}
