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

type catalogStore struct {
	db     adapters.Querier
	logger Logger
}

func bookColumns() []any {
	return []any{
		goqu.C(colBookID), goqu.C(colTitle), goqu.C(colAuthor), goqu.C(colISBN),
		goqu.C(colPublicationYear), goqu.C(colQuantity), goqu.C(colAvailable),
		goqu.C(colCategory), goqu.C(colCreatedAt),
	}
}

func scanBook(rows adapters.DBRows) (lending.Book, error) {
	var (
		book     lending.Book
		isbn     sql.NullString
		year     sql.NullInt64
		category sql.NullString
	)

	err := rows.Scan(
		&book.ID, &book.Title, &book.Author, &isbn,
		&year, &book.Quantity, &book.Available,
		&category, &book.CreatedAt,
	)
	if err != nil {
		return lending.Book{}, err
	}

	book.ISBN = isbn.String
	book.PublicationYear = int(year.Int64)
	book.Category = category.String

	return book, nil
}

func (c *catalogStore) AddBook(ctx context.Context, book lending.Book) (lending.Book, error) {
	const op = "catalog add book"

	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}

	query, _, err := dialect().Insert(tableBooks).
		Rows(goqu.Record{
			colTitle:           book.Title,
			colAuthor:          book.Author,
			colISBN:            nullable(book.ISBN),
			colPublicationYear: nullableInt(book.PublicationYear),
			colQuantity:        book.Quantity,
			colAvailable:       book.Available,
			colCategory:        nullable(book.Category),
			colCreatedAt:       book.CreatedAt,
		}).
		Returning(goqu.C(colBookID)).
		ToSQL()
	if err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}

	logSQL(c.logger, op, query)

	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Book{}, lending.NewStorageError(op, errors.New("insert returned no id"))
	}

	if err = rows.Scan(&book.ID); err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}

	return book, nil
}

func (c *catalogStore) BookByID(ctx context.Context, id int64) (lending.Book, error) {
	const op = "catalog book by id"

	query, _, err := dialect().From(tableBooks).
		Select(bookColumns()...).
		Where(goqu.C(colBookID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}

	logSQL(c.logger, op, query)

	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return lending.Book{}, lending.ErrBookNotFound
	}

	book, err := scanBook(rows)
	if err != nil {
		return lending.Book{}, lending.NewStorageError(op, err)
	}

	return book, nil
}

func (c *catalogStore) AllBooks(ctx context.Context) ([]lending.Book, error) {
	const op = "catalog all books"

	query, _, err := dialect().From(tableBooks).
		Select(bookColumns()...).
		Order(goqu.C(colBookID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return c.queryBooks(ctx, op, query)
}

func (c *catalogStore) SearchBooks(ctx context.Context, term string) ([]lending.Book, error) {
	const op = "catalog search books"

	pattern := "%" + term + "%"

	query, _, err := dialect().From(tableBooks).
		Select(bookColumns()...).
		Where(goqu.Or(
			goqu.C(colTitle).ILike(pattern),
			goqu.C(colAuthor).ILike(pattern),
			goqu.C(colISBN).ILike(pattern),
		)).
		Order(goqu.C(colBookID).Asc()).
		ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	return c.queryBooks(ctx, op, query)
}

func (c *catalogStore) queryBooks(ctx context.Context, op, query string) ([]lending.Book, error) {
	logSQL(c.logger, op, query)

	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var books []lending.Book

	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return nil, lending.NewStorageError(op, scanErr)
		}

		books = append(books, book)
	}

	return books, nil
}

func (c *catalogStore) UpdateBook(ctx context.Context, book lending.Book) error {
	const op = "catalog update book"

	query, _, err := dialect().Update(tableBooks).
		Set(goqu.Record{
			colTitle:           book.Title,
			colAuthor:          book.Author,
			colISBN:            nullable(book.ISBN),
			colPublicationYear: nullableInt(book.PublicationYear),
			colQuantity:        book.Quantity,
			colAvailable:       book.Available,
			colCategory:        nullable(book.Category),
		}).
		Where(goqu.C(colBookID).Eq(book.ID)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, c.db, c.logger, op, query, lending.ErrBookNotFound)
}

func (c *catalogStore) DeleteBook(ctx context.Context, id int64) error {
	const op = "catalog delete book"

	query, _, err := dialect().Delete(tableBooks).
		Where(goqu.C(colBookID).Eq(id)).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	return execExpectingRow(ctx, c.db, c.logger, op, query, lending.ErrBookNotFound)
}

func (c *catalogStore) AdjustAvailable(ctx context.Context, id int64, delta int) error {
	const op = "catalog adjust available"

	query, _, err := dialect().Update(tableBooks).
		Set(goqu.Record{colAvailable: goqu.L("available_quantity + ?", delta)}).
		Where(
			goqu.C(colBookID).Eq(id),
			goqu.L("available_quantity + ? >= 0", delta),
			goqu.L("available_quantity + ? <= quantity", delta),
		).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	logSQL(c.logger, op, query)

	result, err := c.db.Exec(ctx, query)
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

	// Zero rows means the book does not exist or the guard blocked the
	// adjustment; look at the row to tell the two apart.
	if _, err = c.BookByID(ctx, id); errors.Is(err, lending.ErrBookNotFound) {
		return lending.ErrBookNotFound
	} else if err != nil {
		return err
	}

	return lending.ErrInvariantViolation
}

// execExpectingRow executes a mutation that must hit exactly one row and maps
// the zero-row outcome to notFoundErr.
func execExpectingRow(ctx context.Context, db adapters.Querier, logger Logger, op, query string, notFoundErr error) error {
	logSQL(logger, op, query)

	result, err := db.Exec(ctx, query)
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	if affected == 0 {
		return notFoundErr
	}

	return nil
}
