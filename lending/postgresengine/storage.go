package postgresengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine/internal/adapters"
)

const (
	tableBooks   = "books"
	tableMembers = "members"
	tableLoans   = "loans"
	tableFines   = "fines"
	tableJournal = "journal"

	colBookID          = "book_id"
	colTitle           = "title"
	colAuthor          = "author"
	colISBN            = "isbn"
	colPublicationYear = "publication_year"
	colQuantity        = "quantity"
	colAvailable       = "available_quantity"
	colCategory        = "category"
	colCreatedAt       = "created_at"

	colMemberID         = "member_id"
	colName             = "name"
	colEmail            = "email"
	colPhone            = "phone"
	colAddress          = "address"
	colMembershipDate   = "membership_date"
	colMembershipStatus = "membership_status"
	colOutstandingFine  = "outstanding_fine"

	colLoanID     = "loan_id"
	colBorrowDate = "borrow_date"
	colDueDate    = "due_date"
	colReturnDate = "return_date"
	colLoanStatus = "status"
	colFineAmount = "fine_amount"

	colFineID      = "fine_id"
	colAmount      = "amount"
	colReason      = "reason"
	colPaid        = "paid"
	colCreatedDate = "created_date"

	colPosition   = "position"
	colEventID    = "event_id"
	colEventType  = "event_type"
	colPayload    = "payload"
	colOccurredAt = "occurred_at"

	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"

	logMsgSQLExecuted = "executed sql for: "
	logAttrQuery      = "query"
)

// ErrNilDatabaseConnection is returned when a storage is constructed from a nil connection.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// Logger interface for SQL query logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Storage is the PostgreSQL implementation of lending.Storage.
type Storage struct {
	db     adapters.DBAdapter
	logger Logger
}

// Option defines a functional option for configuring Storage.
type Option func(*Storage) error

// WithLogger sets the logger for the Storage.
//
// Debug level: SQL queries (development use)
// Warn level: rollback failures after a failed transaction
// Error level: critical storage failures.
func WithLogger(logger Logger) Option {
	return func(s *Storage) error {
		s.logger = logger
		return nil
	}
}

// NewStorageFromPGXPool creates a new Storage using a pgx Pool with optional configuration.
func NewStorageFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Storage, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	return buildStorage(adapters.NewPGXAdapter(pool), options...)
}

// NewStorageFromSQLDB creates a new Storage using a database/sql DB with optional configuration.
func NewStorageFromSQLDB(db *sql.DB, options ...Option) (*Storage, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return buildStorage(adapters.NewSQLAdapter(db), options...)
}

// NewStorageFromSQLX creates a new Storage using an sqlx DB with optional configuration.
func NewStorageFromSQLX(db *sqlx.DB, options ...Option) (*Storage, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return buildStorage(adapters.NewSQLXAdapter(db), options...)
}

func buildStorage(adapter adapters.DBAdapter, options ...Option) (*Storage, error) {
	s := &Storage{db: adapter}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Stores returns auto-committing store access bound to the connection pool.
func (s *Storage) Stores() lending.Stores {
	return s.storesOn(s.db)
}

// WithinTx runs fn inside one serializable transaction. The error returned by
// fn is passed through unchanged after rollback; transaction management
// failures are wrapped as lending.StorageError.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, stores lending.Stores) error) error {
	tx, err := s.db.BeginSerializableTx(ctx)
	if err != nil {
		return lending.NewStorageError("begin transaction", err)
	}

	if err = fn(ctx, s.storesOn(tx)); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			s.logWarn("transaction rollback failed", "error", rollbackErr)
		}

		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return lending.NewStorageError("commit transaction", err)
	}

	return nil
}

func (s *Storage) storesOn(runner adapters.Querier) lending.Stores {
	return lending.Stores{
		Catalog:    &catalogStore{db: runner, logger: s.logger},
		Membership: &membershipStore{db: runner, logger: s.logger},
		Loans:      &loanStore{db: runner, logger: s.logger},
		Fines:      &fineStore{db: runner, logger: s.logger},
		Journal:    &journalStore{db: runner, logger: s.logger},
	}
}

func (s *Storage) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// nullable maps the empty string to NULL so optional unique columns
// (isbn, email) never collide on the empty value.
func nullable(value string) any {
	if value == "" {
		return nil
	}

	return value
}

// nullableInt maps 0 to NULL for optional numeric columns.
func nullableInt(value int) any {
	if value == 0 {
		return nil
	}

	return value
}

func logSQL(logger Logger, op, query string) {
	if logger != nil {
		logger.Debug(logMsgSQLExecuted+op, logAttrQuery, query)
	}
}
