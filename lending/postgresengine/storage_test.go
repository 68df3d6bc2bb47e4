package postgresengine_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine"
)

func Test_NewStorageFromPGXPool_Fails_WhenPoolIsNil(t *testing.T) {
	// act
	storage, err := postgresengine.NewStorageFromPGXPool(nil)

	// assert
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)
	assert.Nil(t, storage)
}

func Test_NewStorageFromSQLDB_Fails_WhenDBIsNil(t *testing.T) {
	// act
	storage, err := postgresengine.NewStorageFromSQLDB(nil)

	// assert
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)
	assert.Nil(t, storage)
}

func Test_NewStorageFromSQLX_Fails_WhenDBIsNil(t *testing.T) {
	// act
	storage, err := postgresengine.NewStorageFromSQLX(nil)

	// assert
	assert.ErrorIs(t, err, postgresengine.ErrNilDatabaseConnection)
	assert.Nil(t, storage)
}

// givenStorage connects to the database named by LIBRARY_TEST_DATABASE_URL
// and creates the schema. Integration tests are skipped when the variable
// is unset.
func givenStorage(t *testing.T) *postgresengine.Storage {
	t.Helper()

	databaseURL := os.Getenv("LIBRARY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("LIBRARY_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	storage, err := postgresengine.NewStorageFromPGXPool(pool)
	require.NoError(t, err)
	require.NoError(t, storage.CreateSchema(ctx))

	return storage
}

func Test_Storage_WorksOverDatabaseSQLConnection(t *testing.T) {
	// arrange
	databaseURL := os.Getenv("LIBRARY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("LIBRARY_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storage, err := postgresengine.NewStorageFromSQLDB(db)
	require.NoError(t, err)
	require.NoError(t, storage.CreateSchema(ctx))

	// act
	book, err := storage.Stores().Catalog.AddBook(ctx, lending.BuildBook("The Dispossessed", "Ursula K. Le Guin", "", 1974, 1, "Fiction"))
	require.NoError(t, err)

	// assert
	fetched, err := storage.Stores().Catalog.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, fetched.Title)
	assert.Equal(t, 1, fetched.Available)
}

func Test_Storage_WorksOverSQLXConnection(t *testing.T) {
	// arrange
	databaseURL := os.Getenv("LIBRARY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("LIBRARY_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()

	db, err := sqlx.Connect("postgres", databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storage, err := postgresengine.NewStorageFromSQLX(db)
	require.NoError(t, err)
	require.NoError(t, storage.CreateSchema(ctx))

	// act
	member, err := storage.Stores().Membership.AddMember(ctx, lending.BuildMember("Shevek", "", "", ""))
	require.NoError(t, err)

	// assert
	fetched, err := storage.Stores().Membership.MemberByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shevek", fetched.Name)
	assert.Equal(t, 0.0, fetched.OutstandingFine)
}

func Test_Storage_SupportsFullBorrowReturnPayFineLifecycle(t *testing.T) {
	// arrange
	storage := givenStorage(t)
	ctx := context.Background()

	now := time.Now().UTC()
	clock := &now

	engine, err := lending.NewEngine(storage, lending.WithClock(func() time.Time { return *clock }))
	require.NoError(t, err)

	book, err := storage.Stores().Catalog.AddBook(ctx, lending.BuildBook("Neuromancer", "William Gibson", "", 1984, 1, "Fiction"))
	require.NoError(t, err)

	member, err := storage.Stores().Membership.AddMember(ctx, lending.BuildMember("Case", "", "", ""))
	require.NoError(t, err)

	// act: borrow with a one day duration, return three days late
	loan, err := engine.Borrow(ctx, member.ID, book.ID, 1)
	require.NoError(t, err)

	borrowed, err := storage.Stores().Catalog.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, borrowed.Available)

	now = now.Add(4 * 24 * time.Hour)

	returned, fee, err := engine.Return(ctx, loan.ID, 2.0)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 6.0, fee)
	assert.False(t, returned.IsActive())

	fines, err := engine.FinesForMember(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, fines, 1)
	assert.Equal(t, 6.0, fines[0].Amount)

	owing, err := storage.Stores().Membership.MemberByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, owing.OutstandingFine)

	// act: settle the fine
	amount, err := engine.PayFine(ctx, fines[0].ID)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 6.0, amount)

	settled, err := storage.Stores().Membership.MemberByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, settled.OutstandingFine)

	// the return and the payment carry the same timestamp; ordering must
	// still reflect insertion order, newest first
	entries, err := engine.JournalEntries(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, lending.FinePaidEventType, entries[0].EventType)
	assert.Equal(t, lending.BookReturnedEventType, entries[1].EventType)
	assert.Equal(t, lending.BookBorrowedEventType, entries[2].EventType)
}

func Test_Storage_RollsBackFailedTransaction(t *testing.T) {
	// arrange
	storage := givenStorage(t)
	ctx := context.Background()

	book, err := storage.Stores().Catalog.AddBook(ctx, lending.BuildBook("Snow Crash", "Neal Stephenson", "", 1992, 2, "Fiction"))
	require.NoError(t, err)

	// act
	txErr := storage.WithinTx(ctx, func(ctx context.Context, s lending.Stores) error {
		if err := s.Catalog.AdjustAvailable(ctx, book.ID, -1); err != nil {
			return err
		}

		return assert.AnError
	})

	// assert
	assert.ErrorIs(t, txErr, assert.AnError)

	unchanged, err := storage.Stores().Catalog.BookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.Available)
}
