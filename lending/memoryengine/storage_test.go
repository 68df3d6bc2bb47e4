package memoryengine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/memoryengine"
)

var errRollback = errors.New("rollback please")

func givenBook(t *testing.T, storage *memoryengine.Storage, title, author string, quantity int) lending.Book {
	t.Helper()

	book, err := storage.Stores().Catalog.AddBook(
		context.Background(),
		lending.BuildBook(title, author, "", 2020, quantity, "Fiction"),
	)
	require.NoError(t, err)

	return book
}

func givenMember(t *testing.T, storage *memoryengine.Storage, name string) lending.Member {
	t.Helper()

	member, err := storage.Stores().Membership.AddMember(
		context.Background(),
		lending.BuildMember(name, "", "", ""),
	)
	require.NoError(t, err)

	return member
}

func Test_CatalogStore_AssignsSequentialIDs(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()

	// act
	first := givenBook(t, storage, "Dune", "Frank Herbert", 2)
	second := givenBook(t, storage, "Hyperion", "Dan Simmons", 1)

	// assert
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func Test_CatalogStore_SearchBooks_MatchesTitleAuthorAndISBNCaseInsensitively(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()

	dune := givenBook(t, storage, "Dune", "Frank Herbert", 2)
	givenBook(t, storage, "Hyperion", "Dan Simmons", 1)

	// act
	byTitle, err := storage.Stores().Catalog.SearchBooks(ctx, "dUnE")
	require.NoError(t, err)

	byAuthor, err := storage.Stores().Catalog.SearchBooks(ctx, "herbert")
	require.NoError(t, err)

	// assert
	require.Len(t, byTitle, 1)
	assert.Equal(t, dune.ID, byTitle[0].ID)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, dune.ID, byAuthor[0].ID)
}

func Test_CatalogStore_AdjustAvailable_EnforcesRange(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	book := givenBook(t, storage, "Dune", "Frank Herbert", 1)
	catalog := storage.Stores().Catalog

	// act + assert
	assert.NoError(t, catalog.AdjustAvailable(ctx, book.ID, -1))
	assert.ErrorIs(t, catalog.AdjustAvailable(ctx, book.ID, -1), lending.ErrInvariantViolation)
	assert.NoError(t, catalog.AdjustAvailable(ctx, book.ID, +1))
	assert.ErrorIs(t, catalog.AdjustAvailable(ctx, book.ID, +1), lending.ErrInvariantViolation)
	assert.ErrorIs(t, catalog.AdjustAvailable(ctx, 999, -1), lending.ErrBookNotFound)
}

func Test_CatalogStore_UpdateAndDelete_FailForUnknownBook(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	catalog := storage.Stores().Catalog

	// act + assert
	assert.ErrorIs(t, catalog.UpdateBook(ctx, lending.Book{ID: 999}), lending.ErrBookNotFound)
	assert.ErrorIs(t, catalog.DeleteBook(ctx, 999), lending.ErrBookNotFound)
}

func Test_MembershipStore_AdjustBalance_RejectsNegativeResult(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	member := givenMember(t, storage, "Grace Hopper")
	membership := storage.Stores().Membership

	// act + assert
	assert.NoError(t, membership.AdjustBalance(ctx, member.ID, 5.0))
	assert.ErrorIs(t, membership.AdjustBalance(ctx, member.ID, -7.5), lending.ErrInvariantViolation)

	unchanged, err := membership.MemberByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, unchanged.OutstandingFine)
}

func Test_MembershipStore_AddMember_DefaultsToActiveStatus(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()

	// act
	member := givenMember(t, storage, "Grace Hopper")

	// assert
	assert.Equal(t, lending.MemberStatusActive, member.Status)
	assert.False(t, member.JoinedAt.IsZero())
}

func Test_LoanStore_ActiveByMember_ExcludesReturnedAndOtherMembers(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	loans := storage.Stores().Loans

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mine, err := loans.AddLoan(ctx, lending.BuildLoan(1, 1, now, 7))
	require.NoError(t, err)

	returned, err := loans.AddLoan(ctx, lending.BuildLoan(1, 2, now, 7))
	require.NoError(t, err)

	_, err = loans.AddLoan(ctx, lending.BuildLoan(2, 1, now, 7))
	require.NoError(t, err)

	returned.Status = lending.LoanStatusReturned
	returned.ReturnedAt = now.Add(time.Hour)
	require.NoError(t, loans.UpdateLoan(ctx, returned))

	// act
	active, err := loans.ActiveByMember(ctx, 1)

	// assert
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, mine.ID, active[0].ID)
}

func Test_LoanStore_Overdue_JoinsMemberName(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	member := givenMember(t, storage, "Grace Hopper")

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	overdue, err := storage.Stores().Loans.AddLoan(ctx, lending.BuildLoan(member.ID, 1, now, 1))
	require.NoError(t, err)

	_, err = storage.Stores().Loans.AddLoan(ctx, lending.BuildLoan(member.ID, 2, now, 30))
	require.NoError(t, err)

	// act
	result, err := storage.Stores().Loans.Overdue(ctx, now.AddDate(0, 0, 3))

	// assert
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, overdue.ID, result[0].ID)
	assert.Equal(t, "Grace Hopper", result[0].MemberName)
}

func Test_FineStore_ByMember_ReturnsNewestFirst(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	fines := storage.Stores().Fines

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	older, err := fines.AddFine(ctx, lending.Fine{MemberID: 1, Amount: 1.0, Reason: "older", CreatedAt: base})
	require.NoError(t, err)

	newer, err := fines.AddFine(ctx, lending.Fine{MemberID: 1, Amount: 2.0, Reason: "newer", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	// act
	result, err := fines.ByMember(ctx, 1)

	// assert
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, newer.ID, result[0].ID)
	assert.Equal(t, older.ID, result[1].ID)
}

func Test_FineStore_AddFine_RejectsNonPositiveAmount(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()

	// act
	_, err := storage.Stores().Fines.AddFine(ctx, lending.Fine{MemberID: 1, Amount: 0})

	// assert
	assert.ErrorIs(t, err, lending.ErrInvalidFineAmount)
}

func Test_FineStore_MarkPaid_FailsForUnknownFine(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()

	// act + assert
	assert.ErrorIs(t, storage.Stores().Fines.MarkPaid(context.Background(), 999), lending.ErrFineNotFound)
}

func Test_WithinTx_RestoresStateOnFailure(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	book := givenBook(t, storage, "Dune", "Frank Herbert", 3)
	member := givenMember(t, storage, "Grace Hopper")

	// act
	err := storage.WithinTx(ctx, func(ctx context.Context, s lending.Stores) error {
		if adjustErr := s.Catalog.AdjustAvailable(ctx, book.ID, -1); adjustErr != nil {
			return adjustErr
		}

		if balanceErr := s.Membership.AdjustBalance(ctx, member.ID, 9.0); balanceErr != nil {
			return balanceErr
		}

		if _, loanErr := s.Loans.AddLoan(ctx, lending.BuildLoan(member.ID, book.ID, time.Now(), 7)); loanErr != nil {
			return loanErr
		}

		entry, entryErr := lending.BuildJournalEntry(lending.BookBorrowedEventType, lending.BookBorrowedPayload{}, time.Now())
		if entryErr != nil {
			return entryErr
		}

		if appendErr := s.Journal.Append(ctx, entry); appendErr != nil {
			return appendErr
		}

		return errRollback
	})

	// assert
	assert.ErrorIs(t, err, errRollback)

	unchangedBook, bookErr := storage.Stores().Catalog.BookByID(ctx, book.ID)
	require.NoError(t, bookErr)
	assert.Equal(t, 3, unchangedBook.Available)

	unchangedMember, memberErr := storage.Stores().Membership.MemberByID(ctx, member.ID)
	require.NoError(t, memberErr)
	assert.Equal(t, 0.0, unchangedMember.OutstandingFine)

	_, loanErr := storage.Stores().Loans.LoanByID(ctx, 1)
	assert.ErrorIs(t, loanErr, lending.ErrLoanNotFound)

	entries, entriesErr := storage.Stores().Journal.Entries(ctx, 0)
	require.NoError(t, entriesErr)
	assert.Empty(t, entries)
}

func Test_WithinTx_KeepsEffectsOnSuccess(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	book := givenBook(t, storage, "Dune", "Frank Herbert", 3)

	// act
	err := storage.WithinTx(ctx, func(ctx context.Context, s lending.Stores) error {
		return s.Catalog.AdjustAvailable(ctx, book.ID, -1)
	})

	// assert
	require.NoError(t, err)

	adjusted, bookErr := storage.Stores().Catalog.BookByID(ctx, book.ID)
	require.NoError(t, bookErr)
	assert.Equal(t, 2, adjusted.Available)
}

func Test_JournalStore_Entries_AppliesLimitNewestFirst(t *testing.T) {
	// arrange
	storage := memoryengine.NewStorage()
	ctx := context.Background()
	journal := storage.Stores().Journal

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		entry, err := lending.BuildJournalEntry(
			lending.BookBorrowedEventType,
			lending.BookBorrowedPayload{LoanID: int64(i + 1)},
			base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, err)
		require.NoError(t, journal.Append(ctx, entry))
	}

	// act
	entries, err := journal.Entries(ctx, 2)

	// assert
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var newest lending.BookBorrowedPayload
	require.NoError(t, lending.UnmarshalJournalPayload(entries[0], &newest))
	assert.Equal(t, int64(3), newest.LoanID)
}
