package lending_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhana1701/Library-Management-System/lending"
)

func Test_BuildJournalEntry_SerializesPayloadAndAssignsID(t *testing.T) {
	// arrange
	occurredAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	payload := lending.FinePaidPayload{FineID: 7, MemberID: 3, Amount: 2.5}

	// act
	entry, err := lending.BuildJournalEntry(lending.FinePaidEventType, payload, occurredAt)

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, lending.FinePaidEventType, entry.EventType)
	assert.Equal(t, occurredAt, entry.OccurredAt)

	var decoded lending.FinePaidPayload
	require.NoError(t, lending.UnmarshalJournalPayload(entry, &decoded))
	assert.Equal(t, payload, decoded)
}

func Test_BuildJournalEntry_Fails_WhenPayloadIsNotSerializable(t *testing.T) {
	// act
	_, err := lending.BuildJournalEntry(lending.FinePaidEventType, make(chan int), time.Now())

	// assert
	assert.ErrorIs(t, err, lending.ErrInvalidJournalPayload)
}

func Test_BuildJournalEntry_AssignsDistinctIDs(t *testing.T) {
	// act
	first, err := lending.BuildJournalEntry(lending.BookBorrowedEventType, lending.BookBorrowedPayload{}, time.Now())
	require.NoError(t, err)

	second, err := lending.BuildJournalEntry(lending.BookBorrowedEventType, lending.BookBorrowedPayload{}, time.Now())
	require.NoError(t, err)

	// assert
	assert.NotEqual(t, first.ID, second.ID)
}
