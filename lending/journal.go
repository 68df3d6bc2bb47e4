package lending

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	// BookBorrowedEventType is the journal event type for a successful borrow.
	BookBorrowedEventType = "BookBorrowed"

	// BookReturnedEventType is the journal event type for a successful return.
	BookReturnedEventType = "BookReturned"

	// FinePaidEventType is the journal event type for a paid fine.
	FinePaidEventType = "FinePaid"

	// BalanceClampRepairedEventType is the journal event type recorded when the
	// defensive PayFine path clamped a balance at zero instead of going negative.
	BalanceClampRepairedEventType = "BalanceClampRepaired"
)

// ErrInvalidJournalPayload is returned when a journal payload cannot be serialized.
var ErrInvalidJournalPayload = errors.New("marshalling journal payload failed")

// JournalEntry is one audit record of a lifecycle mutation, written inside
// the same transaction as the mutation itself.
type JournalEntry struct {
	ID         uuid.UUID
	EventType  string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// BookBorrowedPayload is the journal payload of a BookBorrowed event.
type BookBorrowedPayload struct {
	LoanID   int64     `json:"loan_id"`
	MemberID int64     `json:"member_id"`
	BookID   int64     `json:"book_id"`
	DueAt    time.Time `json:"due_at"`
}

// BookReturnedPayload is the journal payload of a BookReturned event.
type BookReturnedPayload struct {
	LoanID      int64   `json:"loan_id"`
	MemberID    int64   `json:"member_id"`
	BookID      int64   `json:"book_id"`
	DaysOverdue int     `json:"days_overdue"`
	FineAmount  float64 `json:"fine_amount"`
}

// FinePaidPayload is the journal payload of a FinePaid event.
type FinePaidPayload struct {
	FineID   int64   `json:"fine_id"`
	MemberID int64   `json:"member_id"`
	Amount   float64 `json:"amount"`
}

// BalanceClampRepairedPayload is the journal payload of a BalanceClampRepaired event.
type BalanceClampRepairedPayload struct {
	MemberID int64   `json:"member_id"`
	FineID   int64   `json:"fine_id"`
	Deficit  float64 `json:"deficit"`
}

// BuildJournalEntry creates a JournalEntry with a fresh id and the payload
// serialized to JSON.
func BuildJournalEntry(eventType string, payload any, occurredAt time.Time) (JournalEntry, error) {
	data, err := jsoniter.ConfigFastest.Marshal(payload)
	if err != nil {
		return JournalEntry{}, errors.Join(ErrInvalidJournalPayload, err)
	}

	return JournalEntry{
		ID:         uuid.New(),
		EventType:  eventType,
		Payload:    data,
		OccurredAt: occurredAt,
	}, nil
}

// UnmarshalJournalPayload decodes an entry's payload into dest.
func UnmarshalJournalPayload(entry JournalEntry, dest any) error {
	return jsoniter.ConfigFastest.Unmarshal(entry.Payload, dest)
}
