package postgresengine

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine/internal/adapters"
)

type journalStore struct {
	db     adapters.Querier
	logger Logger
}

func (j *journalStore) Append(ctx context.Context, entry lending.JournalEntry) error {
	const op = "journal append"

	query, _, err := dialect().Insert(tableJournal).
		Rows(goqu.Record{
			colEventID:    entry.ID.String(),
			colEventType:  entry.EventType,
			colPayload:    goqu.L(castJsonb, string(entry.Payload)),
			colOccurredAt: entry.OccurredAt,
		}).
		ToSQL()
	if err != nil {
		return lending.NewStorageError(op, err)
	}

	logSQL(j.logger, op, query)

	if _, err = j.db.Exec(ctx, query); err != nil {
		return lending.NewStorageError(op, err)
	}

	return nil
}

func (j *journalStore) Entries(ctx context.Context, limit int) ([]lending.JournalEntry, error) {
	const op = "journal entries"

	// insertion order via the position sequence, not occurred_at: entries
	// written in the same instant must still come back newest first
	stmt := dialect().From(tableJournal).
		Select(goqu.C(colEventID), goqu.C(colEventType), goqu.C(colPayload), goqu.C(colOccurredAt)).
		Order(goqu.C(colPosition).Desc())

	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}

	query, _, err := stmt.ToSQL()
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}

	logSQL(j.logger, op, query)

	rows, err := j.db.Query(ctx, query)
	if err != nil {
		return nil, lending.NewStorageError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []lending.JournalEntry

	for rows.Next() {
		var (
			entry   lending.JournalEntry
			idRaw   string
			payload []byte
		)

		if err = rows.Scan(&idRaw, &entry.EventType, &payload, &entry.OccurredAt); err != nil {
			return nil, lending.NewStorageError(op, err)
		}

		if entry.ID, err = uuid.Parse(idRaw); err != nil {
			return nil, lending.NewStorageError(op, err)
		}

		entry.Payload = json.RawMessage(payload)
		entries = append(entries, entry)
	}

	return entries, nil
}
