package postgresengine

import (
	"context"

	"github.com/suhana1701/Library-Management-System/lending"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS books (
	book_id            BIGSERIAL PRIMARY KEY,
	title              TEXT NOT NULL,
	author             TEXT NOT NULL,
	isbn               TEXT UNIQUE,
	publication_year   INTEGER,
	quantity           INTEGER NOT NULL DEFAULT 1,
	available_quantity INTEGER NOT NULL DEFAULT 1,
	category           TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT books_available_within_quantity
		CHECK (available_quantity >= 0 AND available_quantity <= quantity)
);

CREATE TABLE IF NOT EXISTS members (
	member_id         BIGSERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT UNIQUE,
	phone             TEXT,
	address           TEXT,
	membership_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
	membership_status TEXT NOT NULL DEFAULT 'active',
	outstanding_fine  DOUBLE PRECISION NOT NULL DEFAULT 0,
	CONSTRAINT members_outstanding_fine_non_negative
		CHECK (outstanding_fine >= 0)
);

CREATE TABLE IF NOT EXISTS loans (
	loan_id     BIGSERIAL PRIMARY KEY,
	member_id   BIGINT NOT NULL REFERENCES members (member_id),
	book_id     BIGINT NOT NULL REFERENCES books (book_id),
	borrow_date TIMESTAMPTZ NOT NULL,
	due_date    TIMESTAMPTZ NOT NULL,
	return_date TIMESTAMPTZ,
	status      TEXT NOT NULL DEFAULT 'borrowed',
	fine_amount DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS fines (
	fine_id      BIGSERIAL PRIMARY KEY,
	member_id    BIGINT NOT NULL REFERENCES members (member_id),
	loan_id      BIGINT REFERENCES loans (loan_id),
	amount       DOUBLE PRECISION NOT NULL,
	reason       TEXT,
	paid         BOOLEAN NOT NULL DEFAULT FALSE,
	created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT fines_amount_positive CHECK (amount > 0)
);

CREATE TABLE IF NOT EXISTS journal (
	position    BIGSERIAL PRIMARY KEY,
	event_id    UUID NOT NULL UNIQUE,
	event_type  TEXT NOT NULL,
	payload     JSONB NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loans_status ON loans (status);
CREATE INDEX IF NOT EXISTS idx_loans_member ON loans (member_id);
CREATE INDEX IF NOT EXISTS idx_fines_member ON fines (member_id);
CREATE INDEX IF NOT EXISTS idx_fines_unpaid ON fines (paid) WHERE paid = FALSE;
CREATE INDEX IF NOT EXISTS idx_journal_occurred_at ON journal (occurred_at);
`

// CreateSchema creates the lending tables and indexes when they do not exist yet.
func (s *Storage) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaDDL); err != nil {
		return lending.NewStorageError("create schema", err)
	}

	return nil
}
