package ports

import (
	"context"
	"time"

	"atelier/internal/shared/events"
	"atelier/internal/shared/ledger"
)

// CustodyEntry records one movement of custodied value. Accruals are
// positive; the withdrawal that empties custody is negative.
type CustodyEntry struct {
	EntryID    string
	Amount     int64
	Source     string
	OccurredAt time.Time
}

type CustodyRepository interface {
	AppendEntry(ctx context.Context, entry CustodyEntry) error
	Balance(ctx context.Context) (int64, error)
	ListEntries(ctx context.Context, limit int) ([]CustodyEntry, error)
}

type Payment = ledger.Payment

type Ledger interface {
	Pay(ctx context.Context, payments []Payment) error
}

type AdminStore interface {
	Admin(ctx context.Context) (string, error)
	SetAdmin(ctx context.Context, address string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}
