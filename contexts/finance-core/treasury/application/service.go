package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainerrors "atelier/contexts/finance-core/treasury/domain/errors"
	"atelier/contexts/finance-core/treasury/ports"
)

const withdrawnEventType = "treasury.withdrawn"

type reentryMarker struct{}

type Service struct {
	Custody ports.CustodyRepository
	Ledger  ports.Ledger
	Admin   ports.AdminStore
	Outbox  ports.OutboxWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger

	mu sync.Mutex
}

// enter rejects re-entered contexts, then acquires the single-writer lock.
// A payee calling back into the treasury during its own payout carries the
// marker and fails with ErrReentrant before the non-reentrant mutex is
// touched, so the service never deadlocks on itself.
func (s *Service) enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(reentryMarker{}) != nil {
		return nil, nil, domainerrors.ErrReentrant
	}
	s.mu.Lock()
	return context.WithValue(ctx, reentryMarker{}, struct{}{}), s.mu.Unlock, nil
}

// Accrue credits custody with a platform share. Called by the marketplace
// engine as part of each settled sale.
func (s *Service) Accrue(ctx context.Context, amount int64, source string) error {
	if amount < 0 {
		return domainerrors.ErrInvalidInput
	}
	if amount == 0 {
		return nil
	}

	ctx, release, err := s.enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := s.Custody.AppendEntry(ctx, ports.CustodyEntry{
		EntryID:    entryID,
		Amount:     amount,
		Source:     source,
		OccurredAt: s.now(),
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("custody accrued",
		"event", "treasury_accrued",
		"module", "finance-core/treasury",
		"layer", "application",
		"amount", amount,
		"source", source,
	)
	return nil
}

func (s *Service) Balance(ctx context.Context) (int64, error) {
	return s.Custody.Balance(ctx)
}

// WithdrawAll transfers the entire custodied balance to the administrator.
// The payout runs before the withdrawal entry is recorded, so a rejected
// transfer leaves custody untouched. An empty custody is a successful no-op.
func (s *Service) WithdrawAll(ctx context.Context, caller string) (int64, error) {
	admin, err := s.Admin.Admin(ctx)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(caller) == "" || strings.TrimSpace(caller) != admin {
		return 0, domainerrors.ErrUnauthorized
	}

	ctx, release, err := s.enter(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	balance, err := s.Custody.Balance(ctx)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, nil
	}

	if err := s.Ledger.Pay(ctx, []ports.Payment{
		{Recipient: strings.TrimSpace(caller), Amount: balance},
	}); err != nil {
		ResolveLogger(s.Logger).Error("treasury withdrawal payout failed",
			"event", "treasury_withdraw_failed",
			"module", "finance-core/treasury",
			"layer", "application",
			"amount", balance,
			"error", err.Error(),
		)
		return 0, domainerrors.ErrTransferFailed
	}

	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	if err := s.Custody.AppendEntry(ctx, ports.CustodyEntry{
		EntryID:    entryID,
		Amount:     -balance,
		Source:     "withdrawal",
		OccurredAt: now,
	}); err != nil {
		return 0, err
	}
	if err := s.appendWithdrawnOutbox(ctx, caller, balance, now); err != nil {
		return 0, err
	}

	ResolveLogger(s.Logger).Info("treasury withdrawn",
		"event", "treasury_withdrawn",
		"module", "finance-core/treasury",
		"layer", "application",
		"amount", balance,
		"recipient", strings.TrimSpace(caller),
	)
	return balance, nil
}

func (s *Service) appendWithdrawnOutbox(ctx context.Context, recipient string, amount int64, occurredAt time.Time) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"recipient": strings.TrimSpace(recipient),
		"amount":    amount,
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        withdrawnEventType,
		OccurredAt:       occurredAt,
		SourceService:    "treasury",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "recipient",
		PartitionKey:     strings.TrimSpace(recipient),
		Data:             data,
	})
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
