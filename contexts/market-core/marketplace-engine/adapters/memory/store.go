package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/contexts/market-core/marketplace-engine/domain/entities"
	domainerrors "atelier/contexts/market-core/marketplace-engine/domain/errors"
	"atelier/contexts/market-core/marketplace-engine/ports"

	"github.com/google/uuid"
)

// Store backs every marketplace-engine port in memory: offers, listings,
// trades, outbox, and the administrator record.
type Store struct {
	mu sync.RWMutex

	offers   map[uint64]entities.MintOffer
	listings map[uint64]entities.Listing
	trades   map[string]ports.Trade
	outbox   map[string]outboxRecord
	admin    string
}

type outboxRecord struct {
	Message ports.OutboxMessage
	Status  string
	SentAt  *time.Time
}

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

func NewStore(admin string) *Store {
	return &Store{
		offers:   make(map[uint64]entities.MintOffer),
		listings: make(map[uint64]entities.Listing),
		trades:   make(map[string]ports.Trade),
		outbox:   make(map[string]outboxRecord),
		admin:    strings.TrimSpace(admin),
	}
}

func (s *Store) GetOffer(_ context.Context, assetID uint64) (entities.MintOffer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[assetID]
	if !ok {
		return entities.MintOffer{}, false, nil
	}
	return offer, true, nil
}

func (s *Store) UpsertMintPrice(_ context.Context, assetID uint64, price int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer := s.offers[assetID]
	offer.AssetID = assetID
	offer.MintPrice = price
	s.offers[assetID] = offer
	return nil
}

func (s *Store) UpsertRoyaltyRecipient(_ context.Context, assetID uint64, recipient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer := s.offers[assetID]
	offer.AssetID = assetID
	offer.RoyaltyRecipient = recipient
	s.offers[assetID] = offer
	return nil
}

func (s *Store) GetListing(_ context.Context, assetID uint64) (entities.Listing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[assetID]
	if !ok {
		return entities.Listing{}, false, nil
	}
	return listing, true, nil
}

func (s *Store) PutListing(_ context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.AssetID] = listing
	return nil
}

func (s *Store) DeleteListing(_ context.Context, assetID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, assetID)
	return nil
}

func (s *Store) ListListings(_ context.Context, limit int, offset int) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items := make([]entities.Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		items = append(items, listing)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ListedAt.Equal(items[j].ListedAt) {
			return items[i].AssetID < items[j].AssetID
		}
		return items[i].ListedAt.Before(items[j].ListedAt)
	})
	if offset >= len(items) {
		return []entities.Listing{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Listing(nil), items[offset:end]...), nil
}

func (s *Store) CreateTrade(_ context.Context, trade ports.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(trade.TradeID)
	if id == "" {
		return domainerrors.ErrInvalidInput
	}
	s.trades[id] = trade
	return nil
}

func (s *Store) ListTradesByAsset(_ context.Context, assetID uint64, limit int) ([]ports.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	items := make([]ports.Trade, 0)
	for _, trade := range s.trades {
		if trade.AssetID == assetID {
			items = append(items, trade)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	ts := sentAt.UTC()
	row.Status = outboxStatusSent
	row.SentAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Admin(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin, nil
}

func (s *Store) SetAdmin(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(address) == "" {
		return domainerrors.ErrInvalidInput
	}
	s.admin = strings.TrimSpace(address)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
