package memory

import (
	"context"
	"sync"

	"atelier/contexts/asset-core/asset-registry/domain/entities"
	domainerrors "atelier/contexts/asset-core/asset-registry/domain/errors"
)

// Store keeps assets and the per-owner enumeration index in memory.
// Enumeration order follows index maintenance: append on acquisition,
// swap-remove on disposal.
type Store struct {
	mu sync.RWMutex

	assets      map[uint64]entities.Asset
	ownerIndex  map[string][]uint64
	position    map[uint64]int
	baseLocator string
}

func NewStore() *Store {
	return &Store{
		assets:     make(map[uint64]entities.Asset),
		ownerIndex: make(map[string][]uint64),
		position:   make(map[uint64]int),
	}
}

func (s *Store) Get(_ context.Context, assetID uint64) (entities.Asset, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return entities.Asset{}, false, nil
	}
	return asset, true, nil
}

func (s *Store) Create(_ context.Context, asset entities.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[asset.AssetID]; exists {
		return domainerrors.ErrAlreadyMinted
	}
	s.assets[asset.AssetID] = asset
	s.appendToOwnerIndex(asset.Owner, asset.AssetID)
	return nil
}

func (s *Store) UpdateOwner(_ context.Context, assetID uint64, from string, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return domainerrors.ErrAssetNotFound
	}
	if asset.Owner != from {
		return domainerrors.ErrNotOwner
	}

	s.removeFromOwnerIndex(from, assetID)
	s.appendToOwnerIndex(to, assetID)

	asset.Owner = to
	s.assets[assetID] = asset
	return nil
}

func (s *Store) CountByOwner(_ context.Context, owner string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ownerIndex[owner]), nil
}

func (s *Store) AssetIDByOwnerIndex(_ context.Context, owner string, index int) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.ownerIndex[owner]
	if index < 0 || index >= len(ids) {
		return 0, false, nil
	}
	return ids[index], true, nil
}

func (s *Store) ListAssetIDsByOwner(_ context.Context, owner string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uint64(nil), s.ownerIndex[owner]...), nil
}

func (s *Store) BaseLocator(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseLocator, nil
}

func (s *Store) SetBaseLocator(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseLocator = uri
	return nil
}

func (s *Store) appendToOwnerIndex(owner string, assetID uint64) {
	s.position[assetID] = len(s.ownerIndex[owner])
	s.ownerIndex[owner] = append(s.ownerIndex[owner], assetID)
}

// removeFromOwnerIndex swaps the departing id with the last indexed id so
// removal stays O(1); this is the source of enumeration order semantics.
func (s *Store) removeFromOwnerIndex(owner string, assetID uint64) {
	ids := s.ownerIndex[owner]
	pos, ok := s.position[assetID]
	if !ok || pos >= len(ids) {
		return
	}

	last := len(ids) - 1
	if pos != last {
		moved := ids[last]
		ids[pos] = moved
		s.position[moved] = pos
	}
	s.ownerIndex[owner] = ids[:last]
	delete(s.position, assetID)
}
