package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"atelier/contexts/asset-core/asset-registry/domain/entities"
	domainerrors "atelier/contexts/asset-core/asset-registry/domain/errors"
	"atelier/contexts/asset-core/asset-registry/ports"
)

type Service struct {
	Repo     ports.Repository
	Settings ports.SettingsRepository
	Clock    ports.Clock
	Logger   *slog.Logger

	mu sync.Mutex
}

// ResolveOwner reports the current owner of an asset id, distinguishing
// "never minted" from lookup failure.
func (s *Service) ResolveOwner(ctx context.Context, assetID uint64) (string, bool, error) {
	asset, found, err := s.Repo.Get(ctx, assetID)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	return asset.Owner, true, nil
}

func (s *Service) OwnerOf(ctx context.Context, assetID uint64) (string, error) {
	owner, found, err := s.ResolveOwner(ctx, assetID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domainerrors.ErrAssetNotFound
	}
	return owner, nil
}

func (s *Service) BalanceOf(ctx context.Context, owner string) (int, error) {
	if strings.TrimSpace(owner) == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Repo.CountByOwner(ctx, strings.TrimSpace(owner))
}

func (s *Service) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (uint64, error) {
	if strings.TrimSpace(owner) == "" || index < 0 {
		return 0, domainerrors.ErrInvalidInput
	}
	assetID, found, err := s.Repo.AssetIDByOwnerIndex(ctx, strings.TrimSpace(owner), index)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domainerrors.ErrIndexOutOfRange
	}
	return assetID, nil
}

// TokensOfOwner collects the owner's asset ids in enumeration order.
func (s *Service) TokensOfOwner(ctx context.Context, owner string) ([]uint64, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListAssetIDsByOwner(ctx, strings.TrimSpace(owner))
}

// MintTo assigns a never-owned asset id to its first owner. Uniqueness is
// enforced here at the assignment step, not only at caller preconditions.
func (s *Service) MintTo(ctx context.Context, assetID uint64, owner string) error {
	asset, err := entities.NewAsset(assetID, owner, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Repo.Create(ctx, asset); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("asset minted",
		"event", "asset_minted",
		"module", "asset-core/asset-registry",
		"layer", "application",
		"asset_id", asset.AssetID,
		"owner", asset.Owner,
	)
	return nil
}

// Transfer atomically reassigns ownership, failing if from is stale.
func (s *Service) Transfer(ctx context.Context, from string, to string, assetID uint64) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Repo.UpdateOwner(ctx, assetID, strings.TrimSpace(from), strings.TrimSpace(to)); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("asset transferred",
		"event", "asset_transferred",
		"module", "asset-core/asset-registry",
		"layer", "application",
		"asset_id", assetID,
		"from", strings.TrimSpace(from),
		"to", strings.TrimSpace(to),
	)
	return nil
}

// AssetURI derives the per-asset resource locator from the base locator.
// The registry never inspects the locator contents.
func (s *Service) AssetURI(ctx context.Context, assetID uint64) (string, error) {
	_, found, err := s.Repo.Get(ctx, assetID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domainerrors.ErrAssetNotFound
	}
	base, err := s.Settings.BaseLocator(ctx)
	if err != nil {
		return "", err
	}
	return base + strconv.FormatUint(assetID, 10), nil
}

func (s *Service) SetBaseLocator(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Settings.SetBaseLocator(ctx, uri)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
