package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "atelier/contexts/finance-core/treasury/domain/errors"
	"atelier/contexts/finance-core/treasury/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type custodyEntryModel struct {
	EntryID    string    `gorm:"column:entry_id;primaryKey"`
	Amount     int64     `gorm:"column:amount"`
	Source     string    `gorm:"column:source"`
	OccurredAt time.Time `gorm:"column:occurred_at;index"`
}

func (custodyEntryModel) TableName() string { return "custody_entries" }

func (r *Repository) AppendEntry(ctx context.Context, entry ports.CustodyEntry) error {
	err := r.db.WithContext(ctx).Create(&custodyEntryModel{
		EntryID:    entry.EntryID,
		Amount:     entry.Amount,
		Source:     entry.Source,
		OccurredAt: entry.OccurredAt,
	}).Error
	if isUniqueViolation(err) {
		return domainerrors.ErrInvalidInput
	}
	return err
}

func (r *Repository) Balance(ctx context.Context) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&custodyEntryModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	return balance, err
}

func (r *Repository) ListEntries(ctx context.Context, limit int) ([]ports.CustodyEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []custodyEntryModel
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.CustodyEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CustodyEntry{
			EntryID:    row.EntryID,
			Amount:     row.Amount,
			Source:     row.Source,
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
