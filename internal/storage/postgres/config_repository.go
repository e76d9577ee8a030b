package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofernie/fernie-eggs/internal/domain"
)

// ConfigRepository reads and writes the singleton stock record.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

func (r *ConfigRepository) GetConfig(ctx context.Context) (domain.StockConfig, error) {
	const query = `SELECT dozens, active_offers, hold_minutes, price, last_restock_date FROM stock_config WHERE id`

	var cfg domain.StockConfig
	err := r.queryRow(ctx, query).Scan(
		&cfg.Dozens,
		&cfg.ActiveOffers,
		&cfg.HoldMinutes,
		&cfg.Price,
		&cfg.LastRestockDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StockConfig{}, domain.ErrConfigMissing
		}
		return domain.StockConfig{}, fmt.Errorf("get stock config: %w", err)
	}
	return cfg, nil
}

func (r *ConfigRepository) SaveConfig(ctx context.Context, cfg domain.StockConfig) error {
	const stmt = `
UPDATE stock_config
SET dozens = $1,
    active_offers = $2,
    hold_minutes = $3,
    price = $4,
    last_restock_date = $5
WHERE id`

	tag, err := r.exec(ctx, stmt,
		cfg.Dozens,
		cfg.ActiveOffers,
		cfg.HoldMinutes,
		cfg.Price,
		cfg.LastRestockDate,
	)
	if err != nil {
		return fmt.Errorf("save stock config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConfigMissing
	}
	return nil
}

func (r *ConfigRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ConfigRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
