package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofernie/fernie-eggs/internal/domain"
)

const subscriberColumns = `phone, status, dozens_requested, offered_dozens, allocated_dozens, opted_out, created_at, offer_sent_at, offer_expires_at, responded_at`

type SubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

func (r *SubscriberRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SubscriberRepository) WithStockLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return withStockLock(ctx, r.pool, fn)
}

// FindByPhone returns nil when no row matches the canonical key.
func (r *SubscriberRepository) FindByPhone(ctx context.Context, phoneKey string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE phone = $1`

	sub, err := scanSubscriber(r.queryRow(ctx, query, phoneKey))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &sub, nil
}

func (r *SubscriberRepository) GetForUpdate(ctx context.Context, phoneKey string) (domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE phone = $1 FOR UPDATE`

	sub, err := scanSubscriber(r.queryRow(ctx, query, phoneKey))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Subscriber{}, domain.ErrSubscriberNotFound
		}
		return domain.Subscriber{}, fmt.Errorf("get subscriber for update: %w", err)
	}
	return sub, nil
}

func (r *SubscriberRepository) Create(ctx context.Context, sub domain.Subscriber) error {
	const stmt = `
INSERT INTO subscribers (phone, status, dozens_requested, offered_dozens, allocated_dozens, opted_out, created_at, offer_sent_at, offer_expires_at, responded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		sub.Phone,
		sub.Status,
		sub.DozensRequested,
		sub.OfferedDozens,
		sub.AllocatedDozens,
		sub.OptedOut,
		sub.CreatedAt,
		sub.OfferSentAt,
		sub.OfferExpiresAt,
		sub.RespondedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyQueued
		}
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepository) Update(ctx context.Context, sub domain.Subscriber) error {
	const stmt = `
UPDATE subscribers
SET status = $2,
    dozens_requested = $3,
    offered_dozens = $4,
    allocated_dozens = $5,
    opted_out = $6,
    created_at = $7,
    offer_sent_at = $8,
    offer_expires_at = $9,
    responded_at = $10
WHERE phone = $1`

	tag, err := r.exec(ctx, stmt,
		sub.Phone,
		sub.Status,
		sub.DozensRequested,
		sub.OfferedDozens,
		sub.AllocatedDozens,
		sub.OptedOut,
		sub.CreatedAt,
		sub.OfferSentAt,
		sub.OfferExpiresAt,
		sub.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

// ListExpiredOffers returns OFFERED subscribers whose hold window has
// passed as of now, oldest offer first.
func (r *SubscriberRepository) ListExpiredOffers(ctx context.Context, now time.Time) ([]domain.Subscriber, error) {
	query := `
SELECT ` + subscriberColumns + `
FROM subscribers
WHERE status = $1 AND offer_expires_at IS NOT NULL AND offer_expires_at <= $2
ORDER BY offer_expires_at`

	return r.list(ctx, query, domain.StatusOffered, now)
}

// ListWaiting returns the FIFO pool: WAITING, not opted out, ascending by
// join time with phone as the stable tie-break.
func (r *SubscriberRepository) ListWaiting(ctx context.Context) ([]domain.Subscriber, error) {
	query := `
SELECT ` + subscriberColumns + `
FROM subscribers
WHERE status = $1 AND NOT opted_out
ORDER BY created_at, phone`

	return r.list(ctx, query, domain.StatusWaiting)
}

// SumActiveOffers recomputes the outstanding-offer total from the live
// subscriber set.
func (r *SubscriberRepository) SumActiveOffers(ctx context.Context) (int, error) {
	const query = `SELECT COALESCE(SUM(offered_dozens), 0) FROM subscribers WHERE status = $1`

	var total int
	if err := r.queryRow(ctx, query, domain.StatusOffered).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum active offers: %w", err)
	}
	return total, nil
}

func (r *SubscriberRepository) list(ctx context.Context, query string, args ...any) ([]domain.Subscriber, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subs, nil
}

func scanSubscriber(row pgx.Row) (domain.Subscriber, error) {
	var s domain.Subscriber
	err := row.Scan(
		&s.Phone,
		&s.Status,
		&s.DozensRequested,
		&s.OfferedDozens,
		&s.AllocatedDozens,
		&s.OptedOut,
		&s.CreatedAt,
		&s.OfferSentAt,
		&s.OfferExpiresAt,
		&s.RespondedAt,
	)
	return s, err
}

func (r *SubscriberRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SubscriberRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *SubscriberRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
