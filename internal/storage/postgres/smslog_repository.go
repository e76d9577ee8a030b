package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofernie/fernie-eggs/internal/domain"
)

// SMSLogRepository appends to the outbound-message audit trail.
type SMSLogRepository struct {
	pool *pgxpool.Pool
}

func NewSMSLogRepository(pool *pgxpool.Pool) *SMSLogRepository {
	return &SMSLogRepository{pool: pool}
}

func (r *SMSLogRepository) LogSMS(ctx context.Context, rec domain.SMSRecord) error {
	const stmt = `
INSERT INTO sms_log (id, phone, kind, body, created_at)
VALUES ($1, $2, $3, $4, $5)`

	var err error
	if tx := txFromContext(ctx); tx != nil {
		_, err = tx.Exec(ctx, stmt, rec.ID, rec.Phone, rec.Kind, rec.Body, rec.CreatedAt)
	} else {
		_, err = r.pool.Exec(ctx, stmt, rec.ID, rec.Phone, rec.Kind, rec.Body, rec.CreatedAt)
	}
	if err != nil {
		return fmt.Errorf("log sms: %w", err)
	}
	return nil
}
