package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles the repositories behind the single surface the app
// services consume. The embedded repositories share the pool and the
// tx-in-context convention, so a WithTx or WithStockLock scope on the
// subscriber repository covers the config and sms-log writes inside it.
type Store struct {
	*SubscriberRepository
	*ConfigRepository
	*SMSLogRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		SubscriberRepository: NewSubscriberRepository(pool),
		ConfigRepository:     NewConfigRepository(pool),
		SMSLogRepository:     NewSMSLogRepository(pool),
	}
}
