package app

import (
	"context"
	"sort"
	"time"

	"github.com/gofernie/fernie-eggs/internal/domain"
)

// fakeStore is an in-memory stand-in for postgres.Store, satisfying the
// repository interfaces of every service.
type fakeStore struct {
	subs map[string]domain.Subscriber
	cfg  domain.StockConfig
	logs []domain.SMSRecord

	configSaves int
}

func newFakeStore(cfg domain.StockConfig, subs ...domain.Subscriber) *fakeStore {
	m := make(map[string]domain.Subscriber, len(subs))
	for _, sub := range subs {
		m[sub.Phone] = sub
	}
	return &fakeStore{subs: m, cfg: cfg}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) WithStockLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) FindByPhone(_ context.Context, phoneKey string) (*domain.Subscriber, error) {
	sub, ok := f.subs[phoneKey]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (f *fakeStore) GetForUpdate(_ context.Context, phoneKey string) (domain.Subscriber, error) {
	sub, ok := f.subs[phoneKey]
	if !ok {
		return domain.Subscriber{}, domain.ErrSubscriberNotFound
	}
	return sub, nil
}

func (f *fakeStore) Create(_ context.Context, sub domain.Subscriber) error {
	if _, ok := f.subs[sub.Phone]; ok {
		return domain.ErrAlreadyQueued
	}
	f.subs[sub.Phone] = sub
	return nil
}

func (f *fakeStore) Update(_ context.Context, sub domain.Subscriber) error {
	if _, ok := f.subs[sub.Phone]; !ok {
		return domain.ErrSubscriberNotFound
	}
	f.subs[sub.Phone] = sub
	return nil
}

func (f *fakeStore) ListExpiredOffers(_ context.Context, now time.Time) ([]domain.Subscriber, error) {
	var out []domain.Subscriber
	for _, sub := range f.subs {
		if sub.OfferLapsed(now) {
			out = append(out, sub)
		}
	}
	sortSubs(out)
	return out, nil
}

func (f *fakeStore) ListWaiting(_ context.Context) ([]domain.Subscriber, error) {
	var out []domain.Subscriber
	for _, sub := range f.subs {
		if sub.Status == domain.StatusWaiting && !sub.OptedOut {
			out = append(out, sub)
		}
	}
	sortSubs(out)
	return out, nil
}

func (f *fakeStore) SumActiveOffers(_ context.Context) (int, error) {
	total := 0
	for _, sub := range f.subs {
		if sub.Status == domain.StatusOffered {
			total += sub.OfferedDozens
		}
	}
	return total, nil
}

func (f *fakeStore) GetConfig(_ context.Context) (domain.StockConfig, error) {
	return f.cfg, nil
}

func (f *fakeStore) SaveConfig(_ context.Context, cfg domain.StockConfig) error {
	f.cfg = cfg
	f.configSaves++
	return nil
}

func (f *fakeStore) LogSMS(_ context.Context, rec domain.SMSRecord) error {
	f.logs = append(f.logs, rec)
	return nil
}

func (f *fakeStore) sub(phone string) domain.Subscriber {
	return f.subs[phone]
}

func sortSubs(subs []domain.Subscriber) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].Phone < subs[j].Phone
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
}

type sentMessage struct {
	To   string
	Body string
}

// fakeSender records deliveries and can fail specific addresses.
type fakeSender struct {
	sent   []sentMessage
	failTo map[string]error
}

func (f *fakeSender) Send(_ context.Context, to, body string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}
