package service

import (
	"context"
	"sync"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
	"ecom-backend/internal/storage"
)

type fakeOrders struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	writes  int
	getErr  error
	saveErr error
}

func newFakeOrders(orders ...domain.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*domain.Order{}}
	for i := range orders {
		o := orders[i]
		f.orders[o.ID] = &o
	}
	return f
}

func (f *fakeOrders) Init(context.Context) error { return nil }

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) List(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	all, _ := f.List(context.Background())
	out := []domain.Order{}
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.PaymentStatus = status
	f.writes++
	return nil
}

func (f *fakeOrders) status(id string) domain.PaymentStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].PaymentStatus
}

type fakeEvents struct {
	mu   sync.Mutex
	seen map[string]domain.ProcessedEvent
	err  error
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{seen: map[string]domain.ProcessedEvent{}}
}

func (f *fakeEvents) Init(context.Context) error { return nil }

func (f *fakeEvents) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.seen[id]
	return ok, nil
}

func (f *fakeEvents) Record(_ context.Context, ev domain.ProcessedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[ev.ID] = ev
	return nil
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []string
	err      error
	// release, when set, holds every upload until it is closed.
	release chan struct{}
}

func (f *fakeArchive) Archive(_ context.Context, ev domain.WebhookEvent) (string, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.archived = append(f.archived, ev.ID)
	return "s3://bucket/" + ev.ID, nil
}

func (f *fakeArchive) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.archived...)
}

func (f *fakeArchive) List(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

type fakeIntents struct {
	amount  int64
	orderID string
	err     error
}

func (f *fakeIntents) CreatePaymentIntent(_ context.Context, amountMinor int64, orderID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.amount = amountMinor
	f.orderID = orderID
	return "pi_secret_" + orderID, nil
}
