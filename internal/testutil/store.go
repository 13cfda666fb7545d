// Package testutil provides in-memory implementations of the usecase ports
// for service and handler tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
)

// Store holds every table behind one mutex so conditional writes behave
// atomically, like the SQL they stand in for.
type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]domain.User
	resumes map[uuid.UUID]domain.Resume
	subs    map[uuid.UUID]domain.Subscription
	orders  map[string]domain.PaymentOrder
}

func NewStore() *Store {
	return &Store{
		users:   map[uuid.UUID]domain.User{},
		resumes: map[uuid.UUID]domain.Resume{},
		subs:    map[uuid.UUID]domain.Subscription{},
		orders:  map[string]domain.PaymentOrder{},
	}
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Resumes() *Resumes             { return &Resumes{s} }
func (s *Store) Subscriptions() *Subscriptions { return &Subscriptions{s} }
func (s *Store) Payments() *Payments           { return &Payments{s} }

// PutSubscription seeds or overwrites the owner's subscription.
func (s *Store) PutSubscription(sub domain.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	s.subs[sub.OwnerID] = sub
}

// Subscription returns a copy of the owner's subscription, or nil.
func (s *Store) Subscription(owner uuid.UUID) *domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[owner]
	if !ok {
		return nil
	}
	return &sub
}

func (s *Store) ResumeCount(owner uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.resumes {
		if r.OwnerID == owner {
			n++
		}
	}
	return n
}

type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Users) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type Resumes struct{ s *Store }

func (r *Resumes) Create(ctx context.Context, res *domain.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resumes[res.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.resumes[res.ID] = *res
	return nil
}

func (r *Resumes) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resumes[id]
	if !ok || res.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (r *Resumes) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Resume{}
	for _, res := range r.s.resumes {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *Resumes) Update(ctx context.Context, res *domain.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.resumes[res.ID]
	if !ok || cur.OwnerID != res.OwnerID {
		return domain.ErrNotFound
	}
	r.s.resumes[res.ID] = *res
	return nil
}

func (r *Resumes) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.resumes[id]
	if !ok || cur.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.s.resumes, id)
	return nil
}

type Subscriptions struct{ s *Store }

func (r *Subscriptions) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subs[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}

func (r *Subscriptions) ActivateFree(ctx context.Context, ownerID uuid.UUID, planType domain.PlanType, expiresAt, now time.Time) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.subs[ownerID]
	if ok && cur.Status == domain.StatusActive && cur.ExpiresAt != nil && cur.ExpiresAt.After(now) {
		return nil, domain.ErrSubscriptionActive
	}
	sub := domain.Subscription{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    domain.StatusActive,
		PlanType:  planType,
		ExpiresAt: &expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ok {
		sub.ID = cur.ID
		sub.CreatedAt = cur.CreatedAt
	}
	r.s.subs[ownerID] = sub
	return &sub, nil
}

func (r *Subscriptions) Consume(ctx context.Context, req usecase.ConsumeRequest) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subs[req.OwnerID]
	if !ok || sub.PlanType != req.PlanType || sub.Status != domain.StatusActive ||
		sub.ExpiresAt == nil || !sub.ExpiresAt.After(req.Now) ||
		(req.AI && sub.AIDownloadsUsed >= req.AIQuota) {
		return nil, domain.ErrConsumeRejected
	}
	sub.TotalDownloads++
	if req.AI {
		sub.AIDownloadsUsed++
	}
	sub.UpdatedAt = req.Now
	r.s.subs[req.OwnerID] = sub
	return &sub, nil
}

type Payments struct{ s *Store }

func (r *Payments) CreateOrder(ctx context.Context, o *domain.PaymentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.OrderID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[o.OrderID] = *o
	return nil
}

func (r *Payments) GetOrder(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *Payments) CompletePayment(ctx context.Context, c usecase.PaymentCompletion) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[c.OrderID]
	if !ok || o.OwnerID != c.OwnerID || o.Status != domain.OrderCreated {
		return nil, domain.ErrOrderNotPending
	}
	pid := c.PaymentID
	o.Status = domain.OrderPaid
	o.PaymentID = &pid
	o.UpdatedAt = c.Now
	r.s.orders[c.OrderID] = o

	exp := c.ExpiresAt
	sub := domain.Subscription{
		ID:         uuid.New(),
		OwnerID:    c.OwnerID,
		Status:     domain.StatusActive,
		PlanType:   c.PlanType,
		ExpiresAt:  &exp,
		PaymentRef: &pid,
		CreatedAt:  c.Now,
		UpdatedAt:  c.Now,
	}
	if cur, ok := r.s.subs[c.OwnerID]; ok {
		sub.ID = cur.ID
		sub.CreatedAt = cur.CreatedAt
	}
	r.s.subs[c.OwnerID] = sub
	return &sub, nil
}
