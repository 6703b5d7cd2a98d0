package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/internal/domain/repository"
)

// In-memory fakes mirroring the postgres repositories' contracts.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.RegisteredAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*entity.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.Status == "" {
		o.Status = entity.StatusPending
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) ListForUser(_ context.Context, userID int64) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetForUser(_ context.Context, id, userID int64) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok && o.UserID == userID {
		cp := *o
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) UpdateForUser(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[o.ID]
	if !ok || existing.UserID != o.UserID {
		return repository.ErrNotFound
	}
	existing.Client = o.Client
	existing.Product = o.Product
	existing.Quantity = o.Quantity
	existing.Status = o.Status
	return nil
}

func (r *fakeOrderRepo) UpdateStatusForUser(_ context.Context, id, userID int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) DeleteForUser(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) StatsForUser(_ context.Context, userID int64) (*entity.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &entity.DashboardStats{
		PerProduct: make(map[string]int64),
		PerClient:  make(map[string]int64),
	}
	months := make(map[string]int64)
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		stats.TotalOrders++
		stats.PerProduct[o.Product]++
		stats.PerClient[o.Client]++
		months[o.CreatedAt.Format("2006-01")]++
	}
	for m, n := range months {
		stats.PerMonth = append(stats.PerMonth, entity.MonthCount{Month: m, Count: n})
	}
	return stats, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	fail bool
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.jobs = append(p.jobs, body)
	return nil
}

func (p *fakePublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.jobs))
	copy(out, p.jobs)
	return out
}
