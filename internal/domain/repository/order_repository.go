package repository

import (
	"context"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
)

// OrderRepository defines order persistence. Every lookup and mutation is
// filtered jointly on order id AND owning user id, so an order belonging to
// another user behaves exactly like a nonexistent one.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	ListForUser(ctx context.Context, userID int64) ([]entity.Order, error)
	GetForUser(ctx context.Context, id, userID int64) (*entity.Order, error)
	UpdateForUser(ctx context.Context, o *entity.Order) error
	UpdateStatusForUser(ctx context.Context, id, userID int64, status string) error
	DeleteForUser(ctx context.Context, id, userID int64) error
	StatsForUser(ctx context.Context, userID int64) (*entity.DashboardStats, error)
}
