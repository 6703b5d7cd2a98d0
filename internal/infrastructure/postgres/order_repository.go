package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.Status == "" {
		o.Status = entity.StatusPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pedidos (user_id, client, product, quantity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at
	`, o.UserID, o.Client, o.Product, o.Quantity, o.Status)

	return row.Scan(&o.ID, &o.Status, &o.CreatedAt)
}

func (r *OrderRepository) ListForUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, client, product, quantity, status, created_at
		FROM pedidos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0)
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Client, &o.Product, &o.Quantity, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetForUser filters on id AND user_id so another user's order is
// indistinguishable from a nonexistent one.
func (r *OrderRepository) GetForUser(ctx context.Context, id, userID int64) (*entity.Order, error) {
	o := &entity.Order{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, client, product, quantity, status, created_at
		FROM pedidos
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	if err := row.Scan(&o.ID, &o.UserID, &o.Client, &o.Product, &o.Quantity, &o.Status, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateForUser carries the ownership filter inside the mutating statement,
// so the authorization check and the mutation commit as one unit.
func (r *OrderRepository) UpdateForUser(ctx context.Context, o *entity.Order) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE pedidos
		SET client = $1, product = $2, quantity = $3, status = $4
		WHERE id = $5 AND user_id = $6
	`, o.Client, o.Product, o.Quantity, o.Status, o.ID, o.UserID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) UpdateStatusForUser(ctx context.Context, id, userID int64, status string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE pedidos
		SET status = $1
		WHERE id = $2 AND user_id = $3
	`, status, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM pedidos
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) StatsForUser(ctx context.Context, userID int64) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{
		PerProduct: make(map[string]int64),
		PerClient:  make(map[string]int64),
	}

	row := r.pool.QueryRow(ctx, `SELECT count(*) FROM pedidos WHERE user_id = $1`, userID)
	if err := row.Scan(&stats.TotalOrders); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, count(*)
		FROM pedidos
		WHERE user_id = $1
		GROUP BY month
		ORDER BY month
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var mc entity.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		stats.PerMonth = append(stats.PerMonth, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.countsInto(ctx, userID, "product", stats.PerProduct); err != nil {
		return nil, err
	}
	if err := r.countsInto(ctx, userID, "client", stats.PerClient); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *OrderRepository) countsInto(ctx context.Context, userID int64, column string, dest map[string]int64) error {
	// column is one of the fixed identifiers below, never user input
	var q string
	switch column {
	case "product":
		q = `SELECT product, count(*) FROM pedidos WHERE user_id = $1 GROUP BY product`
	case "client":
		q = `SELECT client, count(*) FROM pedidos WHERE user_id = $1 GROUP BY client`
	default:
		return errors.New("unknown aggregate column")
	}
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dest[key] = n
	}
	return rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
