package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/internal/domain/repository"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
	"github.com/pedidoslab/pedidos-api/pkg/mailer"
)

// OrderService owns order CRUD. Every operation on a specific order goes
// through the ownership-filtered repository lookups, so another user's order
// and a nonexistent order produce the same ErrOrderNotFound.
type OrderService struct {
	Orders      repository.OrderRepository
	Redis       *redis.Client
	Pub         Publisher
	MailEnabled bool
	Logger      *logrus.Logger
	ES          *elasticsearch.Client
	ESIndex     string
	CacheTTL    time.Duration
}

func NewOrderService(orders repository.OrderRepository, rdb *redis.Client, pub Publisher, mailEnabled bool, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, cacheTTL time.Duration) *OrderService {
	return &OrderService{
		Orders:      orders,
		Redis:       rdb,
		Pub:         pub,
		MailEnabled: mailEnabled,
		Logger:      logger,
		ES:          es,
		ESIndex:     esIndex,
		CacheTTL:    cacheTTL,
	}
}

type CreateOrderInput struct {
	Client   string
	Product  string
	Quantity int
}

type UpdateOrderInput struct {
	Client   string
	Product  string
	Quantity int
	Status   string
}

func dashboardKey(userID int64) string {
	return "dashboard:user:" + strconv.FormatInt(userID, 10)
}

func (s *OrderService) List(ctx context.Context, userID int64) ([]entity.Order, error) {
	return s.Orders.ListForUser(ctx, userID)
}

// Create inserts a new order for its owner; status defaults to Pending. The
// confirmation email is enqueued after the commit and never affects it.
func (s *OrderService) Create(ctx context.Context, user *entity.User, in CreateOrderInput) (*entity.Order, error) {
	o := &entity.Order{
		UserID:   user.ID,
		Client:   in.Client,
		Product:  in.Product,
		Quantity: in.Quantity,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, user.ID)
	s.indexOrder(ctx, o)
	s.enqueueMail(ctx, mailer.OrderCreatedJob(user.Email, o.Product, o.Client, o.Quantity))
	return o, nil
}

// Get authorizes the order against its owner before returning it.
func (s *OrderService) Get(ctx context.Context, userID, id int64) (*entity.Order, error) {
	o, err := s.Orders.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// Update edits an owned order. The mutating statement keeps the ownership
// filter, so no mutation can land on an unauthorized or missing order.
func (s *OrderService) Update(ctx context.Context, user *entity.User, id int64, in UpdateOrderInput) (*entity.Order, error) {
	o := &entity.Order{
		ID:       id,
		UserID:   user.ID,
		Client:   in.Client,
		Product:  in.Product,
		Quantity: in.Quantity,
		Status:   in.Status,
	}
	if err := s.Orders.UpdateForUser(ctx, o); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	// re-read so the response and the search index carry created_at
	if fresh, err := s.Orders.GetForUser(ctx, id, user.ID); err == nil {
		o = fresh
	}
	s.invalidateDashboard(ctx, user.ID)
	s.indexOrder(ctx, o)
	s.enqueueMail(ctx, mailer.OrderUpdatedJob(user.Email, o.Product, o.Status))
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, userID, id int64, status string) error {
	if err := s.Orders.UpdateStatusForUser(ctx, id, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	s.invalidateDashboard(ctx, userID)
	if fresh, err := s.Orders.GetForUser(ctx, id, userID); err == nil {
		s.indexOrder(ctx, fresh)
	}
	return nil
}

func (s *OrderService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.Orders.DeleteForUser(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	s.invalidateDashboard(ctx, userID)
	s.removeFromIndex(ctx, id)
	return nil
}

// Dashboard returns per-user aggregates, cached briefly in Redis.
func (s *OrderService) Dashboard(ctx context.Context, userID int64) (*entity.DashboardStats, error) {
	if s.Redis != nil {
		var cached entity.DashboardStats
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, dashboardKey(userID), &cached); err == nil && hit {
			return &cached, nil
		}
	}
	stats, err := s.Orders.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, dashboardKey(userID), stats, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("dashboard cache set failed")
		}
	}
	return stats, nil
}

func (s *OrderService) invalidateDashboard(ctx context.Context, userID int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, dashboardKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("dashboard cache invalidation failed")
	}
}

func (s *OrderService) enqueueMail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to enqueue email")
	}
}

// indexOrder mirrors the order into Elasticsearch for search. Best effort:
// failures are logged, the order mutation has already committed.
func (s *OrderService) indexOrder(ctx context.Context, o *entity.Order) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         o.ID,
		"user_id":    o.UserID,
		"client":     o.Client,
		"product":    o.Product,
		"quantity":   o.Quantity,
		"status":     o.Status,
		"created_at": o.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(o.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("order_id", o.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("order_id", o.ID).Warn("es index response error")
	}
}

func (s *OrderService) removeFromIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("order_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search queries the order index, always scoped to the requesting user.
func (s *OrderService) Search(ctx context.Context, userID int64, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"client^2", "product"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
