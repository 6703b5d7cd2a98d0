package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pedidoslab/pedidos-api/internal/application"
	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/internal/interface/middleware"
	"github.com/pedidoslab/pedidos-api/pkg/response"
	"github.com/pedidoslab/pedidos-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type createOrderRequest struct {
	Client   string `json:"client" binding:"required,max=100"`
	Product  string `json:"product" binding:"required,max=100"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type updateOrderRequest struct {
	Client   string `json:"client" binding:"required,max=100"`
	Product  string `json:"product" binding:"required,max=100"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Status   string `json:"status" binding:"required,max=20"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,max=20"`
}

func orderJSON(o *entity.Order) gin.H {
	return gin.H{
		"id":         o.ID,
		"client":     o.Client,
		"product":    o.Product,
		"quantity":   o.Quantity,
		"status":     o.Status,
		"created_at": o.CreatedAt,
	}
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid order id", nil)
		return 0, false
	}
	return id, true
}

// List GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	orders, err := h.Svc.List(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("listing orders failed")
		response.Error[any](c, http.StatusInternalServerError, "listing orders failed", nil)
		return
	}
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	response.Success(c, http.StatusOK, out, "orders", gin.H{"count": len(out)})
}

// Create POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.Create(c.Request.Context(), u, application.CreateOrderInput{
		Client:   req.Client,
		Product:  req.Product,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.Logger.WithError(err).Error("order creation failed")
		response.Error[any](c, http.StatusInternalServerError, "order creation failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, orderJSON(o), "order created", nil)
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := h.Svc.Get(c.Request.Context(), u.ID, id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, orderJSON(o), "order", nil)
}

// Update PUT /api/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.Update(c.Request.Context(), u, id, application.UpdateOrderInput{
		Client:   req.Client,
		Product:  req.Product,
		Quantity: req.Quantity,
		Status:   req.Status,
	})
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, orderJSON(o), "order updated", nil)
}

// UpdateStatus POST /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.UpdateStatus(c.Request.Context(), u.ID, id, req.Status); err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"status": req.Status}, "status updated", nil)
}

// Delete DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), u.ID, id); err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "order deleted", nil)
}

// Dashboard GET /api/dashboard
func (h *OrderHandler) Dashboard(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	stats, err := h.Svc.Dashboard(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("dashboard aggregation failed")
		response.Error[any](c, http.StatusInternalServerError, "dashboard aggregation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard", nil)
}

// Search GET /api/orders/search?q=
func (h *OrderHandler) Search(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), u.ID, q, size)
	if err != nil {
		h.Logger.WithError(err).Error("order search failed")
		response.Error[any](c, http.StatusInternalServerError, "order search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// respondOrderError keeps missing orders and other users' orders identical on
// the wire.
func (h *OrderHandler) respondOrderError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrOrderNotFound) {
		response.Error[any](c, http.StatusNotFound, "order not found", nil)
		return
	}
	h.Logger.WithError(err).Error("order operation failed")
	response.Error[any](c, http.StatusInternalServerError, "order operation failed", nil)
}
