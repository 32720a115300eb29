package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
	"ecom-backend/internal/service"
)

type createOrderRequest struct {
	TotalAmount   float64 `json:"totalAmount"`
	TotalItems    int     `json:"totalItems"`
	PaymentMethod string  `json:"paymentMethod"`
}

type paymentIntentRequest struct {
	OrderID     string  `json:"orderId" binding:"required"`
	TotalAmount float64 `json:"totalAmount"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, _ := currentIdentity(c)
	order, err := h.cfg.Orders.CreateOrder(c.Request.Context(), identity.ID, service.CreateOrderInput{
		TotalAmount:   req.TotalAmount,
		TotalItems:    req.TotalItems,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "create order", err)
		return
	}

	c.JSON(http.StatusCreated, orderToResponse(*order))
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.cfg.Orders.ListAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "list orders", err)
		return
	}
	h.writeOrders(c, orders)
}

func (h *Handler) listOwnOrders(c *gin.Context) {
	identity, _ := currentIdentity(c)
	orders, err := h.cfg.Orders.ListOwn(c.Request.Context(), identity.ID)
	if err != nil {
		h.internalError(c, "list own orders", err)
		return
	}
	h.writeOrders(c, orders)
}

func (h *Handler) writeOrders(c *gin.Context, orders []domain.Order) {
	resp := make([]OrderResponse, len(orders))
	for i := range orders {
		resp[i] = orderToResponse(orders[i])
	}
	c.Header("X-Total-Count", strconv.Itoa(len(resp)))
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.loadVisibleOrder(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, orderToResponse(*order))
}

func (h *Handler) createPaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, ok := h.loadVisibleOrder(c, req.OrderID)
	if !ok {
		return
	}
	if minorUnits(req.TotalAmount) != minorUnits(order.TotalAmount) {
		h.logger.WithFields(logrus.Fields{
			"order_id":  order.ID,
			"requested": req.TotalAmount,
			"expected":  order.TotalAmount,
		}).Warn("payment intent amount does not match order")
		c.JSON(http.StatusBadRequest, gin.H{"error": "totalAmount does not match the order"})
		return
	}

	secret, err := h.cfg.Payments.CreateIntent(c.Request.Context(), req.OrderID, req.TotalAmount)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrPaymentProvider):
		h.logger.WithError(err).WithField("order_id", req.OrderID).Error("create payment intent")
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	case err != nil:
		h.internalError(c, "create payment intent", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// loadVisibleOrder fetches an order the caller may see: their own, or any
// order for an admin. Orders owned by someone else look missing.
func (h *Handler) loadVisibleOrder(c *gin.Context, id string) (*domain.Order, bool) {
	identity, _ := currentIdentity(c)

	order, err := h.cfg.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return nil, false
		}
		h.internalError(c, "load order", err)
		return nil, false
	}
	if order.UserID != identity.ID && identity.Role != domain.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return nil, false
	}
	return order, true
}

func (h *Handler) listArchivedEvents(c *gin.Context) {
	if h.cfg.Archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event archive not configured"})
		return
	}

	objects, err := h.cfg.Archive.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.internalError(c, "list archived events", err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
