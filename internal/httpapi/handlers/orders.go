package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
	"github.com/Cyril-dot/billionBackend/internal/orders"
)

type placeOrderReq struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)

	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	o, err := h.Orders.Place(c.Request.Context(), customerID, req.DeliveryAddress)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			common.Fail(c, http.StatusBadRequest, 10007, "cart is empty")
		case errors.Is(err, orders.ErrInsufficientStock):
			common.Fail(c, http.StatusConflict, 10008, "insufficient stock")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}
	common.Created(c, o)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	out, err := h.Orders.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"orders": out})
}

func (h *Handler) GetOrder(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40406, "order not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if o.CustomerID != customerID {
		// hide existence
		common.Fail(c, http.StatusNotFound, 40406, "order not found")
		return
	}
	common.OK(c, o)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.Orders.Cancel(c.Request.Context(), customerID, id)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40406, "order not found")
		case errors.Is(err, orders.ErrBadTransition):
			common.Fail(c, http.StatusConflict, 10009, "order can no longer be cancelled")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}
	common.OK(c, o)
}

func (h *Handler) ListOrdersByStatus(c *gin.Context) {
	status := orders.Status(strings.ToUpper(c.Query("status")))
	if status == "" {
		status = orders.StatusPending
	}
	if !status.Valid() {
		common.Fail(c, http.StatusBadRequest, 10010, "unknown status")
		return
	}

	out, err := h.Orders.ListByStatus(c.Request.Context(), status)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"orders": out})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	o, err := h.Orders.UpdateStatus(c.Request.Context(), id, orders.Status(strings.ToUpper(req.Status)))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40406, "order not found")
		case errors.Is(err, orders.ErrBadTransition):
			common.Fail(c, http.StatusConflict, 10009, "status transition not allowed")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}
	common.OK(c, o)
}
