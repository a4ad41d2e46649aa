package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/cart"
	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
)

func (h *Handler) GetCart(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	out, err := h.Cart.Get(c.Request.Context(), customerID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, out)
}

func (h *Handler) GetCartCount(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	n, err := h.Cart.Count(c.Request.Context(), customerID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"count": n})
}

type addToCartReq struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h *Handler) AddToCart(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)

	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	out, err := h.Cart.Add(c.Request.Context(), customerID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrProductNotFound):
			common.Fail(c, http.StatusNotFound, 40404, "product not found")
		case errors.Is(err, cart.ErrBadQuantity):
			common.Fail(c, http.StatusBadRequest, 10006, "quantity must be positive")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}
	common.Created(c, out)
}

func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	qty, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || qty < 0 {
		common.Fail(c, http.StatusBadRequest, 10006, "invalid quantity")
		return
	}

	out, err := h.Cart.UpdateQuantity(c.Request.Context(), customerID, itemID, qty)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "cart item not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, out)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	out, err := h.Cart.Remove(c.Request.Context(), customerID, itemID)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "cart item not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, out)
}

func (h *Handler) ClearCart(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	if err := h.Cart.Clear(c.Request.Context(), customerID); err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"cleared": true})
}
