package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/catalog"
	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
)

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid "+name)
		return 0, false
	}
	return id, true
}

type productReq struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand"`
	Stock       int      `json:"stock"`
	ImageURLs   []string `json:"image_urls"`
}

func (r productReq) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Brand:       r.Brand,
		Stock:       r.Stock,
		ImageURLs:   r.ImageURLs,
	}
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context(), catalog.ListFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("q"),
	})
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40404, "product not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	p, err := h.Catalog.Create(c.Request.Context(), merchantID, req.toInput())
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10005, err.Error())
		return
	}
	common.Created(c, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	p, err := h.Catalog.Update(c.Request.Context(), merchantID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40404, "product not found")
		case errors.Is(err, catalog.ErrForbidden):
			common.Fail(c, http.StatusForbidden, 40302, "product belongs to another merchant")
		default:
			common.Fail(c, http.StatusBadRequest, 10005, err.Error())
		}
		return
	}
	common.OK(c, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Catalog.Delete(c.Request.Context(), merchantID, id); err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40404, "product not found")
		case errors.Is(err, catalog.ErrForbidden):
			common.Fail(c, http.StatusForbidden, 40302, "product belongs to another merchant")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}
	common.OK(c, gin.H{"deleted": id})
}

func (h *Handler) ListMyProducts(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)
	products, err := h.Catalog.ListByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"products": products})
}
