package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/inventory"
	"github.com/petstack/catalog-service/internal/inventory/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inventory/availability", h.Availability)
	rg.POST("/inventory/adjust", h.Adjust)
	rg.GET("/inventory/movements", h.Movements)
}

type availabilityRequest struct {
	SKUs []string `json:"skus"`
}

// POST /api/v1/inventory/availability
func (h *InventoryHandler) Availability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	items, err := h.uc.Lookup(c.Request.Context(), req.SKUs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type adjustStockRequest struct {
	SKU            string `json:"sku"`
	QuantityChange int64  `json:"quantityChange"`
	Reason         string `json:"reason"`
	ReferenceID    string `json:"referenceId"`
	ReferenceType  string `json:"referenceType"`
}

// POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	p, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{
		SKU:            req.SKU,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		ReferenceID:    req.ReferenceID,
		ReferenceType:  req.ReferenceType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GET /api/v1/inventory/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	filters := &dto.MovementFilters{
		SKU:           c.Query("sku"),
		ReferenceType: c.Query("referenceType"),
		Page:          1,
		PageSize:      100,
	}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filters.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filters.PageSize = v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.StartDate = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.EndDate = &v
	}

	movements, total, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": movements,
		"total": total,
		"page":  filters.Page,
		"limit": filters.PageSize,
	})
}

func (h *InventoryHandler) respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": err.Error()})
	case apperr.KindInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": true, "message": err.Error()})
	default:
		h.logger.Error("inventory request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "internal error"})
	}
}
