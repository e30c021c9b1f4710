package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/variant"
	"github.com/petstack/catalog-service/internal/variant/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

type VariantHandler struct {
	uc     variant.UseCase
	logger logger.ZapLogger
}

func NewVariantHandler(uc variant.UseCase, log logger.ZapLogger) *VariantHandler {
	return &VariantHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *VariantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/variants/:sku/availability", h.Availability)
	rg.POST("/variants/:sku/resolve", h.Resolve)
}

// POST /api/v1/variants/:sku/availability
func (h *VariantHandler) Availability(c *gin.Context) {
	var in dto.SelectionsInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	byOption, err := h.uc.Availability(c.Request.Context(), c.Param("sku"), in.Pairs())
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": true, "message": err.Error()})
		default:
			h.logger.Error("availability failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"byOption": byOption})
}

// POST /api/v1/variants/:sku/resolve
func (h *VariantHandler) Resolve(c *gin.Context) {
	var in dto.SelectionsInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"found": false, "message": "invalid request body"})
		return
	}

	result, err := h.uc.Resolve(c.Request.Context(), c.Param("sku"), in.Pairs())
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"found": false, "message": err.Error()})
		case apperr.KindInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"found": false, "message": err.Error()})
		default:
			h.logger.Error("resolve failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"found": false, "message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
