package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/product"
	"github.com/petstack/catalog-service/internal/product/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

const (
	defaultPageSize = 200
	maxPageSize     = 500
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products", h.Create)
	rg.GET("/products", h.List)
	rg.GET("/products/:id", h.Get)
	rg.PATCH("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
}

type createProductRequest struct {
	SKU         string               `json:"sku"`
	Attributes  []identity.Attribute `json:"attributes"`
	UnitPrice   *float64             `json:"unitPrice"`
	BasePrice   *float64             `json:"basePrice"` // legacy alias
	StockAmount *int64               `json:"stockAmount"`
}

type updateProductRequest struct {
	SKU          *string               `json:"sku"`
	Attributes   *[]identity.Attribute `json:"attributes"`
	UnitPrice    *float64              `json:"unitPrice"`
	BasePrice    *float64              `json:"basePrice"`
	StockAmount  *int64                `json:"stockAmount"`
	RecomputeSKU bool                  `json:"recompute_sku"`
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	input := &dto.CreateProductInput{
		SKU:        req.SKU,
		Attributes: req.Attributes,
	}
	if req.UnitPrice != nil {
		input.UnitPrice = *req.UnitPrice
	} else if req.BasePrice != nil {
		input.UnitPrice = *req.BasePrice
	}
	if req.StockAmount != nil {
		input.StockAmount = *req.StockAmount
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	filters := &dto.ProductFilters{
		SearchQuery: strings.TrimSpace(c.Query("q")),
		Attrs:       parseAttrFilters(c),
		InStock:     c.Query("inStock") == "true",
		Page:        1,
		PageSize:    defaultPageSize,
	}

	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filters.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filters.MaxPrice = &v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filters.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filters.PageSize = v
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}

	filters.SortBy, filters.SortOrder = parseSort(c.Query("sort"))

	products, total, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": products,
		"total": total,
		"page":  filters.Page,
		"limit": filters.PageSize,
	})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	input := &dto.UpdateProductInput{
		ID:           c.Param("id"),
		SKU:          req.SKU,
		Attributes:   req.Attributes,
		StockAmount:  req.StockAmount,
		RecomputeSKU: req.RecomputeSKU,
	}
	if req.UnitPrice != nil {
		input.UnitPrice = req.UnitPrice
	} else if req.BasePrice != nil {
		input.UnitPrice = req.BasePrice
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "product deleted"})
}

func (h *ProductHandler) respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": err.Error()})
	case apperr.KindInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": true, "message": err.Error()})
	default:
		h.logger.Error("product request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "internal error"})
	}
}

var attrKeyPattern = regexp.MustCompile(`^attr\[(.+)\]$`)

// parseAttrFilters accepts both ?attr[Type]=Collar and repeated
// ?attr=Type:Collar forms. Keys and values are canonicalized so filters use
// equality over canonical text rather than patterns built from user input.
func parseAttrFilters(c *gin.Context) map[string]string {
	out := map[string]string{}

	for rawKey, vals := range c.Request.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		if m := attrKeyPattern.FindStringSubmatch(rawKey); m != nil {
			k := identity.Canonicalize(m[1])
			v := identity.Canonicalize(vals[len(vals)-1])
			if k != "" && v != "" {
				out[k] = v
			}
		}
	}

	for _, pair := range c.QueryArray("attr") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		ck := identity.Canonicalize(k)
		cv := identity.Canonicalize(v)
		if ck != "" && cv != "" {
			out[ck] = cv
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// parseSort maps the legacy "-updatedAt" style tokens onto whitelisted
// column/order pairs.
func parseSort(sort string) (string, string) {
	order := "desc"
	if sort == "" {
		return "updated_at", order
	}
	if strings.HasPrefix(sort, "-") {
		sort = sort[1:]
	} else {
		order = "asc"
	}

	switch sort {
	case "sku":
		return "sku", order
	case "unitPrice", "unit_price":
		return "unit_price", order
	case "stockAmount", "stock_amount":
		return "stock_amount", order
	case "createdAt", "created_at":
		return "created_at", order
	case "updatedAt", "updated_at":
		return "updated_at", order
	}
	return "updated_at", "desc"
}
