package dto

type ProductFilters struct {
	SearchQuery string            // matches sku or any attribute value
	Attrs       map[string]string // exact attribute filters, canonical match
	MinPrice    *float64
	MaxPrice    *float64
	InStock     bool
	SortBy      string // sku, unit_price, stock_amount, created_at, updated_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
