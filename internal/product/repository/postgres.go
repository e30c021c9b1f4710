package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/internal/product/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, sku, attributes, attrs_canon, unit_price, stock_amount,
            fp, fp_hash, created_at, updated_at
        )
        VALUES (
            :id, :sku, :attributes, :attrs_canon, :unit_price, :stock_amount,
            :fp, :fp_hash, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return translateUniqueViolation(err)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE sku = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, `(sku ILIKE :search OR EXISTS (
            SELECT 1 FROM jsonb_array_elements(attributes) a WHERE a->>'v' ILIKE :search
        ))`)
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if len(f.Attrs) > 0 {
		doc, err := json.Marshal(f.Attrs)
		if err != nil {
			return nil, 0, err
		}
		conditions = append(conditions, "attrs_canon @> :attrs::jsonb")
		args["attrs"] = string(doc)
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "unit_price >= :min_price")
		args["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "unit_price <= :max_price")
		args["max_price"] = *f.MaxPrice
	}
	if f.InStock {
		conditions = append(conditions, "stock_amount > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	// Whitelisted sort fields only
	orderBy := "updated_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "sku":
			orderBy = "sku"
		case "unit_price":
			orderBy = "unit_price"
		case "stock_amount":
			orderBy = "stock_amount"
		case "created_at":
			orderBy = "created_at"
		case "updated_at":
			orderBy = "updated_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &products, args)
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET sku = :sku,
            attributes = :attributes,
            attrs_canon = :attrs_canon,
            unit_price = :unit_price,
            stock_amount = :stock_amount,
            fp = :fp,
            fp_hash = :fp_hash,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return translateUniqueViolation(err)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *PGRepository) ExistsBySKU(ctx context.Context, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE sku = $1`
	args := []interface{}{sku}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) ExistsByFingerprintHash(ctx context.Context, fpHash, excludeID string) (bool, error) {
	// Empty hashes are exempt from uniqueness: no attributes means no identity.
	if fpHash == "" {
		return false, nil
	}
	var count int
	query := `SELECT count(*) FROM products WHERE fp_hash = $1`
	args := []interface{}{fpHash}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// translateUniqueViolation maps Postgres unique violations onto conflict
// errors so callers can tell "this SKU exists" apart from "this exact
// attribute combination exists".
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "products_sku_key", "idx_products_sku":
		return apperr.Conflict("SKU already exists")
	case "idx_products_fp_hash":
		return apperr.Conflict("a product with these attributes already exists")
	}
	return apperr.Conflict("duplicate record")
}
