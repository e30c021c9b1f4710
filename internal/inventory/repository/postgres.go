package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/petstack/catalog-service/internal/inventory/dto"
	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/pkg/apperr"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) BatchBySKUs(ctx context.Context, skus []string) ([]model.Product, error) {
	if len(skus) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, sku, unit_price, stock_amount FROM products
        WHERE sku IN (?)
    `, skus)
	if err != nil {
		return nil, err
	}

	// Rebind for Postgres ($1, $2...)
	query = r.DB.Rebind(query)

	var items []model.Product
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) AdjustStock(ctx context.Context, sku string, movement *model.StockMovement) (*model.Product, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p model.Product
	err = tx.GetContext(ctx, &p, `SELECT * FROM products WHERE sku = $1 FOR UPDATE`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	movement.QuantityBefore = p.StockAmount
	movement.QuantityAfter = p.StockAmount + movement.QuantityChange
	if movement.QuantityAfter < 0 {
		return nil, apperr.InvalidInput("insufficient stock")
	}

	p.StockAmount = movement.QuantityAfter
	p.UpdatedAt = movement.CreatedAt

	_, err = tx.ExecContext(ctx, `
        UPDATE products SET stock_amount = $1, updated_at = $2 WHERE id = $3
    `, p.StockAmount, p.UpdatedAt, p.ID)
	if err != nil {
		return nil, err
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stock_movements (
            id, sku, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :sku, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_at
        )
    `, movement)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var movements []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SKU != "" {
		conditions = append(conditions, "sku = :sku")
		args["sku"] = f.SKU
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = :reference_type")
		args["reference_type"] = f.ReferenceType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
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

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
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

	err = nstmt.SelectContext(ctx, &movements, args)
	if err != nil {
		return nil, 0, err
	}

	return movements, count, nil
}
