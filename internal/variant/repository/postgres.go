package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/internal/variant"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
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

func (r *PGRepository) FindFamilyMembers(ctx context.Context, fam *variant.Family) ([]model.Product, error) {
	query, args, err := familyQuery(fam, nil)
	if err != nil {
		return nil, err
	}

	var members []model.Product
	err = r.DB.SelectContext(ctx, &members, query+` ORDER BY sku`, args...)
	return members, err
}

func (r *PGRepository) FindOneInFamily(ctx context.Context, fam *variant.Family, selections map[string]string) (*model.Product, error) {
	query, args, err := familyQuery(fam, selections)
	if err != nil {
		return nil, err
	}

	var p model.Product
	err = r.DB.GetContext(ctx, &p, query+` ORDER BY sku LIMIT 1`, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// familyQuery builds the family predicate as SQL: the Kind=Variant marker
// plus SKU prefix guard, the anchor's Type when present, and one containment
// document covering any extra selection pairs. Membership requires the SKU to
// continue past the prefix with a hyphen; a bare-prefix SKU is never a member.
func familyQuery(fam *variant.Family, selections map[string]string) (string, []interface{}, error) {
	marker := model.CanonicalAttrs{"kind": "variant"}
	if fam.Type != "" {
		marker["type"] = fam.Type
	}
	for k, v := range selections {
		marker[k] = v
	}

	doc, err := json.Marshal(marker)
	if err != nil {
		return "", nil, err
	}

	query := `SELECT * FROM products WHERE attrs_canon @> $1::jsonb AND sku LIKE $2`
	args := []interface{}{string(doc), escapeLike(fam.SKUPrefix) + "-%"}
	return query, args, nil
}

// escapeLike escapes LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
