package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/petstack/catalog-service/internal/identity"
)

// Product is a flat catalog record; variants are plain products carrying a
// Kind=Variant marker attribute. Identity fields (sku, fp, fp_hash) are
// derived purely from the attribute set and recomputed on every
// attribute-affecting write.
type Product struct {
	BaseModel
	SKU             string         `db:"sku" json:"sku"`
	Attributes      AttributeList  `db:"attributes" json:"attributes"`
	AttrsCanon      CanonicalAttrs `db:"attrs_canon" json:"-"`
	UnitPrice       float64        `db:"unit_price" json:"unitPrice"`
	StockAmount     int64          `db:"stock_amount" json:"stockAmount"`
	Fingerprint     string         `db:"fp" json:"-"`
	FingerprintHash string         `db:"fp_hash" json:"-"`
}

// AttrsMap flattens the display attributes into a key→value object for
// client responses.
func (p *Product) AttrsMap() map[string]string {
	out := make(map[string]string, len(p.Attributes))
	for _, a := range p.Attributes {
		out[a.K] = a.V
	}
	return out
}

// AttributeList is the display attribute list persisted as a JSONB array of
// {k,v} documents.
type AttributeList []identity.Attribute

func (l AttributeList) Value() (driver.Value, error) {
	if l == nil {
		l = AttributeList{}
	}
	return json.Marshal(l)
}

func (l *AttributeList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// CanonicalAttrs is the canonical key→value object persisted as JSONB and
// used for containment predicates.
type CanonicalAttrs map[string]string

func (m CanonicalAttrs) Value() (driver.Value, error) {
	if m == nil {
		m = CanonicalAttrs{}
	}
	return json.Marshal(m)
}

func (m *CanonicalAttrs) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
