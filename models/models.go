package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TareMemory remembers the last learned unit tare for a normalized
// (supplier, product) pair. The supplier-level suggestion is the most
// recently learned row for that supplier.
type TareMemory struct {
	bun.BaseModel `bun:"table:tare_memory,alias:tm"`

	SupplierKey  string  `bun:"supplier_key,pk"`
	ProductKey   string  `bun:"product_key,pk"`
	ProductLabel string  `bun:"product_label,notnull,default:''"`
	TareKg       float64 `bun:"tare_kg,notnull,default:0"`
	LearnedAtMs  int64   `bun:"learned_at_ms,notnull"`
}

// WeighingRecord is one completed check-in weighing. Net weight is a
// snapshot taken at registration time and is never recomputed.
type WeighingRecord struct {
	bun.BaseModel `bun:"table:weighing_records,alias:wr"`

	ID             string    `bun:"id,pk"`
	Supplier       string    `bun:"supplier,notnull"`
	Product        string    `bun:"product,notnull"`
	TargetWeightKg float64   `bun:"target_weight_kg,notnull,default:0"`
	GrossWeightKg  float64   `bun:"gross_weight_kg,notnull"`
	TareKg         float64   `bun:"tare_kg,notnull,default:0"`
	NetWeightKg    float64   `bun:"net_weight_kg,notnull"`
	BoxQuantity    int64     `bun:"box_quantity,notnull,default:0"`
	TimestampMs    int64     `bun:"timestamp_ms,notnull"`
	PhotoBlob      []byte    `bun:"photo_blob"`
	PhotoMIME      string    `bun:"photo_mime"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// HasPhoto reports whether an evidence photo was captured for this weighing.
func (r WeighingRecord) HasPhoto() bool {
	return len(r.PhotoBlob) > 0
}
