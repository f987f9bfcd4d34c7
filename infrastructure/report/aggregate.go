// Package report derives export-ready rows and totals from weighing
// records. Every row is computed from a single record; the summary only
// carries the running total and count.
package report

import (
	"time"

	"conferente/models"
)

// Variance statuses against the invoice weight.
const (
	StatusShort = "Falta"
	StatusOver  = "Sobra"
	StatusExact = "Exato"
)

// diffTolerance is the band around the target inside which a weighing
// counts as exact.
const diffTolerance = 0.01

// Row is one record projected for display or export.
type Row struct {
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Supplier       string  `json:"supplier"`
	Product        string  `json:"product"`
	TargetWeightKg float64 `json:"targetWeightKg"`
	GrossWeightKg  float64 `json:"grossWeightKg"`
	TareKg         float64 `json:"tareKg"`
	NetWeightKg    float64 `json:"netWeightKg"`
	BoxQuantity    int64   `json:"boxQuantity"`
	DiffKg         float64 `json:"diffKg"`
	Status         string  `json:"status"`
	HasPhoto       bool    `json:"hasPhoto"`
}

// Summary aggregates a record set for a report.
type Summary struct {
	TotalNetKg float64 `json:"totalNetKg"`
	Count      int     `json:"count"`
	Rows       []Row   `json:"rows"`
}

// Aggregate sums the stored net-weight snapshots (never recomputing
// them from gross and tare) and projects one row per record, keeping
// the input order.
func Aggregate(records []models.WeighingRecord) Summary {
	summary := Summary{Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		summary.TotalNetKg += rec.NetWeightKg
		summary.Count++
		summary.Rows = append(summary.Rows, buildRow(rec))
	}
	return summary
}

// Classify compares a net weight against the invoice target. With no
// target (zero) there is nothing to compare: diff is 0 and status
// empty.
func Classify(netKg, targetKg float64) (diffKg float64, status string) {
	if targetKg == 0 {
		return 0, ""
	}
	diffKg = netKg - targetKg
	switch {
	case diffKg < -diffTolerance:
		return diffKg, StatusShort
	case diffKg > diffTolerance:
		return diffKg, StatusOver
	}
	return diffKg, StatusExact
}

func buildRow(rec models.WeighingRecord) Row {
	ts := time.UnixMilli(rec.TimestampMs).Local()
	diff, status := Classify(rec.NetWeightKg, rec.TargetWeightKg)
	return Row{
		Date:           ts.Format("02/01/2006"),
		Time:           ts.Format("15:04:05"),
		Supplier:       rec.Supplier,
		Product:        rec.Product,
		TargetWeightKg: rec.TargetWeightKg,
		GrossWeightKg:  rec.GrossWeightKg,
		TareKg:         rec.TareKg,
		NetWeightKg:    rec.NetWeightKg,
		BoxQuantity:    rec.BoxQuantity,
		DiffKg:         diff,
		Status:         status,
		HasPhoto:       rec.HasPhoto(),
	}
}
