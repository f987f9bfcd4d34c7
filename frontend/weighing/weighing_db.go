package weighing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferente/infrastructure/history"
	"conferente/infrastructure/scale"
	"conferente/infrastructure/tarememory"
	"conferente/models"
)

// ErrInvalid marks registration attempts rejected before any store is
// touched.
var ErrInvalid = errors.New("invalid weighing")

// Register validates a weighing, reinforces the tare memory and appends
// the record. Validation runs first: the stores are never touched with
// invalid state. A failed learn is a recoverable warning (the
// session-local memory still holds the value); a failed append is the
// caller's error.
func Register(ctx context.Context, memory *tarememory.Store, log *history.Store, input RegisterInput) (models.WeighingRecord, error) {
	supplier := strings.TrimSpace(input.Supplier)
	product := strings.TrimSpace(input.Product)
	if supplier == "" || product == "" {
		return models.WeighingRecord{}, fmt.Errorf("%w: supplier and product are required", ErrInvalid)
	}
	if input.GrossKg <= 0 {
		return models.WeighingRecord{}, fmt.Errorf("%w: gross weight must be greater than zero", ErrInvalid)
	}
	if input.TargetWeightKg < 0 {
		return models.WeighingRecord{}, fmt.Errorf("%w: target weight cannot be negative", ErrInvalid)
	}

	comp := scale.Compose(
		input.UnitTareKg, input.BoxQuantity,
		input.PackagingUnitTareKg, input.PackagingQuantity,
		input.GrossKg, input.Mode,
	)

	if err := memory.Learn(ctx, supplier, product, input.UnitTareKg); err != nil {
		slog.Warn("tare memory write lost, keeping session value", slog.Any("err", err))
	}

	rec := models.WeighingRecord{
		Supplier:       supplier,
		Product:        product,
		TargetWeightKg: input.TargetWeightKg,
		GrossWeightKg:  input.GrossKg,
		TareKg:         comp.TotalTareKg,
		NetWeightKg:    comp.NetKg,
		BoxQuantity:    int64(input.BoxQuantity),
		TimestampMs:    time.Now().UnixMilli(),
		PhotoBlob:      input.PhotoBlob,
		PhotoMIME:      input.PhotoMIME,
	}
	if err := log.Append(ctx, &rec); err != nil {
		return models.WeighingRecord{}, err
	}
	return rec, nil
}

// LoadPhoto returns the stored evidence photo for one record.
func LoadPhoto(ctx context.Context, log *history.Store, id string) (blob []byte, mimeType string, ok bool) {
	rec, found := log.Get(ctx, id)
	if !found || !rec.HasPhoto() {
		return nil, "", false
	}
	mimeType = rec.PhotoMIME
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return rec.PhotoBlob, mimeType, true
}
