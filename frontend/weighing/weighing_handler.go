package weighing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"conferente/infrastructure/history"
	"conferente/infrastructure/scale"
	"conferente/infrastructure/tarememory"
)

// PredictSupplierQueryHandler suggests the last learned product and
// tare for a supplier, used when the operator leaves the supplier
// field.
func PredictSupplierQueryHandler(memory *tarememory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplier := r.URL.Query().Get("supplier")
		resp := PredictSupplierResponse{}
		if p, ok := memory.PredictForSupplier(supplier); ok {
			resp = PredictSupplierResponse{Found: true, Product: p.Product, TareKg: p.TareKg}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// PredictProductQueryHandler is the exact (supplier, product) lookup.
// It wins over the supplier-level suggestion once both fields are
// filled.
func PredictProductQueryHandler(memory *tarememory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp := PredictProductResponse{}
		if tare, ok := memory.PredictForProduct(q.Get("supplier"), q.Get("product")); ok {
			resp = PredictProductResponse{Found: true, TareKg: tare}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ComposeQueryHandler recomputes the tare composition for live feedback
// while the operator edits quantities. Pure; nothing is stored.
func ComposeQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mode, err := scale.ParseMode(q.Get("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		comp := scale.Compose(
			scale.GramsToKg(scale.ParseAverage(q.Get("unit_tare_g"))),
			scale.ParseQuantity(q.Get("box_qty")),
			scale.GramsToKg(scale.ParseAverage(q.Get("packaging_unit_tare_g"))),
			scale.ParseQuantity(q.Get("packaging_qty")),
			scale.ParseAverage(q.Get("gross_kg")),
			mode,
		)
		writeJSON(w, http.StatusOK, comp)
	}
}

// RegisterWeighingCommandHandler validates and stores one weighing.
// Tare fields arrive as free text in grams (multi-value readings are
// averaged), gross and target in kilograms.
func RegisterWeighingCommandHandler(memory *tarememory.Store, log *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseWeighingForm(r); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		mode, err := scale.ParseMode(strings.TrimSpace(r.FormValue("tare_mode")))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		input := RegisterInput{
			Supplier:            r.FormValue("supplier"),
			Product:             r.FormValue("product"),
			TargetWeightKg:      scale.ParseAverage(r.FormValue("target_weight_kg")),
			GrossKg:             scale.ParseAverage(r.FormValue("gross_kg")),
			UnitTareKg:          scale.GramsToKg(scale.ParseAverage(r.FormValue("unit_tare_g"))),
			BoxQuantity:         scale.ParseQuantity(r.FormValue("box_qty")),
			PackagingUnitTareKg: scale.GramsToKg(scale.ParseAverage(r.FormValue("packaging_unit_tare_g"))),
			PackagingQuantity:   scale.ParseQuantity(r.FormValue("packaging_qty")),
			Mode:                mode,
		}

		blob, mimeType, err := parseOptionalPhoto(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		input.PhotoBlob = blob
		input.PhotoMIME = mimeType

		rec, err := Register(r.Context(), memory, log, input)
		if err != nil {
			if errors.Is(err, ErrInvalid) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("weighing append failed", slog.Any("err", err))
			http.Error(w, "failed to save weighing", http.StatusInternalServerError)
			return
		}

		comp := scale.Compose(
			input.UnitTareKg, input.BoxQuantity,
			input.PackagingUnitTareKg, input.PackagingQuantity,
			input.GrossKg, input.Mode,
		)
		writeJSON(w, http.StatusCreated, RegisterResult{
			ID:          rec.ID,
			Composition: comp,
			TimestampMs: rec.TimestampMs,
		})
	}
}

// PhotoQueryHandler serves the evidence photo stored with a record.
func PhotoQueryHandler(log *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		blob, mimeType, ok := LoadPhoto(r.Context(), log, id)
		if !ok {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Cache-Control", "private, max-age=3600")
		_, _ = w.Write(blob)
	}
}

func parseWeighingForm(r *http.Request) error {
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return r.ParseMultipartForm(8 << 20)
	}
	return r.ParseForm()
}

func parseOptionalPhoto(r *http.Request) (blob []byte, mimeType string, err error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type"))), "multipart/form-data") {
		return nil, "", nil
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	const maxPhoto = 5 << 20 // 5MB
	data, err := io.ReadAll(io.LimitReader(file, maxPhoto+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", nil
	}
	if len(data) > maxPhoto {
		return nil, "", errors.New("photo must be 5MB or less")
	}

	mimeType = strings.TrimSpace(header.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", errors.New("photo must be an image file")
	}
	return data, mimeType, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
