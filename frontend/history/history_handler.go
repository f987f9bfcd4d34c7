package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	histstore "conferente/infrastructure/history"
	"conferente/infrastructure/report"
)

// ReportQueryHandler serves the aggregated history for one period
// filter.
func ReportQueryHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := histstore.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records := log.Window(r.Context(), time.Now(), period)
		writeJSON(w, http.StatusOK, ReportResponse{
			Period:  period,
			Label:   period.Label(),
			Summary: report.Aggregate(records),
		})
	}
}

// ClearHistoryCommandHandler empties the whole weighing log. The action
// is destructive, so the caller must send confirm=yes; anything else is
// rejected before the store is touched.
func ClearHistoryCommandHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if r.FormValue("confirm") != "yes" {
			http.Error(w, "confirmation required: send confirm=yes", http.StatusBadRequest)
			return
		}
		if err := log.ClearAll(r.Context()); err != nil {
			slog.Error("clear history failed", slog.Any("err", err))
			http.Error(w, "failed to clear history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	}
}

// ShareTextQueryHandler renders the period report as forwardable plain
// text.
func ShareTextQueryHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := histstore.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		summary := report.Aggregate(log.Window(r.Context(), time.Now(), period))
		if summary.Count == 0 {
			http.Error(w, "no weighings in period", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(ShareText(period.Label(), summary)))
	}
}

// ExportXLSXQueryHandler downloads the period report as a workbook.
func ExportXLSXQueryHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := histstore.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		summary := report.Aggregate(log.Window(r.Context(), time.Now(), period))
		if summary.Count == 0 {
			http.Error(w, "no weighings in period", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="Conferente_Relatorio_%s.xlsx"`, period))
		if err := WriteXLSX(w, summary); err != nil {
			slog.Error("xlsx export failed", slog.Any("err", err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
