package ticket

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	histstore "conferente/infrastructure/history"
	"conferente/infrastructure/report"
)

// TicketPDFQueryHandler renders every stored weighing as one printable
// receipt. The ticket always covers the whole log, not a period filter.
func TicketPDFQueryHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := report.Aggregate(log.All(r.Context()))
		if summary.Count == 0 {
			http.Error(w, "no weighings to print", http.StatusNotFound)
			return
		}

		pdfBytes, reference, err := RenderTicketPDF(summary, time.Now())
		if err != nil {
			slog.Error("ticket render failed", slog.Any("err", err))
			http.Error(w, "failed to render ticket", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`inline; filename="Conferente_Ticket_%s.pdf"`, reference))
		_, _ = w.Write(pdfBytes)
	}
}

// ShareTextQueryHandler is the short totals message next to the print
// button.
func ShareTextQueryHandler(log *histstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := report.Aggregate(log.All(r.Context()))
		if summary.Count == 0 {
			http.Error(w, "no weighings to share", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Relatório Conferente\nItens: %d\nTotal Liq: %.2fkg\n",
			summary.Count, summary.TotalNetKg)
	}
}
