package http

import (
	historypage "conferente/frontend/history"
	"conferente/frontend/ticket"
	"conferente/frontend/weighing"

	"github.com/go-chi/chi/v5"
)

// RegisterWeighingRoutes wires the weighing screen: predictions, live
// composition preview and registration.
func (s *Server) RegisterWeighingRoutes(r chi.Router) {
	r.Get("/predict/supplier", weighing.PredictSupplierQueryHandler(s.Memory))
	r.Get("/predict/product", weighing.PredictProductQueryHandler(s.Memory))
	r.Get("/weighings/compose", weighing.ComposeQueryHandler())
	r.Post("/weighings", weighing.RegisterWeighingCommandHandler(s.Memory, s.History))
	r.Get("/weighings/{id}/photo", weighing.PhotoQueryHandler(s.History))
}

// RegisterHistoryRoutes wires the history screen: period report,
// exports and the confirmed bulk clear.
func (s *Server) RegisterHistoryRoutes(r chi.Router) {
	r.Get("/history", historypage.ReportQueryHandler(s.History))
	r.Get("/history/share", historypage.ShareTextQueryHandler(s.History))
	r.Get("/history/export.xlsx", historypage.ExportXLSXQueryHandler(s.History))
	r.Post("/history/clear", historypage.ClearHistoryCommandHandler(s.History))
}

// RegisterTicketRoutes wires the printable receipt.
func (s *Server) RegisterTicketRoutes(r chi.Router) {
	r.Get("/ticket.pdf", ticket.TicketPDFQueryHandler(s.History))
	r.Get("/ticket/share", ticket.ShareTextQueryHandler(s.History))
}
