package history

import (
	histstore "conferente/infrastructure/history"
	"conferente/infrastructure/report"
)

// ReportResponse is the history screen payload for one period filter.
type ReportResponse struct {
	Period  histstore.Period `json:"period"`
	Label   string           `json:"label"`
	Summary report.Summary   `json:"summary"`
}
