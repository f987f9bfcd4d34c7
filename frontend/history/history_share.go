package history

import (
	"fmt"
	"strings"

	"conferente/infrastructure/report"
)

// ShareText renders the history report as the WhatsApp-style plain-text
// message the operator forwards from the phone.
func ShareText(label string, summary report.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Relatório Conferente (%s)*\n------------------\n", label)
	for _, row := range summary.Rows {
		fmt.Fprintf(&b, "📦 *%s* - %s\n", row.Supplier, row.Product)
		fmt.Fprintf(&b, "   Líquido: %.2fkg | Nota: %gkg\n", row.NetWeightKg, row.TargetWeightKg)
		sign := ""
		if row.DiffKg > 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "   Dif: %s%.2fkg\n\n", sign, row.DiffKg)
	}
	return b.String()
}
