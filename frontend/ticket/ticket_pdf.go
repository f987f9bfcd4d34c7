package ticket

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"conferente/infrastructure/report"
)

// 80mm thermal roll geometry.
const (
	ticketWidth  = 80.0
	ticketMargin = 6.0
	headerHeight = 34.0
	itemHeight   = 46.0
	footerHeight = 66.0
)

// RenderTicketPDF renders the whole weighing log as one continuous
// receipt: a numbered block per item, running totals and a Code128 end
// marker carrying the report reference.
func RenderTicketPDF(summary report.Summary, printedAt time.Time) ([]byte, string, error) {
	if summary.Count == 0 {
		return nil, "", fmt.Errorf("no weighings to render")
	}

	reference := "CONF" + printedAt.Format("20060102150405")
	barcodePNG, err := renderCode128PNG(reference, 600, 120)
	if err != nil {
		return nil, "", err
	}

	pageH := headerHeight + float64(summary.Count)*itemHeight + footerHeight
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: ticketWidth, Ht: pageH},
	})
	pdf.SetTitle("Relatorio de Pesagem", false)
	pdf.SetMargins(ticketMargin, ticketMargin, ticketMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	usable := ticketWidth - 2*ticketMargin

	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(usable, 8, "CONFERENTE", "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(usable, 4, tr("RELATÓRIO DE PESAGEM"), "", 1, "C", false, 0, "")
	pdf.CellFormat(usable, 4, printedAt.Format("02/01/2006 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	rule(pdf, usable)

	for i, row := range summary.Rows {
		// Newest first on the roll, numbered from the oldest up.
		itemNum := summary.Count - i
		if i > 0 {
			rule(pdf, usable)
		}

		pdf.SetFont("Courier", "B", 9)
		pdf.CellFormat(usable/2, 5, fmt.Sprintf("ITEM #%03d", itemNum), "", 0, "L", false, 0, "")
		pdf.SetFont("Courier", "", 7)
		pdf.CellFormat(usable/2, 5, row.Time, "", 1, "R", false, 0, "")

		pdf.SetFillColor(0, 0, 0)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Courier", "B", 8)
		pdf.CellFormat(usable, 5, tr(" "+row.Supplier), "", 1, "L", true, 0, "")
		pdf.SetFont("Courier", "", 7)
		pdf.CellFormat(usable, 4, tr(" "+row.Product), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(1)

		leaderRow(pdf, usable, "PESO BRUTO", fmt.Sprintf("%.2f kg", row.GrossWeightKg), "", 8)
		leaderRow(pdf, usable, fmt.Sprintf("TARA (%dcx)", row.BoxQuantity), fmt.Sprintf("%.3f kg", row.TareKg), "", 8)
		leaderRow(pdf, usable, tr("LÍQUIDO"), fmt.Sprintf("%.2f kg", row.NetWeightKg), "B", 9)

		nota := "---"
		if row.TargetWeightKg > 0 {
			nota = fmt.Sprintf("%.2f", row.TargetWeightKg)
		}
		sign := ""
		if row.DiffKg > 0 {
			sign = "+"
		}
		pdf.SetFont("Courier", "", 7)
		pdf.CellFormat(usable/2, 4, "NOTA: "+nota, "", 0, "L", false, 0, "")
		pdf.CellFormat(usable/2, 4, fmt.Sprintf("DIF: %s%.2f", sign, row.DiffKg), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}

	rule(pdf, usable)
	rule(pdf, usable)
	pdf.Ln(1)
	leaderRow(pdf, usable, "ITENS CONFERIDOS", fmt.Sprintf("%d", summary.Count), "B", 9)
	leaderRow(pdf, usable, tr("TOTAL LÍQUIDO"), fmt.Sprintf("%.2f kg", summary.TotalNetKg), "B", 11)

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("ticket-barcode", opt, bytes.NewReader(barcodePNG))
	imgW := usable * 0.8
	imgH := 12.0
	pdf.Ln(4)
	pdf.ImageOptions("ticket-barcode", ticketMargin+(usable-imgW)/2, pdf.GetY(), imgW, imgH, false, opt, 0, "")
	pdf.SetY(pdf.GetY() + imgH + 2)
	pdf.SetFont("Courier", "", 6)
	pdf.CellFormat(usable, 3, reference, "", 1, "C", false, 0, "")
	pdf.CellFormat(usable, 3, tr("*** FIM DO RELATÓRIO ***"), "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), reference, nil
}

func leaderRow(pdf *gofpdf.Fpdf, usable float64, label, value, style string, size float64) {
	pdf.SetFont("Courier", style, size)
	pdf.CellFormat(usable*0.55, 4.5, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(usable*0.45, 4.5, value, "", 1, "R", false, 0, "")
}

func rule(pdf *gofpdf.Fpdf, usable float64) {
	pdf.SetLineWidth(0.2)
	y := pdf.GetY()
	pdf.Line(ticketMargin, y, ticketMargin+usable, y)
	pdf.Ln(1.5)
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
