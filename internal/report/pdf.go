package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/argentis/internal/common"
)

// Footer is printed at the bottom of every page and report.
const Footer = "© 2025 Argentis Investment - Tous droits réservés"

var columnWidths = []float64{30, 45, 40, 65}

// Service renders reports to PDF.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new report service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// RenderPDF renders the report table to a PDF byte slice.
func (s *Service) RenderPDF(rows []Row, generatedAt time.Time) ([]byte, error) {
	s.logger.Debug().Int("rows", len(rows)).Msg("Rendering report PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Rapport d'investissement", true)
	pdf.SetAuthor("Argentis Investment", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(136, 136, 136)
		pdf.CellFormat(0, 5, tr(Footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, tr("Argentis Investment"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(31, 31, 31)
	pdf.CellFormat(0, 7, tr("Rapport d'investissement"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Généré le "+generatedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(26, 117, 255)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range Headers {
		pdf.CellFormat(columnWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(31, 31, 31)
	pdf.SetFillColor(248, 249, 250)
	for n, r := range rows {
		cells := r.Cells()
		cells[1] = common.FormatMoney(r.Price)
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(columnWidths[i], 7, tr(c), "1", 0, align, n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.Ln(4)
		pdf.CellFormat(0, 7, tr("Aucune donnée disponible pour générer un rapport."), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("Report PDF generated")
	return buf.Bytes(), nil
}
