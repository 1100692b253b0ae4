package report

import (
	"encoding/csv" // CSV writer
	"errors"       // Sentinel errors
	"fmt"          // String formatting
	"io"           // Output writers
	"time"         // Export timestamps

	"github.com/go-pdf/fpdf"        // PDF generation
	"github.com/shopspring/decimal" // Fixed-point amount rendering
)

// Export formats
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ErrNothingToExport is returned when the window selected no rows
var ErrNothingToExport = errors.New("no transactions found for the selected filters")

// CSVHeader is the first row of every CSV export
var CSVHeader = []string{"Type", "Date", "Name", "Category", "Description", "Amount"}

// Filename returns the attachment name for an export generated at t
func Filename(format string, t time.Time) string {
	return "financial-report-" + t.Format("2006-01-02") + "." + format
}

func formatAmount(a float64) string {
	return decimal.NewFromFloat(a).StringFixed(2)
}

// WriteCSV writes expense rows followed by income rows
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, rows := range [][]Item{r.Expenses, r.Incomes} {
		for _, it := range rows {
			record := []string{
				it.Type,
				it.Date.Format("2006-01-02"),
				it.Name,
				it.Category,
				it.Description,
				formatAmount(it.Amount),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePDF renders the report as an A4 document. categoryLabel names the
// expense filter in the subtitle.
func WritePDF(w io.Writer, r *Report, categoryLabel string, generatedAt time.Time) error {
	if r.Empty() {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // Core fonts are cp1252
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, "Generated on "+generatedAt.Format("Jan 02, 2006 at 03:04 PM"), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	subtitle := fmt.Sprintf("%s - %s | %s", r.Window.From.Format("Jan 02, 2006"), r.Window.To.Format("Jan 02, 2006"), categoryLabel)
	pdf.CellFormat(0, 8, tr(subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, title, "B", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	s := r.Summary
	section("Financial Summary")
	summary := [][2]string{
		{"Total Income", formatAmount(s.TotalIncome)},
		{"Total Expenses", formatAmount(s.TotalExpense)},
		{"Net Balance", formatAmount(s.NetBalance)},
		{"Avg Income", formatAmount(s.AverageIncome)},
		{"Avg Expense", formatAmount(s.AverageExpense)},
		{"Top Categories", s.TopIncomeCategory + " / " + s.TopExpenseCategory},
	}
	for _, row := range summary {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(60, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	table := func(title string, items []Item, red, green, blue int) {
		if len(items) == 0 {
			return
		}
		section(title)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		for _, h := range []string{"Date", "Category", "Amount"} {
			pdf.CellFormat(60, 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, it := range items {
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(60, 7, it.Date.Format("Jan 02, 2006"), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, tr(it.Category), "1", 0, "L", false, 0, "")
			pdf.SetTextColor(red, green, blue)
			pdf.CellFormat(60, 7, formatAmount(it.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}
	table("Income", r.Incomes, 34, 160, 80)
	table("Expenses", r.Expenses, 220, 60, 60)

	return pdf.Output(w)
}
