package leave

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderReportPDF renders the balance report as a one-page PDF and
// returns the document bytes.
func RenderReportPDF(report BalanceReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Balance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (#%d)", report.EmployeeName, report.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", report.Month.String(), report.Year))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Paid quota: %d", report.PaidQuota))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deduction carried in: %.1f", report.Deduction))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Effective quota: %.1f", report.EffectiveQuota))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Paid used: %.1f", report.PaidUsed))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Remaining paid: %.1f", report.RemainingPaid))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Uninformed days this month: %.1f", report.UninformedDays))

	if len(report.FutureDeductions) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Upcoming deductions")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		for _, d := range report.FutureDeductions {
			pdf.Cell(0, 7, fmt.Sprintf("%s %d: -%.1f", d.Month.String(), d.Year, d.Deduction))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
