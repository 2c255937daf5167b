package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"hrsync/internal/session"
)

// ExportPayslipPDF renders one payroll row as a payslip PDF under dir and
// returns the file path.
func (s *Service) ExportPayslipPDF(ctx context.Context, sess *session.Session, id, dir string) (string, error) {
	rows, err := s.ListPayroll(ctx, sess)
	if err != nil {
		return "", err
	}

	var row *PayrollData
	for i := range rows {
		if rows[i].ID == id {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return "", ErrNotFound
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, row.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", row.EmployeeName))
	pdf.Ln(7)
	if row.Position != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Position: %s", row.Position))
		pdf.Ln(7)
	}
	if row.PaymentDate != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Payment date: %s", row.PaymentDate))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", row.Status))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Salary: %.2f", row.Salary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", row.Bonus))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", row.Deductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", row.NetPay))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
