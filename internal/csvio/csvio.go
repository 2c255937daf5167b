// Package csvio reads and writes the fixed bulk-upload column schemas.
// Duplicate handling happens in the sync service, not here.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hrsync/internal/domain/sync"
)

var (
	EmployeeColumns = []string{"name", "position", "department", "email", "phone", "salary"}
	LeaveColumns    = []string{"employeeName", "leaveType", "startDate", "endDate", "reason"}
	PayrollColumns  = []string{"employeeName", "employeeId", "position", "salary", "bonus", "deductions", "paymentDate", "status"}
)

func readAll(r io.Reader, want []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(want) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(want), len(header))
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("expected column %q at position %d, got %q", col, i+1, header[i])
		}
	}
	return reader.ReadAll()
}

func ParseEmployees(r io.Reader) ([]sync.CreateEmployeeInput, error) {
	records, err := readAll(r, EmployeeColumns)
	if err != nil {
		return nil, err
	}
	inputs := make([]sync.CreateEmployeeInput, 0, len(records))
	for i, record := range records {
		salary := 0.0
		if raw := strings.TrimSpace(record[5]); raw != "" {
			salary, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid salary %q", i+2, record[5])
			}
		}
		inputs = append(inputs, sync.CreateEmployeeInput{
			Name:       strings.TrimSpace(record[0]),
			Position:   strings.TrimSpace(record[1]),
			Department: strings.TrimSpace(record[2]),
			Email:      strings.TrimSpace(record[3]),
			Phone:      strings.TrimSpace(record[4]),
			Salary:     salary,
		})
	}
	return inputs, nil
}

func ParseLeave(r io.Reader) ([]sync.CreateLeaveInput, error) {
	records, err := readAll(r, LeaveColumns)
	if err != nil {
		return nil, err
	}
	inputs := make([]sync.CreateLeaveInput, 0, len(records))
	for _, record := range records {
		inputs = append(inputs, sync.CreateLeaveInput{
			EmployeeName: strings.TrimSpace(record[0]),
			LeaveType:    strings.TrimSpace(record[1]),
			StartDate:    strings.TrimSpace(record[2]),
			EndDate:      strings.TrimSpace(record[3]),
			Reason:       strings.TrimSpace(record[4]),
		})
	}
	return inputs, nil
}

// WriteEmployeeTemplate emits the upload header plus one sample row.
func WriteEmployeeTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		EmployeeColumns,
		{"Jane Doe", "Developer", "Engineering", "jane@example.com", "555-0100", "60000"},
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func WriteLeaveTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		LeaveColumns,
		{"Jane Doe", "Annual", "2024-07-01", "2024-07-05", "Summer holiday"},
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func ExportEmployees(w io.Writer, employees []sync.Employee) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(EmployeeColumns); err != nil {
		return err
	}
	for _, emp := range employees {
		record := []string{
			emp.Name, emp.Position, emp.Department, emp.Email, emp.Phone,
			strconv.FormatFloat(emp.Salary, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportLeave(w io.Writer, requests []sync.LeaveRequest) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(LeaveColumns); err != nil {
		return err
	}
	for _, request := range requests {
		record := []string{
			request.EmployeeName, request.LeaveType, request.StartDate, request.EndDate, request.Reason,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportPayroll(w io.Writer, rows []sync.PayrollData) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(PayrollColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.EmployeeName, row.EmployeeID, row.Position,
			strconv.FormatFloat(row.Salary, 'f', -1, 64),
			strconv.FormatFloat(row.Bonus, 'f', -1, 64),
			strconv.FormatFloat(row.Deductions, 'f', -1, 64),
			row.PaymentDate, row.Status,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
