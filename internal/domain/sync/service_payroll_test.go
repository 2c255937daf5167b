package sync

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"hrsync/internal/localstore"
)

func createPayroll(t *testing.T, f *fixture, input CreatePayrollInput) *PayrollData {
	t.Helper()
	row, err := f.svc.CreatePayroll(context.Background(), f.sess, input)
	if err != nil {
		t.Fatalf("create payroll: %v", err)
	}
	return row
}

func TestCreatePayrollDerivesNetPay(t *testing.T) {
	f := newFixture(t)

	row := createPayroll(t, f, CreatePayrollInput{
		EmployeeName: "Jane Doe",
		Salary:       5000,
		Bonus:        500,
		Deductions:   750,
	})
	if row.NetPay != 4750 {
		t.Fatalf("expected net pay 4750, got %v", row.NetPay)
	}
	if row.Status != PayrollStatusDraft {
		t.Fatalf("expected draft status by default, got %q", row.Status)
	}
}

func TestListRecomputesStaleNetPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row := createPayroll(t, f, CreatePayrollInput{EmployeeName: "Jane Doe", Salary: 5000})

	// Corrupt the derived value directly in the store.
	var rows []PayrollData
	if err := f.local.Read(ctx, "user-1", localstore.KindPayroll, &rows); err != nil {
		t.Fatalf("read: %v", err)
	}
	rows[0].NetPay = 1
	if err := f.local.Write(ctx, "user-1", localstore.KindPayroll, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	listed, err := f.svc.ListPayroll(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listed[0].NetPay != 5000 {
		t.Fatalf("expected recomputed net pay 5000, got %v", listed[0].NetPay)
	}

	// Recomputation is persisted, not just returned.
	payload := f.local.data["user-1:"+string(localstore.KindPayroll)]
	var persisted []PayrollData
	if err := json.Unmarshal(payload, &persisted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if persisted[0].NetPay != 5000 {
		t.Fatalf("expected persisted net pay 5000, got %v", persisted[0].NetPay)
	}
	_ = row
}

func TestProcessPayroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row := createPayroll(t, f, CreatePayrollInput{EmployeeName: "Jane Doe", Salary: 5000})
	if err := f.svc.ProcessPayroll(ctx, f.sess, row.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	rows, err := f.svc.ListPayroll(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := rows[0]
	if got.Status != PayrollStatusPaid {
		t.Fatalf("expected paid status, got %q", got.Status)
	}
	if got.PaymentDate != "2025-06-01" {
		t.Fatalf("expected payment date stamped, got %q", got.PaymentDate)
	}
}

func TestDeletePayrollUsesTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row := createPayroll(t, f, CreatePayrollInput{EmployeeName: "Jane Doe", Salary: 5000})
	if err := f.svc.DeletePayroll(ctx, f.sess, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, err := f.svc.ListPayroll(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no payroll rows, got %+v", rows)
	}

	items, err := f.svc.DeletedItems(ctx, f.sess)
	if err != nil {
		t.Fatalf("deleted items: %v", err)
	}
	if len(items) != 1 || items[0].EntityType != ModulePayroll {
		t.Fatalf("expected payroll wrapper, got %+v", items)
	}
}

func TestExportPayslipPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	row := createPayroll(t, f, CreatePayrollInput{
		EmployeeName: "Jane Doe",
		Position:     "Dev",
		Salary:       5000,
		Bonus:        250,
		Deductions:   100,
	})

	dir := t.TempDir()
	path, err := f.svc.ExportPayslipPDF(ctx, f.sess, row.ID, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat payslip: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty payslip file")
	}
}
