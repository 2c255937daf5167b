package sync

import (
	"context"
	"strings"
	"testing"
)

func TestImportLeaveSkipsOverlappingRange(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ImportLeaveRequests(context.Background(), f.sess, []CreateLeaveInput{
		{EmployeeName: "John Doe", LeaveType: "Annual", StartDate: "2023-06-01", EndDate: "2023-06-05"},
		{EmployeeName: "John Doe", LeaveType: "Annual", StartDate: "2023-06-03", EndDate: "2023-06-07"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("expected 1 added, got %d", result.Added)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "duplicate") {
		t.Fatalf("expected overlapping row reported as duplicate, got %+v", result.Skipped)
	}

	requests, err := f.svc.ListLeaveRequests(context.Background(), f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected only one request stored, got %d", len(requests))
	}
}

func TestImportLeaveAllowsDisjointRanges(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ImportLeaveRequests(context.Background(), f.sess, []CreateLeaveInput{
		{EmployeeName: "John Doe", LeaveType: "Annual", StartDate: "2023-06-01", EndDate: "2023-06-05"},
		{EmployeeName: "John Doe", LeaveType: "Annual", StartDate: "2023-06-06", EndDate: "2023-06-08"},
		{EmployeeName: "Jane Doe", LeaveType: "Annual", StartDate: "2023-06-03", EndDate: "2023-06-07"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 3 || len(result.Skipped) != 0 {
		t.Fatalf("expected all rows added, got %+v", result)
	}
}

func TestImportLeaveChecksExistingRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")

	result, err := f.svc.ImportLeaveRequests(ctx, f.sess, []CreateLeaveInput{
		{EmployeeName: "john doe", LeaveType: "Annual", StartDate: "2023-06-05", EndDate: "2023-06-09"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 0 || len(result.Skipped) != 1 {
		t.Fatalf("expected overlap with stored request detected, got %+v", result)
	}
}

func TestImportEmployeesSkipsCaseInsensitiveDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateEmployee(ctx, f.sess, validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := f.svc.ImportEmployees(ctx, f.sess, []CreateEmployeeInput{
		{Name: "JANE DOE", Position: "Dev", Department: "Eng", Email: "Jane@X.com"},
		{Name: "Sam Lee", Position: "PM", Department: "Product", Email: "sam@x.com"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("expected 1 added, got %d", result.Added)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "duplicate") {
		t.Fatalf("expected duplicate reported, got %+v", result.Skipped)
	}
}

func TestImportEmployeesReportsInvalidRows(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ImportEmployees(context.Background(), f.sess, []CreateEmployeeInput{
		{Name: "No Email", Position: "Dev", Department: "Eng"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Added != 0 || len(result.Skipped) != 1 {
		t.Fatalf("expected invalid row skipped, got %+v", result)
	}
}
