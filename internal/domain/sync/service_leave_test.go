package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hrsync/internal/domain/activity"
)

func createLeave(t *testing.T, f *fixture, name, start, end string) *LeaveRequest {
	t.Helper()
	request, err := f.svc.CreateLeaveRequest(context.Background(), f.sess, CreateLeaveInput{
		EmployeeName: name,
		LeaveType:    "Annual",
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		t.Fatalf("create leave: %v", err)
	}
	return request
}

func TestLeaveStartsPending(t *testing.T) {
	f := newFixture(t)

	request := createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")
	if request.Status != LeaveStatusPending {
		t.Fatalf("expected pending status, got %q", request.Status)
	}
}

func TestApproveLeaveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	request := createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")
	if err := f.svc.UpdateLeaveStatus(ctx, f.sess, request.ID, LeaveStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	requests, err := f.svc.ListLeaveRequests(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 1 || requests[0].Status != LeaveStatusApproved {
		t.Fatalf("expected approved request, got %+v", requests)
	}

	entries, err := f.logger.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	newest := entries[0]
	if newest.Action != activity.ActionUpdate {
		t.Fatalf("expected update action, got %q", newest.Action)
	}
	if !strings.Contains(newest.Description, "Approved") {
		t.Fatalf("expected description to mention approval, got %q", newest.Description)
	}
}

func TestRejectLeaveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	request := createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")
	if err := f.svc.UpdateLeaveStatus(ctx, f.sess, request.ID, LeaveStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	requests, err := f.svc.ListLeaveRequests(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if requests[0].Status != LeaveStatusRejected {
		t.Fatalf("expected rejected status, got %q", requests[0].Status)
	}
}

func TestUpdateLeaveStatusRejectsArbitraryStatus(t *testing.T) {
	f := newFixture(t)

	request := createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")
	err := f.svc.UpdateLeaveStatus(context.Background(), f.sess, request.ID, "cancelled")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateLeaveStatusUnknownID(t *testing.T) {
	f := newFixture(t)

	err := f.svc.UpdateLeaveStatus(context.Background(), f.sess, "missing", LeaveStatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteLeaveRequestUsesTrash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	request := createLeave(t, f, "John Doe", "2023-06-01", "2023-06-05")
	if err := f.svc.DeleteLeaveRequest(ctx, f.sess, request.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	requests, err := f.svc.ListLeaveRequests(ctx, f.sess)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("expected no requests, got %+v", requests)
	}

	items, err := f.svc.DeletedItems(ctx, f.sess)
	if err != nil {
		t.Fatalf("deleted items: %v", err)
	}
	if len(items) != 1 || items[0].EntityType != ModuleLeave {
		t.Fatalf("expected leave wrapper in trash, got %+v", items)
	}

	if err := f.svc.Restore(ctx, f.sess, request.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	requests, err = f.svc.ListLeaveRequests(ctx, f.sess)
	if err != nil {
		t.Fatalf("list after restore: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != request.ID {
		t.Fatalf("expected restored request, got %+v", requests)
	}
}
