package sync

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"hrsync/internal/bus"
	"hrsync/internal/domain/activity"
	"hrsync/internal/localstore"
	"hrsync/internal/session"
)

// CreateLeaveInput carries the fields accepted when submitting a request.
// Status is not accepted: every request starts pending.
type CreateLeaveInput struct {
	EmployeeName string `json:"employeeName" validate:"required"`
	LeaveType    string `json:"leaveType" validate:"required"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	Reason       string `json:"reason"`
}

// Leave requests never touch the remote gateway; the local store is their
// only home.
func (s *Service) ListLeaveRequests(ctx context.Context, sess *session.Session) ([]LeaveRequest, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}
	return s.readLocalLeave(ctx, userID)
}

func (s *Service) CreateLeaveRequest(ctx context.Context, sess *session.Session, input CreateLeaveInput) (*LeaveRequest, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	request := LeaveRequest{
		ID:           uuid.NewString(),
		EmployeeName: input.EmployeeName,
		LeaveType:    input.LeaveType,
		Status:       LeaveStatusPending,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Reason:       input.Reason,
		CreatedAt:    s.now().UTC(),
	}

	requests, err := s.readLocalLeave(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests = append(requests, request)
	if err := s.local.Write(ctx, userID, localstore.KindLeave, requests); err != nil {
		return nil, err
	}

	if err := s.log.Append(ctx, userID, activity.ActionCreate, ModuleLeave, "Submitted leave request for "+request.EmployeeName); err != nil {
		slog.Warn("activity append failed", "err", err)
	}
	s.publish(bus.TopicLeaveChanged, activity.ActionCreate, request.ID, request.EmployeeName)
	return &request, nil
}

// UpdateLeaveStatus applies an explicit approve or reject decision. Any
// other status is a validation failure.
func (s *Service) UpdateLeaveStatus(ctx context.Context, sess *session.Session, id, status string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}
	if status != LeaveStatusApproved && status != LeaveStatusRejected {
		return &ValidationError{Fields: []string{"status"}}
	}

	requests, err := s.readLocalLeave(ctx, userID)
	if err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID != id {
			continue
		}
		requests[i].Status = status
		if err := s.local.Write(ctx, userID, localstore.KindLeave, requests); err != nil {
			return err
		}

		description := "Approved leave request for " + requests[i].EmployeeName
		if status == LeaveStatusRejected {
			description = "Rejected leave request for " + requests[i].EmployeeName
		}
		if err := s.log.Append(ctx, userID, activity.ActionUpdate, ModuleLeave, description); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		s.publish(bus.TopicLeaveChanged, activity.ActionUpdate, id, requests[i].EmployeeName)
		return nil
	}
	return ErrNotFound
}

// DeleteLeaveRequest moves the request into the deleted-items buffer.
func (s *Service) DeleteLeaveRequest(ctx context.Context, sess *session.Session, id string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	requests, err := s.readLocalLeave(ctx, userID)
	if err != nil {
		return err
	}
	for i, request := range requests {
		if request.ID != id {
			continue
		}
		if err := s.snapshotDeleted(ctx, userID, ModuleLeave, request.ID, request); err != nil {
			return err
		}
		requests = append(requests[:i], requests[i+1:]...)
		if err := s.local.Write(ctx, userID, localstore.KindLeave, requests); err != nil {
			return err
		}

		if err := s.log.Append(ctx, userID, activity.ActionDelete, ModuleLeave, "Deleted leave request for "+request.EmployeeName); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		s.publish(bus.TopicLeaveChanged, activity.ActionDelete, id, request.EmployeeName)
		return nil
	}
	return ErrNotFound
}

func (s *Service) readLocalLeave(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	if err := s.local.Read(ctx, userID, localstore.KindLeave, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
