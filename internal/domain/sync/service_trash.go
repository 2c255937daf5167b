package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"hrsync/internal/bus"
	"hrsync/internal/domain/activity"
	"hrsync/internal/localstore"
	"hrsync/internal/session"
)

// DeletedItems returns the restorable buffer, pruning entries past their
// retention expiry on every read. Pruning is idempotent; expired entries
// are silently excluded, never reported as errors.
func (s *Service) DeletedItems(ctx context.Context, sess *session.Session) ([]DeletedItem, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	var items []DeletedItem
	if err := s.local.Read(ctx, userID, localstore.KindDeleted, &items); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	kept := items[:0]
	for _, item := range items {
		if !item.Expired(now) {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(items) {
		if err := s.local.Write(ctx, userID, localstore.KindDeleted, kept); err != nil {
			slog.Warn("deleted-items prune write failed", "err", err)
		}
	}
	return kept, nil
}

// Restore re-inserts a deleted snapshot into its originating store and
// removes the wrapper. Employee snapshots try the remote first and fall
// back to the local store, same as a fresh create.
func (s *Service) Restore(ctx context.Context, sess *session.Session, id string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	items, err := s.DeletedItems(ctx, sess)
	if err != nil {
		return err
	}

	for i, item := range items {
		if item.ID != id {
			continue
		}

		name, err := s.restoreSnapshot(ctx, sess, userID, item)
		if err != nil {
			return err
		}

		items = append(items[:i], items[i+1:]...)
		if err := s.local.Write(ctx, userID, localstore.KindDeleted, items); err != nil {
			return err
		}

		if err := s.log.Append(ctx, userID, activity.ActionRestore, item.EntityType, "Restored "+name); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *Service) restoreSnapshot(ctx context.Context, sess *session.Session, userID string, item DeletedItem) (string, error) {
	switch item.EntityType {
	case ModuleEmployees:
		var emp Employee
		if err := json.Unmarshal(item.Snapshot, &emp); err != nil {
			return "", err
		}
		if err := s.remote.InsertEmployee(ctx, sess.Token(), emp); err != nil {
			slog.Warn("remote employee restore failed", "id", emp.ID, "err", err)
			if err := s.appendLocalEmployee(ctx, userID, emp); err != nil {
				return "", err
			}
		}
		s.publish(bus.TopicEmployeeChanged, activity.ActionRestore, emp.ID, emp.Name)
		return "employee " + emp.Name, nil

	case ModuleLeave:
		var request LeaveRequest
		if err := json.Unmarshal(item.Snapshot, &request); err != nil {
			return "", err
		}
		requests, err := s.readLocalLeave(ctx, userID)
		if err != nil {
			return "", err
		}
		requests = append(requests, request)
		if err := s.local.Write(ctx, userID, localstore.KindLeave, requests); err != nil {
			return "", err
		}
		s.publish(bus.TopicLeaveChanged, activity.ActionRestore, request.ID, request.EmployeeName)
		return "leave request for " + request.EmployeeName, nil

	case ModulePayroll:
		var row PayrollData
		if err := json.Unmarshal(item.Snapshot, &row); err != nil {
			return "", err
		}
		rows, err := s.readLocalPayroll(ctx, userID)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
		if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
			return "", err
		}
		s.publish(bus.TopicPayrollChanged, activity.ActionRestore, row.ID, row.EmployeeName)
		return "payroll for " + row.EmployeeName, nil
	}
	return "", ErrNotFound
}
