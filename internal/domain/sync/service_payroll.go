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

type CreatePayrollInput struct {
	EmployeeName string  `json:"employeeName" validate:"required"`
	EmployeeID   string  `json:"employeeId"`
	Position     string  `json:"position"`
	Salary       float64 `json:"salary"`
	Bonus        float64 `json:"bonus"`
	Deductions   float64 `json:"deductions"`
	PaymentDate  string  `json:"paymentDate"`
	Status       string  `json:"status"`
}

// ListPayroll reads the local payroll collection and recomputes net pay on
// the way out. Stale derived values are corrected and persisted
// best-effort.
func (s *Service) ListPayroll(ctx context.Context, sess *session.Session) ([]PayrollData, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	rows, err := s.readLocalPayroll(ctx, userID)
	if err != nil {
		return nil, err
	}

	stale := false
	for i := range rows {
		if expected := rows[i].ComputeNetPay(); rows[i].NetPay != expected {
			rows[i].NetPay = expected
			stale = true
		}
	}
	if stale {
		if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
			slog.Warn("payroll recompute write failed", "err", err)
		}
	}
	return rows, nil
}

func (s *Service) CreatePayroll(ctx context.Context, sess *session.Session, input CreatePayrollInput) (*PayrollData, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = PayrollStatusDraft
	}
	row := PayrollData{
		ID:           uuid.NewString(),
		EmployeeName: input.EmployeeName,
		EmployeeID:   input.EmployeeID,
		Position:     input.Position,
		Salary:       input.Salary,
		Bonus:        input.Bonus,
		Deductions:   input.Deductions,
		PaymentDate:  input.PaymentDate,
		Status:       status,
		CreatedAt:    s.now().UTC(),
	}
	row.NetPay = row.ComputeNetPay()

	rows, err := s.readLocalPayroll(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows = append(rows, row)
	if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
		return nil, err
	}

	if err := s.log.Append(ctx, userID, activity.ActionCreate, ModulePayroll, "Added payroll for "+row.EmployeeName); err != nil {
		slog.Warn("activity append failed", "err", err)
	}
	s.publish(bus.TopicPayrollChanged, activity.ActionCreate, row.ID, row.EmployeeName)
	return &row, nil
}

func (s *Service) UpdatePayroll(ctx context.Context, sess *session.Session, row PayrollData) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}
	row.NetPay = row.ComputeNetPay()

	rows, err := s.readLocalPayroll(ctx, userID)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].ID != row.ID {
			continue
		}
		rows[i] = row
		if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
			return err
		}

		if err := s.log.Append(ctx, userID, activity.ActionUpdate, ModulePayroll, "Updated payroll for "+row.EmployeeName); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		s.publish(bus.TopicPayrollChanged, activity.ActionUpdate, row.ID, row.EmployeeName)
		return nil
	}
	return ErrNotFound
}

// ProcessPayroll marks a row paid and stamps the payment date.
func (s *Service) ProcessPayroll(ctx context.Context, sess *session.Session, id string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	rows, err := s.readLocalPayroll(ctx, userID)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		rows[i].Status = PayrollStatusPaid
		rows[i].PaymentDate = s.now().UTC().Format("2006-01-02")
		rows[i].NetPay = rows[i].ComputeNetPay()
		if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
			return err
		}

		if err := s.log.Append(ctx, userID, activity.ActionProcess, ModulePayroll, "Processed payroll for "+rows[i].EmployeeName); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		s.publish(bus.TopicPayrollChanged, activity.ActionProcess, id, rows[i].EmployeeName)
		return nil
	}
	return ErrNotFound
}

func (s *Service) DeletePayroll(ctx context.Context, sess *session.Session, id string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	rows, err := s.readLocalPayroll(ctx, userID)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if row.ID != id {
			continue
		}
		if err := s.snapshotDeleted(ctx, userID, ModulePayroll, row.ID, row); err != nil {
			return err
		}
		rows = append(rows[:i], rows[i+1:]...)
		if err := s.local.Write(ctx, userID, localstore.KindPayroll, rows); err != nil {
			return err
		}

		if err := s.log.Append(ctx, userID, activity.ActionDelete, ModulePayroll, "Deleted payroll for "+row.EmployeeName); err != nil {
			slog.Warn("activity append failed", "err", err)
		}
		s.publish(bus.TopicPayrollChanged, activity.ActionDelete, id, row.EmployeeName)
		return nil
	}
	return ErrNotFound
}

func (s *Service) readLocalPayroll(ctx context.Context, userID string) ([]PayrollData, error) {
	var rows []PayrollData
	if err := s.local.Read(ctx, userID, localstore.KindPayroll, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
