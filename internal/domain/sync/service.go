package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"hrsync/internal/bus"
	"hrsync/internal/domain/activity"
	"hrsync/internal/localstore"
	"hrsync/internal/session"
)

// Change is the payload published on the event bus for every mutation.
type Change struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Name   string `json:"name"`
}

// Service arbitrates between the remote gateway and the local fallback
// store. Employee reads and writes try the remote first and fall back on
// any failure; leave and payroll live only in the local store. Remote
// failures are logged and swallowed, never surfaced: a single failed
// attempt triggers immediate fallback, with no retry.
type Service struct {
	remote   RemoteGateway
	local    CollectionStore
	log      *activity.Logger
	bus      *bus.Bus
	validate *validator.Validate
	now      func() time.Time
}

func NewService(remote RemoteGateway, local CollectionStore, log *activity.Logger, eventBus *bus.Bus) *Service {
	return &Service{
		remote:   remote,
		local:    local,
		log:      log,
		bus:      eventBus,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) userID(sess *session.Session) (string, error) {
	id, ok := sess.UserID()
	if !ok {
		return "", ErrNoSession
	}
	return id, nil
}

// EnsureUser seeds the local collections for sess's user on first use and
// records the one-time welcome entry. Called after sign-in.
func (s *Service) EnsureUser(ctx context.Context, sess *session.Session) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}
	first, err := s.local.Seed(ctx, userID)
	if err != nil {
		return err
	}
	if first {
		if err := s.log.Append(ctx, userID, activity.ActionCreate, ModuleEmployees, "Welcome! Your workspace is ready."); err != nil {
			slog.Warn("welcome entry failed", "err", err)
		}
	}
	return nil
}

// ListActivity returns the user's activity log, newest first.
func (s *Service) ListActivity(ctx context.Context, sess *session.Session) ([]activity.Entry, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}
	return s.log.List(ctx, userID)
}

func (s *Service) checkInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var issues validator.ValidationErrors
	if !errors.As(err, &issues) {
		return err
	}
	fields := make([]string, 0, len(issues))
	for _, issue := range issues {
		fields = append(fields, issue.Field())
	}
	return &ValidationError{Fields: fields}
}

func (s *Service) publish(topic bus.Topic, action, id, name string) {
	s.bus.Publish(topic, Change{Action: action, ID: id, Name: name})
}

// PageStatus is the payload published on the page-load topics.
type PageStatus struct {
	Module   string `json:"module"`
	Fallback bool   `json:"fallback"`
}

// ListEmployees reads from the remote gateway and falls back to the local
// store on error or an empty result. When the remote is reachable but
// empty while local rows exist, each local row is pushed up best-effort;
// the push is non-transactional and partial failure is not rolled back.
func (s *Service) ListEmployees(ctx context.Context, sess *session.Session) ([]Employee, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	remoteRows, remoteErr := s.remote.ListEmployees(ctx, userID)
	if remoteErr != nil {
		slog.Warn("remote employee list failed", "err", remoteErr)
		local, err := s.readLocalEmployees(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.bus.Publish(bus.TopicPageLoadFailed, PageStatus{Module: ModuleEmployees, Fallback: true})
		return local, nil
	}

	if len(remoteRows) > 0 {
		if err := s.local.Write(ctx, userID, localstore.KindEmployees, remoteRows); err != nil {
			slog.Warn("employee cache write failed", "err", err)
		}
		s.bus.Publish(bus.TopicPageLoaded, PageStatus{Module: ModuleEmployees})
		return remoteRows, nil
	}

	local, err := s.readLocalEmployees(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, emp := range local {
		if err := s.remote.InsertEmployee(ctx, sess.Token(), emp); err != nil {
			slog.Warn("employee push-up failed", "id", emp.ID, "err", err)
		}
	}
	s.bus.Publish(bus.TopicPageLoaded, PageStatus{Module: ModuleEmployees})
	return local, nil
}

// CreateEmployee validates required fields before any I/O, then inserts
// remotely; a remote failure lands the row in the local store under the
// same generated id so the id space stays consistent between stores.
func (s *Service) CreateEmployee(ctx context.Context, sess *session.Session, input CreateEmployeeInput) (*Employee, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	emp := employeeFromInput(input)
	emp.ID = uuid.NewString()
	emp.OwnerID = userID
	emp.CreatedAt = now
	emp.UpdatedAt = now

	description := "Added employee " + emp.Name
	if err := s.remote.InsertEmployee(ctx, sess.Token(), emp); err != nil {
		slog.Warn("remote employee insert failed", "id", emp.ID, "err", err)
		if err := s.appendLocalEmployee(ctx, userID, emp); err != nil {
			return nil, err
		}
		description += " (local only)"
	}

	if err := s.log.Append(ctx, userID, activity.ActionCreate, ModuleEmployees, description); err != nil {
		slog.Warn("activity append failed", "err", err)
	}
	s.publish(bus.TopicEmployeeChanged, activity.ActionCreate, emp.ID, emp.Name)
	return &emp, nil
}

// UpdateEmployee replaces the row remotely, or in the local store when the
// remote fails or has no matching row. Last writer wins in both stores.
func (s *Service) UpdateEmployee(ctx context.Context, sess *session.Session, emp Employee) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}
	emp.OwnerID = userID
	emp.UpdatedAt = s.now().UTC()

	matched, remoteErr := s.remote.UpdateEmployee(ctx, sess.Token(), emp)
	if remoteErr != nil {
		slog.Warn("remote employee update failed", "id", emp.ID, "err", remoteErr)
	}
	if remoteErr != nil || !matched {
		if err := s.replaceLocalEmployee(ctx, userID, emp); err != nil {
			return err
		}
	}

	if err := s.log.Append(ctx, userID, activity.ActionUpdate, ModuleEmployees, "Updated employee "+emp.Name); err != nil {
		slog.Warn("activity append failed", "err", err)
	}
	s.publish(bus.TopicEmployeeChanged, activity.ActionUpdate, emp.ID, emp.Name)
	return nil
}

// DeleteEmployee snapshots the entity into the deleted-items buffer before
// any deletion path runs, so a crash between snapshot and deletion can at
// worst duplicate the snapshot but never lose the row.
func (s *Service) DeleteEmployee(ctx context.Context, sess *session.Session, id string) error {
	userID, err := s.userID(sess)
	if err != nil {
		return err
	}

	emp, err := s.findEmployee(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.snapshotDeleted(ctx, userID, ModuleEmployees, emp.ID, emp); err != nil {
		return err
	}

	matched, remoteErr := s.remote.DeleteEmployee(ctx, sess.Token(), userID, id)
	if remoteErr != nil {
		slog.Warn("remote employee delete failed", "id", id, "err", remoteErr)
	}
	if remoteErr != nil || !matched {
		if err := s.removeLocalEmployee(ctx, userID, id); err != nil {
			return err
		}
	}

	if err := s.log.Append(ctx, userID, activity.ActionDelete, ModuleEmployees, "Deleted employee "+emp.Name); err != nil {
		slog.Warn("activity append failed", "err", err)
	}
	s.publish(bus.TopicEmployeeChanged, activity.ActionDelete, id, emp.Name)
	return nil
}

func (s *Service) findEmployee(ctx context.Context, sess *session.Session, id string) (*Employee, error) {
	userID, err := s.userID(sess)
	if err != nil {
		return nil, err
	}

	remoteRows, remoteErr := s.remote.ListEmployees(ctx, userID)
	if remoteErr != nil {
		slog.Warn("remote employee lookup failed", "id", id, "err", remoteErr)
	} else {
		for i := range remoteRows {
			if remoteRows[i].ID == id {
				return &remoteRows[i], nil
			}
		}
	}

	local, err := s.readLocalEmployees(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range local {
		if local[i].ID == id {
			return &local[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) readLocalEmployees(ctx context.Context, userID string) ([]Employee, error) {
	var rows []Employee
	if err := s.local.Read(ctx, userID, localstore.KindEmployees, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) appendLocalEmployee(ctx context.Context, userID string, emp Employee) error {
	rows, err := s.readLocalEmployees(ctx, userID)
	if err != nil {
		return err
	}
	rows = append(rows, emp)
	return s.local.Write(ctx, userID, localstore.KindEmployees, rows)
}

func (s *Service) replaceLocalEmployee(ctx context.Context, userID string, emp Employee) error {
	rows, err := s.readLocalEmployees(ctx, userID)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].ID == emp.ID {
			rows[i] = emp
			return s.local.Write(ctx, userID, localstore.KindEmployees, rows)
		}
	}
	return ErrNotFound
}

func (s *Service) removeLocalEmployee(ctx context.Context, userID, id string) error {
	rows, err := s.readLocalEmployees(ctx, userID)
	if err != nil {
		return err
	}
	kept := rows[:0]
	for _, row := range rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	return s.local.Write(ctx, userID, localstore.KindEmployees, kept)
}

func (s *Service) snapshotDeleted(ctx context.Context, userID, entityType, id string, entity any) error {
	snapshot, err := json.Marshal(entity)
	if err != nil {
		return err
	}

	var items []DeletedItem
	if err := s.local.Read(ctx, userID, localstore.KindDeleted, &items); err != nil {
		return err
	}

	now := s.now().UTC()
	items = append(items, DeletedItem{
		ID:         id,
		EntityType: entityType,
		Snapshot:   snapshot,
		DeletedAt:  now,
		DeletedBy:  userID,
		ExpiresAt:  now.Add(RetentionWindow),
	})
	return s.local.Write(ctx, userID, localstore.KindDeleted, items)
}

func employeeFromInput(input CreateEmployeeInput) Employee {
	return Employee{
		Name:       input.Name,
		Position:   input.Position,
		Department: input.Department,
		Email:      input.Email,
		Phone:      input.Phone,

		DateOfBirth:   input.DateOfBirth,
		Gender:        input.Gender,
		MaritalStatus: input.MaritalStatus,
		Nationality:   input.Nationality,
		Address:       input.Address,
		City:          input.City,
		Country:       input.Country,
		PostalCode:    input.PostalCode,

		EmployeeNumber: input.EmployeeNumber,
		EmploymentType: input.EmploymentType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         input.Status,
		Manager:        input.Manager,
		WorkLocation:   input.WorkLocation,

		Salary:       input.Salary,
		Currency:     input.Currency,
		BankAccount:  input.BankAccount,
		TaxID:        input.TaxID,
		PayFrequency: input.PayFrequency,

		EmergencyContactName:     input.EmergencyContactName,
		EmergencyContactPhone:    input.EmergencyContactPhone,
		EmergencyContactRelation: input.EmergencyContactRelation,

		HealthInsurance: input.HealthInsurance,
		PensionPlan:     input.PensionPlan,
	}
}
