package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrsync/internal/domain/sync"
)

// ChangeChannel is the pg_notify channel carrying employee row changes.
const ChangeChannel = "employee_changes"

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Notification is the change-stream payload published after every
// successful mutation. Origin carries the mutating session's token so
// subscribers can drop echoes of their own writes.
type Notification struct {
	Op          string `json:"op"`
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	DisplayName string `json:"displayName"`
	Origin      string `json:"origin"`
}

// Gateway is the remote boundary: row CRUD on the employees table, always
// filtered by owner. It is the only entity with true server-side
// persistence; leave and payroll never pass through here.
type Gateway struct {
	DB *pgxpool.Pool
}

func NewGateway(db *pgxpool.Pool) *Gateway {
	return &Gateway{DB: db}
}

const employeeColumns = `
  id, owner_id, name, position, department, email, phone,
  date_of_birth, gender, marital_status, nationality, address, city, country, postal_code,
  employee_number, employment_type, start_date, end_date, status, manager, work_location,
  salary, currency, bank_account, tax_id, pay_frequency,
  emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
  health_insurance, pension_plan, created_at, updated_at`

func (g *Gateway) ListEmployees(ctx context.Context, ownerID string) ([]sync.Employee, error) {
	rows, err := g.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE owner_id = $1
    ORDER BY created_at, id
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sync.Employee
	for rows.Next() {
		var row EmployeeRow
		err := rows.Scan(
			&row.ID, &row.OwnerID, &row.Name, &row.Position, &row.Department, &row.Email, &row.Phone,
			&row.DateOfBirth, &row.Gender, &row.MaritalStatus, &row.Nationality, &row.Address, &row.City, &row.Country, &row.PostalCode,
			&row.EmployeeNumber, &row.EmploymentType, &row.StartDate, &row.EndDate, &row.Status, &row.Manager, &row.WorkLocation,
			&row.Salary, &row.Currency, &row.BankAccount, &row.TaxID, &row.PayFrequency,
			&row.EmergencyContactName, &row.EmergencyContactPhone, &row.EmergencyContactRelation,
			&row.HealthInsurance, &row.PensionPlan, &row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, EmployeeFromRow(row))
	}
	return out, rows.Err()
}

// InsertEmployee writes the row if its id is not already present; an
// existing id is skipped silently, which is what the push-up path relies
// on.
func (g *Gateway) InsertEmployee(ctx context.Context, origin string, emp sync.Employee) error {
	row := RowFromEmployee(emp)
	tag, err := g.DB.Exec(ctx, `
    INSERT INTO employees (`+employeeColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34)
    ON CONFLICT (id) DO NOTHING
  `,
		row.ID, row.OwnerID, row.Name, row.Position, row.Department, row.Email, row.Phone,
		row.DateOfBirth, row.Gender, row.MaritalStatus, row.Nationality, row.Address, row.City, row.Country, row.PostalCode,
		row.EmployeeNumber, row.EmploymentType, row.StartDate, row.EndDate, row.Status, row.Manager, row.WorkLocation,
		row.Salary, row.Currency, row.BankAccount, row.TaxID, row.PayFrequency,
		row.EmergencyContactName, row.EmergencyContactPhone, row.EmergencyContactRelation,
		row.HealthInsurance, row.PensionPlan, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		g.notify(ctx, Notification{Op: OpInsert, ID: emp.ID, OwnerID: emp.OwnerID, DisplayName: emp.Name, Origin: origin})
	}
	return nil
}

// UpdateEmployee replaces the row matched by id and owner. A false result
// with nil error means no remote row matched.
func (g *Gateway) UpdateEmployee(ctx context.Context, origin string, emp sync.Employee) (bool, error) {
	row := RowFromEmployee(emp)
	tag, err := g.DB.Exec(ctx, `
    UPDATE employees SET
      name = $3, position = $4, department = $5, email = $6, phone = $7,
      date_of_birth = $8, gender = $9, marital_status = $10, nationality = $11,
      address = $12, city = $13, country = $14, postal_code = $15,
      employee_number = $16, employment_type = $17, start_date = $18, end_date = $19,
      status = $20, manager = $21, work_location = $22,
      salary = $23, currency = $24, bank_account = $25, tax_id = $26, pay_frequency = $27,
      emergency_contact_name = $28, emergency_contact_phone = $29, emergency_contact_relation = $30,
      health_insurance = $31, pension_plan = $32, updated_at = $33
    WHERE id = $1 AND owner_id = $2
  `,
		row.ID, row.OwnerID,
		row.Name, row.Position, row.Department, row.Email, row.Phone,
		row.DateOfBirth, row.Gender, row.MaritalStatus, row.Nationality,
		row.Address, row.City, row.Country, row.PostalCode,
		row.EmployeeNumber, row.EmploymentType, row.StartDate, row.EndDate,
		row.Status, row.Manager, row.WorkLocation,
		row.Salary, row.Currency, row.BankAccount, row.TaxID, row.PayFrequency,
		row.EmergencyContactName, row.EmergencyContactPhone, row.EmergencyContactRelation,
		row.HealthInsurance, row.PensionPlan, row.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	matched := tag.RowsAffected() > 0
	if matched {
		g.notify(ctx, Notification{Op: OpUpdate, ID: emp.ID, OwnerID: emp.OwnerID, DisplayName: emp.Name, Origin: origin})
	}
	return matched, nil
}

func (g *Gateway) DeleteEmployee(ctx context.Context, origin, ownerID, id string) (bool, error) {
	var name string
	err := g.DB.QueryRow(ctx, `
    SELECT name FROM employees WHERE id = $1 AND owner_id = $2
  `, id, ownerID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	tag, err := g.DB.Exec(ctx, `
    DELETE FROM employees WHERE id = $1 AND owner_id = $2
  `, id, ownerID)
	if err != nil {
		return false, err
	}
	matched := tag.RowsAffected() > 0
	if matched {
		g.notify(ctx, Notification{Op: OpDelete, ID: id, OwnerID: ownerID, DisplayName: name, Origin: origin})
	}
	return matched, nil
}

func (g *Gateway) notify(ctx context.Context, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		slog.Warn("change notification marshal failed", "err", err)
		return
	}
	if _, err := g.DB.Exec(ctx, "SELECT pg_notify($1, $2)", ChangeChannel, string(payload)); err != nil {
		slog.Warn("change notification publish failed", "err", err)
	}
}
