package remote

import (
	"time"

	"hrsync/internal/domain/sync"
)

// EmployeeRow is the remote table shape. It diverges from the public
// entity (snake_case columns, flat layout), so the translation lives in
// exactly one bidirectional pair: RowFromEmployee and EmployeeFromRow.
type EmployeeRow struct {
	ID         string
	OwnerID    string
	Name       string
	Position   string
	Department string
	Email      string
	Phone      string

	DateOfBirth   string
	Gender        string
	MaritalStatus string
	Nationality   string
	Address       string
	City          string
	Country       string
	PostalCode    string

	EmployeeNumber string
	EmploymentType string
	StartDate      string
	EndDate        string
	Status         string
	Manager        string
	WorkLocation   string

	Salary       float64
	Currency     string
	BankAccount  string
	TaxID        string
	PayFrequency string

	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string

	HealthInsurance string
	PensionPlan     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func RowFromEmployee(emp sync.Employee) EmployeeRow {
	return EmployeeRow{
		ID:         emp.ID,
		OwnerID:    emp.OwnerID,
		Name:       emp.Name,
		Position:   emp.Position,
		Department: emp.Department,
		Email:      emp.Email,
		Phone:      emp.Phone,

		DateOfBirth:   emp.DateOfBirth,
		Gender:        emp.Gender,
		MaritalStatus: emp.MaritalStatus,
		Nationality:   emp.Nationality,
		Address:       emp.Address,
		City:          emp.City,
		Country:       emp.Country,
		PostalCode:    emp.PostalCode,

		EmployeeNumber: emp.EmployeeNumber,
		EmploymentType: emp.EmploymentType,
		StartDate:      emp.StartDate,
		EndDate:        emp.EndDate,
		Status:         emp.Status,
		Manager:        emp.Manager,
		WorkLocation:   emp.WorkLocation,

		Salary:       emp.Salary,
		Currency:     emp.Currency,
		BankAccount:  emp.BankAccount,
		TaxID:        emp.TaxID,
		PayFrequency: emp.PayFrequency,

		EmergencyContactName:     emp.EmergencyContactName,
		EmergencyContactPhone:    emp.EmergencyContactPhone,
		EmergencyContactRelation: emp.EmergencyContactRelation,

		HealthInsurance: emp.HealthInsurance,
		PensionPlan:     emp.PensionPlan,

		CreatedAt: emp.CreatedAt,
		UpdatedAt: emp.UpdatedAt,
	}
}

func EmployeeFromRow(row EmployeeRow) sync.Employee {
	return sync.Employee{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Name:       row.Name,
		Position:   row.Position,
		Department: row.Department,
		Email:      row.Email,
		Phone:      row.Phone,

		DateOfBirth:   row.DateOfBirth,
		Gender:        row.Gender,
		MaritalStatus: row.MaritalStatus,
		Nationality:   row.Nationality,
		Address:       row.Address,
		City:          row.City,
		Country:       row.Country,
		PostalCode:    row.PostalCode,

		EmployeeNumber: row.EmployeeNumber,
		EmploymentType: row.EmploymentType,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Status:         row.Status,
		Manager:        row.Manager,
		WorkLocation:   row.WorkLocation,

		Salary:       row.Salary,
		Currency:     row.Currency,
		BankAccount:  row.BankAccount,
		TaxID:        row.TaxID,
		PayFrequency: row.PayFrequency,

		EmergencyContactName:     row.EmergencyContactName,
		EmergencyContactPhone:    row.EmergencyContactPhone,
		EmergencyContactRelation: row.EmergencyContactRelation,

		HealthInsurance: row.HealthInsurance,
		PensionPlan:     row.PensionPlan,

		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
