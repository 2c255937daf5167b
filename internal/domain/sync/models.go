package sync

import (
	"encoding/json"
	"time"
)

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

const (
	PayrollStatusPaid       = "paid"
	PayrollStatusPending    = "pending"
	PayrollStatusProcessing = "processing"
	PayrollStatusDraft      = "draft"
)

const (
	ModuleEmployees = "employees"
	ModuleLeave     = "leave"
	ModulePayroll   = "payroll"
)

// RetentionWindow is how long a deleted item stays restorable before it is
// pruned from the buffer.
const RetentionWindow = 15 * 24 * time.Hour

type Employee struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`

	// Personal.
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	Gender        string `json:"gender,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`

	// Employment.
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	Status         string `json:"status,omitempty"`
	Manager        string `json:"manager,omitempty"`
	WorkLocation   string `json:"workLocation,omitempty"`

	// Compensation.
	Salary       float64 `json:"salary,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	BankAccount  string  `json:"bankAccount,omitempty"`
	TaxID        string  `json:"taxId,omitempty"`
	PayFrequency string  `json:"payFrequency,omitempty"`

	// Emergency contact.
	EmergencyContactName     string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone    string `json:"emergencyContactPhone,omitempty"`
	EmergencyContactRelation string `json:"emergencyContactRelation,omitempty"`

	// Benefits.
	HealthInsurance string `json:"healthInsurance,omitempty"`
	PensionPlan     string `json:"pensionPlan,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateEmployeeInput carries the fields accepted on creation. Name,
// position, department and email are required; everything else is optional.
type CreateEmployeeInput struct {
	Name       string `json:"name" validate:"required"`
	Position   string `json:"position" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`

	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Nationality   string `json:"nationality"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Country       string `json:"country"`
	PostalCode    string `json:"postalCode"`

	EmployeeNumber string `json:"employeeNumber"`
	EmploymentType string `json:"employmentType"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Status         string `json:"status"`
	Manager        string `json:"manager"`
	WorkLocation   string `json:"workLocation"`

	Salary       float64 `json:"salary"`
	Currency     string  `json:"currency"`
	BankAccount  string  `json:"bankAccount"`
	TaxID        string  `json:"taxId"`
	PayFrequency string  `json:"payFrequency"`

	EmergencyContactName     string `json:"emergencyContactName"`
	EmergencyContactPhone    string `json:"emergencyContactPhone"`
	EmergencyContactRelation string `json:"emergencyContactRelation"`

	HealthInsurance string `json:"healthInsurance"`
	PensionPlan     string `json:"pensionPlan"`
}

// LeaveRequest lives only in the local store; the employee name is
// denormalized text, not a foreign key.
type LeaveRequest struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employeeName"`
	LeaveType    string    `json:"leaveType"`
	Status       string    `json:"status"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PayrollData lives only in the local store. NetPay is derived and
// recomputed opportunistically on every read.
type PayrollData struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employeeName"`
	EmployeeID   string    `json:"employeeId"`
	Position     string    `json:"position,omitempty"`
	Salary       float64   `json:"salary"`
	Bonus        float64   `json:"bonus"`
	Deductions   float64   `json:"deductions"`
	NetPay       float64   `json:"netPay"`
	PaymentDate  string    `json:"paymentDate,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NetPay derives the payable amount for one period.
func (p PayrollData) ComputeNetPay() float64 {
	return p.Salary + p.Bonus - p.Deductions
}

// DeletedItem wraps a soft-deleted entity. The wrapper keeps the entity's
// own id, so restore addresses the same id the delete did.
type DeletedItem struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	Snapshot   json.RawMessage `json:"snapshot"`
	DeletedAt  time.Time       `json:"deletedAt"`
	DeletedBy  string          `json:"deletedBy"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

func (d DeletedItem) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}
