package domain

import (
	"github.com/google/uuid"
)

// Role identifies the permission level of an Employee's linked User.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleEmployee   Role = "employee"
)

// Employee is the payroll-facing identity the engine reads. It is owned by
// the users subsystem; the engine only reads it through EmployeeRepository.
type Employee struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Role   Role      `gorm:"type:varchar(50);not null" json:"role"`
	Active bool      `gorm:"default:true;not null" json:"active"`
}
