package models

import (
	"errors"
	"fmt"
)

// Role is descriptive only; nothing is enforced from it.
type Role string

const (
	RoleWarehouseClerk Role = "WAREHOUSE_CLERK"
	RoleManager        Role = "MANAGER"
	RoleTechnician     Role = "TECHNICIAN"
	RoleAdministrator  Role = "ADMINISTRATOR"
)

// Roles lists every role in display order.
var Roles = []Role{RoleWarehouseClerk, RoleManager, RoleTechnician, RoleAdministrator}

func (r Role) String() string {
	return string(r)
}

// Valid checks if the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleWarehouseClerk, RoleManager, RoleTechnician, RoleAdministrator:
		return true
	}
	return false
}

// Label returns the human-readable role.
func (r Role) Label() string {
	switch r {
	case RoleWarehouseClerk:
		return "Warehouse Clerk"
	case RoleManager:
		return "Manager"
	case RoleTechnician:
		return "Technician"
	case RoleAdministrator:
		return "Administrator"
	}
	return string(r)
}

// UserStatus represents whether an account is in use.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

func (s UserStatus) String() string {
	return string(s)
}

// Valid checks if the status is a known value.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// User is a person who works with the warehouse.
type User struct {
	ID           string     `json:"id" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Role         Role       `json:"role"`
	Sector       string     `json:"sector" validate:"required"`
	Status       UserStatus `json:"status"`
	LastAccess   string     `json:"lastAccess"`
	RegisteredOn string     `json:"registeredOn"`
}

// IsActive reports whether the user is active.
func (u User) IsActive() bool {
	return u.Status == UserActive
}

// Validate checks required fields and enum values.
func (u User) Validate() error {
	var errs []error
	if err := ValidateStruct(u); err != nil {
		errs = append(errs, err)
	}
	if !u.Role.Valid() {
		errs = append(errs, fmt.Errorf("invalid role: %q", u.Role))
	}
	if !u.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid user status: %q", u.Status))
	}
	return errors.Join(errs...)
}
