package store

import (
	"errors"
	"fmt"

	"github.com/saae/almox/internal/models"
)

// MovementInput contains data for recording a stock movement. ID, date,
// time and the item snapshot fields are filled in by the store.
type MovementInput struct {
	Kind          models.MovementKind
	ItemCode      string `validate:"required"`
	Quantity      int    `validate:"gt=0"`
	Responsible   string `validate:"required"`
	Sector        string
	InvoiceNumber string
	Supplier      string
	Note          string
}

// Validate checks required fields and the movement kind.
func (in MovementInput) Validate() error {
	var errs []error
	if err := models.ValidateStruct(in); err != nil {
		errs = append(errs, err)
	}
	if !in.Kind.Valid() {
		errs = append(errs, fmt.Errorf("invalid movement kind: %q", in.Kind))
	}
	return errors.Join(errs...)
}

// NewUser contains data for registering a user.
type NewUser struct {
	Name   string
	Email  string
	Role   models.Role
	Sector string
	Status models.UserStatus // defaults to Active
}

// NewAlert contains data for raising an alert by hand.
type NewAlert struct {
	Kind            models.AlertKind
	Priority        models.AlertPriority
	Title           string
	Description     string
	RelatedItemCode string
	RelatedPumpID   string
	Responsible     string
	Status          models.AlertStatus // defaults to Pending
}

// AlertFilter narrows an alert listing. Zero values match everything.
type AlertFilter struct {
	Title    string
	Status   models.AlertStatus
	Priority models.AlertPriority
}

func (f AlertFilter) matches(a models.Alert) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	return a.MatchesTitle(f.Title)
}
