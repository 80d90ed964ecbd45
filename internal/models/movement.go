package models

import (
	"errors"
	"fmt"
)

// MovementKind distinguishes stock entries from exits.
type MovementKind string

const (
	MovementEntry MovementKind = "ENTRY"
	MovementExit  MovementKind = "EXIT"
)

func (k MovementKind) String() string {
	return string(k)
}

// Valid checks if the kind is a known value.
func (k MovementKind) Valid() bool {
	return k == MovementEntry || k == MovementExit
}

// Label returns the human-readable kind.
func (k MovementKind) Label() string {
	switch k {
	case MovementEntry:
		return "Entry"
	case MovementExit:
		return "Exit"
	}
	return string(k)
}

// Sign returns +1 for entries and -1 for exits.
func (k MovementKind) Sign() int {
	if k == MovementExit {
		return -1
	}
	return 1
}

// Movement is an immutable record of stock entering or leaving.
// ItemName and Unit are snapshots taken when the movement was recorded.
type Movement struct {
	ID            string       `json:"id" validate:"required"`
	Kind          MovementKind `json:"kind"`
	ItemCode      string       `json:"itemCode" validate:"required"`
	ItemName      string       `json:"itemName"`
	Quantity      int          `json:"quantity" validate:"gt=0"`
	Unit          string       `json:"unit"`
	Responsible   string       `json:"responsible" validate:"required"`
	Sector        string       `json:"sector"`
	Date          string       `json:"date" validate:"datetime=2006-01-02"`
	Time          string       `json:"time" validate:"datetime=15:04"`
	InvoiceNumber string       `json:"invoiceNumber,omitempty"`
	Supplier      string       `json:"supplier,omitempty"`
	Note          string       `json:"note"`
}

// Delta is the signed change this movement applies to stock.
func (m Movement) Delta() int {
	return m.Kind.Sign() * m.Quantity
}

// Validate checks required fields and the movement kind.
func (m Movement) Validate() error {
	var errs []error
	if err := ValidateStruct(m); err != nil {
		errs = append(errs, err)
	}
	if !m.Kind.Valid() {
		errs = append(errs, fmt.Errorf("invalid movement kind: %q", m.Kind))
	}
	return errors.Join(errs...)
}
