package models

import (
	"errors"
	"strings"
)

// Item is a stock-keeping unit tracked by code.
type Item struct {
	Code             string `json:"code" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Category         string `json:"category" validate:"required"`
	Unit             string `json:"unit" validate:"required"`
	Supplier         string `json:"supplier"`
	CurrentQty       int    `json:"currentQty" validate:"gte=0"`
	MinQty           int    `json:"minQty" validate:"gte=0"`
	StorageAddress   string `json:"storageAddress"`
	LastMovementDate string `json:"lastMovementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// IsLowStock reports whether the item is at or below its minimum.
func (i Item) IsLowStock() bool {
	return i.CurrentQty <= i.MinQty
}

// IsOutOfStock reports whether nothing is left on the shelf.
func (i Item) IsOutOfStock() bool {
	return i.CurrentQty == 0
}

// Shortfall returns how many units are missing to reach the minimum.
func (i Item) Shortfall() int {
	if i.CurrentQty >= i.MinQty {
		return 0
	}
	return i.MinQty - i.CurrentQty
}

// Validate checks required fields and quantity bounds.
func (i Item) Validate() error {
	if err := ValidateStruct(i); err != nil {
		return err
	}
	if strings.TrimSpace(i.Code) != i.Code {
		return errors.New("code must not have surrounding spaces")
	}
	return nil
}

// MatchesSearch reports whether term occurs in the code or name, ignoring case.
func (i Item) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(i.Code), term) ||
		strings.Contains(strings.ToLower(i.Name), term)
}
