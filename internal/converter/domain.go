// Package converter implements the unit converters behind the /converters pages.
//
// Every converter is a Category: a conversion factor table expressed against a
// single base unit. A value is converted by lifting it into the base unit and
// lowering it into the target unit.
package converter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNumber reports input that is not a finite number.
	ErrInvalidNumber = errors.New("converter: please enter a valid number")
	// ErrUnknownCategory reports a category slug without a table.
	ErrUnknownCategory = errors.New("converter: unknown category")
	// ErrUnknownUnit reports a unit symbol missing from the category table.
	ErrUnknownUnit = errors.New("converter: unknown unit")
	// ErrOutOfRange reports a finite input whose converted value is not.
	ErrOutOfRange = fmt.Errorf("%w: the result is out of range", ErrInvalidNumber)
)

// Unit is one row of a conversion factor table.
//
// base = value*Factor + Offset. Offset is only non-zero for temperature.
type Unit struct {
	Symbol string
	Name   string
	Factor float64
	Offset float64
}

// ToBase lifts v into the category base unit.
func (u Unit) ToBase(v float64) float64 {
	return v*u.Factor + u.Offset
}

// FromBase lowers a base-unit value into u.
func (u Unit) FromBase(v float64) float64 {
	return (v - u.Offset) / u.Factor
}

// Category is a named conversion factor table.
type Category struct {
	Slug        string
	Title       string
	Description string
	Base        string
	Units       []Unit
}

// Unit returns the unit with the given symbol. An exact match wins; otherwise
// a case-insensitive match is accepted when only one unit qualifies, so "KM"
// finds km while "BPS" stays ambiguous between Bps and bps.
func (c Category) Unit(symbol string) (Unit, bool) {
	symbol = strings.TrimSpace(symbol)
	var folded []Unit
	for _, u := range c.Units {
		if u.Symbol == symbol {
			return u, true
		}
		if strings.EqualFold(u.Symbol, symbol) {
			folded = append(folded, u)
		}
	}
	if len(folded) == 1 {
		return folded[0], true
	}
	return Unit{}, false
}

// Row is a single entry of the "all conversions" table.
type Row struct {
	Unit      Unit
	Value     float64
	Formatted string
}

// Result is the outcome of a single conversion.
type Result struct {
	Category  string
	Value     float64
	From      Unit
	To        Unit
	Output    float64
	Formatted string
}
