package converter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var index = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Slug] = c
	}
	return m
}()

// Categories returns every converter sorted by slug.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Lookup returns the category table for slug.
func Lookup(slug string) (Category, error) {
	c, ok := index[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, slug)
	}
	return c, nil
}

// ParseValue parses a user supplied number. Thousands separators are ignored.
func ParseValue(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// Convert expresses value, given in unit from, in unit to.
func Convert(category string, value float64, from, to string) (Result, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, ErrInvalidNumber
	}
	c, err := Lookup(category)
	if err != nil {
		return Result{}, err
	}
	fromUnit, ok := c.Unit(from)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%s", ErrUnknownUnit, c.Slug, from)
	}
	toUnit, ok := c.Unit(to)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%s", ErrUnknownUnit, c.Slug, to)
	}

	output := value
	if fromUnit.Symbol != toUnit.Symbol {
		output = toUnit.FromBase(fromUnit.ToBase(value))
	}
	if math.IsNaN(output) || math.IsInf(output, 0) {
		return Result{}, fmt.Errorf("%w: %s %s in %s", ErrOutOfRange, Format(value), fromUnit.Symbol, toUnit.Symbol)
	}
	return Result{
		Category:  c.Slug,
		Value:     value,
		From:      fromUnit,
		To:        toUnit,
		Output:    output,
		Formatted: Format(output),
	}, nil
}

// ConvertString parses raw and converts it.
func ConvertString(category, raw, from, to string) (Result, error) {
	v, err := ParseValue(raw)
	if err != nil {
		return Result{}, err
	}
	return Convert(category, v, from, to)
}

// Table expresses value in every unit of the category, in table order.
func Table(category string, value float64, from string) ([]Row, error) {
	c, err := Lookup(category)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(c.Units))
	for _, u := range c.Units {
		res, err := Convert(c.Slug, value, from, u.Symbol)
		switch {
		case errors.Is(err, ErrOutOfRange):
			rows = append(rows, Row{Unit: u, Formatted: "out of range"})
			continue
		case err != nil:
			return nil, err
		}
		rows = append(rows, Row{Unit: u, Value: res.Output, Formatted: res.Formatted})
	}
	return rows, nil
}

// Format renders v with at most 10 significant digits and no trailing zeros.
// Very small and very large magnitudes use exponent notation.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	if abs < 1e-6 || abs >= 1e15 {
		s := strconv.FormatFloat(v, 'e', 9, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		if strings.Contains(mantissa, ".") {
			mantissa = strings.TrimRight(strings.TrimRight(mantissa, "0"), ".")
		}
		return mantissa + "e" + exp
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', 9, 64), 64)
	if err != nil {
		rounded = v
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
