// Package tools serves the converter and calculator pages and their JSON API.
package tools

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/converter"
)

// Field is one input of a financial calculator form.
type Field struct {
	Name    string
	Label   string
	Unit    string
	Default string
}

// Financial describes a financial calculator page.
type Financial struct {
	Slug        string
	Title       string
	Description string
	Fields      []Field
	run         func(in *inputs) (Outcome, error)
}

// Figure is one labelled number of a calculation.
type Figure struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScheduleRow is one month of a loan amortisation schedule.
type ScheduleRow struct {
	Month     int    `json:"month"`
	Payment   string `json:"payment"`
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
	Balance   string `json:"balance"`
}

// Outcome is what a calculator page and the JSON API show.
type Outcome struct {
	Calculator string        `json:"calculator"`
	Figures    []Figure      `json:"figures"`
	Schedule   []ScheduleRow `json:"schedule,omitempty"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

var financials = map[string]Financial{
	"loan-emi": {
		Slug: "loan-emi", Title: "Loan EMI calculator",
		Description: "Monthly installment, total interest and the full amortisation schedule.",
		Fields: []Field{
			{Name: "principal", Label: "Loan amount"},
			{Name: "rate", Label: "Interest rate", Unit: "% per year"},
			{Name: "months", Label: "Tenure", Unit: "months", Default: "12"},
		},
		run: func(in *inputs) (Outcome, error) {
			res, err := calculator.LoanEMI(in.decimal("principal"), in.decimal("rate"), in.integer("months"))
			if err != nil {
				return Outcome{}, err
			}
			out := Outcome{Figures: []Figure{
				{"emi", "Monthly installment", money(res.EMI)},
				{"total_interest", "Total interest", money(res.TotalInterest)},
				{"total_payment", "Total payment", money(res.TotalPayment)},
			}}
			out.Schedule = make([]ScheduleRow, 0, len(res.Schedule))
			for _, row := range res.Schedule {
				out.Schedule = append(out.Schedule, ScheduleRow{
					Month:     row.Month,
					Payment:   money(row.Payment),
					Principal: money(row.Principal),
					Interest:  money(row.Interest),
					Balance:   money(row.Balance),
				})
			}
			return out, nil
		},
	},
	"simple-interest": {
		Slug: "simple-interest", Title: "Simple interest calculator",
		Description: "Interest earned on a principal at a flat annual rate.",
		Fields: []Field{
			{Name: "principal", Label: "Principal"},
			{Name: "rate", Label: "Interest rate", Unit: "% per year"},
			{Name: "years", Label: "Time", Unit: "years", Default: "1"},
		},
		run: func(in *inputs) (Outcome, error) {
			res, err := calculator.SimpleInterest(in.decimal("principal"), in.decimal("rate"), in.decimal("years"))
			if err != nil {
				return Outcome{}, err
			}
			return interestOutcome(res), nil
		},
	},
	"compound-interest": {
		Slug: "compound-interest", Title: "Compound interest calculator",
		Description: "Maturity amount with interest compounded several times a year.",
		Fields: []Field{
			{Name: "principal", Label: "Principal"},
			{Name: "rate", Label: "Interest rate", Unit: "% per year"},
			{Name: "years", Label: "Time", Unit: "years", Default: "1"},
			{Name: "frequency", Label: "Compounded", Unit: "times per year", Default: "12"},
		},
		run: func(in *inputs) (Outcome, error) {
			res, err := calculator.CompoundInterest(in.decimal("principal"), in.decimal("rate"), in.decimal("years"), in.integer("frequency"))
			if err != nil {
				return Outcome{}, err
			}
			return interestOutcome(res), nil
		},
	},
	"sip": {
		Slug: "sip", Title: "SIP calculator",
		Description: "Future value of a monthly systematic investment plan.",
		Fields: []Field{
			{Name: "monthly", Label: "Monthly investment"},
			{Name: "rate", Label: "Expected return", Unit: "% per year"},
			{Name: "months", Label: "Duration", Unit: "months", Default: "120"},
		},
		run: func(in *inputs) (Outcome, error) {
			res, err := calculator.SIP(in.decimal("monthly"), in.decimal("rate"), in.integer("months"))
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Figures: []Figure{
				{"invested", "Amount invested", money(res.Invested)},
				{"gains", "Estimated returns", money(res.Gains)},
				{"future_value", "Future value", money(res.FutureValue)},
			}}, nil
		},
	},
	"discount": {
		Slug: "discount", Title: "Discount calculator",
		Description: "Final price and savings after a percentage discount.",
		Fields: []Field{
			{Name: "price", Label: "Original price"},
			{Name: "percent", Label: "Discount", Unit: "%"},
		},
		run: func(in *inputs) (Outcome, error) {
			res, err := calculator.Discount(in.decimal("price"), in.decimal("percent"))
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Figures: []Figure{
				{"savings", "You save", money(res.Savings)},
				{"final_price", "Final price", money(res.FinalPrice)},
			}}, nil
		},
	},
}

func interestOutcome(res calculator.InterestResult) Outcome {
	return Outcome{Figures: []Figure{
		{"interest", "Interest", money(res.Interest)},
		{"amount", "Total amount", money(res.Amount)},
	}}
}

// Financials lists the financial calculators sorted by slug.
func Financials() []Financial {
	out := make([]Financial, 0, len(financials))
	for _, f := range financials {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// LookupFinancial returns the financial calculator registered under slug.
func LookupFinancial(slug string) (Financial, bool) {
	f, ok := financials[slug]
	return f, ok
}

// inputs parses raw form values lazily and remembers the first failure.
type inputs struct {
	fields map[string]Field
	raw    map[string]string
	err    error
}

func newInputs(fields []Field, raw map[string]string) *inputs {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &inputs{fields: byName, raw: raw}
}

func (in *inputs) value(name string) (string, bool) {
	v := strings.ReplaceAll(strings.TrimSpace(in.raw[name]), ",", "")
	if v == "" {
		v = in.fields[name].Default
	}
	if v == "" {
		in.fail(fmt.Errorf("%w: %s is required", calculator.ErrInvalidInput, strings.ToLower(in.fields[name].Label)))
		return "", false
	}
	return v, true
}

func (in *inputs) fail(err error) {
	if in.err == nil {
		in.err = err
	}
}

func (in *inputs) decimal(name string) decimal.Decimal {
	raw, ok := in.value(name)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		in.fail(fmt.Errorf("%w: %s must be a number", calculator.ErrInvalidInput, strings.ToLower(in.fields[name].Label)))
		return decimal.Zero
	}
	return d
}

func (in *inputs) integer(name string) int {
	raw, ok := in.value(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		in.fail(fmt.Errorf("%w: %s must be a whole number", calculator.ErrInvalidInput, strings.ToLower(in.fields[name].Label)))
		return 0
	}
	return n
}

// Calculate runs a financial calculator over raw form values. Blank fields
// fall back to the field default.
func Calculate(slug string, raw map[string]string) (Outcome, error) {
	f, ok := financials[slug]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", calculator.ErrUnknownFormula, slug)
	}
	in := newInputs(f.Fields, raw)
	// run reads every input first, so a parse failure wins over a domain error
	out, err := f.run(in)
	if in.err != nil {
		return Outcome{}, in.err
	}
	if err != nil {
		return Outcome{}, err
	}
	out.Calculator = slug
	return out, nil
}

// Evaluate runs a physics formula over raw form values.
func Evaluate(slug string, raw map[string]string) (calculator.PhysicsResult, Outcome, error) {
	f, err := calculator.LookupFormula(slug)
	if err != nil {
		return calculator.PhysicsResult{}, Outcome{}, err
	}
	values := make(map[string]float64, len(f.Inputs))
	for _, input := range f.Inputs {
		s := strings.TrimSpace(raw[input.Name])
		if s == "" {
			continue
		}
		v, err := converter.ParseValue(s)
		if errors.Is(err, converter.ErrInvalidNumber) {
			return calculator.PhysicsResult{}, Outcome{}, fmt.Errorf("%w: %s must be a number", calculator.ErrInvalidInput, strings.ToLower(input.Label))
		}
		values[input.Name] = v
	}
	res, err := calculator.Evaluate(slug, values)
	if err != nil {
		return calculator.PhysicsResult{}, Outcome{}, err
	}
	return res, Outcome{
		Calculator: slug,
		Figures:    []Figure{{Key: "value", Label: f.ResultName, Value: converter.Format(res.Value) + " " + f.ResultUnit}},
	}, nil
}
