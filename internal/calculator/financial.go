// Package calculator holds the financial and physics calculators.
package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput reports a calculator input outside its domain.
	ErrInvalidInput = errors.New("calculator: invalid input")
	// ErrUnknownFormula reports a physics formula slug without an implementation.
	ErrUnknownFormula = errors.New("calculator: unknown formula")
)

// UserMessage returns the part of a calculator error that is meant for the
// reader, without the package prefix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnknownFormula) {
		return "Unknown calculator."
	}
	if rest, ok := strings.CutPrefix(err.Error(), ErrInvalidInput.Error()+": "); ok && rest != "" {
		return strings.ToUpper(rest[:1]) + rest[1:]
	}
	return "Please check the values you entered."
}

const (
	moneyPlaces = 2
	// growthPlaces keeps compounding exact well past the cent.
	growthPlaces = 24

	maxMonths           = 1200
	maxYears            = 100
	maxCompoundsPerYear = 365
)

var (
	one        = decimal.NewFromInt(1)
	hundred    = decimal.NewFromInt(100)
	twelve     = decimal.NewFromInt(12)
	maxRatePct = decimal.NewFromInt(1000)
)

// growth returns base^n for a whole n, rounding each product so the digit
// count stays bounded.
func growth(base decimal.Decimal, n int64) decimal.Decimal {
	result := one
	for sq := base; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(sq).Round(growthPlaces)
		}
		if n > 1 {
			sq = sq.Mul(sq).Round(growthPlaces)
		}
	}
	return result
}

func checkRate(ratePct decimal.Decimal) error {
	if ratePct.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", ErrInvalidInput)
	}
	if ratePct.GreaterThan(maxRatePct) {
		return fmt.Errorf("%w: rate cannot exceed %s%%", ErrInvalidInput, maxRatePct)
	}
	return nil
}

// Installment is a single row of an amortisation schedule.
type Installment struct {
	Month     int
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}

// LoanResult summarises an equated monthly installment loan.
type LoanResult struct {
	Principal     decimal.Decimal
	AnnualRatePct decimal.Decimal
	Months        int
	EMI           decimal.Decimal
	TotalPayment  decimal.Decimal
	TotalInterest decimal.Decimal
	Schedule      []Installment
}

// LoanEMI computes the monthly installment P*r*(1+r)^n / ((1+r)^n - 1).
// A zero rate degrades to P/n.
func LoanEMI(principal, annualRatePct decimal.Decimal, months int) (LoanResult, error) {
	if principal.Sign() <= 0 {
		return LoanResult{}, fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	}
	if err := checkRate(annualRatePct); err != nil {
		return LoanResult{}, err
	}
	if months <= 0 || months > 600 {
		return LoanResult{}, fmt.Errorf("%w: tenure must be between 1 and 600 months", ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(months))
	monthlyRate := annualRatePct.Div(hundred).Div(twelve)

	var emi decimal.Decimal
	if monthlyRate.IsZero() {
		emi = principal.Div(n)
	} else {
		g := growth(one.Add(monthlyRate), int64(months))
		emi = principal.Mul(monthlyRate).Mul(g).Div(g.Sub(one))
	}
	emi = emi.Round(moneyPlaces)

	schedule := make([]Installment, 0, months)
	balance := principal
	totalInterest := decimal.Zero
	totalPayment := decimal.Zero
	for m := 1; m <= months; m++ {
		interest := balance.Mul(monthlyRate).Round(moneyPlaces)
		payment := emi
		principalPart := payment.Sub(interest)
		if m == months || principalPart.GreaterThan(balance) {
			// last installment absorbs rounding drift
			principalPart = balance
			payment = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)
		totalInterest = totalInterest.Add(interest)
		totalPayment = totalPayment.Add(payment)
		schedule = append(schedule, Installment{
			Month:     m,
			Payment:   payment,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return LoanResult{
		Principal:     principal,
		AnnualRatePct: annualRatePct,
		Months:        months,
		EMI:           emi,
		TotalPayment:  totalPayment,
		TotalInterest: totalInterest,
		Schedule:      schedule,
	}, nil
}

// InterestResult is returned by the simple and compound interest calculators.
type InterestResult struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Amount    decimal.Decimal
}

// SimpleInterest computes P*R*T/100.
func SimpleInterest(principal, ratePct, years decimal.Decimal) (InterestResult, error) {
	if principal.IsNegative() || ratePct.IsNegative() || years.IsNegative() {
		return InterestResult{}, fmt.Errorf("%w: values cannot be negative", ErrInvalidInput)
	}
	interest := principal.Mul(ratePct).Mul(years).Div(hundred).Round(moneyPlaces)
	return InterestResult{
		Principal: principal,
		Interest:  interest,
		Amount:    principal.Add(interest),
	}, nil
}

// CompoundInterest computes P*(1+r/n)^(n*t). Fractional periods use a
// decimal power for the remainder.
func CompoundInterest(principal, ratePct, years decimal.Decimal, compoundsPerYear int) (InterestResult, error) {
	if principal.IsNegative() || years.IsNegative() {
		return InterestResult{}, fmt.Errorf("%w: values cannot be negative", ErrInvalidInput)
	}
	if err := checkRate(ratePct); err != nil {
		return InterestResult{}, err
	}
	if years.GreaterThan(decimal.NewFromInt(maxYears)) {
		return InterestResult{}, fmt.Errorf("%w: years cannot exceed %d", ErrInvalidInput, maxYears)
	}
	if compoundsPerYear <= 0 || compoundsPerYear > maxCompoundsPerYear {
		return InterestResult{}, fmt.Errorf("%w: compounding frequency must be between 1 and %d", ErrInvalidInput, maxCompoundsPerYear)
	}

	n := decimal.NewFromInt(int64(compoundsPerYear))
	base := one.Add(ratePct.Div(hundred).Div(n))
	periods := n.Mul(years)
	whole := periods.Floor()
	factor := growth(base, whole.IntPart())
	if frac := periods.Sub(whole); !frac.IsZero() {
		part, err := base.PowWithPrecision(frac, growthPlaces)
		if err != nil {
			return InterestResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		factor = factor.Mul(part)
	}

	amount := principal.Mul(factor).Round(moneyPlaces)
	return InterestResult{
		Principal: principal,
		Interest:  amount.Sub(principal),
		Amount:    amount,
	}, nil
}

// SIPResult summarises a systematic investment plan.
type SIPResult struct {
	Invested    decimal.Decimal
	FutureValue decimal.Decimal
	Gains       decimal.Decimal
}

// SIP computes the future value of monthly contributions paid at the start
// of each month: P * ((1+i)^n - 1) / i * (1+i).
func SIP(monthly, annualRatePct decimal.Decimal, months int) (SIPResult, error) {
	if monthly.Sign() <= 0 {
		return SIPResult{}, fmt.Errorf("%w: monthly amount must be positive", ErrInvalidInput)
	}
	if err := checkRate(annualRatePct); err != nil {
		return SIPResult{}, err
	}
	if months <= 0 || months > maxMonths {
		return SIPResult{}, fmt.Errorf("%w: duration must be between 1 and %d months", ErrInvalidInput, maxMonths)
	}
	invested := monthly.Mul(decimal.NewFromInt(int64(months)))
	i := annualRatePct.Div(hundred).Div(twelve)

	var future decimal.Decimal
	if i.IsZero() {
		future = invested
	} else {
		g := growth(one.Add(i), int64(months))
		future = monthly.Mul(g.Sub(one)).Div(i).Mul(one.Add(i))
	}
	future = future.Round(moneyPlaces)
	return SIPResult{
		Invested:    invested,
		FutureValue: future,
		Gains:       future.Sub(invested),
	}, nil
}

// DiscountResult is the price after applying a percentage coupon.
type DiscountResult struct {
	Price      decimal.Decimal
	Percent    decimal.Decimal
	Savings    decimal.Decimal
	FinalPrice decimal.Decimal
}

// Discount applies percent off price.
func Discount(price, percent decimal.Decimal) (DiscountResult, error) {
	if price.IsNegative() {
		return DiscountResult{}, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return DiscountResult{}, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}
	savings := price.Mul(percent).Div(hundred).Round(moneyPlaces)
	return DiscountResult{
		Price:      price,
		Percent:    percent,
		Savings:    savings,
		FinalPrice: price.Sub(savings),
	}, nil
}
