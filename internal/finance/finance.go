// Package finance holds the pure money math shared by both storage backends:
// compound interest for investments and amortization for savings goals.
package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

const (
	daysPerMonth  = 30
	monthsPerYear = 12
	daysPerYear   = 365
)

// periodsPerYear maps a compounding frequency to compounding periods.
func periodsPerYear(f models.CompoundingFrequency) float64 {
	switch f {
	case models.CompoundDaily:
		return 365
	case models.CompoundMonthly:
		return 12
	case models.CompoundQuarterly:
		return 4
	case models.CompoundSemiAnnual:
		return 2
	default:
		return 1
	}
}

// CompoundInterest returns principal compounded at the given annual percent
// rate for the given number of years.
func CompoundInterest(principal decimal.Decimal, annualRate float64, freq models.CompoundingFrequency, years float64) decimal.Decimal {
	p, _ := principal.Float64()
	n := periodsPerYear(freq)
	r := annualRate / 100
	return decimal.NewFromFloat(p * math.Pow(1+r/n, n*years))
}

// CurrentValue computes the compounded value of an investment as of now.
// Before the start date the initial amount is returned unchanged.
func CurrentValue(inv *models.Investment, now time.Time) decimal.Decimal {
	years := now.Sub(inv.StartDate).Hours() / 24 / daysPerYear
	if years <= 0 {
		return inv.InitialAmount
	}
	return CompoundInterest(inv.InitialAmount, inv.AnnualRate, inv.CompoundingFrequency, years)
}

// MaturityValue computes the value of an investment at the end of its term.
func MaturityValue(inv *models.Investment) decimal.Decimal {
	return CompoundInterest(inv.InitialAmount, inv.AnnualRate, inv.CompoundingFrequency, float64(inv.TermMonths)/monthsPerYear)
}

// DaysToMaturity counts the days remaining until the investment matures,
// rounded up. Negative when already matured.
func DaysToMaturity(inv *models.Investment, now time.Time) int {
	return int(math.Ceil(inv.MaturityDate.Sub(now).Hours() / 24))
}

// TotalReturn computes the absolute and percentage return expected at
// maturity.
func TotalReturn(inv *models.Investment) (decimal.Decimal, float64) {
	maturity := MaturityValue(inv)
	total := maturity.Sub(inv.InitialAmount)
	initial, _ := inv.InitialAmount.Float64()
	ret, _ := total.Float64()
	if initial == 0 {
		return total, 0
	}
	return total, ret / initial * 100
}

// EstimatedCompletion projects the date a savings goal will be reached given
// its monthly contribution, counting from start.
func EstimatedCompletion(current, target, monthlyContribution decimal.Decimal, start time.Time) (time.Time, error) {
	if monthlyContribution.Sign() <= 0 {
		return time.Time{}, fmt.Errorf("monthly contribution must be greater than 0")
	}
	if target.Sign() <= 0 {
		return time.Time{}, fmt.Errorf("target amount must be greater than 0")
	}

	remaining := target.Sub(current)
	if remaining.Sign() <= 0 {
		return start, nil
	}

	monthsExact, _ := remaining.Div(monthlyContribution).Float64()
	wholeMonths := int(math.Floor(monthsExact))
	extraDays := int(math.Floor((monthsExact - float64(wholeMonths)) * daysPerMonth))

	return start.AddDate(0, wholeMonths, extraDays), nil
}

// MonthlyContribution computes the contribution needed to reach the target by
// targetDate, counting from now.
func MonthlyContribution(current, target decimal.Decimal, targetDate, now time.Time) (decimal.Decimal, error) {
	if target.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("target amount must be greater than 0")
	}

	remaining := target.Sub(current)
	if remaining.Sign() <= 0 {
		return decimal.Zero, nil
	}

	months := targetDate.Sub(now).Hours() / 24 / daysPerMonth
	if months <= 0 {
		return decimal.Zero, fmt.Errorf("target date must be in the future")
	}

	return remaining.Div(decimal.NewFromFloat(months)), nil
}

// ApplySavingsAmount applies a new current amount to a goal: the completed
// flag tracks whether the target is reached, and while the goal is unfinished
// and paced by a monthly contribution the target date is re-estimated.
// Both backends route their amount-update path through here.
func ApplySavingsAmount(g *models.SavingsGoal, amount decimal.Decimal) {
	g.CurrentAmount = amount
	g.Completed = amount.GreaterThanOrEqual(g.TargetAmount)

	if !g.Completed && g.MonthlyContribution.Sign() > 0 {
		if estimated, err := EstimatedCompletion(g.CurrentAmount, g.TargetAmount, g.MonthlyContribution, g.StartDate); err == nil {
			g.TargetDate = &estimated
		}
	}
}
