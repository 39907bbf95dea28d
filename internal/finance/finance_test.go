package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCompoundInterestAnnual(t *testing.T) {
	// 1000 at 5% compounded annually for 2 years = 1102.50
	got := CompoundInterest(decimal.NewFromInt(1000), 5, models.CompoundAnnual, 2)
	want := decimal.NewFromFloat(1102.50)
	if got.Sub(want).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("CompoundInterest = %s, want about %s", got, want)
	}
}

func TestCompoundInterestMonthlyBeatsAnnual(t *testing.T) {
	principal := decimal.NewFromInt(1000)
	annual := CompoundInterest(principal, 6, models.CompoundAnnual, 1)
	monthly := CompoundInterest(principal, 6, models.CompoundMonthly, 1)
	if !monthly.GreaterThan(annual) {
		t.Errorf("monthly compounding %s should exceed annual %s", monthly, annual)
	}
}

func TestCurrentValueBeforeStart(t *testing.T) {
	inv := &models.Investment{
		InitialAmount:        decimal.NewFromInt(500),
		AnnualRate:           10,
		StartDate:            date(2030, time.January, 1),
		CompoundingFrequency: models.CompoundMonthly,
	}
	got := CurrentValue(inv, date(2024, time.January, 1))
	if !got.Equal(inv.InitialAmount) {
		t.Errorf("expected the initial amount before the start date, got %s", got)
	}
}

func TestCurrentValueGrowsAfterStart(t *testing.T) {
	inv := &models.Investment{
		InitialAmount:        decimal.NewFromInt(1000),
		AnnualRate:           5,
		StartDate:            date(2024, time.January, 1),
		CompoundingFrequency: models.CompoundAnnual,
	}
	got := CurrentValue(inv, date(2025, time.January, 1))
	if !got.GreaterThan(inv.InitialAmount) {
		t.Errorf("expected growth after a year, got %s", got)
	}
}

func TestDaysToMaturity(t *testing.T) {
	inv := &models.Investment{MaturityDate: date(2024, time.January, 11)}
	if got := DaysToMaturity(inv, date(2024, time.January, 1)); got != 10 {
		t.Errorf("DaysToMaturity = %d, want 10", got)
	}
	if got := DaysToMaturity(inv, date(2024, time.February, 1)); got >= 0 {
		t.Errorf("expected a negative count after maturity, got %d", got)
	}
}

func TestTotalReturn(t *testing.T) {
	inv := &models.Investment{
		InitialAmount:        decimal.NewFromInt(1000),
		AnnualRate:           5,
		TermMonths:           12,
		CompoundingFrequency: models.CompoundAnnual,
	}
	total, pct := TotalReturn(inv)
	if total.Sub(decimal.NewFromInt(50)).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Errorf("expected about 50 absolute return, got %s", total)
	}
	if pct < 4.9 || pct > 5.1 {
		t.Errorf("expected about 5%% return, got %f", pct)
	}
}

func TestEstimatedCompletion(t *testing.T) {
	start := date(2024, time.January, 1)

	got, err := EstimatedCompletion(decimal.NewFromInt(200), decimal.NewFromInt(1000), decimal.NewFromInt(200), start)
	if err != nil {
		t.Fatalf("EstimatedCompletion: %v", err)
	}
	if want := date(2024, time.May, 1); !got.Equal(want) {
		t.Errorf("expected completion %v, got %v", want, got)
	}

	if _, err := EstimatedCompletion(decimal.Zero, decimal.NewFromInt(1000), decimal.Zero, start); err == nil {
		t.Error("expected an error for a zero monthly contribution")
	}

	got, err = EstimatedCompletion(decimal.NewFromInt(1500), decimal.NewFromInt(1000), decimal.NewFromInt(100), start)
	if err != nil {
		t.Fatalf("EstimatedCompletion: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("an already reached goal should complete at start, got %v", got)
	}
}

func TestMonthlyContribution(t *testing.T) {
	now := date(2024, time.January, 1)
	target := date(2024, time.July, 1) // 182 days, about 6 months

	got, err := MonthlyContribution(decimal.Zero, decimal.NewFromInt(600), target, now)
	if err != nil {
		t.Fatalf("MonthlyContribution: %v", err)
	}
	monthly, _ := got.Float64()
	if monthly < 95 || monthly > 105 {
		t.Errorf("expected roughly 100 per month, got %f", monthly)
	}

	if _, err := MonthlyContribution(decimal.Zero, decimal.NewFromInt(600), now.AddDate(0, -1, 0), now); err == nil {
		t.Error("expected an error for a past target date")
	}
}

func TestApplySavingsAmountCompletesGoal(t *testing.T) {
	g := &models.SavingsGoal{
		TargetAmount:        decimal.NewFromInt(1000),
		MonthlyContribution: decimal.NewFromInt(100),
		StartDate:           date(2024, time.January, 1),
	}

	ApplySavingsAmount(g, decimal.NewFromInt(500))
	if g.Completed {
		t.Error("goal should not be completed at half the target")
	}
	if g.TargetDate == nil {
		t.Fatal("expected a re-estimated target date while unfinished")
	}
	if want := date(2024, time.June, 1); !g.TargetDate.Equal(want) {
		t.Errorf("expected target date %v, got %v", want, g.TargetDate)
	}

	ApplySavingsAmount(g, decimal.NewFromInt(1000))
	if !g.Completed {
		t.Error("goal should be completed at the target amount")
	}
}
