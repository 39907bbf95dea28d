package localdb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

func TestBalanceUpsertStaysSingleton(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &models.Balance{Amount: decimal.NewFromInt(1000), Date: date(2024, time.January, 1)}
	if err := s.Balance().Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second := &models.Balance{Amount: decimal.NewFromInt(2000), MonthlyIncome: decimal.NewFromInt(3000), Date: date(2024, time.February, 1)}
	if err := s.Balance().Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert must reuse id %d, got %d", first.ID, second.ID)
	}

	all, err := s.Balance().FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one balance record, got %d", len(all))
	}
	if !all[0].Amount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected the second write to win, got %s", all[0].Amount)
	}
}

func TestBalanceCurrentEmpty(t *testing.T) {
	s := openTestStore(t)
	current, err := s.Balance().Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current != nil {
		t.Errorf("expected nil on an empty store, got %+v", current)
	}
}

func TestMonthlyBalanceSubtractsProjectedExpenses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	balance := &models.Balance{
		Amount:        decimal.NewFromInt(1000),
		MonthlyIncome: decimal.NewFromInt(500),
		Date:          date(2024, time.March, 1),
	}
	if err := s.Balance().Upsert(ctx, balance); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	seed := []models.Expense{
		{Amount: decimal.NewFromInt(100), Category: "rent", Date: date(2024, time.January, 1), Frequency: models.FrequencyMonthly},
		{Amount: decimal.NewFromInt(50), Category: "concert", Date: date(2024, time.March, 10), Frequency: models.FrequencyOneTime},
		{Amount: decimal.NewFromInt(999), Category: "elsewhere", Date: date(2024, time.April, 1), Frequency: models.FrequencyOneTime},
	}
	for i := range seed {
		if err := s.Expenses().Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := s.Balance().MonthlyBalance(ctx, date(2024, time.March, 1))
	if err != nil {
		t.Fatalf("MonthlyBalance: %v", err)
	}
	// 1000 + 500 - (100 recurring + 50 one-time)
	if want := decimal.NewFromInt(1350); !got.Equal(want) {
		t.Errorf("MonthlyBalance = %s, want %s", got, want)
	}
}

func TestMonthlyBalanceWithoutRecord(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Balance().MonthlyBalance(context.Background(), date(2024, time.March, 1))
	if err != nil {
		t.Fatalf("MonthlyBalance: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero without a balance record, got %s", got)
	}
}
