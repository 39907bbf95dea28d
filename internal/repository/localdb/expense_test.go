package localdb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestExpenseCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	expense := &models.Expense{
		Amount:    decimal.NewFromInt(100),
		Category:  "rent",
		Date:      date(2024, time.January, 15),
		Frequency: models.FrequencyMonthly,
	}
	if err := s.Expenses().Create(ctx, expense); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if expense.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	loaded, err := s.Expenses().FindByID(ctx, expense.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if loaded == nil || loaded.Category != "rent" || !loaded.Amount.Equal(expense.Amount) {
		t.Fatalf("loaded expense does not match: %+v", loaded)
	}

	loaded.Category = "housing"
	if err := s.Expenses().Update(ctx, loaded); err != nil {
		t.Fatalf("Update: %v", err)
	}
	reloaded, err := s.Expenses().FindByID(ctx, expense.ID)
	if err != nil || reloaded.Category != "housing" {
		t.Fatalf("update did not persist: %+v (%v)", reloaded, err)
	}

	if !s.Expenses().Delete(ctx, expense.ID) {
		t.Fatal("Delete reported failure")
	}
	gone, err := s.Expenses().FindByID(ctx, expense.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}

func TestExpenseFindByIDMissing(t *testing.T) {
	s := openTestStore(t)
	expense, err := s.Expenses().FindByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if expense != nil {
		t.Errorf("expected (nil, nil) for a missing id, got %+v", expense)
	}
}

func TestExpenseDeleteMissingStillSucceeds(t *testing.T) {
	s := openTestStore(t)
	if !s.Expenses().Delete(context.Background(), 12345) {
		t.Error("deleting a missing id should report success")
	}
}

func TestExpenseFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []models.Expense{
		{Amount: decimal.NewFromInt(100), Category: "rent", Date: date(2024, time.January, 1), Frequency: models.FrequencyMonthly, IsPaid: true},
		{Amount: decimal.NewFromInt(50), Category: "food", Date: date(2024, time.January, 5), Frequency: models.FrequencyOneTime},
		{Amount: decimal.NewFromInt(200), Category: "rent", Date: date(2024, time.February, 1), Frequency: models.FrequencyAnnual},
	}
	for i := range seed {
		if err := s.Expenses().Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rent, err := s.Expenses().FindByCategory(ctx, "rent")
	if err != nil || len(rent) != 2 {
		t.Errorf("FindByCategory(rent) = %d expenses (%v), want 2", len(rent), err)
	}
	monthly, err := s.Expenses().FindByFrequency(ctx, models.FrequencyMonthly)
	if err != nil || len(monthly) != 1 {
		t.Errorf("FindByFrequency(monthly) = %d expenses (%v), want 1", len(monthly), err)
	}
	paid, err := s.Expenses().FindByPaidStatus(ctx, true)
	if err != nil || len(paid) != 1 {
		t.Errorf("FindByPaidStatus(true) = %d expenses (%v), want 1", len(paid), err)
	}
}

func TestExpenseFindByMonthProjects(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	override := decimal.NewFromInt(120)
	recurring := &models.Expense{
		Amount:    decimal.NewFromInt(100),
		Category:  "gym",
		Date:      date(2024, time.January, 15),
		Frequency: models.FrequencyMonthly,
		PaymentHistory: []models.PaymentRecord{
			{Date: date(2024, time.March, 15), IsPaid: true, Amount: &override},
		},
	}
	oneTime := &models.Expense{
		Amount:    decimal.NewFromInt(40),
		Category:  "concert",
		Date:      date(2024, time.March, 20),
		Frequency: models.FrequencyOneTime,
	}
	for _, e := range []*models.Expense{recurring, oneTime} {
		if err := s.Expenses().Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	march, err := s.Expenses().FindByMonth(ctx, date(2024, time.March, 1))
	if err != nil {
		t.Fatalf("FindByMonth: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("expected both expenses in March, got %d", len(march))
	}
	for _, e := range march {
		if e.Category == "gym" {
			if !e.IsPaid || !e.Amount.Equal(override) {
				t.Errorf("expected the March override applied, got %+v", e)
			}
		}
	}

	april, err := s.Expenses().FindByMonth(ctx, date(2024, time.April, 1))
	if err != nil {
		t.Fatalf("FindByMonth: %v", err)
	}
	if len(april) != 1 || april[0].Category != "gym" {
		t.Fatalf("expected only the recurring expense in April, got %+v", april)
	}
	if april[0].IsPaid || !april[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected the unpaid template values in April, got %+v", april[0])
	}
}

func TestExpenseUpcoming(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 10)
	far := time.Now().AddDate(0, 6, 0)
	seed := []models.Expense{
		{Amount: decimal.NewFromInt(100), Category: "rent", Date: soon, Frequency: models.FrequencyMonthly},
		{Amount: decimal.NewFromInt(300), Category: "insurance", Date: time.Now(), NextPaymentDate: &far, Frequency: models.FrequencyAnnual},
		{Amount: decimal.NewFromInt(40), Category: "concert", Date: soon, Frequency: models.FrequencyOneTime},
	}
	for i := range seed {
		if err := s.Expenses().Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	upcoming, err := s.Expenses().Upcoming(ctx, 1)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Category != "rent" {
		t.Fatalf("expected only the rent expense within a month, got %+v", upcoming)
	}

	wide, err := s.Expenses().Upcoming(ctx, 12)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(wide) != 2 {
		t.Errorf("expected both recurring expenses within a year, got %d", len(wide))
	}
}
