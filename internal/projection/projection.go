// Package projection derives the month-specific view of stored expenses.
// Both storage backends call the same functions so the recurrence rules
// cannot drift between them.
package projection

import (
	"time"

	"github.com/mvidal/gastos/internal/models"
)

// MonthDiff counts whole calendar months from the expense's start month to
// the target month. Negative means the target month precedes the start.
func MonthDiff(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// period returns the recurrence period in months, or 0 for one-time.
func period(f models.Frequency) int {
	switch f {
	case models.FrequencyMonthly:
		return 1
	case models.FrequencyBiMonthly:
		return 2
	case models.FrequencyQuarterly:
		return 3
	case models.FrequencyAnnual:
		return 12
	}
	return 0
}

// ForMonth expands the stored expenses into the list visible for the month
// containing target. One-time expenses are included when their date falls in
// that month. Recurring expenses are included on their period boundaries,
// bounded by Duration when set, and each included occurrence is a projected
// copy whose IsPaid and Amount come from the matching payment-history entry
// (falling back to unpaid and the template amount). The stored records are
// never mutated.
func ForMonth(expenses []models.Expense, target time.Time) []models.Expense {
	var result []models.Expense

	for _, expense := range expenses {
		if expense.Frequency == models.FrequencyOneTime {
			if sameMonth(expense.Date, target) {
				result = append(result, expense)
			}
			continue
		}

		diff := MonthDiff(expense.Date, target)
		if expense.Duration > 0 && diff >= expense.Duration {
			// The recurrence has ended.
			continue
		}

		p := period(expense.Frequency)
		if p == 0 || diff < 0 || diff%p != 0 {
			continue
		}

		projected := expense
		projected.IsPaid = false
		if record := historyFor(expense.PaymentHistory, target); record != nil {
			projected.IsPaid = record.IsPaid
			if record.Amount != nil {
				projected.Amount = *record.Amount
			}
		}
		result = append(result, projected)
	}

	return result
}

// historyFor finds the payment record whose date falls in the same calendar
// month as target.
func historyFor(history []models.PaymentRecord, target time.Time) *models.PaymentRecord {
	for i := range history {
		if sameMonth(history[i].Date, target) {
			return &history[i]
		}
	}
	return nil
}
