package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a savings target with either a monthly contribution or a
// target date as the authoritative pace; the other is derived on save.
type SavingsGoal struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	TargetAmount        decimal.Decimal `json:"targetAmount"`
	CurrentAmount       decimal.Decimal `json:"currentAmount"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	StartDate           time.Time       `json:"startDate"`
	TargetDate          *time.Time      `json:"targetDate,omitempty"`
	Completed           bool            `json:"completed"`
}
