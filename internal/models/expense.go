package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency describes how often an expense recurs.
type Frequency string

const (
	FrequencyOneTime   Frequency = "one-time"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBiMonthly Frequency = "bi-monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyBiMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// PaymentRecord is one month's paid/amount entry in an expense's payment
// history. Amount is an optional override of the template amount.
type PaymentRecord struct {
	Date   time.Time        `json:"date"`
	IsPaid bool             `json:"isPaid"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Expense is a one-time or recurring expense. For recurring expenses the
// top-level Amount and IsPaid are template values only; the effective values
// for a specific month live in PaymentHistory.
type Expense struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Frequency       Frequency       `json:"frequency"`
	NextPaymentDate *time.Time      `json:"nextPaymentDate,omitempty"`
	IsPaid          bool            `json:"isPaid"`
	PaymentHistory  []PaymentRecord `json:"paymentHistory,omitempty"`
	// Duration caps the recurrence in months. Zero means no cap.
	Duration int `json:"duration,omitempty"`
}

// NewPaymentSchedule pre-populates the payment history for a new recurring
// expense: twelve consecutive months starting at start, unpaid, each holding
// the template amount.
func NewPaymentSchedule(start time.Time, amount decimal.Decimal) []PaymentRecord {
	records := make([]PaymentRecord, 0, 12)
	for i := 0; i < 12; i++ {
		a := amount
		records = append(records, PaymentRecord{
			Date:   start.AddDate(0, i, 0),
			IsPaid: false,
			Amount: &a,
		})
	}
	return records
}
