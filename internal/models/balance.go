package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the single current liquid balance record. At most one record is
// meaningful at a time; writes upsert into the first existing record.
type Balance struct {
	ID              int64            `json:"id"`
	Amount          decimal.Decimal  `json:"amount"`
	MonthlyIncome   decimal.Decimal  `json:"monthlyIncome"`
	Date            time.Time        `json:"date"`
	ProjectedAmount *decimal.Decimal `json:"projectedAmount,omitempty"`
	RealAmount      *decimal.Decimal `json:"realAmount,omitempty"`
}
