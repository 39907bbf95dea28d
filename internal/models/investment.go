package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType classifies an investment product.
type InvestmentType string

const (
	InvestmentFixedDeposit   InvestmentType = "fixed-deposit"
	InvestmentSavingsAccount InvestmentType = "savings-account"
	InvestmentGovernmentBond InvestmentType = "government-bond"
	InvestmentMutualFund     InvestmentType = "mutual-fund"
	InvestmentOther          InvestmentType = "other"
)

// CompoundingFrequency is how often an investment compounds interest.
type CompoundingFrequency string

const (
	CompoundDaily      CompoundingFrequency = "daily"
	CompoundMonthly    CompoundingFrequency = "monthly"
	CompoundQuarterly  CompoundingFrequency = "quarterly"
	CompoundSemiAnnual CompoundingFrequency = "semi-annual"
	CompoundAnnual     CompoundingFrequency = "annual"
)

// Investment is a fixed-term investment position. MaturityDate is derived
// from StartDate and TermMonths once at creation and is not re-derived by
// later partial updates.
type Investment struct {
	ID                   int64                `json:"id"`
	Name                 string               `json:"name"`
	Type                 InvestmentType       `json:"type"`
	InitialAmount        decimal.Decimal      `json:"initialAmount"`
	CurrentAmount        decimal.Decimal      `json:"currentAmount"`
	AnnualRate           float64              `json:"annualRate"`
	StartDate            time.Time            `json:"startDate"`
	TermMonths           int                  `json:"termMonths"`
	MaturityDate         time.Time            `json:"maturityDate"`
	CompoundingFrequency CompoundingFrequency `json:"compoundingFrequency"`
	IsActive             bool                 `json:"isActive"`
	Notes                string               `json:"notes,omitempty"`
}
