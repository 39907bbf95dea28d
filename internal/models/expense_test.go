package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewPaymentSchedule(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(100)

	records := NewPaymentSchedule(start, amount)
	if len(records) != 12 {
		t.Fatalf("expected 12 scheduled payments, got %d", len(records))
	}
	for i, record := range records {
		if want := start.AddDate(0, i, 0); !record.Date.Equal(want) {
			t.Errorf("record %d: date %v, want %v", i, record.Date, want)
		}
		if record.IsPaid {
			t.Errorf("record %d: new schedule entries must start unpaid", i)
		}
		if record.Amount == nil || !record.Amount.Equal(amount) {
			t.Errorf("record %d: expected template amount %s, got %v", i, amount, record.Amount)
		}
	}
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{FrequencyOneTime, FrequencyMonthly, FrequencyBiMonthly, FrequencyQuarterly, FrequencyAnnual} {
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if Frequency("weekly").Valid() {
		t.Error("unknown frequency should be invalid")
	}
}

func TestBackendTypeValid(t *testing.T) {
	if !BackendLocal.Valid() || !BackendRemote.Valid() {
		t.Error("both backend types should be valid")
	}
	if BackendType("cloud").Valid() {
		t.Error("unknown backend type should be invalid")
	}
}
