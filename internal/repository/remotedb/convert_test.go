package remotedb

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mvidal/gastos/internal/models"
)

func testStore() *Store {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Store{log: log}
}

func TestDateToStringFormats(t *testing.T) {
	s := testStore()
	fixed := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	if got := s.dateToString(fixed); got != "2024-03-15T10:30:00Z" {
		t.Errorf("dateToString(time.Time) = %q", got)
	}
	if got := s.dateToString(&fixed); got != "2024-03-15T10:30:00Z" {
		t.Errorf("dateToString(*time.Time) = %q", got)
	}
	if got := s.dateToString((*time.Time)(nil)); got != "" {
		t.Errorf("dateToString(nil pointer) = %q, want empty", got)
	}
	if got := s.dateToString("2024-03-15T10:30:00Z"); got != "2024-03-15T10:30:00Z" {
		t.Errorf("dateToString(ISO string) = %q", got)
	}
	if got := s.dateToString(int64(1710498600000)); got == "" {
		t.Error("dateToString(epoch millis) must produce a date")
	}
}

// Corrupt date values must never panic or poison the row; the helper
// substitutes the current time instead.
func TestDateToStringSurvivesGarbage(t *testing.T) {
	s := testStore()

	for _, input := range []any{"not-a-date", struct{}{}, nil} {
		got := s.dateToString(input)
		if got == "" {
			t.Errorf("dateToString(%v) returned empty", input)
			continue
		}
		if _, err := stringToDate(got); err != nil {
			t.Errorf("dateToString(%v) = %q, not parseable: %v", input, got, err)
		}
	}
}

func TestStringToDateLayouts(t *testing.T) {
	cases := []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15T10:30:00.123Z",
		"2024-03-15T10:30:00+02:00",
		"2024-03-15",
	}
	for _, raw := range cases {
		if _, err := stringToDate(raw); err != nil {
			t.Errorf("stringToDate(%q): %v", raw, err)
		}
	}
	if _, err := stringToDate("yesterday"); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestBoolIntConversions(t *testing.T) {
	if boolToInt(true) != 1 || boolToInt(false) != 0 {
		t.Error("boolToInt mapping is wrong")
	}
	if !intToBool(1) || intToBool(0) {
		t.Error("intToBool mapping is wrong")
	}
	if !intToBool(7) {
		t.Error("any non-zero value should read as true")
	}
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	override := decimal.NewFromFloat(99.95)
	history := []models.PaymentRecord{
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), IsPaid: true, Amount: &override},
		{Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}

	raw, err := historyToJSON(history)
	if err != nil {
		t.Fatalf("historyToJSON: %v", err)
	}
	restored, err := historyFromJSON(raw)
	if err != nil {
		t.Fatalf("historyFromJSON: %v", err)
	}

	if len(restored) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(restored))
	}
	if !restored[0].IsPaid || restored[0].Amount == nil || !restored[0].Amount.Equal(override) {
		t.Errorf("first entry did not survive: %+v", restored[0])
	}
	if restored[1].Amount != nil {
		t.Error("absent override must stay nil")
	}
}

func TestHistoryJSONEmpty(t *testing.T) {
	raw, err := historyToJSON(nil)
	if err != nil || raw != "[]" {
		t.Errorf("historyToJSON(nil) = %q (%v), want []", raw, err)
	}
	restored, err := historyFromJSON("")
	if err != nil || restored == nil || len(restored) != 0 {
		t.Errorf("historyFromJSON(\"\") = %v (%v), want empty slice", restored, err)
	}
}

func TestDecimalNullHelpers(t *testing.T) {
	d := decimal.NewFromInt(42)
	nd := decimalPtrToNull(&d)
	if !nd.Valid || !nd.Decimal.Equal(d) {
		t.Errorf("decimalPtrToNull lost the value: %+v", nd)
	}
	if back := nullToDecimalPtr(nd); back == nil || !back.Equal(d) {
		t.Errorf("nullToDecimalPtr lost the value: %v", back)
	}

	if nd := decimalPtrToNull(nil); nd.Valid {
		t.Error("nil pointer should map to an invalid NullDecimal")
	}
	if back := nullToDecimalPtr(decimal.NullDecimal{}); back != nil {
		t.Error("invalid NullDecimal should map back to nil")
	}
}

func TestNullDateHelpers(t *testing.T) {
	s := testStore()
	fixed := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	ns := s.datePtrToNull(&fixed)
	if !ns.Valid {
		t.Fatal("expected a valid NullString")
	}
	back, err := nullToDatePtr(ns)
	if err != nil || back == nil || !back.Equal(fixed) {
		t.Errorf("date did not survive the null round trip: %v (%v)", back, err)
	}

	if ns := s.datePtrToNull(nil); ns.Valid {
		t.Error("nil date should map to an invalid NullString")
	}
	back, err = nullToDatePtr(sql.NullString{})
	if err != nil || back != nil {
		t.Errorf("invalid NullString should map back to nil, got %v (%v)", back, err)
	}
}
