package remotedb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvidal/gastos/internal/models"
)

// dateToString normalizes anything date-shaped into an ISO-8601 UTC string.
// Snapshots produced by older clients carried dates as strings or epoch
// milliseconds, so an invalid value is logged and replaced with the current
// time instead of poisoning the row.
func (s *Store) dateToString(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if d == nil {
			return ""
		}
		return d.UTC().Format(time.RFC3339Nano)
	case string:
		if t, err := stringToDate(d); err == nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
		s.log.Warnf("Unparseable date value %q, substituting current time", d)
		return time.Now().UTC().Format(time.RFC3339Nano)
	case int64:
		return time.UnixMilli(d).UTC().Format(time.RFC3339Nano)
	case float64:
		return time.UnixMilli(int64(d)).UTC().Format(time.RFC3339Nano)
	default:
		s.log.Warnf("Unexpected date value %v (%T), substituting current time", v, v)
		return time.Now().UTC().Format(time.RFC3339Nano)
	}
}

// stringToDate parses the date encodings found in stored rows and snapshots.
func stringToDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func (s *Store) datePtrToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: s.dateToString(*t), Valid: true}
}

func nullToDatePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := stringToDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decimalPtrToNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullToDecimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool { return i != 0 }

// historyToJSON encodes a payment history for the payment_history column.
// A nil history is stored as an empty list.
func historyToJSON(history []models.PaymentRecord) (string, error) {
	if history == nil {
		history = []models.PaymentRecord{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to encode payment history: %w", err)
	}
	return string(raw), nil
}

func historyFromJSON(raw string) ([]models.PaymentRecord, error) {
	if raw == "" {
		return []models.PaymentRecord{}, nil
	}
	var history []models.PaymentRecord
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("failed to decode payment history: %w", err)
	}
	if history == nil {
		history = []models.PaymentRecord{}
	}
	return history, nil
}
