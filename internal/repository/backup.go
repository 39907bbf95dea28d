package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mvidal/gastos/internal/models"
)

// Backup documents mark every date-valued field with a type tag so a date can
// be told apart from a plain string on restore.
const backupDateTag = "Date"

var (
	timeType      = reflect.TypeOf(time.Time{})
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// EncodeBackup serializes a snapshot as an indented JSON document whose
// top-level keys are table names. Dates are encoded as
// {"__type":"Date","value":"<ISO-8601>"} at any depth.
func EncodeBackup(data *models.DataExport) (string, error) {
	wrapped := wrapDates(reflect.ValueOf(data).Elem())
	out, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	return string(out), nil
}

// DecodeBackup parses a backup document, inverting the date encoding
// recursively, and returns the typed snapshot.
func DecodeBackup(backup string) (*models.DataExport, error) {
	var raw any
	if err := json.Unmarshal([]byte(backup), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}

	plain, err := json.Marshal(unwrapDates(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize backup: %w", err)
	}

	data := &models.DataExport{}
	if err := json.Unmarshal(plain, data); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	return data, nil
}

// wrapDates walks a typed value and returns a generic structure in which every
// time.Time has been replaced by the tagged date object.
func wrapDates(v reflect.Value) any {
	switch {
	case v.Type() == timeType:
		t := v.Interface().(time.Time)
		return map[string]any{"__type": backupDateTag, "value": t.UTC().Format(time.RFC3339Nano)}

	case v.Kind() == reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return wrapDates(v.Elem())

	case v.Kind() == reflect.Slice:
		if v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = wrapDates(v.Index(i))
		}
		return out

	case v.Kind() == reflect.Struct:
		// Types with their own JSON encoding (decimal amounts) are leaves.
		if v.Type().Implements(marshalerType) {
			return v.Interface()
		}
		out := make(map[string]any, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			name, omitEmpty := jsonName(field)
			if name == "-" {
				continue
			}
			fv := v.Field(i)
			if omitEmpty && fv.Kind() == reflect.Pointer && fv.IsNil() {
				continue
			}
			out[name] = wrapDates(fv)
		}
		return out

	default:
		return v.Interface()
	}
}

// unwrapDates replaces every {"__type":"Date","value":...} object with its
// ISO string so the document can be decoded into typed records.
func unwrapDates(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val["__type"] == backupDateTag {
			if s, ok := val["value"].(string); ok {
				return s
			}
		}
		out := make(map[string]any, len(val))
		for k, entry := range val {
			out[k] = unwrapDates(entry)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, entry := range val {
			out[i] = unwrapDates(entry)
		}
		return out
	default:
		return v
	}
}

func jsonName(field reflect.StructField) (name string, omitEmpty bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}
