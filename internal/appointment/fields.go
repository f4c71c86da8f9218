package appointment

import "strings"

const (
	FieldName       = "name"
	FieldDepartment = "department"
	FieldDoctor     = "doctor"
	FieldDate       = "date"
	FieldTime       = "time"
	FieldEmail      = "email"
	FieldMobile     = "mobile"
)

// FieldKeys lists the appointment keys in collection order.
var FieldKeys = []string{FieldName, FieldDepartment, FieldDoctor, FieldDate, FieldTime, FieldEmail, FieldMobile}

// Fields is the appointment data accumulated from free text. Keys are absent
// until discovered and values are never validated.
type Fields map[string]string

// IsFieldKey reports whether key is one of the seven appointment keys.
func IsFieldKey(key string) bool {
	for _, k := range FieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value for key, or "" when absent.
func (f Fields) Get(key string) string {
	return f[key]
}

// Has reports whether key holds a value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Set stores value under key when the key is known and the value is neither
// blank nor a placeholder. It reports whether the stored value changed.
func (f Fields) Set(key, value string) bool {
	value = strings.TrimSpace(value)
	if !IsFieldKey(key) || isPlaceholder(value) {
		return false
	}
	if current, ok := f[key]; ok && current == value {
		return false
	}
	f[key] = value
	return true
}

// Merge copies every usable value of other into f, last write wins. It
// returns the keys whose value changed.
func (f Fields) Merge(other Fields) []string {
	var changed []string
	for _, key := range FieldKeys {
		value, ok := other[key]
		if !ok {
			continue
		}
		if f.Set(key, value) {
			changed = append(changed, key)
		}
	}
	return changed
}

// Count returns how many keys are populated.
func (f Fields) Count() int {
	return len(f)
}

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func isPlaceholder(value string) bool {
	switch strings.ToLower(value) {
	case "", "(empty)", "(empty if not found)":
		return true
	}
	return false
}
