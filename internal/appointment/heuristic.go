package appointment

import (
	"strings"
	"unicode"
)

// DefaultDepartments are the specialty names recognised without the word
// "department".
var DefaultDepartments = []string{"cardiology", "neurology", "orthopedics"}

var timeMarkers = []string{"am", "pm", ":", "morning", "evening"}

// Classifier assigns a single raw input to one field with cheap textual
// signals. Rules are plain substring checks in priority order and the first
// match wins. The value is always the trimmed input.
type Classifier struct {
	departments []string
}

// NewClassifier builds a classifier that also recognises extra specialty names.
func NewClassifier(extraDepartments ...string) *Classifier {
	deps := append([]string{}, DefaultDepartments...)
	for _, d := range extraDepartments {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			deps = append(deps, d)
		}
	}
	return &Classifier{departments: deps}
}

// Classify returns the key the input belongs to and the value to store.
func (c *Classifier) Classify(input string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", "", false
	}
	lowered := strings.ToLower(trimmed)

	switch {
	case strings.Contains(lowered, "@") && strings.Contains(lowered, "."):
		return FieldEmail, trimmed, true
	case hasPhoneNumber(trimmed):
		return FieldMobile, trimmed, true
	case c.isDepartment(lowered):
		return FieldDepartment, trimmed, true
	case strings.Contains(lowered, "dr") || strings.Contains(lowered, "doctor"):
		return FieldDoctor, trimmed, true
	case isTime(lowered):
		return FieldTime, trimmed, true
	case strings.ContainsFunc(lowered, unicode.IsDigit) && strings.Contains(lowered, "/"):
		return FieldDate, trimmed, true
	case strings.Contains(lowered, "name") || len(strings.Fields(trimmed)) >= 2:
		return FieldName, trimmed, true
	}
	return "", "", false
}

// Apply classifies input into fields. A name is only stored when none is
// known yet. It reports the key that changed, if any.
func (c *Classifier) Apply(fields Fields, input string) (string, bool) {
	key, value, ok := c.Classify(input)
	if !ok {
		return "", false
	}
	if key == FieldName && fields.Has(FieldName) {
		return "", false
	}
	if !fields.Set(key, value) {
		return "", false
	}
	return key, true
}

func (c *Classifier) isDepartment(lowered string) bool {
	if strings.Contains(lowered, "department") {
		return true
	}
	for _, d := range c.departments {
		if strings.Contains(lowered, d) {
			return true
		}
	}
	return false
}

func isTime(lowered string) bool {
	for _, marker := range timeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// hasPhoneNumber reports whether the input is, or contains as a separate
// word, an all-digit run of at least ten digits.
func hasPhoneNumber(input string) bool {
	for _, tok := range strings.Fields(input) {
		if len(tok) >= 10 && !strings.ContainsFunc(tok, func(r rune) bool { return r < '0' || r > '9' }) {
			return true
		}
	}
	return false
}
