package appointment

import "strings"

// fieldAliases maps the labels used in bot summaries onto field keys.
var fieldAliases = map[string]string{
	"full name":        FieldName,
	"patient name":     FieldName,
	"preferred doctor": FieldDoctor,
	"appointment date": FieldDate,
	"appointment time": FieldTime,
	"email address":    FieldEmail,
	"mobile number":    FieldMobile,
	"phone":            FieldMobile,
	"phone number":     FieldMobile,
}

// ParseFields reads "Key: Value" lines. Text before the first colon is the
// key (case-insensitive, list markers ignored); the rest is the value.
// Unknown keys, blank values and placeholders are skipped.
func ParseFields(text string) Fields {
	fields := Fields{}
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if k := normalizeKey(key); k != "" {
			fields.Set(k, value)
		}
	}
	return fields
}

func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimLeft(key, "-*• ")
	key = strings.Trim(key, "* ")
	if IsFieldKey(key) {
		return key
	}
	return fieldAliases[key]
}
