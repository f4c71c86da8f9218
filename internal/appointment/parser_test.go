package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFields(t *testing.T) {
	text := `Name: Jane Doe
Department: (empty)
Doctor:
Date: 12/05/2024
Time: 10:30 am
Email: (empty if not found)
Mobile: 9876543210
Notes: ignored
no colon here`

	got := ParseFields(text)
	assert.Equal(t, Fields{
		FieldName:   "Jane Doe",
		FieldDate:   "12/05/2024",
		FieldTime:   "10:30 am",
		FieldMobile: "9876543210",
	}, got)
}

func TestParseFieldsSummaryLabels(t *testing.T) {
	text := `Here is the summary of your appointment:
- Full Name: John Carter
- Department: Cardiology
- Preferred Doctor: Dr. Mehta
- **Email**: john@example.com
- Mobile number: +1 555 123 4567

Do you want to confirm this appointment?`

	got := ParseFields(text)
	assert.Equal(t, "John Carter", got.Get(FieldName))
	assert.Equal(t, "Cardiology", got.Get(FieldDepartment))
	assert.Equal(t, "Dr. Mehta", got.Get(FieldDoctor))
	assert.Equal(t, "john@example.com", got.Get(FieldEmail))
	assert.Equal(t, "+1 555 123 4567", got.Get(FieldMobile))
	assert.False(t, got.Has(FieldDate))
}

func TestParseFieldsKeepsColonsInValue(t *testing.T) {
	got := ParseFields("TIME : 10:30 AM")
	assert.Equal(t, "10:30 AM", got.Get(FieldTime))
}
