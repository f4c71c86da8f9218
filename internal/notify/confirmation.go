package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConfirmationSubject is the subject line of every booking confirmation.
const ConfirmationSubject = "Your Hospital Appointment Confirmation"

// Appointment carries the details printed in a confirmation email. Blank
// values render as N/A.
type Appointment struct {
	Name       string
	Department string
	Doctor     string
	Date       string
	Time       string
	Email      string
	Mobile     string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Dear {{.Name}},
Your appointment has been confirmed with the following details:

Doctor: {{.Doctor}}
Email: {{.Email}}
Mobile: {{.Mobile}}
Time: {{.Time}}
Date: {{.Date}}
Department: {{.Department}}

Thank you for choosing our hospital.
`))

var titleCaser = cases.Title(language.English)

// ConfirmationEmail renders the confirmation message for appt.
func ConfirmationEmail(appt Appointment) (EmailMessage, error) {
	if strings.TrimSpace(appt.Email) == "" {
		return EmailMessage{}, ErrMissingRecipient
	}

	view := Appointment{
		Name:       orDefault(appt.Name, "Patient"),
		Department: orDefault(appt.Department, "N/A"),
		Doctor:     orDefault(titleCaser.String(strings.TrimSpace(appt.Doctor)), "N/A"),
		Date:       orDefault(appt.Date, "N/A"),
		Time:       orDefault(appt.Time, "N/A"),
		Email:      orDefault(appt.Email, "N/A"),
		Mobile:     orDefault(appt.Mobile, "N/A"),
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render confirmation: %w", err)
	}
	return EmailMessage{
		To:      strings.TrimSpace(appt.Email),
		ToName:  strings.TrimSpace(appt.Name),
		Subject: ConfirmationSubject,
		Body:    buf.String(),
	}, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
