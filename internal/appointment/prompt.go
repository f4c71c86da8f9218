package appointment

import (
	"fmt"
	"strings"

	"github.com/wolfman30/appointment-assistant/internal/llm"
)

// SystemPrompt seeds every session.
const SystemPrompt = `You are AppointmentBot, an automated service to issue hospital appointments.
Ask the patient step by step for:
- Full Name
- Department
- Preferred Doctor
- Date
- Time
- Email
- Mobile number

IMPORTANT: When collecting information, be explicit about what you're asking for.
For example:
- "What is your full name?"
- "Which department do you need? (e.g., Cardiology, Neurology, Orthopedics)"
- "Which doctor would you prefer?"
- "What date would you like for your appointment?"
- "What time works best for you?"
- "What is your email address?"
- "What is your mobile number?"

Once all details are collected, provide a clear summary like:
"Thank you for providing all the necessary details. Here is the summary of your appointment:
- Full Name: [name]
- Department: [department]
- Preferred Doctor: [doctor]
- Date: [date]
- Time: [time]
- Email: [email]
- Mobile number: [mobile]

Do you want to confirm this appointment?"

If the patient says "confirm", the system will send them an email and save the data.
Respond conversationally, one question at a time.`

const (
	turnExtractionSystem    = "You are a data extraction assistant. Extract appointment details from conversations."
	summaryExtractionSystem = "You are a data extraction assistant. Extract appointment details from summaries."
)

const fieldListing = `- Name: [full name]
- Department: [department name]
- Doctor: [doctor name]
- Date: [appointment date]
- Time: [appointment time]
- Email: [email address]
- Mobile: [mobile number]`

func turnExtractionPrompt(input string, context []llm.Message) string {
	return fmt.Sprintf(`From the following conversation, extract appointment details if any are mentioned:

User input: %q

Previous conversation context:
%s

Extract and return ONLY the following details if found (return empty string if not found):
%s

Format as: Name: [value] or Name: (empty if not found)`, input, formatContext(context), fieldListing)
}

func summaryExtractionPrompt(summary string) string {
	return fmt.Sprintf(`Extract appointment details from this summary:

%s

Extract and return ONLY the following details:
%s

Format as: Name: [value]`, summary, fieldListing)
}

func formatContext(messages []llm.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, strings.TrimSpace(msg.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}
