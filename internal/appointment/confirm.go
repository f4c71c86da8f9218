package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/wolfman30/appointment-assistant/internal/notify"
	"github.com/wolfman30/appointment-assistant/internal/observability/metrics"
	"github.com/wolfman30/appointment-assistant/internal/records"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// Status lines appended to the assistant reply after a confirmation.
const (
	StatusEmailSent    = "📧 A confirmation email has been sent."
	StatusEmailFailed  = "⚠️ Failed to send confirmation email."
	StatusRecordSaved  = "💾 Appointment data has been saved."
	StatusRecordFailed = "⚠️ Failed to save appointment data."
	StatusNoEmail      = "⚠️ No email address found. Please provide your email."
)

// RecordSavedStatus and RecordFailedStatus name the destination when the
// store describes itself, e.g. "saved to Excel file".
func RecordSavedStatus(store records.Store) string {
	if l, ok := store.(records.Labeler); ok && l.Label() != "" {
		return "💾 Appointment data has been saved to " + l.Label() + "."
	}
	return StatusRecordSaved
}

func RecordFailedStatus(store records.Store) string {
	if l, ok := store.(records.Labeler); ok && l.Label() != "" {
		return "⚠️ Failed to save data to " + l.Label() + "."
	}
	return StatusRecordFailed
}

// summaryBackfillThreshold is the populated-field count below which the
// assistant reply is mined for the missing values.
const summaryBackfillThreshold = 5

// Confirmer runs the side effects of a confirmed booking. The email and the
// record append are independent: one failing never skips the other.
type Confirmer struct {
	extractor *Extractor
	mailer    notify.EmailSender
	records   records.Store
	metrics   *metrics.AssistantMetrics
	logger    *logging.Logger
	now       func() time.Time

	savedStatus  string
	failedStatus string
}

func NewConfirmer(extractor *Extractor, mailer notify.EmailSender, store records.Store, m *metrics.AssistantMetrics, logger *logging.Logger) *Confirmer {
	if extractor == nil {
		panic("appointment: extractor cannot be nil")
	}
	if mailer == nil {
		panic("appointment: email sender cannot be nil")
	}
	if store == nil {
		panic("appointment: record store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Confirmer{
		extractor: extractor,
		mailer:    mailer,
		records:   store,
		metrics:   m,
		logger:    logger,
		now:       time.Now,

		savedStatus:  RecordSavedStatus(store),
		failedStatus: RecordFailedStatus(store),
	}
}

// Confirm completes fields from the assistant reply when needed, then emails
// the patient and appends the booking. It returns the status lines to show.
func (c *Confirmer) Confirm(ctx context.Context, reply string, fields Fields) []string {
	log := c.logger.ForContext(ctx)

	if fields.Count() < summaryBackfillThreshold {
		res := c.extractor.Extract(ctx, FromSummary(reply), fields)
		c.metrics.ObserveExtraction(string(SourceSummary), res.Fallback)
		log.Debug("summary backfill", "changed", res.Changed, "fallback", res.Fallback)
	}

	email := fields.Get(FieldEmail)
	if strings.TrimSpace(email) == "" {
		log.Info("confirmation requested without email")
		c.metrics.ObserveConfirmation("email", "missing")
		return []string{StatusNoEmail}
	}

	return []string{c.sendEmail(ctx, fields), c.saveRecord(ctx, fields)}
}

func (c *Confirmer) sendEmail(ctx context.Context, fields Fields) string {
	log := c.logger.ForContext(ctx)

	msg, err := notify.ConfirmationEmail(notify.Appointment{
		Name:       fields.Get(FieldName),
		Department: fields.Get(FieldDepartment),
		Doctor:     fields.Get(FieldDoctor),
		Date:       fields.Get(FieldDate),
		Time:       fields.Get(FieldTime),
		Email:      fields.Get(FieldEmail),
		Mobile:     fields.Get(FieldMobile),
	})
	if err == nil {
		err = c.mailer.Send(ctx, msg)
	}
	if err != nil {
		log.Error("confirmation email failed", "error", err)
		c.metrics.ObserveConfirmation("email", "failed")
		return StatusEmailFailed
	}
	c.metrics.ObserveConfirmation("email", "sent")
	return StatusEmailSent
}

func (c *Confirmer) saveRecord(ctx context.Context, fields Fields) string {
	err := c.records.Append(ctx, records.Record{
		Timestamp:  c.now(),
		Name:       fields.Get(FieldName),
		Department: fields.Get(FieldDepartment),
		Doctor:     fields.Get(FieldDoctor),
		Date:       fields.Get(FieldDate),
		Time:       fields.Get(FieldTime),
		Email:      fields.Get(FieldEmail),
		Mobile:     fields.Get(FieldMobile),
	})
	if err != nil {
		c.logger.ForContext(ctx).Error("appointment record append failed", "error", err)
		c.metrics.ObserveConfirmation("record", "failed")
		return c.failedStatus
	}
	c.metrics.ObserveConfirmation("record", "saved")
	return c.savedStatus
}
