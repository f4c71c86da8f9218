package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/notify"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// BuildEmailSender picks the confirmation mail transport. Anything not fully
// configured falls back to the logging stub so confirmations still complete.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case "", "smtp", "gmail":
		if s := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Password:  cfg.SenderPassword,
			FromEmail: cfg.SenderEmail,
			FromName:  cfg.SenderName,
		}, logger); s != nil {
			logger.Info("email sender ready", "provider", "smtp", "host", cfg.SMTPHost)
			return s
		}
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			logger.Info("email sender ready", "provider", "sendgrid")
			return s
		}
	case "ses":
		if strings.TrimSpace(cfg.SESFromEmail) != "" {
			if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SESFromName,
			}, logger); s != nil {
				logger.Info("email sender ready", "provider", "ses")
				return s
			}
		}
	case "stub":
		return notify.NewStubEmailSender(logger)
	}

	logger.Warn("email provider not configured; confirmation emails will only be logged", "provider", cfg.EmailProvider)
	return notify.NewStubEmailSender(logger)
}
