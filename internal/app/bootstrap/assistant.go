package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/appointment-assistant/internal/appointment"
	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/observability/metrics"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// Assistant is the wired chat service plus the resources it holds open.
type Assistant struct {
	Service *appointment.Service
	Handler *appointment.Handler

	closers []func() error
}

// Close releases connections opened during wiring.
func (a *Assistant) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildAssistant wires the appointment service from config.
func BuildAssistant(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, m *metrics.AssistantMetrics, logger *logging.Logger) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	a := &Assistant{}

	client, closers := BuildCompletionClient(ctx, cfg, awsCfg, logger)
	a.closers = append(a.closers, closers...)

	store, closeStore := BuildSessionStore(ctx, cfg, logger)
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	recordStore, closeRecords, err := BuildRecordStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closeRecords != nil {
		a.closers = append(a.closers, func() error { closeRecords(); return nil })
	}

	mailer := BuildEmailSender(cfg, awsCfg, logger)

	extractor := appointment.NewExtractor(client, appointment.NewClassifier(cfg.ExtraDepartments...), "", logger)
	confirmer := appointment.NewConfirmer(extractor, mailer, recordStore, m, logger)
	a.Service = appointment.NewService(store, client, extractor, confirmer, logger,
		appointment.WithModel("", cfg.LLMTemperature),
		appointment.WithMetrics(m),
	)
	a.Handler = appointment.NewHandler(a.Service, logger)
	return a, nil
}
