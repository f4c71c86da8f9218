package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/records"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// BuildRecordStore returns the append-only store selected by RECORD_STORE.
// The returned closer may be nil.
func BuildRecordStore(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (records.Store, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.RecordStore {
	case "", "xlsx", "excel":
		store := records.NewExcelStore(cfg.AppointmentsFolder, logger)
		logger.Info("record store ready", "backend", "xlsx", "path", store.Path())
		return store, nil, nil
	case "csv":
		store := records.NewCSVStore(cfg.AppointmentsFolder, logger)
		logger.Info("record store ready", "backend", "csv", "path", store.Path())
		return store, nil, nil
	case "postgres":
		pool, err := connectPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("record store ready", "backend", "postgres")
		return records.NewPostgresStore(pool), pool.Close, nil
	case "s3":
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		store, err := records.NewS3Store(client, cfg.RecordsBucket, cfg.RecordsPrefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("record store ready", "backend", "s3", "bucket", cfg.RecordsBucket)
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown record store %q", cfg.RecordStore)
	}
}

func connectPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres record store")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return pool, nil
}
