package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxExecer is the subset of pgxpool.Pool used by PostgresStore.
type PgxExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore inserts appointments into the appointments table.
type PostgresStore struct {
	db  PgxExecer
	now func() time.Time
}

func NewPostgresStore(db PgxExecer) *PostgresStore {
	if db == nil {
		panic("records: pgx pool required")
	}
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	record = stamp(record, s.now)
	query := `
		INSERT INTO appointments (id, booked_at, name, department, doctor, appointment_date, appointment_time, email, mobile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := s.db.Exec(ctx, query,
		uuid.New(),
		record.Timestamp.UTC(),
		record.Name,
		record.Department,
		record.Doctor,
		record.Date,
		record.Time,
		record.Email,
		record.Mobile,
	); err != nil {
		return fmt.Errorf("records: insert failed: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
