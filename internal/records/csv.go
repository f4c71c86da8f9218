package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// CSVFileName is the file written inside the appointments folder.
const CSVFileName = "appointments.csv"

// CSVStore appends rows to a CSV file opened in append mode, so earlier rows
// are never rewritten.
type CSVStore struct {
	dir    string
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *logging.Logger
}

func NewCSVStore(folder string, logger *logging.Logger) *CSVStore {
	if folder == "" {
		folder = "appointments_data"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CSVStore{
		dir:    folder,
		path:   filepath.Join(folder, CSVFileName),
		now:    time.Now,
		logger: logger,
	}
}

func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Label() string { return "CSV file" }

func (s *CSVStore) Append(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record = stamp(record, s.now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("records: create folder: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("records: open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("records: stat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("records: write csv header: %w", err)
		}
	}
	if err := w.Write(record.Row()); err != nil {
		return fmt.Errorf("records: write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("records: flush csv: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("records: sync csv: %w", err)
	}

	s.logger.Info("appointment appended to csv", "path", s.path)
	return nil
}

var _ Store = (*CSVStore)(nil)
