package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// ExcelFileName is the workbook written inside the appointments folder.
const ExcelFileName = "appointments.xlsx"

// ExcelStore keeps every appointment in a single workbook. Each append reads
// the workbook, adds a row and replaces the file through a rename so a crash
// never leaves a half-written workbook behind.
type ExcelStore struct {
	dir    string
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *logging.Logger
}

func NewExcelStore(folder string, logger *logging.Logger) *ExcelStore {
	if folder == "" {
		folder = "appointments_data"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ExcelStore{
		dir:    folder,
		path:   filepath.Join(folder, ExcelFileName),
		now:    time.Now,
		logger: logger,
	}
}

// Path returns the workbook location.
func (s *ExcelStore) Path() string {
	return s.path
}

func (s *ExcelStore) Label() string { return "Excel file" }

func (s *ExcelStore) Append(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record = stamp(record, s.now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("records: create folder: %w", err)
	}

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("records: read workbook: %w", err)
	}
	if len(rows) == 0 {
		if err := setRow(f, sheet, 1, Columns); err != nil {
			return err
		}
		rows = [][]string{Columns}
	}
	if err := setRow(f, sheet, len(rows)+1, record.Row()); err != nil {
		return err
	}

	if err := s.replace(f); err != nil {
		return err
	}
	s.logger.Info("appointment saved to workbook", "path", s.path, "rows", len(rows))
	return nil
}

func (s *ExcelStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("records: open workbook: %w", err)
	}
	return f, nil
}

func (s *ExcelStore) replace(f *excelize.File) error {
	tmp, err := os.CreateTemp(s.dir, ".appointments-*.xlsx")
	if err != nil {
		return fmt.Errorf("records: create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("records: write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("records: sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("records: close workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("records: replace workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("records: cell name: %w", err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("records: write row %d: %w", row, err)
	}
	return nil
}

var _ Store = (*ExcelStore)(nil)
