// Package records appends confirmed appointments to an external store.
package records

import (
	"context"
	"time"
)

// TimestampLayout is how booking timestamps are written.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the header row shared by the tabular stores.
var Columns = []string{"Timestamp", "Name", "Department", "Doctor", "Date", "Time", "Email", "Mobile"}

// Record is one confirmed appointment. All values are free text.
type Record struct {
	Timestamp  time.Time
	Name       string
	Department string
	Doctor     string
	Date       string
	Time       string
	Email      string
	Mobile     string
}

// Labeler is implemented by stores that can name where records land.
type Labeler interface {
	Label() string
}

// Row returns the record in Columns order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.Name,
		r.Department,
		r.Doctor,
		r.Date,
		r.Time,
		r.Email,
		r.Mobile,
	}
}

// Store appends records. There is no update or delete path.
type Store interface {
	Append(ctx context.Context, record Record) error
}

func stamp(r Record, now func() time.Time) Record {
	if r.Timestamp.IsZero() {
		r.Timestamp = now()
	}
	return r
}
