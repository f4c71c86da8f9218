package records

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStoreWritesHeaderOnce(t *testing.T) {
	store := NewCSVStore(t.TempDir(), nil)
	store.now = fixedClock()

	require.NoError(t, store.Append(context.Background(), Record{Name: "Jane, Doe", Email: "jane@example.com"}))
	require.NoError(t, store.Append(context.Background(), Record{Name: "John", Mobile: "5550001111"}))

	f, err := os.Open(store.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Jane, Doe", rows[1][1])
	assert.Equal(t, "2024-03-14 09:30:00", rows[1][0])
	assert.Equal(t, "5550001111", rows[2][7])
}
