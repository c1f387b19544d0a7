package interactions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	require.NoError(t, l.Append(ctx, record("How long do guests stay?")))
	require.NoError(t, l.Append(ctx, record("hello")))
	recs, err := l.Records(ctx, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "interactions.xlsx")
	require.NoError(t, ExportXLSX(recs, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Timestamp", rows[0][0])
	assert.Equal(t, "ID", rows[0][8])
	assert.Equal(t, "How long do guests stay?", rows[1][1])
	assert.Equal(t, "stay", rows[1][2])
	assert.Equal(t, "2", rows[1][7])
	assert.Equal(t, recs[1].ID, rows[2][8])
}

func TestExportXLSX_empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ExportXLSX(nil, path))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
