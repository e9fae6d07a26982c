package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

var sampleRows = []usecase.SalesPerDayRow{
	{Date: "2025-06-01", Total: "120.50"},
	{Date: "2025-06-02", Total: "35.00"},
}

func TestExportCSV(t *testing.T) {
	e := NewFileExporter(t.TempDir())

	name, err := e.Export(sampleRows, "csv", "sales_per_day")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "sales_per_day_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	raw, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,total", lines[0])
	assert.Equal(t, "2025-06-01,120.50", lines[1])
	assert.Equal(t, "2025-06-02,35.00", lines[2])
}

func TestExportJSON(t *testing.T) {
	e := NewFileExporter(t.TempDir())

	name, err := e.Export(sampleRows, "json", "sales_per_day")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".json"))

	raw, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(t, err)

	var got []usecase.SalesPerDayRow
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, sampleRows, got)
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := NewFileExporter(t.TempDir())

	_, err := e.Export(sampleRows, "xlsx", "sales_per_day")
	assert.Error(t, err)
}

func TestExportEmptyRows(t *testing.T) {
	e := NewFileExporter(t.TempDir())

	name, err := e.Export(nil, "csv", "sales_per_day")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(t, err)
	assert.Equal(t, "date,total", strings.TrimSpace(string(raw)))
}
