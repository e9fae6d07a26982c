package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// FileExporter writes report rows as timestamped CSV or JSON files under a
// reports directory and returns the path relative to it.
type FileExporter struct {
	dir string
}

func NewFileExporter(dir string) *FileExporter { return &FileExporter{dir: dir} }

var _ usecase.ReportExporter = (*FileExporter)(nil)

func (e *FileExporter) Export(rows []usecase.SalesPerDayRow, format, baseName string) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	switch strings.ToUpper(format) {
	case "CSV":
		name := fmt.Sprintf("%s_%s.csv", baseName, stamp)
		if err := e.writeCSV(filepath.Join(e.dir, name), rows); err != nil {
			return "", err
		}
		return name, nil
	case "JSON":
		name := fmt.Sprintf("%s_%s.json", baseName, stamp)
		if err := e.writeJSON(filepath.Join(e.dir, name), rows); err != nil {
			return "", err
		}
		return name, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
}

func (e *FileExporter) writeCSV(path string, rows []usecase.SalesPerDayRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "total"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Date, r.Total}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *FileExporter) writeJSON(path string, rows []usecase.SalesPerDayRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
