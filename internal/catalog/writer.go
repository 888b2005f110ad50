package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// WriteFile writes items to path, picking the format from the file extension.
func WriteFile(path string, items []Item) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		return writeCSV(path, items)
	case ".parquet":
		return writeParquet(path, items)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: .csv, .parquet)", ext)
	}
}

func writeCSV(path string, items []Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "description", "specification", "srp", "added_by"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range items {
		srp := ""
		if item.SRP != nil {
			srp = strconv.FormatFloat(*item.SRP, 'f', -1, 64)
		}
		record := []string{item.Name, item.Description, item.Specification, srp, item.AddedBy}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

func writeParquet(path string, items []Item) error {
	if err := parquet.WriteFile(path, items); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}
	return nil
}
