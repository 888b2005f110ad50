package enrich

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// QuotaSentinel marks an id whose search hit the daily quota.
const QuotaSentinel = "LIMIT_REACHED"

// Result is one progress entry: a catalog item id and the image URL found for
// it (empty when no image was found).
type Result struct {
	ID       string
	ImageURL string
}

// Progress persists enrichment results as a CSV checkpoint. Every save
// rewrites the whole file so a crash loses at most the in-flight item.
type Progress struct {
	Path string
}

// Load reads the checkpoint into an id to image_url map. A missing file is an
// empty map, not an error.
func (p *Progress) Load() (map[string]string, error) {
	f, err := os.Open(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open progress file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	m := make(map[string]string, len(records))
	for i, rec := range records {
		if i == 0 {
			// header row
			continue
		}
		if len(rec) < 2 {
			continue
		}
		m[rec[0]] = rec[1]
	}
	return m, nil
}

// Save rewrites the checkpoint. The file is written to a temp path and
// renamed into place so a partial write cannot corrupt it.
func (p *Progress) Save(results []Result) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".progress-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"id", "image_url"}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write progress header: %w", err)
	}
	for _, r := range results {
		if err := w.Write([]string{r.ID, r.ImageURL}); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write progress record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp progress file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}
