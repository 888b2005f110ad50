package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// WriteSummary saves a machine-readable run summary as YAML under dir,
// timestamped so repeated runs never clobber each other. It returns the path
// written.
func WriteSummary(dir, name string, summary interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", name, timestamp))

	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}

	return filename, nil
}
