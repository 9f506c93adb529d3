package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// WriteRecords serializes the records into connections.json under the
// provided directory.
func WriteRecords(records []domain.ConnectionRecord, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return writeJSON(filepath.Join(dir, "connections.json"), records)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
