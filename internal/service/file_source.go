package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// FileSource reads connection records from a JSON file. The file holds a
// plain array of records in the host-connections wire shape.
type FileSource struct {
	path string
}

// NewFileSource returns a source bound to the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Records loads and decodes the file.
func (f *FileSource) Records(ctx context.Context) ([]domain.ConnectionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var records []domain.ConnectionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records file %s: %w", f.path, err)
	}
	return records, nil
}

// StoreSource adapts a repository fetch into a RecordSource.
type StoreSource struct {
	fetch func(ctx context.Context) ([]domain.ConnectionRecord, error)
}

// NewStoreSource wraps a repository-style fetch function.
func NewStoreSource(fetch func(ctx context.Context) ([]domain.ConnectionRecord, error)) *StoreSource {
	return &StoreSource{fetch: fetch}
}

// Records delegates to the wrapped fetch.
func (s *StoreSource) Records(ctx context.Context) ([]domain.ConnectionRecord, error) {
	return s.fetch(ctx)
}
