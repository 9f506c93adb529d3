package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

type stubWriter struct {
	mu      sync.Mutex
	written []domain.ConnectionRecord
	failOn  domain.HostID
}

func (s *stubWriter) UpsertConnection(_ context.Context, rec domain.ConnectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.SourceID == s.failOn {
		return errors.New("write rejected")
	}
	s.written = append(s.written, rec)
	return nil
}

func TestBulkIngestorWritesAllRecords(t *testing.T) {
	writer := &stubWriter{}
	ingestor := NewBulkIngestor(writer, 3)

	require.NoError(t, ingestor.IngestConnections(context.Background(), testRecords()))
	assert.Len(t, writer.written, 3)
}

func TestBulkIngestorAggregatesErrors(t *testing.T) {
	writer := &stubWriter{failOn: "a"}
	ingestor := NewBulkIngestor(writer, 2)

	err := ingestor.IngestConnections(context.Background(), testRecords())
	require.Error(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	// Two of the three records have source a.
	assert.Len(t, taskErr.Errors, 2)
	assert.Len(t, writer.written, 1)
}

func TestBulkIngestorEmptyInput(t *testing.T) {
	ingestor := NewBulkIngestor(&stubWriter{}, 2)
	assert.NoError(t, ingestor.IngestConnections(context.Background(), nil))
}

func TestBulkIngestorContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ingestor := NewBulkIngestor(&stubWriter{}, 2)
	err := ingestor.IngestConnections(ctx, testRecords())
	if err != nil {
		assert.NotErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestFileSourceReadsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connections.json")
	data := `[{"source_id": 1, "source_name": "A", "target_id": "b", "target_name": "B", "podcast_title": "Show", "episodes_together": 4}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := NewFileSource(path).Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Numeric ids canonicalize to strings.
	assert.Equal(t, domain.HostID("1"), records[0].SourceID)
	assert.Equal(t, domain.HostID("b"), records[0].TargetID)
	assert.Equal(t, 4, records[0].EpisodesTogether)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")).Records(context.Background())
	assert.Error(t, err)
}
