// Package analyses persists completed analysis results in an append-only
// WAL so reports can replay past runs.
package analyses

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/finsight/finsight/internal/domain"
)

const (
	DefaultDir   = "./wal/analyses"
	segmentLimit = 1000
	maxSegments  = 100

	analysisKeyPrefix = "analysis_"
)

// Journal is a WAL-backed store of analysis results.
type Journal struct {
	wal *gowal.Wal
	mu  sync.Mutex
}

// NewJournal initializes a WAL-backed analysis journal.
func NewJournal(dir string) (*Journal, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "analysis_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init analysis WAL")
	}

	return &Journal{wal: wal}, nil
}

// Save appends an analysis result to the journal.
func (j *Journal) Save(result domain.AnalysisResult) error {
	if j == nil || j.wal == nil {
		return errors.New("analysis journal is not initialized")
	}
	if result.Symbol == "" {
		return errors.Wrap(domain.ErrInvalidInput, "analysis result symbol is required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "marshal analysis result")
	}

	key := fmt.Sprintf("%s%s", analysisKeyPrefix, result.Symbol)

	j.mu.Lock()
	defer j.mu.Unlock()

	nextIndex := j.wal.CurrentIndex() + 1
	return j.wal.Write(nextIndex, key, payload)
}

// Replay returns every stored analysis result in append order.
// Records that fail to decode are skipped, not fatal.
func (j *Journal) Replay() ([]domain.AnalysisResult, error) {
	if j == nil || j.wal == nil {
		return nil, errors.New("analysis journal is not initialized")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var results []domain.AnalysisResult
	for msg := range j.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, analysisKeyPrefix) {
			continue
		}
		var result domain.AnalysisResult
		if err := json.Unmarshal(msg.Value, &result); err != nil {
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// Close flushes and closes the underlying WAL.
func (j *Journal) Close() error {
	return j.wal.Close()
}
