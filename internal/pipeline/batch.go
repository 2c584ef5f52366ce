package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/metrics"
	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// BatchItem is one (source URL, claim) pair of a batch request
type BatchItem struct {
	URL   string `json:"url"`
	Claim string `json:"claim"`
}

// BatchResult is the outcome of a batch verification. Records holds every
// item that produced a record, successful or degraded; items that could not
// even produce a degraded record are excluded and visible only through
// CompletedCount < RequestedCount.
type BatchResult struct {
	Records        []*model.VerificationRecord `json:"results"`
	CompletedCount int                         `json:"completed_count"`
	RequestedCount int                         `json:"requested_count"`
}

// VerifyBatch processes items strictly sequentially, bounding load on the
// shared fetcher and embedding engine and keeping progress monotonic.
//
// After each item an integer percentage is sent to progress (if non-nil);
// the sequence is non-decreasing and ends at exactly 100 for any fully
// processed non-empty batch, regardless of per-item failures. The channel is
// closed when the batch finishes; the caller must drain it.
//
// Cancellation is observed between items: the in-flight item completes and
// persists, then no further items are scheduled.
func (v *Verifier) VerifyBatch(ctx context.Context, items []BatchItem, progress chan<- int) (*BatchResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &BatchResult{
		Records:        make([]*model.VerificationRecord, 0, len(items)),
		RequestedCount: len(items),
	}
	if len(items) == 0 {
		return result, nil
	}

	total := len(items)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			v.log.Info("batch abandoned",
				zap.Int("processed", i),
				zap.Int("requested", total))
			return result, err
		}

		rec, err := v.Verify(ctx, item.URL, item.Claim)
		if err != nil {
			// Isolated to this item; the batch continues.
			metrics.RecordBatchItem("failed")
			v.log.Warn("batch item failed",
				zap.Int("index", i),
				zap.String("url", item.URL),
				zap.Error(err))
		} else {
			metrics.RecordBatchItem("completed")
			result.Records = append(result.Records, rec)
			result.CompletedCount++
		}

		if progress != nil {
			progress <- percent(i+1, total)
		}
	}

	if result.CompletedCount == 0 {
		return result, fmt.Errorf("all %d batch items failed", total)
	}
	return result, nil
}

func percent(done, total int) int {
	return int(math.Round(float64(done) / float64(total) * 100))
}

// ReadItemsFromFile reads batch items from a file: one tab-separated
// "url<TAB>claim" pair per line, blank lines and #-comments skipped,
// duplicate pairs dropped
func ReadItemsFromFile(path string) ([]BatchItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var items []BatchItem
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected url<TAB>claim", lineNo)
		}

		item := BatchItem{
			URL:   strings.TrimSpace(parts[0]),
			Claim: strings.TrimSpace(parts[1]),
		}
		key := item.URL + "\x00" + item.Claim
		if !seen[key] {
			seen[key] = true
			items = append(items, item)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return items, nil
}
