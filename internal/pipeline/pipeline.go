// Package pipeline applies record normalization across uploaded batches and
// persists the surviving subset. Records in a batch are normalized
// concurrently with no ordering guarantee; a record that fails is skipped and
// counted, never aborting its siblings.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/firewatch/burn-data-service/internal/domain"
	"github.com/firewatch/burn-data-service/internal/observability"
	"github.com/firewatch/burn-data-service/internal/store"
)

// Result reports the outcome of one ingested batch.
type Result struct {
	Persisted int `json:"persisted"`
	Skipped   int `json:"skipped"`
}

// Ingestor normalizes raw record batches and hands the valid subset to the
// store in a single bulk write.
type Ingestor struct {
	store    store.Store
	resolver domain.OwnershipResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
	workers  int
}

// NewIngestor creates an Ingestor fanning normalization out over the given
// number of workers (minimum 1).
func NewIngestor(st store.Store, resolver domain.OwnershipResolver, logger *slog.Logger, metrics *observability.Metrics, workers int) *Ingestor {
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{
		store:    st,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
		workers:  workers,
	}
}

// SaveFires normalizes and persists a batch of general burn records.
// The returned error reports only batch-level failure (the bulk write);
// per-record failures are counted in Result.Skipped.
func (i *Ingestor) SaveFires(ctx context.Context, records []domain.RawRecord) (Result, error) {
	start := time.Now()
	i.metrics.BatchSize.Observe(float64(len(records)))

	fires := fanOut(ctx, records, i.workers, func(ctx context.Context, raw domain.RawRecord) (domain.Fire, error) {
		return domain.NormalizeFire(ctx, raw, i.resolver)
	}, i.skipLogger("fires"))

	if len(fires) > 0 {
		if err := i.store.PersistFires(ctx, fires); err != nil {
			return Result{}, fmt.Errorf("persist fires batch: %w", err)
		}
	}

	i.metrics.RecordsIngested.WithLabelValues("fires").Add(float64(len(fires)))
	i.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	return Result{Persisted: len(fires), Skipped: len(records) - len(fires)}, nil
}

// SaveEscapes normalizes and persists a batch of escaped-fire records.
func (i *Ingestor) SaveEscapes(ctx context.Context, records []domain.RawRecord) (Result, error) {
	start := time.Now()
	i.metrics.BatchSize.Observe(float64(len(records)))

	escapes := fanOut(ctx, records, i.workers, func(ctx context.Context, raw domain.RawRecord) (domain.EscapedFire, error) {
		return domain.NormalizeEscape(ctx, raw, i.resolver)
	}, i.skipLogger("escapes"))

	if len(escapes) > 0 {
		if err := i.store.PersistEscapes(ctx, escapes); err != nil {
			return Result{}, fmt.Errorf("persist escapes batch: %w", err)
		}
	}

	i.metrics.RecordsIngested.WithLabelValues("escapes").Add(float64(len(escapes)))
	i.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	return Result{Persisted: len(escapes), Skipped: len(records) - len(escapes)}, nil
}

// skipLogger records one skipped record: a warn log plus a reason-labelled
// metric increment.
func (i *Ingestor) skipLogger(dataset string) func(err error) {
	return func(err error) {
		i.logger.Warn("record skipped", "dataset", dataset, "error", err)
		i.metrics.RecordsSkipped.WithLabelValues(dataset, domain.SkipReason(err)).Inc()
	}
}

// fanOut normalizes records across a bounded worker pool, collecting
// successes in completion order. Failed records invoke onSkip and are
// dropped.
func fanOut[T any](
	ctx context.Context,
	records []domain.RawRecord,
	workers int,
	normalize func(context.Context, domain.RawRecord) (T, error),
	onSkip func(error),
) []T {
	jobs := make(chan domain.RawRecord)

	var mu sync.Mutex
	out := make([]T, 0, len(records))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				entity, err := normalize(ctx, raw)
				mu.Lock()
				if err != nil {
					onSkip(err)
				} else {
					out = append(out, entity)
				}
				mu.Unlock()
			}
		}()
	}

	for _, raw := range records {
		jobs <- raw
	}
	close(jobs)
	wg.Wait()

	return out
}
