package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firewatch/burn-data-service/internal/domain"
	"github.com/firewatch/burn-data-service/internal/observability"
	"github.com/firewatch/burn-data-service/internal/pipeline"
	"github.com/firewatch/burn-data-service/internal/store"
)

// --- mocks ---

type stubResolver struct {
	label   string
	err     error
	calls   atomic.Int64
	failLat float64 // when set, only this latitude fails
}

func (s *stubResolver) Resolve(_ context.Context, lat, _ float64) (string, error) {
	s.calls.Add(1)
	if s.err != nil && (s.failLat == 0 || s.failLat == lat) {
		return "", s.err
	}
	return s.label, nil
}

type failingStore struct {
	*store.Memory
	err error
}

func (f *failingStore) PersistFires(context.Context, []domain.Fire) error   { return f.err }
func (f *failingStore) PersistEscapes(context.Context, []domain.EscapedFire) error { return f.err }

func fireRecord(name, date, year string) domain.RawRecord {
	return domain.RawRecord{
		"name":      name,
		"acres":     "25.0",
		"latitude":  "35.30",
		"longitude": "-120.37",
		"burn_type": "Broadcast",
		"county":    "Kern",
		"source":    "CalFire",
		"date":      date,
		"year":      year,
	}
}

func escapeRecord(name string) domain.RawRecord {
	return domain.RawRecord{
		"Name":          name,
		"GIS_ACRES":     "48.2",
		"lat":           "37.19",
		"lon":           "-119.26",
		"TreatmentType": "Pile",
		"Counties":      "Fresno",
		"CountyUNIT_ID": "FKU-031",
		"Source":        "USFS",
		"Date":          "2020-09-04",
		"Year":          "2020",
	}
}

func newIngestor(st store.Store, resolver domain.OwnershipResolver, workers int) *pipeline.Ingestor {
	return pipeline.NewIngestor(st, resolver, slog.Default(), observability.NewMetricsForTesting(), workers)
}

// --- tests ---

func TestIngestor_SaveFires(t *testing.T) {
	ctx := context.Background()

	t.Run("persists every valid record", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "Private"}, 4)

		result, err := ing.SaveFires(ctx, []domain.RawRecord{
			fireRecord("a", "06/14/2019", "2019"),
			fireRecord("b", "07/01/2020", "2020"),
			fireRecord("c", "08/21/2021", "2021"),
		})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 3, Skipped: 0}, result)

		all, err := mem.FindAllFires(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		for _, f := range all {
			assert.Equal(t, "Private", f.Owner)
			assert.NotZero(t, f.ID)
		}
	})

	t.Run("bad date does not block siblings", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "State"}, 4)

		result, err := ing.SaveFires(ctx, []domain.RawRecord{
			fireRecord("good-1", "06/14/2019", "2019"),
			fireRecord("no-date", "13/45/2020", "2020"),
			fireRecord("good-2", "08/21/2021", "2021"),
		})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 3, Skipped: 0}, result)

		all, err := mem.FindAllFires(ctx)
		require.NoError(t, err)
		withDate := 0
		for _, f := range all {
			assert.NotZero(t, f.Year)
			if f.Month != nil {
				require.NotNil(t, f.Day)
				withDate++
			} else {
				assert.Nil(t, f.Day)
			}
		}
		assert.Equal(t, 2, withDate)
	})

	t.Run("invalid records are skipped and counted", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "x"}, 2)

		noYear := fireRecord("no-year", "06/14/2019", "2019")
		delete(noYear, "year")
		badAcres := fireRecord("bad-acres", "06/14/2019", "2019")
		badAcres["acres"] = "many"

		result, err := ing.SaveFires(ctx, []domain.RawRecord{
			fireRecord("good", "06/14/2019", "2019"),
			noYear,
			badAcres,
		})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 1, Skipped: 2}, result)

		all, err := mem.FindAllFires(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "good", all[0].Name)
	})

	t.Run("resolver failure excludes only the affected record", func(t *testing.T) {
		mem := store.NewMemory()
		resolver := &stubResolver{label: "ok", err: errors.New("down"), failLat: 40.0}
		ing := newIngestor(mem, resolver, 2)

		remote := fireRecord("remote", "06/14/2019", "2019")
		remote["latitude"] = "40.0"

		result, err := ing.SaveFires(ctx, []domain.RawRecord{
			fireRecord("near", "06/14/2019", "2019"),
			remote,
		})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 1, Skipped: 1}, result)
	})

	t.Run("all records invalid still succeeds with zero persisted", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "x"}, 2)

		bad := fireRecord("bad", "06/14/2019", "nineteen")
		result, err := ing.SaveFires(ctx, []domain.RawRecord{bad})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 0, Skipped: 1}, result)

		all, err := mem.FindAllFires(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("bulk write failure is a batch-level error", func(t *testing.T) {
		boom := errors.New("storage unavailable")
		ing := newIngestor(&failingStore{Memory: store.NewMemory(), err: boom}, &stubResolver{label: "x"}, 2)

		_, err := ing.SaveFires(ctx, []domain.RawRecord{fireRecord("a", "06/14/2019", "2019")})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("large batch across many workers", func(t *testing.T) {
		mem := store.NewMemory()
		resolver := &stubResolver{label: "Federal"}
		ing := newIngestor(mem, resolver, 8)

		records := make([]domain.RawRecord, 0, 200)
		for n := 0; n < 200; n++ {
			records = append(records, fireRecord(fmt.Sprintf("fire-%d", n), "06/14/2019", "2019"))
		}

		result, err := ing.SaveFires(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 200, Skipped: 0}, result)
		assert.Equal(t, int64(200), resolver.calls.Load(), "one resolver call per record")
	})
}

func TestIngestor_SaveEscapes(t *testing.T) {
	ctx := context.Background()

	t.Run("persists valid escapes", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "Tribal"}, 2)

		result, err := ing.SaveEscapes(ctx, []domain.RawRecord{escapeRecord("one"), escapeRecord("two")})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 2, Skipped: 0}, result)

		all, err := mem.FindAllEscapes(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Tribal", all[0].Owner)
	})

	t.Run("skips records missing GIS columns", func(t *testing.T) {
		mem := store.NewMemory()
		ing := newIngestor(mem, &stubResolver{label: "x"}, 2)

		incomplete := escapeRecord("incomplete")
		delete(incomplete, "TreatmentType")

		result, err := ing.SaveEscapes(ctx, []domain.RawRecord{escapeRecord("whole"), incomplete})

		require.NoError(t, err)
		assert.Equal(t, pipeline.Result{Persisted: 1, Skipped: 1}, result)
	})
}
