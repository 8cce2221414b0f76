package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpov/event-canon/app/event"
	"github.com/mkarpov/event-canon/app/metrics"
	"github.com/mkarpov/event-canon/app/store"
)

// Pipeline runs the normalize -> validate -> hash stages over one batch of
// raw provider output. The stages themselves are pure; the pipeline adds
// parallelism, logging, metrics, and the optional cross-batch seen-hash store.
type Pipeline struct {
	normalizer  *event.Normalizer
	hashStore   store.HashStore  // optional
	metrics     *metrics.Metrics // optional
	workerCount int
}

type Option func(*Pipeline)

// WithHashStore enables cross-batch deduplication against an injected store
// of previously-seen content hashes.
func WithHashStore(s store.HashStore) Option {
	return func(p *Pipeline) {
		p.hashStore = s
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithWorkerCount sets how many goroutines normalize a batch. Records are
// independent of each other, so this is purely a throughput knob; output
// order always matches input order.
func WithWorkerCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workerCount = n
		}
	}
}

func New(normalizer *event.Normalizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		normalizer:  normalizer,
		workerCount: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report is the outcome of one pipeline run. Valid events carry their
// content hash; rejected events retain their reason.
type Report struct {
	RunID         string                  `json:"run_id"`
	SchemaVersion int                     `json:"schema_version"`
	Valid         []event.NormalizedEvent `json:"valid"`
	Rejected      []event.RejectedEvent   `json:"rejected"`
	Duplicates    []event.HashGroup       `json:"duplicates,omitempty"`
	Stats         Stats                   `json:"stats"`
}

type Stats struct {
	Received       int                        `json:"received"`
	Valid          int                        `json:"valid"`
	Rejected       int                        `json:"rejected"`
	RejectReasons  map[event.RejectReason]int `json:"reject_reasons,omitempty"`
	DuplicateCount int                        `json:"duplicate_count"`
	PreviouslySeen int                        `json:"previously_seen"`
	ElapsedMs      int64                      `json:"elapsed_ms"`
}

// Run processes one raw batch. The input is typed as any because provider
// payloads arrive as decoded JSON; non-list input yields an empty report.
// The only error source is the seen-hash store: the transformation stages
// themselves never fail on malformed data.
func (p *Pipeline) Run(ctx context.Context, raw any) (*Report, error) {
	runID := uuid.New().String()
	startTime := time.Now()

	normalized := p.normalizeParallel(raw)
	slog.Debug("Batch normalized", "run_id", runID, "count", len(normalized))
	if p.metrics != nil {
		p.metrics.EventsNormalized.Add(float64(len(normalized)))
	}

	result := event.ValidateBatch(normalized)
	reasons := make(map[event.RejectReason]int)
	for _, rejected := range result.Invalid {
		reasons[rejected.Reason]++
		slog.Debug("Event rejected", "run_id", runID, "reason", rejected.Reason, "title", rejected.Event.Title)
		if p.metrics != nil {
			p.metrics.EventsRejected.WithLabelValues(string(rejected.Reason)).Inc()
		}
	}
	if p.metrics != nil {
		p.metrics.EventsValid.Add(float64(len(result.Valid)))
	}

	// Stamp each valid event with its content hash before handing it on.
	valid := make([]event.NormalizedEvent, 0, len(result.Valid))
	for _, e := range result.Valid {
		e.ContentHash = event.GenerateEventHash(e)
		valid = append(valid, e)
	}

	duplicates := event.FindDuplicatesByHash(valid)
	duplicateCount := 0
	for _, group := range duplicates {
		// Every member past the first is a duplicate of the group.
		duplicateCount += group.Count - 1
	}
	if p.metrics != nil {
		p.metrics.DuplicateEvents.Add(float64(duplicateCount))
	}

	previouslySeen, err := p.markSeen(ctx, valid)
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.PreviouslySeen.Add(float64(previouslySeen))
	}

	report := &Report{
		RunID:         runID,
		SchemaVersion: result.SchemaVersion,
		Valid:         valid,
		Rejected:      result.Invalid,
		Duplicates:    duplicates,
		Stats: Stats{
			Received:       len(normalized),
			Valid:          len(valid),
			Rejected:       len(result.Invalid),
			RejectReasons:  reasons,
			DuplicateCount: duplicateCount,
			PreviouslySeen: previouslySeen,
			ElapsedMs:      time.Since(startTime).Milliseconds(),
		},
	}

	slog.Info("Batch processed",
		"run_id", runID,
		"received", report.Stats.Received,
		"valid", report.Stats.Valid,
		"rejected", report.Stats.Rejected,
		"duplicates", report.Stats.DuplicateCount,
		"previously_seen", report.Stats.PreviouslySeen,
		"elapsed_ms", report.Stats.ElapsedMs)

	return report, nil
}

// normalizeParallel maps the normalizer over the batch with a small worker
// pool. Each record is independent, so workers share nothing but the job
// index; results land at their input position.
func (p *Pipeline) normalizeParallel(raw any) []event.NormalizedEvent {
	raws := event.AsBatch(raw)
	if len(raws) == 0 {
		return []event.NormalizedEvent{}
	}

	workerCount := p.workerCount
	if workerCount > len(raws) {
		workerCount = len(raws)
	}

	results := make([]event.NormalizedEvent, len(raws))
	jobs := make(chan int, len(raws))

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.normalizer.Run(raws[i])
			}
		}()
	}

	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// markSeen checks each valid event against the seen-hash store and records
// the new ones, returning how many were already known from earlier batches.
func (p *Pipeline) markSeen(ctx context.Context, valid []event.NormalizedEvent) (int, error) {
	if p.hashStore == nil {
		return 0, nil
	}

	previouslySeen := 0
	for _, e := range valid {
		seen, err := p.hashStore.Get(ctx, e.ContentHash)
		if err != nil {
			return 0, err
		}
		if seen {
			previouslySeen++
			continue
		}
		if err := p.hashStore.Put(ctx, e.ContentHash); err != nil {
			return 0, err
		}
	}
	return previouslySeen, nil
}
