// Package aggjob recomputes ticker-level sentiment aggregates from raw news
// rows and persists a point-in-time snapshot per ticker per hour.
package aggjob

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// Polarity cut points for counting a news item as positive/negative.
const polarityThreshold = 0.1

// Job aggregates news sentiment into hourly snapshots. Runs are idempotent:
// a duplicate insert for an already-aggregated (ticker, hour) is a benign
// no-op, so concurrent or retried runs cannot corrupt the aggregate.
type Job struct {
	newsStore     storage.NewsItemStore
	snapshotStore storage.SentimentSnapshotStore
	clock         func() time.Time
	window        time.Duration
	logger        *log.Logger
}

// NewJob creates an aggregation job with the real clock and a 24h window.
func NewJob(newsStore storage.NewsItemStore, snapshotStore storage.SentimentSnapshotStore, logger *log.Logger) *Job {
	return &Job{
		newsStore:     newsStore,
		snapshotStore: snapshotStore,
		clock:         time.Now,
		window:        24 * time.Hour,
		logger:        logger,
	}
}

// WithClock overrides the job clock for deterministic runs.
func (j *Job) WithClock(clock func() time.Time) *Job {
	j.clock = clock
	return j
}

// WithWindow overrides the trailing aggregation window.
func (j *Job) WithWindow(window time.Duration) *Job {
	if window > 0 {
		j.window = window
	}
	return j
}

// RunResult reports one aggregation pass. Per-ticker failures are collected
// here, never thrown: one ticker failing must not abort the rest.
type RunResult struct {
	RunID             string
	HourBucket        int64 // Unix ms, UTC hour truncation
	TickersProcessed  int
	SnapshotsInserted int
	DuplicatesSkipped int
	Errors            []string
}

// tickerAccum is the order-independent fold state for one ticker. Only sums
// and counts: feeding the same batch in any order yields the same aggregate.
type tickerAccum struct {
	providerSum float64
	providerN   int
	llmSum      float64
	llmN        int
	positive    int
	negative    int
	neutral     int
	total       int
}

// Run aggregates the trailing window of news into one snapshot per ticker.
func (j *Job) Run(ctx context.Context) (*RunResult, error) {
	now := j.clock().UTC()
	result := &RunResult{
		RunID:      uuid.NewString(),
		HourBucket: now.Truncate(time.Hour).UnixMilli(),
	}

	windowStart := now.Add(-j.window).UnixMilli()
	items, err := j.newsStore.GetByTimeRange(ctx, windowStart, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("load news items: %w", err)
	}

	accums := make(map[string]*tickerAccum)
	for _, item := range items {
		if item.Ticker == "" {
			continue
		}
		acc := accums[item.Ticker]
		if acc == nil {
			acc = &tickerAccum{}
			accums[item.Ticker] = acc
		}
		acc.fold(item)
	}

	// Sort tickers for deterministic processing and error ordering.
	tickers := make([]string, 0, len(accums))
	for t := range accums {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		snapshot := accums[ticker].snapshot(ticker, result.HourBucket)
		result.TickersProcessed++

		err := j.snapshotStore.Insert(ctx, snapshot)
		switch {
		case err == nil:
			result.SnapshotsInserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			// Already aggregated for this hour: retry safety, not a failure.
			result.DuplicatesSkipped++
			j.logf("snapshot for %s @ %d already exists, skipping", ticker, result.HourBucket)
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("insert snapshot %s: %v", ticker, err))
		}
	}

	j.logf("run %s: %d tickers, %d inserted, %d duplicates, %d errors",
		result.RunID, result.TickersProcessed, result.SnapshotsInserted,
		result.DuplicatesSkipped, len(result.Errors))

	return result, nil
}

// fold accumulates one news item. Polarity uses the LLM score when present,
// falling back to the provider score.
func (a *tickerAccum) fold(item *domain.NewsItem) {
	a.total++

	if item.SentimentRaw != nil {
		a.providerSum += *item.SentimentRaw
		a.providerN++
	}
	if item.SentimentLLM != nil {
		a.llmSum += *item.SentimentLLM
		a.llmN++
	}

	var polarity *float64
	if item.SentimentLLM != nil {
		polarity = item.SentimentLLM
	} else if item.SentimentRaw != nil {
		polarity = item.SentimentRaw
	}
	switch {
	case polarity == nil:
		a.neutral++
	case *polarity > polarityThreshold:
		a.positive++
	case *polarity < -polarityThreshold:
		a.negative++
	default:
		a.neutral++
	}
}

// snapshot finalizes the fold into a persisted row.
func (a *tickerAccum) snapshot(ticker string, hourBucket int64) *domain.SentimentSnapshot {
	var providerAvg, llmAvg float64
	if a.providerN > 0 {
		providerAvg = a.providerSum / float64(a.providerN)
	}
	if a.llmN > 0 {
		llmAvg = a.llmSum / float64(a.llmN)
	}

	// Blended score is the mean of the available source averages.
	var aggregated float64
	switch {
	case a.providerN > 0 && a.llmN > 0:
		aggregated = (providerAvg + llmAvg) / 2
	case a.providerN > 0:
		aggregated = providerAvg
	case a.llmN > 0:
		aggregated = llmAvg
	}

	return &domain.SentimentSnapshot{
		Ticker:               ticker,
		Timestamp:            hourBucket,
		ProviderSentimentAvg: providerAvg,
		LLMSentimentAvg:      llmAvg,
		AggregatedScore:      aggregated,
		NewsCount24h:         a.total,
		PositiveCount:        a.positive,
		NegativeCount:        a.negative,
		NeutralCount:         a.neutral,
		Confidence:           a.confidence(providerAvg, llmAvg),
	}
}

// confidence grows with sample size (saturating at 10 items) and shrinks when
// the provider and LLM sources disagree.
func (a *tickerAccum) confidence(providerAvg, llmAvg float64) float64 {
	fill := math.Min(1, float64(a.total)/10)
	if a.providerN > 0 && a.llmN > 0 {
		agreement := 1 - math.Abs(providerAvg-llmAvg)/2
		return clamp01(fill * agreement)
	}
	return clamp01(fill)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (j *Job) logf(format string, args ...interface{}) {
	if j.logger != nil {
		j.logger.Printf(format, args...)
	}
}
