package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"euromillions/internal/models"
	"euromillions/internal/normalize"
	"euromillions/internal/scrape"
	"euromillions/internal/verify"
)

// Fetcher is the transport collaborator. Both calls are all-or-nothing: a
// success yields a complete value, a failure yields an error and nothing
// else.
type Fetcher interface {
	Markup(ctx context.Context, url string) (string, error)
	Draws(ctx context.Context, url string) ([]map[string]any, error)
}

// ResultService runs the ingestion pipeline and holds the most recent
// snapshot. Each run is an independent, stateless transformation from fresh
// inputs to a fresh snapshot; the only shared state is the stored result.
type ResultService struct {
	mu      sync.RWMutex
	fetcher Fetcher
	sources models.SourceURLs
	latest  *models.Snapshot
}

// NewResultService creates a ResultService fetching from the given sources.
func NewResultService(f Fetcher, sources models.SourceURLs) *ResultService {
	return &ResultService{
		fetcher: f,
		sources: sources,
	}
}

// Latest returns the snapshot from the most recent successful run, or nil
// when no run has completed yet.
func (s *ResultService) Latest() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Refresh runs the pipeline once: scrape the latest draw from the history
// page, normalize the API history, verify the two views of the latest draw,
// and store the assembled snapshot. The whole run shares a single UTC
// timestamp so the emitted artifacts stay consistent.
func (s *ResultService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	markup, err := s.fetcher.Markup(ctx, s.sources.Scrape)
	if err != nil {
		return nil, fmt.Errorf("fetch history page: %w", err)
	}
	scraped, err := scrape.Latest(markup)
	if err != nil {
		return nil, fmt.Errorf("extract latest draw: %w", err)
	}
	if scraped.JackpotEUR == nil {
		logger.Warningf("Jackpot banner could not be resolved; continuing with jackpot unknown")
	}

	records, err := s.fetcher.Draws(ctx, s.sources.API)
	if err != nil {
		return nil, fmt.Errorf("fetch draws api: %w", err)
	}
	history := normalize.History(records)
	apiLatest := history[0]

	report := verify.Compare(scraped, apiLatest)
	if !report.AllOK {
		logger.Warningf("Latest draw mismatch between scrape and API: date=%v numbers=%v stars=%v",
			report.DateMatch, report.NumbersMatch, report.StarsMatch)
	}

	snap := &models.Snapshot{
		Timestamp:         time.Now().UTC().Truncate(time.Second),
		RunID:             uuid.NewString(),
		CurrentJackpotEUR: scraped.JackpotEUR,
		LastDraw:          scraped,
		Verification:      report,
		History:           history,
		Sources:           s.sources,
	}

	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	logger.Infof("Refreshed snapshot %s: draw %s, %d history records, verified=%v",
		snap.RunID, scraped.Date, len(history), report.AllOK)
	return snap, nil
}

// RunPeriodic refreshes on a fixed interval until the context is cancelled.
// A failed refresh is logged and retried on the next tick; the previous
// snapshot stays available in the meantime.
func (s *ResultService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				logger.Errorf("Periodic refresh failed: %v", err)
			}
		}
	}
}
