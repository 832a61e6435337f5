package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"optiqc/internal/infrastructure"
)

// DefaultReportTTL is how long a generated report stays downloadable.
const DefaultReportTTL = 30 * time.Minute

// ErrReportNotFound is returned when a report ID is unknown or expired.
var ErrReportNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "report not found" }

// StoredReport pairs a generation summary with the rendered deck bytes.
type StoredReport struct {
	Summary Summary
	Deck    []byte
	Expires time.Time
}

// ReportStore keeps generated decks in memory until they expire.
// Reports are small enough (a few MB of PNGs) that disk persistence
// is not worth the trouble for a factory-floor tool.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]StoredReport
	ttl     time.Duration
	logger  *slog.Logger
}

// NewReportStore creates a store with the given TTL.
func NewReportStore(ttl time.Duration, logger *slog.Logger) *ReportStore {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportStore{
		reports: make(map[string]StoredReport),
		ttl:     ttl,
		logger:  infrastructure.WithComponent(logger, "report_store"),
	}
}

// Put stores a generated report under its ID.
func (s *ReportStore) Put(summary Summary, deck []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[summary.ReportID] = StoredReport{
		Summary: summary,
		Deck:    deck,
		Expires: time.Now().Add(s.ttl),
	}
}

// Get returns the stored report for the given ID.
func (s *ReportStore) Get(id string) (StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.reports[id]
	if !ok || time.Now().After(rep.Expires) {
		return StoredReport{}, ErrReportNotFound
	}
	return rep, nil
}

// List returns summaries of all unexpired reports, newest first.
func (s *ReportStore) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	out := make([]Summary, 0, len(s.reports))
	for _, rep := range s.reports {
		if now.After(rep.Expires) {
			continue
		}
		out = append(out, rep.Summary)
	}
	sortSummaries(out)
	return out
}

// Len returns the number of stored reports, expired included.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// StartJanitor evicts expired reports until the context is cancelled.
func (s *ReportStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictExpired()
			}
		}
	}()
}

func (s *ReportStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, rep := range s.reports {
		if now.After(rep.Expires) {
			delete(s.reports, id)
			s.logger.Debug("evicted expired report", "report_id", id)
		}
	}
}

func sortSummaries(list []Summary) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].GeneratedAt.After(list[j].GeneratedAt)
	})
}
