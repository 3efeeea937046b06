package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"catering-backend/cache"
	"catering-backend/costing"
	"catering-backend/metrics"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a single-entity query names an unknown entity.
var ErrNotFound = errors.New("entity not found")

const alertLookback = 24 * time.Hour

type Options struct {
	LoadTimeout time.Duration
	SnapshotTTL time.Duration
	// Results caches variation rankings. Nil disables result caching.
	Results cache.Store[[]costing.VariationResult]
}

// AnalyticsService answers cost questions over snapshots of the raw data.
// Snapshots are shared between requests until SnapshotTTL expires; a
// snapshot loaded for a later window end also serves earlier dates.
type AnalyticsService struct {
	source      costing.Source
	log         *zap.Logger
	loadTimeout time.Duration

	snapshots *cache.Memory[*costing.Snapshot]
	results   cache.Store[[]costing.VariationResult]

	loadMu sync.Mutex
	now    func() time.Time
}

func NewAnalyticsService(src costing.Source, opts Options, log *zap.Logger) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	ttl := opts.SnapshotTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsService{
		source:      src,
		log:         log,
		loadTimeout: opts.LoadTimeout,
		snapshots:   cache.NewMemory[*costing.Snapshot](ttl, nil),
		results:     opts.Results,
		now:         time.Now,
	}
}

// GetVariations ranks every entity of kind by cost movement between from and
// to (ISO dates). An unreadable or reversed range gives an empty ranking.
func (s *AnalyticsService) GetVariations(ctx context.Context, kind costing.Kind, from, to string) ([]costing.VariationResult, error) {
	start, end, ok := s.parseRange("variations", from, to)
	if !ok {
		return []costing.VariationResult{}, nil
	}

	key := cache.ResultKey("variations", string(kind), "", start, end)
	if s.results != nil {
		if cached, hit := s.results.Get(ctx, key); hit {
			return cached, nil
		}
	}

	snap, err := s.snapshotFor(ctx, end)
	if err != nil {
		return nil, err
	}
	defer s.observe("variations", kind)()

	results := snap.Analyze(kind, start, end)
	if s.results != nil {
		s.results.Set(ctx, key, results)
	}
	return results, nil
}

// GetHistory samples the cost of one entity over [from, to].
func (s *AnalyticsService) GetHistory(ctx context.Context, id string, kind costing.Kind, from, to string) ([]costing.HistoryPoint, error) {
	start, end, ok := s.parseRange("history", from, to)
	if !ok {
		return []costing.HistoryPoint{}, nil
	}
	snap, err := s.entitySnapshot(ctx, id, kind, end)
	if err != nil {
		return nil, err
	}
	defer s.observe("history", kind)()

	return snap.History(id, kind, start, end), nil
}

// GetBreakdown splits the variation of an elaboration or recipe by component.
func (s *AnalyticsService) GetBreakdown(ctx context.Context, id string, kind costing.Kind, from, to string) ([]costing.ComponentBreakdown, error) {
	start, end, ok := s.parseRange("breakdown", from, to)
	if !ok {
		return []costing.ComponentBreakdown{}, nil
	}
	snap, err := s.entitySnapshot(ctx, id, kind, end)
	if err != nil {
		return nil, err
	}
	defer s.observe("breakdown", kind)()

	return snap.Breakdown(id, kind, start, end), nil
}

// GetCostEvents lists the days up to `to` on which the entity's inputs
// changed price. An empty `to` means today.
func (s *AnalyticsService) GetCostEvents(ctx context.Context, id string, kind costing.Kind, to string) ([]costing.CostEvent, error) {
	end := s.today()
	if strings.TrimSpace(to) != "" {
		d, ok := parseDate(to)
		if !ok {
			s.log.Info("invalid date", zap.String("operation", "events"), zap.String("to", to))
			return []costing.CostEvent{}, nil
		}
		end = d
	}
	snap, err := s.entitySnapshot(ctx, id, kind, end)
	if err != nil {
		return nil, err
	}
	defer s.observe("events", kind)()

	return snap.CostEvents(id, kind, end), nil
}

// GetPriceAlerts reports purchased item price moves of at least
// thresholdPercent dated on or after since. An empty since means the last
// 24 hours.
func (s *AnalyticsService) GetPriceAlerts(ctx context.Context, since string, thresholdPercent float64) ([]costing.PriceAlert, error) {
	from := s.now().Add(-alertLookback)
	if strings.TrimSpace(since) != "" {
		d, ok := parseDate(since)
		if !ok {
			s.log.Info("invalid date", zap.String("operation", "alerts"), zap.String("since", since))
			return []costing.PriceAlert{}, nil
		}
		from = d
	}
	snap, err := s.snapshotFor(ctx, s.today())
	if err != nil {
		return nil, err
	}
	defer s.observe("alerts", costing.KindPurchasedItem)()

	return snap.PriceAlerts(from, thresholdPercent), nil
}

func (s *AnalyticsService) entitySnapshot(ctx context.Context, id string, kind costing.Kind, end time.Time) (*costing.Snapshot, error) {
	snap, err := s.snapshotFor(ctx, end)
	if err != nil {
		return nil, err
	}
	if !snap.Exists(id, kind) {
		return nil, ErrNotFound
	}
	return snap, nil
}

// snapshotFor returns a live snapshot covering end, loading one if none is
// live. Loads are serialized so concurrent misses share a single fetch.
func (s *AnalyticsService) snapshotFor(ctx context.Context, end time.Time) (*costing.Snapshot, error) {
	if snap := s.liveSnapshot(end); snap != nil {
		metrics.SnapshotReuse.Inc()
		return snap, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if snap := s.liveSnapshot(end); snap != nil {
		metrics.SnapshotReuse.Inc()
		return snap, nil
	}

	started := time.Now()
	snap, err := costing.Load(ctx, s.source, end, s.loadTimeout, s.log)
	metrics.RecordLoad(time.Since(started).Seconds(), err)
	if err != nil {
		s.log.Error("snapshot load failed", zap.Time("windowEnd", end), zap.Error(err))
		return nil, err
	}

	u := snap.Unresolved()
	metrics.RecordUnresolved(u.IngredientLinks, u.ComponentRefs, u.UsageRefs, u.FuzzyUsageRefs, u.PricePoints)
	s.snapshots.Set(ctx, cache.SnapshotKey(end), snap)
	return snap, nil
}

func (s *AnalyticsService) liveSnapshot(end time.Time) *costing.Snapshot {
	var found *costing.Snapshot
	s.snapshots.Range(func(_ string, snap *costing.Snapshot) bool {
		if snap.Covers(end) {
			found = snap
			return false
		}
		return true
	})
	return found
}

func (s *AnalyticsService) parseRange(op, from, to string) (time.Time, time.Time, bool) {
	start, okFrom := parseDate(from)
	end, okTo := parseDate(to)
	if !okFrom || !okTo || start.After(end) {
		s.log.Info("invalid range", zap.String("operation", op), zap.String("from", from), zap.String("to", to))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (s *AnalyticsService) today() time.Time {
	return calendarDay(s.now().UTC())
}

func (s *AnalyticsService) observe(op string, kind costing.Kind) func() {
	started := time.Now()
	metrics.AnalysesTotal.WithLabelValues(op, string(kind)).Inc()
	return func() {
		metrics.AnalysisDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	}
}

// parseDate accepts 2006-01-02 or RFC 3339 and keeps the calendar day as
// written, at UTC midnight.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDay(t), true
		}
	}
	return time.Time{}, false
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
