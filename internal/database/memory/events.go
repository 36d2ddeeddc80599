package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type eventRepository struct {
	mu     sync.RWMutex
	events []models.Event
	ids    *idSource
}

func newEventRepository(ids *idSource) *eventRepository {
	return &eventRepository{ids: ids}
}

func matchEvent(e *models.Event, filter database.EventFilter) bool {
	if !filter.From.IsZero() && e.Timestamp.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !e.Timestamp.Before(filter.To) {
		return false
	}
	if filter.EventType != "" && e.EventType != filter.EventType {
		return false
	}
	if filter.ToolID != "" && e.ToolID != filter.ToolID {
		return false
	}
	return true
}

func (r *eventRepository) Insert(ctx context.Context, event *models.Event) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *event
	rec.ID = r.ids.ID()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	r.events = append(r.events, rec)

	out := rec
	return &out, nil
}

func (r *eventRepository) Count(ctx context.Context, filter database.EventFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for i := range r.events {
		if matchEvent(&r.events[i], filter) {
			count++
		}
	}

	return count, nil
}

func (r *eventRepository) DistinctIPs(ctx context.Context, filter database.EventFilter) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var ips []string
	for i := range r.events {
		if !matchEvent(&r.events[i], filter) {
			continue
		}
		if _, ok := seen[r.events[i].IP]; ok {
			continue
		}
		seen[r.events[i].IP] = struct{}{}
		ips = append(ips, r.events[i].IP)
	}

	return ips, nil
}

func (r *eventRepository) countByFormat(filter database.EventFilter, layout string) map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range r.events {
		if matchEvent(&r.events[i], filter) {
			counts[r.events[i].Timestamp.Format(layout)]++
		}
	}

	return counts
}

func (r *eventRepository) CountByDay(ctx context.Context, filter database.EventFilter) (map[string]int64, error) {
	return r.countByFormat(filter, "2006-01-02"), nil
}

func (r *eventRepository) CountByMonth(ctx context.Context, filter database.EventFilter) (map[string]int64, error) {
	return r.countByFormat(filter, "2006-01"), nil
}

func (r *eventRepository) CountByTool(ctx context.Context, eventType string, limit int) ([]database.ToolUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range r.events {
		if r.events[i].EventType == eventType && r.events[i].ToolID != "" {
			counts[r.events[i].ToolID]++
		}
	}

	usage := make([]database.ToolUsage, 0, len(counts))
	for toolID, count := range counts {
		usage = append(usage, database.ToolUsage{ToolID: toolID, Count: count})
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].ToolID < usage[j].ToolID
	})

	if limit > 0 && limit < len(usage) {
		usage = usage[:limit]
	}

	return usage, nil
}
