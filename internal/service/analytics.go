package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

// TrackParams describes one analytics event to record. IP is mandatory;
// unrecognized actions are recorded as views.
type TrackParams struct {
	ToolID    string
	UserID    string
	IP        string
	UserAgent string
	Action    string
}

// BucketCount is one time bucket of a summary, labeled with a short day or
// month name.
type BucketCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Overview aggregates the headline numbers for the analytics dashboard.
type Overview struct {
	TotalVisits  int64         `json:"totalVisits"`
	TodayVisits  int64         `json:"todayVisits"`
	PopularTools []PopularTool `json:"popularTools"`
	WeeklyTrends []BucketCount `json:"weeklyTrends"`
}

// PopularTool is one row of the most-used-tools ranking, joined with the
// tool's display name.
type PopularTool struct {
	ToolID string `json:"toolId"`
	Name   string `json:"name"`
	Visits int64  `json:"visits"`
}

// DailySummary covers the current server-local calendar day.
type DailySummary struct {
	Date           string `json:"date"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// RangeSummary is a zero-filled sequence of time buckets.
type RangeSummary struct {
	Period      string        `json:"period"`
	TotalVisits int64         `json:"totalVisits"`
	Data        []BucketCount `json:"data"`
}

// ToolSummary aggregates use events for a single tool.
type ToolSummary struct {
	ToolID    string        `json:"toolId"`
	TotalUses int64         `json:"totalUses"`
	DailyUses []BucketCount `json:"dailyUses"`
}

// Engagement reports returning-visitor counts. The fabricated session
// metrics of earlier iterations are intentionally absent.
type Engagement struct {
	ReturningUsers int `json:"returningUsers"`
}

// AnalyticsService turns the append-only event log into time-bucketed
// summaries. Bucket boundaries are computed relative to now at call time;
// repeated calls across a day boundary may shift bucket membership.
type AnalyticsService struct {
	events database.EventRepository
	tools  database.ToolRepository
	now    func() time.Time
}

// NewAnalyticsService creates an analytics service over the given
// repositories.
func NewAnalyticsService(events database.EventRepository, tools database.ToolRepository) *AnalyticsService {
	return &AnalyticsService{
		events: events,
		tools:  tools,
		now:    time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Track appends one immutable event and returns it along with the running
// total event count.
func (s *AnalyticsService) Track(ctx context.Context, params TrackParams) (*models.Event, int64, error) {
	const op = "service.AnalyticsService.Track"

	event, err := s.events.Insert(ctx, &models.Event{
		ToolID:    params.ToolID,
		UserID:    params.UserID,
		IP:        params.IP,
		UserAgent: params.UserAgent,
		EventType: models.NormalizeEventType(params.Action),
		Timestamp: s.now(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to record event: %w", op, err)
	}

	total, err := s.events.Count(ctx, database.EventFilter{})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count events: %w", op, err)
	}

	return event, total, nil
}

// GetOverview reports total and today's visits, the top five used tools,
// and the 7-day view trend.
func (s *AnalyticsService) GetOverview(ctx context.Context) (*Overview, error) {
	const op = "service.AnalyticsService.GetOverview"

	total, err := s.events.Count(ctx, database.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count events: %w", op, err)
	}

	today, err := s.events.Count(ctx, database.EventFilter{From: startOfDay(s.now())})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count today's events: %w", op, err)
	}

	popular, err := s.popularTools(ctx, op, 5)
	if err != nil {
		return nil, err
	}

	trends, _, err := s.dayBuckets(ctx, op, database.EventFilter{EventType: models.EventView})
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalVisits:  total,
		TodayVisits:  today,
		PopularTools: popular,
		WeeklyTrends: trends,
	}, nil
}

func (s *AnalyticsService) popularTools(ctx context.Context, op string, limit int) ([]PopularTool, error) {
	usage, err := s.events.CountByTool(ctx, models.EventUse, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to rank tools: %w", op, err)
	}

	popular := make([]PopularTool, 0, len(usage))
	for _, u := range usage {
		row := PopularTool{ToolID: u.ToolID, Visits: u.Count}
		// Events may reference tools that have since left the catalog;
		// those rows keep an empty name rather than failing the report.
		if tool, err := s.tools.GetByID(ctx, u.ToolID); err == nil {
			row.Name = tool.Name
		}
		popular = append(popular, row)
	}

	return popular, nil
}

// dayBuckets lays event counts onto the trailing 7-day window, zero-filling
// days without events.
func (s *AnalyticsService) dayBuckets(ctx context.Context, op string, filter database.EventFilter) ([]BucketCount, int64, error) {
	today := startOfDay(s.now())
	filter.From = today.AddDate(0, 0, -6)

	counts, err := s.events.CountByDay(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to bucket events by day: %w", op, err)
	}

	var total int64
	buckets := make([]BucketCount, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		count := counts[day.Format("2006-01-02")]
		total += count
		buckets = append(buckets, BucketCount{Label: day.Format("Mon"), Count: count})
	}

	return buckets, total, nil
}

// GetDailySummary counts events and distinct visitor IPs within the current
// server-local calendar day.
func (s *AnalyticsService) GetDailySummary(ctx context.Context) (*DailySummary, error) {
	const op = "service.AnalyticsService.GetDailySummary"

	day := startOfDay(s.now())
	window := database.EventFilter{From: day, To: day.AddDate(0, 0, 1)}

	visits, err := s.events.Count(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count events: %w", op, err)
	}

	ips, err := s.events.DistinctIPs(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count unique visitors: %w", op, err)
	}

	return &DailySummary{
		Date:           day.Format("2006-01-02"),
		Visits:         visits,
		UniqueVisitors: len(ips),
	}, nil
}

// GetWeeklySummary groups view events into the trailing 7 day-buckets.
func (s *AnalyticsService) GetWeeklySummary(ctx context.Context) (*RangeSummary, error) {
	const op = "service.AnalyticsService.GetWeeklySummary"

	buckets, total, err := s.dayBuckets(ctx, op, database.EventFilter{EventType: models.EventView})
	if err != nil {
		return nil, err
	}

	return &RangeSummary{
		Period:      "Last 7 days",
		TotalVisits: total,
		Data:        buckets,
	}, nil
}

// GetMonthlySummary groups view events into the trailing 12 month-buckets.
func (s *AnalyticsService) GetMonthlySummary(ctx context.Context) (*RangeSummary, error) {
	const op = "service.AnalyticsService.GetMonthlySummary"

	thisMonth := startOfMonth(s.now())

	counts, err := s.events.CountByMonth(ctx, database.EventFilter{
		From:      thisMonth.AddDate(0, -11, 0),
		EventType: models.EventView,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bucket events by month: %w", op, err)
	}

	var total int64
	buckets := make([]BucketCount, 0, 12)
	for i := 11; i >= 0; i-- {
		month := thisMonth.AddDate(0, -i, 0)
		count := counts[month.Format("2006-01")]
		total += count
		buckets = append(buckets, BucketCount{Label: month.Format("Jan"), Count: count})
	}

	return &RangeSummary{
		Period:      "Last 12 months",
		TotalVisits: total,
		Data:        buckets,
	}, nil
}

// GetToolSummary aggregates use events for one tool: the all-time total and
// the trailing 7-day daily counts.
func (s *AnalyticsService) GetToolSummary(ctx context.Context, toolID string) (*ToolSummary, error) {
	const op = "service.AnalyticsService.GetToolSummary"

	total, err := s.events.Count(ctx, database.EventFilter{ToolID: toolID, EventType: models.EventUse})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count tool events: %w", op, err)
	}

	daily, _, err := s.dayBuckets(ctx, op, database.EventFilter{ToolID: toolID, EventType: models.EventUse})
	if err != nil {
		return nil, err
	}

	return &ToolSummary{
		ToolID:    toolID,
		TotalUses: total,
		DailyUses: daily,
	}, nil
}

// GetEngagement counts returning visitors: IPs seen in the last 30 days
// that were also seen in the 70 days before that window.
func (s *AnalyticsService) GetEngagement(ctx context.Context) (*Engagement, error) {
	const op = "service.AnalyticsService.GetEngagement"

	now := s.now()

	recent, err := s.events.DistinctIPs(ctx, database.EventFilter{From: now.AddDate(0, 0, -30)})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list recent visitors: %w", op, err)
	}

	previous, err := s.events.DistinctIPs(ctx, database.EventFilter{
		From: now.AddDate(0, 0, -100),
		To:   now.AddDate(0, 0, -30),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list previous visitors: %w", op, err)
	}

	seen := make(map[string]struct{}, len(previous))
	for _, ip := range previous {
		seen[ip] = struct{}{}
	}

	var returning int
	for _, ip := range recent {
		if _, ok := seen[ip]; ok {
			returning++
		}
	}

	return &Engagement{ReturningUsers: returning}, nil
}
