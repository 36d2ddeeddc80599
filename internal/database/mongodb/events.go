package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type eventRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ToolID    string             `bson:"toolId,omitempty"`
	UserID    string             `bson:"userId,omitempty"`
	IP        string             `bson:"ip"`
	UserAgent string             `bson:"userAgent"`
	EventType string             `bson:"eventType"`
	Timestamp time.Time          `bson:"timestamp"`
}

func (r *eventRecord) ToEvent() *models.Event {
	return &models.Event{
		ID:        r.ID.Hex(),
		ToolID:    r.ToolID,
		UserID:    r.UserID,
		IP:        r.IP,
		UserAgent: r.UserAgent,
		EventType: r.EventType,
		Timestamp: r.Timestamp,
	}
}

type eventRepository struct {
	coll *mongo.Collection
}

func newEventRepository(coll *mongo.Collection) *eventRepository {
	return &eventRepository{coll: coll}
}

func eventQuery(filter database.EventFilter) bson.M {
	q := bson.M{}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		window := bson.M{}
		if !filter.From.IsZero() {
			window["$gte"] = filter.From
		}
		if !filter.To.IsZero() {
			window["$lt"] = filter.To
		}
		q["timestamp"] = window
	}
	if filter.EventType != "" {
		q["eventType"] = filter.EventType
	}
	if filter.ToolID != "" {
		q["toolId"] = filter.ToolID
	}
	return q
}

func (r *eventRepository) Insert(ctx context.Context, event *models.Event) (*models.Event, error) {
	const op = "database.mongodb.eventRepository.Insert"

	rec := eventRecord{
		ToolID:    event.ToolID,
		UserID:    event.UserID,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		EventType: event.EventType,
		Timestamp: event.Timestamp,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert event: %w", op, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}

	return rec.ToEvent(), nil
}

func (r *eventRepository) Count(ctx context.Context, filter database.EventFilter) (int64, error) {
	const op = "database.mongodb.eventRepository.Count"

	count, err := r.coll.CountDocuments(ctx, eventQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count events: %w", op, err)
	}

	return count, nil
}

func (r *eventRepository) DistinctIPs(ctx context.Context, filter database.EventFilter) ([]string, error) {
	const op = "database.mongodb.eventRepository.DistinctIPs"

	values, err := r.coll.Distinct(ctx, "ip", eventQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list distinct ips: %w", op, err)
	}

	ips := make([]string, 0, len(values))
	for _, v := range values {
		if ip, ok := v.(string); ok {
			ips = append(ips, ip)
		}
	}

	return ips, nil
}

func (r *eventRepository) countByFormat(ctx context.Context, op string, filter database.EventFilter, format string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: eventQuery(filter)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: format},
				{Key: "date", Value: "$timestamp"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to aggregate events: %w", op, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: failed to decode aggregation: %w", op, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}

	return counts, nil
}

func (r *eventRepository) CountByDay(ctx context.Context, filter database.EventFilter) (map[string]int64, error) {
	const op = "database.mongodb.eventRepository.CountByDay"
	return r.countByFormat(ctx, op, filter, "%Y-%m-%d")
}

func (r *eventRepository) CountByMonth(ctx context.Context, filter database.EventFilter) (map[string]int64, error) {
	const op = "database.mongodb.eventRepository.CountByMonth"
	return r.countByFormat(ctx, op, filter, "%Y-%m")
}

func (r *eventRepository) CountByTool(ctx context.Context, eventType string, limit int) ([]database.ToolUsage, error) {
	const op = "database.mongodb.eventRepository.CountByTool"

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"eventType": eventType,
			"toolId":    bson.M{"$exists": true, "$ne": ""},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$toolId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to aggregate tool usage: %w", op, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: failed to decode aggregation: %w", op, err)
	}

	usage := make([]database.ToolUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, database.ToolUsage{ToolID: row.ID, Count: row.Count})
	}

	return usage, nil
}
