package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type toolRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	URL         string             `bson:"url"`
	Icon        string             `bson:"icon"`
	Popularity  int64              `bson:"popularity"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (r *toolRecord) ToTool() *models.Tool {
	return &models.Tool{
		ID:          r.ID.Hex(),
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		URL:         r.URL,
		Icon:        r.Icon,
		Popularity:  r.Popularity,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

type toolRepository struct {
	coll *mongo.Collection
}

func newToolRepository(coll *mongo.Collection) *toolRepository {
	return &toolRepository{coll: coll}
}

func toolQuery(filter database.ToolFilter) bson.M {
	q := bson.M{}
	if filter.ActiveOnly {
		q["isActive"] = true
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	return q
}

func (r *toolRepository) List(ctx context.Context, filter database.ToolFilter, page database.Page) ([]models.Tool, error) {
	const op = "database.mongodb.toolRepository.List"

	opts := options.Find().SetSort(bson.D{{Key: "popularity", Value: -1}})
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}

	cursor, err := r.coll.Find(ctx, toolQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query tools: %w", op, err)
	}
	defer cursor.Close(ctx)

	var records []toolRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("%s: failed to decode tools: %w", op, err)
	}

	tools := make([]models.Tool, 0, len(records))
	for i := range records {
		tools = append(tools, *records[i].ToTool())
	}

	return tools, nil
}

func (r *toolRepository) Count(ctx context.Context, filter database.ToolFilter) (int64, error) {
	const op = "database.mongodb.toolRepository.Count"

	count, err := r.coll.CountDocuments(ctx, toolQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count tools: %w", op, err)
	}

	return count, nil
}

func (r *toolRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	const op = "database.mongodb.toolRepository.GetByID"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	rec := new(toolRecord)
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrToolNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get tool: %w", op, err)
	}

	return rec.ToTool(), nil
}

func (r *toolRepository) IncrementPopularity(ctx context.Context, id string, delta int64) (*models.Tool, error) {
	const op = "database.mongodb.toolRepository.IncrementPopularity"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	rec := new(toolRecord)
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"popularity": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrToolNotFound)
		}
		return nil, fmt.Errorf("%s: failed to increment popularity: %w", op, err)
	}

	return rec.ToTool(), nil
}
