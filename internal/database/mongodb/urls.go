package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type urlRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LongURL   string             `bson:"longUrl"`
	ShortCode string             `bson:"shortCode"`
	ShortURL  string             `bson:"shortUrl"`
	Clicks    int64              `bson:"clicks"`
	CreatedBy string             `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
	ExpiresAt time.Time          `bson:"expiresAt,omitempty"`
	IsActive  bool               `bson:"isActive"`
}

func (r *urlRecord) ToShortURL() *models.ShortURL {
	return &models.ShortURL{
		ID:        r.ID.Hex(),
		LongURL:   r.LongURL,
		ShortCode: r.ShortCode,
		ShortURL:  r.ShortURL,
		Clicks:    r.Clicks,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
		IsActive:  r.IsActive,
	}
}

type urlRepository struct {
	coll *mongo.Collection
}

func newURLRepository(coll *mongo.Collection) *urlRepository {
	return &urlRepository{coll: coll}
}

func (r *urlRepository) Create(ctx context.Context, url *models.ShortURL) (*models.ShortURL, error) {
	const op = "database.mongodb.urlRepository.Create"

	err := r.coll.FindOne(ctx, bson.M{"shortCode": url.ShortCode, "isActive": true}).Err()
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: failed to check short code: %w", op, err)
	}

	rec := urlRecord{
		LongURL:   url.LongURL,
		ShortCode: url.ShortCode,
		ShortURL:  url.ShortURL,
		Clicks:    url.Clicks,
		CreatedBy: url.CreatedBy,
		CreatedAt: url.CreatedAt,
		ExpiresAt: url.ExpiresAt,
		IsActive:  url.IsActive,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}

	return rec.ToShortURL(), nil
}

func (r *urlRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	const op = "database.mongodb.urlRepository.GetByShortCode"

	rec := new(urlRecord)
	err := r.coll.FindOne(ctx, bson.M{"shortCode": shortCode, "isActive": true}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToShortURL(), nil
}

func (r *urlRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	const op = "database.mongodb.urlRepository.IncrementClicks"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"shortCode": shortCode, "isActive": true},
		bson.M{"$inc": bson.M{"clicks": 1}},
	)
	if err != nil {
		return fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return nil
}

func (r *urlRepository) Deactivate(ctx context.Context, shortCode string) error {
	const op = "database.mongodb.urlRepository.Deactivate"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"shortCode": shortCode, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false}},
	)
	if err != nil {
		return fmt.Errorf("%s: failed to deactivate url: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return nil
}
