package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/models"
)

type favoriteRecord struct {
	ToolID  string    `bson:"toolId"`
	AddedAt time.Time `bson:"addedAt"`
}

type preferencesRecord struct {
	Theme    string `bson:"theme"`
	Language string `bson:"language"`
}

type userRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password"`
	Favorites    []favoriteRecord   `bson:"favorites"`
	Preferences  preferencesRecord  `bson:"preferences"`
	CreatedAt    time.Time          `bson:"createdAt"`
	LastLogin    time.Time          `bson:"lastLogin,omitempty"`
}

func (r *userRecord) ToUser() *models.User {
	favorites := make([]models.Favorite, 0, len(r.Favorites))
	for _, fav := range r.Favorites {
		favorites = append(favorites, models.Favorite{ToolID: fav.ToolID, AddedAt: fav.AddedAt})
	}

	return &models.User{
		ID:           r.ID.Hex(),
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Favorites:    favorites,
		Preferences:  models.Preferences{Theme: r.Preferences.Theme, Language: r.Preferences.Language},
		CreatedAt:    r.CreatedAt,
		LastLogin:    r.LastLogin,
	}
}

type userRepository struct {
	coll *mongo.Collection
}

func newUserRepository(coll *mongo.Collection) *userRepository {
	return &userRepository{coll: coll}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "database.mongodb.userRepository.Create"

	dupe := bson.A{bson.M{"username": user.Username}}
	if user.Email != "" {
		dupe = append(dupe, bson.M{"email": user.Email})
	}

	err := r.coll.FindOne(ctx, bson.M{"$or": dupe}).Err()
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, database.ErrUserExists)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: failed to check user: %w", op, err)
	}

	rec := userRecord{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Favorites:    []favoriteRecord{},
		Preferences:  preferencesRecord{Theme: user.Preferences.Theme, Language: user.Preferences.Language},
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}

	return rec.ToUser(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const op = "database.mongodb.userRepository.GetByID"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	rec := new(userRecord)
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "database.mongodb.userRepository.GetByLogin"

	rec := new(userRecord)
	err := r.coll.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return rec.ToUser(), nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const op = "database.mongodb.userRepository.UpdateLastLogin"

	oid, err := parseID(op, id)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return fmt.Errorf("%s: failed to update last login: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
	}

	return nil
}

func (r *userRepository) favorites(ctx context.Context, op string, oid primitive.ObjectID) ([]models.Favorite, error) {
	rec := new(userRecord)
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return rec.ToUser().Favorites, nil
}

func (r *userRepository) AddFavorite(ctx context.Context, userID, toolID string, addedAt time.Time) ([]models.Favorite, error) {
	const op = "database.mongodb.userRepository.AddFavorite"

	oid, err := parseID(op, userID)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "favorites.toolId": bson.M{"$ne": toolID}},
		bson.M{"$push": bson.M{"favorites": favoriteRecord{ToolID: toolID, AddedAt: addedAt}}},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to add favorite: %w", op, err)
	}

	if res.MatchedCount == 0 {
		// Either the user is missing or the tool is already favorited.
		if _, err := r.favorites(ctx, op, oid); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, database.ErrFavoriteExists)
	}

	return r.favorites(ctx, op, oid)
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error) {
	const op = "database.mongodb.userRepository.RemoveFavorite"

	oid, err := parseID(op, userID)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"favorites": bson.M{"toolId": toolID}}},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to remove favorite: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
	}

	return r.favorites(ctx, op, oid)
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) (*models.User, error) {
	const op = "database.mongodb.userRepository.UpdatePreferences"

	oid, err := parseID(op, userID)
	if err != nil {
		return nil, err
	}

	rec := new(userRecord)
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"preferences": preferencesRecord{Theme: prefs.Theme, Language: prefs.Language}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to update preferences: %w", op, err)
	}

	return rec.ToUser(), nil
}
