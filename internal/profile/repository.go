package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists profiles.
type Repository interface {
	Insert(ctx context.Context, p Profile) error
	Find(ctx context.Context, username string) (*Profile, error)
	FindAll(ctx context.Context) ([]Profile, error)
	Update(ctx context.Context, p Profile) error
	Delete(ctx context.Context, username string) error
	MarkReminded(ctx context.Context, username string, at time.Time) error
}

type MongoRepository struct {
	profiles *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{profiles: database.Collection(db.ProfilesCollection)}
}

func (r *MongoRepository) Insert(ctx context.Context, p Profile) error {
	_, err := r.profiles.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("profile %s: %w", p.Username, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("profile: insert %s: %w", p.Username, err)
	}
	return nil
}

func (r *MongoRepository) Find(ctx context.Context, username string) (*Profile, error) {
	var p Profile
	err := r.profiles.FindOne(ctx, bson.M{"username": username}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("profile: find %s: %w", username, err)
	}
	return &p, nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]Profile, error) {
	cur, err := r.profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	profiles := []Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	return profiles, nil
}

// Update rewrites the editable fields. The reminder timestamp is owned by the
// reminder flow and left alone.
func (r *MongoRepository) Update(ctx context.Context, p Profile) error {
	res, err := r.profiles.UpdateOne(ctx,
		bson.M{"username": p.Username},
		bson.M{"$set": bson.M{
			"email":                   p.Email,
			"isAdmin":                 p.IsAdmin,
			"coordinates":             p.Coordinates,
			"emailReminderPreference": p.EmailReminderPreference,
		}},
	)
	if err != nil {
		return fmt.Errorf("profile: update %s: %w", p.Username, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile %s: %w", p.Username, apperr.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, username string) error {
	res, err := r.profiles.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("profile: delete %s: %w", username, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) MarkReminded(ctx context.Context, username string, at time.Time) error {
	res, err := r.profiles.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"lastReminderSent": at}},
	)
	if err != nil {
		return fmt.Errorf("profile: mark reminded %s: %w", username, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile %s: %w", username, apperr.ErrNotFound)
	}
	return nil
}
