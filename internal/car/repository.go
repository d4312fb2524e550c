package car

import (
	"context"
	"errors"
	"fmt"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists cars. Every single-car operation is scoped to an
// owner, so a car that belongs to someone else looks missing.
type Repository interface {
	Insert(ctx context.Context, c Car) (primitive.ObjectID, error)
	FindOwned(ctx context.Context, id primitive.ObjectID, owner string) (*Car, error)
	ListByOwner(ctx context.Context, owner string) ([]Car, error)
	UpdateOwned(ctx context.Context, c Car) error
	DeleteOwned(ctx context.Context, id primitive.ObjectID, owner string) error
}

type MongoRepository struct {
	cars *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{cars: database.Collection(db.CarsCollection)}
}

func ownedBy(id primitive.ObjectID, owner string) bson.M {
	return bson.M{"_id": id, "userID": owner}
}

func (r *MongoRepository) Insert(ctx context.Context, c Car) (primitive.ObjectID, error) {
	c.ID = primitive.NilObjectID
	res, err := r.cars.InsertOne(ctx, c)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("car: insert: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("car: unexpected id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *MongoRepository) FindOwned(ctx context.Context, id primitive.ObjectID, owner string) (*Car, error) {
	var c Car
	err := r.cars.FindOne(ctx, ownedBy(id, owner)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("car %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("car: find %s: %w", id.Hex(), err)
	}
	return &c, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, owner string) ([]Car, error) {
	cur, err := r.cars.Find(ctx, bson.M{"userID": owner})
	if err != nil {
		return nil, fmt.Errorf("car: list %s: %w", owner, err)
	}
	cars := []Car{}
	if err := cur.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("car: list %s: %w", owner, err)
	}
	return cars, nil
}

func (r *MongoRepository) UpdateOwned(ctx context.Context, c Car) error {
	res, err := r.cars.UpdateOne(ctx,
		ownedBy(c.ID, c.UserID),
		bson.M{"$set": bson.M{
			"model":      c.Model,
			"year":       c.Year,
			"mileage":    c.Mileage,
			"dateBought": c.DateBought,
			"url":        c.URL,
		}},
	)
	if err != nil {
		return fmt.Errorf("car: update %s: %w", c.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("car %s: %w", c.ID.Hex(), apperr.ErrNotFound)
	}
	return nil
}

func (r *MongoRepository) DeleteOwned(ctx context.Context, id primitive.ObjectID, owner string) error {
	res, err := r.cars.DeleteOne(ctx, ownedBy(id, owner))
	if err != nil {
		return fmt.Errorf("car: delete %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("car %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	return nil
}
