package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, r Record) error
	Find(ctx context.Context, carID, part string) (*Record, error)
	ListByCars(ctx context.Context, carIDs ...string) ([]Record, error)
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, carID, part string) error
	DeleteForCar(ctx context.Context, carID string) error
}

type MongoRepository struct {
	records *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{records: database.Collection(db.MaintenanceCollection)}
}

func recordKey(carID, part string) bson.M {
	return bson.M{"carId": carID, "carPart": part}
}

func (m *MongoRepository) Insert(ctx context.Context, r Record) error {
	_, err := m.records.InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("record %s/%s: %w", r.CarID, r.CarPart, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("maintenance: insert: %w", err)
	}
	return nil
}

func (m *MongoRepository) Find(ctx context.Context, carID, part string) (*Record, error) {
	var r Record
	err := m.records.FindOne(ctx, recordKey(carID, part)).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("record %s/%s: %w", carID, part, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("maintenance: find: %w", err)
	}
	return &r, nil
}

// ListByCars returns the records of every listed car, most recently changed
// first.
func (m *MongoRepository) ListByCars(ctx context.Context, carIDs ...string) ([]Record, error) {
	records := []Record{}
	if len(carIDs) == 0 {
		return records, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastChanged", Value: -1}})
	cur, err := m.records.Find(ctx, bson.M{"carId": bson.M{"$in": carIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("maintenance: list: %w", err)
	}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("maintenance: list: %w", err)
	}
	return records, nil
}

func (m *MongoRepository) Update(ctx context.Context, r Record) error {
	res, err := m.records.UpdateOne(ctx,
		recordKey(r.CarID, r.CarPart),
		bson.M{"$set": bson.M{
			"lastChanged": r.LastChanged,
			"mileage":     r.Mileage,
			"price":       r.Price,
		}},
	)
	if err != nil {
		return fmt.Errorf("maintenance: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("record %s/%s: %w", r.CarID, r.CarPart, apperr.ErrNotFound)
	}
	return nil
}

func (m *MongoRepository) Delete(ctx context.Context, carID, part string) error {
	res, err := m.records.DeleteOne(ctx, recordKey(carID, part))
	if err != nil {
		return fmt.Errorf("maintenance: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("record %s/%s: %w", carID, part, apperr.ErrNotFound)
	}
	return nil
}

func (m *MongoRepository) DeleteForCar(ctx context.Context, carID string) error {
	if _, err := m.records.DeleteMany(ctx, bson.M{"carId": carID}); err != nil {
		return fmt.Errorf("maintenance: delete for car %s: %w", carID, err)
	}
	return nil
}
