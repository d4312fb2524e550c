package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection       = "users"
	ProfilesCollection    = "profiles"
	CarsCollection        = "cars"
	MaintenanceCollection = "maintenance"
)

// caseInsensitive makes username lookups ignore case, e.g. "Alice" == "alice".
var caseInsensitive = &options.Collation{Locale: "en", Strength: 1}

type collectionSpec struct {
	name      string
	collation *options.Collation
	indexes   []mongo.IndexModel
}

var schema = []collectionSpec{
	{
		name:      UsersCollection,
		collation: caseInsensitive,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	},
	{
		name:      ProfilesCollection,
		collation: caseInsensitive,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	},
	{
		name:      CarsCollection,
		collation: caseInsensitive,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{{Key: "userID", Value: 1}},
		}},
	},
	{
		name: MaintenanceCollection,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "carId", Value: 1}, {Key: "carPart", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	},
}

// EnsureSchema creates missing collections and their indexes. It is safe to
// run on every start.
func EnsureSchema(ctx context.Context, database *mongo.Database) error {
	existing, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("db: list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, spec := range schema {
		if !have[spec.name] {
			opts := options.CreateCollection()
			if spec.collation != nil {
				opts.SetCollation(spec.collation)
			}
			if err := database.CreateCollection(ctx, spec.name, opts); err != nil {
				return fmt.Errorf("db: create %s: %w", spec.name, err)
			}
		}

		if len(spec.indexes) == 0 {
			continue
		}
		if _, err := database.Collection(spec.name).Indexes().CreateMany(ctx, spec.indexes); err != nil {
			return fmt.Errorf("db: index %s: %w", spec.name, err)
		}
	}
	return nil
}
