package credentials

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

var ErrAlreadyRegistered = fmt.Errorf("that username is not available: %w", apperr.ErrConflict)

// Service stores accounts in the users collection.
type Service struct {
	users *mongo.Collection
}

func NewService(database *mongo.Database) *Service {
	return &Service{users: database.Collection(db.UsersCollection)}
}

// Register creates an account. The username must be free and both fields
// must pass validation.
func (s *Service) Register(
	ctx context.Context,
	username string,
	password string,
) error {

	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	exists, err := s.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyRegistered
	}

	hash, version, err := HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.users.InsertOne(ctx, Credential{
		Username:     username,
		PasswordHash: hash,
		HashVersion:  version,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if mongo.IsDuplicateKeyError(err) {
		// lost a race with another registration for the same name
		return ErrAlreadyRegistered
	}
	if err != nil {
		return fmt.Errorf("credentials: insert %s: %w", username, err)
	}
	return nil
}

// CheckCredentials reports whether password matches the stored hash for
// username, and returns the username as it was registered. Unknown users and
// wrong passwords both yield "", false, nil.
func (s *Service) CheckCredentials(
	ctx context.Context,
	username string,
	password string,
) (string, bool, error) {

	var cred Credential
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("credentials: lookup %s: %w", username, err)
	}

	if err := VerifyPassword(cred.PasswordHash, password); err != nil {
		return "", false, nil
	}
	return cred.Username, true, nil
}

func (s *Service) Exists(ctx context.Context, username string) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("credentials: count %s: %w", username, err)
	}
	return n > 0, nil
}

func (s *Service) Delete(ctx context.Context, username string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("credentials: delete %s: %w", username, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", username, apperr.ErrNotFound)
	}
	return nil
}
