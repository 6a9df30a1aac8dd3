// Package identitystore is the MongoDB-backed identity provider:
// accounts with bcrypt credentials plus a seeded role registry. It
// implements the provisioning workflow's Identity interface and the
// credential surface used by the login and password features.
package identitystore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"github.com/skarland/obstaclehub/internal/app/system/normalize"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users: db.Collection("users"),
		roles: db.Collection("roles"),
	}
}

// CreateAccount inserts a new account with a bcrypt-hashed password.
// The plaintext password is never stored.
func (s *Store) CreateAccount(ctx context.Context, account models.UserAccount, password string) (*models.UserAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account.ID = primitive.NewObjectID()
	account.Email = normalize.Email(account.Email)
	account.PasswordHash = string(hash)
	if account.Roles == nil {
		account.Roles = []string{}
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, account); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, provision.ErrDuplicateEmail
		}
		return nil, err
	}
	return &account, nil
}

// FindByID loads an account. Malformed or unknown ids yield
// provision.ErrUserNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, provision.ErrUserNotFound
	}
	var u models.UserAccount
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, provision.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail looks an account up by case-insensitive email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var u models.UserAccount
	if err := s.users.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, provision.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// VerifyCredentials checks an email/password pair and returns the
// account on success.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (*models.UserAccount, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, provision.ErrUserNotFound) {
			return nil, provision.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, provision.ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword verifies the current password, stores the new hash and
// clears the must-change flag.
func (s *Store) ChangePassword(ctx context.Context, id, current, newPassword string) error {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return provision.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"password_hash":        string(hash),
		"must_change_password": false,
		"updated_at":           time.Now().UTC(),
	}})
	return err
}

// UsersInRole returns every account holding the role.
func (s *Store) UsersInRole(ctx context.Context, role string) ([]models.UserAccount, error) {
	cur, err := s.users.Find(ctx, bson.M{"roles": role})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserAccount
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsInRole reports whether the account holds the role.
func (s *Store) IsInRole(ctx context.Context, id, role string) (bool, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

// AddToRole grants the role to the account.
func (s *Store) AddToRole(ctx context.Context, id, role string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return provision.ErrUserNotFound
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return provision.ErrUserNotFound
	}
	return nil
}

// RemoveFromRole revokes the role from the account.
func (s *Store) RemoveFromRole(ctx context.Context, id, role string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return provision.ErrUserNotFound
	}
	_, err = s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$pull": bson.M{"roles": role},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RoleExists reports whether the role registry knows the role.
func (s *Store) RoleExists(ctx context.Context, role string) (bool, error) {
	err := s.roles.FindOne(ctx, bson.M{"_id": role}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnsureRole registers a role. Safe to call on every startup.
func (s *Store) EnsureRole(ctx context.Context, role string) error {
	_, err := s.roles.UpdateOne(ctx,
		bson.M{"_id": role},
		bson.M{"$setOnInsert": bson.M{"_id": role}},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteAccount removes the account.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return provision.ErrUserNotFound
	}
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return provision.ErrUserNotFound
	}
	return nil
}

// ListAccounts returns every account.
func (s *Store) ListAccounts(ctx context.Context) ([]models.UserAccount, error) {
	cur, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserAccount
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
