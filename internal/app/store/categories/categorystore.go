// Package categorystore holds the fixed obstacle category lookup.
// Categories are seeded at startup; no workflow creates them.
package categorystore

import (
	"context"

	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("obstacle_categories")}
}

// Seed upserts the static category set. Safe to run on every startup.
func (s *Store) Seed(ctx context.Context) error {
	for _, cat := range models.SeedCategories {
		_, err := s.c.UpdateOne(ctx,
			bson.M{"_id": cat.ID},
			bson.M{"$set": bson.M{"name": cat.Name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns all categories ordered by name, for dropdowns.
func (s *Store) List(ctx context.Context) ([]models.ObstacleCategory, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ObstacleCategory
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
