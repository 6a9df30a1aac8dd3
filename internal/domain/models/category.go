// internal/domain/models/category.go
package models

// ObstacleCategory is a fixed reference lookup. Categories are seeded at
// startup and never created through application workflows.
type ObstacleCategory struct {
	ID   int    `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// SeedCategories is the static category set.
var SeedCategories = []ObstacleCategory{
	{ID: 1, Name: "Mast or Tower"},
	{ID: 2, Name: "Power Line"},
	{ID: 3, Name: "Construction Crane"},
	{ID: 4, Name: "Temporary Obstacle"},
	{ID: 5, Name: "Other"},
}
