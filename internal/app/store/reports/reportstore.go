// Package reportstore persists obstacle reports in MongoDB and
// implements the lifecycle engine's ReportStore interface.
package reportstore

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("obstacle_reports")}
}

// Add inserts a new report, assigning its id.
func (s *Store) Add(ctx context.Context, r *models.ObstacleReport) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, r)
	return err
}

// FindByID loads a report. A malformed or unknown id yields
// lifecycle.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*models.ObstacleReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, lifecycle.ErrNotFound
	}
	var r models.ObstacleReport
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Update replaces the stored report. Concurrent updates are not
// serialized: last write wins.
func (s *Store) Update(ctx context.Context, r *models.ObstacleReport) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// Query translates a lifecycle.Filter to a native query. The filter's
// Matches/SortReports helpers define the semantics this must agree with.
func (s *Store) Query(ctx context.Context, f lifecycle.Filter) ([]models.ObstacleReport, error) {
	q, ok := mongoQuery(f)
	if !ok {
		return nil, nil
	}
	find := options.Find()
	if sortSpec, ok := mongoSort(f.SortBy); ok {
		find.SetSort(sortSpec)
	}

	cur, err := s.c.Find(ctx, q, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ObstacleReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}

	// Status ordering is a pipeline rank, not a lexicographic one, so
	// that sort happens here instead of in the database.
	if f.SortBy == lifecycle.SortStatus {
		lifecycle.SortReports(out, lifecycle.SortStatus)
	}
	return out, nil
}

// mongoQuery builds the filter document. The second return is false
// when no document can satisfy the filter, such as an exact draft
// status combined with draft exclusion.
func mongoQuery(f lifecycle.Filter) (bson.M, bool) {
	q := bson.M{}
	switch {
	case f.Status != nil && f.ExcludeDrafts && *f.Status == models.StatusDraft:
		return nil, false
	case f.Status != nil:
		q["status"] = *f.Status
	case f.ExcludeDrafts:
		q["status"] = bson.M{"$ne": models.StatusDraft}
	}
	if f.Organization != "" {
		q["reporter_organization"] = f.Organization
	}
	if f.Category.Uncategorized {
		q["category_id"] = nil // matches absent and null
	}
	if f.Category.ID != 0 {
		q["category_id"] = f.Category.ID
	}
	if f.ReporterUserID != "" {
		q["reporter_user_id"] = f.ReporterUserID
	}
	if f.Query != "" {
		pat := regexp.QuoteMeta(text.Fold(f.Query))
		q["$or"] = []bson.M{
			{"name_ci": bson.M{"$regex": pat}},
			{"reporter_name_ci": bson.M{"$regex": pat}},
		}
	}
	return q, true
}

func mongoSort(key lifecycle.SortKey) (bson.D, bool) {
	switch key {
	case lifecycle.SortDateAsc:
		return bson.D{{Key: "reported_at", Value: 1}}, true
	case lifecycle.SortName:
		return bson.D{{Key: "name_ci", Value: 1}}, true
	case lifecycle.SortHeight:
		return bson.D{{Key: "height_m", Value: -1}}, true
	case lifecycle.SortReporter:
		return bson.D{{Key: "reporter_name_ci", Value: 1}}, true
	case lifecycle.SortOrganization:
		return bson.D{{Key: "reporter_organization", Value: 1}}, true
	case lifecycle.SortStatus:
		return nil, false
	default:
		return bson.D{{Key: "reported_at", Value: -1}}, true
	}
}

// Organizations returns the distinct reporter organizations, for the
// dashboard filter dropdown.
func (s *Store) Organizations(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "reporter_organization", bson.M{
		"reporter_organization": bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		return nil, err
	}
	orgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			orgs = append(orgs, s)
		}
	}
	sort.Strings(orgs)
	return orgs, nil
}

// EnsureIndexes creates the indexes the dashboard queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reported_at", Value: -1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "reporter_organization", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
