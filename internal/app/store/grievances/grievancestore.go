// internal/app/store/grievances/grievancestore.go
package grievancestore

import (
	"context"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("grievances")}
}

// Create inserts g with status Open unless a status is already set.
func (s *Store) Create(ctx context.Context, g models.Grievance) (models.Grievance, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Status == "" {
		g.Status = models.GrievanceOpen
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Grievance{}, err
	}
	return g, nil
}

// Resolve marks the grievance Resolved regardless of its current status and
// returns the updated record. Returns mongo.ErrNoDocuments if not found.
func (s *Store) Resolve(ctx context.Context, id primitive.ObjectID) (models.Grievance, error) {
	update := bson.M{"$set": bson.M{
		"status":     models.GrievanceResolved,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var g models.Grievance
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&g); err != nil {
		return models.Grievance{}, err
	}
	return g, nil
}

// ListOpen returns Open grievances, oldest first.
func (s *Store) ListOpen(ctx context.Context) ([]models.Grievance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"status": models.GrievanceOpen}, opts)
}

// ListByBeneficiary returns the grievances a beneficiary has filed, newest first.
func (s *Store) ListByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) ([]models.Grievance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"beneficiary_id": beneficiary}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Grievance, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Grievance{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
