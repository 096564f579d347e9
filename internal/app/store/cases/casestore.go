// internal/app/store/cases/casestore.go
package casestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateCaseID is returned when the human-readable case id is taken.
	ErrDuplicateCaseID = errors.New("a case with this case id already exists")
	// ErrStatusChanged is returned by AdvanceStatus when the case exists but
	// no longer has the expected prior status.
	ErrStatusChanged = errors.New("case status changed concurrently")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cases")}
}

// newestFirst orders by creation time, then by id for documents created in
// the same millisecond.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Create inserts c, assigning its ObjectID and timestamps. CaseID, Status and
// the initial History entry are the caller's responsibility.
func (s *Store) Create(ctx context.Context, c models.Case) (models.Case, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Documents == nil {
		c.Documents = []models.CaseDocument{}
	}
	if c.History == nil {
		c.History = []models.HistoryEntry{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Case{}, ErrDuplicateCaseID
		}
		return models.Case{}, err
	}
	return c, nil
}

// GetByID loads a case by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Case, error) {
	var c models.Case
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// GetByCaseID loads a case by its human-readable id.
func (s *Store) GetByCaseID(ctx context.Context, caseID string) (models.Case, error) {
	var c models.Case
	if err := s.c.FindOne(ctx, bson.M{"case_id": caseID}).Decode(&c); err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// List returns every case, newest first.
func (s *Store) List(ctx context.Context) ([]models.Case, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// ListByBeneficiary returns the beneficiary's cases, newest first.
func (s *Store) ListByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) ([]models.Case, error) {
	return s.find(ctx, bson.M{"beneficiary_id": beneficiary}, options.Find().SetSort(newestFirst))
}

// LatestByBeneficiary returns the beneficiary's most recently created case.
// Returns mongo.ErrNoDocuments when they have none.
func (s *Store) LatestByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) (models.Case, error) {
	var c models.Case
	opts := options.FindOne().SetSort(newestFirst)
	if err := s.c.FindOne(ctx, bson.M{"beneficiary_id": beneficiary}, opts).Decode(&c); err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// AdvanceStatus moves the case from status `from` to `to` and appends entry
// to its history in one conditional update. It returns the updated case,
// mongo.ErrNoDocuments if the case does not exist, or ErrStatusChanged if
// its status is no longer `from`.
func (s *Store) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to models.CaseStatus, entry models.HistoryEntry) (models.Case, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{
		"$set":  bson.M{"status": to, "updated_at": entry.Timestamp},
		"$push": bson.M{"history": entry},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Case
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Case{}, err
	}

	// Distinguish a missing case from a lost race.
	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return models.Case{}, cerr
	}
	if n == 0 {
		return models.Case{}, mongo.ErrNoDocuments
	}
	return models.Case{}, ErrStatusChanged
}

// AppendDocument pushes doc onto the case's documents and returns the
// updated case. Returns mongo.ErrNoDocuments if the case does not exist.
func (s *Store) AppendDocument(ctx context.Context, id primitive.ObjectID, doc models.CaseDocument) (models.Case, error) {
	update := bson.M{
		"$set":  bson.M{"updated_at": time.Now().UTC()},
		"$push": bson.M{"documents": doc},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Case
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// CaseIDsByIDs returns ObjectID → human-readable case id for the given cases.
func (s *Store) CaseIDsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	proj := options.Find().SetProjection(bson.M{"_id": 1, "case_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID     primitive.ObjectID `bson:"_id"`
			CaseID string             `bson:"case_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.CaseID
	}
	return out, cur.Err()
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Case, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Case{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
