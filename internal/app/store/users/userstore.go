package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Users are created by the identity service on first OTP verification.
// This store reads them; Create exists for seeding and tests.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateMobile is returned when a user with the mobile number already exists.
	ErrDuplicateMobile = errors.New("a user with this mobile number already exists")
	errMobileRequired  = errors.New("mobile number is required")
)

// NormalizeMobile trims surrounding whitespace from a mobile number.
func NormalizeMobile(m string) string {
	return strings.TrimSpace(m)
}

// GetByMobile looks up a user by mobile number. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByMobile(ctx context.Context, mobile string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"mobile_number": NormalizeMobile(mobile)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// MobilesByIDs returns id → mobile number for the given users.
// Unknown ids are simply absent from the map.
func (s *Store) MobilesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	proj := options.Find().SetProjection(bson.M{"_id": 1, "mobile_number": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID     primitive.ObjectID `bson:"_id"`
			Mobile string             `bson:"mobile_number"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Mobile
	}
	return out, cur.Err()
}

// Create inserts a new user. Role defaults to beneficiary.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.MobileNumber = NormalizeMobile(u.MobileNumber)
	if u.MobileNumber == "" {
		return models.User{}, errMobileRequired
	}
	if u.Role == "" {
		u.Role = models.RoleBeneficiary
	}
	if !u.Role.Valid() {
		return models.User{}, errors.New(`role must be "beneficiary"|"officer"|"admin"`)
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateMobile
		}
		return models.User{}, err
	}
	return u, nil
}
