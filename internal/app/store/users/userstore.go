// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/flicapp/flicapp/internal/app/system/normalize"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"provider"|"client"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
)

func validRole(r string) bool {
	switch r {
	case models.RoleAdmin, models.RoleProvider, models.RoleClient:
		return true
	}
	return false
}

func validStatus(s string) bool {
	return s == models.StatusActive || s == models.StatusDisabled
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Role   string
	Status string
}

// List returns users ordered by folded name. The password hash is not loaded.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = normalize.Role(f.Role)
	}
	if f.Status != "" {
		q["status"] = normalize.Status(f.Status)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0})

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Digits(u.Phone)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	if u.Role == "" {
		u.Role = models.RoleClient
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if !validRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !validStatus(u.Status) {
		return models.User{}, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if !validStatus(status) {
		return errBadStatus
	}
	return s.set(ctx, id, bson.M{"status": status})
}

// SetRole changes a user's role. Approving a provider request uses it.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if !validRole(role) {
		return errBadRole
	}
	return s.set(ctx, id, bson.M{"role": role})
}

// ProfileUpdate holds the fields a user may change about themselves.
type ProfileUpdate struct {
	FullName string
	Email    string
	Phone    string
}

// UpdateProfile updates name, e-mail and phone.
// Returns ErrDuplicateEmail if the email already exists for another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	name := normalize.Name(upd.FullName)
	return s.set(ctx, id, bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"email":        normalize.Email(upd.Email),
		"phone":        normalize.Digits(upd.Phone),
	})
}

// UpdateAddress replaces the user's address. A nil address clears it.
func (s *Store) UpdateAddress(ctx context.Context, id primitive.ObjectID, addr *models.Address) error {
	if addr == nil {
		res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$unset": bson.M{"address": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}
	a := *addr
	a.ZipCode = normalize.Digits(a.ZipCode)
	a.State = normalize.UF(a.State)
	return s.set(ctx, id, bson.M{"address": a})
}

// SetPasswordHash stores a new bcrypt hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.set(ctx, id, bson.M{"password_hash": hash})
}

// Delete removes a user. Returns ErrNotFound when nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// RoleCounts is the number of users per role.
type RoleCounts struct {
	Admins    int64
	Providers int64
	Clients   int64
	Disabled  int64
}

// Total is the number of users across roles.
func (c RoleCounts) Total() int64 { return c.Admins + c.Providers + c.Clients }

// Counts aggregates users by role for the admin dashboard.
func (s *Store) Counts(ctx context.Context) (RoleCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$role",
			"n":        bson.M{"$sum": 1},
			"disabled": bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusDisabled}}, 1, 0}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return RoleCounts{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Role     string `bson:"_id"`
		N        int64  `bson:"n"`
		Disabled int64  `bson:"disabled"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return RoleCounts{}, err
	}

	var out RoleCounts
	for _, r := range rows {
		switch r.Role {
		case models.RoleAdmin:
			out.Admins = r.N
		case models.RoleProvider:
			out.Providers = r.N
		case models.RoleClient:
			out.Clients = r.N
		}
		out.Disabled += r.Disabled
	}
	return out, nil
}
