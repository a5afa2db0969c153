// internal/app/store/appointments/appointmentstore.go
package appointmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no appointment matches.
	ErrNotFound = errors.New("appointment not found")
	// ErrNotRateable is returned when the appointment is not completed or
	// has already been rated.
	ErrNotRateable = errors.New("appointment cannot be rated")
	// ErrNotScheduled is returned when cancelling or completing an
	// appointment that is no longer scheduled.
	ErrNotScheduled = errors.New("appointment is no longer scheduled")
	errBadRating    = errors.New("rating must be between 1 and 5")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("appointments")}
}

// Scope selects whose appointments List returns. The zero value lists all.
type Scope struct {
	ClientID   *primitive.ObjectID
	ProviderID *primitive.ObjectID
	Status     string
}

// ForClient scopes to one client's bookings.
func ForClient(id primitive.ObjectID) Scope { return Scope{ClientID: &id} }

// ForProvider scopes to one provider's bookings.
func ForProvider(id primitive.ObjectID) Scope { return Scope{ProviderID: &id} }

func (sc Scope) query() bson.M {
	q := bson.M{}
	if sc.ClientID != nil {
		q["client_id"] = *sc.ClientID
	}
	if sc.ProviderID != nil {
		q["provider_id"] = *sc.ProviderID
	}
	if sc.Status != "" {
		q["status"] = sc.Status
	}
	return q
}

// List returns appointments in scope, most recent first.
func (s *Store) List(ctx context.Context, sc Scope) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, sc.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Appointment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one appointment.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Rate stores the client's 1..5 rating on a completed, unrated appointment.
// Only the booking client may rate.
func (s *Store) Rate(ctx context.Context, id, clientID primitive.ObjectID, rating int) error {
	if rating < 1 || rating > 5 {
		return errBadRating
	}
	return s.transition(ctx,
		bson.M{
			"_id":       id,
			"client_id": clientID,
			"status":    models.AppointmentCompleted,
			"$or":       bson.A{bson.M{"rating": bson.M{"$exists": false}}, bson.M{"rating": 0}},
		},
		bson.M{"rating": rating},
		ErrNotRateable,
	)
}

// Cancel cancels a scheduled appointment. A nil party lets an admin cancel
// any appointment; otherwise party must be its client or provider.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID, party *primitive.ObjectID) error {
	filter := bson.M{"_id": id, "status": models.AppointmentScheduled}
	if party != nil {
		filter["$or"] = bson.A{bson.M{"client_id": *party}, bson.M{"provider_id": *party}}
	}
	return s.transition(ctx, filter, bson.M{"status": models.AppointmentCancelled}, ErrNotScheduled)
}

// Complete marks a scheduled appointment as done.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.AppointmentScheduled},
		bson.M{"status": models.AppointmentCompleted},
		ErrNotScheduled,
	)
}

// transition applies set when filter matches. When it does not, the result
// is ErrNotFound for a missing appointment and refused otherwise.
func (s *Store) transition(ctx context.Context, filter, set bson.M, refused error) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.GetByID(ctx, filter["_id"].(primitive.ObjectID)); err != nil {
		return err
	}
	return refused
}

// Summary is the dashboard roll-up for a scope.
type Summary struct {
	Scheduled    int64
	Completed    int64
	Cancelled    int64
	RevenueCents int64   // completed appointments only
	AvgRating    float64 // over rated appointments; 0 when none
}

// Total is the number of appointments across statuses.
func (s Summary) Total() int64 { return s.Scheduled + s.Completed + s.Cancelled }

// Summarize aggregates appointments in scope by status.
func (s *Store) Summarize(ctx context.Context, sc Scope) (Summary, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: sc.query()}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"n":       bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$price_cents"},
			"rated":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$gt": bson.A{"$rating", 0}}, 1, 0}}},
			"stars":   bson.M{"$sum": bson.M{"$ifNull": bson.A{"$rating", 0}}},
		}}},
	})
	if err != nil {
		return Summary{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status  string `bson:"_id"`
		N       int64  `bson:"n"`
		Revenue int64  `bson:"revenue"`
		Rated   int64  `bson:"rated"`
		Stars   int64  `bson:"stars"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Summary{}, err
	}

	var out Summary
	var rated, stars int64
	for _, r := range rows {
		switch r.Status {
		case models.AppointmentScheduled:
			out.Scheduled = r.N
		case models.AppointmentCompleted:
			out.Completed = r.N
			out.RevenueCents = r.Revenue
		case models.AppointmentCancelled:
			out.Cancelled = r.N
		}
		rated += r.Rated
		stars += r.Stars
	}
	if rated > 0 {
		out.AvgRating = float64(stars) / float64(rated)
	}
	return out, nil
}
