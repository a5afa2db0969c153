// internal/app/store/tablestates/tablestatestore.go
package tablestatestore

import (
	"context"
	"errors"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Doc is one user's saved view of one table. Documents expire 30 days after
// their last save.
type Doc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Table     string             `bson:"table"`
	State     datatable.State    `bson:"state"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("table_states")}
}

// Load returns the saved state for the user's table. A table that has never
// been saved yields the zero State and no error.
func (s *Store) Load(ctx context.Context, userID primitive.ObjectID, table string) (datatable.State, error) {
	var d Doc
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "table": table}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return datatable.State{}, nil
	}
	if err != nil {
		return datatable.State{}, err
	}
	return d.State, nil
}

// Save upserts the state for the user's table.
func (s *Store) Save(ctx context.Context, userID primitive.ObjectID, table string, st datatable.State) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "table": table},
		bson.M{
			"$set":         bson.M{"state": st, "updated_at": time.Now().UTC()},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete forgets the user's state for one table, or for every table when
// table is empty. Signing out uses the latter.
func (s *Store) Delete(ctx context.Context, userID primitive.ObjectID, table string) error {
	q := bson.M{"user_id": userID}
	if table != "" {
		q["table"] = table
		_, err := s.c.DeleteOne(ctx, q)
		return err
	}
	_, err := s.c.DeleteMany(ctx, q)
	return err
}
