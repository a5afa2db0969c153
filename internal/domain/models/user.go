// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles.
const (
	RoleAdmin    = "admin"
	RoleProvider = "provider"
	RoleClient   = "client"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User is an account on the marketplace: a client booking services, a
// provider offering them, or an admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // folded for sorting
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"` // digits only
	Role         string             `bson:"role" json:"role"`                       // admin | provider | client
	Status       string             `bson:"status" json:"status"`                   // active | disabled
	Address      *Address           `bson:"address,omitempty" json:"address,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RowID identifies the user in list tables.
func (u User) RowID() string { return u.ID.Hex() }

// IsActive reports whether the account may sign in.
func (u User) IsActive() bool { return u.Status != StatusDisabled }
