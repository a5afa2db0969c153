package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider request statuses. Only PENDING requests may be reviewed.
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// ProviderRequest is a client's application to start offering services.
// The applicant's name and e-mail are copied in so the admin table can be
// searched without a join.
type ProviderRequest struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	UserName        string              `bson:"user_name" json:"user_name"`
	UserEmail       string              `bson:"user_email" json:"user_email"`
	ServiceCategory string              `bson:"service_category" json:"service_category"`
	Description     string              `bson:"description" json:"description"`
	Status          string              `bson:"status" json:"status"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	ReviewedBy      *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RowID identifies the request in list tables.
func (p ProviderRequest) RowID() string { return p.ID.Hex() }

// IsPending reports whether the request is still awaiting review.
func (p ProviderRequest) IsPending() bool { return p.Status == RequestPending }
