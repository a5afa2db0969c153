package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked service between a client and a provider.
// PriceCents is in centavos.
type Appointment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"client_id" json:"client_id"`
	ClientName    string             `bson:"client_name" json:"client_name"`
	ProviderID    primitive.ObjectID `bson:"provider_id" json:"provider_id"`
	ProviderName  string             `bson:"provider_name" json:"provider_name"`
	Service       string             `bson:"service" json:"service"`
	ScheduledDate time.Time          `bson:"scheduled_date" json:"scheduled_date"`
	PriceCents    int64              `bson:"price_cents" json:"price_cents"`
	Status        string             `bson:"status" json:"status"`
	Rating        int                `bson:"rating,omitempty" json:"rating,omitempty"` // 1..5, 0 = not rated

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RowID identifies the appointment in list tables.
func (a Appointment) RowID() string { return a.ID.Hex() }

// CanRate reports whether the client may still rate the appointment.
func (a Appointment) CanRate() bool {
	return a.Status == AppointmentCompleted && a.Rating == 0
}

// CanCancel reports whether the appointment may still be cancelled.
func (a Appointment) CanCancel() bool {
	return a.Status == AppointmentScheduled
}
