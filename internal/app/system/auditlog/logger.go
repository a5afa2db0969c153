// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/flicapp/flicapp/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off" // disabled
)

// Config holds audit logging configuration. Each field is one of "all",
// "db", "log" or "off".
type Config struct {
	// Auth covers login and logout.
	Auth string
	// Admin covers account moderation, provider request reviews and
	// appointment changes made from the admin tables.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request, preferring the first
// X-Forwarded-For hop when behind a proxy.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin, audit.CategoryRequest, audit.CategoryBooking:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = DestAll
	}
	if setting == DestOff {
		return
	}

	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}
	if setting == DestAll || setting == DestDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// LoginFailedUserNotFound logs a failed login for an unknown e-mail.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	})
}

// LoginFailedUserDisabled logs a failed login due to disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     userAgent(r),
		FailureReason: "user disabled",
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a user logout. It takes the session user's hex id.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    oidPtr(userIDHex),
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// --- Account moderation ---

func (l *Logger) userEvent(ctx context.Context, r *http.Request, eventType, actorHex string, userID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		UserID:    &userID,
		ActorID:   oidPtr(actorHex),
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   details,
	})
}

// UserDisabled logs an admin disabling an account.
func (l *Logger) UserDisabled(ctx context.Context, r *http.Request, actorHex string, userID primitive.ObjectID) {
	l.userEvent(ctx, r, audit.EventUserDisabled, actorHex, userID, nil)
}

// UserEnabled logs an admin re-enabling an account.
func (l *Logger) UserEnabled(ctx context.Context, r *http.Request, actorHex string, userID primitive.ObjectID) {
	l.userEvent(ctx, r, audit.EventUserEnabled, actorHex, userID, nil)
}

// UserDeleted logs an admin deleting an account.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorHex string, userID primitive.ObjectID, email string) {
	l.userEvent(ctx, r, audit.EventUserDeleted, actorHex, userID, map[string]string{"email": email})
}

// UserUpdated logs a profile change. Fields lists what changed.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorHex string, userID primitive.ObjectID, fields ...string) {
	l.userEvent(ctx, r, audit.EventUserUpdated, actorHex, userID, map[string]string{"fields": strings.Join(fields, ",")})
}

// --- Provider requests ---

// RequestSubmitted logs a client applying to become a provider.
func (l *Logger) RequestSubmitted(ctx context.Context, r *http.Request, userID, requestID primitive.ObjectID, category string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRequest,
		EventType: audit.EventRequestSubmitted,
		UserID:    &userID,
		ActorID:   &userID,
		TargetID:  &requestID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"service_category": category},
	})
}

// RequestApproved logs an admin approving a request.
func (l *Logger) RequestApproved(ctx context.Context, r *http.Request, actorHex string, userID, requestID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRequest,
		EventType: audit.EventRequestApproved,
		UserID:    &userID,
		ActorID:   oidPtr(actorHex),
		TargetID:  &requestID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// RequestRejected logs an admin rejecting a request with a reason.
func (l *Logger) RequestRejected(ctx context.Context, r *http.Request, actorHex string, userID, requestID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRequest,
		EventType: audit.EventRequestRejected,
		UserID:    &userID,
		ActorID:   oidPtr(actorHex),
		TargetID:  &requestID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"reason": reason},
	})
}

// --- Appointments ---

// AppointmentRated logs a client rating a completed appointment.
func (l *Logger) AppointmentRated(ctx context.Context, r *http.Request, actorHex string, apptID primitive.ObjectID, rating int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryBooking,
		EventType: audit.EventAppointmentRated,
		ActorID:   oidPtr(actorHex),
		TargetID:  &apptID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"rating": strconv.Itoa(rating)},
	})
}

// AppointmentCancelled logs a cancellation.
func (l *Logger) AppointmentCancelled(ctx context.Context, r *http.Request, actorHex string, apptID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryBooking,
		EventType: audit.EventAppointmentCancelled,
		ActorID:   oidPtr(actorHex),
		TargetID:  &apptID,
		IP:        clientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}
