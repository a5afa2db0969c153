// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one, and falls back to plain sequential writes on a
// standalone server.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction. When the server rejects
// transactions, fn runs again without one.
//
//	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
//		if err := reqs.Approve(ctx, id, reviewer); err != nil {
//			return err
//		}
//		return users.SetRole(ctx, userID, models.RoleProvider)
//	})
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warnFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warnFallback(log, err)
		return fn(ctx)
	}
	return err
}

func warnFallback(log *zap.Logger, err error) {
	if log != nil {
		log.Warn("transactions not supported; running without one", zap.Error(err))
	}
}

var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

var notSupportedHints = []string{
	"transaction",
	"replica set",
	"session",
	"not supported",
	"illegal operation",
}

// IsNotSupported reports whether err means the deployment cannot run
// transactions (standalone mongod, some hosted tiers).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, h := range notSupportedHints {
		if strings.Contains(msg, h) {
			hits++
		}
	}
	return hits >= 2
}
