// Package txn runs multi-document writes inside a MongoDB transaction when the
// deployment supports it (replica set / sharded cluster) and falls back to
// plain sequential writes on standalone servers.
//
// Callers must write fn so that it is correct in both modes: writes are
// ordered so that a failure part-way leaves nothing that breaks an invariant,
// and fn compensates its own partial writes before returning an error.
// Driver errors should be returned from fn unwrapped so that transient
// transaction errors keep their labels and are retried.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn in a transaction on client. If the server rejects
// transactions, fn is executed once more without one.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions unsupported, running without", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Active reports whether ctx carries a session, that is whether fn is running
// inside the transaction rather than the standalone fallback.
func Active(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions (standalone server, unsupported operation).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, IllegalOperation (legacy), OperationNotSupportedInTransaction
			return true
		}
	}

	s := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(s, kw) {
			hits++
		}
	}
	return hits >= 2
}
