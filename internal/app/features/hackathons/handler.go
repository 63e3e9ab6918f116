// internal/app/features/hackathons/handler.go
package hackathons

import (
	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Audit  *auditlog.Logger
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the hackathons feature handler bound to the given
// Mongo database and logger.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Audit:  audit,
		ErrLog: errLog,
		Log:    logger,
	}
}
