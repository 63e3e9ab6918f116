// internal/app/features/roles/handler.go
package roles

import (
	"context"
	"errors"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves hackathon role management.
type Handler struct {
	DB     *mongo.Database
	Audit  *auditlog.Logger
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Audit:  audit,
		ErrLog: errLog,
		Log:    logger,
	}
}

func (h *Handler) loadHackathon(ctx context.Context, id primitive.ObjectID) (models.Hackathon, error) {
	hack, err := hackathonstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Hackathon{}, apperr.NotFound("Hackathon not found.")
	}
	if err != nil {
		return models.Hackathon{}, apperr.Internal("Could not load hackathon.", err)
	}
	return hack, nil
}
