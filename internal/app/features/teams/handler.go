// internal/app/features/teams/handler.go
package teams

import (
	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/registration"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the team registration API. Every write goes through the
// registration service; the handler adds request decoding, audit records,
// and the JSON envelope.
type Handler struct {
	Svc    *registration.Service
	Audit  *auditlog.Logger
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc *registration.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:    svc,
		Audit:  audit,
		ErrLog: errLog,
		Log:    logger,
	}
}

func teamRef(v registration.TeamView) auditlog.TeamRef {
	return auditlog.TeamRef{
		TeamID:      apiutil.Hex(v.ID),
		HackathonID: apiutil.Hex(v.HackathonID),
		OrgID:       apiutil.Hex(v.OrganizationID),
		Name:        v.Name,
	}
}
