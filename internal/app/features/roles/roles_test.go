package roles_test

import (
	"net/http"
	"testing"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/roles"
	"github.com/dalemusser/hackhub/internal/app/store/audit"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/indexes"
	"github.com/dalemusser/hackhub/internal/testutil"
	"go.uber.org/zap"
)

func TestAssignListRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	logger := zap.NewNop()
	h := roles.NewHandler(db,
		auditlog.New(audit.New(db), logger, auditlog.Config{Admin: "db"}),
		apierrors.NewErrorLogger(logger),
		logger,
	)

	fx := testutil.NewFixtures(t, db)
	org := fx.CreateOrganization(ctx, "Acme")
	hack := fx.CreateHackathon(ctx, "Spring Jam", org.ID, 1, 4)
	admin := testutil.UserFromModel(fx.CreateAdmin(ctx, "Root Admin", org.ID))
	ada := fx.CreateParticipant(ctx, "Ada Lovelace", org.ID)
	fx.CreateHackathonRole(ctx, ada.ID, hack.ID, "participant")

	params := map[string]string{"hackathonId": hack.ID.Hex()}
	assign := func(user testutil.TestUser, body map[string]any) *testutil.ResponseRecorder {
		req := testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), user)
		rec := testutil.NewRecorder()
		h.HandleAssign(rec, testutil.WithChiURLParams(req, params))
		return rec
	}

	// A participant cannot appoint judges.
	rec := assign(testutil.UserFromModel(ada), map[string]any{"user_id": ada.ID.Hex(), "role": "judge"})
	rec.AssertStatus(t, http.StatusForbidden)

	rec = assign(admin, map[string]any{"user_id": ada.ID.Hex(), "role": "wizard"})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "role must be one of")

	rec = assign(admin, map[string]any{"user_id": testutil.ParticipantUser(org.ID).ID, "role": "judge"})
	rec.AssertStatus(t, http.StatusNotFound)

	// Assign overwrites the participant role.
	rec = assign(admin, map[string]any{"user_id": ada.ID.Hex(), "role": "Judge"})
	rec.AssertStatus(t, http.StatusOK)
	got, err := hackathonrolestore.New(db).RoleFor(ctx, hack.ID, ada.ID)
	if err != nil {
		t.Fatalf("RoleFor failed: %v", err)
	}
	if got != authz.HackathonJudge {
		t.Errorf("role: got %q, want judge", got)
	}

	// Judges can see the role list.
	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.UserFromModel(ada))
	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.WithChiURLParams(req, params))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total":1`)

	removeParams := map[string]string{"hackathonId": hack.ID.Hex(), "userId": ada.ID.Hex()}
	req = testutil.NewAuthenticatedRequest("DELETE", "/"+ada.ID.Hex(), admin)
	rec = testutil.NewRecorder()
	h.HandleRemove(rec, testutil.WithChiURLParams(req, removeParams))
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest("DELETE", "/"+ada.ID.Hex(), admin)
	rec = testutil.NewRecorder()
	h.HandleRemove(rec, testutil.WithChiURLParams(req, removeParams))
	rec.AssertStatus(t, http.StatusNotFound)
}
