package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/hackhub/internal/app/store/organizations"
	"github.com/dalemusser/hackhub/internal/app/system/indexes"
	"github.com/dalemusser/hackhub/internal/app/system/status"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/hackhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, err := store.Create(ctx, models.Organization{Name: "Café Coders"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if org.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if org.NameCI != text.Fold("Café Coders") {
		t.Errorf("NameCI: got %q, want %q", org.NameCI, text.Fold("Café Coders"))
	}
	if org.Status != status.Active {
		t.Errorf("Status: got %q, want %q", org.Status, status.Active)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := organizationstore.New(db)

	if _, err := store.Create(ctx, models.Organization{Name: "Acme"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{Name: "ACME"})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Errorf("expected ErrDuplicateOrganization, got %v", err)
	}
}

func TestStore_IsActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org, _ := store.Create(ctx, models.Organization{Name: "Acme"})

	ok, err := store.IsActive(ctx, org.ID)
	if err != nil || !ok {
		t.Fatalf("IsActive: got %v, %v; want true", ok, err)
	}

	testutil.NewFixtures(t, db).Disable(ctx, "organizations", org.ID)
	if ok, _ := store.IsActive(ctx, org.ID); ok {
		t.Error("expected disabled organization to be inactive")
	}
	if ok, _ := store.IsActive(ctx, primitive.NewObjectID()); ok {
		t.Error("expected missing organization to be inactive")
	}
}
