package registration_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/dalemusser/hackhub/internal/app/registration"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	teamseatstore "github.com/dalemusser/hackhub/internal/app/store/teamseats"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/dalemusser/hackhub/internal/app/system/indexes"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/hackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type published struct {
	orgID   primitive.ObjectID
	kind    events.Kind
	payload any
}

type recordingSink struct {
	mu     sync.Mutex
	events []published
}

func (s *recordingSink) Publish(orgID primitive.ObjectID, kind events.Kind, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, published{orgID, kind, payload})
}

func (s *recordingSink) last() published {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return published{}
	}
	return s.events[len(s.events)-1]
}

type env struct {
	ctx   context.Context
	db    *mongo.Database
	fx    *testutil.Fixtures
	sink  *recordingSink
	svc   *registration.Service
	roles *hackathonrolestore.Store
	seats *teamseatstore.Store

	org  models.Organization
	hack models.Hackathon
	idea models.Idea
}

func setup(t *testing.T, opts registration.Options) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	sink := &recordingSink{}
	e := &env{
		ctx:   ctx,
		db:    db,
		fx:    fx,
		sink:  sink,
		svc:   registration.New(db, sink, zap.NewNop(), opts),
		roles: hackathonrolestore.New(db),
		seats: teamseatstore.New(db),
	}
	e.org = fx.CreateOrganization(ctx, "Acme")
	e.hack = fx.CreateHackathon(ctx, "Spring Jam", e.org.ID, 2, 4)
	e.idea = fx.CreateIdea(ctx, "Solar Kiosk", e.hack)
	return e
}

func (e *env) participant(name string) models.User {
	return e.fx.CreateParticipant(e.ctx, name, e.org.ID)
}

func actorOf(u models.User) authz.Actor {
	a := authz.Actor{UserID: u.ID, Name: u.FullName, Role: authz.Role(u.Role)}
	if u.OrganizationID != nil {
		a.OrganizationID = *u.OrganizationID
	}
	return a
}

func (e *env) input(name string, members ...models.User) registration.TeamInput {
	in := registration.TeamInput{Name: name, IdeaID: e.idea.ID.Hex()}
	for _, m := range members {
		in.MemberIDs = append(in.MemberIDs, m.ID.Hex())
	}
	return in
}

func ids(users ...models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID.Hex()
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func wantCode(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("kind: got %q, want %q (err=%v)", got, kind, err)
	}
	if code != "" && !apperr.Is(err, code) {
		t.Fatalf("expected code %q, got %v", code, err)
	}
}

func (e *env) role(t *testing.T, u models.User) authz.HackathonRole {
	t.Helper()
	r, err := e.roles.RoleFor(e.ctx, e.hack.ID, u.ID)
	if err != nil {
		t.Fatalf("RoleFor failed: %v", err)
	}
	return r
}

/*─────────────────────────────────────────────────────────────────────────────*
| Register                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func TestRegister_TeamSizeBounds(t *testing.T) {
	e := setup(t, registration.Options{})

	for size := 1; size <= 5; size++ {
		leader := e.participant("Leader " + string(rune('A'+size)))
		var others []models.User
		for i := 1; i < size; i++ {
			others = append(others, e.participant("Member "+string(rune('A'+size))+string(rune('a'+i))))
		}

		_, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(leader), e.input("Team", others...))
		if size >= 2 && size <= 4 {
			if err != nil {
				t.Errorf("size %d: expected success, got %v", size, err)
			}
			continue
		}
		wantCode(t, err, apperr.KindConflict, apperr.CodeInvalidTeamSize)
		ae := apperr.As(err)
		if ae.Min != 2 || ae.Max != 4 {
			t.Errorf("size %d: expected bounds 2..4 echoed, got %d..%d", size, ae.Min, ae.Max)
		}
	}
}

func TestRegister_ExclusiveMembership(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b, c := e.participant("Ada"), e.participant("Brook"), e.participant("Cyd")

	view, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !sameSet(view.MemberIDs(), ids(a, b)) {
		t.Errorf("members: got %v", view.MemberIDs())
	}
	if view.Members[0].ID != a.ID.Hex() || view.Leader.ID != a.ID.Hex() {
		t.Error("requester must lead and be listed first")
	}

	_, err = e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Second", c))
	wantCode(t, err, apperr.KindConflict, apperr.CodeAlreadyRegistered)

	// c registering with b also collides.
	_, err = e.svc.Register(e.ctx, e.hack.ID, actorOf(c), e.input("Third", b))
	wantCode(t, err, apperr.KindConflict, apperr.CodeAlreadyRegistered)

	// The same users may register in another hackathon.
	other := e.fx.CreateHackathon(e.ctx, "Autumn Jam", e.org.ID, 2, 4)
	otherIdea := e.fx.CreateIdea(e.ctx, "Kiosk Two", other)
	in := registration.TeamInput{Name: "Rocket", IdeaID: otherIdea.ID.Hex(), MemberIDs: ids(b)}
	if _, err := e.svc.Register(e.ctx, other.ID, actorOf(a), in); err != nil {
		t.Errorf("expected registration in another hackathon to succeed: %v", err)
	}
}

func TestRegister_RequesterListedExplicitly(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b := e.participant("Ada"), e.participant("Brook")
	c, d := e.participant("Cyd"), e.participant("Dee")

	implicit, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("One", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	explicit, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(c), e.input("Two", c, d, d))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(implicit.Members) != 2 || len(explicit.Members) != 2 {
		t.Errorf("expected 2 members each, got %d and %d", len(implicit.Members), len(explicit.Members))
	}
	if !sameSet(explicit.MemberIDs(), ids(c, d)) {
		t.Errorf("explicit members: got %v", explicit.MemberIDs())
	}
}

func TestRegister_CheckOrder(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b := e.participant("Ada"), e.participant("Brook")

	otherOrg := e.fx.CreateOrganization(e.ctx, "Globex")
	foreignHack := e.fx.CreateHackathon(e.ctx, "Foreign", otherOrg.ID, 2, 4)
	foreignIdea := e.fx.CreateIdea(e.ctx, "Foreign Idea", foreignHack)
	outsider := e.fx.CreateParticipant(e.ctx, "Olly", otherOrg.ID)

	closed := e.fx.CreateHackathon(e.ctx, "Closed", e.org.ID, 2, 4)
	e.fx.CloseHackathon(e.ctx, closed.ID)

	tests := []struct {
		name      string
		hackathon primitive.ObjectID
		in        registration.TeamInput
		kind      apperr.Kind
		code      string
	}{
		{"blank name", e.hack.ID, registration.TeamInput{Name: "  ", IdeaID: e.idea.ID.Hex(), MemberIDs: ids(b)}, apperr.KindValidation, ""},
		{"markup-only name", e.hack.ID, registration.TeamInput{Name: "<b></b>", IdeaID: e.idea.ID.Hex(), MemberIDs: ids(b)}, apperr.KindValidation, ""},
		{"missing idea", e.hack.ID, registration.TeamInput{Name: "T", MemberIDs: ids(b)}, apperr.KindValidation, ""},
		{"malformed member", e.hack.ID, registration.TeamInput{Name: "T", IdeaID: e.idea.ID.Hex(), MemberIDs: []string{"nope"}}, apperr.KindValidation, ""},
		{"validation before lookup", primitive.NewObjectID(), registration.TeamInput{Name: "", IdeaID: e.idea.ID.Hex()}, apperr.KindValidation, ""},
		{"unknown hackathon", primitive.NewObjectID(), e.input("T", b), apperr.KindNotFound, ""},
		{"other organization", foreignHack.ID, registration.TeamInput{Name: "T", IdeaID: foreignIdea.ID.Hex(), MemberIDs: ids(b)}, apperr.KindAccessDenied, ""},
		{"closed before size", closed.ID, e.input("T"), apperr.KindConflict, apperr.CodeRegistrationClosed},
		{"size before idea", e.hack.ID, registration.TeamInput{Name: "T", IdeaID: primitive.NewObjectID().Hex()}, apperr.KindConflict, apperr.CodeInvalidTeamSize},
		{"unknown idea", e.hack.ID, registration.TeamInput{Name: "T", IdeaID: primitive.NewObjectID().Hex(), MemberIDs: ids(b)}, apperr.KindNotFound, ""},
		{"idea of other organization", e.hack.ID, registration.TeamInput{Name: "T", IdeaID: foreignIdea.ID.Hex(), MemberIDs: ids(b)}, apperr.KindNotFound, ""},
		{"member of other organization", e.hack.ID, e.input("T", outsider), apperr.KindNotFound, ""},
		{"unknown member", e.hack.ID, registration.TeamInput{Name: "T", IdeaID: e.idea.ID.Hex(), MemberIDs: []string{primitive.NewObjectID().Hex()}}, apperr.KindNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Register(e.ctx, tt.hackathon, actorOf(a), tt.in)
			wantCode(t, err, tt.kind, tt.code)
		})
	}

	// Nothing was written by any rejected registration.
	if n, _ := e.db.Collection("team_seats").CountDocuments(e.ctx, map[string]any{}); n != 0 {
		t.Errorf("expected no seats, got %d", n)
	}
	if r := e.role(t, a); r != authz.NoHackathonRole {
		t.Errorf("rejected registrations must not grant roles, got %q", r)
	}
}

func TestRegister_MyTeamRoundTrip(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b := e.participant("Ada"), e.participant("Brook")

	created, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("  Rocket <i>Crew</i> ", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if created.Name != "Rocket Crew" {
		t.Errorf("Name: got %q", created.Name)
	}

	for _, u := range []models.User{a, b} {
		mine, err := e.svc.MyTeam(e.ctx, e.hack.ID, actorOf(u))
		if err != nil {
			t.Fatalf("MyTeam(%s) failed: %v", u.FullName, err)
		}
		if mine.ID != created.ID || mine.Name != created.Name {
			t.Errorf("MyTeam: got %s/%q", mine.ID, mine.Name)
		}
		if mine.Idea.ID != e.idea.ID.Hex() || mine.Idea.Title != "Solar Kiosk" {
			t.Errorf("Idea: got %+v", mine.Idea)
		}
		if !sameSet(mine.MemberIDs(), ids(a, b)) {
			t.Errorf("members: got %v", mine.MemberIDs())
		}
		if mine.Leader.FullName != "Ada" {
			t.Errorf("Leader: got %+v", mine.Leader)
		}
	}

	_, err = e.svc.MyTeam(e.ctx, e.hack.ID, actorOf(e.participant("Cyd")))
	wantCode(t, err, apperr.KindNotFound, "")
}

func TestRegister_PunctuationRoundTrip(t *testing.T) {
	e := setup(t, registration.Options{})
	a := e.participant("Ada")
	b := e.participant("Brook")

	const name = `Ada's "Tom & Jerry" Team`
	if _, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input(name, b)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	mine, err := e.svc.MyTeam(e.ctx, e.hack.ID, actorOf(b))
	if err != nil {
		t.Fatalf("MyTeam failed: %v", err)
	}
	if mine.Name != name {
		t.Errorf("Name: got %q, want %q", mine.Name, name)
	}
}

func TestRegister_RolesAndEvent(t *testing.T) {
	e := setup(t, registration.Options{})
	a, judge := e.participant("Ada"), e.participant("Jun")
	e.fx.CreateHackathonRole(e.ctx, judge.ID, e.hack.ID, string(authz.HackathonJudge))

	view, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", judge))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if r := e.role(t, a); r != authz.HackathonParticipant {
		t.Errorf("leader role: got %q", r)
	}
	if r := e.role(t, judge); r != authz.HackathonJudge {
		t.Errorf("existing judge role must not be downgraded, got %q", r)
	}

	ev := e.sink.last()
	if ev.kind != events.KindCreated || ev.orgID != e.org.ID {
		t.Errorf("event: got %q for %s", ev.kind, ev.orgID.Hex())
	}
	if tv, ok := ev.payload.(registration.TeamView); !ok || tv.ID != view.ID || len(tv.Members) != 2 {
		t.Errorf("expected populated team payload, got %#v", ev.payload)
	}

	seats, _ := e.seats.ListByTeam(e.ctx, mustOID(t, view.ID))
	if len(seats) != 2 {
		t.Errorf("expected 2 seats, got %d", len(seats))
	}
}

func TestRegister_ConcurrentOverlapSingleWinner(t *testing.T) {
	e := setup(t, registration.Options{})
	shared := e.participant("Shared")

	const n = 6
	leaders := make([]models.User, n)
	for i := range leaders {
		leaders[i] = e.participant("Leader " + string(rune('A'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.svc.Register(e.ctx, e.hack.ID, actorOf(leaders[i]), e.input("Team", shared))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if !apperr.Is(err, apperr.CodeAlreadyRegistered) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one registration to win, got %d", wins)
	}

	count, err := e.db.Collection("teams").CountDocuments(e.ctx, map[string]any{"members": shared.ID})
	if err != nil || count != 1 {
		t.Errorf("shared member on %d teams (err=%v)", count, err)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Update                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func TestUpdate_SwapMemberThenWithdraw(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b, c := e.participant("Ada"), e.participant("Brook"), e.participant("Cyd")

	created, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	teamID := mustOID(t, created.ID)

	updated, change, err := e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(a), e.input("Rocket II", c))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !sameSet(updated.MemberIDs(), ids(a, c)) {
		t.Errorf("members: got %v", updated.MemberIDs())
	}
	if updated.Name != "Rocket II" || updated.Leader.ID != a.ID.Hex() {
		t.Errorf("update result: %q led by %s", updated.Name, updated.Leader.ID)
	}
	if len(change.Added) != 1 || change.Added[0] != c.ID || len(change.Removed) != 1 || change.Removed[0] != b.ID {
		t.Errorf("change: %+v", change)
	}
	if ev := e.sink.last(); ev.kind != events.KindUpdated {
		t.Errorf("expected updated event, got %q", ev.kind)
	}

	// b keeps the participant role by default but is free to join another team.
	if r := e.role(t, b); r != authz.HackathonParticipant {
		t.Errorf("removed member role: got %q", r)
	}
	if holder, _ := e.seats.Holder(e.ctx, e.hack.ID, b.ID); !holder.IsZero() {
		t.Error("removed member seat must be released")
	}
	if holder, _ := e.seats.Holder(e.ctx, e.hack.ID, c.ID); holder != teamID {
		t.Error("added member must hold a seat")
	}

	snapshot, err := e.svc.Withdraw(e.ctx, e.hack.ID, teamID, actorOf(c))
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if !sameSet(snapshot.MemberIDs(), ids(a, c)) || snapshot.Members[0].FullName == "" {
		t.Errorf("snapshot must be populated: %+v", snapshot.Members)
	}
	for _, u := range []models.User{a, c} {
		if r := e.role(t, u); r != authz.NoHackathonRole {
			t.Errorf("%s role after withdraw: got %q", u.FullName, r)
		}
	}
	if r := e.role(t, b); r != authz.HackathonParticipant {
		t.Errorf("withdraw must only touch current members, b has %q", r)
	}
	if seats, _ := e.seats.ListByTeam(e.ctx, teamID); len(seats) != 0 {
		t.Errorf("expected seats released, got %d", len(seats))
	}
	if ev := e.sink.last(); ev.kind != events.KindDeleted {
		t.Errorf("expected deleted event, got %q", ev.kind)
	}
	_, err = e.svc.MyTeam(e.ctx, e.hack.ID, actorOf(a))
	wantCode(t, err, apperr.KindNotFound, "")
}

func TestUpdate_RevokeRolesOnUpdate(t *testing.T) {
	e := setup(t, registration.Options{RevokeRolesOnUpdate: true})
	a, b, c := e.participant("Ada"), e.participant("Brook"), e.participant("Cyd")

	created, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, err := e.svc.Update(e.ctx, e.hack.ID, mustOID(t, created.ID), actorOf(a), e.input("Rocket", c)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if r := e.role(t, b); r != authz.NoHackathonRole {
		t.Errorf("expected removed member role revoked, got %q", r)
	}
}

func TestUpdate_Authorization(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b := e.participant("Ada"), e.participant("Brook")
	organizer := e.fx.CreateOrganizer(e.ctx, "Olive", e.org.ID)

	created, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	teamID := mustOID(t, created.ID)

	_, _, err = e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(b), e.input("Mine now", b))
	wantCode(t, err, apperr.KindAccessDenied, "")

	// An organizer edits; the leader is kept.
	view, _, err := e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(organizer), e.input("Renamed", b))
	if err != nil {
		t.Fatalf("organizer Update failed: %v", err)
	}
	if view.Leader.ID != a.ID.Hex() || !sameSet(view.MemberIDs(), ids(a, b)) {
		t.Errorf("leader must be kept: %+v", view)
	}

	_, _, err = e.svc.Update(e.ctx, e.hack.ID, primitive.NewObjectID(), actorOf(a), e.input("X", b))
	wantCode(t, err, apperr.KindNotFound, "")

	other := e.fx.CreateHackathon(e.ctx, "Other", e.org.ID, 2, 4)
	_, _, err = e.svc.Update(e.ctx, other.ID, teamID, actorOf(a), e.input("X", b))
	wantCode(t, err, apperr.KindConflict, apperr.CodeHackathonMismatch)
}

func TestUpdate_ValidationPipeline(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b, c := e.participant("Ada"), e.participant("Brook"), e.participant("Cyd")
	d, f := e.participant("Dee"), e.participant("Fay")

	created, _ := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	if _, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(c), e.input("Comet", d)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	teamID := mustOID(t, created.ID)

	// Same members again: exclusivity ignores the team itself.
	if _, _, err := e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(a), e.input("Rocket", b)); err != nil {
		t.Errorf("unchanged members must pass: %v", err)
	}

	_, _, err := e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(a), e.input("Rocket", b, c))
	wantCode(t, err, apperr.KindConflict, apperr.CodeAlreadyRegistered)

	_, _, err = e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(a), e.input("Rocket", b, f, e.participant("Gus"), e.participant("Hal")))
	wantCode(t, err, apperr.KindConflict, apperr.CodeInvalidTeamSize)

	e.fx.CloseHackathon(e.ctx, e.hack.ID)
	_, _, err = e.svc.Update(e.ctx, e.hack.ID, teamID, actorOf(a), e.input("Rocket", f))
	wantCode(t, err, apperr.KindConflict, apperr.CodeRegistrationClosed)

	// Failed updates leave the team as it was.
	mine, _ := e.svc.MyTeam(e.ctx, e.hack.ID, actorOf(a))
	if !sameSet(mine.MemberIDs(), ids(a, b)) {
		t.Errorf("members changed by a failed update: %v", mine.MemberIDs())
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Withdraw                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func TestWithdraw_KeepsNonParticipantRoles(t *testing.T) {
	e := setup(t, registration.Options{})
	a, mentor := e.participant("Ada"), e.participant("Mo")
	e.fx.CreateHackathonRole(e.ctx, mentor.ID, e.hack.ID, string(authz.HackathonMentor))

	created, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", mentor))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.svc.Withdraw(e.ctx, e.hack.ID, mustOID(t, created.ID), actorOf(a)); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if r := e.role(t, mentor); r != authz.HackathonMentor {
		t.Errorf("mentor role must be kept, got %q", r)
	}
	if r := e.role(t, a); r != authz.NoHackathonRole {
		t.Errorf("participant role must be removed, got %q", r)
	}

	// Members can register again once withdrawn.
	if _, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Again", mentor)); err != nil {
		t.Errorf("re-registration failed: %v", err)
	}
}

func TestWithdraw_Checks(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b, outsider := e.participant("Ada"), e.participant("Brook"), e.participant("Olly")

	created, _ := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Rocket", b))
	teamID := mustOID(t, created.ID)

	_, err := e.svc.Withdraw(e.ctx, e.hack.ID, teamID, actorOf(outsider))
	wantCode(t, err, apperr.KindAccessDenied, "")

	other := e.fx.CreateHackathon(e.ctx, "Other", e.org.ID, 2, 4)
	_, err = e.svc.Withdraw(e.ctx, other.ID, teamID, actorOf(a))
	wantCode(t, err, apperr.KindConflict, apperr.CodeHackathonMismatch)

	_, err = e.svc.Withdraw(e.ctx, e.hack.ID, primitive.NewObjectID(), actorOf(a))
	wantCode(t, err, apperr.KindNotFound, "")

	// Any member may withdraw, not only the leader.
	if _, err := e.svc.Withdraw(e.ctx, e.hack.ID, teamID, actorOf(b)); err != nil {
		t.Fatalf("member Withdraw failed: %v", err)
	}
	_, err = e.svc.Withdraw(e.ctx, e.hack.ID, teamID, actorOf(b))
	wantCode(t, err, apperr.KindNotFound, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reads                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func TestTeams_Authorization(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b, c, d := e.participant("Ada"), e.participant("Brook"), e.participant("Cyd"), e.participant("Dee")
	judge := e.participant("Jun")
	e.fx.CreateHackathonRole(e.ctx, judge.ID, e.hack.ID, string(authz.HackathonJudge))
	admin := e.fx.CreateAdmin(e.ctx, "Root", e.org.ID)

	_, _ = e.svc.Register(e.ctx, e.hack.ID, actorOf(c), e.input("Zeta", d))
	_, _ = e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("Alpha", b))

	for _, u := range []models.User{admin, judge} {
		teams, err := e.svc.Teams(e.ctx, e.hack.ID, actorOf(u))
		if err != nil {
			t.Fatalf("Teams(%s) failed: %v", u.FullName, err)
		}
		if len(teams) != 2 || teams[0].Name != "Alpha" {
			t.Errorf("Teams(%s): expected Alpha first of 2, got %d", u.FullName, len(teams))
		}
	}

	_, err := e.svc.Teams(e.ctx, e.hack.ID, actorOf(a))
	wantCode(t, err, apperr.KindAccessDenied, "")

	foreign := e.fx.CreateOrganization(e.ctx, "Globex")
	_, err = e.svc.Teams(e.ctx, e.hack.ID, actorOf(e.fx.CreateAdmin(e.ctx, "Other Root", foreign.ID)))
	wantCode(t, err, apperr.KindAccessDenied, "")

	_, err = e.svc.Teams(e.ctx, primitive.NewObjectID(), actorOf(admin))
	wantCode(t, err, apperr.KindNotFound, "")
}

func TestMyTeams_AcrossHackathons(t *testing.T) {
	e := setup(t, registration.Options{})
	a, b := e.participant("Ada"), e.participant("Brook")

	other := e.fx.CreateHackathon(e.ctx, "Autumn Jam", e.org.ID, 1, 3)
	otherIdea := e.fx.CreateIdea(e.ctx, "Drone", other)

	if _, err := e.svc.Register(e.ctx, e.hack.ID, actorOf(a), e.input("First", b)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.svc.Register(e.ctx, other.ID, actorOf(a), registration.TeamInput{Name: "Solo", IdeaID: otherIdea.ID.Hex()}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	teams, err := e.svc.MyTeams(e.ctx, actorOf(a))
	if err != nil {
		t.Fatalf("MyTeams failed: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].Name != "Solo" {
		t.Errorf("expected newest first, got %q", teams[0].Name)
	}

	teams, _ = e.svc.MyTeams(e.ctx, actorOf(b))
	if len(teams) != 1 {
		t.Errorf("expected 1 team for b, got %d", len(teams))
	}
	teams, _ = e.svc.MyTeams(e.ctx, actorOf(e.participant("Cyd")))
	if teams == nil || len(teams) != 0 {
		t.Errorf("expected empty non-nil list, got %v", teams)
	}
}

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad id %q: %v", hex, err)
	}
	return id
}
