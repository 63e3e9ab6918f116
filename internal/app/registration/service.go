// internal/app/registration/service.go
package registration

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/hackhub/internal/app/policy/teampolicy"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	ideastore "github.com/dalemusser/hackhub/internal/app/store/ideas"
	teamseatstore "github.com/dalemusser/hackhub/internal/app/store/teamseats"
	teamstore "github.com/dalemusser/hackhub/internal/app/store/teams"
	userstore "github.com/dalemusser/hackhub/internal/app/store/users"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/dalemusser/hackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hackhub/internal/app/system/normalize"
	"github.com/dalemusser/hackhub/internal/app/system/txn"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxTeamNameLength bounds team names in runes.
const MaxTeamNameLength = 100

// Options tune the service.
type Options struct {
	// RevokeRolesOnUpdate removes the participant role of members dropped by
	// an update. Off by default: only withdrawal removes participant roles.
	RevokeRolesOnUpdate bool
}

// TeamInput is the client-supplied part of a register or update request.
type TeamInput struct {
	Name      string
	IdeaID    string
	MemberIDs []string
}

// MemberChange lists the members an update added and removed.
type MemberChange struct {
	Added   []primitive.ObjectID
	Removed []primitive.ObjectID
}

// Service is the single writer of teams, team seats, and participant roles.
type Service struct {
	client     *mongo.Client
	hackathons *hackathonstore.Store
	ideas      *ideastore.Store
	users      *userstore.Store
	teams      *teamstore.Store
	seats      *teamseatstore.Store
	roles      *hackathonrolestore.Store
	sink       events.Sink
	log        *zap.Logger
	opts       Options
}

// New wires the service to db. A nil sink discards events.
func New(db *mongo.Database, sink events.Sink, logger *zap.Logger, opts Options) *Service {
	if sink == nil {
		sink = events.Nop{}
	}
	return &Service{
		client:     db.Client(),
		hackathons: hackathonstore.New(db),
		ideas:      ideastore.New(db),
		users:      userstore.New(db),
		teams:      teamstore.New(db),
		seats:      teamseatstore.New(db),
		roles:      hackathonrolestore.New(db),
		sink:       sink,
		log:        logger,
		opts:       opts,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Register                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Register creates a team in the hackathon led by the actor.
func (s *Service) Register(ctx context.Context, hackathonID primitive.ObjectID, actor authz.Actor, in TeamInput) (TeamView, error) {
	name, ideaID, requested, err := parseInput(in)
	if err != nil {
		return TeamView{}, err
	}
	members := memberSet(actor.UserID, requested)

	h, err := s.openHackathon(ctx, hackathonID, actor, len(members))
	if err != nil {
		return TeamView{}, err
	}
	if err := s.checkReferences(ctx, h, ideaID, members); err != nil {
		return TeamView{}, err
	}
	if err := s.checkExclusive(ctx, h.ID, members, primitive.NilObjectID); err != nil {
		return TeamView{}, err
	}

	team := models.Team{
		ID:             primitive.NewObjectID(),
		Name:           name,
		IdeaID:         ideaID,
		Members:        members,
		LeaderID:       actor.UserID,
		OrganizationID: h.OrganizationID,
		HackathonID:    h.ID,
	}

	err = txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		if err := s.seats.Claim(ctx, h.ID, team.ID, members); err != nil {
			return seatError(err)
		}
		created, err := s.teams.Create(ctx, team)
		if err != nil {
			s.undoTeam(ctx, team.ID, false)
			return err
		}
		team = created
		since := time.Now().UTC().Truncate(time.Millisecond)
		if err := s.roles.EnsureParticipants(ctx, h.ID, members, actor.UserID); err != nil {
			s.undoTeam(ctx, team.ID, true)
			s.undoRoles(ctx, h.ID, members, since)
			return err
		}
		return nil
	})
	if err != nil {
		return TeamView{}, wrapInternal("Could not register team.", err)
	}

	view := s.populateOne(ctx, team)
	s.sink.Publish(team.OrganizationID, events.KindCreated, view)
	s.log.Info("team registered",
		zap.String("team_id", team.ID.Hex()),
		zap.String("hackathon_id", h.ID.Hex()),
		zap.Int("members", len(members)))
	return view, nil
}

// undoTeam compensates a failed registration when writes ran without a
// transaction. Errors are logged only; the caller already has one to report.
func (s *Service) undoTeam(ctx context.Context, teamID primitive.ObjectID, teamWritten bool) {
	if teamWritten {
		if _, err := s.teams.Delete(ctx, teamID); err != nil {
			s.log.Debug("compensate team insert", zap.String("team_id", teamID.Hex()), zap.Error(err))
		}
	}
	if _, err := s.seats.ReleaseTeam(ctx, teamID); err != nil {
		s.log.Debug("compensate seat claim", zap.String("team_id", teamID.Hex()), zap.Error(err))
	}
}

// undoRoles removes the participant roles a failed registration inserted.
// The unordered bulk upsert may have written some before it failed.
func (s *Service) undoRoles(ctx context.Context, hackathonID primitive.ObjectID, members []primitive.ObjectID, since time.Time) {
	if _, err := s.roles.RemoveParticipantsSince(ctx, hackathonID, members, since); err != nil {
		s.log.Debug("compensate participant roles", zap.String("hackathon_id", hackathonID.Hex()), zap.Error(err))
	}
}

// settle handles a failed write that follows the team write. Inside a
// transaction the error aborts everything. Without one the team write
// already stands, so the failure is logged and the rest is left to the
// seat sweeper or the next update of the team.
func (s *Service) settle(ctx context.Context, step string, teamID primitive.ObjectID, err error) error {
	if err == nil || txn.Active(ctx) {
		return err
	}
	s.log.Warn("team follow-up write failed",
		zap.String("step", step),
		zap.String("team_id", teamID.Hex()),
		zap.Error(err))
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Update                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Update replaces a team's name, idea, and members. The leader is kept and
// is always a member.
func (s *Service) Update(ctx context.Context, hackathonID, teamID primitive.ObjectID, actor authz.Actor, in TeamInput) (TeamView, MemberChange, error) {
	name, ideaID, requested, err := parseInput(in)
	if err != nil {
		return TeamView{}, MemberChange{}, err
	}

	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return TeamView{}, MemberChange{}, err
	}
	hr, err := s.roles.RoleFor(ctx, team.HackathonID, actor.UserID)
	if err != nil {
		return TeamView{}, MemberChange{}, wrapInternal("Could not load hackathon role.", err)
	}
	if !teampolicy.CanEditTeam(actor, team, hr) {
		return TeamView{}, MemberChange{}, apperr.AccessDenied("Only the team leader or an organizer can update this team.")
	}
	if team.HackathonID != hackathonID {
		return TeamView{}, MemberChange{}, apperr.HackathonMismatch()
	}

	members := memberSet(team.LeaderID, requested)
	h, err := s.openHackathon(ctx, hackathonID, actor, len(members))
	if err != nil {
		return TeamView{}, MemberChange{}, err
	}
	if err := s.checkReferences(ctx, h, ideaID, members); err != nil {
		return TeamView{}, MemberChange{}, err
	}
	if err := s.checkExclusive(ctx, h.ID, members, team.ID); err != nil {
		return TeamView{}, MemberChange{}, err
	}

	change := MemberChange{
		Added:   difference(members, team.Members),
		Removed: difference(team.Members, members),
	}

	err = txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		if err := s.seats.Claim(ctx, h.ID, team.ID, change.Added); err != nil {
			return seatError(err)
		}
		if err := s.teams.ReplaceInfo(ctx, team.ID, name, ideaID, members); err != nil {
			if _, rerr := s.seats.Release(ctx, team.ID, change.Added); rerr != nil {
				s.log.Debug("compensate seat claim", zap.String("team_id", team.ID.Hex()), zap.Error(rerr))
			}
			if errors.Is(err, teamstore.ErrNotFound) {
				return apperr.NotFound("Team not found.")
			}
			return err
		}
		_, err := s.seats.Release(ctx, team.ID, change.Removed)
		if err := s.settle(ctx, "release removed seats", team.ID, err); err != nil {
			return err
		}
		err = s.roles.EnsureParticipants(ctx, h.ID, members, actor.UserID)
		if err := s.settle(ctx, "ensure participant roles", team.ID, err); err != nil {
			return err
		}
		if s.opts.RevokeRolesOnUpdate {
			_, err = s.roles.RemoveParticipants(ctx, h.ID, change.Removed)
			if err := s.settle(ctx, "revoke participant roles", team.ID, err); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return TeamView{}, MemberChange{}, wrapInternal("Could not update team.", err)
	}

	updated, err := s.teams.GetByID(ctx, team.ID)
	if err != nil {
		return TeamView{}, MemberChange{}, wrapInternal("Could not load team.", err)
	}
	view := s.populateOne(ctx, updated)
	s.sink.Publish(updated.OrganizationID, events.KindUpdated, view)
	s.log.Info("team updated",
		zap.String("team_id", team.ID.Hex()),
		zap.Int("added", len(change.Added)),
		zap.Int("removed", len(change.Removed)))
	return view, change, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Withdraw                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Withdraw deletes a team, its seats, and the participant roles of its
// members. It returns the team as it was before deletion.
func (s *Service) Withdraw(ctx context.Context, hackathonID, teamID primitive.ObjectID, actor authz.Actor) (TeamView, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return TeamView{}, err
	}
	hr, err := s.roles.RoleFor(ctx, team.HackathonID, actor.UserID)
	if err != nil {
		return TeamView{}, wrapInternal("Could not load hackathon role.", err)
	}
	if !teampolicy.CanWithdrawTeam(actor, team, hr) {
		return TeamView{}, apperr.AccessDenied("Only team members or an organizer can withdraw this team.")
	}
	if team.HackathonID != hackathonID {
		return TeamView{}, apperr.HackathonMismatch()
	}

	snapshot := s.populateOne(ctx, team)

	// The team goes first so a failed delete changes nothing. Without a
	// transaction, seats left by a later failure are reclaimed by the seat
	// sweeper; released seats on a surviving team would break exclusivity.
	err = txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		n, err := s.teams.Delete(ctx, team.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("Team not found.")
		}
		_, err = s.seats.ReleaseTeam(ctx, team.ID)
		if err := s.settle(ctx, "release team seats", team.ID, err); err != nil {
			return err
		}
		_, err = s.roles.RemoveParticipants(ctx, team.HackathonID, team.Members)
		return s.settle(ctx, "revoke participant roles", team.ID, err)
	})
	if err != nil {
		return TeamView{}, wrapInternal("Could not withdraw team.", err)
	}

	s.sink.Publish(team.OrganizationID, events.KindDeleted, snapshot)
	s.log.Info("team withdrawn",
		zap.String("team_id", team.ID.Hex()),
		zap.String("hackathon_id", team.HackathonID.Hex()))
	return snapshot, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reads                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Teams lists every team of a hackathon for its staff, judges, and mentors.
func (s *Service) Teams(ctx context.Context, hackathonID primitive.ObjectID, actor authz.Actor) ([]TeamView, error) {
	h, err := s.loadHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if !actor.InOrg(h.OrganizationID) {
		return nil, apperr.AccessDenied("This hackathon belongs to another organization.")
	}
	hr, err := s.roles.RoleFor(ctx, h.ID, actor.UserID)
	if err != nil {
		return nil, wrapInternal("Could not load hackathon role.", err)
	}
	if !teampolicy.CanViewAllTeams(actor, h.OrganizationID, hr) {
		return nil, apperr.AccessDenied("You don't have permission to view all teams.")
	}

	teams, err := s.teams.ListByHackathon(ctx, h.ID)
	if err != nil {
		return nil, wrapInternal("Could not load teams.", err)
	}
	views, err := s.populate(ctx, teams)
	if err != nil {
		return nil, wrapInternal("Could not load teams.", err)
	}
	return views, nil
}

// MyTeam returns the actor's team in the hackathon.
func (s *Service) MyTeam(ctx context.Context, hackathonID primitive.ObjectID, actor authz.Actor) (TeamView, error) {
	team, err := s.teams.FindByMember(ctx, hackathonID, actor.UserID)
	if errors.Is(err, teamstore.ErrNotFound) {
		return TeamView{}, apperr.NotFound("You are not registered in a team for this hackathon.")
	}
	if err != nil {
		return TeamView{}, wrapInternal("Could not load team.", err)
	}
	views, err := s.populate(ctx, []models.Team{team})
	if err != nil {
		return TeamView{}, wrapInternal("Could not load team.", err)
	}
	return views[0], nil
}

// MyTeams returns every team the actor belongs to, newest first.
func (s *Service) MyTeams(ctx context.Context, actor authz.Actor) ([]TeamView, error) {
	teams, err := s.teams.ListByMember(ctx, actor.UserID)
	if err != nil {
		return nil, wrapInternal("Could not load teams.", err)
	}
	views, err := s.populate(ctx, teams)
	if err != nil {
		return nil, wrapInternal("Could not load teams.", err)
	}
	return views, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Checks                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// parseInput performs the shape checks shared by register and update.
func parseInput(in TeamInput) (string, primitive.ObjectID, []primitive.ObjectID, error) {
	name := normalize.Name(htmlsanitize.StripTags(in.Name))
	if name == "" {
		return "", primitive.NilObjectID, nil, apperr.Validation("Team name is required.")
	}
	if utf8.RuneCountInString(name) > MaxTeamNameLength {
		return "", primitive.NilObjectID, nil, apperr.Validation(fmt.Sprintf("Team name must be at most %d characters.", MaxTeamNameLength))
	}
	if normalize.QueryParam(in.IdeaID) == "" {
		return "", primitive.NilObjectID, nil, apperr.Validation("An idea is required.")
	}
	ideaID, err := primitive.ObjectIDFromHex(normalize.QueryParam(in.IdeaID))
	if err != nil {
		return "", primitive.NilObjectID, nil, apperr.Validation("Idea ID is not valid.")
	}
	members := make([]primitive.ObjectID, 0, len(in.MemberIDs))
	for _, raw := range in.MemberIDs {
		id, err := primitive.ObjectIDFromHex(normalize.QueryParam(raw))
		if err != nil {
			return "", primitive.NilObjectID, nil, apperr.Validation(fmt.Sprintf("Member ID %q is not valid.", raw))
		}
		members = append(members, id)
	}
	return name, ideaID, members, nil
}

// memberSet puts first ahead of the requested members and drops duplicates,
// keeping the order in which IDs first appear.
func memberSet(first primitive.ObjectID, requested []primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]struct{}{first: {}}
	out := []primitive.ObjectID{first}
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference returns the IDs of a that are not in b, in a's order.
func difference(a, b []primitive.ObjectID) []primitive.ObjectID {
	in := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	var out []primitive.ObjectID
	for _, id := range a {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) loadHackathon(ctx context.Context, id primitive.ObjectID) (models.Hackathon, error) {
	h, err := s.hackathons.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Hackathon{}, apperr.NotFound("Hackathon not found.")
	}
	if err != nil {
		return models.Hackathon{}, wrapInternal("Could not load hackathon.", err)
	}
	return h, nil
}

func (s *Service) loadTeam(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if errors.Is(err, teamstore.ErrNotFound) {
		return models.Team{}, apperr.NotFound("Team not found.")
	}
	if err != nil {
		return models.Team{}, wrapInternal("Could not load team.", err)
	}
	return t, nil
}

// openHackathon runs checks 2 to 5: the hackathon exists, belongs to the
// actor's organization, is accepting registrations, and admits a team of
// size members.
func (s *Service) openHackathon(ctx context.Context, id primitive.ObjectID, actor authz.Actor, size int) (models.Hackathon, error) {
	h, err := s.loadHackathon(ctx, id)
	if err != nil {
		return models.Hackathon{}, err
	}
	if !actor.InOrg(h.OrganizationID) {
		return models.Hackathon{}, apperr.AccessDenied("This hackathon belongs to another organization.")
	}
	if !h.IsActive {
		return models.Hackathon{}, apperr.RegistrationClosed()
	}
	if !h.SizeAllowed(size) {
		return models.Hackathon{}, apperr.InvalidTeamSize(h.MinimumTeamSize, h.MaximumTeamSize)
	}
	return h, nil
}

// checkReferences verifies the idea and every member belong to the
// hackathon's organization.
func (s *Service) checkReferences(ctx context.Context, h models.Hackathon, ideaID primitive.ObjectID, members []primitive.ObjectID) error {
	ok, err := s.ideas.ExistsInOrg(ctx, ideaID, h.OrganizationID)
	if err != nil {
		return wrapInternal("Could not load idea.", err)
	}
	if !ok {
		return apperr.NotFound("Idea not found.")
	}

	n, err := s.users.CountActiveInOrg(ctx, h.OrganizationID, members)
	if err != nil {
		return wrapInternal("Could not load members.", err)
	}
	if n != int64(len(members)) {
		return apperr.NotFound("One or more members were not found in this organization.")
	}
	return nil
}

// checkExclusive is the friendly pre-check for membership exclusivity; the
// seat claim is what enforces it under concurrency.
func (s *Service) checkExclusive(ctx context.Context, hackathonID primitive.ObjectID, members []primitive.ObjectID, exclude primitive.ObjectID) error {
	conflict, err := s.teams.FindConflicting(ctx, hackathonID, members, exclude)
	if err != nil {
		return wrapInternal("Could not check existing teams.", err)
	}
	if conflict != nil {
		return apperr.AlreadyRegistered()
	}
	return nil
}

func seatError(err error) error {
	if errors.Is(err, teamseatstore.ErrSeatTaken) {
		return apperr.AlreadyRegistered()
	}
	return err
}

// wrapInternal passes *apperr.Error through and wraps anything else.
func wrapInternal(msg string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal(msg, err)
}
