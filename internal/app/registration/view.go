// internal/app/registration/view.go
package registration

import (
	"context"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberView is a team member as shown to clients.
type MemberView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// IdeaView is the idea a team works on.
type IdeaView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TeamView is a team with its leader, members, and idea resolved.
type TeamView struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	HackathonID    string       `json:"hackathon_id"`
	OrganizationID string       `json:"organization_id"`
	Idea           IdeaView     `json:"idea"`
	Leader         MemberView   `json:"leader"`
	Members        []MemberView `json:"members"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// MemberIDs returns the member IDs in team order.
func (v TeamView) MemberIDs() []string {
	out := make([]string, len(v.Members))
	for i, m := range v.Members {
		out[i] = m.ID
	}
	return out
}

func memberView(id primitive.ObjectID, users map[primitive.ObjectID]models.User) MemberView {
	mv := MemberView{ID: id.Hex()}
	if u, ok := users[id]; ok {
		mv.FullName = u.FullName
		mv.Email = u.Email
	}
	return mv
}

func buildView(t models.Team, users map[primitive.ObjectID]models.User, ideas map[primitive.ObjectID]models.Idea) TeamView {
	v := TeamView{
		ID:             t.ID.Hex(),
		Name:           t.Name,
		HackathonID:    t.HackathonID.Hex(),
		OrganizationID: t.OrganizationID.Hex(),
		Idea:           IdeaView{ID: t.IdeaID.Hex()},
		Leader:         memberView(t.LeaderID, users),
		Members:        make([]MemberView, 0, len(t.Members)),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if idea, ok := ideas[t.IdeaID]; ok {
		v.Idea.Title = idea.Title
	}
	for _, m := range t.Members {
		v.Members = append(v.Members, memberView(m, users))
	}
	return v
}

// populate resolves users and ideas for teams with two batched lookups.
func (s *Service) populate(ctx context.Context, teams []models.Team) ([]TeamView, error) {
	userSet := map[primitive.ObjectID]struct{}{}
	ideaSet := map[primitive.ObjectID]struct{}{}
	for _, t := range teams {
		userSet[t.LeaderID] = struct{}{}
		for _, m := range t.Members {
			userSet[m] = struct{}{}
		}
		ideaSet[t.IdeaID] = struct{}{}
	}

	users, err := s.users.Summaries(ctx, keys(userSet))
	if err != nil {
		return nil, err
	}
	ideas, err := s.ideas.Titles(ctx, keys(ideaSet))
	if err != nil {
		return nil, err
	}

	out := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		out = append(out, buildView(t, users, ideas))
	}
	return out, nil
}

// populateOne resolves a single team. A lookup failure degrades to a view
// carrying IDs only; the team itself is already persisted.
func (s *Service) populateOne(ctx context.Context, t models.Team) TeamView {
	views, err := s.populate(ctx, []models.Team{t})
	if err != nil {
		s.log.Warn("populate team failed", zap.String("team_id", t.ID.Hex()), zap.Error(err))
		return buildView(t, nil, nil)
	}
	return views[0]
}

func keys(m map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
