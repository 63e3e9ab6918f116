// internal/app/features/teams/types.go
package teams

import "github.com/dalemusser/hackhub/internal/app/registration"

// teamRequest is the body of register and update.
type teamRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	IdeaID    string   `json:"idea_id" validate:"required,objectid"`
	MemberIDs []string `json:"member_ids" validate:"max=50,dive,objectid"`
}

func (req teamRequest) input() registration.TeamInput {
	return registration.TeamInput{
		Name:      req.Name,
		IdeaID:    req.IdeaID,
		MemberIDs: req.MemberIDs,
	}
}

type teamResponse struct {
	Message string                 `json:"message,omitempty"`
	Team    registration.TeamView `json:"team"`
}

type teamsResponse struct {
	Teams []registration.TeamView `json:"teams"`
	Total int                     `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}
