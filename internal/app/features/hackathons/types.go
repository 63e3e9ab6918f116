// internal/app/features/hackathons/types.go
package hackathons

import (
	"time"

	"github.com/dalemusser/hackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hackhub/internal/app/system/normalize"
	"github.com/dalemusser/hackhub/internal/domain/models"
)

type roundRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

type createRequest struct {
	Title           string         `json:"title" validate:"required,max=200"`
	Description     string         `json:"description" validate:"max=20000"`
	IsActive        *bool          `json:"is_active"`
	MinimumTeamSize int            `json:"minimum_team_size" validate:"required,min=1"`
	MaximumTeamSize int            `json:"maximum_team_size" validate:"required,gtefield=MinimumTeamSize,max=50"`
	Rounds          []roundRequest `json:"rounds" validate:"max=20,dive"`
}

// updateRequest carries a PATCH body; absent fields are left unchanged.
type updateRequest struct {
	Title           *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string         `json:"description" validate:"omitempty,max=20000"`
	IsActive        *bool           `json:"is_active"`
	MinimumTeamSize *int            `json:"minimum_team_size" validate:"omitempty,min=1,max=50"`
	MaximumTeamSize *int            `json:"maximum_team_size" validate:"omitempty,min=1,max=50"`
	Rounds          *[]roundRequest `json:"rounds" validate:"omitempty,max=20,dive"`
}

type hackathonResponse struct {
	Message   string           `json:"message,omitempty"`
	Hackathon models.Hackathon `json:"hackathon"`
	TeamCount *int64           `json:"team_count,omitempty"`
}

type hackathonsResponse struct {
	Hackathons []models.Hackathon `json:"hackathons"`
	Total      int                `json:"total"`
}

func toRounds(in []roundRequest) []models.Round {
	out := make([]models.Round, 0, len(in))
	for _, r := range in {
		out = append(out, models.Round{
			Name:        normalize.Name(htmlsanitize.StripTags(r.Name)),
			Description: htmlsanitize.Sanitize(r.Description),
			StartsAt:    r.StartsAt.UTC(),
			EndsAt:      r.EndsAt.UTC(),
		})
	}
	return out
}

func cleanTitle(s string) string {
	return normalize.Name(htmlsanitize.StripTags(s))
}
