package registration

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseInput_NameIsPlainText(t *testing.T) {
	idea := primitive.NewObjectID().Hex()
	tests := []struct {
		in, want string
	}{
		{"Ada's Team", "Ada's Team"},
		{"Tom & Jerry", "Tom & Jerry"},
		{`The "Best"`, `The "Best"`},
		{"  <b>Rocket</b> Crew ", "Rocket Crew"},
	}
	for _, tc := range tests {
		name, _, _, err := parseInput(TeamInput{Name: tc.in, IdeaID: idea})
		if err != nil {
			t.Fatalf("parseInput(%q): %v", tc.in, err)
		}
		if name != tc.want {
			t.Errorf("parseInput(%q) name = %q, want %q", tc.in, name, tc.want)
		}
	}
}

func TestParseInput_LengthCountsCharacters(t *testing.T) {
	idea := primitive.NewObjectID().Hex()

	// Entity-escaped, 100 ampersands would be 500 runes.
	if _, _, _, err := parseInput(TeamInput{Name: strings.Repeat("&", MaxTeamNameLength), IdeaID: idea}); err != nil {
		t.Errorf("expected %d ampersands to fit, got %v", MaxTeamNameLength, err)
	}
	if _, _, _, err := parseInput(TeamInput{Name: strings.Repeat("x", MaxTeamNameLength+1), IdeaID: idea}); err == nil {
		t.Error("expected an over-long name to be rejected")
	}
}
