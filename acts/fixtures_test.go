package acts

import (
	"time"

	"github.com/Dosada05/wrestling-league/models"
)

func testTeam(id, club string, wrestlerIDs ...string) models.ActTeam {
	t := models.ActTeam{TeamID: id, ClubName: club, CoachName: "Coach " + club}
	for i, w := range wrestlerIDs {
		t.Wrestlers = append(t.Wrestlers, models.ActWrestler{WrestlerID: w, LineupNumber: i + 1})
	}
	return t
}

func bout(order int, local, visitor string, lf, vf int) BoutEntry {
	return BoutEntry{
		Order:             order,
		LocalWrestlerID:   local,
		VisitorWrestlerID: visitor,
		LocalFalls:        RegularFalls(lf),
		VisitorFalls:      RegularFalls(vf),
	}
}

// draftAct builds a valid draft with bouts scoring (2,0), (1,0), (0,2).
func draftAct() models.MatchAct {
	local := testTeam("team-a", "Club A", "a1", "a2", "a3")
	visitor := testTeam("team-b", "Club B", "b1", "b2", "b3")
	bouts, err := BuildLedger(local, visitor, []BoutEntry{
		bout(1, "a1", "b1", 2, 0),
		bout(2, "a2", "b2", 1, 0),
		bout(3, "a3", "b3", 0, 2),
	})
	if err != nil {
		panic(err)
	}
	act, err := NewDraft(models.MatchAct{
		ID:          "act-1",
		MatchID:     7,
		Season:      "2026",
		Date:        time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC),
		LocalTeam:   local,
		VisitorTeam: visitor,
		Bouts:       bouts,
	})
	if err != nil {
		panic(err)
	}
	return act
}
