package acts

import (
	"sort"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
)

// SnapshotTeams validates the two submitted lineups and returns frozen copies
// for the act. The copies share nothing with the inputs.
func SnapshotTeams(local, visitor models.ActTeam) (models.ActTeam, models.ActTeam, error) {
	l, err := snapshotTeam("local_team", local)
	if err != nil {
		return models.ActTeam{}, models.ActTeam{}, err
	}
	v, err := snapshotTeam("visitor_team", visitor)
	if err != nil {
		return models.ActTeam{}, models.ActTeam{}, err
	}
	if l.TeamID == v.TeamID {
		return models.ActTeam{}, models.ActTeam{}, invalid("visitor_team.team_id", "must differ from local team %q", l.TeamID)
	}
	return l, v, nil
}

func snapshotTeam(field string, in models.ActTeam) (models.ActTeam, error) {
	t := models.ActTeam{
		TeamID:    strings.TrimSpace(in.TeamID),
		ClubName:  strings.TrimSpace(in.ClubName),
		CaptainID: strings.TrimSpace(in.CaptainID),
		CoachName: strings.TrimSpace(in.CoachName),
		Wrestlers: make([]models.ActWrestler, 0, len(in.Wrestlers)),
	}
	for _, w := range in.Wrestlers {
		w.WrestlerID = strings.TrimSpace(w.WrestlerID)
		w.Name = strings.TrimSpace(w.Name)
		w.LicenseNumber = strings.TrimSpace(w.LicenseNumber)
		t.Wrestlers = append(t.Wrestlers, w)
	}
	if err := ValidateTeam(field, t); err != nil {
		return models.ActTeam{}, err
	}
	sort.SliceStable(t.Wrestlers, func(i, j int) bool {
		return t.Wrestlers[i].LineupNumber < t.Wrestlers[j].LineupNumber
	})
	return t, nil
}

// ValidateTeam checks one roster snapshot. Field prefixes error paths.
func ValidateTeam(field string, t models.ActTeam) error {
	if t.TeamID == "" {
		return invalid(field+".team_id", "must not be empty")
	}
	if t.ClubName == "" {
		return invalid(field+".club_name", "must not be empty")
	}

	numbers := make(map[int]string, len(t.Wrestlers))
	ids := make(map[string]struct{}, len(t.Wrestlers))
	for i, w := range t.Wrestlers {
		path := field + ".wrestlers[" + itoa(i) + "]"
		if w.WrestlerID == "" {
			return invalid(path+".wrestler_id", "must not be empty")
		}
		if _, dup := ids[w.WrestlerID]; dup {
			return invalid(path+".wrestler_id", "wrestler %q listed twice", w.WrestlerID)
		}
		ids[w.WrestlerID] = struct{}{}
		if w.LineupNumber < 1 {
			return invalid(path+".lineup_number", "must be 1 or greater, got %d", w.LineupNumber)
		}
		if other, dup := numbers[w.LineupNumber]; dup {
			return invalid(path+".lineup_number", "number %d already used by wrestler %q", w.LineupNumber, other)
		}
		numbers[w.LineupNumber] = w.WrestlerID
	}

	if t.CaptainID != "" {
		if _, ok := ids[t.CaptainID]; !ok {
			return invalid(field+".captain_id", "captain %q is not in the lineup", t.CaptainID)
		}
	}
	return nil
}
