package acts

import (
	"sort"

	"github.com/Dosada05/wrestling-league/models"
)

// BoutEntry is one submitted bout before it is resolved against the roster
// snapshots. An empty wrestler id leaves that side unassigned.
type BoutEntry struct {
	Order             int
	LocalWrestlerID   string
	VisitorWrestlerID string
	LocalFalls        []models.Fall
	VisitorFalls      []models.Fall
	LocalPenalties    int
	VisitorPenalties  int
	NoContest         bool
}

// BuildLedger resolves submitted bouts against the roster snapshots and
// returns them sorted by order. Orders must be unique; contiguity is only
// required at completion (see ValidateFinalLedger).
func BuildLedger(local, visitor models.ActTeam, entries []BoutEntry) ([]models.MatchBout, error) {
	bouts := make([]models.MatchBout, 0, len(entries))
	for i, e := range entries {
		field := "bouts[" + itoa(i) + "]"
		b := models.MatchBout{
			Order:            e.Order,
			LocalFalls:       append([]models.Fall{}, e.LocalFalls...),
			VisitorFalls:     append([]models.Fall{}, e.VisitorFalls...),
			LocalPenalties:   e.LocalPenalties,
			VisitorPenalties: e.VisitorPenalties,
			NoContest:        e.NoContest,
		}
		var err error
		if b.Local, err = resolveSlot(field+".local_wrestler_id", &local, e.LocalWrestlerID); err != nil {
			return nil, err
		}
		if b.Visitor, err = resolveSlot(field+".visitor_wrestler_id", &visitor, e.VisitorWrestlerID); err != nil {
			return nil, err
		}
		bouts = append(bouts, b)
	}

	if err := validateBouts(local, visitor, bouts); err != nil {
		return nil, err
	}
	sortBouts(bouts)
	return bouts, nil
}

func resolveSlot(field string, team *models.ActTeam, wrestlerID string) (models.BoutSlot, error) {
	if wrestlerID == "" {
		return models.UnassignedSlot(), nil
	}
	w, ok := team.Wrestler(wrestlerID)
	if !ok {
		return models.BoutSlot{}, invalid(field, "wrestler %q is not in the %s roster", wrestlerID, team.ClubName)
	}
	return models.AssignedSlot(w), nil
}

// ValidateLedger checks the bouts of an act against its own roster snapshots.
func ValidateLedger(act models.MatchAct) error {
	return validateBouts(act.LocalTeam, act.VisitorTeam, act.Bouts)
}

func validateBouts(local, visitor models.ActTeam, bouts []models.MatchBout) error {
	seen := make(map[int]struct{}, len(bouts))
	for i, b := range bouts {
		field := "bouts[" + itoa(i) + "]"
		if b.Order < 1 {
			return invalid(field+".order", "must be 1 or greater, got %d", b.Order)
		}
		if _, dup := seen[b.Order]; dup {
			return invalid(field+".order", "order %d is used by more than one bout", b.Order)
		}
		seen[b.Order] = struct{}{}

		if err := validateSlot(field+".local", &local, b.Local); err != nil {
			return err
		}
		if err := validateSlot(field+".visitor", &visitor, b.Visitor); err != nil {
			return err
		}
		if err := validateFalls(field+".local_falls", b.Local, b.LocalFalls); err != nil {
			return err
		}
		if err := validateFalls(field+".visitor_falls", b.Visitor, b.VisitorFalls); err != nil {
			return err
		}
		if b.LocalPenalties < 0 {
			return invalid(field+".local_penalties", "must not be negative")
		}
		if b.VisitorPenalties < 0 {
			return invalid(field+".visitor_penalties", "must not be negative")
		}
		if b.NoContest && (len(b.LocalFalls) > 0 || len(b.VisitorFalls) > 0) {
			return invalid(field+".no_contest", "a bout marked without result cannot carry falls")
		}
	}
	return nil
}

func validateSlot(field string, team *models.ActTeam, s models.BoutSlot) error {
	switch s.Kind {
	case models.SlotUnassigned:
		if s.Wrestler != nil {
			return invalid(field, "unassigned slot must not carry a wrestler")
		}
		return nil
	case models.SlotAssigned:
		if s.Wrestler == nil {
			return invalid(field, "assigned slot is missing its wrestler")
		}
		if _, ok := team.Wrestler(s.Wrestler.WrestlerID); !ok {
			return invalid(field+".wrestler_id", "wrestler %q is not in the %s roster", s.Wrestler.WrestlerID, team.ClubName)
		}
		return nil
	default:
		return invalid(field+".kind", "unknown slot kind %q", s.Kind)
	}
}

func validateFalls(field string, slot models.BoutSlot, falls []models.Fall) error {
	if len(falls) > 0 && !slot.IsAssigned() {
		return invalid(field, "falls recorded for a side without wrestler")
	}
	if len(falls) > MaxFallsPerSide {
		return invalid(field, "at most %d falls per side", MaxFallsPerSide)
	}
	for i, f := range falls {
		if !ValidFallType(f.Type) {
			return invalid(field+"["+itoa(i)+"].type", "unknown fall type %q", f.Type)
		}
	}
	return nil
}

// ValidateFinalLedger requires the bout orders to be exactly 1..N.
// Gaps are reported, never renumbered.
func ValidateFinalLedger(bouts []models.MatchBout) error {
	if len(bouts) == 0 {
		return invalid("bouts", "at least one bout is required")
	}
	orders := make([]int, len(bouts))
	for i, b := range bouts {
		orders[i] = b.Order
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			return invalid("bouts", "bout orders must be contiguous from 1, expected %d but found %d", i+1, o)
		}
	}
	return nil
}

func sortBouts(bouts []models.MatchBout) {
	sort.SliceStable(bouts, func(i, j int) bool { return bouts[i].Order < bouts[j].Order })
}

func boutIndex(act *models.MatchAct, order int) (int, error) {
	for i := range act.Bouts {
		if act.Bouts[i].Order == order {
			return i, nil
		}
	}
	return -1, invalid("order", "no bout with order %d", order)
}
