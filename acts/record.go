package acts

import "github.com/Dosada05/wrestling-league/models"

// PutBout replaces the bout with the entry's order, or appends it when no
// bout has that order yet.
func PutBout(act models.MatchAct, entry BoutEntry) (models.MatchAct, error) {
	if err := EnsureMutable(act, "edit bout of"); err != nil {
		return models.MatchAct{}, err
	}
	built, err := BuildLedger(act.LocalTeam, act.VisitorTeam, []BoutEntry{entry})
	if err != nil {
		return models.MatchAct{}, err
	}

	next := act.Clone()
	if i, err := boutIndex(&next, entry.Order); err == nil {
		next.Bouts[i] = built[0]
	} else {
		next.Bouts = append(next.Bouts, built[0])
	}
	return finishEdit(next)
}

// RemoveBout deletes the bout with the given order. Remaining orders are kept
// as they are.
func RemoveBout(act models.MatchAct, order int) (models.MatchAct, error) {
	if err := EnsureMutable(act, "remove bout of"); err != nil {
		return models.MatchAct{}, err
	}
	next := act.Clone()
	i, err := boutIndex(&next, order)
	if err != nil {
		return models.MatchAct{}, err
	}
	next.Bouts = append(next.Bouts[:i], next.Bouts[i+1:]...)
	return finishEdit(next)
}

// RecordFall appends a fall for one side of a bout.
func RecordFall(act models.MatchAct, order int, side models.Side, fallType models.FallType, inSeparation bool) (models.MatchAct, error) {
	if err := EnsureMutable(act, "record fall on"); err != nil {
		return models.MatchAct{}, err
	}
	if err := checkSide(side); err != nil {
		return models.MatchAct{}, err
	}
	if fallType == "" {
		fallType = models.FallRegular
	}
	if !ValidFallType(fallType) {
		return models.MatchAct{}, invalid("type", "unknown fall type %q", fallType)
	}

	next := act.Clone()
	i, err := boutIndex(&next, order)
	if err != nil {
		return models.MatchAct{}, err
	}
	b := &next.Bouts[i]
	if b.NoContest {
		return models.MatchAct{}, invalid("order", "bout %d is marked without result", order)
	}
	if !b.Slot(side).IsAssigned() {
		return models.MatchAct{}, invalid("side", "bout %d has no %s wrestler", order, side)
	}
	falls := b.Falls(side)
	if len(*falls) >= MaxFallsPerSide {
		return models.MatchAct{}, invalid("side", "bout %d already has %d %s falls", order, MaxFallsPerSide, side)
	}
	*falls = append(*falls, models.Fall{Type: fallType, InSeparation: inSeparation})
	return finishEdit(next)
}

// RemoveLastFall undoes the most recent fall of one side.
func RemoveLastFall(act models.MatchAct, order int, side models.Side) (models.MatchAct, error) {
	if err := EnsureMutable(act, "remove fall from"); err != nil {
		return models.MatchAct{}, err
	}
	if err := checkSide(side); err != nil {
		return models.MatchAct{}, err
	}
	next := act.Clone()
	i, err := boutIndex(&next, order)
	if err != nil {
		return models.MatchAct{}, err
	}
	falls := next.Bouts[i].Falls(side)
	if len(*falls) == 0 {
		return models.MatchAct{}, invalid("side", "bout %d has no %s falls to remove", order, side)
	}
	*falls = (*falls)[:len(*falls)-1]
	return finishEdit(next)
}

// RecordPenalty adds one penalty to a side of a bout.
func RecordPenalty(act models.MatchAct, order int, side models.Side) (models.MatchAct, error) {
	if err := EnsureMutable(act, "record penalty on"); err != nil {
		return models.MatchAct{}, err
	}
	if err := checkSide(side); err != nil {
		return models.MatchAct{}, err
	}
	next := act.Clone()
	i, err := boutIndex(&next, order)
	if err != nil {
		return models.MatchAct{}, err
	}
	if side == models.SideVisitor {
		next.Bouts[i].VisitorPenalties++
	} else {
		next.Bouts[i].LocalPenalties++
	}
	return finishEdit(next)
}

func checkSide(side models.Side) error {
	if side != models.SideLocal && side != models.SideVisitor {
		return invalid("side", "must be %q or %q, got %q", models.SideLocal, models.SideVisitor, side)
	}
	return nil
}

func finishEdit(next models.MatchAct) (models.MatchAct, error) {
	if err := ValidateLedger(next); err != nil {
		return models.MatchAct{}, err
	}
	sortBouts(next.Bouts)
	RecomputeScores(&next)
	return next, nil
}
