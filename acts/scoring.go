// Package acts holds the match-act engine: roster and ledger validation,
// bout scoring and the draft -> completed -> signed lifecycle. Every function
// works on act values and performs no I/O.
package acts

import "github.com/Dosada05/wrestling-league/models"

// Points awarded to the winner of a bout.
const (
	PointsDecision = 1
	PointsClean    = 2
	cleanWinFalls  = 2
)

// Winner derives the outcome of a bout from its fall counts.
func Winner(b models.MatchBout) models.BoutWinner {
	if b.NoContest || (!b.Local.IsAssigned() && !b.Visitor.IsAssigned()) {
		return models.WinnerNone
	}
	return WinnerFromCounts(len(b.LocalFalls), len(b.VisitorFalls))
}

func WinnerFromCounts(localFalls, visitorFalls int) models.BoutWinner {
	switch {
	case localFalls > visitorFalls:
		return models.WinnerLocal
	case visitorFalls > localFalls:
		return models.WinnerVisitor
	default:
		return models.WinnerDraw
	}
}

// Points returns the (local, visitor) points a bout contributes.
func Points(b models.MatchBout) (local, visitor int) {
	switch Winner(b) {
	case models.WinnerLocal:
		return winPoints(len(b.LocalFalls)), 0
	case models.WinnerVisitor:
		return 0, winPoints(len(b.VisitorFalls))
	default:
		return 0, 0
	}
}

func winPoints(falls int) int {
	if falls >= cleanWinFalls {
		return PointsClean
	}
	return PointsDecision
}

// TeamScores sums bout points over the ledger.
func TeamScores(bouts []models.MatchBout) (local, visitor int) {
	for _, b := range bouts {
		l, v := Points(b)
		local += l
		visitor += v
	}
	return local, visitor
}

// RecomputeScores refreshes every derived field of the act in place: bout and
// fall identities, bout winners and the cached team totals. Every mutation
// path calls it before the act is returned.
func RecomputeScores(act *models.MatchAct) {
	for i := range act.Bouts {
		b := &act.Bouts[i]
		b.ID = i + 1
		renumberFalls(b.LocalFalls)
		renumberFalls(b.VisitorFalls)
		b.Winner = Winner(*b)
	}
	act.LocalTeamScore, act.VisitorTeamScore = TeamScores(act.Bouts)
}

func renumberFalls(falls []models.Fall) {
	for i := range falls {
		falls[i].ID = i + 1
	}
}

// ScoresConsistent reports whether the cached totals match the ledger.
func ScoresConsistent(act models.MatchAct) bool {
	l, v := TeamScores(act.Bouts)
	return l == act.LocalTeamScore && v == act.VisitorTeamScore
}

// Contested reports whether the bout counts towards contested-bout statistics.
func Contested(b models.MatchBout) bool {
	return Winner(b) != models.WinnerNone
}
