package acts

import (
	"strings"
	"time"

	"github.com/Dosada05/wrestling-league/models"
)

// Reconciliation is the result pushed onto the parent match after completion.
type Reconciliation struct {
	MatchID      int
	LocalScore   int
	VisitorScore int
	Completed    bool
}

// ReconciliationFor builds the notification for a completed act.
func ReconciliationFor(act models.MatchAct) Reconciliation {
	return Reconciliation{
		MatchID:      act.MatchID,
		LocalScore:   act.LocalTeamScore,
		VisitorScore: act.VisitorTeamScore,
		Completed:    true,
	}
}

// CheckFlags rejects flag combinations that do not map to a lifecycle state.
func CheckFlags(act models.MatchAct) error {
	switch {
	case act.IsDraft && !act.IsCompleted && !act.IsSigned:
	case !act.IsDraft && act.IsCompleted:
	default:
		return invalid("state", "inconsistent lifecycle flags draft=%t completed=%t signed=%t",
			act.IsDraft, act.IsCompleted, act.IsSigned)
	}
	return nil
}

// EnsureMutable fails with a LifecycleViolation unless the act is a draft.
func EnsureMutable(act models.MatchAct, op string) error {
	if state := act.State(); state != models.ActStateDraft {
		return &LifecycleViolation{State: state, Op: op}
	}
	return nil
}

// NewDraft turns a candidate act into a draft: roster and ledger are
// validated, lifecycle flags reset and derived fields recomputed.
func NewDraft(candidate models.MatchAct) (models.MatchAct, error) {
	act := candidate.Clone()
	if act.MatchID <= 0 {
		return models.MatchAct{}, invalid("match_id", "must be a positive id")
	}
	if err := ValidateTeam("local_team", act.LocalTeam); err != nil {
		return models.MatchAct{}, err
	}
	if err := ValidateTeam("visitor_team", act.VisitorTeam); err != nil {
		return models.MatchAct{}, err
	}
	if act.LocalTeam.TeamID == act.VisitorTeam.TeamID {
		return models.MatchAct{}, invalid("visitor_team.team_id", "must differ from local team %q", act.LocalTeam.TeamID)
	}
	if err := ValidateLedger(act); err != nil {
		return models.MatchAct{}, err
	}
	sortBouts(act.Bouts)

	act.IsDraft, act.IsCompleted, act.IsSigned = true, false, false
	act.Signature = nil
	RecomputeScores(&act)
	return act, nil
}

// ReviseDraft replaces the content of an existing draft with a candidate,
// keeping the act identity.
func ReviseDraft(existing, candidate models.MatchAct) (models.MatchAct, error) {
	if err := EnsureMutable(existing, "update"); err != nil {
		return models.MatchAct{}, err
	}
	if candidate.MatchID != existing.MatchID {
		return models.MatchAct{}, invalid("match_id", "act belongs to match %d, got %d", existing.MatchID, candidate.MatchID)
	}
	act, err := NewDraft(candidate)
	if err != nil {
		return models.MatchAct{}, err
	}
	act.ID = existing.ID
	act.CreatedAt = existing.CreatedAt
	return act, nil
}

// Complete moves a draft to COMPLETED and returns the reconciliation to emit.
// Completing an already completed act returns it unchanged; a signed act is
// rejected.
func Complete(act models.MatchAct) (models.MatchAct, Reconciliation, error) {
	switch act.State() {
	case models.ActStateSigned:
		return models.MatchAct{}, Reconciliation{}, &LifecycleViolation{State: models.ActStateSigned, Op: "complete"}
	case models.ActStateCompleted:
		done := act.Clone()
		RecomputeScores(&done)
		return done, ReconciliationFor(done), nil
	}

	next := act.Clone()
	if len(next.LocalTeam.Wrestlers) == 0 {
		return models.MatchAct{}, Reconciliation{}, &LifecycleViolation{State: models.ActStateDraft, Op: "complete", Reason: "local team has no wrestlers"}
	}
	if len(next.VisitorTeam.Wrestlers) == 0 {
		return models.MatchAct{}, Reconciliation{}, &LifecycleViolation{State: models.ActStateDraft, Op: "complete", Reason: "visitor team has no wrestlers"}
	}
	if err := ValidateLedger(next); err != nil {
		return models.MatchAct{}, Reconciliation{}, err
	}
	if err := ValidateFinalLedger(next.Bouts); err != nil {
		return models.MatchAct{}, Reconciliation{}, err
	}
	for _, b := range next.Bouts {
		if !resolved(b) {
			return models.MatchAct{}, Reconciliation{}, &LifecycleViolation{
				State:  models.ActStateDraft,
				Op:     "complete",
				Reason: "bout " + itoa(b.Order) + " has no wrestlers and is not marked without result",
			}
		}
	}

	sortBouts(next.Bouts)
	RecomputeScores(&next)
	next.IsDraft, next.IsCompleted, next.IsSigned = false, true, false
	return next, ReconciliationFor(next), nil
}

// resolved reports whether the outcome of a bout is settled: either some
// wrestler took part, or the bout is explicitly marked without result.
func resolved(b models.MatchBout) bool {
	return b.NoContest || b.Local.IsAssigned() || b.Visitor.IsAssigned()
}

// Sign closes a completed act. No write is accepted afterwards.
func Sign(act models.MatchAct, signedBy string, at time.Time) (models.MatchAct, error) {
	if state := act.State(); state != models.ActStateCompleted {
		return models.MatchAct{}, &LifecycleViolation{State: state, Op: "sign"}
	}
	signedBy = strings.TrimSpace(signedBy)
	if signedBy == "" {
		return models.MatchAct{}, invalid("signed_by", "must not be empty")
	}
	if !ScoresConsistent(act) {
		return models.MatchAct{}, &LifecycleViolation{State: models.ActStateCompleted, Op: "sign", Reason: "stored scores differ from the bout ledger"}
	}

	next := act.Clone()
	seal, err := Seal(next)
	if err != nil {
		return models.MatchAct{}, err
	}
	next.IsSigned = true
	next.Signature = &models.ActSignature{SignedBy: signedBy, SignedAt: at.UTC(), Seal: seal}
	return next, nil
}
