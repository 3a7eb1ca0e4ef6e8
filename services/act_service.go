package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/wrestling-league/acts"
	"github.com/Dosada05/wrestling-league/live"
	"github.com/Dosada05/wrestling-league/metrics"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
)

const reconcileParallelism = 4

// ActService drives a match act through its lifecycle.
//
// CompleteAct and SubmitAct (with Complete set) may return a non-nil act
// together with a *acts.ReconciliationWarning: the act is completed and
// stored, only the parent match was not updated.
type ActService interface {
	GetAct(ctx context.Context, matchID int) (*models.MatchAct, error)
	SubmitAct(ctx context.Context, matchID int, input SubmitActInput) (*models.MatchAct, error)
	PutBout(ctx context.Context, matchID, order int, input BoutInput) (*models.MatchAct, error)
	RecordFall(ctx context.Context, matchID, order int, input RecordFallInput) (*models.MatchAct, error)
	RemoveLastFall(ctx context.Context, matchID, order int, side models.Side) (*models.MatchAct, error)
	RecordPenalty(ctx context.Context, matchID, order int, input RecordPenaltyInput) (*models.MatchAct, error)
	CompleteAct(ctx context.Context, matchID int) (*models.MatchAct, error)
	SignAct(ctx context.Context, matchID int, input SignActInput) (*models.MatchAct, error)
	VerifyAct(ctx context.Context, matchID int) (*SealReport, error)
	ReconcilePending(ctx context.Context, limit int) (int, error)
}

// ActNotifier receives act snapshots for live viewers. *live.Hub implements it.
type ActNotifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

type SealReport struct {
	MatchID  int       `json:"match_id"`
	ActID    string    `json:"act_id"`
	SignedBy string    `json:"signed_by"`
	SignedAt time.Time `json:"signed_at"`
	Seal     string    `json:"seal"`
	Valid    bool      `json:"valid"`
}

type actService struct {
	actRepo    repositories.ActRepository
	matchRepo  repositories.MatchRepository
	reconciler MatchReconciler
	archiver   ActArchiver
	notifier   ActNotifier
	logger     *slog.Logger
	now        func() time.Time
}

type ActServiceOption func(*actService)

// WithArchiver stores a copy of every signed act.
func WithArchiver(a ActArchiver) ActServiceOption {
	return func(s *actService) { s.archiver = a }
}

func WithNotifier(n ActNotifier) ActServiceOption {
	return func(s *actService) { s.notifier = n }
}

func WithClock(now func() time.Time) ActServiceOption {
	return func(s *actService) { s.now = now }
}

func NewActService(
	actRepo repositories.ActRepository,
	matchRepo repositories.MatchRepository,
	reconciler MatchReconciler,
	logger *slog.Logger,
	opts ...ActServiceOption,
) ActService {
	s := &actService{
		actRepo:    actRepo,
		matchRepo:  matchRepo,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAct returns the stored act. Scores are recomputed from the ledger on
// read; a stored total that drifted is logged, never rewritten.
func (s *actService) GetAct(ctx context.Context, matchID int) (*models.MatchAct, error) {
	act, err := s.loadAct(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !acts.ScoresConsistent(*act) {
		s.logger.Warn("stored act scores differ from bout ledger",
			slog.Int("match_id", matchID),
			slog.Int("stored_local", act.LocalTeamScore),
			slog.Int("stored_visitor", act.VisitorTeamScore))
		acts.RecomputeScores(act)
	}
	s.populateArchiveURL(act)
	return act, nil
}

func (s *actService) SubmitAct(ctx context.Context, matchID int, input SubmitActInput) (*models.MatchAct, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	candidate, err := input.toCandidate(matchID)
	if err != nil {
		return nil, s.rejected(err)
	}
	if err := checkFixtureTeams(match, candidate); err != nil {
		return nil, s.rejected(err)
	}

	existing, err := s.actRepo.FindByMatchID(ctx, matchID)
	switch {
	case errors.Is(err, repositories.ErrActNotFound):
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load act of match %d: %w", matchID, err)
	}

	var act models.MatchAct
	if existing == nil {
		act, err = acts.NewDraft(candidate)
	} else {
		act, err = acts.ReviseDraft(*existing, candidate)
	}
	if err != nil {
		return nil, s.rejected(err)
	}

	// Completion is checked before anything is stored, so a rejected
	// submission leaves no trace.
	var rec acts.Reconciliation
	if input.Complete {
		act, rec, err = acts.Complete(act)
		if err != nil {
			return nil, s.rejected(err)
		}
	}

	if existing == nil {
		if err := s.actRepo.Create(ctx, &act); err != nil {
			switch {
			case errors.Is(err, repositories.ErrActMatchConflict):
				return nil, fmt.Errorf("%w: match %d", ErrActConflict, matchID)
			case errors.Is(err, repositories.ErrActMatchInvalid):
				return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
			}
			return nil, fmt.Errorf("failed to create act for match %d: %w", matchID, err)
		}
		s.logger.Info("match act created", slog.Int("match_id", matchID), slog.String("act_id", act.ID))
	} else {
		if err := s.actRepo.Update(ctx, &act, models.ActStateDraft); err != nil {
			return nil, s.updateFailed(ctx, matchID, "update", err)
		}
	}
	metrics.ActTransition(string(act.State()))

	if !input.Complete {
		s.publish(live.MessageActUpdated, &act)
		return &act, nil
	}

	s.logger.Info("match act completed",
		slog.Int("match_id", matchID),
		slog.Int("local_score", act.LocalTeamScore),
		slog.Int("visitor_score", act.VisitorTeamScore))
	s.publish(live.MessageActCompleted, &act)
	if err := s.reconcile(ctx, &act, rec); err != nil {
		return &act, err
	}
	return &act, nil
}

func (s *actService) PutBout(ctx context.Context, matchID, order int, input BoutInput) (*models.MatchAct, error) {
	input.Order = order
	entry, err := input.toEntry("bout")
	if err != nil {
		return nil, s.rejected(err)
	}
	return s.edit(ctx, matchID, "edit bout of", func(act models.MatchAct) (models.MatchAct, error) {
		return acts.PutBout(act, entry)
	})
}

func (s *actService) RecordFall(ctx context.Context, matchID, order int, input RecordFallInput) (*models.MatchAct, error) {
	return s.edit(ctx, matchID, "record fall on", func(act models.MatchAct) (models.MatchAct, error) {
		return acts.RecordFall(act, order, input.Side, input.Type, input.InSeparation)
	})
}

func (s *actService) RemoveLastFall(ctx context.Context, matchID, order int, side models.Side) (*models.MatchAct, error) {
	return s.edit(ctx, matchID, "remove fall from", func(act models.MatchAct) (models.MatchAct, error) {
		return acts.RemoveLastFall(act, order, side)
	})
}

func (s *actService) RecordPenalty(ctx context.Context, matchID, order int, input RecordPenaltyInput) (*models.MatchAct, error) {
	return s.edit(ctx, matchID, "record penalty on", func(act models.MatchAct) (models.MatchAct, error) {
		return acts.RecordPenalty(act, order, input.Side)
	})
}

func (s *actService) CompleteAct(ctx context.Context, matchID int) (*models.MatchAct, error) {
	act, err := s.loadAct(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, act)
}

func (s *actService) complete(ctx context.Context, current *models.MatchAct) (*models.MatchAct, error) {
	from := current.State()
	next, rec, err := acts.Complete(*current)
	if err != nil {
		return nil, s.rejected(err)
	}

	if from == models.ActStateDraft {
		if err := s.actRepo.Update(ctx, &next, models.ActStateDraft); err != nil {
			return nil, s.updateFailed(ctx, next.MatchID, "complete", err)
		}
		metrics.ActTransition(string(next.State()))
		s.logger.Info("match act completed",
			slog.Int("match_id", next.MatchID),
			slog.Int("local_score", next.LocalTeamScore),
			slog.Int("visitor_score", next.VisitorTeamScore))
		s.publish(live.MessageActCompleted, &next)
	}

	if err := s.reconcile(ctx, &next, rec); err != nil {
		return &next, err
	}
	return &next, nil
}

// reconcile pushes the result onto the match. A failure leaves the act
// unreconciled for the retry job and is reported as a warning.
func (s *actService) reconcile(ctx context.Context, act *models.MatchAct, rec acts.Reconciliation) error {
	if err := s.reconciler.Reconcile(ctx, rec); err != nil {
		metrics.Reconciliation(false)
		s.logger.Warn("match reconciliation failed",
			slog.Int("match_id", rec.MatchID), slog.String("act_id", act.ID), slog.Any("error", err))
		return &acts.ReconciliationWarning{MatchID: rec.MatchID, Err: err}
	}
	metrics.Reconciliation(true)
	if err := s.actRepo.MarkReconciled(ctx, act.ID, true); err != nil {
		s.logger.Error("failed to mark act reconciled",
			slog.String("act_id", act.ID), slog.Any("error", err))
	}
	return nil
}

func (s *actService) SignAct(ctx context.Context, matchID int, input SignActInput) (*models.MatchAct, error) {
	current, err := s.loadAct(ctx, matchID)
	if err != nil {
		return nil, err
	}
	next, err := acts.Sign(*current, input.SignedBy, s.now())
	if err != nil {
		return nil, s.rejected(err)
	}
	if err := s.actRepo.Update(ctx, &next, models.ActStateCompleted); err != nil {
		return nil, s.updateFailed(ctx, matchID, "sign", err)
	}
	metrics.ActTransition(string(next.State()))
	s.logger.Info("match act signed",
		slog.Int("match_id", matchID), slog.String("signed_by", next.Signature.SignedBy))

	if s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, &next); err != nil {
			s.logger.Warn("failed to archive signed act",
				slog.Int("match_id", matchID), slog.String("act_id", next.ID), slog.Any("error", err))
		}
	}
	s.publish(live.MessageActSigned, &next)
	return &next, nil
}

func (s *actService) VerifyAct(ctx context.Context, matchID int) (*SealReport, error) {
	act, err := s.loadAct(ctx, matchID)
	if err != nil {
		return nil, err
	}
	valid, err := acts.VerifySeal(*act)
	if err != nil {
		return nil, s.rejected(err)
	}
	if !valid {
		s.logger.Warn("act seal mismatch", slog.Int("match_id", matchID), slog.String("act_id", act.ID))
	}
	return &SealReport{
		MatchID:  act.MatchID,
		ActID:    act.ID,
		SignedBy: act.Signature.SignedBy,
		SignedAt: act.Signature.SignedAt,
		Seal:     act.Signature.Seal,
		Valid:    valid,
	}, nil
}

// ReconcilePending retries reconciliation for finalized acts the parent match
// never received. It returns how many were reconciled.
func (s *actService) ReconcilePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.actRepo.ListUnreconciled(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list unreconciled acts: %w", err)
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileParallelism)
	for _, act := range pending {
		act := act
		g.Go(func() error {
			if err := s.reconcile(gctx, act, acts.ReconciliationFor(*act)); err == nil {
				done.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(pending) > 0 {
		s.logger.Info("reconciliation retry finished",
			slog.Int("pending", len(pending)), slog.Int64("reconciled", done.Load()))
	}
	return int(done.Load()), nil
}

// edit applies a draft mutation and stores it with a state guard.
func (s *actService) edit(ctx context.Context, matchID int, op string, mutate func(models.MatchAct) (models.MatchAct, error)) (*models.MatchAct, error) {
	current, err := s.loadAct(ctx, matchID)
	if err != nil {
		return nil, err
	}
	next, err := mutate(*current)
	if err != nil {
		return nil, s.rejected(err)
	}
	if err := s.actRepo.Update(ctx, &next, current.State()); err != nil {
		return nil, s.updateFailed(ctx, matchID, op, err)
	}
	metrics.ActTransition(string(next.State()))
	s.publish(live.MessageActUpdated, &next)
	return &next, nil
}

func (s *actService) loadAct(ctx context.Context, matchID int) (*models.MatchAct, error) {
	act, err := s.actRepo.FindByMatchID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrActNotFound) {
			return nil, fmt.Errorf("%w: match %d", ErrActNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load act of match %d: %w", matchID, err)
	}
	return act, nil
}

// updateFailed turns a lost state guard into the lifecycle violation the
// caller would have seen had it read the act a moment later.
func (s *actService) updateFailed(ctx context.Context, matchID int, op string, err error) error {
	if !errors.Is(err, repositories.ErrActStateChanged) {
		return fmt.Errorf("failed to store act of match %d: %w", matchID, err)
	}
	state := models.ActState("unknown")
	if latest, loadErr := s.actRepo.FindByMatchID(ctx, matchID); loadErr == nil {
		state = latest.State()
	}
	return s.rejected(&acts.LifecycleViolation{State: state, Op: op, Reason: "act changed concurrently"})
}

func (s *actService) rejected(err error) error {
	switch {
	case errors.Is(err, acts.ErrValidation):
		metrics.ActRejected("validation")
	case errors.Is(err, acts.ErrLifecycle):
		metrics.ActRejected("lifecycle")
	}
	return err
}

func (s *actService) publish(kind string, act *models.MatchAct) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastToRoom(live.MatchRoom(act.MatchID), live.Message{
		Type:    kind,
		Payload: act,
		RoomID:  live.MatchRoom(act.MatchID),
	})
}

func (s *actService) populateArchiveURL(act *models.MatchAct) {
	if s.archiver == nil || act.ArchiveKey == nil {
		return
	}
	if u := s.archiver.PublicURL(*act.ArchiveKey); u != "" {
		act.ArchiveURL = &u
	}
}

// checkFixtureTeams requires the act to name the teams scheduled for the match.
func checkFixtureTeams(match *models.LeagueMatch, act models.MatchAct) error {
	if act.LocalTeam.TeamID != match.LocalTeamID {
		return &acts.ValidationError{
			Field:  "local_team.team_id",
			Reason: fmt.Sprintf("match %d is played by local team %q", match.ID, match.LocalTeamID),
		}
	}
	if act.VisitorTeam.TeamID != match.VisitorTeamID {
		return &acts.ValidationError{
			Field:  "visitor_team.team_id",
			Reason: fmt.Sprintf("match %d is played by visitor team %q", match.ID, match.VisitorTeamID),
		}
	}
	return nil
}
