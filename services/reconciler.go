package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/wrestling-league/acts"
	"github.com/Dosada05/wrestling-league/repositories"
)

// MatchReconciler pushes the result of a completed act onto its parent match.
type MatchReconciler interface {
	Reconcile(ctx context.Context, r acts.Reconciliation) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type matchReconciler struct {
	db        TxBeginner
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
}

func NewMatchReconciler(db TxBeginner, matchRepo repositories.MatchRepository, logger *slog.Logger) MatchReconciler {
	return &matchReconciler{db: db, matchRepo: matchRepo, logger: logger}
}

// Reconcile sets has_act and the team scores in one transaction.
func (r *matchReconciler) Reconcile(ctx context.Context, rec acts.Reconciliation) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reconciliation of match %d: %w", rec.MatchID, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("reconciliation rollback failed",
					slog.Int("match_id", rec.MatchID), slog.Any("error", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit reconciliation of match %d: %w", rec.MatchID, cErr)
		}
	}()

	if err = r.matchRepo.UpdateHasAct(ctx, tx, rec.MatchID, true); err != nil {
		return r.wrap(rec.MatchID, err)
	}
	if err = r.matchRepo.UpdateScore(ctx, tx, rec.MatchID, rec.LocalScore, rec.VisitorScore, rec.Completed); err != nil {
		return r.wrap(rec.MatchID, err)
	}
	return nil
}

func (r *matchReconciler) wrap(matchID int, err error) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	return fmt.Errorf("failed to update match %d: %w", matchID, err)
}
