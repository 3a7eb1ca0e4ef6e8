package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrActNotFound      = errors.New("match act not found")
	ErrActMatchConflict = errors.New("match already has an act")
	ErrActMatchInvalid  = errors.New("match act references an unknown match")
	// ErrActStateChanged means a guarded update found the act in another
	// state than expected: a concurrent transition won.
	ErrActStateChanged = errors.New("match act state changed concurrently")
)

type ActRepository interface {
	FindByMatchID(ctx context.Context, matchID int) (*models.MatchAct, error)
	Create(ctx context.Context, act *models.MatchAct) error
	Update(ctx context.Context, act *models.MatchAct, expected models.ActState) error
	MarkReconciled(ctx context.Context, actID string, reconciled bool) error
	ListUnreconciled(ctx context.Context, limit int) ([]*models.MatchAct, error)
	SetArchiveKey(ctx context.Context, actID string, key string) error
}

type postgresActRepository struct {
	db *sql.DB
}

func NewPostgresActRepository(db *sql.DB) ActRepository {
	return &postgresActRepository{db: db}
}

func (r *postgresActRepository) FindByMatchID(ctx context.Context, matchID int) (*models.MatchAct, error) {
	query := `
		SELECT id, document, archive_key
		FROM match_acts
		WHERE match_id = $1`

	return r.scanAct(r.db.QueryRowContext(ctx, query, matchID))
}

// Create stores a new act. The id is generated here on first save; a second
// act for the same match fails with ErrActMatchConflict.
func (r *postgresActRepository) Create(ctx context.Context, act *models.MatchAct) error {
	if act.ID == "" {
		act.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	act.CreatedAt = now
	act.UpdatedAt = now

	doc, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("failed to encode act %s: %w", act.ID, err)
	}

	query := `
		INSERT INTO match_acts (id, match_id, state, document, reconciled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $5)`

	_, err = r.db.ExecContext(ctx, query, act.ID, act.MatchID, act.State(), string(doc), now)
	return r.handleActError(err)
}

// Update overwrites the act document only if the stored state still equals
// expected. This is the check-then-act guard for lifecycle transitions.
func (r *postgresActRepository) Update(ctx context.Context, act *models.MatchAct, expected models.ActState) error {
	act.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("failed to encode act %s: %w", act.ID, err)
	}

	query := `
		UPDATE match_acts
		SET state = $1, document = $2, updated_at = $3
		WHERE id = $4 AND state = $5`

	result, err := r.db.ExecContext(ctx, query, act.State(), string(doc), act.UpdatedAt, act.ID, expected)
	if err != nil {
		return r.handleActError(err)
	}
	return checkAffectedRows(result, ErrActStateChanged)
}

func (r *postgresActRepository) MarkReconciled(ctx context.Context, actID string, reconciled bool) error {
	query := `UPDATE match_acts SET reconciled = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, reconciled, actID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrActNotFound)
}

// ListUnreconciled returns finalized acts whose result never reached the
// parent match, oldest first.
func (r *postgresActRepository) ListUnreconciled(ctx context.Context, limit int) ([]*models.MatchAct, error) {
	query := `
		SELECT id, document, archive_key
		FROM match_acts
		WHERE reconciled = FALSE AND state IN ('completed', 'signed')
		ORDER BY updated_at ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]*models.MatchAct, 0)
	for rows.Next() {
		act, scanErr := r.scanAct(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		pending = append(pending, act)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *postgresActRepository) SetArchiveKey(ctx context.Context, actID string, key string) error {
	query := `UPDATE match_acts SET archive_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, key, actID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrActNotFound)
}

func (r *postgresActRepository) scanAct(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchAct, error) {
	var (
		id         string
		doc        []byte
		archiveKey sql.NullString
	)
	if err := rowScanner.Scan(&id, &doc, &archiveKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActNotFound
		}
		return nil, err
	}

	act := &models.MatchAct{}
	if err := json.Unmarshal(doc, act); err != nil {
		return nil, fmt.Errorf("failed to decode act %s: %w", id, err)
	}
	act.ID = id
	if archiveKey.Valid && archiveKey.String != "" {
		key := archiveKey.String
		act.ArchiveKey = &key
	}
	return act, nil
}

func (r *postgresActRepository) handleActError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pqUniqueViolation && pqErr.Constraint == "match_acts_match_id_key":
			return ErrActMatchConflict
		case pqErr.Code == pqForeignKeyViolation && pqErr.Constraint == "match_acts_match_id_fkey":
			return ErrActMatchInvalid
		}
	}
	return err
}
