package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
)

var ErrMatchNotFound = errors.New("league match not found")

// MatchRepository is the parent-match side of act reconciliation.
type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.LeagueMatch, error)
	ListByCompetition(ctx context.Context, competitionID string, status *models.MatchStatus) ([]*models.LeagueMatch, error)
	UpdateHasAct(ctx context.Context, exec SQLExecutor, matchID int, hasAct bool) error
	UpdateScore(ctx context.Context, exec SQLExecutor, matchID int, localScore, visitorScore int, completed bool) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, competition_id, local_team_id, visitor_team_id, match_time, status, local_score, visitor_score, has_act, created_at`

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.LeagueMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM league_matches WHERE id = $1`
	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByCompetition(ctx context.Context, competitionID string, statusFilter *models.MatchStatus) ([]*models.LeagueMatch, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM league_matches WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	placeholderIndex := 2

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY match_time ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.LeagueMatch, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateHasAct(ctx context.Context, exec SQLExecutor, matchID int, hasAct bool) error {
	result, err := getExecutor(r.db, exec).ExecContext(ctx,
		`UPDATE league_matches SET has_act = $1 WHERE id = $2`, hasAct, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, matchID int, localScore, visitorScore int, completed bool) error {
	query := `
		UPDATE league_matches
		SET local_score = $1, visitor_score = $2,
		    status = CASE WHEN $3 THEN 'completed' ELSE status END
		WHERE id = $4`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, localScore, visitorScore, completed, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.LeagueMatch, error) {
	var (
		match        models.LeagueMatch
		localScore   sql.NullInt64
		visitorScore sql.NullInt64
	)
	err := rowScanner.Scan(
		&match.ID,
		&match.CompetitionID,
		&match.LocalTeamID,
		&match.VisitorTeamID,
		&match.MatchTime,
		&match.Status,
		&localScore,
		&visitorScore,
		&match.HasAct,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if localScore.Valid {
		v := int(localScore.Int64)
		match.LocalScore = &v
	}
	if visitorScore.Valid {
		v := int(visitorScore.Int64)
		match.VisitorScore = &v
	}
	return &match, nil
}
