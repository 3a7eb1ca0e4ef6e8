package models

import "time"

type MatchStatus string

const (
	StatusScheduled      MatchStatus = "scheduled"
	StatusInProgress     MatchStatus = "in_progress"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// LeagueMatch is the scheduled fixture an act belongs to.
type LeagueMatch struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID string      `json:"competition_id" db:"competition_id"`
	LocalTeamID   string      `json:"local_team_id" db:"local_team_id"`
	VisitorTeamID string      `json:"visitor_team_id" db:"visitor_team_id"`
	MatchTime     time.Time   `json:"match_time" db:"match_time"`
	Status        MatchStatus `json:"status" db:"status"`
	LocalScore    *int        `json:"local_score,omitempty" db:"local_score"`
	VisitorScore  *int        `json:"visitor_score,omitempty" db:"visitor_score"`
	HasAct        bool        `json:"has_act" db:"has_act"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}
