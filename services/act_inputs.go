package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/wrestling-league/acts"
	"github.com/Dosada05/wrestling-league/models"
)

type RefereeInput struct {
	RefereeID     string `json:"referee_id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number,omitempty"`
}

type WrestlerInput struct {
	WrestlerID    string `json:"wrestler_id"`
	Name          string `json:"name,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	LineupNumber  int    `json:"lineup_number"`
}

type TeamInput struct {
	TeamID    string          `json:"team_id"`
	ClubName  string          `json:"club_name"`
	Wrestlers []WrestlerInput `json:"wrestlers"`
	CaptainID string          `json:"captain_id,omitempty"`
	CoachName string          `json:"coach_name,omitempty"`
}

type FallInput struct {
	Type         models.FallType `json:"type,omitempty"`
	InSeparation bool            `json:"in_separation,omitempty"`
}

// BoutInput carries the result either as "L-V" in Score or as explicit fall
// lists. When both are present the counts must agree.
type BoutInput struct {
	Order             int         `json:"order"`
	LocalWrestlerID   string      `json:"local_wrestler_id,omitempty"`
	VisitorWrestlerID string      `json:"visitor_wrestler_id,omitempty"`
	Score             *string     `json:"score,omitempty"`
	LocalFalls        []FallInput `json:"local_falls,omitempty"`
	VisitorFalls      []FallInput `json:"visitor_falls,omitempty"`
	LocalPenalties    int         `json:"local_penalties,omitempty"`
	VisitorPenalties  int         `json:"visitor_penalties,omitempty"`
	NoContest         bool        `json:"no_contest,omitempty"`
}

type SubmitActInput struct {
	CompetitionID string    `json:"competition_id"`
	Season        string    `json:"season"`
	AgeCategory   string    `json:"age_category"`
	IsRegional    bool      `json:"is_regional"`
	IsInsular     bool      `json:"is_insular"`
	Venue         string    `json:"venue"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`

	MainReferee       RefereeInput   `json:"main_referee"`
	AssistantReferees []RefereeInput `json:"assistant_referees,omitempty"`
	FieldDelegate     *RefereeInput  `json:"field_delegate,omitempty"`

	LocalTeam   TeamInput   `json:"local_team"`
	VisitorTeam TeamInput   `json:"visitor_team"`
	Bouts       []BoutInput `json:"bouts"`

	LocalComment   string `json:"local_comment,omitempty"`
	VisitorComment string `json:"visitor_comment,omitempty"`

	// Complete asks for the DRAFT -> COMPLETED transition right after saving.
	Complete bool `json:"complete,omitempty"`
}

type RecordFallInput struct {
	Side         models.Side     `json:"side"`
	Type         models.FallType `json:"type,omitempty"`
	InSeparation bool            `json:"in_separation,omitempty"`
}

type RecordPenaltyInput struct {
	Side models.Side `json:"side"`
}

type SignActInput struct {
	SignedBy string `json:"signed_by"`
}

// toCandidate maps the submission onto an act value. Roster snapshots and the
// bout ledger are validated here; lifecycle flags are set later by acts.NewDraft.
func (in SubmitActInput) toCandidate(matchID int) (models.MatchAct, error) {
	local, visitor, err := acts.SnapshotTeams(in.LocalTeam.toTeam(), in.VisitorTeam.toTeam())
	if err != nil {
		return models.MatchAct{}, err
	}

	entries := make([]acts.BoutEntry, 0, len(in.Bouts))
	for i, b := range in.Bouts {
		entry, err := b.toEntry("bouts[" + strconv.Itoa(i) + "]")
		if err != nil {
			return models.MatchAct{}, err
		}
		entries = append(entries, entry)
	}
	bouts, err := acts.BuildLedger(local, visitor, entries)
	if err != nil {
		return models.MatchAct{}, err
	}

	act := models.MatchAct{
		MatchID:        matchID,
		CompetitionID:  strings.TrimSpace(in.CompetitionID),
		Season:         strings.TrimSpace(in.Season),
		AgeCategory:    strings.TrimSpace(in.AgeCategory),
		IsRegional:     in.IsRegional,
		IsInsular:      in.IsInsular,
		Venue:          strings.TrimSpace(in.Venue),
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		MainReferee:    in.MainReferee.toReferee(),
		LocalTeam:      local,
		VisitorTeam:    visitor,
		Bouts:          bouts,
		LocalComment:   in.LocalComment,
		VisitorComment: in.VisitorComment,
	}
	for _, r := range in.AssistantReferees {
		act.AssistantReferees = append(act.AssistantReferees, r.toReferee())
	}
	if in.FieldDelegate != nil {
		d := in.FieldDelegate.toReferee()
		act.FieldDelegate = &d
	}
	return act, nil
}

func (in TeamInput) toTeam() models.ActTeam {
	t := models.ActTeam{
		TeamID:    in.TeamID,
		ClubName:  in.ClubName,
		CaptainID: in.CaptainID,
		CoachName: in.CoachName,
	}
	for _, w := range in.Wrestlers {
		t.Wrestlers = append(t.Wrestlers, models.ActWrestler{
			WrestlerID:    w.WrestlerID,
			Name:          w.Name,
			LicenseNumber: w.LicenseNumber,
			LineupNumber:  w.LineupNumber,
		})
	}
	return t
}

func (in RefereeInput) toReferee() models.ActReferee {
	return models.ActReferee{
		RefereeID:     strings.TrimSpace(in.RefereeID),
		Name:          strings.TrimSpace(in.Name),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
	}
}

func (in BoutInput) toEntry(field string) (acts.BoutEntry, error) {
	entry := acts.BoutEntry{
		Order:             in.Order,
		LocalWrestlerID:   strings.TrimSpace(in.LocalWrestlerID),
		VisitorWrestlerID: strings.TrimSpace(in.VisitorWrestlerID),
		LocalFalls:        toFalls(in.LocalFalls),
		VisitorFalls:      toFalls(in.VisitorFalls),
		LocalPenalties:    in.LocalPenalties,
		VisitorPenalties:  in.VisitorPenalties,
		NoContest:         in.NoContest,
	}
	if in.Score == nil {
		return entry, nil
	}

	l, v, err := acts.ParseFallScore(*in.Score)
	if err != nil {
		return acts.BoutEntry{}, &acts.ValidationError{Field: field + ".score", Reason: err.Error()}
	}
	explicit := len(in.LocalFalls) > 0 || len(in.VisitorFalls) > 0
	if explicit {
		if l != len(entry.LocalFalls) || v != len(entry.VisitorFalls) {
			return acts.BoutEntry{}, &acts.ValidationError{
				Field:  field + ".score",
				Reason: "score " + *in.Score + " does not match the listed falls",
			}
		}
		return entry, nil
	}
	entry.LocalFalls = acts.RegularFalls(l)
	entry.VisitorFalls = acts.RegularFalls(v)
	return entry, nil
}

func toFalls(in []FallInput) []models.Fall {
	falls := make([]models.Fall, 0, len(in))
	for _, f := range in {
		t := f.Type
		if t == "" {
			t = models.FallRegular
		}
		falls = append(falls, models.Fall{Type: t, InSeparation: f.InSeparation})
	}
	return falls
}
