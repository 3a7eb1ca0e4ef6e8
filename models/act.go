package models

import "time"

type Side string

const (
	SideLocal   Side = "local"
	SideVisitor Side = "visitor"
)

type BoutWinner string

const (
	WinnerLocal   BoutWinner = "LOCAL"
	WinnerVisitor BoutWinner = "VISITOR"
	WinnerDraw    BoutWinner = "DRAW"
	WinnerNone    BoutWinner = "NONE"
)

type FallType string

const (
	FallRegular FallType = "REGULAR"
	FallPenalty FallType = "PENALTY"
	FallForfeit FallType = "FORFEIT"
)

type ActState string

const (
	ActStateDraft     ActState = "draft"
	ActStateCompleted ActState = "completed"
	ActStateSigned    ActState = "signed"
)

// MatchAct is the official record of one team-vs-team match, bout by bout.
// At most one act exists per MatchID.
type MatchAct struct {
	ID      string `json:"id"`
	MatchID int    `json:"match_id"`

	CompetitionID string    `json:"competition_id"`
	Season        string    `json:"season"`
	AgeCategory   string    `json:"age_category"`
	IsRegional    bool      `json:"is_regional"`
	IsInsular     bool      `json:"is_insular"`
	Venue         string    `json:"venue"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"start_time,omitempty"`
	EndTime       string    `json:"end_time,omitempty"`

	MainReferee       ActReferee   `json:"main_referee"`
	AssistantReferees []ActReferee `json:"assistant_referees"`
	FieldDelegate     *ActReferee  `json:"field_delegate,omitempty"`

	LocalTeam   ActTeam     `json:"local_team"`
	VisitorTeam ActTeam     `json:"visitor_team"`
	Bouts       []MatchBout `json:"bouts"`

	// Cache of the sum derived from Bouts; refreshed by acts.RecomputeScores.
	LocalTeamScore   int `json:"local_team_score"`
	VisitorTeamScore int `json:"visitor_team_score"`

	IsDraft     bool `json:"is_draft"`
	IsCompleted bool `json:"is_completed"`
	IsSigned    bool `json:"is_signed"`

	LocalComment   string `json:"local_comment,omitempty"`
	VisitorComment string `json:"visitor_comment,omitempty"`

	Signature *ActSignature `json:"signature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ArchiveKey *string `json:"-"`
	ArchiveURL *string `json:"archive_url,omitempty"`
}

// State reports the lifecycle state encoded by the three flags.
func (a *MatchAct) State() ActState {
	switch {
	case a.IsSigned:
		return ActStateSigned
	case a.IsCompleted:
		return ActStateCompleted
	default:
		return ActStateDraft
	}
}

// Team returns the snapshot for the given side.
func (a *MatchAct) Team(side Side) *ActTeam {
	if side == SideVisitor {
		return &a.VisitorTeam
	}
	return &a.LocalTeam
}

// Clone returns a deep copy; mutations on the copy never reach the original.
func (a MatchAct) Clone() MatchAct {
	c := a
	c.AssistantReferees = append([]ActReferee(nil), a.AssistantReferees...)
	if a.FieldDelegate != nil {
		d := *a.FieldDelegate
		c.FieldDelegate = &d
	}
	c.LocalTeam = a.LocalTeam.clone()
	c.VisitorTeam = a.VisitorTeam.clone()
	if a.Bouts != nil {
		c.Bouts = make([]MatchBout, len(a.Bouts))
		for i, b := range a.Bouts {
			c.Bouts[i] = b.Clone()
		}
	}
	if a.Signature != nil {
		s := *a.Signature
		c.Signature = &s
	}
	if a.ArchiveKey != nil {
		k := *a.ArchiveKey
		c.ArchiveKey = &k
	}
	if a.ArchiveURL != nil {
		u := *a.ArchiveURL
		c.ArchiveURL = &u
	}
	return c
}

type ActReferee struct {
	RefereeID     string `json:"referee_id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number,omitempty"`
}

type ActTeam struct {
	TeamID    string        `json:"team_id"`
	ClubName  string        `json:"club_name"`
	Wrestlers []ActWrestler `json:"wrestlers"`
	CaptainID string        `json:"captain_id,omitempty"`
	CoachName string        `json:"coach_name,omitempty"`
}

func (t ActTeam) clone() ActTeam {
	t.Wrestlers = append([]ActWrestler(nil), t.Wrestlers...)
	return t
}

// Wrestler looks up a wrestler of this snapshot by id.
func (t *ActTeam) Wrestler(wrestlerID string) (ActWrestler, bool) {
	for _, w := range t.Wrestlers {
		if w.WrestlerID == wrestlerID {
			return w, true
		}
	}
	return ActWrestler{}, false
}

type ActWrestler struct {
	WrestlerID    string `json:"wrestler_id"`
	Name          string `json:"name,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	LineupNumber  int    `json:"lineup_number"`
}

type SlotKind string

const (
	SlotAssigned   SlotKind = "assigned"
	SlotUnassigned SlotKind = "unassigned"
)

// BoutSlot is one side of a bout: either an assigned wrestler or an empty
// (unopposed / forfeited) slot. Build it with AssignedSlot or UnassignedSlot.
type BoutSlot struct {
	Kind     SlotKind     `json:"kind"`
	Wrestler *ActWrestler `json:"wrestler,omitempty"`
}

func AssignedSlot(w ActWrestler) BoutSlot {
	return BoutSlot{Kind: SlotAssigned, Wrestler: &w}
}

func UnassignedSlot() BoutSlot {
	return BoutSlot{Kind: SlotUnassigned}
}

func (s BoutSlot) IsAssigned() bool {
	return s.Kind == SlotAssigned && s.Wrestler != nil
}

type MatchBout struct {
	ID    int `json:"id"`
	Order int `json:"order"`

	Local   BoutSlot `json:"local"`
	Visitor BoutSlot `json:"visitor"`

	LocalFalls   []Fall `json:"local_falls"`
	VisitorFalls []Fall `json:"visitor_falls"`

	LocalPenalties   int `json:"local_penalties"`
	VisitorPenalties int `json:"visitor_penalties"`

	// NoContest marks a bout explicitly as having no result (winner NONE).
	NoContest bool `json:"no_contest,omitempty"`

	// Derived from the falls; never accepted from clients.
	Winner BoutWinner `json:"winner"`
}

func (b MatchBout) Clone() MatchBout {
	c := b
	if b.Local.Wrestler != nil {
		w := *b.Local.Wrestler
		c.Local.Wrestler = &w
	}
	if b.Visitor.Wrestler != nil {
		w := *b.Visitor.Wrestler
		c.Visitor.Wrestler = &w
	}
	c.LocalFalls = append([]Fall(nil), b.LocalFalls...)
	c.VisitorFalls = append([]Fall(nil), b.VisitorFalls...)
	return c
}

// Falls returns the fall list of the given side.
func (b *MatchBout) Falls(side Side) *[]Fall {
	if side == SideVisitor {
		return &b.VisitorFalls
	}
	return &b.LocalFalls
}

func (b *MatchBout) Slot(side Side) BoutSlot {
	if side == SideVisitor {
		return b.Visitor
	}
	return b.Local
}

// Fall ids are positions (1-based) within the owning side's list.
type Fall struct {
	ID           int      `json:"id"`
	Type         FallType `json:"type"`
	InSeparation bool     `json:"in_separation"`
}

type ActSignature struct {
	SignedBy string    `json:"signed_by"`
	SignedAt time.Time `json:"signed_at"`
	Seal     string    `json:"seal"`
}
