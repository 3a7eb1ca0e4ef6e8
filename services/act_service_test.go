package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/wrestling-league/acts"
	"github.com/Dosada05/wrestling-league/live"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/storage"
)

var signedAt = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

type actFixture struct {
	svc        ActService
	acts       *memActRepo
	matches    *memMatchRepo
	reconciler *repoReconciler
	notifier   *recordingNotifier
	uploader   *storage.MemoryUploader
}

func newActFixture(t *testing.T) *actFixture {
	t.Helper()
	f := &actFixture{
		acts: newMemActRepo(),
		matches: newMemMatchRepo(models.LeagueMatch{
			ID:            7,
			CompetitionID: "liga-2026",
			LocalTeamID:   "team-a",
			VisitorTeamID: "team-b",
			Status:        models.StatusScheduled,
		}),
		notifier: &recordingNotifier{},
		uploader: storage.NewMemoryUploader("https://archive.example.org"),
	}
	f.reconciler = &repoReconciler{matches: f.matches}
	logger := discardLogger()
	f.svc = NewActService(f.acts, f.matches, f.reconciler, logger,
		WithArchiver(NewActArchiver(f.uploader, f.acts, logger)),
		WithNotifier(f.notifier),
		WithClock(func() time.Time { return signedAt }),
	)
	return f
}

func score(s string) *string { return &s }

func team(id, prefix string) TeamInput {
	return TeamInput{
		TeamID:   id,
		ClubName: "Club " + prefix,
		Wrestlers: []WrestlerInput{
			{WrestlerID: prefix + "1", Name: "Wrestler " + prefix + "1", LineupNumber: 1},
			{WrestlerID: prefix + "2", Name: "Wrestler " + prefix + "2", LineupNumber: 2},
			{WrestlerID: prefix + "3", Name: "Wrestler " + prefix + "3", LineupNumber: 3},
		},
		CaptainID: prefix + "1",
		CoachName: "Coach " + prefix,
	}
}

// submission scores 2-0, 1-0 and 0-2: local 3, visitor 2.
func submission() SubmitActInput {
	return SubmitActInput{
		CompetitionID: "liga-2026",
		Season:        "2026",
		AgeCategory:   "senior",
		Venue:         "Terrero de Tías",
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		MainReferee:   RefereeInput{RefereeID: "ref-1", Name: "Main Referee"},
		LocalTeam:     team("team-a", "a"),
		VisitorTeam:   team("team-b", "b"),
		Bouts: []BoutInput{
			{Order: 1, LocalWrestlerID: "a1", VisitorWrestlerID: "b1", Score: score("2-0")},
			{Order: 2, LocalWrestlerID: "a2", VisitorWrestlerID: "b2", Score: score("1-0")},
			{Order: 3, LocalWrestlerID: "a3", VisitorWrestlerID: "b3", Score: score("0-2")},
		},
	}
}

func TestSubmitDraftLeavesMatchUntouched(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	act, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)
	assert.True(t, act.IsDraft)
	assert.NotEmpty(t, act.ID)
	assert.Equal(t, 3, act.LocalTeamScore)
	assert.Equal(t, 2, act.VisitorTeamScore)

	match, err := f.matches.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.False(t, match.HasAct)
	assert.Nil(t, match.LocalScore)
	assert.Zero(t, f.reconciler.calls)
}

func TestCompletePushesScoreToMatch(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	act, err := f.svc.CompleteAct(ctx, 7)
	require.NoError(t, err)
	assert.True(t, act.IsCompleted)
	assert.False(t, act.IsDraft)

	match, err := f.matches.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, match.HasAct)
	require.NotNil(t, match.LocalScore)
	require.NotNil(t, match.VisitorScore)
	assert.Equal(t, 3, *match.LocalScore)
	assert.Equal(t, 2, *match.VisitorScore)
	assert.Equal(t, models.MatchStatusCompleted, match.Status)
	assert.True(t, f.acts.reconciled[act.ID])

	assert.Equal(t, []string{live.MessageActUpdated, live.MessageActCompleted}, f.notifier.types())
}

func TestSubmitWithCompleteFlag(t *testing.T) {
	f := newActFixture(t)
	in := submission()
	in.Complete = true

	act, err := f.svc.SubmitAct(context.Background(), 7, in)
	require.NoError(t, err)
	assert.True(t, act.IsCompleted)

	stored, err := f.acts.FindByMatchID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.ActStateCompleted, stored.State())
	assert.True(t, f.acts.reconciled[act.ID])
	assert.Equal(t, []string{live.MessageActCompleted}, f.notifier.types())
}

func gappedSubmission() SubmitActInput {
	in := submission()
	in.Bouts[2].Order = 5
	in.Complete = true
	return in
}

func TestSubmitWithCompleteFlagStoresNothingOnFailure(t *testing.T) {
	f := newActFixture(t)

	act, err := f.svc.SubmitAct(context.Background(), 7, gappedSubmission())
	assert.Nil(t, act)
	var verr *acts.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bouts", verr.Field)

	assert.Zero(t, f.acts.count())
	assert.Zero(t, f.reconciler.calls)
	assert.Empty(t, f.notifier.types())
}

func TestSubmitWithCompleteFlagKeepsDraftOnFailure(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	in := gappedSubmission()
	in.Bouts[0].Score = score("0-0")
	_, err = f.svc.SubmitAct(ctx, 7, in)
	require.ErrorIs(t, err, acts.ErrValidation)

	stored, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, stored.IsDraft)
	assert.Equal(t, 3, stored.LocalTeamScore)
	assert.Equal(t, 2, stored.VisitorTeamScore)
	orders := make([]int, 0, len(stored.Bouts))
	for _, b := range stored.Bouts {
		orders = append(orders, b.Order)
	}
	assert.Equal(t, []int{1, 2, 3}, orders)
	assert.Zero(t, f.reconciler.calls)
}

func TestSubmitRejectsEmptyTeamID(t *testing.T) {
	f := newActFixture(t)
	in := submission()
	in.LocalTeam.TeamID = ""

	act, err := f.svc.SubmitAct(context.Background(), 7, in)
	assert.Nil(t, act)
	require.ErrorIs(t, err, acts.ErrValidation)

	var verr *acts.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field, "team_id")
	assert.Zero(t, f.acts.count())
}

func TestSubmitRejectsTeamsOfAnotherFixture(t *testing.T) {
	f := newActFixture(t)
	in := submission()
	in.VisitorTeam = team("team-c", "c")

	_, err := f.svc.SubmitAct(context.Background(), 7, in)
	var verr *acts.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "visitor_team.team_id", verr.Field)
	assert.Zero(t, f.acts.count())
}

func TestSubmitRejectsOversizedFallScore(t *testing.T) {
	f := newActFixture(t)
	in := submission()
	in.Bouts[0].Score = score("100000000-0")

	_, err := f.svc.SubmitAct(context.Background(), 7, in)
	var verr *acts.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bouts[0].score", verr.Field)
	assert.Zero(t, f.acts.count())
}

func TestSubmitUnknownMatch(t *testing.T) {
	f := newActFixture(t)

	_, err := f.svc.SubmitAct(context.Background(), 99, submission())
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestResubmitRevisesDraft(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	in := submission()
	in.Bouts = in.Bouts[:1]
	second, err := f.svc.SubmitAct(ctx, 7, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Bouts, 1)
	assert.Equal(t, 2, second.LocalTeamScore)
	assert.Equal(t, 0, second.VisitorTeamScore)
	assert.Equal(t, 1, f.acts.count())
}

func TestEditAfterCompletionIsRejected(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)
	_, err = f.svc.CompleteAct(ctx, 7)
	require.NoError(t, err)
	before, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)

	_, err = f.svc.RecordFall(ctx, 7, 1, RecordFallInput{Side: models.SideVisitor})
	assert.ErrorIs(t, err, acts.ErrLifecycle)

	_, err = f.svc.SubmitAct(ctx, 7, submission())
	assert.ErrorIs(t, err, acts.ErrLifecycle)

	_, err = f.svc.PutBout(ctx, 7, 4, BoutInput{LocalWrestlerID: "a1", VisitorWrestlerID: "b1", Score: score("1-1")})
	assert.ErrorIs(t, err, acts.ErrLifecycle)

	after, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCompleteTwiceIsIdempotent(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)
	first, err := f.svc.CompleteAct(ctx, 7)
	require.NoError(t, err)
	second, err := f.svc.CompleteAct(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, first.LocalTeamScore, second.LocalTeamScore)
	assert.Equal(t, first.VisitorTeamScore, second.VisitorTeamScore)
	assert.True(t, second.IsCompleted)
}

func TestReconciliationFailureKeepsActCompleted(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	f.reconciler.fail(errors.New("connection reset"))
	act, err := f.svc.CompleteAct(ctx, 7)
	require.ErrorIs(t, err, acts.ErrReconciliation)
	var warn *acts.ReconciliationWarning
	require.ErrorAs(t, err, &warn)
	assert.Equal(t, 7, warn.MatchID)
	require.NotNil(t, act)
	assert.True(t, act.IsCompleted)

	stored, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.ActStateCompleted, stored.State())
	match, _ := f.matches.GetByID(ctx, 7)
	assert.False(t, match.HasAct)

	f.reconciler.fail(nil)
	n, err := f.svc.ReconcilePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	match, _ = f.matches.GetByID(ctx, 7)
	assert.True(t, match.HasAct)
	require.NotNil(t, match.LocalScore)
	assert.Equal(t, 3, *match.LocalScore)

	n, err = f.svc.ReconcilePending(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLiveEditing(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	in := submission()
	in.Bouts = []BoutInput{{Order: 1, LocalWrestlerID: "a1", VisitorWrestlerID: "b1"}}
	_, err := f.svc.SubmitAct(ctx, 7, in)
	require.NoError(t, err)

	_, err = f.svc.RecordFall(ctx, 7, 1, RecordFallInput{Side: models.SideLocal})
	require.NoError(t, err)
	act, err := f.svc.RecordFall(ctx, 7, 1, RecordFallInput{Side: models.SideLocal, InSeparation: true})
	require.NoError(t, err)
	assert.Equal(t, models.WinnerLocal, act.Bouts[0].Winner)
	assert.Equal(t, 2, act.LocalTeamScore)

	act, err = f.svc.RemoveLastFall(ctx, 7, 1, models.SideLocal)
	require.NoError(t, err)
	assert.Len(t, act.Bouts[0].LocalFalls, 1)
	assert.Equal(t, 1, act.LocalTeamScore)

	act, err = f.svc.RecordPenalty(ctx, 7, 1, RecordPenaltyInput{Side: models.SideVisitor})
	require.NoError(t, err)
	assert.Equal(t, 1, act.Bouts[0].VisitorPenalties)

	act, err = f.svc.PutBout(ctx, 7, 2, BoutInput{LocalWrestlerID: "a2", VisitorWrestlerID: "b2", Score: score("0-1")})
	require.NoError(t, err)
	require.Len(t, act.Bouts, 2)
	assert.Equal(t, 1, act.VisitorTeamScore)

	_, err = f.svc.RecordFall(ctx, 7, 9, RecordFallInput{Side: models.SideLocal})
	assert.ErrorIs(t, err, acts.ErrValidation)
}

func TestSignArchivesAndSeals(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	_, err = f.svc.SignAct(ctx, 7, SignActInput{SignedBy: "ref-1"})
	assert.ErrorIs(t, err, acts.ErrLifecycle, "a draft cannot be signed")

	_, err = f.svc.CompleteAct(ctx, 7)
	require.NoError(t, err)

	signed, err := f.svc.SignAct(ctx, 7, SignActInput{SignedBy: "ref-1"})
	require.NoError(t, err)
	assert.True(t, signed.IsSigned)
	require.NotNil(t, signed.Signature)
	assert.Equal(t, signedAt, signed.Signature.SignedAt)
	assert.NotEmpty(t, signed.Signature.Seal)

	key := storage.ActArchiveKey(7, signed.ID)
	data, ok := f.uploader.Object(key)
	require.True(t, ok)
	var archived models.MatchAct
	require.NoError(t, json.Unmarshal(data, &archived))
	assert.True(t, archived.IsSigned)

	got, err := f.svc.GetAct(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got.ArchiveURL)
	assert.Equal(t, "https://archive.example.org/"+key, *got.ArchiveURL)

	report, err := f.svc.VerifyAct(ctx, 7)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, "ref-1", report.SignedBy)

	_, err = f.svc.CompleteAct(ctx, 7)
	assert.ErrorIs(t, err, acts.ErrLifecycle)
	_, err = f.svc.SignAct(ctx, 7, SignActInput{SignedBy: "ref-1"})
	assert.ErrorIs(t, err, acts.ErrLifecycle)

	assert.Equal(t, live.MessageActSigned, f.notifier.types()[len(f.notifier.types())-1])
}

func TestVerifyDetectsTampering(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()

	in := submission()
	in.Complete = true
	_, err := f.svc.SubmitAct(ctx, 7, in)
	require.NoError(t, err)
	_, err = f.svc.SignAct(ctx, 7, SignActInput{SignedBy: "ref-1"})
	require.NoError(t, err)

	stored, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)
	stored.Venue = "somewhere else"
	require.NoError(t, f.acts.store(stored))

	report, err := f.svc.VerifyAct(ctx, 7)
	require.NoError(t, err)
	assert.False(t, report.Valid)
}

func TestVerifyUnsignedAct(t *testing.T) {
	f := newActFixture(t)
	_, err := f.svc.SubmitAct(context.Background(), 7, submission())
	require.NoError(t, err)

	_, err = f.svc.VerifyAct(context.Background(), 7)
	assert.ErrorIs(t, err, acts.ErrLifecycle)
}

func TestGetActMissing(t *testing.T) {
	f := newActFixture(t)
	_, err := f.svc.GetAct(context.Background(), 7)
	assert.ErrorIs(t, err, ErrActNotFound)
}

func TestGetActRecomputesDriftedScores(t *testing.T) {
	f := newActFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitAct(ctx, 7, submission())
	require.NoError(t, err)

	stored, err := f.acts.FindByMatchID(ctx, 7)
	require.NoError(t, err)
	stored.LocalTeamScore = 9
	require.NoError(t, f.acts.store(stored))

	got, err := f.svc.GetAct(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, got.LocalTeamScore)
}
