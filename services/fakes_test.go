package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Dosada05/wrestling-league/acts"
	"github.com/Dosada05/wrestling-league/live"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memActRepo stores acts as JSON, the way the postgres repository does.
type memActRepo struct {
	mu         sync.Mutex
	docs       map[int][]byte
	ids        map[int]string
	reconciled map[string]bool
	archive    map[string]string
	nextID     int
}

func newMemActRepo() *memActRepo {
	return &memActRepo{
		docs:       make(map[int][]byte),
		ids:        make(map[int]string),
		reconciled: make(map[string]bool),
		archive:    make(map[string]string),
	}
}

func (r *memActRepo) FindByMatchID(_ context.Context, matchID int) (*models.MatchAct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(matchID)
}

func (r *memActRepo) load(matchID int) (*models.MatchAct, error) {
	doc, ok := r.docs[matchID]
	if !ok {
		return nil, repositories.ErrActNotFound
	}
	act := &models.MatchAct{}
	if err := json.Unmarshal(doc, act); err != nil {
		return nil, err
	}
	act.ID = r.ids[matchID]
	if key, ok := r.archive[act.ID]; ok {
		act.ArchiveKey = &key
	}
	return act, nil
}

func (r *memActRepo) Create(_ context.Context, act *models.MatchAct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[act.MatchID]; ok {
		return repositories.ErrActMatchConflict
	}
	r.nextID++
	act.ID = "act-" + strconv.Itoa(r.nextID)
	return r.store(act)
}

func (r *memActRepo) Update(_ context.Context, act *models.MatchAct, expected models.ActState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, err := r.load(act.MatchID)
	if err != nil {
		return err
	}
	if current.State() != expected {
		return repositories.ErrActStateChanged
	}
	return r.store(act)
}

func (r *memActRepo) store(act *models.MatchAct) error {
	doc, err := json.Marshal(act)
	if err != nil {
		return err
	}
	r.docs[act.MatchID] = doc
	r.ids[act.MatchID] = act.ID
	return nil
}

func (r *memActRepo) MarkReconciled(_ context.Context, actID string, reconciled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconciled[actID] = reconciled
	return nil
}

func (r *memActRepo) ListUnreconciled(_ context.Context, limit int) ([]*models.MatchAct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*models.MatchAct
	for matchID := range r.docs {
		act, err := r.load(matchID)
		if err != nil {
			return nil, err
		}
		if act.IsCompleted && !r.reconciled[act.ID] && len(pending) < limit {
			pending = append(pending, act)
		}
	}
	return pending, nil
}

func (r *memActRepo) SetArchiveKey(_ context.Context, actID string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archive[actID] = key
	return nil
}

func (r *memActRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

type memMatchRepo struct {
	mu      sync.Mutex
	matches map[int]*models.LeagueMatch
}

func newMemMatchRepo(matches ...models.LeagueMatch) *memMatchRepo {
	r := &memMatchRepo{matches: make(map[int]*models.LeagueMatch)}
	for i := range matches {
		m := matches[i]
		r.matches[m.ID] = &m
	}
	return r
}

func (r *memMatchRepo) GetByID(_ context.Context, id int) (*models.LeagueMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMatchRepo) ListByCompetition(_ context.Context, competitionID string, status *models.MatchStatus) ([]*models.LeagueMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LeagueMatch
	for _, m := range r.matches {
		if m.CompetitionID == competitionID && (status == nil || m.Status == *status) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMatchRepo) UpdateHasAct(_ context.Context, _ repositories.SQLExecutor, matchID int, hasAct bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HasAct = hasAct
	return nil
}

func (r *memMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, matchID int, localScore, visitorScore int, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.LocalScore, m.VisitorScore = &localScore, &visitorScore
	if completed {
		m.Status = models.MatchStatusCompleted
	}
	return nil
}

// repoReconciler applies reconciliations straight to the match repository,
// failing while err is set.
type repoReconciler struct {
	mu      sync.Mutex
	matches *memMatchRepo
	err     error
	calls   int
}

func (r *repoReconciler) Reconcile(ctx context.Context, rec acts.Reconciliation) error {
	r.mu.Lock()
	r.calls++
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := r.matches.UpdateHasAct(ctx, nil, rec.MatchID, true); err != nil {
		return err
	}
	return r.matches.UpdateScore(ctx, nil, rec.MatchID, rec.LocalScore, rec.VisitorScore, rec.Completed)
}

func (r *repoReconciler) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []live.Message
}

func (n *recordingNotifier) BroadcastToRoom(_ string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if m, ok := message.(live.Message); ok {
		n.messages = append(n.messages, m)
	}
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.messages))
	for _, m := range n.messages {
		out = append(out, m.Type)
	}
	return out
}
