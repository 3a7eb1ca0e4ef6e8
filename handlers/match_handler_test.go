package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/services"
)

type stubMatchService struct {
	matches   []*models.LeagueMatch
	err       error
	gotStatus *models.MatchStatus
	gotComp   string
}

func (s *stubMatchService) GetMatch(_ context.Context, matchID int) (*models.LeagueMatch, error) {
	for _, m := range s.matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", services.ErrMatchNotFound, matchID)
}

func (s *stubMatchService) ListByCompetition(_ context.Context, competitionID string, status *models.MatchStatus) ([]*models.LeagueMatch, error) {
	s.gotComp, s.gotStatus = competitionID, status
	return s.matches, s.err
}

func matchRouter(svc services.MatchService) http.Handler {
	h := NewMatchHandler(svc)
	r := chi.NewRouter()
	r.Get("/matches/{matchID}", h.GetMatch)
	r.Get("/competitions/{competitionID}/matches", h.ListCompetitionMatches)
	return r
}

func TestGetMatch(t *testing.T) {
	svc := &stubMatchService{matches: []*models.LeagueMatch{{ID: 7, CompetitionID: "liga-2026"}}}
	router := matchRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Match models.LeagueMatch `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "liga-2026", body.Match.CompetitionID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCompetitionMatchesFiltersByStatus(t *testing.T) {
	svc := &stubMatchService{matches: []*models.LeagueMatch{{ID: 7, CompetitionID: "liga-2026", Status: models.MatchStatusCompleted}}}

	rec := httptest.NewRecorder()
	matchRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/competitions/liga-2026/matches?status=completed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "liga-2026", svc.gotComp)
	require.NotNil(t, svc.gotStatus)
	assert.Equal(t, models.MatchStatusCompleted, *svc.gotStatus)

	var body struct {
		Matches []models.LeagueMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Matches, 1)
}

func TestListCompetitionMatchesWithoutStatus(t *testing.T) {
	svc := &stubMatchService{}

	rec := httptest.NewRecorder()
	matchRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/competitions/liga-2026/matches", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotStatus)
}
