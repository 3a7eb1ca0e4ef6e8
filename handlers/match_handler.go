package handlers

import (
	"net/http"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// GetMatch godoc
// @Summary Get a league match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "match"
// @Failure 404 {object} map[string]string "Match not found"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCompetitionMatches godoc
// @Summary List the matches of a competition
// @Tags matches
// @Produce json
// @Param competitionID path string true "Competition ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{} "matches"
// @Router /competitions/{competitionID}/matches [get]
func (h *MatchHandler) ListCompetitionMatches(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	var status *models.MatchStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.MatchStatus(s)
		status = &st
	}

	matches, err := h.matchService.ListByCompetition(r.Context(), competitionID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
