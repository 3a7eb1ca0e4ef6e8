package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/wrestling-league/middleware"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/services"
)

type ActHandler struct {
	actService services.ActService
}

func NewActHandler(as services.ActService) *ActHandler {
	return &ActHandler{actService: as}
}

// GetAct godoc
// @Summary Get the act of a match
// @Tags acts
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "act"
// @Failure 404 {object} map[string]string "Match has no act"
// @Router /matches/{matchID}/act [get]
func (h *ActHandler) GetAct(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.GetAct(r.Context(), matchID)
	writeAct(w, r, http.StatusOK, act, err)
}

// SubmitAct godoc
// @Summary Create or replace the draft act of a match
// @Description Saves a draft. With "complete": true the act is also completed and the match result is updated.
// @Tags acts
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.SubmitActInput true "Act content"
// @Success 200 {object} map[string]interface{} "act, optional warning"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]interface{} "Act is not a draft"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Security BearerAuth
// @Router /matches/{matchID}/act [put]
func (h *ActHandler) SubmitAct(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitActInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.SubmitAct(r.Context(), matchID, input)
	writeAct(w, r, http.StatusOK, act, err)
}

// PutBout godoc
// @Summary Create or replace one bout of a draft act
// @Tags acts
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param order path int true "Bout order"
// @Param input body services.BoutInput true "Bout"
// @Success 200 {object} map[string]interface{} "act"
// @Failure 409 {object} map[string]interface{} "Act is not a draft"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Security BearerAuth
// @Router /matches/{matchID}/act/bouts/{order} [put]
func (h *ActHandler) PutBout(w http.ResponseWriter, r *http.Request) {
	matchID, order, err := boutPath(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.BoutInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.PutBout(r.Context(), matchID, order, input)
	writeAct(w, r, http.StatusOK, act, err)
}

// RecordFall godoc
// @Summary Record a fall in a bout
// @Tags acts
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param order path int true "Bout order"
// @Param input body services.RecordFallInput true "Fall"
// @Success 200 {object} map[string]interface{} "act"
// @Security BearerAuth
// @Router /matches/{matchID}/act/bouts/{order}/falls [post]
func (h *ActHandler) RecordFall(w http.ResponseWriter, r *http.Request) {
	matchID, order, err := boutPath(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordFallInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.RecordFall(r.Context(), matchID, order, input)
	writeAct(w, r, http.StatusOK, act, err)
}

// RemoveLastFall godoc
// @Summary Undo the last fall of one side
// @Tags acts
// @Produce json
// @Param matchID path int true "Match ID"
// @Param order path int true "Bout order"
// @Param side path string true "local or visitor"
// @Success 200 {object} map[string]interface{} "act"
// @Security BearerAuth
// @Router /matches/{matchID}/act/bouts/{order}/falls/{side} [delete]
func (h *ActHandler) RemoveLastFall(w http.ResponseWriter, r *http.Request) {
	matchID, order, err := boutPath(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	side := models.Side(chi.URLParam(r, "side"))
	act, err := h.actService.RemoveLastFall(r.Context(), matchID, order, side)
	writeAct(w, r, http.StatusOK, act, err)
}

// RecordPenalty godoc
// @Summary Add a penalty to one side of a bout
// @Tags acts
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param order path int true "Bout order"
// @Param input body services.RecordPenaltyInput true "Penalty"
// @Success 200 {object} map[string]interface{} "act"
// @Security BearerAuth
// @Router /matches/{matchID}/act/bouts/{order}/penalties [post]
func (h *ActHandler) RecordPenalty(w http.ResponseWriter, r *http.Request) {
	matchID, order, err := boutPath(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordPenaltyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.RecordPenalty(r.Context(), matchID, order, input)
	writeAct(w, r, http.StatusOK, act, err)
}

// CompleteAct godoc
// @Summary Complete the act and push the result to the match
// @Tags acts
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "act, optional warning when the match could not be updated"
// @Failure 409 {object} map[string]interface{} "Act cannot be completed"
// @Security BearerAuth
// @Router /matches/{matchID}/act/complete [post]
func (h *ActHandler) CompleteAct(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	act, err := h.actService.CompleteAct(r.Context(), matchID)
	writeAct(w, r, http.StatusOK, act, err)
}

// SignAct godoc
// @Summary Sign a completed act
// @Description signed_by defaults to the authenticated user.
// @Tags acts
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.SignActInput false "Signer"
// @Success 200 {object} map[string]interface{} "act"
// @Failure 409 {object} map[string]interface{} "Act is not completed"
// @Security BearerAuth
// @Router /matches/{matchID}/act/sign [post]
func (h *ActHandler) SignAct(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SignActInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	if input.SignedBy == "" {
		if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
			input.SignedBy = userID
		}
	}

	act, err := h.actService.SignAct(r.Context(), matchID, input)
	writeAct(w, r, http.StatusOK, act, err)
}

// VerifyAct godoc
// @Summary Check the seal of a signed act
// @Tags acts
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} services.SealReport
// @Failure 409 {object} map[string]interface{} "Act is not signed"
// @Router /matches/{matchID}/act/verify [get]
func (h *ActHandler) VerifyAct(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.actService.VerifyAct(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"verification": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func boutPath(r *http.Request) (matchID, order int, err error) {
	matchID, err = getIDFromURL(r, "matchID")
	if err != nil {
		return 0, 0, err
	}
	order, err = getIDFromURL(r, "order")
	if err != nil {
		return 0, 0, fmt.Errorf("bout %w", err)
	}
	return matchID, order, nil
}
