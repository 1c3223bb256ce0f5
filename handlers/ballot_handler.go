package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jrdcruz/pageant-system/middleware"
	"github.com/jrdcruz/pageant-system/services"
)

type BallotHandler struct {
	ballotService services.BallotService
}

func NewBallotHandler(bs services.BallotService) *BallotHandler {
	return &BallotHandler{
		ballotService: bs,
	}
}

// GetBallot returns the judge's scoring sheet for the category in the
// query string: every active-year candidate with current scores merged
// in, zeros where unscored.
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "Unauthorized")
		return
	}

	categoryIDStr := r.URL.Query().Get("category")
	if categoryIDStr == "" {
		badRequestResponse(w, r, errors.New("Category ID is required."))
		return
	}
	categoryID, err := strconv.Atoi(categoryIDStr)
	if err != nil || categoryID <= 0 {
		badRequestResponse(w, r, errors.New("Category ID must be a number."))
		return
	}

	rows, err := h.ballotService.BuildBallot(r.Context(), judgeID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, rows, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitScores upserts one criterion list for one candidate. Retries
// are safe: the record is keyed by (judge, candidate, category).
func (h *BallotHandler) SubmitScores(w http.ResponseWriter, r *http.Request) {
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "Unauthorized")
		return
	}

	var input services.SubmitScoresInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	record, err := h.ballotService.SubmitScores(r.Context(), judgeID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message":      "Score updated successfully",
		"updatedScore": record,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
