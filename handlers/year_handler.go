package handlers

import (
	"errors"
	"net/http"

	"github.com/jrdcruz/pageant-system/services"
)

type YearHandler struct {
	yearService services.YearService
}

func NewYearHandler(ys services.YearService) *YearHandler {
	return &YearHandler{
		yearService: ys,
	}
}

func (h *YearHandler) GetAllYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.yearService.GetAllYears(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, years, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *YearHandler) CreateYear(w http.ResponseWriter, r *http.Request) {
	var input services.CreateYearInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.yearService.CreateYear(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

// SetActiveYear moves the priority flag; the previously active year is
// deactivated in the same transaction.
func (h *YearHandler) SetActiveYear(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Year string `json:"year"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Year == "" {
		badRequestResponse(w, r, errors.New("year is required"))
		return
	}

	if err := h.yearService.SetActiveYear(r.Context(), input.Year); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}
