package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jrdcruz/pageant-system/services"
)

const maxCandidateFormSize = 32 << 20 // 32MB

type CandidateHandler struct {
	candidateService services.CandidateService
}

func NewCandidateHandler(cs services.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: cs,
	}
}

func (h *CandidateHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if year == "" {
		badRequestResponse(w, r, errors.New("year query parameter is required"))
		return
	}

	candidates, err := h.candidateService.GetCandidatesByYear(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, candidates, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateCandidate consumes a multipart form: year, role, candidate_no,
// candidate_name and the candidate_image file.
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCandidateFormSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	candidateNo, err := strconv.Atoi(r.FormValue("candidate_no"))
	if err != nil {
		badRequestResponse(w, r, errors.New("candidate_no must be a number"))
		return
	}

	input := services.CreateCandidateInput{
		Year:          r.FormValue("year"),
		Role:          r.FormValue("role"),
		CandidateNo:   candidateNo,
		CandidateName: r.FormValue("candidate_name"),
	}

	file, contentType, err := candidateImageFromForm(r, true)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}

	if _, err := h.candidateService.CreateCandidate(r.Context(), input, reader, contentType); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

// UpdateCandidate accepts the same form as create; the image is
// optional and the stored one is kept when it is absent.
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCandidateFormSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		badRequestResponse(w, r, errors.New("id must be a number"))
		return
	}
	candidateNo, err := strconv.Atoi(r.FormValue("candidate_no"))
	if err != nil {
		badRequestResponse(w, r, errors.New("candidate_no must be a number"))
		return
	}

	input := services.UpdateCandidateInput{
		ID:            id,
		Role:          r.FormValue("role"),
		CandidateNo:   candidateNo,
		CandidateName: r.FormValue("candidate_name"),
	}

	file, contentType, err := candidateImageFromForm(r, false)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}

	if _, err := h.candidateService.UpdateCandidate(r.Context(), input, reader, contentType); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID int `json:"id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ID == 0 {
		badRequestResponse(w, r, errors.New("Candidate ID is required."))
		return
	}

	if err := h.candidateService.DeleteCandidate(r.Context(), input.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func candidateImageFromForm(r *http.Request, required bool) (multipart.File, string, error) {
	file, header, err := r.FormFile("candidate_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return nil, "", errors.New("Missing required fields.")
			}
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to get candidate image from form: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		file.Close()
		return nil, "", errors.New("content-type header is required for candidate image")
	}
	return file, contentType, nil
}
