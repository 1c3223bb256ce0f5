package handlers

import (
	"errors"
	"net/http"

	"github.com/jrdcruz/pageant-system/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(cs services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: cs,
	}
}

// GetCategories lists categories for the year given in the query
// string (admin view).
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if year == "" {
		badRequestResponse(w, r, errors.New("year query parameter is required"))
		return
	}

	categories, err := h.categoryService.GetCategoriesByYear(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, categories, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetActiveCategories lists categories of the active year (judge view).
func (h *CategoryHandler) GetActiveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetActiveCategories(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, categories, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.categoryService.CreateCategory(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateCategoryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.categoryService.UpdateCategory(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID int `json:"id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ID == 0 {
		badRequestResponse(w, r, errors.New("category id is required"))
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), input.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}
