package handlers

import (
	"errors"
	"net/http"

	"github.com/jrdcruz/pageant-system/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
	}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input services.CreateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.userService.CreateUser(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.userService.UpdateUser(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID int `json:"id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ID == 0 {
		badRequestResponse(w, r, errors.New("Cannot find user."))
		return
	}

	if err := h.userService.DeleteUser(r.Context(), input.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stateSuccessResponse(w, r)
}
