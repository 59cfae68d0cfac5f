package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/garnizeh/chronosflow/internal/roles"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/pkg/models"
)

type AuthHandler struct {
	auth *service.Auth
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(auth *service.Auth) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	Roles           []string `json:"roles"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type toggleRoleRequest struct {
	Selected []string `json:"selected"`
	Role     string   `json:"role"`
}

type toggleRoleResponse struct {
	Selected []models.Role `json:"selected"`
	Error    string        `json:"error,omitempty"`
}

type passwordStrengthRequest struct {
	Password string `json:"password"`
}

func parseRoles(in []string) ([]models.Role, error) {
	out := make([]models.Role, 0, len(in))
	for _, s := range in {
		r, err := roles.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	selected, err := parseRoles(req.Roles)
	if err != nil {
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusUnprocessableEntity)
		return
	}

	acc, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Roles:           selected,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondWithToken(w, r, acc, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	acc, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondWithToken(w, r, acc, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, acc *models.Account, status int) {
	token, err := h.auth.IssueToken(acc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, authResponse{Token: token, User: acc.User()}, status)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

// ToggleRole applies one click of the sign-up role picker. A refused toggle
// answers 422 with the unchanged selection and the reason.
func (h *AuthHandler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	var req toggleRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	selected, err := parseRoles(req.Selected)
	if err != nil {
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusUnprocessableEntity)
		return
	}
	role, err := roles.Parse(req.Role)
	if err != nil {
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusUnprocessableEntity)
		return
	}

	next, err := roles.Toggle(selected, role)
	if err != nil {
		var cerr *roles.ConflictError
		if errors.As(err, &cerr) {
			writeJSON(w, toggleRoleResponse{Selected: next, Error: cerr.Message}, http.StatusUnprocessableEntity)
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, toggleRoleResponse{Selected: next}, http.StatusOK)
}

func (h *AuthHandler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req passwordStrengthRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]service.Strength{"strength": service.PasswordStrength(req.Password)}, http.StatusOK)
}
