package handler

import (
	"errors"
	"fmt"
	"net/http"

	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/session"
)

type UserHandler struct {
	svc      *service.UserService
	sessions *session.Manager
}

func NewUserHandler(svc *service.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{svc: svc, sessions: sessions}
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.sessions.Start(r.Context(), w, u.ID); err != nil {
		writeError(w, r, fmt.Errorf("start session: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		writeError(w, r, fmt.Errorf("end session: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser returns the user of the active session.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	u, err := h.svc.GetUser(r.Context(), userID)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type UpdateNameRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID("userId", r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UpdateNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.UpdateName(r.Context(), userID, req.FirstName, req.LastName); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "User information updated successfully!")
}

type UpdateEmailRequest struct {
	UserID   int    `json:"userId"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.UpdateEmail(r.Context(), req.UserID, req.Password, req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Email updated successfully!")
}

type UpdatePasswordRequest struct {
	UserID      int    `json:"userId"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.UpdatePassword(r.Context(), req.UserID, req.Password, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Password updated successfully!")
}
