package httpserver

import (
	"net/http"
	"time"

	"minibnb/internal/domain"
)

type userDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsHost    bool      `json:"is_host"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role()),
		IsHost:    u.IsHost,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Profile(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), Actor(r), domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

func (h *Handlers) becomeHost(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.BecomeHost(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}
