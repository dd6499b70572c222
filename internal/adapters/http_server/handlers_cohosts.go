package httpserver

import (
	"net/http"
	"time"

	"minibnb/internal/app"
	"minibnb/internal/domain"
)

type cohostDTO struct {
	ID                 int64     `json:"id"`
	ListingID          int64     `json:"listing_id"`
	HostID             int64     `json:"host_id"`
	CohostID           int64     `json:"cohost_id"`
	CanEditListing     bool      `json:"can_edit_listing"`
	CanManageBookings  bool      `json:"can_manage_bookings"`
	CanRespondMessages bool      `json:"can_respond_messages"`
	CreatedAt          time.Time `json:"created_at"`
}

func toCohostDTO(p domain.CohostPermission) cohostDTO {
	return cohostDTO{
		ID:                 p.ID,
		ListingID:          p.ListingID,
		HostID:             p.HostID,
		CohostID:           p.CohostID,
		CanEditListing:     p.CanEditListing,
		CanManageBookings:  p.CanManageBookings,
		CanRespondMessages: p.CanRespondMessages,
		CreatedAt:          p.CreatedAt,
	}
}

func (h *Handlers) listCohosts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Cohosts.ListForHost(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]cohostDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toCohostDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type createCohostRequest struct {
	ListingID          int64 `json:"listing_id"`
	CohostID           int64 `json:"cohost_id"`
	CanEditListing     bool  `json:"can_edit_listing"`
	CanManageBookings  bool  `json:"can_manage_bookings"`
	CanRespondMessages bool  `json:"can_respond_messages"`
}

func (h *Handlers) createCohost(w http.ResponseWriter, r *http.Request) {
	var req createCohostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ListingID <= 0 || req.CohostID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid grant", "listing_id and cohost_id are required")
		return
	}
	p, err := h.Cohosts.Grant(r.Context(), Actor(r), app.GrantInput{
		ListingID:          req.ListingID,
		CohostID:           req.CohostID,
		CanEditListing:     req.CanEditListing,
		CanManageBookings:  req.CanManageBookings,
		CanRespondMessages: req.CanRespondMessages,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCohostDTO(p))
}

type updateCohostRequest struct {
	CanEditListing     *bool `json:"can_edit_listing"`
	CanManageBookings  *bool `json:"can_manage_bookings"`
	CanRespondMessages *bool `json:"can_respond_messages"`
}

func (h *Handlers) updateCohost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req updateCohostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Cohosts.Update(r.Context(), Actor(r), id, domain.CohostUpdate{
		CanEditListing:     req.CanEditListing,
		CanManageBookings:  req.CanManageBookings,
		CanRespondMessages: req.CanRespondMessages,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCohostDTO(p))
}

func (h *Handlers) deleteCohost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if err := h.Cohosts.Revoke(r.Context(), Actor(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cohost grant revoked"})
}
