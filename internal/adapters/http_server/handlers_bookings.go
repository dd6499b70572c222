package httpserver

import (
	"errors"
	"net/http"
	"time"

	"minibnb/internal/adapters/observability"
	"minibnb/internal/app"
	"minibnb/internal/domain"
)

type bookingDTO struct {
	ID            int64     `json:"id"`
	ListingID     int64     `json:"listing_id"`
	GuestID       int64     `json:"guest_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalCents    int64     `json:"total_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ListingTitle  *string   `json:"listing_title,omitempty"`
	ListingCity   *string   `json:"listing_city,omitempty"`
	ListingImages []string  `json:"listing_images,omitempty"`
}

func toBookingDTO(b domain.Booking) bookingDTO {
	return bookingDTO{
		ID:            b.ID,
		ListingID:     b.ListingID,
		GuestID:       b.GuestID,
		CheckIn:       b.CheckIn.Format(dateLayout),
		CheckOut:      b.CheckOut.Format(dateLayout),
		Guests:        b.Guests,
		TotalCents:    b.TotalCents,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		ListingTitle:  b.ListingTitle,
		ListingCity:   b.ListingCity,
		ListingImages: b.ListingImages,
	}
}

func toBookingDTOs(bs []domain.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingDTO(b))
	}
	return out
}

func (h *Handlers) hostBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListForHost(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTOs(bs))
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListForGuest(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTOs(bs))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	b, err := h.Bookings.Get(r.Context(), Actor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}

type createBookingRequest struct {
	ListingID int64  `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ListingID <= 0 || req.Guests <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid booking", "listing_id and guests are required")
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid date", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid date", "check_out must be YYYY-MM-DD")
		return
	}

	b, err := h.Bookings.Create(r.Context(), Actor(r), app.CreateBookingInput{
		ListingID: req.ListingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
	})
	if err != nil {
		var ce *domain.ConflictError
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ce):
			observability.ObserveBooking("conflict")
		case errors.As(err, &ve):
			observability.ObserveBooking("rejected")
		default:
			observability.ObserveBooking("error")
		}
		writeError(w, err)
		return
	}
	observability.ObserveBooking("created")
	writeJSON(w, http.StatusCreated, toBookingDTO(b))
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req updateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.Bookings.UpdateStatus(r.Context(), Actor(r), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), Actor(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}
