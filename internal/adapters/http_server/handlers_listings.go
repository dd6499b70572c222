package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"minibnb/internal/domain"
)

type listingDTO struct {
	ID          int64     `json:"id"`
	HostID      int64     `json:"host_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	PriceCents  int64     `json:"price_cents"`
	MaxGuests   int       `json:"max_guests"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Images      []string  `json:"images"`
	Amenities   []string  `json:"amenities"`
	Rules       string    `json:"rules"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toListingDTO(l domain.Listing) listingDTO {
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	return listingDTO{
		ID:          l.ID,
		HostID:      l.HostID,
		Title:       l.Title,
		Description: l.Description,
		Address:     l.Address,
		City:        l.City,
		Country:     l.Country,
		PriceCents:  l.PriceCents,
		MaxGuests:   l.MaxGuests,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Images:      l.Images,
		Amenities:   l.Amenities,
		Rules:       l.Rules,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toListingDTOs(ls []domain.Listing) []listingDTO {
	out := make([]listingDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingDTO(l))
	}
	return out
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	q := domain.ListingsQuery{}
	qs := r.URL.Query()
	if v := qs.Get("city"); v != "" {
		q.City = &v
	}
	if v := qs.Get("country"); v != "" {
		q.Country = &v
	}
	if v := qs.Get("min_price_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid filter", "min_price_cents must be an integer")
			return
		}
		q.MinPriceCents = &n
	}
	if v := qs.Get("max_price_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid filter", "max_price_cents must be an integer")
			return
		}
		q.MaxPriceCents = &n
	}
	if v := qs.Get("max_guests"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid filter", "max_guests must be an integer")
			return
		}
		q.MaxGuests = &n
	}
	if v := qs.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		q.Limit = n
	}
	if v := qs.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return
		}
		q.Offset = n
	}

	page, err := h.Listings.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, struct {
		Listings []listingDTO `json:"listings"`
		Total    int          `json:"total"`
	}{toListingDTOs(page.Items), page.Total})
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	l, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, toListingDTO(l))
}

func (h *Handlers) myListings(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Listings.Mine(r.Context(), Actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDTOs(ls))
}

type createListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	PriceCents  int64    `json:"price_cents"`
	MaxGuests   int      `json:"max_guests"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
	Rules       string   `json:"rules"`
}

func (h *Handlers) createListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.PriceCents <= 0 || req.MaxGuests <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid listing", "title, price_cents and max_guests are required")
		return
	}
	l, err := h.Listings.Create(r.Context(), Actor(r), domain.Listing{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		PriceCents:  req.PriceCents,
		MaxGuests:   req.MaxGuests,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Images:      req.Images,
		Amenities:   req.Amenities,
		Rules:       req.Rules,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingDTO(l))
}

type updateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	PriceCents  *int64   `json:"price_cents"`
	MaxGuests   *int     `json:"max_guests"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
	Rules       *string  `json:"rules"`
}

func (h *Handlers) updateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req updateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.Listings.Update(r.Context(), Actor(r), id, domain.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		PriceCents:  req.PriceCents,
		MaxGuests:   req.MaxGuests,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Images:      req.Images,
		Amenities:   req.Amenities,
		Rules:       req.Rules,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDTO(l))
}

func (h *Handlers) deleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if err := h.Listings.Delete(r.Context(), Actor(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "listing deleted"})
}
