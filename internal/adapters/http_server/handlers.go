package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"minibnb/internal/app"
	"minibnb/internal/domain"
)

type Handlers struct {
	Listings *app.ListingService
	Bookings *app.BookingService
	Messages *app.MessageService
	Cohosts  *app.CohostService
	Users    *app.UserService
}

// MountHandlers wires the v1 API. Public listing reads sit outside
// RequireAuth; everything else needs a resolved principal.
func (s *Server) MountHandlers(h *Handlers, users domain.UserRepository) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(Identity(users))

		r.Get("/v1/listings", h.listListings)
		r.Get("/v1/listings/{id}", h.getListing)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Get("/v1/listings/mine", h.myListings)
			r.Post("/v1/listings", h.createListing)
			r.Patch("/v1/listings/{id}", h.updateListing)
			r.Delete("/v1/listings/{id}", h.deleteListing)

			r.Get("/v1/bookings", h.hostBookings)
			r.Get("/v1/bookings/mine", h.myBookings)
			r.Get("/v1/bookings/{id}", h.getBooking)
			r.Post("/v1/bookings", h.createBooking)
			r.Patch("/v1/bookings/{id}/status", h.updateBookingStatus)
			r.Post("/v1/bookings/{id}/cancel", h.cancelBooking)

			r.Get("/v1/conversations", h.listConversations)
			r.Post("/v1/conversations", h.startConversation)
			r.Get("/v1/conversations/{id}", h.getConversation)
			r.Get("/v1/conversations/{id}/messages", h.listMessages)
			r.Post("/v1/conversations/{id}/messages", h.sendMessage)
			r.Get("/v1/messages/unread-count", h.unreadCount)

			r.Get("/v1/cohosts", h.listCohosts)
			r.Post("/v1/cohosts", h.createCohost)
			r.Patch("/v1/cohosts/{id}", h.updateCohost)
			r.Delete("/v1/cohosts/{id}", h.deleteCohost)

			r.Get("/v1/me", h.profile)
			r.Patch("/v1/me", h.updateProfile)
			r.Post("/v1/me/become-host", h.becomeHost)
		})
	})
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
