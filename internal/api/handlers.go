package api

import (
	"encoding/json"
	"net/http"

	"zippyhand/internal/models"
	"zippyhand/internal/service"
)

func (s *HTTPServer) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.limiter.allow(r) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var input service.SubmitBookingInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.SubmitBooking(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking})
}

func (s *HTTPServer) handleListServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	services, err := s.catalog.ListServices(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// handleBookingOptions returns the selectable form values so clients never
// hard-code slots, dates or brands.
func (s *HTTPServer) handleBookingOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dates":      s.bookings.OfferedDates(),
		"time_slots": models.TimeSlots,
		"brands":     models.Brands,
	})
}
