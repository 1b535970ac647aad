package site

import (
	"errors"
	"net/http"

	"github.com/kroneus/kroneus-site/internal/contact"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var sub contact.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Error: "Invalid request body"})
		return
	}

	receipt, err := s.deps.Intake.Submit(r.Context(), sub)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, contactResponse{Error: "All fields are required", Fields: verr.Fields})
			return
		}
		// The cause is logged by the intake; clients get a generic message.
		writeJSON(w, http.StatusInternalServerError, contactResponse{Error: "Failed to send email"})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{Success: true, Data: receipt})
}
