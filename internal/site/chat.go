package site

import (
	"errors"
	"net/http"

	"github.com/kroneus/kroneus-site/internal/chat"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError("invalid request body"))
		return
	}

	reply, err := s.deps.Chat.Reply(req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		writeJSON(w, http.StatusBadRequest, apiError("message is required"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError("chat unavailable"))
		return
	}

	s.deps.Metrics.ChatAnswered(r.Context(), reply.Rule)
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"greeting":    s.deps.Chat.Greeting(),
		"suggestions": s.deps.Chat.Suggestions(),
	})
}
