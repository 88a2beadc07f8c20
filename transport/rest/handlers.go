package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, that.lobby.Lobby())
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := that.lobby.Session(id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		// finished and abandoned sessions leave the registry but stay archived
		snapshot, err = that.archive.GetByID(r.Context(), id)
		if errors.Is(err, repository.ErrSessionNotFound) {
			that.respondJSON(w, http.StatusNotFound, errorResponse{Error: apperror.Message(apperror.ErrSessionNotFound)})
			return
		}
	}

	if err != nil {
		that.logger.Error("failed to get session", "session_id", id, "error", err)
		that.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: apperror.Message(err)})
		return
	}

	that.respondJSON(w, http.StatusOK, snapshot)
}

func (that *Server) listResults(w http.ResponseWriter, r *http.Request) {
	limit := that.resultsLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			that.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}

		limit = parsed
		if that.resultsLimit > 0 {
			limit = min(parsed, that.resultsLimit)
		}
	}

	results, err := that.archive.RecentResults(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to get recent results", "error", err)
		that.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: apperror.Message(apperror.ErrInternal)})
		return
	}

	that.respondJSON(w, http.StatusOK, results)
}

func (that *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Warn("failed to encode response", "error", err)
	}
}
