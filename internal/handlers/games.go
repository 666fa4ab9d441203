package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/tracker"
	"catan-tracker/internal/views"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type GamesHandler struct {
	tracker *tracker.Tracker
}

func NewGamesHandler(t *tracker.Tracker) *GamesHandler {
	return &GamesHandler{tracker: t}
}

type CreateGameRequest struct {
	Players      []string `json:"players"`
	Winner       string   `json:"winner"`
	SecondPlaces []string `json:"secondPlaces"`
}

// ListGames returns a page of the game log, most recent first.
// GET /api/games?page=1&pageSize=10
func (h *GamesHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	state := h.tracker.State()
	respondJSON(w, http.StatusOK, views.Paginate(state.Games, page, pageSize))
}

// CreateGame validates and stores a new game record.
// POST /api/games
func (h *GamesHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.tracker.AddGame(ctx, req.Players, req.Winner, req.SecondPlaces)
	if err != nil {
		writeGameError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// UpdateGame merges the supplied fields onto an existing record.
// PUT /api/games/{id}
func (h *GamesHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	var changes gamelog.GameChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.tracker.EditGame(ctx, id, changes)
	if err != nil {
		writeGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// DeleteGame removes a record from the log.
// DELETE /api/games/{id}
func (h *GamesHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	if err := h.tracker.RemoveGame(ctx, id); err != nil {
		writeGameError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
