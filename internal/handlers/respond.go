package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"catan-tracker/internal/gamelog"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeGameError maps domain errors onto HTTP statuses: validation and
// roster failures are 400 with the reason, missing ids are 404, anything
// else is a persistence failure.
func writeGameError(w http.ResponseWriter, err error) {
	var invalid *gamelog.InvalidGameError
	var unknown *gamelog.UnknownPlayerError

	switch {
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusBadRequest)
	case errors.As(err, &unknown):
		http.Error(w, unknown.Error(), http.StatusBadRequest)
	case errors.Is(err, gamelog.ErrGameNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	default:
		log.Printf("Persistence error: %v", err)
		http.Error(w, "Failed to persist game", http.StatusInternalServerError)
	}
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
