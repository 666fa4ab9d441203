package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
	"catan-tracker/internal/tracker"
	"catan-tracker/internal/views"
)

// memoryStore backs a tracker with an in-memory collection for handler tests.
type memoryStore struct {
	mu    sync.Mutex
	games []models.Game
	agg   stats.Aggregate
}

func (m *memoryStore) Load(ctx context.Context) ([]models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Game, len(m.games))
	copy(out, m.games)
	return out, nil
}

func (m *memoryStore) Create(ctx context.Context, g models.Game) (models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = primitive.NewObjectID()
	m.games = append(m.games, g)
	return g, nil
}

func (m *memoryStore) Update(ctx context.Context, g models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.games {
		if m.games[i].ID == g.ID {
			m.games[i] = g
			return nil
		}
	}
	return gamelog.ErrGameNotFound
}

func (m *memoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.games {
		if m.games[i].ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			return nil
		}
	}
	return gamelog.ErrGameNotFound
}

func (m *memoryStore) Watch(ctx context.Context, onChange func([]models.Game)) {
	<-ctx.Done()
}

func (m *memoryStore) FetchAggregate(ctx context.Context) (stats.Aggregate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agg, m.agg != nil, nil
}

func (m *memoryStore) StoreAggregate(ctx context.Context, agg stats.Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agg = agg
	return nil
}

func newTestRouter(t *testing.T, games ...models.Game) (*mux.Router, *tracker.Tracker) {
	t.Helper()

	store := &memoryStore{games: games}
	tr := tracker.New(store)
	require.NoError(t, tr.Start(context.Background()))
	t.Cleanup(tr.Stop)

	h := NewGamesHandler(tr)
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", h.ListGames).Methods(http.MethodGet)
	api.HandleFunc("/games", h.CreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", h.UpdateGame).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}", h.DeleteGame).Methods(http.MethodDelete)
	return router, tr
}

func seededGame(day int, winner models.Player) models.Game {
	return models.Game{
		ID:      primitive.NewObjectID(),
		Date:    time.Date(2026, 7, day, 20, 0, 0, 0, time.UTC),
		Players: []models.Player{models.Antoine, models.Chadi, models.Jeff},
		Winner:  winner,
	}
}

func TestListGames(t *testing.T) {
	t.Parallel()

	games := make([]models.Game, 25)
	for i := range games {
		games[i] = seededGame(i+1, models.Antoine)
	}
	router, _ := newTestRouter(t, games...)

	t.Run("default page", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var page views.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Len(t, page.Games, 10)
		assert.Equal(t, 25, page.TotalGames)
		assert.Equal(t, 3, page.TotalPages)
		// Most recent first.
		assert.Equal(t, games[24].ID, page.Games[0].ID)
	})

	t.Run("explicit page and size", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games?page=2&pageSize=20", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var page views.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Len(t, page.Games, 5)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("absurd page size is capped", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/games?pageSize=9999", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var page views.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, maxPageSize, page.PageSize)
	})
}

func TestCreateGame(t *testing.T) {
	t.Parallel()

	t.Run("valid game", func(t *testing.T) {
		t.Parallel()
		router, tr := newTestRouter(t)

		body, _ := json.Marshal(CreateGameRequest{
			Players:      []string{"Antoine", "Chadi", "Jeff"},
			Winner:       "Chadi",
			SecondPlaces: []string{"Jeff"},
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		var created models.Game
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.False(t, created.ID.IsZero())
		assert.Equal(t, models.Chadi, created.Winner)

		assert.Len(t, tr.State().Games, 1)
	})

	t.Run("invalid game is a 400", func(t *testing.T) {
		t.Parallel()
		router, tr := newTestRouter(t)

		body, _ := json.Marshal(CreateGameRequest{
			Players: []string{"Antoine", "Chadi"},
			Winner:  "Antoine",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "too few players")
		assert.Empty(t, tr.State().Games)
	})

	t.Run("unknown player is a 400", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		body, _ := json.Marshal(CreateGameRequest{
			Players: []string{"Antoine", "Chadi", "Bob"},
			Winner:  "Antoine",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown player")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewReader([]byte("{"))))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateGame(t *testing.T) {
	t.Parallel()

	t.Run("change the winner", func(t *testing.T) {
		t.Parallel()
		existing := seededGame(1, models.Antoine)
		router, tr := newTestRouter(t, existing)

		body := []byte(`{"winner": "Jeff"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/games/"+existing.ID.Hex(), bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, w.Code)
		var updated models.Game
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.Jeff, updated.Winner)
		assert.Equal(t, existing.ID, updated.ID)

		assert.Equal(t, 1, tr.State().Stats[models.Jeff].Wins)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t, seededGame(1, models.Antoine))

		body := []byte(`{"winner": "Jeff"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/games/"+primitive.NewObjectID().Hex(), bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a 404", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/games/not-an-id", bytes.NewReader([]byte(`{}`))))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteGame(t *testing.T) {
	t.Parallel()

	existing := seededGame(1, models.Antoine)
	router, tr := newTestRouter(t, existing)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/games/"+existing.ID.Hex(), nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, tr.State().Games)

	t.Run("already deleted is a 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/games/"+existing.ID.Hex(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
