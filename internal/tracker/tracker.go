// Package tracker owns the in-memory dashboard state and drives the
// persistence layer. Mutations go to the store first; the state only
// reflects a write after the store acknowledges it.
package tracker

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catan-tracker/internal/gamelog"
	"catan-tracker/internal/models"
	"catan-tracker/internal/stats"
)

// Store is the persistence boundary the tracker drives.
type Store interface {
	Load(ctx context.Context) ([]models.Game, error)
	Create(ctx context.Context, g models.Game) (models.Game, error)
	Update(ctx context.Context, g models.Game) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Watch(ctx context.Context, onChange func([]models.Game))
	FetchAggregate(ctx context.Context) (stats.Aggregate, bool, error)
	StoreAggregate(ctx context.Context, agg stats.Aggregate) error
}

type Tracker struct {
	store Store

	mu        sync.RWMutex
	state     gamelog.State
	listeners []func(gamelog.State)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store Store) *Tracker {
	return &Tracker{store: store}
}

// OnChange registers a listener invoked with the new state after every
// transition. Must be called before Start.
func (t *Tracker) OnChange(fn func(gamelog.State)) {
	t.listeners = append(t.listeners, fn)
}

// Start loads the current collection, reconciles the aggregate cache, and
// begins watching for upstream changes.
func (t *Tracker) Start(ctx context.Context) error {
	games, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	t.apply(gamelog.SetGames{Games: games})
	t.reconcileAggregateCache(ctx)

	watchCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.store.Watch(watchCtx, func(games []models.Game) {
			t.apply(gamelog.SetGames{Games: games})
			t.writeAggregateCache(context.Background())
		})
	}()

	log.Printf("Tracker started with %d games", len(games))
	return nil
}

// Stop cancels the change watcher and waits for it to exit.
func (t *Tracker) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}

// State returns a copy of the current state.
func (t *Tracker) State() gamelog.State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	games := make([]models.Game, len(t.state.Games))
	copy(games, t.state.Games)
	return gamelog.State{Games: games, Stats: maps.Clone(t.state.Stats)}
}

// AddGame validates, persists, and appends a new game. The record's date is
// the submission time.
func (t *Tracker) AddGame(ctx context.Context, players []string, winner string, secondPlaces []string) (models.Game, error) {
	g, err := gamelog.NewGame(players, winner, secondPlaces, time.Now())
	if err != nil {
		return models.Game{}, err
	}

	created, err := t.store.Create(ctx, g)
	if err != nil {
		return models.Game{}, err
	}
	t.apply(gamelog.AddGame{Game: created})
	t.writeAggregateCache(ctx)
	return created, nil
}

// EditGame merges the supplied fields onto the stored record, re-validates
// the merged result, and persists it. Id and date cannot change.
func (t *Tracker) EditGame(ctx context.Context, id primitive.ObjectID, ch gamelog.GameChanges) (models.Game, error) {
	t.mu.RLock()
	current, ok := t.state.Find(id)
	t.mu.RUnlock()
	if !ok {
		return models.Game{}, gamelog.ErrGameNotFound
	}

	merged, err := gamelog.ApplyChanges(current, ch)
	if err != nil {
		return models.Game{}, err
	}

	if err := t.store.Update(ctx, merged); err != nil {
		return models.Game{}, err
	}
	t.apply(gamelog.EditGame{Game: merged})
	t.writeAggregateCache(ctx)
	return merged, nil
}

// RemoveGame deletes the record. Removing an unknown id is an error, matching
// EditGame.
func (t *Tracker) RemoveGame(ctx context.Context, id primitive.ObjectID) error {
	if err := t.store.Delete(ctx, id); err != nil {
		return err
	}
	t.apply(gamelog.RemoveGame{ID: id})
	t.writeAggregateCache(ctx)
	return nil
}

func (t *Tracker) apply(a gamelog.Action) {
	t.mu.Lock()
	t.state = gamelog.Reduce(t.state, a)
	st := t.state
	t.mu.Unlock()

	for _, fn := range t.listeners {
		fn(st)
	}
}

// reconcileAggregateCache compares any stored aggregate document against a
// fresh computation, then rewrites it. The cache is opportunistic: drift is
// logged, and the recomputed aggregate always wins.
func (t *Tracker) reconcileAggregateCache(ctx context.Context) {
	fresh := t.State().Stats

	cached, ok, err := t.store.FetchAggregate(ctx)
	if err != nil {
		log.Printf("Failed to fetch aggregate cache: %v", err)
	} else if ok && !maps.Equal(cached, fresh) {
		log.Println("Stored aggregate cache is stale, rewriting from game log")
	}

	if err := t.store.StoreAggregate(ctx, fresh); err != nil {
		log.Printf("Failed to write aggregate cache: %v", err)
	}
}

func (t *Tracker) writeAggregateCache(ctx context.Context) {
	if err := t.store.StoreAggregate(ctx, t.State().Stats); err != nil {
		log.Printf("Failed to update aggregate cache: %v", err)
	}
}
