package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	selectedEventKeyPrefix = "gatherly-web-selected-event||"
	selectionsSetKey       = "gatherly-web-selected-events"
)

// Store holds the currently selected event per visitor, at most one at a
// time. Same shape as the session store: in-memory map for synchronous
// reads, write-through to redis, hydrated at startup. Selection is
// replace-wholesale, so two rapid switches resolve last-write-wins.
type Store struct {
	mu       sync.RWMutex
	selected map[string]Event

	redisClient *redis.Client
	ttl         time.Duration
}

func NewStore(ttl time.Duration, redisClient *redis.Client) *Store {
	return &Store{
		selected:    make(map[string]Event),
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Select replaces the visitor selection. Memory is committed only after
// redis accepted the write, so a failed Select never leaves a selection
// the caller was told did not happen.
func (s *Store) Select(ctx context.Context, visitorID string, event Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal selected event: %w", err)
	}

	selectionKey := selectedEventKeyPrefix + visitorID
	if err := s.redisClient.Set(ctx, selectionKey, eventBytes, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist selected event: %w", err)
	}
	if err := s.redisClient.SAdd(ctx, selectionsSetKey, visitorID).Err(); err != nil {
		return fmt.Errorf("track selected event: %w", err)
	}

	s.mu.Lock()
	s.selected[visitorID] = event
	s.mu.Unlock()

	return nil
}

func (s *Store) Get(visitorID string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.selected[visitorID]
	return event, ok
}

// Clear drops the visitor selection; implements the sign-out fan-out
// contract of the session service
func (s *Store) Clear(ctx context.Context, visitorID string) error {
	s.mu.Lock()
	delete(s.selected, visitorID)
	s.mu.Unlock()

	selectionKey := selectedEventKeyPrefix + visitorID
	if err := s.redisClient.Del(ctx, selectionKey).Err(); err != nil {
		return fmt.Errorf("remove persisted selected event: %w", err)
	}
	if err := s.redisClient.SRem(ctx, selectionsSetKey, visitorID).Err(); err != nil {
		return fmt.Errorf("untrack selected event: %w", err)
	}

	return nil
}

// Hydrate loads all persisted selections from redis into memory
func (s *Store) Hydrate(ctx context.Context) error {
	visitorIDs, err := s.redisClient.SMembers(ctx, selectionsSetKey).Result()
	if err != nil {
		return fmt.Errorf("list persisted selections: %w", err)
	}

	var hydrated int
	for _, visitorID := range visitorIDs {
		selectionKey := selectedEventKeyPrefix + visitorID
		eventBytes, err := s.redisClient.Get(ctx, selectionKey).Bytes()
		if err != nil {
			if err := s.redisClient.SRem(ctx, selectionsSetKey, visitorID).Err(); err != nil {
				log.Errorf("selected event hydrate, untrack dangling visitor %s: %s", visitorID, err)
			}
			continue
		}

		var event Event
		if err := json.Unmarshal(eventBytes, &event); err != nil {
			log.Errorf("selected event hydrate, unmarshal event for visitor %s: %s", visitorID, err)
			continue
		}

		s.mu.Lock()
		s.selected[visitorID] = event
		s.mu.Unlock()
		hydrated++
	}

	log.Debugf("selected event store: hydrated %d of %d persisted selections", hydrated, len(visitorIDs))
	return nil
}
