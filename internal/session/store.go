package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gatherly-app/gatherly-web/internal/middleware"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gatherly-web-session||"
	visitorsSetKey   = "gatherly-web-sessions"
)

// Store is the single source of truth for "is this visitor authenticated,
// and with what credential". Sessions live in memory for synchronous reads
// and are written through to redis on every mutation; Hydrate rebuilds the
// in-memory state from redis at startup, so a restart keeps visitors
// logged in.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session

	redisClient *redis.Client
	ttl         time.Duration
}

func NewStore(ttl time.Duration, redisClient *redis.Client) *Store {
	return &Store{
		sessions:    make(map[string]Session),
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Set replaces the visitor session unconditionally and persists it.
// Memory is committed only after redis accepted the write, so a failed
// Set never leaves the visitor authenticated behind the caller's back.
func (s *Store) Set(ctx context.Context, visitorID string, session Session) error {
	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	sessionKey := sessionKeyPrefix + visitorID
	if err := s.redisClient.Set(ctx, sessionKey, sessionBytes, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.redisClient.SAdd(ctx, visitorsSetKey, visitorID).Err(); err != nil {
		return fmt.Errorf("track session: %w", err)
	}

	s.mu.Lock()
	s.sessions[visitorID] = session
	s.mu.Unlock()

	return nil
}

// Clear drops the visitor session. No network call towards the core API.
func (s *Store) Clear(ctx context.Context, visitorID string) error {
	s.mu.Lock()
	delete(s.sessions, visitorID)
	s.mu.Unlock()

	sessionKey := sessionKeyPrefix + visitorID
	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("remove persisted session: %w", err)
	}
	if err := s.redisClient.SRem(ctx, visitorsSetKey, visitorID).Err(); err != nil {
		return fmt.Errorf("untrack session: %w", err)
	}

	return nil
}

func (s *Store) Get(visitorID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[visitorID]
	return session, ok
}

// IsAuthenticated is a pure predicate: true iff a session is currently
// held for the visitor, regardless of token validity or expiry
func (s *Store) IsAuthenticated(visitorID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[visitorID]
	return ok
}

// AccessToken implements corehub.TokenSource: it resolves the visitor
// behind the request context to the bearer token of their session. Called
// per outgoing request, so sessions established after startup are seen.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	visitorID, ok := middleware.VisitorIDFromContext(ctx)
	if !ok {
		return "", false
	}
	session, ok := s.Get(visitorID)
	if !ok || session.AccessToken == "" {
		return "", false
	}
	return session.AccessToken, true
}

// Hydrate loads all persisted sessions from redis into memory
func (s *Store) Hydrate(ctx context.Context) error {
	visitorIDs, err := s.redisClient.SMembers(ctx, visitorsSetKey).Result()
	if err != nil {
		return fmt.Errorf("list persisted sessions: %w", err)
	}

	var hydrated int
	for _, visitorID := range visitorIDs {
		sessionKey := sessionKeyPrefix + visitorID
		sessionBytes, err := s.redisClient.Get(ctx, sessionKey).Bytes()
		if err != nil {
			// expired or dangling set entry, clean it up
			if err := s.redisClient.SRem(ctx, visitorsSetKey, visitorID).Err(); err != nil {
				log.Errorf("session hydrate, untrack dangling visitor %s: %s", visitorID, err)
			}
			continue
		}

		var session Session
		if err := json.Unmarshal(sessionBytes, &session); err != nil {
			log.Errorf("session hydrate, unmarshal session for visitor %s: %s", visitorID, err)
			continue
		}

		s.mu.Lock()
		s.sessions[visitorID] = session
		s.mu.Unlock()
		hydrated++
	}

	log.Debugf("session store: hydrated %d of %d persisted sessions", hydrated, len(visitorIDs))
	return nil
}
