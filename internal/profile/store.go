package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const cacheSizeBytes = 10 * 1024 * 1024

// Store caches profiles in process memory only. Unlike sessions and
// selected events there is no redis write-through: a restart simply
// refetches from the core API on the next profile read, so persisting
// would buy nothing.
type Store struct {
	cache *freecache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: freecache.NewCache(cacheSizeBytes),
		ttl:   ttl,
	}
}

func (s *Store) Set(visitorID string, profile Profile) error {
	profileBytes, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.cache.Set([]byte(visitorID), profileBytes, int(s.ttl.Seconds())); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

func (s *Store) Get(visitorID string) (Profile, bool) {
	profileBytes, err := s.cache.Get([]byte(visitorID))
	if err != nil {
		// freecache reports a plain miss as an error too
		return Profile{}, false
	}

	var profile Profile
	if err := json.Unmarshal(profileBytes, &profile); err != nil {
		log.Errorf("profile store, unmarshal cached profile for visitor %s: %s", visitorID, err)
		s.cache.Del([]byte(visitorID))
		return Profile{}, false
	}
	return profile, true
}

// Clear drops the cached profile; implements the sign-out fan-out
// contract of the session service
func (s *Store) Clear(_ context.Context, visitorID string) error {
	s.cache.Del([]byte(visitorID))
	return nil
}
