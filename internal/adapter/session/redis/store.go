// Package redis provides a Redis-backed session store. Expiry uses native
// key TTLs, so no janitor loop is needed.
package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

const keyPrefix = "session:"

// Store implements domain.SessionStore on top of a Redis client.
type Store struct {
	rdb *goredis.Client
	ttl time.Duration
}

// New constructs a Store. ttl of 0 stores sessions without expiry.
func New(rdb *goredis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Put stores s as JSON under its id, replacing any previous entry.
func (st *Store) Put(ctx domain.Context, s domain.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := st.rdb.Set(ctx, keyPrefix+s.ID, b, st.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session for id or domain.ErrNotFound.
func (st *Store) Get(ctx domain.Context, id string) (domain.Session, error) {
	b, err := st.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Session{}, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Ping reports whether the backing Redis is reachable.
func (st *Store) Ping(ctx domain.Context) error {
	return st.rdb.Ping(ctx).Err()
}
