package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultSessionStateTTL = 24 * time.Hour

// SessionStore keeps per-user and per-session state in redis.
// The selected tenant never expires; session state expires after ttl.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionStateTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func selectedTenantKey(userID uuid.UUID) string {
	return "tenant:selected:" + userID.String()
}

func sessionStateKey(sessionID string) string {
	return "session:" + sessionID + ":state"
}

// GetSelectedTenant returns nil when the user never selected a tenant.
func (s *SessionStore) GetSelectedTenant(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, selectedTenantKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		// A corrupt value is treated as no selection.
		return nil, nil
	}
	return &id, nil
}

func (s *SessionStore) SetSelectedTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	return s.rdb.Set(ctx, selectedTenantKey(userID), tenantID.String(), 0).Err()
}

// GetSessionState returns an empty state when nothing is stored for the session.
func (s *SessionStore) GetSessionState(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	raw, err := s.rdb.Get(ctx, sessionStateKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.SessionState{}, nil
		}
		return nil, err
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}

func (s *SessionStore) SetSessionState(ctx context.Context, sessionID string, state *domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	return s.rdb.Set(ctx, sessionStateKey(sessionID), raw, s.ttl).Err()
}
