// Package store keeps the wizard's short-lived state in Redis: booking
// draft sessions and per-user carts. Both are stored as JSON blobs with a
// TTL, the same way the rest of the service keeps transient state (rate
// limit buckets, response cache) in Redis rather than the primary database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/labcare/booking-gateway/internal/booking"
	"github.com/labcare/booking-gateway/internal/model"
)

// ErrSessionNotFound is returned when a draft session does not exist or has
// expired. Handlers translate this into a 404.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// DraftSession is one in-progress run of the booking wizard. It couples the
// draft aggregate with the authoritative current step and the owning user.
// The session lives in Redis for the duration of the wizard and is deleted
// on confirmation or explicit cancellation.
type DraftSession struct {
	SessionID string             `json:"sessionId"`
	UserID    uint64             `json:"userId"`
	Step      booking.Step       `json:"step"`
	Draft     model.BookingDraft `json:"draft"`
	CreatedAt time.Time          `json:"createdAt"`
}

// DraftStore persists draft sessions. It is an interface so handler tests
// can substitute an in-memory implementation.
type DraftStore interface {
	// Create starts a new session for the user with an empty draft at the
	// details step and returns it.
	Create(ctx context.Context, userID uint64) (*DraftSession, error)
	// Get loads a session by ID, returning ErrSessionNotFound when absent.
	Get(ctx context.Context, sessionID string) (*DraftSession, error)
	// Save writes the session back, refreshing its TTL.
	Save(ctx context.Context, s *DraftSession) error
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error
	// TryLockSubmit acquires the session's submission lock. It returns false
	// when a submission is already in flight, guarding against duplicate
	// taps issuing concurrent requests.
	TryLockSubmit(ctx context.Context, sessionID string) (bool, error)
	// UnlockSubmit releases the submission lock after a failed attempt so
	// the user can retry.
	UnlockSubmit(ctx context.Context, sessionID string) error
}

// RedisDraftStore is the production DraftStore. Sessions are stored under
// "draft:<sessionID>" and the submission lock under "draft:<sessionID>:lock".
type RedisDraftStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisDraftStore returns a store bound to the given client. ttl bounds
// how long an abandoned wizard survives; lockTTL bounds how long a crashed
// submission can keep the session locked.
func NewRedisDraftStore(rdb *redis.Client, ttl, lockTTL time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &RedisDraftStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

func draftKey(sessionID string) string { return "draft:" + sessionID }
func lockKey(sessionID string) string  { return "draft:" + sessionID + ":lock" }

// Create starts a fresh session with a UUID identifier. The same identifier
// doubles as the submission idempotency key later on.
func (s *RedisDraftStore) Create(ctx context.Context, userID uint64) (*DraftSession, error) {
	sess := &DraftSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Step:      booking.StepDetails,
		Draft:     model.NewBookingDraft(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads and decodes a session.
func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (*DraftSession, error) {
	data, err := s.rdb.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load booking session: %w", err)
	}
	var sess DraftSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode booking session: %w", err)
	}
	return &sess, nil
}

// Save encodes and writes the session, resetting the TTL so an active
// wizard does not expire under the user.
func (s *RedisDraftStore) Save(ctx context.Context, sess *DraftSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode booking session: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(sess.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store booking session: %w", err)
	}
	return nil
}

// Delete removes the session and its lock.
func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, draftKey(sessionID), lockKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete booking session: %w", err)
	}
	return nil
}

// TryLockSubmit uses SETNX so only one confirm request per session can be
// in flight at a time.
func (s *RedisDraftStore) TryLockSubmit(ctx context.Context, sessionID string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, lockKey(sessionID), "1", s.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission lock: %w", err)
	}
	return ok, nil
}

// UnlockSubmit drops the lock so a failed submission can be retried.
func (s *RedisDraftStore) UnlockSubmit(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, lockKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("release submission lock: %w", err)
	}
	return nil
}
