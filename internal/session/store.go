// Package session persists per-user conversation contexts in Redis with a
// sliding TTL, so an idle user naturally restarts from the beginning.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/saylanihealth/sehat-ai/internal/triage"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

const (
	defaultTTL        = 30 * time.Minute
	defaultHistoryCap = 6
)

// Store reads and writes triage.UserContext values keyed by user ID.
type Store struct {
	redis      *redis.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	ttl        time.Duration
	historyCap int
}

func NewStore(rdb *redis.Client, logger *logging.Logger, ttl time.Duration, historyCap int) *Store {
	if rdb == nil {
		panic("session: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if historyCap <= 0 {
		historyCap = defaultHistoryCap
	}
	return &Store{
		redis:      rdb,
		logger:     logger,
		tracer:     otel.Tracer("sehat.internal.session"),
		ttl:        ttl,
		historyCap: historyCap,
	}
}

// Get loads the user's context. A missing key, a read failure, or a corrupt
// record all degrade to a fresh context in the initial state rather than
// breaking the conversation.
func (s *Store) Get(ctx context.Context, userID string) *triage.UserContext {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := s.redis.Get(ctx, contextKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
			s.logger.Error("session load failed", "error", err, "user_id", userID)
		}
		return triage.NewUserContext(userID)
	}

	var uc triage.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		span.RecordError(err)
		s.logger.Error("session decode failed", "error", err, "user_id", userID)
		return triage.NewUserContext(userID)
	}
	if uc.UserID == "" {
		uc.UserID = userID
	}
	return &uc
}

// Save persists the context and resets its TTL. Chat history is trimmed to
// the newest entries before writing.
func (s *Store) Save(ctx context.Context, uc *triage.UserContext) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	if uc == nil {
		return fmt.Errorf("session: nil context")
	}
	if len(uc.ChatHistory) > s.historyCap {
		uc.ChatHistory = uc.ChatHistory[len(uc.ChatHistory)-s.historyCap:]
	}
	uc.LastUpdated = time.Now().UTC()

	data, err := json.Marshal(uc)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: marshal context: %w", err)
	}
	if err := s.redis.Set(ctx, contextKey(uc.UserID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: persist context: %w", err)
	}
	return nil
}

// Reset drops the stored context so the next message starts over.
func (s *Store) Reset(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "session.reset")
	defer span.End()

	if err := s.redis.Del(ctx, contextKey(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: reset context: %w", err)
	}
	return nil
}

func contextKey(userID string) string {
	return fmt.Sprintf("context:%s", userID)
}
