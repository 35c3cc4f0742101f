// Package prefs stores per-user language and interaction-mode preferences
// and renders the onboarding and settings menus.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/saylanihealth/sehat-ai/internal/language"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

// InteractionMode is how the user wants replies delivered.
type InteractionMode string

const (
	ModeNotSet InteractionMode = "not_set"
	ModeVoice  InteractionMode = "voice"
	ModeText   InteractionMode = "text"
)

// Preferences is the persisted per-user record. Unlike conversation state it
// has no TTL: language choice survives idle periods.
type Preferences struct {
	UserID      string            `json:"user_id"`
	Language    language.Language `json:"language"`
	Mode        InteractionMode   `json:"interaction_mode"`
	LastUpdated time.Time         `json:"last_updated"`
}

// NeedsOnboarding reports whether the user has never completed setup.
func (p Preferences) NeedsOnboarding() bool {
	return p.Mode == ModeNotSet || p.Mode == ""
}

func defaultPreferences(userID string) Preferences {
	return Preferences{UserID: userID, Language: language.Auto, Mode: ModeNotSet}
}

// Store reads and writes Preferences in Redis.
type Store struct {
	redis  *redis.Client
	logger *logging.Logger
	tracer trace.Tracer
}

func NewStore(rdb *redis.Client, logger *logging.Logger) *Store {
	if rdb == nil {
		panic("prefs: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		redis:  rdb,
		logger: logger,
		tracer: otel.Tracer("sehat.internal.prefs"),
	}
}

// Get returns the stored preferences, or defaults when the user is unknown
// or the read fails.
func (s *Store) Get(ctx context.Context, userID string) Preferences {
	ctx, span := s.tracer.Start(ctx, "prefs.get")
	defer span.End()

	data, err := s.redis.Get(ctx, preferencesKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
			s.logger.Error("preferences load failed", "error", err, "user_id", userID)
		}
		return defaultPreferences(userID)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		span.RecordError(err)
		s.logger.Error("preferences decode failed", "error", err, "user_id", userID)
		return defaultPreferences(userID)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return p
}

// Save persists the preferences without a TTL.
func (s *Store) Save(ctx context.Context, p Preferences) error {
	ctx, span := s.tracer.Start(ctx, "prefs.save")
	defer span.End()

	p.LastUpdated = time.Now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("prefs: marshal preferences: %w", err)
	}
	if err := s.redis.Set(ctx, preferencesKey(p.UserID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("prefs: persist preferences: %w", err)
	}
	return nil
}

// SetLanguage updates only the language choice.
func (s *Store) SetLanguage(ctx context.Context, userID string, lang language.Language) error {
	p := s.Get(ctx, userID)
	p.Language = lang
	return s.Save(ctx, p)
}

// SetMode updates only the interaction mode.
func (s *Store) SetMode(ctx context.Context, userID string, mode InteractionMode) error {
	p := s.Get(ctx, userID)
	p.Mode = mode
	return s.Save(ctx, p)
}

func preferencesKey(userID string) string {
	return fmt.Sprintf("preferences:%s", userID)
}

// SpeechConfig carries the speech codes for one language choice.
type SpeechConfig struct {
	STTCode  string
	TTSCode  string
	TTSVoice string
}

// SpeechConfigFor maps the language preference onto speech codes. Auto leans
// Urdu, matching the primary user base.
func SpeechConfigFor(lang language.Language) SpeechConfig {
	if lang == language.English {
		return SpeechConfig{STTCode: "en-US", TTSCode: "en-US", TTSVoice: "en-US-Neural2-A"}
	}
	return SpeechConfig{STTCode: "ur-PK", TTSCode: "ur-PK", TTSVoice: "ur-PK-Standard-A"}
}
