package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/saylanihealth/sehat-ai/internal/geo"
	"github.com/saylanihealth/sehat-ai/internal/triage"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, logging.Default(), 30*time.Minute, 6), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	uc := triage.NewUserContext("923001234567")
	uc.ConversationState = triage.StateGatheringSymptoms
	uc.SymptomData = &triage.SymptomData{ChiefComplaint: "fever", Duration: "2 days"}
	uc.UserLocation = &geo.Point{Lat: 24.8607, Lng: 67.0011}

	if err := store.Save(ctx, uc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := store.Get(ctx, "923001234567")
	if got.ConversationState != triage.StateGatheringSymptoms {
		t.Errorf("state = %q", got.ConversationState)
	}
	if got.SymptomData == nil || got.SymptomData.ChiefComplaint != "fever" {
		t.Errorf("symptom data = %+v", got.SymptomData)
	}
	if got.UserLocation == nil || got.UserLocation.Lat != 24.8607 {
		t.Errorf("location = %+v", got.UserLocation)
	}
}

func TestStoreGetMissingReturnsFreshContext(t *testing.T) {
	store, _ := newTestStore(t)

	got := store.Get(context.Background(), "unknown-user")
	if got.UserID != "unknown-user" {
		t.Errorf("user id = %q", got.UserID)
	}
	if got.ConversationState != triage.StateInitialComplaint {
		t.Errorf("state = %q, want initial", got.ConversationState)
	}
}

func TestStoreGetCorruptRecordDegrades(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("context:u1", "{not json")

	got := store.Get(context.Background(), "u1")
	if got.ConversationState != triage.StateInitialComplaint {
		t.Errorf("corrupt record should reset to initial, got %q", got.ConversationState)
	}
}

func TestStoreSaveTrimsHistory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	uc := triage.NewUserContext("u2")
	for i := 0; i < 10; i++ {
		uc.AppendChat("user", "message")
	}
	if err := store.Save(ctx, uc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := store.Get(ctx, "u2")
	if len(got.ChatHistory) != 6 {
		t.Errorf("history length = %d, want 6", len(got.ChatHistory))
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	uc := triage.NewUserContext("u3")
	uc.ConversationState = triage.StateDoctorRecommendation
	if err := store.Save(ctx, uc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.FastForward(31 * time.Minute)

	got := store.Get(ctx, "u3")
	if got.ConversationState != triage.StateInitialComplaint {
		t.Errorf("expired context should reset, got %q", got.ConversationState)
	}
}

func TestStoreReset(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	uc := triage.NewUserContext("u4")
	uc.ConversationState = triage.StateRiskAssessment
	if err := store.Save(ctx, uc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Reset(ctx, "u4"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got := store.Get(ctx, "u4")
	if got.ConversationState != triage.StateInitialComplaint {
		t.Errorf("state after reset = %q", got.ConversationState)
	}
}
