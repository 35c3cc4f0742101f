package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/saylanihealth/sehat-ai/internal/channels/whatsapp"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

func TestHealthEndpoint(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := New(&Config{Logger: logging.Default(), Redis: rdb})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status["service"] != "ok" || status["redis"] != "ok" {
		t.Errorf("status = %v", status)
	}
}

func TestHealthReportsDegradedRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	h := New(&Config{Redis: rdb})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, health must stay 200 when a dependency degrades", rec.Code)
	}
	var status map[string]string
	json.Unmarshal(rec.Body.Bytes(), &status)
	if status["redis"] != "unavailable" {
		t.Errorf("status = %v", status)
	}
}

func TestWebhookRoutesMounted(t *testing.T) {
	wh := whatsapp.NewWebhookHandler("verify-me", "", nil)
	h := New(&Config{Webhook: wh})

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=ch", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ch" {
		t.Fatalf("verification: code=%d body=%q", rec.Code, rec.Body.String())
	}
}
