package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"namfulgor_backend/internal/chat/supportboard"
	"namfulgor_backend/platform/logger"
)

type testConfig struct{}

func (testConfig) GetSupportBoardURL() string           { return "" }
func (testConfig) GetSupportBoardToken() string         { return "" }
func (testConfig) GetSupportBoardWebhookSecret() string { return "hook-secret" }
func (testConfig) GetSupportBoardBotUserID() string     { return "99" }
func (testConfig) GetGeminiAPIKey() string              { return "" }
func (testConfig) GetGeminiChatModel() string           { return "" }
func (testConfig) GetGeminiParseModel() string          { return "" }
func (testConfig) GetLLMRequestTimeout() time.Duration  { return time.Second }
func (testConfig) IsAIEnabled() bool                    { return false }

type fakePauser struct {
	paused map[string]bool
}

func (f *fakePauser) Pause(ctx context.Context, id string) error {
	if f.paused == nil {
		f.paused = make(map[string]bool)
	}
	f.paused[id] = true
	return nil
}

func (f *fakePauser) IsPaused(ctx context.Context, id string) (bool, error) {
	return f.paused[id], nil
}

func newTestRouter(pauser *fakePauser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")
	cfg := testConfig{}
	board := supportboard.New(cfg, log)

	// Nil agent: every accepted message gets the fallback reply, which is
	// enough to exercise the webhook filtering.
	h := New(nil, pauser, board, cfg, cfg, log)

	engine := gin.New()
	engine.POST("/webhook", h.Webhook)
	return engine
}

func post(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRejectsBadKey(t *testing.T) {
	engine := newTestRouter(&fakePauser{})

	rec := post(t, engine, `{"function":"message-sent","key":"wrong","data":{"conversation_id":1,"user_id":2,"message":"hola"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookIgnoresNonMessageEvents(t *testing.T) {
	engine := newTestRouter(&fakePauser{})

	rec := post(t, engine, `{"function":"conversation-status-updated","key":"hook-secret","data":{"conversation_id":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ignored") {
		t.Fatalf("body = %s, want ignored ack", rec.Body.String())
	}
}

func TestWebhookIgnoresBotEcho(t *testing.T) {
	engine := newTestRouter(&fakePauser{})

	rec := post(t, engine, `{"function":"message-sent","key":"hook-secret","data":{"conversation_id":1,"user_id":"99","message":"hola"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ignored") {
		t.Fatalf("body = %s, want ignored ack", rec.Body.String())
	}
}

func TestWebhookRespectsPause(t *testing.T) {
	pauser := &fakePauser{paused: map[string]bool{"1": true}}
	engine := newTestRouter(pauser)

	rec := post(t, engine, `{"function":"message-sent","key":"hook-secret","data":{"conversation_id":1,"user_id":2,"message":"hola"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "paused") {
		t.Fatalf("body = %s, want paused ack", rec.Body.String())
	}
}

func TestWebhookRepliesWithFallbackWhenAgentDisabled(t *testing.T) {
	engine := newTestRouter(&fakePauser{})

	rec := post(t, engine, `{"function":"message-sent","key":"hook-secret","data":{"conversation_id":1,"user_id":2,"message":"hola"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "replied") {
		t.Fatalf("body = %s, want replied ack", rec.Body.String())
	}
}

func TestWebhookToleratesNumericAndStringIDs(t *testing.T) {
	engine := newTestRouter(&fakePauser{})

	bodies := []string{
		`{"function":"message-sent","key":"hook-secret","data":{"conversation_id":"12","user_id":2,"message":"hola"}}`,
		`{"function":"message-sent","key":"hook-secret","data":{"conversation_id":12,"user_id":"2","message":"hola"}}`,
	}
	for _, body := range bodies {
		if rec := post(t, engine, body); rec.Code != http.StatusOK {
			t.Fatalf("status = %d for body %s", rec.Code, body)
		}
	}
}
