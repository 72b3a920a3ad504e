// Package handler receives Support Board webhook events and drives the
// conversational agent.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"namfulgor_backend/internal/chat/service"
	"namfulgor_backend/internal/chat/supportboard"
	"namfulgor_backend/internal/chat/transport"
	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/httpkit"
	"namfulgor_backend/platform/logger"
)

const eventMessageSent = "message-sent"

// Handler is the webhook endpoint for inbound chat events.
type Handler struct {
	agent      *service.Agent
	pauser     service.Pauser
	board      *supportboard.Client
	secret     string
	botUserID  string
	llmTimeout time.Duration
	log        *logger.Logger
}

// New creates a chat webhook handler.
func New(
	agent *service.Agent,
	pauser service.Pauser,
	board *supportboard.Client,
	sbCfg config.SupportBoardConfig,
	aiCfg config.AIConfig,
	log *logger.Logger,
) *Handler {
	return &Handler{
		agent:      agent,
		pauser:     pauser,
		board:      board,
		secret:     sbCfg.GetSupportBoardWebhookSecret(),
		botUserID:  sbCfg.GetSupportBoardBotUserID(),
		llmTimeout: aiCfg.GetLLMRequestTimeout(),
		log:        log,
	}
}

// Webhook handles POST /api/v1/chat/webhook.
//
// The endpoint always acknowledges events it chooses to ignore with 200,
// otherwise Support Board keeps retrying them.
func (h *Handler) Webhook(c *gin.Context) {
	var payload transport.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid webhook payload", nil)
		return
	}

	if h.secret != "" && payload.Key != h.secret {
		httpkit.Error(c, http.StatusUnauthorized, "invalid webhook key", nil)
		return
	}

	conversationID := payload.Data.ConversationID.String()

	if payload.Function != eventMessageSent {
		h.log.WebhookEvent(payload.Function, conversationID, false, "not a message event")
		httpkit.OK(c, transport.WebhookAck{Status: "ignored"})
		return
	}

	message := strings.TrimSpace(payload.Data.Message)
	if conversationID == "" || message == "" {
		h.log.WebhookEvent(payload.Function, conversationID, false, "empty message")
		httpkit.OK(c, transport.WebhookAck{Status: "ignored"})
		return
	}

	// The bot's own messages come back through the same webhook.
	if h.botUserID != "" && payload.Data.UserID.String() == h.botUserID {
		h.log.WebhookEvent(payload.Function, conversationID, false, "bot echo")
		httpkit.OK(c, transport.WebhookAck{Status: "ignored"})
		return
	}

	ctx := logger.ContextWithConversationID(c.Request.Context(), conversationID)

	if paused, _ := h.pauser.IsPaused(ctx, conversationID); paused {
		h.log.WebhookEvent(payload.Function, conversationID, false, "conversation paused")
		httpkit.OK(c, transport.WebhookAck{Status: "paused"})
		return
	}

	h.log.WithContext(ctx).WebhookEvent(payload.Function, conversationID, true, "")

	conv := service.Conversation{
		ID:            conversationID,
		CustomerName:  payload.Data.UserName,
		CustomerPhone: payload.Data.UserPhone,
	}

	reply := h.reply(ctx, conv, message)
	if err := h.board.SendMessage(ctx, conversationID, reply); err != nil {
		h.log.WithContext(ctx).Error("failed to deliver reply", "error", err)
		httpkit.Error(c, http.StatusBadGateway, "reply delivery failed", nil)
		return
	}

	httpkit.OK(c, transport.WebhookAck{Status: "replied"})
}

// reply runs the agent under the LLM timeout and degrades to the canned
// fallback on any failure.
func (h *Handler) reply(ctx context.Context, conv service.Conversation, message string) string {
	if h.agent == nil {
		return service.FallbackReply
	}

	if h.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.llmTimeout)
		defer cancel()
	}

	reply, err := h.agent.Reply(ctx, conv, message)
	if err != nil {
		h.log.WithContext(ctx).Error("agent failed, sending fallback", "error", err)
		return service.FallbackReply
	}
	return reply
}
