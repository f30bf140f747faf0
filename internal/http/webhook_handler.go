package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/service"
)

// WebhookHandler routes voice-platform webhook envelopes. Every request is
// answered 2xx with a JSON body; a reply the platform cannot parse would
// surface as a dead call, so malformed input degrades to an empty object.
type WebhookHandler struct {
	assistant *service.AssistantService
	tools     *service.ToolDispatcher
	usage     *service.UsageReporter
	logger    *zap.Logger

	handlers map[string]func(http.ResponseWriter, *http.Request, *service.WebhookMessage)
}

func NewWebhookHandler(assistant *service.AssistantService, tools *service.ToolDispatcher, usage *service.UsageReporter, logger *zap.Logger) *WebhookHandler {
	h := &WebhookHandler{
		assistant: assistant,
		tools:     tools,
		usage:     usage,
		logger:    logger,
	}
	h.handlers = map[string]func(http.ResponseWriter, *http.Request, *service.WebhookMessage){
		"assistant-request":  h.handleAssistantRequest,
		"tool-calls":         h.handleToolCalls,
		"end-of-call-report": h.handleEndOfCallReport,
	}
	return h
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("webhook body read failed", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}

	var envelope service.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == nil {
		h.logger.Debug("webhook payload not understood", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}

	msg := envelope.Message
	handler, ok := h.handlers[msg.Type]
	if !ok {
		h.logger.Debug("webhook message type ignored", zap.String("type", msg.Type))
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	handler(w, r, msg)
}

func (h *WebhookHandler) handleAssistantRequest(w http.ResponseWriter, r *http.Request, msg *service.WebhookMessage) {
	reply, err := h.assistant.HandleAssistantRequest(r.Context(), msg)
	if err != nil {
		h.logger.Warn("assistant request unresolved", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *WebhookHandler) handleToolCalls(w http.ResponseWriter, r *http.Request, msg *service.WebhookMessage) {
	writeJSON(w, http.StatusOK, h.tools.HandleToolCalls(r.Context(), msg))
}

func (h *WebhookHandler) handleEndOfCallReport(w http.ResponseWriter, r *http.Request, msg *service.WebhookMessage) {
	h.usage.HandleEndOfCallReport(r.Context(), msg)
	writeJSON(w, http.StatusOK, map[string]any{})
}
