package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"gamechat/internal/middleware"
	"gamechat/internal/models"
	"gamechat/internal/services"
)

const (
	msgInvalidPayload = "invalid JSON payload"
	msgEmptyMessage   = "Message cannot be empty"
	msgGenericFailure = "Error processing your request. Please try again."

	maxBodyBytes = 1 << 20
)

var emptyHistory = json.RawMessage("[]")

type responseGenerator interface {
	Generate(ctx context.Context, message string, history []models.HistoryEntry, opts ...services.Option) (string, error)
}

type ChatHandler struct {
	generator responseGenerator
	logger    *slog.Logger
}

func NewChatHandler(generator responseGenerator, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		generator: generator,
		logger:    logger.With("component", "chat_handler"),
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while processing /api/chat",
				"request_id", requestID,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			writeJSON(w, http.StatusInternalServerError, models.NewChatFailure(msgGenericFailure))
		}
	}()

	req, err := decodeChatRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("invalid or missing JSON payload", "request_id", requestID, "error", err)
		writeJSON(w, http.StatusBadRequest, models.NewChatFailure(msgInvalidPayload))
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, models.NewChatFailure(msgEmptyMessage))
		return
	}

	reply, err := h.generator.Generate(r.Context(), req.Message, req.Entries())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeChatResponse(w, http.StatusOK, models.NewChatSuccess(reply, req.History))
}

func (h *ChatHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, services.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, models.NewChatFailure(msgInvalidPayload))
		return
	case errors.Is(err, services.ErrMissingCredential):
		h.logger.Error("server misconfigured: no Gemini API key", "request_id", requestID, "error", err)
	case errors.Is(err, services.ErrGenerationFailure):
		h.logger.Error("error processing /api/chat", "request_id", requestID, "error", err)
	default:
		h.logger.Error("unexpected error processing /api/chat",
			"request_id", requestID,
			"error", err,
			"stack", string(debug.Stack()),
		)
	}
	writeJSON(w, http.StatusInternalServerError, models.NewChatFailure(msgGenericFailure))
}

// decodeChatRequest reads the body as a JSON object and extracts message and
// history. The message is coerced to a string and trimmed; a falsy history
// becomes an empty array.
func decodeChatRequest(body io.Reader) (*models.ChatRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, services.ErrInvalidPayload.With(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, services.ErrInvalidPayload.With("empty body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, services.ErrInvalidPayload.With(err)
	}
	if fields == nil {
		return nil, services.ErrInvalidPayload.With("body is null")
	}

	return &models.ChatRequest{
		Message: strings.TrimSpace(coerceString(fields["message"])),
		History: normalizeHistory(fields["history"]),
	}, nil
}

func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}

	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

func normalizeHistory(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", `""`, "[]", "{}":
		return emptyHistory
	}

	if c := trimmed[0]; c == '-' || (c >= '0' && c <= '9') {
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == 0 {
			return emptyHistory
		}
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err == nil && len(arr) == 0 {
		return emptyHistory
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj != nil && len(obj) == 0 {
		return emptyHistory
	}

	return raw
}
