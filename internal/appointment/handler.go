package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// SessionHeader carries the session id for callers that do not send it in
// the body. It is echoed on every response.
const SessionHeader = "X-Session-Id"

// DefaultSessionID is used for callers that send no session id at all, such
// as the embeddable widget. They share one conversation.
const DefaultSessionID = "default"

const maxBodyBytes = 1 << 20

// TurnProcessor is the part of Service the handler needs.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
	Snapshot(ctx context.Context, sessionID string) (*TurnResult, error)
}

// Handler exposes the chat endpoint used by the web widget.
type Handler struct {
	service TurnProcessor
	logger  *logging.Logger
}

func NewHandler(service TurnProcessor, logger *logging.Logger) *Handler {
	if service == nil {
		panic("appointment: turn processor cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// ChatRequest is the JSON form of a chat call. Form posts use the same
// field names.
type ChatRequest struct {
	Input     string   `json:"input"`
	NewChat   flexBool `json:"newchat"`
	NewChatV2 flexBool `json:"new_chat"`
	SessionID string   `json:"session_id"`
}

// ChatResponse mirrors what the widget reads.
type ChatResponse struct {
	Response  string        `json:"response"`
	Context   []llm.Message `json:"context"`
	Data      Fields        `json:"data"`
	SessionID string        `json:"session_id"`
}

// HandleChat processes POST /chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(w, r)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.Header.Get(SessionHeader))
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	w.Header().Set(SessionHeader, sessionID)

	result, err := h.service.ProcessTurn(r.Context(), TurnRequest{
		SessionID: sessionID,
		Input:     req.Input,
		Reset:     bool(req.NewChat) || bool(req.NewChatV2),
	})
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			http.Error(w, "input is required", http.StatusBadRequest)
			return
		}
		h.logger.ForContext(logging.WithSessionID(r.Context(), sessionID)).Error("chat turn failed", "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toChatResponse(result))
}

// HandleSession processes GET /chat/{sessionID}.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}
	result, err := h.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.logger.ForContext(logging.WithSessionID(r.Context(), sessionID)).Error("session snapshot failed", "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	w.Header().Set(SessionHeader, sessionID)
	writeJSON(w, http.StatusOK, toChatResponse(result))
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var req ChatRequest
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return req, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return req, err
		}
	}
	req.Input = r.FormValue("input")
	req.SessionID = r.FormValue("session_id")
	req.NewChat = flexBool(parseFlag(r.FormValue("newchat")))
	req.NewChatV2 = flexBool(parseFlag(r.FormValue("new_chat")))
	return req, nil
}

func toChatResponse(result *TurnResult) ChatResponse {
	data := result.Fields
	if data == nil {
		data = Fields{}
	}
	return ChatResponse{
		Response:  result.Reply,
		Context:   result.Messages,
		Data:      data,
		SessionID: result.SessionID,
	}
}

// flexBool accepts true/false as well as the widget's "yes"/"no" strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(parseFlag(t))
	case nil:
		*b = false
	default:
		return errors.New("appointment: newchat must be a bool or string")
	}
	return nil
}

func parseFlag(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "yes" {
		return true
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
