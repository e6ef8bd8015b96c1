package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jayeshfarkunde27/To-let/internal/adapter/ai"
	"github.com/Jayeshfarkunde27/To-let/internal/assistant/usecase"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/metrics"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Describer writes a listing description from structured facts.
type Describer interface {
	GenerateDescription(ctx context.Context, details ai.DescriptionDetails) string
}

type ChatHandler struct {
	chatUC    *usecase.ChatUsecase
	describer Describer
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewChatHandler(chatUC *usecase.ChatUsecase, describer Describer, mm *metrics.MetricsManager, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatUC:    chatUC,
		describer: describer,
		metrics:   mm,
		logger:    log.Named("ChatHandler"),
	}
}

type chatMessageResponse struct {
	ID         string             `json:"id"`
	Role       string             `json:"role"`
	Text       string             `json:"text"`
	Properties []propertyResponse `json:"properties,omitempty"`
}

func toChatMessageResponse(msg usecase.ChatMessage) chatMessageResponse {
	out := chatMessageResponse{ID: msg.ID, Role: msg.Role, Text: msg.Text}
	if len(msg.Properties) > 0 {
		out.Properties = toPropertyResponses(msg.Properties)
	}
	return out
}

func toChatMessageResponses(msgs []usecase.ChatMessage) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, toChatMessageResponse(msg))
	}
	return out
}

func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, messages := h.chatUC.StartSession(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId": sessionID,
		"messages":  toChatMessageResponses(messages),
	})
}

func (h *ChatHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	messages, err := h.chatUC.Transcript(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Chat session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId": sessionID,
		"messages":  toChatMessageResponses(messages),
	})
}

// SendMessage resolves a user message against the listings and returns the
// user message together with the assistant reply. While a reply is still in
// flight the session rejects further sends with 429.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	messages, err := h.chatUC.Send(r.Context(), sessionID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionNotFound):
			http.Error(w, "Chat session not found", http.StatusNotFound)
		case errors.Is(err, usecase.ErrAssistantBusy):
			http.Error(w, "Assistant is still answering the previous message", http.StatusTooManyRequests)
		default:
			h.logger.Error("Failed to process chat message", zap.String("session_id", sessionID), zap.Error(err))
			http.Error(w, "Failed to process message", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.AISearchesTotal.Inc()
	for _, msg := range messages {
		if msg.Role == usecase.RoleModel && msg.Text == ai.SearchFallbackText {
			h.metrics.AISearchFallbacksTotal.Inc()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"messages": toChatMessageResponses(messages),
	})
}

func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	if err := h.chatUC.EndSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Chat session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Describe generates a listing description for the owner's draft. Generation
// never fails; on trouble the generic fallback text is returned.
func (h *ChatHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       string   `json:"type"`
		BHK        int      `json:"bhk"`
		Furnishing string   `json:"furnishing"`
		Location   string   `json:"location"`
		Amenities  []string `json:"amenities"`
		Price      float64  `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	description := h.describer.GenerateDescription(r.Context(), ai.DescriptionDetails{
		Type:       domain.PropertyType(req.Type),
		BHK:        req.BHK,
		Furnishing: domain.FurnishingStatus(req.Furnishing),
		Location:   req.Location,
		Amenities:  req.Amenities,
		Price:      req.Price,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"description": description})
}
