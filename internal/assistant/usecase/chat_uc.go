package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrAssistantBusy is returned when a session already has an assistant
	// call in flight. One outstanding call per session; the client should
	// wait for the previous reply before sending again.
	ErrAssistantBusy = errors.New("assistant is still answering the previous message")
)

// GreetingText opens every new chat session.
const GreetingText = "Hi there! 👋 I'm your AI rental assistant.\n\nTell me what you're looking for (e.g., location, budget, type) and I'll find the best matches for you."

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one transcript entry. Assistant replies that recommend
// listings carry the full property records in Properties.
type ChatMessage struct {
	ID         string
	Role       string
	Text       string
	Properties []*domain.Property
}

// PropertyLister provides the candidate listings snapshot for a search turn.
type PropertyLister interface {
	GetAllProperties(ctx context.Context) []*domain.Property
}

// Assistant resolves a free-text query against candidate listings. It never
// fails; on trouble it answers with fallback text and no IDs.
type Assistant interface {
	Search(ctx context.Context, prompt string, candidates []*domain.Property) (string, []string)
}

type chatSession struct {
	mu       sync.Mutex
	busy     bool
	messages []ChatMessage
}

// ChatUsecase holds ephemeral chat sessions. Transcripts live in process
// memory only and vanish when the session ends or the service restarts.
type ChatUsecase struct {
	mu        sync.RWMutex
	sessions  map[string]*chatSession
	lister    PropertyLister
	assistant Assistant
	logger    *logger.Logger
}

func NewChatUsecase(lister PropertyLister, assistant Assistant, log *logger.Logger) *ChatUsecase {
	return &ChatUsecase{
		sessions:  make(map[string]*chatSession),
		lister:    lister,
		assistant: assistant,
		logger:    log.Named("ChatUsecase"),
	}
}

// StartSession opens a new session seeded with the assistant greeting and
// returns its ID together with the initial transcript.
func (uc *ChatUsecase) StartSession(ctx context.Context) (string, []ChatMessage) {
	sessionID := uuid.NewString()
	greeting := ChatMessage{
		ID:   uuid.NewString(),
		Role: RoleModel,
		Text: GreetingText,
	}

	uc.mu.Lock()
	uc.sessions[sessionID] = &chatSession{messages: []ChatMessage{greeting}}
	uc.mu.Unlock()

	uc.logger.Info("chat session started", zap.String("session_id", sessionID))
	return sessionID, []ChatMessage{greeting}
}

// Send appends the user's message, resolves it against the current listings
// snapshot and appends the assistant reply. Both new messages are returned.
// A session with a call already in flight rejects with ErrAssistantBusy.
func (uc *ChatUsecase) Send(ctx context.Context, sessionID, text string) ([]ChatMessage, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	session.mu.Lock()
	if session.busy {
		session.mu.Unlock()
		return nil, ErrAssistantBusy
	}
	session.busy = true
	userMsg := ChatMessage{ID: uuid.NewString(), Role: RoleUser, Text: text}
	session.messages = append(session.messages, userMsg)
	session.mu.Unlock()

	candidates := uc.lister.GetAllProperties(ctx)
	replyText, matchedIDs := uc.assistant.Search(ctx, text, candidates)

	// Keep only IDs that refer to listings the assistant actually saw;
	// anything else is a hallucinated reference.
	byID := make(map[string]*domain.Property, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}
	matched := make([]*domain.Property, 0, len(matchedIDs))
	for _, id := range matchedIDs {
		if p, ok := byID[id]; ok {
			matched = append(matched, p)
		}
	}

	modelMsg := ChatMessage{
		ID:         uuid.NewString(),
		Role:       RoleModel,
		Text:       replyText,
		Properties: matched,
	}

	session.mu.Lock()
	session.messages = append(session.messages, modelMsg)
	session.busy = false
	session.mu.Unlock()

	return []ChatMessage{userMsg, modelMsg}, nil
}

// Transcript returns a copy of the session's messages in order.
func (uc *ChatUsecase) Transcript(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	out := make([]ChatMessage, len(session.messages))
	copy(out, session.messages)
	return out, nil
}

// EndSession discards the session and its transcript.
func (uc *ChatUsecase) EndSession(ctx context.Context, sessionID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(uc.sessions, sessionID)
	uc.logger.Info("chat session ended", zap.String("session_id", sessionID))
	return nil
}
