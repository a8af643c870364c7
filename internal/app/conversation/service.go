package conversation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/shop-assistant/internal/domain"
	"github.com/PabloGalante/shop-assistant/internal/observability"
)

// User-facing failure texts. Provider and storage details are only logged.
const (
	ErrMsgEmptyMessage   = "Message cannot be empty"
	ErrMsgAIService      = "AI service error"
	ErrMsgNotSaved       = "Conversation could not be saved"
	ErrMsgInternal       = "Internal server error"
	ReplyServiceDown     = "Sorry, I couldn't process that right now."
	ReplyNotSaved        = "Sorry, something went wrong saving our conversation. Please try again."
	ReplyEmptyMessage    = "Please type a message so I can help."
	ReplyNoModelResponse = "(no response)"
)

// Settings bounds every exchange.
type Settings struct {
	Temperature        float32
	MaxOutputTokens    int
	MaxHistoryMessages int
	MaxProductContext  int
	MaxRecommendations int
	LLMTimeout         time.Duration
}

// DefaultSettings mirrors the config defaults.
func DefaultSettings() Settings {
	return Settings{
		Temperature:        0.7,
		MaxOutputTokens:    400,
		MaxHistoryMessages: 10,
		MaxProductContext:  20,
		MaxRecommendations: 3,
		LLMTimeout:         30 * time.Second,
	}
}

type Service struct {
	llm         domain.LLMClient
	history     domain.HistoryStore
	catalog     domain.CatalogProvider
	interpreter *Interpreter
	settings    Settings

	now          func() time.Time
	newSessionID func() string
}

type Option func(*Service)

// WithClock overrides time.Now for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSessionIDGenerator overrides the generator used for blank session ids.
func WithSessionIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newSessionID = gen }
}

func NewService(
	llm domain.LLMClient,
	history domain.HistoryStore,
	catalog domain.CatalogProvider,
	settings Settings,
	opts ...Option,
) *Service {
	s := &Service{
		llm:          llm,
		history:      history,
		catalog:      catalog,
		settings:     settings,
		interpreter:  NewInterpreter(NewSKUMatcher(), catalog, settings.MaxRecommendations),
		now:          time.Now,
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ChatRequest struct {
	Message   string
	SessionID domain.SessionID
	// Context is an optional page hint ("cart", "products") used in reasons.
	Context string
}

type ChatResponse struct {
	Message         string
	SessionID       domain.SessionID
	Recommendations []ProductRecommendation
	Success         bool
	Error           string
}

// Chat runs one exchange. It never fails: every error ends up as a response
// with Success=false, and nothing is persisted for a failed exchange.
//
// Turns of the same session are not serialized. Two concurrent requests on
// one session may each miss the other's turns in their history window; both
// pairs are still stored.
func (s *Service) Chat(ctx context.Context, in ChatRequest) *ChatResponse {
	if strings.TrimSpace(in.Message) == "" {
		return &ChatResponse{
			Message:   ReplyEmptyMessage,
			SessionID: in.SessionID,
			Error:     ErrMsgEmptyMessage,
		}
	}

	sessionID := in.SessionID
	if strings.TrimSpace(string(sessionID)) == "" {
		sessionID = domain.SessionID(s.newSessionID())
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)
	log.Info("chat message received", "context", in.Context)

	history, err := s.historyWindow(ctx, sessionID, s.settings.MaxHistoryMessages)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return failure(sessionID, ReplyServiceDown, ErrMsgInternal)
	}

	products, err := s.catalog.ListActive(ctx, s.settings.MaxProductContext)
	if err != nil {
		log.Error("failed to load catalog snapshot", "error", err)
		return failure(sessionID, ReplyServiceDown, ErrMsgInternal)
	}

	messages := BuildMessages(products, history, in.Message, s.settings.MaxRecommendations)

	completion, err := s.complete(ctx, messages)
	if err != nil {
		log.Error("chat completion failed", "error", err)
		return failure(sessionID, ReplyServiceDown, ErrMsgAIService)
	}

	reply := firstFragment(completion)

	recs, err := s.interpreter.Interpret(ctx, reply, in.Context)
	if err != nil {
		log.Error("failed to map recommendations", "error", err)
		return failure(sessionID, ReplyServiceDown, ErrMsgInternal)
	}

	now := s.now()
	userTurn := &domain.ChatTurn{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   in.Message,
		CreatedAt: now,
	}
	assistantTurn := &domain.ChatTurn{
		SessionID:             sessionID,
		Role:                  domain.RoleAssistant,
		Content:               reply,
		CreatedAt:             now,
		RecommendedProductIDs: productIDs(recs),
	}

	if err := s.history.AppendTurns(ctx, userTurn, assistantTurn); err != nil {
		log.Error("failed to persist chat turns", "error", err)
		return failure(sessionID, ReplyNotSaved, ErrMsgNotSaved)
	}

	observability.LogUsage(log, completion)
	log.Info("chat message completed", "recommendations", len(recs))

	return &ChatResponse{
		Message:         reply,
		SessionID:       sessionID,
		Recommendations: recs,
		Success:         true,
	}
}

// Recommend runs a full exchange and only returns its recommendations.
func (s *Service) Recommend(ctx context.Context, in ChatRequest) []ProductRecommendation {
	resp := s.Chat(ctx, in)
	if resp.Recommendations == nil {
		return []ProductRecommendation{}
	}
	return resp.Recommendations
}

// History returns the most recent turns of a session in chronological order.
// A requested maximum can only shrink the configured window, never grow it;
// maxMessages <= 0 yields an empty history.
func (s *Service) History(ctx context.Context, sessionID domain.SessionID, maxMessages int) ([]*domain.ChatTurn, error) {
	limit := min(maxMessages, s.settings.MaxHistoryMessages)

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"limit", limit,
	)

	turns, err := s.historyWindow(ctx, sessionID, limit)
	if err != nil {
		log.Error("failed to get history", "error", err)
		return nil, err
	}

	log.Info("fetched chat history", "turn_count", len(turns))
	return turns, nil
}

// historyWindow fetches the newest limit turns (store order: newest first)
// and reverses them in memory so the result is oldest first.
func (s *Service) historyWindow(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.ChatTurn, error) {
	if limit <= 0 {
		return []*domain.ChatTurn{}, nil
	}

	newestFirst, err := s.history.RecentTurns(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if len(newestFirst) > limit {
		newestFirst = newestFirst[:limit]
	}

	chronological := slices.Clone(newestFirst)
	slices.Reverse(chronological)
	return chronological, nil
}

// complete calls the gateway under the configured timeout. A panicking
// gateway is reported as an error.
func (s *Service) complete(ctx context.Context, messages []domain.LLMMessage) (c *domain.Completion, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("llm gateway panic: %v", r)
		}
	}()

	if s.settings.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.LLMTimeout)
		defer cancel()
	}

	return s.llm.Complete(ctx, messages, domain.GenerationOptions{
		Temperature:     s.settings.Temperature,
		MaxOutputTokens: s.settings.MaxOutputTokens,
	})
}

func firstFragment(c *domain.Completion) string {
	if c == nil || len(c.Fragments) == 0 {
		return ReplyNoModelResponse
	}
	text := strings.TrimSpace(c.Fragments[0])
	if text == "" {
		return ReplyNoModelResponse
	}
	return text
}

func productIDs(recs []ProductRecommendation) []domain.ProductID {
	if len(recs) == 0 {
		return nil
	}
	ids := make([]domain.ProductID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ProductID)
	}
	return ids
}

func failure(sessionID domain.SessionID, reply, errMsg string) *ChatResponse {
	return &ChatResponse{
		Message:   reply,
		SessionID: sessionID,
		Success:   false,
		Error:     errMsg,
	}
}
