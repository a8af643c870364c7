package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PabloGalante/shop-assistant/internal/app/conversation"
	"github.com/PabloGalante/shop-assistant/internal/domain"
)

const (
	defaultHistoryMessages = 10
	requestTimeout         = 60 * time.Second
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(withCORS)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/message", s.handleSendMessage)
		r.Get("/history/{sessionId}", s.handleHistory)
		r.Post("/recommendations", s.handleRecommendations)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { methodNotAllowed(w) })

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	Context   string `json:"context,omitempty"`
}

type chatResponse struct {
	Message         string                   `json:"message"`
	SessionID       string                   `json:"sessionId"`
	Recommendations []recommendationResponse `json:"recommendations"`
	Success         bool                     `json:"success"`
	Error           string                   `json:"error,omitempty"`
}

type recommendationResponse struct {
	ProductID   int64   `json:"productId"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Reason      string  `json:"reason"`
}

type turnResponse struct {
	ID                    int64     `json:"id"`
	SessionID             string    `json:"sessionId"`
	Role                  string    `json:"role"`
	Content               string    `json:"content"`
	Timestamp             time.Time `json:"timestamp"`
	RecommendedProductIDs []int64   `json:"recommendedProductIds,omitempty"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	out := s.svc.Chat(r.Context(), conversation.ChatRequest{
		Message:   req.Message,
		SessionID: domain.SessionID(req.SessionID),
		Context:   req.Context,
	})

	// exchange failures still answer 200; the body carries success=false
	writeJSON(w, http.StatusOK, toChatResponse(out))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if strings.TrimSpace(sessionID) == "" {
		badRequest(w, "sessionId is required")
		return
	}

	maxMessages := defaultHistoryMessages
	if raw := r.URL.Query().Get("maxMessages"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "maxMessages must be an integer")
			return
		}
		maxMessages = n
	}

	turns, err := s.svc.History(r.Context(), domain.SessionID(sessionID), maxMessages)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTurnsResponse(turns))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	recs := s.svc.Recommend(r.Context(), conversation.ChatRequest{
		Message:   req.Message,
		SessionID: domain.SessionID(req.SessionID),
		Context:   req.Context,
	})

	writeJSON(w, http.StatusOK, toRecommendationsResponse(recs))
}

// decodeChatRequest writes the 400 response itself and reports false when the
// body is unusable.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			SessionID:       req.SessionID,
			Recommendations: []recommendationResponse{},
			Error:           "invalid JSON body",
		})
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Message:         conversation.ReplyEmptyMessage,
			SessionID:       req.SessionID,
			Recommendations: []recommendationResponse{},
			Error:           conversation.ErrMsgEmptyMessage,
		})
		return req, false
	}
	return req, true
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toChatResponse(c *conversation.ChatResponse) chatResponse {
	return chatResponse{
		Message:         c.Message,
		SessionID:       string(c.SessionID),
		Recommendations: toRecommendationsResponse(c.Recommendations),
		Success:         c.Success,
		Error:           c.Error,
	}
}

func toRecommendationsResponse(recs []conversation.ProductRecommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendationResponse{
			ProductID:   int64(r.ProductID),
			SKU:         r.SKU,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			ImageURL:    r.ImageURL,
			Reason:      r.Reason,
		})
	}
	return out
}

func toTurnsResponse(turns []*domain.ChatTurn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		var ids []int64
		for _, id := range t.RecommendedProductIDs {
			ids = append(ids, int64(id))
		}
		out = append(out, turnResponse{
			ID:                    int64(t.ID),
			SessionID:             string(t.SessionID),
			Role:                  string(t.Role),
			Content:               t.Content,
			Timestamp:             t.CreatedAt,
			RecommendedProductIDs: ids,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

// internalError hides err from the client; the service already logged it.
func internalError(w http.ResponseWriter, _ error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
