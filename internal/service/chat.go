package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"blockchainspace/internal/client/genai"
	"blockchainspace/internal/metrics"
)

const DefaultChatMaxWords = 200

// isoMillis is RFC 3339 in UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

const chatSystemPrompt = `You are a blockchain and Web3 expert assistant developed by the AI Research Center (AIRC) at Woxsen University. Follow these guidelines strictly:

1. SCOPE: Only answer questions about blockchain technology, cryptocurrencies, DeFi, NFTs, Web3, smart contracts, and related topics.

2. RESPONSE LENGTH: Keep responses concise and meaningful, maximum 150 words.

3. TONE: Professional but approachable, educational.

4. OUT OF SCOPE: If asked about anything outside blockchain/Web3, politely redirect: "I'm specialized in blockchain and Web3 topics. Please ask me about cryptocurrencies, DeFi, smart contracts, or other blockchain-related subjects."

5. ACCURACY: Provide accurate, up-to-date information. If uncertain, acknowledge limitations.

6. NO FINANCIAL ADVICE: Never provide investment advice. Educational information only.

7. IDENTITY: You are an AI model developed by AIRC at Woxsen University. Never name the underlying model or its vendor. If asked about your identity, say you're developed by the AI Research Center at Woxsen University.`

const (
	msgInvalidMessage  = "Valid message is required"
	msgMessageTooLong  = "Message too long. Please limit to %d words."
	msgKeyMissing      = "Chat API key not configured"
	msgInvalidKey      = "Invalid API key configuration"
	msgForbidden       = "API access forbidden. Check API key permissions."
	msgQuotaExceeded   = "API quota exceeded. Please try again later."
	msgGenerateFailed  = "Failed to generate response. Please try again."
	msgChatUnavailable = "Chat is currently disabled"
)

// ChatError carries the HTTP status and client-facing message for a
// rejected chat request.
type ChatError struct {
	Status  int
	Message string
	Err     error
}

func (e *ChatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ChatError) Unwrap() error { return e.Err }

type ChatModel interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type ChatReply struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ChatService struct {
	// Model is nil when no API key is configured.
	Model    ChatModel
	MaxWords int
	Settings *SystemSettingsService
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// ValidateMessage accepts the decoded "message" field of a request body.
func (s *ChatService) ValidateMessage(raw any) (string, error) {
	msg, ok := raw.(string)
	if !ok || strings.TrimSpace(msg) == "" {
		return "", &ChatError{Status: http.StatusBadRequest, Message: msgInvalidMessage}
	}
	limit := DefaultChatMaxWords
	if s != nil && s.MaxWords > 0 {
		limit = s.MaxWords
	}
	if len(strings.Fields(msg)) > limit {
		return "", &ChatError{Status: http.StatusBadRequest, Message: fmt.Sprintf(msgMessageTooLong, limit)}
	}
	return msg, nil
}

// Reply validates raw and relays it to the model. Validation always runs
// before the model is contacted.
func (s *ChatService) Reply(ctx context.Context, raw any) (ChatReply, error) {
	msg, err := s.ValidateMessage(raw)
	if err != nil {
		s.Metrics.RecordChat("invalid")
		return ChatReply{}, err
	}
	if s.Settings != nil && !s.Settings.IsEnabled(ctx, FeatureChat, true) {
		s.Metrics.RecordChat("disabled")
		return ChatReply{}, &ChatError{Status: http.StatusServiceUnavailable, Message: msgChatUnavailable}
	}
	if s.Model == nil {
		s.Metrics.RecordChat("unconfigured")
		return ChatReply{}, &ChatError{Status: http.StatusInternalServerError, Message: msgKeyMissing}
	}
	text, err := s.Model.Generate(ctx, chatSystemPrompt, "User question: "+msg)
	if err != nil {
		category := genai.Classify(err)
		s.logger().Warn("chat generation failed", zap.Stringer("category", category), zap.Error(err))
		s.Metrics.RecordChat(category.String())
		return ChatReply{}, chatErrorFor(category, err)
	}
	s.Metrics.RecordChat("ok")
	return ChatReply{Message: text, Timestamp: s.now().Format(isoMillis)}, nil
}

func chatErrorFor(category genai.Category, err error) *ChatError {
	switch category {
	case genai.CategoryAuth:
		return &ChatError{Status: http.StatusUnauthorized, Message: msgInvalidKey, Err: err}
	case genai.CategoryPermission:
		return &ChatError{Status: http.StatusForbidden, Message: msgForbidden, Err: err}
	case genai.CategoryQuota:
		return &ChatError{Status: http.StatusTooManyRequests, Message: msgQuotaExceeded, Err: err}
	default:
		return &ChatError{Status: http.StatusInternalServerError, Message: msgGenerateFailed, Err: err}
	}
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ChatService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
