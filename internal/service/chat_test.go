package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

type stubChatModel struct {
	reply string
	err   error
	calls int
	user  string
}

func (m *stubChatModel) Generate(_ context.Context, system, user string) (string, error) {
	m.calls++
	m.user = user
	return m.reply, m.err
}

func chatStatus(t *testing.T, err error) int {
	t.Helper()
	var chatErr *ChatError
	if !errors.As(err, &chatErr) {
		t.Fatalf("want ChatError, got %v", err)
	}
	return chatErr.Status
}

func TestChatValidation(t *testing.T) {
	model := &stubChatModel{reply: "ok"}
	svc := &ChatService{Model: model}
	tooLong := strings.TrimSpace(strings.Repeat("word ", 201))

	tests := []struct {
		name string
		in   any
		msg  string
	}{
		{"missing", nil, "Valid message is required"},
		{"number", 42.0, "Valid message is required"},
		{"empty", "", "Valid message is required"},
		{"blank", "   \n\t", "Valid message is required"},
		{"too long", tooLong, "Message too long. Please limit to 200 words."},
	}
	for _, tt := range tests {
		_, err := svc.Reply(context.Background(), tt.in)
		if status := chatStatus(t, err); status != http.StatusBadRequest {
			t.Fatalf("%s: status=%d want 400", tt.name, status)
		}
		var chatErr *ChatError
		errors.As(err, &chatErr)
		if chatErr.Message != tt.msg {
			t.Fatalf("%s: message=%q want %q", tt.name, chatErr.Message, tt.msg)
		}
	}
	if model.calls != 0 {
		t.Fatalf("upstream called %d times for invalid input", model.calls)
	}

	exactly := strings.TrimSpace(strings.Repeat("word ", 200))
	if _, err := svc.Reply(context.Background(), exactly); err != nil {
		t.Fatalf("200 words rejected: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("calls=%d want 1", model.calls)
	}
}

func TestChatReply(t *testing.T) {
	fixed := time.Date(2025, 5, 6, 7, 8, 9, 123_000_000, time.UTC)
	model := &stubChatModel{reply: "Proof of stake secures the chain by bonded validators."}
	svc := &ChatService{Model: model, Now: func() time.Time { return fixed }}

	got, err := svc.Reply(context.Background(), "What is proof of stake?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if got.Message != model.reply {
		t.Fatalf("message=%q", got.Message)
	}
	if got.Timestamp != "2025-05-06T07:08:09.123Z" {
		t.Fatalf("timestamp=%s", got.Timestamp)
	}
	if !strings.Contains(model.user, "What is proof of stake?") {
		t.Fatalf("prompt lost the question: %q", model.user)
	}
}

func TestChatMissingKey(t *testing.T) {
	_, err := (&ChatService{}).Reply(context.Background(), "hello")
	if status := chatStatus(t, err); status != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", status)
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("API key not valid"), http.StatusUnauthorized},
		{errors.New("permission denied for project"), http.StatusForbidden},
		{errors.New("quota exceeded for metric"), http.StatusTooManyRequests},
		{errors.New("connection reset by peer"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		svc := &ChatService{Model: &stubChatModel{err: tt.err}}
		_, err := svc.Reply(context.Background(), "hi")
		if status := chatStatus(t, err); status != tt.want {
			t.Fatalf("%s: status=%d want %d", tt.err, status, tt.want)
		}
	}
}

func TestChatDisabledBySwitch(t *testing.T) {
	repo := newStubRepo()
	settings := &SystemSettingsService{Repo: repo}
	if err := settings.SetEnabled(context.Background(), FeatureChat, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	model := &stubChatModel{reply: "x"}
	_, err := (&ChatService{Model: model, Settings: settings}).Reply(context.Background(), "hi")
	if status := chatStatus(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want 503", status)
	}
	if model.calls != 0 {
		t.Fatalf("upstream called while switched off")
	}
}
