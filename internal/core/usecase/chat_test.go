package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

func TestChatRejectsEmptyMessage(t *testing.T) {
	uc := NewChatUseCase(newFakeConversationStore(), &fakeGenerator{answer: "hi"}, nil, 12)

	_, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "   "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("Chat() error = %v, want invalid input", err)
	}
}

func TestChatAppendsBothMessages(t *testing.T) {
	store := newFakeConversationStore()
	generator := &fakeGenerator{answer: "raise weekend rates"}
	uc := NewChatUseCase(store, generator, nil, 12)

	result, err := uc.Chat(context.Background(), domain.ChatRequest{
		UserID:         "u-1",
		ConversationID: "c-1",
		Message:        "what should I charge on weekends?",
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if result.Answer != "raise weekend rates" {
		t.Fatalf("Answer = %q", result.Answer)
	}
	if result.ConversationID != "c-1" {
		t.Fatalf("ConversationID = %q", result.ConversationID)
	}
	if len(store.messages) != 2 {
		t.Fatalf("messages = %d, want user + assistant", len(store.messages))
	}
	if store.messages[0].Role != "user" || store.messages[1].Role != "assistant" {
		t.Fatalf("roles = %s/%s", store.messages[0].Role, store.messages[1].Role)
	}
}

func TestChatDefaultsAnonymousUser(t *testing.T) {
	store := newFakeConversationStore()
	uc := NewChatUseCase(store, &fakeGenerator{answer: "ok"}, nil, 12)

	if _, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "hi"}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if store.messages[0].UserID != "anonymous" {
		t.Fatalf("UserID = %q, want anonymous", store.messages[0].UserID)
	}
}

func TestChatPromptIncludesHistory(t *testing.T) {
	store := newFakeConversationStore()
	generator := &fakeGenerator{answer: "second answer"}
	uc := NewChatUseCase(store, generator, nil, 12)

	if _, err := uc.Chat(context.Background(), domain.ChatRequest{
		UserID: "u-1", ConversationID: "c-1", Message: "first question",
	}); err != nil {
		t.Fatalf("first Chat() error = %v", err)
	}
	if _, err := uc.Chat(context.Background(), domain.ChatRequest{
		UserID: "u-1", ConversationID: "c-1", Message: "second question",
	}); err != nil {
		t.Fatalf("second Chat() error = %v", err)
	}

	if !strings.Contains(generator.lastPrompt, "first question") {
		t.Fatalf("prompt missing prior turn:\n%s", generator.lastPrompt)
	}
	if !strings.Contains(generator.lastPrompt, "second question") {
		t.Fatalf("prompt missing current turn:\n%s", generator.lastPrompt)
	}
}

func TestChatPromptIncludesDatasetKPIs(t *testing.T) {
	datasets := newFakeDatasetRepo()
	datasets.datasets["ds-1"] = &domain.Dataset{ID: "ds-1", Status: domain.StatusReady}
	bookings := newFakeBookingRepo()
	bookings.records["ds-1"] = []domain.BookingRecord{
		{DatasetID: "ds-1", StayDate: time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), Price: 180, Occupancy: 0.8},
	}
	analytics := NewAnalyticsUseCase(datasets, bookings, newFakeRecommendationRepo(), &fakeCompetitorRepo{}, 85)
	generator := &fakeGenerator{answer: "ok"}
	uc := NewChatUseCase(newFakeConversationStore(), generator, analytics, 12)

	if _, err := uc.Chat(context.Background(), domain.ChatRequest{
		UserID:    "u-1",
		DatasetID: "ds-1",
		Message:   "how are we doing?",
	}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if !strings.Contains(generator.lastPrompt, "KPIs") {
		t.Fatalf("prompt missing KPI block:\n%s", generator.lastPrompt)
	}
}

func TestChatPropagatesGeneratorError(t *testing.T) {
	uc := NewChatUseCase(newFakeConversationStore(), &fakeGenerator{err: errors.New("ollama down")}, nil, 12)

	if _, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "hi"}); err == nil {
		t.Fatalf("expected error")
	}
}
