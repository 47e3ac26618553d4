package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// ChatUseCase answers dashboard assistant questions. History is persisted
// per conversation; when the request names a dataset, its KPI summary is
// embedded in the prompt so the model can ground pricing advice.
type ChatUseCase struct {
	conversations ports.ConversationStore
	generator     ports.AnswerGenerator
	analytics     ports.AnalyticsService
	historyLimit  int
}

func NewChatUseCase(
	conversations ports.ConversationStore,
	generator ports.AnswerGenerator,
	analytics ports.AnalyticsService,
	historyLimit int,
) *ChatUseCase {
	if historyLimit <= 0 {
		historyLimit = 12
	}
	return &ChatUseCase{
		conversations: conversations,
		generator:     generator,
		analytics:     analytics,
		historyLimit:  historyLimit,
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chat", fmt.Errorf("empty message"))
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	conv, err := uc.conversations.EnsureConversation(ctx, req.UserID, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}

	history, err := uc.conversations.ListRecentMessages(ctx, req.UserID, conv.ConversationID, uc.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	now := time.Now().UTC()
	if err := uc.conversations.AppendMessage(ctx, domain.ConversationMessage{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		ConversationID: conv.ConversationID,
		Role:           "user",
		Content:        req.Message,
		CreatedAt:      now,
	}); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	answer, err := uc.generator.GenerateAnswer(ctx, uc.buildPrompt(ctx, req, history))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	if err := uc.conversations.AppendMessage(ctx, domain.ConversationMessage{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		ConversationID: conv.ConversationID,
		Role:           "assistant",
		Content:        answer,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	return &domain.ChatResult{
		ConversationID: conv.ConversationID,
		Answer:         answer,
	}, nil
}

func (uc *ChatUseCase) buildPrompt(ctx context.Context, req domain.ChatRequest, history []domain.ConversationMessage) string {
	var b strings.Builder
	b.WriteString("You are a revenue-management assistant for a hospitality business. ")
	b.WriteString("Answer briefly and concretely, in the user's language.\n")

	if req.DatasetID != "" && uc.analytics != nil {
		if summary, err := uc.analytics.Summary(ctx, req.DatasetID); err == nil {
			fmt.Fprintf(&b,
				"\nCurrent dataset KPIs: total revenue %.2f, average price %.2f, average occupancy %.0f%%, RevPAU %.2f over %d distinct dates.\n",
				summary.TotalRevenue, summary.AvgPrice, summary.AvgOccupancy*100, summary.RevPAU, summary.DistinctDates)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
	}

	fmt.Fprintf(&b, "\nuser: %s\nassistant:", req.Message)
	return b.String()
}
