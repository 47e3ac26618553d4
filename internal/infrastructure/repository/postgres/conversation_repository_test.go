package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

func TestConversationRepositoryEnsureConversationInsertsThenReads(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewConversationRepository(db)

	mock.ExpectExec("INSERT INTO conversations").
		WithArgs("u-1", "c-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM conversations").
		WithArgs("u-1", "c-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "conversation_id", "created_at", "updated_at"}).
			AddRow("u-1", "c-1", time.Now(), time.Now()))

	conv, err := repo.EnsureConversation(context.Background(), "u-1", "c-1")
	if err != nil {
		t.Fatalf("EnsureConversation() error = %v", err)
	}
	if conv.ConversationID != "c-1" {
		t.Fatalf("ConversationID = %q", conv.ConversationID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConversationRepositoryAppendMessageTouchesConversation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewConversationRepository(db)

	mock.ExpectExec("INSERT INTO conversation_messages").
		WithArgs("m-1", "u-1", "c-1", "user", "how was july occupancy?", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE conversations").
		WithArgs("u-1", "c-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg := domain.ConversationMessage{
		ID:             "m-1",
		UserID:         "u-1",
		ConversationID: "c-1",
		Role:           "user",
		Content:        "how was july occupancy?",
	}
	if err := repo.AppendMessage(context.Background(), msg); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConversationRepositoryListRecentMessagesChronological(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewConversationRepository(db)
	base := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "conversation_id", "role", "content", "created_at"}).
		AddRow("m-1", "u-1", "c-1", "user", "first", base).
		AddRow("m-2", "u-1", "c-1", "assistant", "second", base.Add(time.Minute))

	mock.ExpectQuery("FROM conversation_messages").
		WithArgs("u-1", "c-1", 12).
		WillReturnRows(rows)

	msgs, err := repo.ListRecentMessages(context.Background(), "u-1", "c-1", 12)
	if err != nil {
		t.Fatalf("ListRecentMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Fatalf("messages out of order: %v", msgs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
