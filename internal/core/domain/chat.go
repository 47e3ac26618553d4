package domain

import "time"

type Conversation struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ConversationMessage struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	DatasetID      string `json:"dataset_id,omitempty"`
	Message        string `json:"message"`
}

type ChatResult struct {
	ConversationID string `json:"conversation_id"`
	Answer         string `json:"answer"`
}
