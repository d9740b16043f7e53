package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dearie-app/deariebot/internal/domain"
)

type sendMessageRequest struct {
	ChatID  int64  `json:"chatId"`
	Content string `json:"content"`
}

// ChatReply is the buddy's answer to one message. ChatID is the
// conversation the backend wrote it to; for a fresh conversation (request
// chat id 0) it is the newly assigned id.
type ChatReply struct {
	ChatID int64              `json:"chatId"`
	Reply  domain.ChatMessage `json:"reply"`
}

// SendMessage delivers one member message and returns the buddy's reply.
func (c *AuthClient) SendMessage(ctx context.Context, userID, chatID int64, content string) (*ChatReply, error) {
	var res ChatReply
	err := c.doJSON(ctx, userID, http.MethodPost, "/api/chats/messages", sendMessageRequest{
		ChatID:  chatID,
		Content: content,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Messages fetches the full history of one conversation.
func (c *AuthClient) Messages(ctx context.Context, userID, chatID int64) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	path := fmt.Sprintf("/api/chats/%d/messages", chatID)
	if err := c.doJSON(ctx, userID, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EndChat closes the conversation; the backend summarizes it into a diary
// entry and returns it.
func (c *AuthClient) EndChat(ctx context.Context, userID, chatID int64) (*domain.DiaryEntry, error) {
	var entry domain.DiaryEntry
	path := fmt.Sprintf("/api/chats/%d/end", chatID)
	if err := c.doJSON(ctx, userID, http.MethodPost, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
