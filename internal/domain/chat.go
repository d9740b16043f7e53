package domain

import "time"

// Chat message senders as the backend reports them.
const (
	SenderMember = "MEMBER"
	SenderBuddy  = "BUDDY"
)

type ChatMessage struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chatId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
