package domain

type ChatID string

type ChatSummary struct {
	ChatID       ChatID `json:"chat_id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// AssistantTurn is the reply to one chat message. ChatID is set by the
// server when the turn started a fresh conversation; Action carries a
// follow-up the client is expected to perform (currently only
// "generate_invoice").
type AssistantTurn struct {
	Response  string
	ChatID    ChatID
	CartCount int
	Action    string
}

const ActionGenerateInvoice = "generate_invoice"
