package types

// Role identifies who authored a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Tool identifiers accepted in the toolId field of a chat request.
const (
	ToolSubfinder = "subfinder"
	ToolNaabu     = "naabu"
	ToolKatana    = "katana"
	ToolHTTPX     = "httpx"
	ToolGAU       = "gau"
	ToolAlterx    = "alterx"
	// ToolWebSearch answers from live web results instead of running a
	// scan backend.
	ToolWebSearch = "websearch"
)

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	ToolID      string    `json:"toolId,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      *bool     `json:"stream,omitempty"`
}

// CompletionsRequest is the body of the public POST /api/v1/chat/completions
// endpoint. It carries no tool fields and is validated strictly.
type CompletionsRequest struct {
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      *bool     `json:"stream,omitempty"`
}

// LastUserMessage returns the final message if it was sent by the user.
func LastUserMessage(msgs []Message) (Message, bool) {
	if len(msgs) == 0 {
		return Message{}, false
	}
	last := msgs[len(msgs)-1]
	if last.Role != RoleUser {
		return Message{}, false
	}
	return last, true
}
