package domain

// MessageRole is the role vocabulary of the chat-completion boundary.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type LLMMessage struct {
	Role    MessageRole
	Content string
}

type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Completion is what a provider returned for one request.
type Completion struct {
	Fragments    []string
	FinishReason string
	Usage        TokenUsage
}
