package llm

// Message is a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when set.
	Model string

	// MaxTokens caps the completion length. Zero means no limit.
	MaxTokens int

	// Temperature controls the randomness of the output. Zero leaves the server default.
	Temperature float32
}
