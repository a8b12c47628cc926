package llm

import "context"

// ChatModel is the minimal chat-completion abstraction the generators depend
// on. Concrete providers stay behind this port so the domain never imports an
// SDK directly.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
