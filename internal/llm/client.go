package llm

import "context"

// Client is a black-box text generator. The response carries no schema
// guarantee; callers must tolerate any shape of text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
