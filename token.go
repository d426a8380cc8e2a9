package docsum

import "context"

// TokenCounter measures how many model tokens a text occupies.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
