// Package backend abstracts the external generative text service: a
// single opaque prompt-in, text-out call.
package backend

import "context"

// Backend generates text for a prompt. Implementations are treated as
// opaque and fallible; retry policy lives in the summary service.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
