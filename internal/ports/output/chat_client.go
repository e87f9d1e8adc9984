package output

import (
	"context"

	"alto-client/internal/domain"
)

// ChatClient interface - Output port
// Sends one interview turn to /api/v1/chat through the authenticated fetch wrapper.
type ChatClient interface {
	// Chat posts the full conversation so far. An empty turn list with no session id
	// starts a new interview and returns the opening question.
	// The returned response has already passed boundary validation.
	Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)
}
