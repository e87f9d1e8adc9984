package api

import (
	"context"
	"fmt"
	"net/http"

	"alto-client/internal/domain"
	"alto-client/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure Client implements ChatClient interface
var _ output.ChatClient = (*Client)(nil)

const chatPath = "/api/v1/chat"

// Chat sends one interview turn and validates the response shape before returning it
func (c *Client) Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	if request.Messages == nil {
		request.Messages = []domain.ChatTurn{}
	}

	var resp domain.ChatResponse
	if err := c.Fetch(ctx, http.MethodPost, chatPath, request, &resp); err != nil {
		return nil, err
	}

	if err := c.validator.ValidateStruct(resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	if request.SessionID == "" && resp.SessionID == "" {
		return nil, fmt.Errorf("%w: no session id on first turn", domain.ErrInvalidResponse)
	}

	logrus.Debugf("Chat turn complete, session: %s, finished: %v, analysed: %v",
		resp.SessionID, resp.Finished, resp.Analysis != nil)

	return &resp, nil
}
