package devserver

import "alto-client/internal/domain"

type (
	// chatRequest struct - body of POST /api/v1/chat
	chatRequest struct {
		Messages  []domain.ChatTurn `json:"messages"`
		SessionID string            `json:"session_id"`
		Level     string            `json:"level"`
	}

	// messageResponse struct
	messageResponse struct {
		Message string `json:"message"`
	}

	// tokenResponse struct - login and verify-email result
	tokenResponse struct {
		AccessToken string      `json:"access_token"`
		User        domain.User `json:"user"`
	}

	// refreshResponse struct
	refreshResponse struct {
		AccessToken string `json:"access_token"`
	}
)
