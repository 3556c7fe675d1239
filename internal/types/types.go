package types

import "tweet-summarizer-backend/internal/chat"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Redirect  string `json:"redirect"`
}

type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

type SubmitRequest struct {
	Message string `json:"message"`
}

// ActiveResponse is what the message pane renders.
type ActiveResponse struct {
	Conversation chat.Conversation `json:"conversation"`
	Loading      bool              `json:"loading"`
	LastError    string            `json:"lastError,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
